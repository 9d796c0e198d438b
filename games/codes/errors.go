package codes

import (
	"errors"
	"net/http"
)

// Kind groups failures by what the caller should do about them.
type Kind int

const (
	// KindNotFound means the session does not exist.
	KindNotFound Kind = iota + 1
	// KindInvalidParameter means an identifier, language, side or other input was malformed.
	KindInvalidParameter
	// KindInProgress means a round is underway; join or leave again once it ends.
	KindInProgress
	// KindInvalidAction means the action does not fit the current state of the game.
	KindInvalidAction
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindInProgress:
		return "in_progress"
	case KindInvalidAction:
		return "invalid_action"
	default:
		return "unknown"
	}
}

// Reasons carried by InvalidAction failures.
const (
	ReasonMissingSides   = "missing side(s)"
	ReasonExistingHint   = "existing hint"
	ReasonWrongSide      = "wrong side"
	ReasonNoHint         = "no hint"
	ReasonAlreadyGuessed = "already guessed"
	ReasonNotInPlay      = "word not in play"
	ReasonGameOver       = "game over"
	ReasonNotJoined      = "not joined"
)

// Error is a failure meant to be shown to the acting player. The session is
// left untouched whenever one is returned.
type Error struct {
	Kind Kind
	// Detail is the offending field for KindInvalidParameter and the reason
	// for KindInvalidAction.
	Detail string
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrInProgress = &Error{Kind: KindInProgress}
)

// InvalidParameter reports a malformed or unrecognized input field.
func InvalidParameter(field string) *Error {
	return &Error{Kind: KindInvalidParameter, Detail: field}
}

// InvalidAction reports an action the current state does not allow.
func InvalidAction(reason string) *Error {
	return &Error{Kind: KindInvalidAction, Detail: reason}
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "not found"
	case KindInvalidParameter:
		return "invalid parameter: " + e.Detail
	case KindInProgress:
		return "in progress"
	default:
		return e.Detail
	}
}

// Is matches on kind, and on detail when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Detail == "" || t.Detail == e.Detail)
}

// HTTPStatus maps the failure kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInProgress:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// AsError extracts a game failure from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
