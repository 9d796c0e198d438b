package codes

import (
	"time"
	"unicode"

	"github.com/rs/zerolog"
)

// Actions accepted by Engine.Play.
const (
	ActionJoin    = "join"
	ActionLeave   = "leave"
	ActionRestart = "restart"
	ActionStart   = "start"
	ActionHint    = "hint"
	ActionGuess   = "guess"
	ActionGiveUp  = "give up"
)

// Request is one player action against one session.
type Request struct {
	Game     string `json:"game"`
	Name     string `json:"name"`
	Action   string `json:"action"`
	Side     string `json:"side,omitempty"`
	Language string `json:"language,omitempty"`
	Hint     string `json:"hint,omitempty"`
	Word     string `json:"word,omitempty"`
}

// Engine routes player actions to sessions.
type Engine struct {
	store *Store
	log   zerolog.Logger
	poll  time.Duration
}

// NewEngine serves actions against store. poll is the version polling
// interval suggested to clients.
func NewEngine(store *Store, log zerolog.Logger, poll time.Duration) *Engine {
	return &Engine{store: store, log: log, poll: poll}
}

// Store returns the sessions the engine acts on.
func (e *Engine) Store() *Store {
	return e.store
}

// validIdent accepts non-empty printable strings without whitespace.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Play applies req and returns the board as the acting player now sees it.
// Leave and restart return a nil board.
//
// Any other action first joins the player, creating the session if needed;
// side is required for a new player and language for a new session.
func (e *Engine) Play(req Request) (*Board, error) {
	if !validIdent(req.Game) {
		return nil, InvalidParameter("game")
	}
	if !validIdent(req.Name) {
		return nil, InvalidParameter("name")
	}

	log := e.log.With().Str("game", req.Game).Str("name", req.Name).Str("action", req.Action).Logger()

	switch req.Action {
	case ActionLeave:
		s, err := e.store.Get(req.Game)
		if err != nil {
			return nil, err
		}
		applied, err := s.Do(func(st *State) (*Delta, error) {
			return Leave(st, req.Name)
		})
		if applied {
			log.Debug().Msg("GAMES: player left")
		}
		return nil, err

	case ActionRestart:
		e.store.Delete(req.Game)
		log.Debug().Msg("GAMES: session restarted")
		return nil, nil
	}

	var (
		transition Transition
		over       bool
	)
	switch req.Action {
	case "", ActionJoin:
	case ActionStart:
		transition = func(st *State) (*Delta, error) { return Start(st, req.Name) }
	case ActionHint:
		transition = func(st *State) (*Delta, error) { return GiveHint(st, req.Name, req.Hint) }
	case ActionGuess:
		transition = func(st *State) (*Delta, error) {
			d, err := Guess(st, req.Name, req.Word)
			over = d != nil && d.GameOver
			return d, err
		}
	case ActionGiveUp:
		transition = func(st *State) (*Delta, error) { return GiveUp(st, req.Name) }
	default:
		return nil, InvalidParameter("action")
	}

	s, _, err := e.store.GetOrCreate(req.Game, req.Language)
	if err != nil {
		return nil, err
	}

	// An unparseable side only matters to a new player; Join reports it.
	side, _ := ParseSide(req.Side)

	joined, err := s.Do(func(st *State) (*Delta, error) {
		return Join(st, req.Name, side)
	})
	if err != nil {
		return nil, err
	}
	if joined {
		log.Debug().Stringer("side", side).Msg("GAMES: player joined")
	}

	if transition != nil {
		if _, err := s.Do(transition); err != nil {
			return nil, err
		}
		if over {
			log.Debug().Str("word", req.Word).Msg("GAMES: game over")
		}
	}

	return NewBoard(s, req.Name, e.poll)
}

// Status returns the version of a session without taking its lock.
func (e *Engine) Status(id string) (int64, error) {
	s, err := e.store.Get(id)
	if err != nil {
		return 0, err
	}
	return s.Version(), nil
}

// Board returns the board of an existing session for a joined player.
func (e *Engine) Board(id, name string) (*Board, error) {
	s, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}
	return NewBoard(s, name, e.poll)
}
