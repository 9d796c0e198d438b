package codes

import (
	"sync"
	"sync/atomic"
	"time"
)

// Grid is the display order of a session's words.
type Grid [Rows][Columns]string

// State is the game data of one session. Transitions read it and return a
// Delta; only Session.Do writes to it.
type State struct {
	Language string
	Grid     Grid
	Words    WordSet
	Keys     Keys

	// Players maps a name to its side.
	Players map[string]Side
	// Active is the side expected to guess, NoSide before the game starts.
	Active Side
	// Hint is the current clue, empty when no round is underway.
	Hint string
	// Green holds the words revealed green, shared by both sides.
	Green WordSet
	// WhiteA and WhiteB hold the words each side revealed white.
	WhiteA   WordSet
	WhiteB   WordSet
	GameOver bool
}

// White returns the words revealed white by side.
func (st *State) White(side Side) WordSet {
	switch side {
	case SideA:
		return st.WhiteA
	case SideB:
		return st.WhiteB
	}
	return nil
}

// PlayersOn lists the names on side, sorted.
func (st *State) PlayersOn(side Side) []string {
	s := make(WordSet)
	for name, sd := range st.Players {
		if sd == side {
			s[name] = struct{}{}
		}
	}
	return s.Sorted()
}

// Delta is the change a transition asks for. The zero value changes nothing.
type Delta struct {
	// Players replaces the player table when non-nil.
	Players map[string]Side
	// Active replaces the active side unless it is NoSide.
	Active    Side
	Hint      string
	ClearHint bool
	// RevealGreen is added to the shared green reveals when non-empty.
	RevealGreen string
	// RevealWhite is added to the white reveals of WhiteFor when non-empty.
	RevealWhite string
	WhiteFor    Side
	GameOver    bool
}

func (d *Delta) apply(st *State) {
	if d.Players != nil {
		st.Players = d.Players
	}
	if d.Active != NoSide {
		st.Active = d.Active
	}
	if d.ClearHint {
		st.Hint = ""
	} else if d.Hint != "" {
		st.Hint = d.Hint
	}
	if d.RevealGreen != "" {
		st.Green = st.Green.with(d.RevealGreen)
	}
	if d.RevealWhite != "" {
		switch d.WhiteFor {
		case SideA:
			st.WhiteA = st.WhiteA.with(d.RevealWhite)
		case SideB:
			st.WhiteB = st.WhiteB.with(d.RevealWhite)
		}
	}
	if d.GameOver {
		st.GameOver = true
	}
}

// Session is one running game. All access to its state goes through the
// session mutex; the version can be read without it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	state State
	now   func() time.Time

	version    atomic.Int64
	lastActive atomic.Int64
}

func newSession(id string, st State, now func() time.Time) *Session {
	t := now()
	s := &Session{
		ID:        id,
		CreatedAt: t,
		state:     st,
		now:       now,
	}
	s.lastActive.Store(t.UnixNano())
	return s
}

// Version changes if and only if a transition was applied.
func (s *Session) Version() int64 {
	return s.version.Load()
}

// LastActive is the time of the last read or write of the session.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(s.now().UnixNano())
}

// Transition computes a change from the current state without modifying it.
// A nil Delta with a nil error means there is nothing to do.
type Transition func(st *State) (*Delta, error)

// Do runs fn and applies its delta under the session lock, bumping the
// version once. It reports whether anything was applied.
func (s *Session) Do(fn Transition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()

	d, err := fn(&s.state)
	if err != nil || d == nil {
		return false, err
	}

	d.apply(&s.state)

	// Wall-clock seconds keep versions rising across a restart of the same id.
	next := s.version.Load() + 1
	if ts := s.now().Unix(); ts > next {
		next = ts
	}
	s.version.Store(next)

	return true, nil
}

// Read runs fn with the state under the session lock. fn must not retain
// or modify st.
func (s *Session) Read(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	fn(&s.state)
}
