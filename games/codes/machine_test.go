package codes

import (
	"crypto/rand"
	"errors"
	"reflect"
	"testing"
	"time"
)

func epoch() time.Time { return time.Unix(0, 0) }

func newTestSession(t *testing.T) *Session {
	t.Helper()

	state, err := newState(rand.Reader, testLexicon(t))
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	return newSession("test", state, epoch)
}

func mustDo(t *testing.T, s *Session, fn Transition) {
	t.Helper()

	if _, err := s.Do(fn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func expectErr(t *testing.T, err error, want *Error) {
	t.Helper()

	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func join(name string, side Side) Transition {
	return func(st *State) (*Delta, error) { return Join(st, name, side) }
}

func leave(name string) Transition {
	return func(st *State) (*Delta, error) { return Leave(st, name) }
}

func start(name string) Transition {
	return func(st *State) (*Delta, error) { return Start(st, name) }
}

func hint(name, text string) Transition {
	return func(st *State) (*Delta, error) { return GiveHint(st, name, text) }
}

func guess(name, word string) Transition {
	return func(st *State) (*Delta, error) { return Guess(st, name, word) }
}

func giveUp(name string) Transition {
	return func(st *State) (*Delta, error) { return GiveUp(st, name) }
}

// startedSession has alice on A, bob on B, and alice has started: B guesses.
func startedSession(t *testing.T) *Session {
	t.Helper()

	s := newTestSession(t)
	mustDo(t, s, join("alice", SideA))
	mustDo(t, s, join("bob", SideB))
	mustDo(t, s, start("alice"))
	return s
}

// hintedSession is a startedSession where alice has given a hint to bob.
func hintedSession(t *testing.T) *Session {
	t.Helper()

	s := startedSession(t)
	mustDo(t, s, hint("alice", "clue"))
	return s
}

// wordOf returns some word from the set chosen by pick.
func wordOf(s *Session, pick func(st *State) WordSet) string {
	var w string
	s.Read(func(st *State) {
		w = pick(st).Sorted()[0]
	})
	return w
}

func snapshot(s *Session) State {
	var out State
	s.Read(func(st *State) { out = *st })
	return out
}

func TestJoinIsIdempotent(t *testing.T) {
	s := newTestSession(t)

	applied, err := s.Do(join("alice", SideA))
	if err != nil || !applied {
		t.Fatalf("expected first join to apply, got %v %v", applied, err)
	}
	v := s.Version()

	applied, err = s.Do(join("alice", SideA))
	if err != nil || applied {
		t.Fatalf("expected second join to be a no-op, got %v %v", applied, err)
	}
	if s.Version() != v {
		t.Fatalf("expected version %d to stay, got %d", v, s.Version())
	}

	applied, _ = s.Do(join("alice", SideB))
	if applied {
		t.Fatal("expected rejoin under a taken name not to switch sides")
	}

	if got := snapshot(s).Players; !reflect.DeepEqual(got, map[string]Side{"alice": SideA}) {
		t.Fatalf("unexpected players %v", got)
	}
}

func TestJoinValidation(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Do(join("carol", NoSide))
	expectErr(t, err, InvalidParameter("side"))

	s = hintedSession(t)
	v := s.Version()

	_, err = s.Do(join("carol", SideA))
	expectErr(t, err, ErrInProgress)

	_, err = s.Do(leave("alice"))
	expectErr(t, err, ErrInProgress)

	if s.Version() != v {
		t.Fatal("expected failures to leave the version alone")
	}
}

func TestLeaveJoinRoundTrip(t *testing.T) {
	s := startedSession(t)
	before := snapshot(s).Players

	mustDo(t, s, leave("bob"))
	if _, ok := snapshot(s).Players["bob"]; ok {
		t.Fatal("expected bob to be gone")
	}

	mustDo(t, s, join("bob", SideB))
	if after := snapshot(s).Players; !reflect.DeepEqual(after, before) {
		t.Fatalf("expected %v after rejoin, got %v", before, after)
	}
}

func TestLeaveUnknownIsNoOp(t *testing.T) {
	s := newTestSession(t)

	applied, err := s.Do(leave("nobody"))
	if err != nil || applied {
		t.Fatalf("expected no-op, got %v %v", applied, err)
	}
	if s.Version() != 0 {
		t.Fatalf("expected version 0, got %d", s.Version())
	}
}

func TestStart(t *testing.T) {
	s := newTestSession(t)
	mustDo(t, s, join("alice", SideA))

	_, err := s.Do(start("alice"))
	expectErr(t, err, InvalidAction(ReasonMissingSides))

	mustDo(t, s, join("bob", SideB))

	_, err = s.Do(start("carol"))
	expectErr(t, err, InvalidAction(ReasonNotJoined))

	mustDo(t, s, start("alice"))
	if got := snapshot(s); got.Active != SideB || got.Hint != "" {
		t.Fatalf("expected B to guess with no hint, got %v %q", got.Active, got.Hint)
	}

	v := s.Version()
	applied, err := s.Do(start("alice"))
	if err != nil || applied || s.Version() != v {
		t.Fatalf("expected repeated start to be a no-op, got %v %v", applied, err)
	}

	mustDo(t, s, start("bob"))
	if got := snapshot(s).Active; got != SideA {
		t.Fatalf("expected A to guess after bob starts, got %v", got)
	}
}

func TestGiveHint(t *testing.T) {
	s := newTestSession(t)
	mustDo(t, s, join("alice", SideA))
	mustDo(t, s, join("bob", SideB))

	_, err := s.Do(hint("alice", "clue"))
	expectErr(t, err, InvalidAction(ReasonWrongSide))

	mustDo(t, s, start("alice"))

	_, err = s.Do(hint("bob", "clue"))
	expectErr(t, err, InvalidAction(ReasonWrongSide))

	_, err = s.Do(hint("alice", ""))
	expectErr(t, err, InvalidParameter("hint"))

	_, err = s.Do(hint("carol", "clue"))
	expectErr(t, err, InvalidAction(ReasonNotJoined))

	mustDo(t, s, hint("alice", "clue"))
	if got := snapshot(s).Hint; got != "clue" {
		t.Fatalf("expected hint %q, got %q", "clue", got)
	}

	_, err = s.Do(hint("alice", "another"))
	expectErr(t, err, InvalidAction(ReasonExistingHint))
}

func TestGuessOutOfTurn(t *testing.T) {
	s := startedSession(t)
	word := wordOf(s, func(st *State) WordSet { return st.Keys.B.Green })

	_, err := s.Do(guess("bob", word))
	expectErr(t, err, InvalidAction(ReasonNoHint))

	mustDo(t, s, hint("alice", "clue"))

	// The starter's side never guesses first.
	_, err = s.Do(guess("alice", word))
	expectErr(t, err, InvalidAction(ReasonWrongSide))

	_, err = s.Do(guess("carol", word))
	expectErr(t, err, InvalidAction(ReasonNotJoined))

	_, err = s.Do(guess("bob", "NOT A GRID WORD"))
	expectErr(t, err, InvalidAction(ReasonNotInPlay))
}

func TestGuessGreen(t *testing.T) {
	s := hintedSession(t)
	word := wordOf(s, func(st *State) WordSet { return st.Keys.B.Green })

	mustDo(t, s, guess("bob", word))

	got := snapshot(s)
	if len(got.Green) != 1 || !got.Green.Has(word) {
		t.Fatalf("expected %q revealed green, got %v", word, got.Green)
	}
	if got.Active != SideB || got.Hint != "clue" || got.GameOver {
		t.Fatalf("expected round to continue, got active %v hint %q over %v", got.Active, got.Hint, got.GameOver)
	}

	_, err := s.Do(guess("bob", word))
	expectErr(t, err, InvalidAction(ReasonAlreadyGuessed))
}

func TestGuessWhite(t *testing.T) {
	s := hintedSession(t)
	word := wordOf(s, func(st *State) WordSet { return st.Keys.B.White })

	mustDo(t, s, guess("bob", word))

	got := snapshot(s)
	if !got.WhiteB.Has(word) || len(got.WhiteA) != 0 {
		t.Fatalf("expected %q revealed white for B only, got %v %v", word, got.WhiteA, got.WhiteB)
	}
	if got.Hint != "" || got.Active != SideA {
		t.Fatalf("expected turn to pass to A, got active %v hint %q", got.Active, got.Hint)
	}

	// B may hint now, and A may pick the same word: it is only white for B.
	mustDo(t, s, hint("bob", "other"))
	_, err := s.Do(guess("alice", word))
	if errors.Is(err, InvalidAction(ReasonAlreadyGuessed)) {
		t.Fatal("expected a word white for B to stay guessable by A")
	}
}

func TestGuessBlackEndsGame(t *testing.T) {
	s := hintedSession(t)
	word := wordOf(s, func(st *State) WordSet { return st.Keys.B.Black })

	mustDo(t, s, guess("bob", word))

	got := snapshot(s)
	if !got.GameOver {
		t.Fatal("expected game over")
	}
	if got.Active != SideB || got.Hint != "clue" {
		t.Fatalf("expected terminal state to keep turn and hint, got %v %q", got.Active, got.Hint)
	}
}

func TestGameOverIsTerminal(t *testing.T) {
	s := hintedSession(t)
	mustDo(t, s, guess("bob", wordOf(s, func(st *State) WordSet { return st.Keys.B.Black })))

	v := s.Version()
	before := snapshot(s)
	green := wordOf(s, func(st *State) WordSet { return st.Keys.B.Green })

	attempts := []Transition{
		start("alice"),
		start("bob"),
		hint("alice", "again"),
		hint("bob", "again"),
		guess("bob", green),
		guess("alice", green),
		giveUp("bob"),
		giveUp("alice"),
		join("carol", SideA),
		leave("alice"),
	}

	for i, fn := range attempts {
		applied, err := s.Do(fn)
		if applied {
			t.Fatalf("attempt %d: expected nothing to apply after game over", i)
		}
		if err == nil {
			t.Fatalf("attempt %d: expected a failure after game over", i)
		}
	}

	if s.Version() != v {
		t.Fatalf("expected version %d, got %d", v, s.Version())
	}
	if after := snapshot(s); !reflect.DeepEqual(after, before) {
		t.Fatal("expected state to be unchanged after game over")
	}
}

func TestGiveUp(t *testing.T) {
	s := startedSession(t)

	_, err := s.Do(giveUp("bob"))
	expectErr(t, err, InvalidAction(ReasonNoHint))

	mustDo(t, s, hint("alice", "clue"))

	_, err = s.Do(giveUp("alice"))
	expectErr(t, err, InvalidAction(ReasonWrongSide))

	mustDo(t, s, giveUp("bob"))

	got := snapshot(s)
	if got.Hint != "" || got.Active != SideA {
		t.Fatalf("expected A to guess with no hint, got %v %q", got.Active, got.Hint)
	}
	if len(got.WhiteA)+len(got.WhiteB)+len(got.Green) != 0 {
		t.Fatal("expected giving up to reveal nothing")
	}
}

func TestTransitionsDoNotMutate(t *testing.T) {
	s := hintedSession(t)
	st := snapshot(s)
	players := copyPlayers(st.Players, 0)
	white := st.Keys.B.White.Sorted()[0]

	if _, err := Join(&st, "carol", SideA); err == nil {
		t.Fatal("expected join to fail mid-round")
	}
	if d, err := Guess(&st, "bob", white); err != nil || d == nil {
		t.Fatalf("expected a delta, got %v %v", d, err)
	}

	if !reflect.DeepEqual(st.Players, players) || st.Hint != "clue" || len(st.WhiteB) != 0 {
		t.Fatal("expected transitions to leave the state untouched")
	}
}

func TestVersionCountsAppliedChanges(t *testing.T) {
	s := newTestSession(t)

	mustDo(t, s, join("alice", SideA))
	mustDo(t, s, join("alice", SideA))
	mustDo(t, s, join("bob", SideB))
	_, _ = s.Do(start("carol"))
	mustDo(t, s, start("alice"))

	if s.Version() != 3 {
		t.Fatalf("expected version 3, got %d", s.Version())
	}
}

func TestVersionFollowsClock(t *testing.T) {
	state, err := newState(rand.Reader, testLexicon(t))
	if err != nil {
		t.Fatalf("new state: %v", err)
	}

	now := time.Unix(1_700_000_000, 0)
	s := newSession("test", state, func() time.Time { return now })

	mustDo(t, s, join("alice", SideA))
	if s.Version() != now.Unix() {
		t.Fatalf("expected version %d, got %d", now.Unix(), s.Version())
	}

	mustDo(t, s, join("bob", SideB))
	if s.Version() != now.Unix()+1 {
		t.Fatalf("expected version %d, got %d", now.Unix()+1, s.Version())
	}
}
