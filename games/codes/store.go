package codes

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store holds the live sessions keyed by id, so each id is its own
// isolated game.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	langs       *Languages
	log         zerolog.Logger
	idleTimeout time.Duration

	random io.Reader
	now    func() time.Time
}

// NewStore builds an empty store. Sessions idle for longer than idleTimeout
// are dropped once Run is started; zero keeps them until restarted.
func NewStore(langs *Languages, log zerolog.Logger, idleTimeout time.Duration) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		langs:       langs,
		log:         log,
		idleTimeout: idleTimeout,
		random:      rand.Reader,
		now:         time.Now,
	}
}

// Languages returns the lexicons sessions can be created with.
func (st *Store) Languages() *Languages {
	return st.langs
}

// GetOrCreate returns the session for id, creating it with a fresh grid in
// lang if there is none. lang is only checked when creating.
func (st *Store) GetOrCreate(id, lang string) (*Session, bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok {
		s.touch()
		return s, false, nil
	}

	lex, ok := st.langs.Lookup(lang)
	if !ok {
		return nil, false, InvalidParameter("language")
	}

	state, err := newState(st.random, lex)
	if err != nil {
		return nil, false, fmt.Errorf("create session %s: %w", id, err)
	}

	s := newSession(id, state, st.now)
	st.sessions[id] = s

	st.log.Debug().Str("game", id).Str("language", lang).Msg("GAMES: created session")

	return s, true, nil
}

func newState(r io.Reader, lex *Lexicon) (State, error) {
	words, err := lex.Sample(r, Size)
	if err != nil {
		return State{}, err
	}

	keys, err := GenerateKeys(r, words)
	if err != nil {
		return State{}, err
	}

	var grid Grid
	for i, w := range words {
		grid[i/Columns][i%Columns] = w
	}

	return State{
		Language: lex.Name,
		Grid:     grid,
		Words:    newWordSet(words),
		Keys:     keys,
		Players:  make(map[string]Side),
		Green:    make(WordSet),
		WhiteA:   make(WordSet),
		WhiteB:   make(WordSet),
	}, nil
}

// Get returns the session for id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	s.touch()
	return s, nil
}

// Delete drops the session for id, if any.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; ok {
		delete(st.sessions, id)
		st.log.Debug().Str("game", id).Msg("GAMES: deleted session")
	}
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	return len(st.sessions)
}

// NewID generates a random id that no live session uses.
func (st *Store) NewID() (string, error) {
	buf := make([]byte, 10)
	for {
		if _, err := io.ReadFull(st.random, buf); err != nil {
			return "", fmt.Errorf("generate game id: %w", err)
		}
		id := hex.EncodeToString(buf)

		st.mu.Lock()
		_, exists := st.sessions[id]
		st.mu.Unlock()

		if !exists {
			return id, nil
		}
	}
}

// Run removes idle sessions until ctx is done. It returns at once when no
// idle timeout is configured.
func (st *Store) Run(ctx context.Context) {
	if st.idleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(st.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.reap(st.now().Add(-st.idleTimeout))
		}
	}
}

// reap drops sessions last used before cutoff and returns how many.
func (st *Store) reap(cutoff time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for id, s := range st.sessions {
		if s.LastActive().Before(cutoff) {
			delete(st.sessions, id)
			n++
			st.log.Debug().Str("game", id).Msg("GAMES: reaped idle session")
		}
	}
	return n
}
