package codes

import "time"

// ColorOf reports what play has revealed about word. It is the same for every
// observer: green once anyone found it, white if the guessing side has hit it.
func ColorOf(st *State, word string) Color {
	if st.Green.Has(word) {
		return ColorGreen
	}
	if st.White(st.Active).Has(word) {
		return ColorWhite
	}
	return ColorUnknown
}

// KeyHintFor classifies word against the key of the observer's opponents,
// the key the observer gives hints for. It ignores reveals.
func KeyHintFor(st *State, observer, word string) (Category, error) {
	side, err := sideOf(st, observer)
	if err != nil {
		return "", err
	}

	k := st.Keys.For(side.Other())
	switch {
	case k.Green.Has(word):
		return Green, nil
	case k.Black.Has(word):
		return Black, nil
	default:
		return White, nil
	}
}

// Cell is one grid position as seen by a player.
type Cell struct {
	Word  string   `json:"word"`
	Color Color    `json:"color"`
	Key   Category `json:"key"`
}

// Board is everything one player may see of a session.
type Board struct {
	Game     string              `json:"game"`
	Language string              `json:"language"`
	Name     string              `json:"name"`
	Side     Side                `json:"side"`
	Version  int64               `json:"version"`
	Cells    [Rows][Columns]Cell `json:"cells"`
	Players  map[Side][]string   `json:"players"`
	Active   Side                `json:"active"`
	Hint     string              `json:"hint,omitempty"`
	YourTurn bool                `json:"yourTurn"`
	GameOver bool                `json:"gameOver"`
	// PollMS is how often the client should poll the version.
	PollMS int64 `json:"pollMs"`
}

// NewBoard renders the session for observer, who must have joined.
func NewBoard(s *Session, observer string, poll time.Duration) (*Board, error) {
	var (
		b   *Board
		err error
	)

	s.Read(func(st *State) {
		side, ok := st.Players[observer]
		if !ok {
			err = InvalidAction(ReasonNotJoined)
			return
		}

		b = &Board{
			Game:     s.ID,
			Language: st.Language,
			Name:     observer,
			Side:     side,
			Version:  s.Version(),
			Players: map[Side][]string{
				SideA: st.PlayersOn(SideA),
				SideB: st.PlayersOn(SideB),
			},
			Active:   st.Active,
			Hint:     st.Hint,
			YourTurn: st.Active.Valid() && side == st.Active,
			GameOver: st.GameOver,
			PollMS:   poll.Milliseconds(),
		}

		for i, row := range st.Grid {
			for j, word := range row {
				key, _ := KeyHintFor(st, observer, word)
				b.Cells[i][j] = Cell{
					Word:  word,
					Color: ColorOf(st, word),
					Key:   key,
				}
			}
		}
	})

	return b, err
}
