package codes

// Transitions of the game. Each one reads the state, returns the change to
// apply or a failure, and never writes to the state itself.

func copyPlayers(players map[string]Side, extra int) map[string]Side {
	out := make(map[string]Side, len(players)+extra)
	for name, side := range players {
		out[name] = side
	}
	return out
}

func sideOf(st *State, name string) (Side, error) {
	side, ok := st.Players[name]
	if !ok {
		return NoSide, InvalidAction(ReasonNotJoined)
	}
	return side, nil
}

// Join adds name on side. Joining again under a name already in the game is a
// no-op whatever side is given.
func Join(st *State, name string, side Side) (*Delta, error) {
	if _, ok := st.Players[name]; ok {
		return nil, nil
	}
	if st.Hint != "" {
		return nil, ErrInProgress
	}
	if !side.Valid() {
		return nil, InvalidParameter("side")
	}

	players := copyPlayers(st.Players, 1)
	players[name] = side

	return &Delta{Players: players}, nil
}

// Leave removes name from the game.
func Leave(st *State, name string) (*Delta, error) {
	if st.Hint != "" {
		return nil, ErrInProgress
	}
	if _, ok := st.Players[name]; !ok {
		return nil, nil
	}

	players := copyPlayers(st.Players, 0)
	delete(players, name)

	return &Delta{Players: players}, nil
}

// Start hands the first guess to the side opposite the starter.
func Start(st *State, name string) (*Delta, error) {
	if st.GameOver {
		return nil, InvalidAction(ReasonGameOver)
	}

	var a, b bool
	for _, side := range st.Players {
		switch side {
		case SideA:
			a = true
		case SideB:
			b = true
		}
	}
	if !a || !b {
		return nil, InvalidAction(ReasonMissingSides)
	}

	side, err := sideOf(st, name)
	if err != nil {
		return nil, err
	}

	if st.Active == side.Other() {
		return nil, nil
	}

	return &Delta{Active: side.Other()}, nil
}

// GiveHint sets the clue for the active side. Only the side that is not
// guessing may give it.
func GiveHint(st *State, name, text string) (*Delta, error) {
	if st.GameOver {
		return nil, InvalidAction(ReasonGameOver)
	}
	if text == "" {
		return nil, InvalidParameter("hint")
	}
	if st.Hint != "" {
		return nil, InvalidAction(ReasonExistingHint)
	}

	side, err := sideOf(st, name)
	if err != nil {
		return nil, err
	}
	if !st.Active.Valid() || side != st.Active.Other() {
		return nil, InvalidAction(ReasonWrongSide)
	}

	return &Delta{Hint: text}, nil
}

// Guess checks word against the guessing side's own key. Black ends the
// game, green reveals the word and keeps the round going, white reveals the
// word for the guessing side and passes the turn.
func Guess(st *State, name, word string) (*Delta, error) {
	if st.GameOver {
		return nil, InvalidAction(ReasonGameOver)
	}
	if st.Hint == "" {
		return nil, InvalidAction(ReasonNoHint)
	}

	side, err := sideOf(st, name)
	if err != nil {
		return nil, err
	}
	if side != st.Active {
		return nil, InvalidAction(ReasonWrongSide)
	}
	if st.Green.Has(word) || st.White(side).Has(word) {
		return nil, InvalidAction(ReasonAlreadyGuessed)
	}

	category, ok := st.Keys.For(side).Classify(word)
	if !ok {
		return nil, InvalidAction(ReasonNotInPlay)
	}

	switch category {
	case Black:
		return &Delta{GameOver: true}, nil
	case Green:
		return &Delta{RevealGreen: word}, nil
	default:
		d, err := GiveUp(st, name)
		if err != nil {
			return nil, err
		}
		d.RevealWhite = word
		d.WhiteFor = side
		return d, nil
	}
}

// GiveUp ends the round for the guessing side and passes the turn.
func GiveUp(st *State, name string) (*Delta, error) {
	if st.GameOver {
		return nil, InvalidAction(ReasonGameOver)
	}
	if st.Hint == "" {
		return nil, InvalidAction(ReasonNoHint)
	}

	side, err := sideOf(st, name)
	if err != nil {
		return nil, err
	}
	if side != st.Active {
		return nil, InvalidAction(ReasonWrongSide)
	}

	return &Delta{ClearHint: true, Active: st.Active.Other()}, nil
}
