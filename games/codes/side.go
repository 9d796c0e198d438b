package codes

import (
	"fmt"
	"strings"
)

const (
	// Rows is the number of rows in the grid.
	Rows = 5
	// Columns is the number of columns in the grid.
	Columns = 5
	// Size is the number of words in a game.
	Size = Rows * Columns
)

// Side is one of the two teams in a session.
type Side uint8

const (
	// NoSide is only used for the active side before the game starts.
	NoSide Side = iota
	// SideA is the first team.
	SideA
	// SideB is the second team.
	SideB
)

// ParseSide accepts "a" or "b" in either case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return SideA, nil
	case "b":
		return SideB, nil
	}
	return NoSide, fmt.Errorf("side must be %q or %q, got %q", "a", "b", s)
}

// Valid reports whether s is one of the two teams.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Other returns the opposing team. NoSide has no opponent.
func (s Side) Other() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return NoSide
	}
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "a"
	case SideB:
		return "b"
	default:
		return ""
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = NoSide
		return nil
	}
	side, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// Category is how a key classifies a word.
type Category string

const (
	Green Category = "green"
	Black Category = "black"
	White Category = "white"
)

// Color is what play has revealed about a word so far.
type Color string

const (
	ColorUnknown Color = "unknown"
	ColorGreen   Color = "green"
	ColorWhite   Color = "white"
)
