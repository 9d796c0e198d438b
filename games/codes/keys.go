package codes

import (
	"fmt"
	"io"
	"sort"
)

// WordSet is an unordered set of words.
type WordSet map[string]struct{}

func newWordSet(groups ...[]string) WordSet {
	s := make(WordSet)
	for _, g := range groups {
		for _, w := range g {
			s[w] = struct{}{}
		}
	}
	return s
}

// Has reports whether w is in the set.
func (s WordSet) Has(w string) bool {
	_, ok := s[w]
	return ok
}

func (s WordSet) with(w string) WordSet {
	out := make(WordSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[w] = struct{}{}
	return out
}

// Sorted returns the words in lexical order.
func (s WordSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Key is one side's private classification of the grid.
type Key struct {
	Green WordSet
	Black WordSet
	White WordSet
}

// Classify returns the category of w, or false if the key does not cover it.
func (k *Key) Classify(w string) (Category, bool) {
	switch {
	case k.Black.Has(w):
		return Black, true
	case k.Green.Has(w):
		return Green, true
	case k.White.Has(w):
		return White, true
	}
	return "", false
}

// Keys holds both sides' keys for one grid.
type Keys struct {
	A Key
	B Key
}

// For returns the key of side. It panics on NoSide.
func (k *Keys) For(side Side) *Key {
	switch side {
	case SideA:
		return &k.A
	case SideB:
		return &k.B
	}
	panic(fmt.Sprintf("codes: no key for side %d", side))
}

// Draw sizes, in draw order. The seven words left over are white for both.
const (
	sharedGreen    = 3
	sharedBlack    = 1
	greenABlackB   = 1
	greenBBlackA   = 1
	blackAWhiteB   = 1
	blackBWhiteA   = 1
	greenAWhiteB   = 5
	greenBWhiteA   = 5
	greenPerSide   = sharedGreen + greenABlackB + greenAWhiteB
	blackPerSide   = sharedBlack + blackAWhiteB + greenBBlackA
	whitePerSide   = Size - greenPerSide - blackPerSide
	sharedNeutrals = Size - sharedGreen - sharedBlack - greenABlackB - greenBBlackA -
		blackAWhiteB - blackBWhiteA - greenAWhiteB - greenBWhiteA
)

// GenerateKeys splits words into both sides' keys with randomness from r.
// words must hold exactly Size distinct entries.
func GenerateKeys(r io.Reader, words []string) (Keys, error) {
	if len(words) != Size || len(newWordSet(words)) != Size {
		return Keys{}, fmt.Errorf("need %d distinct words, got %d", Size, len(words))
	}

	var err error
	rest := words
	draw := func(n int) []string {
		if err != nil {
			return nil
		}
		var drawn []string
		drawn, rest, err = take(r, rest, n)
		return drawn
	}

	var (
		green = draw(sharedGreen)
		black = draw(sharedBlack)
		gAbB  = draw(greenABlackB)
		gBbA  = draw(greenBBlackA)
		bAwB  = draw(blackAWhiteB)
		bBwA  = draw(blackBWhiteA)
		gAwB  = draw(greenAWhiteB)
		gBwA  = draw(greenBWhiteA)
	)
	if err != nil {
		return Keys{}, err
	}

	return Keys{
		A: Key{
			Green: newWordSet(green, gAbB, gAwB),
			Black: newWordSet(black, bAwB, gBbA),
			White: newWordSet(rest, bBwA, gBwA),
		},
		B: Key{
			Green: newWordSet(green, gBbA, gBwA),
			Black: newWordSet(black, bBwA, gAbB),
			White: newWordSet(rest, bAwB, gAwB),
		},
	}, nil
}
