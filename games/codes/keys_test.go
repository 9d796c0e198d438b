package codes

import (
	"crypto/rand"
	"testing"
)

func TestGenerateKeysPartition(t *testing.T) {
	lex := testLexicon(t)

	for i := 0; i < 200; i++ {
		words, err := lex.Sample(rand.Reader, Size)
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		keys, err := GenerateKeys(rand.Reader, words)
		if err != nil {
			t.Fatalf("generate keys: %v", err)
		}

		for _, side := range []Side{SideA, SideB} {
			k := keys.For(side)
			if len(k.Green) != 9 || len(k.Black) != 3 || len(k.White) != 13 {
				t.Fatalf("side %v: expected 9/3/13, got %d/%d/%d", side, len(k.Green), len(k.Black), len(k.White))
			}
			for _, w := range words {
				n := 0
				for _, set := range []WordSet{k.Green, k.Black, k.White} {
					if set.Has(w) {
						n++
					}
				}
				if n != 1 {
					t.Fatalf("side %v: expected %q in exactly one category, found in %d", side, w, n)
				}
			}
			if len(newWordSet(k.Green.Sorted(), k.Black.Sorted(), k.White.Sorted())) != Size {
				t.Fatalf("side %v: categories do not cover the grid", side)
			}
		}

		counts := make(map[[2]Category]int)
		for _, w := range words {
			a, _ := keys.A.Classify(w)
			b, _ := keys.B.Classify(w)
			counts[[2]Category{a, b}]++
		}

		want := map[[2]Category]int{
			{Green, Green}: sharedGreen,
			{Black, Black}: sharedBlack,
			{Green, Black}: greenABlackB,
			{Black, Green}: greenBBlackA,
			{Black, White}: blackAWhiteB,
			{White, Black}: blackBWhiteA,
			{Green, White}: greenAWhiteB,
			{White, Green}: greenBWhiteA,
			{White, White}: sharedNeutrals,
		}
		for pair, n := range want {
			if counts[pair] != n {
				t.Fatalf("expected %d words classified %v, got %d", n, pair, counts[pair])
			}
		}
	}
}

func TestGenerateKeysSizes(t *testing.T) {
	if greenPerSide != 9 || blackPerSide != 3 || whitePerSide != 13 || sharedNeutrals != 7 {
		t.Fatalf("unexpected draw sizes %d/%d/%d/%d", greenPerSide, blackPerSide, whitePerSide, sharedNeutrals)
	}
}

func TestGenerateKeysRejectsBadInput(t *testing.T) {
	if _, err := GenerateKeys(rand.Reader, filler(Size-1)); err == nil {
		t.Fatal("expected error for a short grid")
	}

	words := filler(Size)
	words[1] = words[0]
	if _, err := GenerateKeys(rand.Reader, words); err == nil {
		t.Fatal("expected error for duplicate words")
	}
}

func TestGenerateKeysReaderFailure(t *testing.T) {
	if _, err := GenerateKeys(failingReader{}, filler(Size)); err == nil {
		t.Fatal("expected error from failing reader")
	}
}

func TestKeysForPanicsWithoutSide(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for NoSide")
		}
	}()

	var k Keys
	k.For(NoSide)
}
