package codes

import (
	"bufio"
	"crypto/rand"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"math/big"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

//go:embed words/*.txt
var embeddedWords embed.FS

// Casing rules for the bundled languages. Lists loaded from disk under other
// names fall back to language.Und.
var languageTags = map[string]language.Tag{
	"english": language.AmericanEnglish,
	"british": language.BritishEnglish,
	"dutch":   language.Dutch,
}

// Letters, optionally joined by single hyphens or spaces.
var wordOK = regexp.MustCompile(`^\p{L}+(?:[- ]\p{L}+)*$`)

// Lexicon is the normalized word list of one language.
type Lexicon struct {
	Name  string
	Tag   language.Tag
	Words []string
}

// NewLexicon reads one word per line from r. Entries are trimmed,
// NFC-normalized and uppercased with the casing rules of tag; malformed
// entries and duplicates are dropped.
func NewLexicon(name string, tag language.Tag, r io.Reader) (*Lexicon, error) {
	upper := cases.Upper(tag)
	seen := make(map[string]struct{})

	lex := &Lexicon{Name: name, Tag: tag}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := upper.String(norm.NFC.String(strings.TrimSpace(sc.Text())))
		if !wordOK.MatchString(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		lex.Words = append(lex.Words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s words: %w", name, err)
	}

	if len(lex.Words) < Size {
		return nil, fmt.Errorf("%s has %d usable words, need at least %d", name, len(lex.Words), Size)
	}

	return lex, nil
}

// Sample draws n distinct words without replacement.
func (l *Lexicon) Sample(r io.Reader, n int) ([]string, error) {
	drawn, _, err := take(r, l.Words, n)
	return drawn, err
}

// Languages is the set of lexicons a session may be created with.
type Languages struct {
	byName map[string]*Lexicon
}

// LoadLanguages reads the bundled word lists, then every regular file in dir
// (if set). A file is named after its language, with an optional .txt suffix,
// and replaces a bundled list of the same name.
func LoadLanguages(dir string) (*Languages, error) {
	ls := &Languages{byName: make(map[string]*Lexicon)}

	if err := ls.loadFS(embeddedWords, "words"); err != nil {
		return nil, err
	}

	if dir != "" {
		if err := ls.loadFS(os.DirFS(dir), "."); err != nil {
			return nil, err
		}
	}

	return ls, nil
}

func (ls *Languages) loadFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("list word lists: %w", err)
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}

		name := strings.ToLower(strings.TrimSuffix(e.Name(), ".txt"))

		f, err := fsys.Open(path.Join(root, e.Name()))
		if err != nil {
			return fmt.Errorf("open %s words: %w", name, err)
		}

		tag, ok := languageTags[name]
		if !ok {
			tag = language.Und
		}

		lex, err := NewLexicon(name, tag, f)
		_ = f.Close()
		if err != nil {
			return err
		}

		ls.byName[name] = lex
	}

	return nil
}

// Add registers lex under its name, replacing any existing entry.
func (ls *Languages) Add(lex *Lexicon) {
	ls.byName[lex.Name] = lex
}

// Lookup returns the lexicon registered under name.
func (ls *Languages) Lookup(name string) (*Lexicon, bool) {
	lex, ok := ls.byName[name]
	return lex, ok
}

// Names lists the registered languages in sorted order.
func (ls *Languages) Names() []string {
	names := make([]string, 0, len(ls.byName))
	for name := range ls.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// randIntn returns a uniform integer in [0, n) read from r.
func randIntn(r io.Reader, n int) (int, error) {
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}

// take draws n words from words without replacement. words is not modified;
// drawn and rest are fresh slices that together hold every input word.
func take(r io.Reader, words []string, n int) (drawn, rest []string, err error) {
	if n < 0 || n > len(words) {
		return nil, nil, fmt.Errorf("cannot draw %d of %d words", n, len(words))
	}

	pool := make([]string, len(words))
	copy(pool, words)

	for i := 0; i < n; i++ {
		j, err := randIntn(r, len(pool)-i)
		if err != nil {
			return nil, nil, err
		}
		pool[i], pool[i+j] = pool[i+j], pool[i]
	}

	return pool[:n:n], pool[n:], nil
}
