package versification

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// bookAliases are alternative names that resolve before any table lookup.
var bookAliases = map[string]int{
	"revelations": 66,
	"apocalypse":  66,
	"psalter":     19,
	"pss":         19,
	"qohelot":     21,
	"qoheleth":    21,
	"canticle":    22,
	"canticles":   22,
	"can":         22,
	"ss":          22,
	"songofsongs": 22,
}

// nameIndex holds the book names normalised for matching.
type nameIndex struct {
	exact map[string]int
	long  []string
	short []string
	osis  []string
}

func newNameIndex(books []BookData) *nameIndex {
	idx := &nameIndex{
		exact: make(map[string]int, len(books)*3),
		long:  make([]string, len(books)),
		short: make([]string, len(books)),
		osis:  make([]string, len(books)),
	}
	for i, b := range books {
		idx.long[i] = normalizeName(b.Name)
		idx.short[i] = normalizeName(b.Short)
		idx.osis[i] = normalizeName(b.OSIS)
	}
	// Earlier books win when two books share a normalised name.
	for i := len(books) - 1; i >= 0; i-- {
		idx.exact[idx.osis[i]] = i + 1
		idx.exact[idx.short[i]] = i + 1
		idx.exact[idx.long[i]] = i + 1
	}
	return idx
}

// normalizeName lower-cases and removes spaces.
func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

func (idx *nameIndex) lookup(text string) int {
	key := normalizeName(text)
	if key == "" {
		return 0
	}
	if _, err := strconv.Atoi(key); err == nil {
		return 0
	}
	if b, ok := bookAliases[key]; ok {
		return b
	}
	if b, ok := idx.exact[key]; ok {
		return b
	}
	for i := range idx.long {
		if strings.HasPrefix(idx.long[i], key) ||
			strings.HasPrefix(idx.short[i], key) ||
			strings.HasPrefix(idx.osis[i], key) {
			return i + 1
		}
	}
	return 0
}

// BookNumber resolves a book name or abbreviation to its number. Matching
// ignores case and spaces: aliases first, then exact names, then the first
// book in canon order that any of its names starts with the text.
func (v *Versification) BookNumber(text string) (int, error) {
	if b := v.names.lookup(text); b != 0 {
		return b, nil
	}
	return 0, errors.NewNoSuchVerse(text, "not a book name")
}

// IsBookName reports whether BookNumber would succeed.
func (v *Versification) IsBookName(text string) bool {
	return v.names.lookup(text) != 0
}

// LongBookName returns a book's full name in the given case.
func (v *Versification) LongBookName(book int, c Case) (string, error) {
	data, err := v.Book(book)
	if err != nil {
		return "", err
	}
	return renderName(data.Name, c)
}

// ShortBookName returns a book's abbreviated name in the given case.
func (v *Versification) ShortBookName(book int, c Case) (string, error) {
	data, err := v.Book(book)
	if err != nil {
		return "", err
	}
	return renderName(data.Short, c)
}

// OSISName returns a book's OSIS code, which is never re-cased.
func (v *Versification) OSISName(book int) (string, error) {
	data, err := v.Book(book)
	if err != nil {
		return "", err
	}
	return data.OSIS, nil
}

// BookByOSIS returns the book number for an exact OSIS code.
func (v *Versification) BookByOSIS(code string) (int, error) {
	for i, b := range v.books {
		if b.OSIS == code {
			return i + 1, nil
		}
	}
	return 0, errors.NewNoSuchVerse(code, "not an OSIS book code")
}

// Table names are stored in sentence case already.
func renderName(name string, c Case) (string, error) {
	if err := c.CheckRenderable(); err != nil {
		return "", err
	}
	switch c {
	case CaseLower:
		return strings.ToLower(name), nil
	case CaseUpper:
		return strings.ToUpper(name), nil
	default:
		return name, nil
	}
}
