// Package passage implements verse references, verse ranges and sets of
// verses over the KJV canon: parsing them from free text, combining them, and
// naming them back in a compact canonical form.
package passage

import (
	"strconv"

	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/versification"
)

var canon = versification.KJV()

// VerseBase is implemented by Verse and VerseRange: anything that covers a
// contiguous run of verses.
type VerseBase interface {
	Start() Verse
	End() Verse
	Count() int
}

// Verse is a single verse of the canon. The zero value is Gen 1:1.
//
// Two Verses may differ in the text they were parsed from while referring to
// the same verse, so compare them with Equal rather than ==.
type Verse struct {
	idx      int // ordinal - 1
	original string
}

// NewVerse returns Gen 1:1.
func NewVerse() Verse {
	return Verse{}
}

// NewVerseFromOrdinal returns the verse at ordinal n (1 = Gen 1:1).
func NewVerseFromOrdinal(n int) (Verse, error) {
	if n < 1 || n > canon.VersesInBible() {
		return Verse{}, errors.NewNoSuchVersef(strconv.Itoa(n), "ordinal outside 1..%d", canon.VersesInBible())
	}
	return Verse{idx: n - 1}, nil
}

// NewVerseAt returns the verse at book, chapter and verse.
func NewVerseAt(book, chapter, verse int) (Verse, error) {
	ord, err := canon.Ordinal(book, chapter, verse)
	if err != nil {
		return Verse{}, err
	}
	return Verse{idx: ord - 1}, nil
}

// NewVersePatched is NewVerseAt for arbitrary input: out of range components
// are carried or clamped into a valid verse.
func NewVersePatched(book, chapter, verse int) Verse {
	ref := canon.Patch(book, chapter, verse)
	ord, _ := canon.OrdinalOf(ref)
	return Verse{idx: ord - 1}
}

func verseAt(ordinal int) Verse {
	return Verse{idx: ordinal - 1}
}

// Book returns the book number, 1 to 66.
func (v Verse) Book() int { return v.Ref().Book }

// Chapter returns the chapter number.
func (v Verse) Chapter() int { return v.Ref().Chapter }

// Verse returns the verse number within its chapter.
func (v Verse) Verse() int { return v.Ref().Verse }

// Ordinal returns the 1-based position of the verse in the canon.
func (v Verse) Ordinal() int { return v.idx + 1 }

// Ref returns the (book, chapter, verse) triple.
func (v Verse) Ref() versification.Ref {
	ref, _ := canon.Decode(v.idx + 1)
	return ref
}

// Start returns v.
func (v Verse) Start() Verse { return v }

// End returns v.
func (v Verse) End() Verse { return v }

// Count is always 1.
func (v Verse) Count() int { return 1 }

func (v Verse) IsStartOfChapter() bool { return v.Verse() == 1 }

func (v Verse) IsEndOfChapter() bool {
	r := v.Ref()
	n, _ := canon.VersesInChapter(r.Book, r.Chapter)
	return r.Verse == n
}

func (v Verse) IsStartOfBook() bool {
	r := v.Ref()
	return r.Chapter == 1 && r.Verse == 1
}

func (v Verse) IsEndOfBook() bool {
	r := v.Ref()
	last, _ := canon.ChaptersInBook(r.Book)
	return r.Chapter == last && v.IsEndOfChapter()
}

// FirstVerseInChapter returns verse 1 of v's chapter.
func (v Verse) FirstVerseInChapter() Verse {
	r := v.Ref()
	return Verse{idx: v.idx - (r.Verse - 1)}
}

// LastVerseInChapter returns the final verse of v's chapter.
func (v Verse) LastVerseInChapter() Verse {
	r := v.Ref()
	n, _ := canon.VersesInChapter(r.Book, r.Chapter)
	return Verse{idx: v.idx + n - r.Verse}
}

// FirstVerseInBook returns chapter 1 verse 1 of v's book.
func (v Verse) FirstVerseInBook() Verse {
	first, _ := NewVerseAt(v.Book(), 1, 1)
	return first
}

// LastVerseInBook returns the final verse of v's book.
func (v Verse) LastVerseInBook() Verse {
	book := v.Book()
	c, _ := canon.ChaptersInBook(book)
	n, _ := canon.VersesInChapter(book, c)
	last, _ := NewVerseAt(book, c, n)
	return last
}

// IsSameChapter reports whether both verses are in the same chapter of the same book.
func (v Verse) IsSameChapter(that Verse) bool {
	a, b := v.Ref(), that.Ref()
	return a.Book == b.Book && a.Chapter == b.Chapter
}

// IsSameBook reports whether both verses are in the same book.
func (v Verse) IsSameBook(that Verse) bool {
	return v.Book() == that.Book()
}

// Add moves n verses forward, or back for a negative n, stopping at Gen 1:1
// and Rev 22:21.
func (v Verse) Add(n int) Verse {
	return Verse{idx: step(v.idx, steps(n))}
}

// Subtract moves n verses back, or forward for a negative n, with the same
// stops as Add.
func (v Verse) Subtract(n int) Verse {
	return Verse{idx: step(v.idx, -steps(n))}
}

// steps bounds a move to the size of the canon so that idx+n cannot overflow.
func steps(n int) int {
	total := canon.VersesInBible()
	return min(max(n, -total), total)
}

func step(idx, n int) int {
	return min(max(idx+n, 0), canon.VersesInBible()-1)
}

// Distance returns v's ordinal minus that's ordinal.
func (v Verse) Distance(that Verse) int {
	return v.idx - that.idx
}

// AdjacentTo reports whether the verses are next to each other.
func (v Verse) AdjacentTo(that Verse) bool {
	d := v.idx - that.idx
	return d == 1 || d == -1
}

// Compare orders verses by ordinal.
func (v Verse) Compare(that Verse) int {
	switch {
	case v.idx < that.idx:
		return -1
	case v.idx > that.idx:
		return 1
	}
	return 0
}

// Equal reports whether both refer to the same verse.
func (v Verse) Equal(that Verse) bool {
	return v.idx == that.idx
}

// MaxVerse returns the later of two verses.
func MaxVerse(a, b Verse) Verse {
	if a.idx < b.idx {
		return b
	}
	return a
}

// MinVerse returns the earlier of two verses.
func MinVerse(a, b Verse) Verse {
	if a.idx > b.idx {
		return b
	}
	return a
}

// ToVerseArray returns v as a one-element slice.
func (v Verse) ToVerseArray() []Verse {
	return []Verse{v}
}

// Name returns the full name, e.g. "Gen 1:1" or "Jude 2".
func (v Verse) Name() string {
	return DefaultRenderOptions.VerseName(v, nil)
}

// NameFrom names v relative to base: the book is left out when it matches,
// and the chapter as well when that matches too.
func (v Verse) NameFrom(base Verse) string {
	return DefaultRenderOptions.VerseName(v, &base)
}

// String returns Name.
func (v Verse) String() string {
	return v.Name()
}

// OriginalName returns the text v was parsed from, if any.
func (v Verse) OriginalName() string {
	return v.original
}

// OSISRef returns the OSIS form, e.g. "Gen.1.1".
func (v Verse) OSISRef() string {
	r := v.Ref()
	osis, _ := canon.OSISName(r.Book)
	return osis + "." + strconv.Itoa(r.Chapter) + "." + strconv.Itoa(r.Verse)
}

func (v Verse) render(base *Verse, c versification.Case) string {
	r := v.Ref()
	opts := RenderOptions{caseMode: c}
	sameBook := base != nil && base.Book() == r.Book

	if canon.IsSingleChapterBook(r.Book) {
		if sameBook {
			return strconv.Itoa(r.Verse)
		}
		return opts.bookName(r.Book) + " " + strconv.Itoa(r.Verse)
	}
	if !sameBook {
		return opts.bookName(r.Book) + " " + strconv.Itoa(r.Chapter) + ":" + strconv.Itoa(r.Verse)
	}
	if base.Chapter() != r.Chapter {
		return strconv.Itoa(r.Chapter) + ":" + strconv.Itoa(r.Verse)
	}
	return strconv.Itoa(r.Verse)
}
