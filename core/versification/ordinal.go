package versification

import (
	"fmt"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// Ref is a raw (book, chapter, verse) triple. It is not necessarily valid.
type Ref struct {
	Book    int `json:"book"`
	Chapter int `json:"chapter"`
	Verse   int `json:"verse"`
}

// String returns the triple as "book:chapter:verse".
func (r Ref) String() string {
	return fmt.Sprintf("%d:%d:%d", r.Book, r.Chapter, r.Verse)
}

// Validate checks that a triple names a verse of the canon.
func (v *Versification) Validate(book, chapter, verse int) error {
	ref := Ref{book, chapter, verse}.String()
	if book < 1 || book > len(v.books) {
		return errors.NewNoSuchVersef(ref, "book %d outside 1..%d", book, len(v.books))
	}
	if max := v.mustChapters(book); chapter < 1 || chapter > max {
		return errors.NewNoSuchVersef(ref, "chapter %d outside 1..%d of %s", chapter, max, v.books[book-1].Short)
	}
	if max := v.mustVerses(book, chapter); verse < 1 || verse > max {
		return errors.NewNoSuchVersef(ref, "verse %d outside 1..%d of %s %d", verse, max, v.books[book-1].Short, chapter)
	}
	return nil
}

// Ordinal returns the 1-based position of a verse in the canon.
func (v *Versification) Ordinal(book, chapter, verse int) (int, error) {
	if err := v.Validate(book, chapter, verse); err != nil {
		return 0, err
	}
	return v.bookStart[book-1] + v.chapterStart[book-1][chapter-1] + verse, nil
}

// OrdinalOf is Ordinal for a Ref.
func (v *Versification) OrdinalOf(r Ref) (int, error) {
	return v.Ordinal(r.Book, r.Chapter, r.Verse)
}

// Decode converts an ordinal in 1..VersesInBible back to its triple.
func (v *Versification) Decode(ordinal int) (Ref, error) {
	if ordinal < 1 || ordinal > v.verses {
		return Ref{}, errors.NewNoSuchVersef("", "ordinal %d outside 1..%d", ordinal, v.verses)
	}

	// Binary search the book, then scan its chapters.
	lo, hi := 0, len(v.books)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if v.bookStart[mid] < ordinal {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	b := lo
	rest := ordinal - v.bookStart[b]
	starts := v.chapterStart[b]
	c := len(starts) - 1
	for c > 0 && starts[c] >= rest {
		c--
	}
	return Ref{Book: b + 1, Chapter: c + 1, Verse: rest - starts[c]}, nil
}

// Patch turns any triple into a valid one. Components below 1 become 1,
// chapters and verses past the end of their container carry into the next
// one, and anything beyond the canon clamps to its last verse.
func (v *Versification) Patch(book, chapter, verse int) Ref {
	last := v.lastRef()
	if book < 1 {
		book = 1
	}
	if chapter < 1 {
		chapter = 1
	}
	if verse < 1 {
		verse = 1
	}
	if book > len(v.books) {
		return last
	}

	for chapter > v.mustChapters(book) {
		chapter -= v.mustChapters(book)
		book++
		if book > len(v.books) {
			return last
		}
	}

	for verse > v.mustVerses(book, chapter) {
		verse -= v.mustVerses(book, chapter)
		chapter++
		if chapter > v.mustChapters(book) {
			chapter = 1
			book++
			if book > len(v.books) {
				return last
			}
		}
	}

	return Ref{Book: book, Chapter: chapter, Verse: verse}
}

// VerseCount returns the number of verses from start to end inclusive.
// The result is zero or negative when end precedes start.
func (v *Versification) VerseCount(start, end Ref) (int, error) {
	s, err := v.OrdinalOf(start)
	if err != nil {
		return 0, err
	}
	e, err := v.OrdinalOf(end)
	if err != nil {
		return 0, err
	}
	return e - s + 1, nil
}

// VerseCountOf is VerseCount for two unpacked triples.
func (v *Versification) VerseCountOf(b1, c1, v1, b2, c2, v2 int) (int, error) {
	return v.VerseCount(Ref{b1, c1, v1}, Ref{b2, c2, v2})
}

func (v *Versification) lastRef() Ref {
	b := len(v.books)
	c := v.mustChapters(b)
	return Ref{Book: b, Chapter: c, Verse: v.mustVerses(b, c)}
}
