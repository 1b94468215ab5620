package passage

import (
	"iter"
	"strconv"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// VerseRange is a closed run of one or more consecutive verses. The zero
// value is the single verse Gen 1:1. Compare ranges with Equal.
type VerseRange struct {
	start    int // ordinal - 1
	span     int // count - 1
	original string
}

// NewVerseRange covers the single verse v.
func NewVerseRange(v Verse) VerseRange {
	return VerseRange{start: v.idx}
}

// NewVerseRangeSpan covers a to b inclusive, in whichever order they are given.
func NewVerseRangeSpan(a, b Verse) VerseRange {
	if a.idx > b.idx {
		a, b = b, a
	}
	return VerseRange{start: a.idx, span: b.idx - a.idx}
}

// NewVerseRangeCount covers count verses from start. It fails if count is
// below 1 or the range would run past Rev 22:21.
func NewVerseRangeCount(start Verse, count int) (VerseRange, error) {
	if count < 1 {
		return VerseRange{}, errors.NewArgument("count", count, "a range covers at least one verse")
	}
	if count > canon.VersesInBible()-start.idx {
		return VerseRange{}, errors.NewArgument("count", count, "range runs past the end of the canon")
	}
	return VerseRange{start: start.idx, span: count - 1}, nil
}

// NewVerseRangeCountClamped is NewVerseRangeCount that cuts the range short
// at Rev 22:21 instead of failing. A count below 1 is treated as 1.
func NewVerseRangeCountClamped(start Verse, count int) VerseRange {
	count = max(count, 1)
	return NewVerseRangeSpan(start, start.Add(count-1))
}

func rangeOf(startOrd, endOrd int) VerseRange {
	return VerseRange{start: startOrd - 1, span: endOrd - startOrd}
}

// Start returns the first verse.
func (r VerseRange) Start() Verse { return Verse{idx: r.start} }

// End returns the last verse.
func (r VerseRange) End() Verse { return Verse{idx: r.start + r.span} }

// Count returns the number of verses, always at least 1.
func (r VerseRange) Count() int { return r.span + 1 }

func (r VerseRange) first() int { return r.start + 1 }

func (r VerseRange) last() int { return r.start + r.span + 1 }

// ChapterCount returns how many chapters the range touches.
func (r VerseRange) ChapterCount() int {
	s, e := r.Start().Ref(), r.End().Ref()
	if s.Book == e.Book {
		return e.Chapter - s.Chapter + 1
	}
	n, _ := canon.ChaptersInBook(s.Book)
	count := n - s.Chapter + 1
	for b := s.Book + 1; b < e.Book; b++ {
		n, _ = canon.ChaptersInBook(b)
		count += n
	}
	return count + e.Chapter
}

// BookCount returns how many books the range touches.
func (r VerseRange) BookCount() int {
	return r.End().Book() - r.Start().Book() + 1
}

// IsChapter reports whether the range is exactly one whole chapter.
func (r VerseRange) IsChapter() bool {
	s, e := r.Start(), r.End()
	return s.IsSameChapter(e) && s.IsStartOfChapter() && e.IsEndOfChapter()
}

// IsChapters reports whether the range starts and ends on chapter boundaries.
func (r VerseRange) IsChapters() bool {
	return r.Start().IsStartOfChapter() && r.End().IsEndOfChapter()
}

// IsBook reports whether the range is exactly one whole book.
func (r VerseRange) IsBook() bool {
	s, e := r.Start(), r.End()
	return s.IsSameBook(e) && s.IsStartOfBook() && e.IsEndOfBook()
}

// IsBooks reports whether the range starts and ends on book boundaries.
func (r VerseRange) IsBooks() bool {
	return r.Start().IsStartOfBook() && r.End().IsEndOfBook()
}

// Contains reports whether every verse of b lies in r.
func (r VerseRange) Contains(b VerseBase) bool {
	if b == nil {
		return false
	}
	return b.Start().idx >= r.start && b.End().idx <= r.start+r.span
}

// Overlaps reports whether the ranges share at least one verse.
func (r VerseRange) Overlaps(that VerseRange) bool {
	return r.start <= that.start+that.span && that.start <= r.start+r.span
}

// AdjacentTo reports whether the ranges overlap or touch end to end.
func (r VerseRange) AdjacentTo(that VerseRange) bool {
	return r.start <= that.start+that.span+1 && that.start <= r.start+r.span+1
}

// Verses yields each verse of the range in order.
func (r VerseRange) Verses() iter.Seq[Verse] {
	return func(yield func(Verse) bool) {
		for i := r.start; i <= r.start+r.span; i++ {
			if !yield(Verse{idx: i}) {
				return
			}
		}
	}
}

// ToVerseArray returns every verse of the range.
func (r VerseRange) ToVerseArray() []Verse {
	out := make([]Verse, 0, r.Count())
	for v := range r.Verses() {
		out = append(out, v)
	}
	return out
}

// Equal reports whether both ranges cover the same verses.
func (r VerseRange) Equal(that VerseRange) bool {
	return r.start == that.start && r.span == that.span
}

// Compare orders ranges by start, then by length.
func (r VerseRange) Compare(that VerseRange) int {
	switch {
	case r.start != that.start:
		if r.start < that.start {
			return -1
		}
		return 1
	case r.span < that.span:
		return -1
	case r.span > that.span:
		return 1
	}
	return 0
}

// Intersection returns the verses in both a and b. ok is false when they are
// disjoint.
func Intersection(a, b VerseRange) (r VerseRange, ok bool) {
	if !a.Overlaps(b) {
		return VerseRange{}, false
	}
	from := max(a.first(), b.first())
	to := min(a.last(), b.last())
	return rangeOf(from, to), true
}

// Remainder returns the verses of a that are not in b: nothing, one range,
// or the pieces before and after b.
func Remainder(a, b VerseRange) []VerseRange {
	if !a.Overlaps(b) {
		return []VerseRange{a}
	}
	var out []VerseRange
	if a.first() < b.first() {
		out = append(out, rangeOf(a.first(), b.first()-1))
	}
	if a.last() > b.last() {
		out = append(out, rangeOf(b.last()+1, a.last()))
	}
	return out
}

// Union returns the smallest range covering both a and b, including any gap
// between them.
func Union(a, b VerseRange) VerseRange {
	return rangeOf(min(a.first(), b.first()), max(a.last(), b.last()))
}

// Name returns the compact name, e.g. "Gen 1:1-5" or "Gen-Exo".
func (r VerseRange) Name() string {
	return DefaultRenderOptions.RangeName(r, nil)
}

// NameFrom names r relative to base; see Verse.NameFrom.
func (r VerseRange) NameFrom(base Verse) string {
	return DefaultRenderOptions.RangeName(r, &base)
}

func (r VerseRange) String() string {
	return r.Name()
}

// OriginalName returns the text r was parsed from, if any.
func (r VerseRange) OriginalName() string {
	return r.original
}

func (r VerseRange) render(base *Verse, o RenderOptions) string {
	start, end := r.Start(), r.End()
	s, e := start.Ref(), end.Ref()
	c := o.caseMode

	if s.Book != e.Book {
		if r.IsBooks() {
			return o.bookName(s.Book) + "-" + o.bookName(e.Book)
		}
		if r.IsChapters() {
			return o.bookName(s.Book) + " " + strconv.Itoa(s.Chapter) + "-" +
				o.bookName(e.Book) + " " + strconv.Itoa(e.Chapter)
		}
		return start.render(base, c) + "-" + end.render(base, c)
	}

	if r.IsBook() {
		return o.bookName(s.Book)
	}
	if s.Chapter != e.Chapter {
		if r.IsChapters() {
			return o.bookName(s.Book) + " " + strconv.Itoa(s.Chapter) + "-" + strconv.Itoa(e.Chapter)
		}
		return start.render(base, c) + "-" + strconv.Itoa(e.Chapter) + ":" + strconv.Itoa(e.Verse)
	}
	if r.IsChapter() {
		return o.bookName(s.Book) + " " + strconv.Itoa(s.Chapter)
	}
	if s.Verse != e.Verse {
		return start.render(base, c) + "-" + strconv.Itoa(e.Verse)
	}
	return start.render(base, c)
}
