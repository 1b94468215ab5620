package passage

import (
	"iter"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// Restriction limits how far blurring and range splitting may cross
// structural boundaries.
type Restriction int

const (
	// RestrictNone lets ranges run across chapters and books.
	RestrictNone Restriction = iota
	// RestrictChapter keeps every range inside one chapter.
	RestrictChapter
	// RestrictBook keeps every range inside one book. It is valid for
	// splitting ranges but not for blurring.
	RestrictBook
)

func (r Restriction) String() string {
	switch r {
	case RestrictNone:
		return "none"
	case RestrictChapter:
		return "chapter"
	case RestrictBook:
		return "book"
	}
	return "unknown"
}

// ParseRestriction converts "none", "chapter" or "book".
func ParseRestriction(s string) (Restriction, error) {
	for _, r := range []Restriction{RestrictNone, RestrictChapter, RestrictBook} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, errors.NewArgument("restriction", s, "expected none, chapter or book")
}

// IsSameScope reports whether two verses fall in the same unit.
func (r Restriction) IsSameScope(a, b Verse) bool {
	switch r {
	case RestrictChapter:
		return a.IsSameChapter(b)
	case RestrictBook:
		return a.IsSameBook(b)
	}
	return true
}

// ToRange returns the range of count verses starting at v, cut short at the
// end of the restricting unit or of the canon.
func (r Restriction) ToRange(v Verse, count int) VerseRange {
	end := v.Add(count - 1)
	switch r {
	case RestrictChapter:
		end = MinVerse(end, v.LastVerseInChapter())
	case RestrictBook:
		end = MinVerse(end, v.LastVerseInBook())
	}
	return NewVerseRangeSpan(v, end)
}

// BlurRange widens r by before verses at the start and after verses at the
// end. Under RestrictChapter neither end leaves its own chapter.
func BlurRange(r VerseRange, before, after int, res Restriction) (VerseRange, error) {
	if before < 0 || after < 0 {
		return VerseRange{}, errors.NewArgument("blur", before, "blur counts must not be negative")
	}
	start, end := r.Start(), r.End()
	switch res {
	case RestrictNone:
		return NewVerseRangeSpan(start.Subtract(before), end.Add(after)), nil
	case RestrictChapter:
		first := start.FirstVerseInChapter()
		last := end.LastVerseInChapter()
		from := start.Subtract(before)
		if from.idx < first.idx {
			from = first
		}
		to := end.Add(after)
		if to.idx > last.idx {
			to = last
		}
		return NewVerseRangeSpan(from, to), nil
	}
	return VerseRange{}, errors.NewArgument("restriction", res, "blurring supports none and chapter only")
}

// NewVerseRangeAround blurs the single verse v.
func NewVerseRangeAround(v Verse, before, after int, res Restriction) (VerseRange, error) {
	return BlurRange(NewVerseRange(v), before, after, res)
}

// SplitRanges cuts each range at the boundaries of res, so that under
// RestrictChapter no yielded range spans two chapters.
func SplitRanges(ranges iter.Seq[VerseRange], res Restriction) iter.Seq[VerseRange] {
	if res == RestrictNone {
		return ranges
	}
	return func(yield func(VerseRange) bool) {
		for r := range ranges {
			start, end := r.Start(), r.End()
			for start.idx <= end.idx {
				piece := res.ToRange(start, end.idx-start.idx+1)
				if !yield(piece) {
					return
				}
				start = verseAt(piece.End().Ordinal() + 1)
			}
		}
	}
}
