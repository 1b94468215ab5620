package passage

import (
	"strings"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// ParseVerse reads a single verse such as "Gen 1:1", "2 Ki 3 4" or "Jude 2".
// A book alone means its first verse and a chapter alone its verse 1.
func ParseVerse(s string) (Verse, error) {
	return parseVerse(s, nil)
}

// ParseVerseFrom reads a verse that may leave out the book or chapter,
// taking them from the end of basis.
func ParseVerseFrom(s string, basis VerseRange) (Verse, error) {
	return parseVerse(s, &basis)
}

func parseVerse(s string, basis *VerseRange) (Verse, error) {
	original := strings.TrimSpace(s)
	parts, err := tokenize(original)
	if err != nil {
		return Verse{}, err
	}
	if len(parts) == 0 {
		return Verse{}, errors.NewNoSuchVerse(s, "empty reference")
	}
	acc, err := GetAccuracy(parts, AccuracyNone, basis)
	if err != nil {
		return Verse{}, err
	}
	v, err := acc.startVerse(parts, basis)
	if err != nil {
		return Verse{}, err
	}
	v.original = original
	return v, nil
}

// ParseVerseRange reads a range such as "Gen 1:1-5", "Gen 1-3", "Gen-Exo"
// or "Exo 2". A lone book or chapter covers the whole of it.
func ParseVerseRange(s string) (VerseRange, error) {
	return parseVerseRange(s, nil)
}

// ParseVerseRangeFrom reads a range relative to basis, so that "5" after
// "Gen 1:1" means Gen 1:5 and "2" after "Num 1" means Num 2.
func ParseVerseRangeFrom(s string, basis VerseRange) (VerseRange, error) {
	return parseVerseRange(s, &basis)
}

func parseVerseRange(s string, basis *VerseRange) (VerseRange, error) {
	original := strings.TrimSpace(s)
	startText, endText, err := splitRange(original)
	if err != nil {
		return VerseRange{}, err
	}

	startParts, err := tokenize(startText)
	if err != nil {
		return VerseRange{}, err
	}
	if len(startParts) == 0 {
		if endText != "" || basis == nil {
			return VerseRange{}, errors.NewNoSuchVerse(s, "missing range start")
		}
		return NewVerseRange(basis.Start()), nil
	}

	acc, err := GetAccuracy(startParts, AccuracyNone, basis)
	if err != nil {
		return VerseRange{}, err
	}
	start, err := acc.startVerse(startParts, basis)
	if err != nil {
		return VerseRange{}, err
	}

	var r VerseRange
	endParts, err := tokenize(endText)
	if err != nil {
		return VerseRange{}, err
	}
	if len(endParts) == 0 {
		switch {
		case acc.IsBook():
			r = NewVerseRangeSpan(start, start.LastVerseInBook())
		case acc.IsChapter():
			r = NewVerseRangeSpan(start, start.LastVerseInChapter())
		default:
			r = NewVerseRange(start)
		}
	} else {
		endAcc, err := GetAccuracy(endParts, acc, nil)
		if err != nil {
			return VerseRange{}, err
		}
		end, err := endAcc.endVerse(endParts, start)
		if err != nil {
			return VerseRange{}, err
		}
		if end.idx < start.idx {
			return VerseRange{}, errors.NewNoSuchVersef(s, "%s comes before %s", end.Name(), start.Name())
		}
		r = NewVerseRangeSpan(start, end)
	}
	r.original = original
	return r, nil
}
