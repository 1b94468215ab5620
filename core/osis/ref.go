// Package osis reads and writes OSIS references ("Gen.1.1-Gen.1.3 Exod.2")
// and collects them from OSIS XML documents.
package osis

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/passage"
	"github.com/FocuswithJustin/versekit/core/versification"
)

var canon = versification.KJV()

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `[1-4]?[A-Za-z]+`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[.\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// refList is a whitespace separated list of OSIS references.
type refList struct {
	Ranges []*refRange `@@*`
}

type refRange struct {
	Start *refPoint `@@`
	End   *refPoint `( "-" @@ )?`
}

// refPoint is a book, chapter or verse. Missing parts widen the point to
// the whole chapter or book.
type refPoint struct {
	Book    string `@Book`
	Chapter *int   `( "." @Number`
	Verse   *int   `  ( "." @Number )? )?`
}

var refParser = participle.MustBuild[refList](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses a list of OSIS references into a passage. Work prefixes
// ("KJV:Gen.1.1") and grammar suffixes ("Gen.1.1!note") are ignored.
func ParseRef(ref string, opts ...passage.Option) (passage.Passage, error) {
	p := passage.New(opts...)
	if err := addRef(p, ref); err != nil {
		return nil, err
	}
	return p, nil
}

func addRef(p passage.Passage, ref string) error {
	ranges, err := resolveRef(ref)
	if err != nil {
		return err
	}
	for _, r := range ranges {
		if err := p.Add(r); err != nil {
			return err
		}
	}
	return nil
}

// resolveRef parses every reference before any is added, so a bad entry
// leaves the target passage untouched.
func resolveRef(ref string) ([]passage.VerseRange, error) {
	list, err := refParser.ParseString("", normalize(ref))
	if err != nil {
		return nil, errors.NewNoSuchVerse(ref, err.Error())
	}
	ranges := make([]passage.VerseRange, 0, len(list.Ranges))
	for _, rr := range list.Ranges {
		r, err := rr.resolve()
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// normalize strips work prefixes and grammar suffixes from each reference.
func normalize(ref string) string {
	fields := strings.Fields(ref)
	for i, f := range fields {
		ends := strings.Split(f, "-")
		for j, e := range ends {
			if k := strings.LastIndexByte(e, ':'); k >= 0 {
				e = e[k+1:]
			}
			if k := strings.IndexByte(e, '!'); k >= 0 {
				e = e[:k]
			}
			ends[j] = e
		}
		fields[i] = strings.Join(ends, "-")
	}
	return strings.Join(fields, " ")
}

func (rr *refRange) resolve() (passage.VerseRange, error) {
	start, end, err := rr.Start.bounds()
	if err != nil {
		return passage.VerseRange{}, err
	}
	if rr.End != nil {
		if _, end, err = rr.End.bounds(); err != nil {
			return passage.VerseRange{}, err
		}
		if end.Compare(start) < 0 {
			return passage.VerseRange{}, errors.NewNoSuchVersef(rr.Start.String()+"-"+rr.End.String(), "range ends before it starts")
		}
	}
	return passage.NewVerseRangeSpan(start, end), nil
}

// bounds returns the first and last verse the point covers.
func (pt *refPoint) bounds() (passage.Verse, passage.Verse, error) {
	book, err := canon.BookByOSIS(pt.Book)
	if err != nil {
		return passage.Verse{}, passage.Verse{}, errors.NewNoSuchVerse(pt.String(), "unknown OSIS book")
	}

	firstChapter, lastChapter := 1, 0
	if pt.Chapter != nil {
		firstChapter, lastChapter = *pt.Chapter, *pt.Chapter
	} else if lastChapter, err = canon.ChaptersInBook(book); err != nil {
		return passage.Verse{}, passage.Verse{}, err
	}

	if pt.Verse != nil {
		v, err := passage.NewVerseAt(book, *pt.Chapter, *pt.Verse)
		return v, v, err
	}
	start, err := passage.NewVerseAt(book, firstChapter, 1)
	if err != nil {
		return passage.Verse{}, passage.Verse{}, err
	}
	lastVerse, err := canon.VersesInChapter(book, lastChapter)
	if err != nil {
		return passage.Verse{}, passage.Verse{}, errors.NewNoSuchVerse(pt.String(), err.Error())
	}
	end, err := passage.NewVerseAt(book, lastChapter, lastVerse)
	return start, end, err
}

func (pt *refPoint) String() string {
	s := pt.Book
	if pt.Chapter != nil {
		s += "." + strconv.Itoa(*pt.Chapter)
		if pt.Verse != nil {
			s += "." + strconv.Itoa(*pt.Verse)
		}
	}
	return s
}

// FormatRef renders p as OSIS references, one per range, using the
// shortest form: "Gen", "Gen.1", "Gen.1-Gen.3" or "Gen.1.1-Gen.1.3".
func FormatRef(p passage.Passage) string {
	if p == nil {
		return ""
	}
	var refs []string
	for r := range p.Ranges() {
		refs = append(refs, formatRange(r))
	}
	return strings.Join(refs, " ")
}

func formatRange(r passage.VerseRange) string {
	s, e := r.Start(), r.End()
	switch {
	case r.Count() == 1:
		return s.OSISRef()
	case r.IsBook():
		return bookOSIS(s)
	case r.IsBooks():
		return bookOSIS(s) + "-" + bookOSIS(e)
	case r.IsChapter():
		return chapterOSIS(s)
	case r.IsChapters():
		return chapterOSIS(s) + "-" + chapterOSIS(e)
	}
	return s.OSISRef() + "-" + e.OSISRef()
}

func bookOSIS(v passage.Verse) string {
	name, _ := canon.OSISName(v.Book())
	return name
}

func chapterOSIS(v passage.Verse) string {
	return bookOSIS(v) + "." + strconv.Itoa(v.Chapter())
}

// FormatID lists every verse of p as an osisID value ("Gen.1.1 Gen.1.2").
func FormatID(p passage.Passage) string {
	if p == nil {
		return ""
	}
	var ids []string
	for v := range p.Verses() {
		ids = append(ids, v.OSISRef())
	}
	return strings.Join(ids, " ")
}
