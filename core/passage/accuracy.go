package passage

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// Accuracy records which components a reference string supplied.
type Accuracy int

const (
	AccuracyNone Accuracy = iota
	// AccuracyBookOnly is "Gen".
	AccuracyBookOnly
	// AccuracyBookChapter is "Gen 1".
	AccuracyBookChapter
	// AccuracyBookVerse is "Gen 1:1", or "Jude 2" for single-chapter books.
	AccuracyBookVerse
	// AccuracyChapterOnly is "2" read as a chapter of the basis book.
	AccuracyChapterOnly
	// AccuracyChapterVerse is "2:3" in the basis book.
	AccuracyChapterVerse
	// AccuracyVerseOnly is "3" read as a verse of the basis chapter.
	AccuracyVerseOnly
)

var accuracyNames = [...]string{"none", "book", "book-chapter", "book-verse", "chapter", "chapter-verse", "verse"}

func (a Accuracy) String() string {
	if a < 0 || int(a) >= len(accuracyNames) {
		return "unknown"
	}
	return accuracyNames[a]
}

// IsVerse reports whether the reference named a particular verse.
func (a Accuracy) IsVerse() bool {
	return a == AccuracyBookVerse || a == AccuracyChapterVerse || a == AccuracyVerseOnly
}

// IsChapter reports whether the reference named a chapter but no verse.
func (a Accuracy) IsChapter() bool {
	return a == AccuracyBookChapter || a == AccuracyChapterOnly
}

// IsBook reports whether the reference named only a book.
func (a Accuracy) IsBook() bool {
	return a == AccuracyBookOnly
}

// GetAccuracy classifies tokenized reference parts. previous is the accuracy
// of the range start when parts is a range end, otherwise AccuracyNone.
// basis, which may be nil, is the range the reference follows in a list.
func GetAccuracy(parts []string, previous Accuracy, basis *VerseRange) (Accuracy, error) {
	switch len(parts) {
	case 0:
		return AccuracyNone, nil

	case 1:
		if canon.IsBookName(parts[0]) {
			return AccuracyBookOnly, nil
		}
		if err := checkNumber(parts[0]); err != nil {
			return AccuracyNone, err
		}
		switch {
		case previous.IsVerse():
			return AccuracyVerseOnly, nil
		case previous.IsChapter():
			return AccuracyChapterOnly, nil
		case basis != nil && basis.IsChapters():
			return AccuracyChapterOnly, nil
		case basis != nil:
			return AccuracyVerseOnly, nil
		}
		return AccuracyNone, errors.NewNoSuchVerse(parts[0], "a bare number needs a preceding reference")

	case 2:
		if err := checkNumber(parts[1]); err != nil {
			return AccuracyNone, err
		}
		if book, err := canon.BookNumber(parts[0]); err == nil {
			if canon.IsSingleChapterBook(book) {
				return AccuracyBookVerse, nil
			}
			return AccuracyBookChapter, nil
		}
		if err := checkNumber(parts[0]); err != nil {
			return AccuracyNone, err
		}
		return AccuracyChapterVerse, nil

	case 3:
		if !canon.IsBookName(parts[0]) {
			return AccuracyNone, errors.NewNoSuchVerse(parts[0], "not a book name")
		}
		if err := checkNumber(parts[1]); err != nil {
			return AccuracyNone, err
		}
		if err := checkNumber(parts[2]); err != nil {
			return AccuracyNone, err
		}
		return AccuracyBookVerse, nil
	}
	return AccuracyNone, errors.NewNoSuchVerse(strings.Join(parts, " "), "too many parts")
}

// startVerse builds the first verse a reference denotes.
func (a Accuracy) startVerse(parts []string, basis *VerseRange) (Verse, error) {
	switch a {
	case AccuracyBookVerse:
		book, err := canon.BookNumber(parts[0])
		if err != nil {
			return Verse{}, err
		}
		if len(parts) == 3 {
			return chapterAndVerse(book, parts[1], parts[2])
		}
		return chapterAndVerse(book, "1", parts[1])

	case AccuracyBookChapter:
		book, err := canon.BookNumber(parts[0])
		if err != nil {
			return Verse{}, err
		}
		return chapterAndVerse(book, parts[1], "1")

	case AccuracyBookOnly:
		book, err := canon.BookNumber(parts[0])
		if err != nil {
			return Verse{}, err
		}
		return NewVerseAt(book, 1, 1)
	}

	if basis == nil {
		return Verse{}, errors.NewNoSuchVerse(strings.Join(parts, " "), "a partial reference needs a preceding reference")
	}
	end := basis.End()
	switch a {
	case AccuracyChapterVerse:
		return chapterAndVerse(end.Book(), parts[0], parts[1])
	case AccuracyChapterOnly:
		return chapterAndVerse(end.Book(), parts[0], "1")
	case AccuracyVerseOnly:
		return chapterAndVerse(end.Book(), strconv.Itoa(end.Chapter()), parts[0])
	}
	return Verse{}, errors.NewNoSuchVerse(strings.Join(parts, " "), "empty reference")
}

// endVerse builds the last verse of a range end, reading partial
// references relative to start. A chapter end runs to the end of the
// chapter and a book end to the end of the book.
func (a Accuracy) endVerse(parts []string, start Verse) (Verse, error) {
	switch a {
	case AccuracyBookVerse:
		return a.startVerse(parts, nil)

	case AccuracyBookChapter:
		v, err := a.startVerse(parts, nil)
		if err != nil {
			return Verse{}, err
		}
		return v.LastVerseInChapter(), nil

	case AccuracyBookOnly:
		v, err := a.startVerse(parts, nil)
		if err != nil {
			return Verse{}, err
		}
		return v.LastVerseInBook(), nil

	case AccuracyChapterVerse:
		return chapterAndVerse(start.Book(), parts[0], parts[1])

	case AccuracyChapterOnly:
		v, err := chapterAndVerse(start.Book(), parts[0], "1")
		if err != nil {
			return Verse{}, err
		}
		return v.LastVerseInChapter(), nil

	case AccuracyVerseOnly:
		return chapterAndVerse(start.Book(), strconv.Itoa(start.Chapter()), parts[0])
	}
	return Verse{}, errors.NewNoSuchVerse(strings.Join(parts, " "), "empty range end")
}

// chapterAndVerse resolves end markers and builds a checked verse.
func chapterAndVerse(book int, chapterText, verseText string) (Verse, error) {
	var chapter int
	if isEndMarker(chapterText) {
		n, err := canon.ChaptersInBook(book)
		if err != nil {
			return Verse{}, err
		}
		chapter = n
	} else {
		n, err := parseNumber(chapterText)
		if err != nil {
			return Verse{}, err
		}
		chapter = n
	}

	var verse int
	if isEndMarker(verseText) {
		n, err := canon.VersesInChapter(book, chapter)
		if err != nil {
			return Verse{}, err
		}
		verse = n
	} else {
		n, err := parseNumber(verseText)
		if err != nil {
			return Verse{}, err
		}
		verse = n
	}
	return NewVerseAt(book, chapter, verse)
}

func checkNumber(s string) error {
	if isEndMarker(s) {
		return nil
	}
	_, err := parseNumber(s)
	return err
}

func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewNoSuchVerse(s, "not a number")
	}
	return n, nil
}
