// Package versification provides the fixed KJV canon: book names, chapter and
// verse counts, and conversion between (book, chapter, verse) triples and
// ordinals. Every range check elsewhere in versekit is answered from here.
package versification

import (
	"github.com/FocuswithJustin/versekit/core/errors"
)

// Versification is an immutable canon table with precomputed prefix sums.
type Versification struct {
	books []BookData

	// bookStart[b] is the number of verses before book b+1.
	bookStart []int
	// chapterStart[b][c] is the number of verses in book b+1 before chapter c+1.
	chapterStart [][]int
	// bookVerses[b] is the verse count of book b+1.
	bookVerses []int

	chapters int
	verses   int

	names *nameIndex
}

var kjv = newVersification(kjvBooks)

// KJV returns the shared King James canon.
func KJV() *Versification {
	return kjv
}

func newVersification(books []BookData) *Versification {
	v := &Versification{
		books:        books,
		bookStart:    make([]int, len(books)),
		chapterStart: make([][]int, len(books)),
		bookVerses:   make([]int, len(books)),
	}

	total := 0
	for b, book := range books {
		v.bookStart[b] = total
		starts := make([]int, len(book.Chapters))
		inBook := 0
		for c, count := range book.Chapters {
			starts[c] = inBook
			inBook += count
		}
		v.chapterStart[b] = starts
		v.bookVerses[b] = inBook
		v.chapters += len(book.Chapters)
		total += inBook
	}
	v.verses = total
	v.names = newNameIndex(books)
	return v
}

// BooksInBible returns the number of books in the canon.
func (v *Versification) BooksInBible() int {
	return len(v.books)
}

// ChaptersInBible returns the number of chapters in the canon.
func (v *Versification) ChaptersInBible() int {
	return v.chapters
}

// VersesInBible returns the number of verses in the canon.
func (v *Versification) VersesInBible() int {
	return v.verses
}

// Book returns the table entry for a book number.
func (v *Versification) Book(book int) (BookData, error) {
	if err := v.checkBook(book); err != nil {
		return BookData{}, err
	}
	return v.books[book-1], nil
}

// ChaptersInBook returns the number of chapters in a book.
func (v *Versification) ChaptersInBook(book int) (int, error) {
	if err := v.checkBook(book); err != nil {
		return 0, err
	}
	return len(v.books[book-1].Chapters), nil
}

// VersesInBook returns the number of verses in a book.
func (v *Versification) VersesInBook(book int) (int, error) {
	if err := v.checkBook(book); err != nil {
		return 0, err
	}
	return v.bookVerses[book-1], nil
}

// VersesInChapter returns the number of verses in a chapter of a book.
func (v *Versification) VersesInChapter(book, chapter int) (int, error) {
	if err := v.checkBook(book); err != nil {
		return 0, err
	}
	chapters := v.books[book-1].Chapters
	if chapter < 1 || chapter > len(chapters) {
		return 0, errors.NewNoSuchVersef(Ref{book, chapter, 1}.String(),
			"chapter %d outside 1..%d of %s", chapter, len(chapters), v.books[book-1].Short)
	}
	return chapters[chapter-1], nil
}

// IsSingleChapterBook reports whether a book has exactly one chapter.
func (v *Versification) IsSingleChapterBook(book int) bool {
	return book >= 1 && book <= len(v.books) && len(v.books[book-1].Chapters) == 1
}

func (v *Versification) checkBook(book int) error {
	if book < 1 || book > len(v.books) {
		return errors.NewNoSuchVersef("", "book %d outside 1..%d", book, len(v.books))
	}
	return nil
}

// mustChapters and mustVerses are for callers that have already validated.
func (v *Versification) mustChapters(book int) int {
	return len(v.books[book-1].Chapters)
}

func (v *Versification) mustVerses(book, chapter int) int {
	return v.books[book-1].Chapters[chapter-1]
}
