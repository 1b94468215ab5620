package passage

import (
	"io"
	"iter"
	"slices"
	"sync"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// ReadOnly returns a view of p whose mutators fail with ErrIllegalState.
// Changes made to p through other references remain visible.
func ReadOnly(p Passage) Passage {
	if ro, ok := p.(*readOnly); ok {
		return ro
	}
	return &readOnly{p: p}
}

type readOnly struct {
	p Passage
}

func denied(op string) error {
	return errors.NewState(op, "passage is read-only")
}

func (r *readOnly) Add(VerseBase) error             { return denied("add") }
func (r *readOnly) Remove(VerseBase) error          { return denied("remove") }
func (r *readOnly) AddAll(Passage) error            { return denied("add") }
func (r *readOnly) RemoveAll(Passage) error         { return denied("remove") }
func (r *readOnly) RetainAll(Passage) error         { return denied("retain") }
func (r *readOnly) Clear() error                    { return denied("clear") }
func (r *readOnly) Blur(int, Restriction) error     { return denied("blur") }
func (r *readOnly) TrimVerses(int) (Passage, error) { return nil, denied("trim") }
func (r *readOnly) TrimRanges(int) (Passage, error) { return nil, denied("trim") }
func (r *readOnly) ReadDescription(io.Reader) error { return denied("read") }

// The underlying passage decides its own storage form.
func (r *readOnly) OptimizeReads()  {}
func (r *readOnly) OptimizeWrites() {}

func (r *readOnly) Contains(b VerseBase) bool               { return r.p.Contains(b) }
func (r *readOnly) ContainsAll(other Passage) bool          { return r.p.ContainsAll(other) }
func (r *readOnly) IsEmpty() bool                           { return r.p.IsEmpty() }
func (r *readOnly) CountVerses() int                        { return r.p.CountVerses() }
func (r *readOnly) CountRanges() int                        { return r.p.CountRanges() }
func (r *readOnly) VerseAt(i int) (Verse, error)            { return r.p.VerseAt(i) }
func (r *readOnly) RangeAt(i int) (VerseRange, error)       { return r.p.RangeAt(i) }
func (r *readOnly) BooksInPassage() int                     { return r.p.BooksInPassage() }
func (r *readOnly) ChaptersInPassage(book int) (int, error) { return r.p.ChaptersInPassage(book) }
func (r *readOnly) VersesInPassage(b, c int) (int, error)   { return r.p.VersesInPassage(b, c) }
func (r *readOnly) Verses() iter.Seq[Verse]                 { return r.p.Verses() }
func (r *readOnly) Ranges() iter.Seq[VerseRange]            { return r.p.Ranges() }
func (r *readOnly) AddListener(l Listener)                  { r.p.AddListener(l) }
func (r *readOnly) RemoveListener(l Listener)               { r.p.RemoveListener(l) }
func (r *readOnly) Name() string                            { return r.p.Name() }
func (r *readOnly) NameWith(o RenderOptions) string         { return r.p.NameWith(o) }
func (r *readOnly) String() string                          { return r.p.String() }
func (r *readOnly) WriteDescription(w io.Writer) error      { return r.p.WriteDescription(w) }
func (r *readOnly) Kind() Kind                              { return r.p.Kind() }

// Clone returns a writable copy.
func (r *readOnly) Clone() Passage { return r.p.Clone() }

// Synchronized returns a view of p that holds a mutex for every call.
// Iterators are taken from a snapshot made under the lock. Listeners added
// to the view are called after the lock is released, with the view as the
// event source, so they may use the view freely. p should not be changed
// other than through the view.
func Synchronized(p Passage) Passage {
	if s, ok := p.(*synchronized); ok {
		return s
	}
	s := &synchronized{p: p}
	p.AddListener(relay{s})
	return s
}

type synchronized struct {
	mu      sync.Mutex
	p       Passage
	pending []Event
	listeners
}

// relay queues the events p fires while s.mu is held.
type relay struct{ s *synchronized }

func (r relay) VersesAdded(e Event)   { r.s.pending = append(r.s.pending, e) }
func (r relay) VersesRemoved(e Event) { r.s.pending = append(r.s.pending, e) }
func (r relay) VersesChanged(e Event) { r.s.pending = append(r.s.pending, e) }

// unlock releases s.mu and then passes on the queued events.
func (s *synchronized) unlock() {
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, e := range pending {
		s.fire(s, e.Kind, e.Ranges)
	}
}

func (s *synchronized) Add(b VerseBase) error {
	s.mu.Lock()
	defer s.unlock()
	return s.p.Add(b)
}

func (s *synchronized) Remove(b VerseBase) error {
	s.mu.Lock()
	defer s.unlock()
	return s.p.Remove(b)
}

func (s *synchronized) AddAll(other Passage) error {
	s.mu.Lock()
	defer s.unlock()
	return s.p.AddAll(s.unwrap(other))
}

func (s *synchronized) RemoveAll(other Passage) error {
	s.mu.Lock()
	defer s.unlock()
	return s.p.RemoveAll(s.unwrap(other))
}

func (s *synchronized) RetainAll(other Passage) error {
	s.mu.Lock()
	defer s.unlock()
	return s.p.RetainAll(s.unwrap(other))
}

func (s *synchronized) Clear() error {
	s.mu.Lock()
	defer s.unlock()
	return s.p.Clear()
}

func (s *synchronized) Blur(n int, r Restriction) error {
	s.mu.Lock()
	defer s.unlock()
	return s.p.Blur(n, r)
}
func (s *synchronized) Contains(b VerseBase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Contains(b)
}

func (s *synchronized) ContainsAll(other Passage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.ContainsAll(s.unwrap(other))
}

func (s *synchronized) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.IsEmpty()
}

func (s *synchronized) CountVerses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.CountVerses()
}

func (s *synchronized) CountRanges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.CountRanges()
}

func (s *synchronized) VerseAt(i int) (Verse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.VerseAt(i)
}

func (s *synchronized) RangeAt(i int) (VerseRange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.RangeAt(i)
}

func (s *synchronized) BooksInPassage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.BooksInPassage()
}

func (s *synchronized) ChaptersInPassage(book int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.ChaptersInPassage(book)
}

func (s *synchronized) VersesInPassage(book, chapter int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.VersesInPassage(book, chapter)
}

func (s *synchronized) Verses() iter.Seq[Verse] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Values(slices.Collect(s.p.Verses()))
}

func (s *synchronized) Ranges() iter.Seq[VerseRange] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Values(slices.Collect(s.p.Ranges()))
}

func (s *synchronized) TrimVerses(n int) (Passage, error) {
	s.mu.Lock()
	defer s.unlock()
	return s.p.TrimVerses(n)
}

func (s *synchronized) TrimRanges(n int) (Passage, error) {
	s.mu.Lock()
	defer s.unlock()
	return s.p.TrimRanges(n)
}

func (s *synchronized) OptimizeReads() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.OptimizeReads()
}

func (s *synchronized) OptimizeWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.OptimizeWrites()
}

func (s *synchronized) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Name()
}

func (s *synchronized) NameWith(o RenderOptions) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.NameWith(o)
}

func (s *synchronized) String() string {
	return s.Name()
}

func (s *synchronized) WriteDescription(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.WriteDescription(w)
}

func (s *synchronized) ReadDescription(r io.Reader) error {
	s.mu.Lock()
	defer s.unlock()
	return s.p.ReadDescription(r)
}

func (s *synchronized) Clone() Passage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Clone()
}

// unwrap lets s be passed to its own methods without deadlocking.
func (s *synchronized) unwrap(other Passage) Passage {
	if other == Passage(s) {
		return s.p
	}
	return other
}

func (s *synchronized) Kind() Kind {
	return s.p.Kind()
}
