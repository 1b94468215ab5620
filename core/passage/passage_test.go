package passage

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/versification"
)

var kinds = []Kind{KindRanged, KindBitwise}

func parseKind(t *testing.T, refs string, k Kind) Passage {
	t.Helper()
	p, err := Parse(refs, WithKind(k))
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", refs, err)
	}
	return p
}

// countingListener records how many events of each kind it saw.
type countingListener struct {
	added, removed, changed int
	last                    Event
}

func (c *countingListener) VersesAdded(e Event) {
	c.added++
	c.last = e
}

func (c *countingListener) VersesRemoved(e Event) {
	c.removed++
	c.last = e
}

func (c *countingListener) VersesChanged(e Event) {
	c.changed++
	c.last = e
}

func TestNewKinds(t *testing.T) {
	for _, k := range []Kind{KindRanged, KindBitwise, KindTally} {
		p := New(WithKind(k))
		if p.Kind() != k {
			t.Errorf("New(%v).Kind() = %v", k, p.Kind())
		}
		if !p.IsEmpty() || p.Name() != "" {
			t.Errorf("New(%v) is not empty", k)
		}
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", k.String(), got, err, k)
		}
	}
	if _, err := ParseKind("sparse"); !errors.Is(err, errors.ErrIllegalArgument) {
		t.Errorf("ParseKind(sparse) error = %v, want ErrIllegalArgument", err)
	}
}

func TestPassageAddRemove(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Gen 1:1, 3, 5", k)
		if err := p.Add(mustVerse(t, 1, 1, 2)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if got := p.Name(); got != "Gen 1:1-3, 5" {
			t.Errorf("%v: after Add = %q, want %q", k, got, "Gen 1:1-3, 5")
		}
		if err := p.Add(mustVerse(t, 1, 1, 4)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if got := p.Name(); got != "Gen 1:1-5" {
			t.Errorf("%v: after second Add = %q, want %q", k, got, "Gen 1:1-5")
		}
		if err := p.Remove(mustVerse(t, 1, 1, 3)); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if got := p.Name(); got != "Gen 1:1-2, 4-5" {
			t.Errorf("%v: after Remove = %q, want %q", k, got, "Gen 1:1-2, 4-5")
		}
		if err := p.Remove(span(t, 1, 1, 1, 1, 1, 4)); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if got := p.Name(); got != "Gen 1:5" {
			t.Errorf("%v: after range Remove = %q, want %q", k, got, "Gen 1:5")
		}

		if err := p.Add(nil); !errors.Is(err, errors.ErrNullReference) {
			t.Errorf("%v: Add(nil) error = %v, want ErrNullReference", k, err)
		}
		var nilVerse *Verse
		if err := p.Remove(nilVerse); !errors.Is(err, errors.ErrNullReference) {
			t.Errorf("%v: Remove(nil *Verse) error = %v, want ErrNullReference", k, err)
		}
	}
}

func TestPassageSetOperations(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Gen 1:1-5", k)
		if err := p.AddAll(MustParse("Gen 1:7, Exo 1")); err != nil {
			t.Fatalf("AddAll() error = %v", err)
		}
		if got := p.Name(); got != "Gen 1:1-5, 7, Exo 1" {
			t.Errorf("%v: AddAll = %q, want %q", k, got, "Gen 1:1-5, 7, Exo 1")
		}
		if err := p.RemoveAll(MustParse("Gen 1:2-4, Exo 1:2-22")); err != nil {
			t.Fatalf("RemoveAll() error = %v", err)
		}
		if got := p.Name(); got != "Gen 1:1, 5, 7, Exo 1:1" {
			t.Errorf("%v: RemoveAll = %q, want %q", k, got, "Gen 1:1, 5, 7, Exo 1:1")
		}
		if err := p.RetainAll(MustParse("Gen 1:3-10")); err != nil {
			t.Fatalf("RetainAll() error = %v", err)
		}
		if got := p.Name(); got != "Gen 1:5, 7" {
			t.Errorf("%v: RetainAll = %q, want %q", k, got, "Gen 1:5, 7")
		}
		if !p.ContainsAll(MustParse("Gen 1:5")) || p.ContainsAll(MustParse("Gen 1:5-7")) {
			t.Errorf("%v: ContainsAll() is wrong", k)
		}
		if err := p.Clear(); err != nil || !p.IsEmpty() {
			t.Errorf("%v: Clear() = %v, IsEmpty() = %v", k, err, p.IsEmpty())
		}
		for _, err := range []error{p.AddAll(nil), p.RemoveAll(nil), p.RetainAll(nil)} {
			if !errors.Is(err, errors.ErrNullReference) {
				t.Errorf("%v: nil passage error = %v, want ErrNullReference", k, err)
			}
		}
	}
}

func TestPassageContains(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Gen 1:1-5, Exo 2", k)
		tests := []struct {
			b    VerseBase
			want bool
		}{
			{mustVerse(t, 1, 1, 3), true},
			{mustVerse(t, 1, 1, 6), false},
			{span(t, 1, 1, 2, 1, 1, 5), true},
			{span(t, 1, 1, 2, 1, 1, 6), false},
			{span(t, 2, 2, 1, 2, 2, 25), true},
			{nil, false},
		}
		for _, tt := range tests {
			if got := p.Contains(tt.b); got != tt.want {
				t.Errorf("%v: Contains(%v) = %v, want %v", k, tt.b, got, tt.want)
			}
		}
	}
}

func TestPassageStatistics(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Exo 2:1-10, 3:1-11", k)
		if got := p.CountVerses(); got != 21 {
			t.Errorf("%v: CountVerses() = %d, want 21", k, got)
		}
		if got := p.CountRanges(); got != 2 {
			t.Errorf("%v: CountRanges() = %d, want 2", k, got)
		}
		if got := p.BooksInPassage(); got != 1 {
			t.Errorf("%v: BooksInPassage() = %d, want 1", k, got)
		}
		for _, book := range []int{0, 2} {
			if got, err := p.ChaptersInPassage(book); err != nil || got != 2 {
				t.Errorf("%v: ChaptersInPassage(%d) = %d, %v, want 2", k, book, got, err)
			}
		}
		if got, _ := p.ChaptersInPassage(1); got != 0 {
			t.Errorf("%v: ChaptersInPassage(1) = %d, want 0", k, got)
		}
		verses := []struct {
			book, chapter, want int
		}{
			{2, 3, 11},
			{0, 2, 10},
			{0, 0, 21},
			{2, 0, 21},
			{1, 1, 0},
		}
		for _, tt := range verses {
			if got, err := p.VersesInPassage(tt.book, tt.chapter); err != nil || got != tt.want {
				t.Errorf("%v: VersesInPassage(%d, %d) = %d, %v, want %d", k, tt.book, tt.chapter, got, err, tt.want)
			}
		}
		if _, err := p.VersesInPassage(67, 1); !errors.Is(err, errors.ErrNoSuchVerse) {
			t.Errorf("%v: VersesInPassage(67, 1) error = %v, want ErrNoSuchVerse", k, err)
		}
		if _, err := p.ChaptersInPassage(67); !errors.Is(err, errors.ErrNoSuchVerse) {
			t.Errorf("%v: ChaptersInPassage(67) error = %v, want ErrNoSuchVerse", k, err)
		}
	}

	gen := MustParse("Gen 1:30-2:2, Exo 1:1, Rev 22")
	if got := gen.BooksInPassage(); got != 3 {
		t.Errorf("BooksInPassage() = %d, want 3", got)
	}
	if got, _ := gen.ChaptersInPassage(0); got != 4 {
		t.Errorf("ChaptersInPassage(0) = %d, want 4", got)
	}
}

func TestPassageIndexing(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Exo 2:1-10, 3:1-11", k)
		for _, frozen := range []bool{false, true} {
			if frozen {
				p.OptimizeReads()
			}
			v, err := p.VerseAt(10)
			if err != nil || v.Name() != "Exo 3:1" {
				t.Errorf("%v frozen=%v: VerseAt(10) = %q, %v, want %q", k, frozen, v.Name(), err, "Exo 3:1")
			}
			if _, err := p.VerseAt(21); !errors.Is(err, errors.ErrIllegalArgument) {
				t.Errorf("%v frozen=%v: VerseAt(21) error = %v, want ErrIllegalArgument", k, frozen, err)
			}
			r, err := p.RangeAt(1)
			if err != nil || r.Name() != "Exo 3:1-11" {
				t.Errorf("%v frozen=%v: RangeAt(1) = %q, %v, want %q", k, frozen, r.Name(), err, "Exo 3:1-11")
			}
			if _, err := p.RangeAt(-1); !errors.Is(err, errors.ErrIllegalArgument) {
				t.Errorf("%v frozen=%v: RangeAt(-1) error = %v, want ErrIllegalArgument", k, frozen, err)
			}
		}
	}
}

func TestPassageIterators(t *testing.T) {
	p := MustParse("Gen 1:30-2:1, Exo 1:1")
	var got []string
	for v := range p.Verses() {
		got = append(got, v.Name())
	}
	want := []string{"Gen 1:30", "Gen 1:31", "Gen 2:1", "Exo 1:1"}
	if !slices.Equal(got, want) {
		t.Errorf("Verses() = %q, want %q", got, want)
	}

	ranges := p.Ranges()
	if err := p.Add(mustVerse(t, 1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if got := len(slices.Collect(ranges)); got != 2 {
		t.Errorf("Ranges() snapshot has %d ranges after a change, want 2", got)
	}
}

func TestPassageBlur(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		res  Restriction
		want string
	}{
		{"Gen 1:1, 3, 5", 1, RestrictChapter, "Gen 1:1-6"},
		{"Gen 1:1, 3, 5", 2, RestrictChapter, "Gen 1:1-7"},
		{"Gen 1:1, 3, 5", 12, RestrictChapter, "Gen 1:1-17"},
		{"Gen 1:1, 3, 5", 26, RestrictChapter, "Gen 1:1-31"},
		{"Gen 1:1, 3, 5", 27, RestrictChapter, "Gen 1:1-31"},
		{"Gen 1:1, 3, 5", 27, RestrictNone, "Gen 1:1-2:1"},
		{"Gen 1:1, 3, 5", 0, RestrictNone, "Gen 1:1, 3, 5"},
		{"Exo 2:1-10, 3:1-11", 1, RestrictChapter, "Exo 2:1-11, 3:1-12"},
		{"Exo 2:1-10, 3:1-11", 1, RestrictNone, "Exo 1:22-2:11, 2:25-3:12"},
		{"Exo 2:1-10, 3:1-11", 99999, RestrictChapter, "Exo 2:1-3:22"},
		{"Exo 2:1-10, 3:1-11", 99999, RestrictNone, "Gen 1:1-Rev 22:21"},
		{"Rev 22:21", math.MaxInt, RestrictNone, "Gen 1:1-Rev 22:21"},
		{"Gen 1:1", math.MaxInt, RestrictNone, "Gen 1:1-Rev 22:21"},
		{"Rev 22:21", math.MaxInt, RestrictChapter, "Rev 22"},
	}
	for _, k := range kinds {
		for _, tt := range tests {
			p := parseKind(t, tt.in, k)
			if err := p.Blur(tt.n, tt.res); err != nil {
				t.Errorf("%v: Blur(%d, %v) error = %v", k, tt.n, tt.res, err)
				continue
			}
			if want := MustParse(tt.want); !Equal(p, want) {
				t.Errorf("%v: %q Blur(%d, %v) = %q, want %q", k, tt.in, tt.n, tt.res, p.Name(), want.Name())
			}
		}
	}

	p := MustParse("Exo 2:1-10, 3:1-11")
	if err := p.Blur(1, RestrictNone); err != nil {
		t.Fatal(err)
	}
	if got := p.Name(); got != "Exo 1:22-2:11, 2:25-3:12" {
		t.Errorf("Name() after Blur = %q, want %q", got, "Exo 1:22-2:11, 2:25-3:12")
	}
	if err := p.Blur(-1, RestrictNone); !errors.Is(err, errors.ErrIllegalArgument) {
		t.Errorf("Blur(-1) error = %v, want ErrIllegalArgument", err)
	}
	if err := p.Blur(1, RestrictBook); !errors.Is(err, errors.ErrIllegalArgument) {
		t.Errorf("Blur(RestrictBook) error = %v, want ErrIllegalArgument", err)
	}
}

func TestPassageTrim(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Gen 1:1-5, 2:1-3", k)
		rest, err := p.TrimVerses(3)
		if err != nil {
			t.Fatalf("TrimVerses() error = %v", err)
		}
		if got := p.Name(); got != "Gen 1:1-3" {
			t.Errorf("%v: TrimVerses kept %q, want %q", k, got, "Gen 1:1-3")
		}
		if rest == nil || rest.Name() != "Gen 1:4-5, 2:1-3" {
			t.Errorf("%v: TrimVerses overflow = %v, want %q", k, rest, "Gen 1:4-5, 2:1-3")
		}

		p = parseKind(t, "Gen 1:1-5, 2:1-3", k)
		rest, err = p.TrimRanges(1)
		if err != nil {
			t.Fatalf("TrimRanges() error = %v", err)
		}
		if got := p.Name(); got != "Gen 1:1-5" {
			t.Errorf("%v: TrimRanges kept %q, want %q", k, got, "Gen 1:1-5")
		}
		if rest == nil || rest.Name() != "Gen 2:1-3" {
			t.Errorf("%v: TrimRanges overflow = %v, want %q", k, rest, "Gen 2:1-3")
		}

		if rest, err := p.TrimVerses(10); rest != nil || err != nil {
			t.Errorf("%v: TrimVerses(10) = %v, %v, want nil, nil", k, rest, err)
		}
		if _, err := p.TrimRanges(-1); !errors.Is(err, errors.ErrIllegalArgument) {
			t.Errorf("%v: TrimRanges(-1) error = %v, want ErrIllegalArgument", k, err)
		}
	}
}

func TestPassageListeners(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Gen 1:1-5", k)
		l := &countingListener{}
		p.AddListener(l)

		if err := p.Add(span(t, 1, 1, 4, 1, 1, 8)); err != nil {
			t.Fatal(err)
		}
		if l.added != 1 {
			t.Errorf("%v: added events = %d, want 1", k, l.added)
		}
		if len(l.last.Ranges) != 1 || l.last.Ranges[0].Name() != "Gen 1:6-8" {
			t.Errorf("%v: added ranges = %v, want [Gen 1:6-8]", k, l.last.Ranges)
		}

		if err := p.Add(mustVerse(t, 1, 1, 2)); err != nil {
			t.Fatal(err)
		}
		if l.added != 1 {
			t.Errorf("%v: a no-op Add fired an event", k)
		}

		if err := p.Remove(span(t, 1, 1, 7, 1, 1, 20)); err != nil {
			t.Fatal(err)
		}
		if l.removed != 1 || l.last.Ranges[0].Name() != "Gen 1:7-8" {
			t.Errorf("%v: removed = %d %v, want 1 [Gen 1:7-8]", k, l.removed, l.last.Ranges)
		}
		if l.last.Source != p {
			t.Errorf("%v: event source is not the passage", k)
		}

		p.RemoveListener(l)
		if err := p.Add(mustVerse(t, 2, 1, 1)); err != nil {
			t.Fatal(err)
		}
		if l.added != 1 {
			t.Errorf("%v: removed listener still notified", k)
		}
	}
}

// leavingListener removes itself from src on its first event, and reads
// src from inside the callback.
type leavingListener struct {
	src   Passage
	calls int
	seen  int
}

func (l *leavingListener) leave() {
	l.calls++
	l.seen = l.src.CountVerses()
	l.src.RemoveListener(l)
}

func (l *leavingListener) VersesAdded(Event)   { l.leave() }
func (l *leavingListener) VersesRemoved(Event) { l.leave() }
func (l *leavingListener) VersesChanged(Event) { l.leave() }

func TestListenerRemovesItself(t *testing.T) {
	tests := []struct {
		name string
		p    Passage
	}{
		{"ranged", New(WithKind(KindRanged))},
		{"bitwise", New(WithKind(KindBitwise))},
		{"tally", NewTally()},
		{"synchronized", Synchronized(New())},
		{"synchronized tally", Synchronized(NewTally())},
	}
	gen11, gen12 := mustVerse(t, 1, 1, 1), mustVerse(t, 1, 1, 2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaving := &leavingListener{src: tt.p}
			staying := &countingListener{}
			tt.p.AddListener(leaving)
			tt.p.AddListener(staying)

			done := make(chan error, 1)
			go func() {
				if err := tt.p.Add(gen11); err != nil {
					done <- err
					return
				}
				done <- tt.p.Add(gen12)
			}()
			select {
			case err := <-done:
				if err != nil {
					t.Fatalf("Add() error = %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("Add() did not return while a listener used the passage")
			}

			if leaving.calls != 1 {
				t.Errorf("leaving listener calls = %d, want 1", leaving.calls)
			}
			if leaving.seen != 1 {
				t.Errorf("CountVerses() inside callback = %d, want 1", leaving.seen)
			}
			if staying.added != 2 {
				t.Errorf("staying listener added = %d, want 2", staying.added)
			}
			if staying.last.Source != tt.p {
				t.Errorf("event source = %v, want the passage the listener was added to", staying.last.Source)
			}
		})
	}
}

func TestPassageOptimizeReads(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Gen 1:1-5", k)
		p.OptimizeReads()
		if err := p.Add(mustVerse(t, 1, 1, 9)); !errors.Is(err, errors.ErrIllegalState) {
			t.Errorf("%v: Add() on frozen passage error = %v, want ErrIllegalState", k, err)
		}
		if err := p.Clear(); !errors.Is(err, errors.ErrIllegalState) {
			t.Errorf("%v: Clear() on frozen passage error = %v, want ErrIllegalState", k, err)
		}
		if !p.Contains(mustVerse(t, 1, 1, 5)) || p.Contains(mustVerse(t, 1, 1, 6)) {
			t.Errorf("%v: Contains() on frozen passage is wrong", k)
		}
		c := p.Clone()
		if err := c.Add(mustVerse(t, 1, 1, 9)); err != nil {
			t.Errorf("%v: Add() on clone of frozen passage error = %v", k, err)
		}
		p.OptimizeWrites()
		if err := p.Add(mustVerse(t, 1, 1, 9)); err != nil {
			t.Errorf("%v: Add() after OptimizeWrites error = %v", k, err)
		}
		if got := p.Name(); got != "Gen 1:1-5, 9" {
			t.Errorf("%v: Name() = %q, want %q", k, got, "Gen 1:1-5, 9")
		}
	}
}

func TestPassageCloneIsDeep(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Gen 1:1", k)
		c := p.Clone()
		if err := c.Add(mustVerse(t, 1, 1, 2)); err != nil {
			t.Fatal(err)
		}
		if p.Name() != "Gen 1:1" || c.Name() != "Gen 1:1-2" {
			t.Errorf("%v: clone shares state: %q / %q", k, p.Name(), c.Name())
		}
	}
}

func TestPassageNameWith(t *testing.T) {
	p := MustParse("gen 1 1, 3")
	upper, _ := NewRenderOptions(versification.CaseUpper, false)
	if got := p.NameWith(upper); got != "GEN 1:1, 3" {
		t.Errorf("NameWith(upper) = %q, want %q", got, "GEN 1:1, 3")
	}
	persistent, _ := NewRenderOptions(versification.CaseSentence, true)
	if got := p.NameWith(persistent); got != "gen 1 1, 3" {
		t.Errorf("NameWith(persistent) = %q, want %q", got, "gen 1 1, 3")
	}
	if err := p.Add(mustVerse(t, 1, 1, 2)); err != nil {
		t.Fatal(err)
	}
	if got := p.NameWith(persistent); got != "Gen 1:1-3" {
		t.Errorf("NameWith(persistent) after change = %q, want %q", got, "Gen 1:1-3")
	}
}

func TestPassageDescription(t *testing.T) {
	for _, k := range kinds {
		p := parseKind(t, "Gen 1:1-5, 2:1-3, Rev 22", k)
		var buf bytes.Buffer
		if err := p.WriteDescription(&buf); err != nil {
			t.Fatalf("WriteDescription() error = %v", err)
		}
		want := "Gen 1:1-5\nGen 2:1-3\nRev 22\n"
		if got := buf.String(); got != want {
			t.Errorf("%v: WriteDescription() = %q, want %q", k, got, want)
		}

		q := New(WithKind(k))
		if err := q.ReadDescription(strings.NewReader(want + "\n  \n")); err != nil {
			t.Fatalf("ReadDescription() error = %v", err)
		}
		if !Equal(p, q) {
			t.Errorf("%v: ReadDescription() = %q, want %q", k, q.Name(), p.Name())
		}
		if err := q.ReadDescription(strings.NewReader("Gen 99\n")); !errors.Is(err, errors.ErrNoSuchVerse) {
			t.Errorf("%v: ReadDescription(bad) error = %v, want ErrNoSuchVerse", k, err)
		}
	}
}

func TestEqualAcrossKinds(t *testing.T) {
	a := parseKind(t, "Gen 1:1-3, Exo 2", KindRanged)
	b := parseKind(t, "Exo 2, Gen 1:3, Gen 1:1-2", KindBitwise)
	if !Equal(a, b) {
		t.Errorf("Equal(%q, %q) = false", a.Name(), b.Name())
	}
	if Equal(a, MustParse("Gen 1:1-3")) {
		t.Error("Equal() of different passages = true")
	}
	if !Equal(nil, nil) || Equal(a, nil) {
		t.Error("Equal() with nil is wrong")
	}
}

func TestReadOnly(t *testing.T) {
	p := MustParse("Gen 1:1-5")
	ro := ReadOnly(p)
	mutators := map[string]error{
		"Add":       ro.Add(mustVerse(t, 1, 1, 9)),
		"Remove":    ro.Remove(mustVerse(t, 1, 1, 1)),
		"AddAll":    ro.AddAll(MustParse("Exo 1")),
		"RemoveAll": ro.RemoveAll(MustParse("Exo 1")),
		"RetainAll": ro.RetainAll(MustParse("Exo 1")),
		"Clear":     ro.Clear(),
		"Blur":      ro.Blur(1, RestrictNone),
	}
	for name, err := range mutators {
		if !errors.Is(err, errors.ErrIllegalState) {
			t.Errorf("ReadOnly %s() error = %v, want ErrIllegalState", name, err)
		}
	}
	if _, err := ro.TrimVerses(1); !errors.Is(err, errors.ErrIllegalState) {
		t.Errorf("ReadOnly TrimVerses() error = %v, want ErrIllegalState", err)
	}
	if got := ro.Name(); got != "Gen 1:1-5" {
		t.Errorf("ReadOnly Name() = %q, want %q", got, "Gen 1:1-5")
	}
	if ReadOnly(ro) != ro {
		t.Error("ReadOnly(ReadOnly(p)) should not wrap twice")
	}

	if err := p.Add(mustVerse(t, 1, 1, 6)); err != nil {
		t.Fatal(err)
	}
	if got := ro.CountVerses(); got != 6 {
		t.Errorf("ReadOnly view CountVerses() = %d, want 6", got)
	}

	c := ro.Clone()
	if err := c.Add(mustVerse(t, 1, 1, 9)); err != nil {
		t.Errorf("Add() on clone of read-only view error = %v", err)
	}
}

func TestSynchronized(t *testing.T) {
	for _, k := range kinds {
		s := Synchronized(New(WithKind(k)))
		var wg sync.WaitGroup
		for i := 1; i <= 100; i++ {
			wg.Add(1)
			go func(ord int) {
				defer wg.Done()
				v, _ := NewVerseFromOrdinal(ord * 3)
				if err := s.Add(v); err != nil {
					t.Errorf("Add() error = %v", err)
				}
				_ = s.Name()
			}(i)
		}
		wg.Wait()
		if got := s.CountVerses(); got != 100 {
			t.Errorf("%v: CountVerses() = %d, want 100", k, got)
		}

		if err := s.AddAll(s); err != nil {
			t.Errorf("%v: AddAll(self) error = %v", k, err)
		}
		if !s.ContainsAll(s) {
			t.Errorf("%v: ContainsAll(self) = false", k)
		}
		if Synchronized(s) != s {
			t.Errorf("%v: Synchronized(Synchronized(p)) should not wrap twice", k)
		}
	}
}
