package passage

import (
	"bufio"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// Passage is an ordered set of verses. Ranges are always reported in
// ascending order and never overlap or touch, except for a tally in tally
// order, which reports them by weight.
//
// A Passage is not safe for concurrent use; wrap it with Synchronized.
type Passage interface {
	Add(b VerseBase) error
	Remove(b VerseBase) error
	AddAll(other Passage) error
	RemoveAll(other Passage) error
	RetainAll(other Passage) error
	Clear() error
	Blur(n int, r Restriction) error

	Contains(b VerseBase) bool
	ContainsAll(other Passage) bool
	IsEmpty() bool
	CountVerses() int
	CountRanges() int
	VerseAt(i int) (Verse, error)
	RangeAt(i int) (VerseRange, error)
	BooksInPassage() int
	ChaptersInPassage(book int) (int, error)
	VersesInPassage(book, chapter int) (int, error)
	Verses() iter.Seq[Verse]
	Ranges() iter.Seq[VerseRange]

	TrimVerses(n int) (Passage, error)
	TrimRanges(n int) (Passage, error)

	OptimizeReads()
	OptimizeWrites()

	AddListener(l Listener)
	RemoveListener(l Listener)

	Name() string
	NameWith(o RenderOptions) string
	String() string
	WriteDescription(w io.Writer) error
	ReadDescription(r io.Reader) error

	Clone() Passage
	Kind() Kind
}

// Kind selects a passage implementation.
type Kind int

const (
	// KindRanged stores a sorted list of ranges. It suits the short,
	// scattered passages people type.
	KindRanged Kind = iota
	// KindBitwise stores one bit per verse of the canon.
	KindBitwise
	// KindTally is a PassageTally.
	KindTally
)

var kindNames = map[Kind]string{KindRanged: "ranged", KindBitwise: "bitwise", KindTally: "tally"}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts "ranged", "bitwise" or "tally".
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, errors.NewArgument("kind", s, "expected ranged, bitwise or tally")
}

// readIndex is the frozen form built by OptimizeReads.
type readIndex struct {
	ordinals []int
	ranges   []VerseRange
	bits     *bitset.BitSet
}

func buildReadIndex(s store) *readIndex {
	idx := &readIndex{
		ordinals: make([]int, 0, s.count()),
		ranges:   s.ranges(),
		bits:     bitset.New(uint(canon.VersesInBible() + 1)),
	}
	for _, r := range idx.ranges {
		for ord := r.first(); ord <= r.last(); ord++ {
			idx.ordinals = append(idx.ordinals, ord)
			idx.bits.Set(uint(ord))
		}
	}
	return idx
}

// passage is the engine behind KindRanged and KindBitwise.
type passage struct {
	listeners
	kind     Kind
	store    store
	frozen   *readIndex
	original string
}

func newPassage(k Kind) *passage {
	return &passage{kind: k, store: newStore(k)}
}

func (p *passage) Kind() Kind { return p.kind }

func (p *passage) writable(op string) error {
	if p.frozen != nil {
		return errors.NewState(op, "passage is optimised for reading")
	}
	return nil
}

func (p *passage) changed(kind EventKind, ranges []VerseRange) {
	if len(ranges) == 0 {
		return
	}
	p.original = ""
	p.fire(p, kind, ranges)
}

func (p *passage) Add(b VerseBase) error {
	r, ok := asRange(b)
	if !ok {
		return errors.NewNull("verse")
	}
	if err := p.writable("add"); err != nil {
		return err
	}
	p.changed(VersesAdded, p.store.add(r))
	return nil
}

func (p *passage) Remove(b VerseBase) error {
	r, ok := asRange(b)
	if !ok {
		return errors.NewNull("verse")
	}
	if err := p.writable("remove"); err != nil {
		return err
	}
	p.changed(VersesRemoved, p.store.remove(r))
	return nil
}

func (p *passage) AddAll(other Passage) error {
	if other == nil {
		return errors.NewNull("passage")
	}
	if err := p.writable("add"); err != nil {
		return err
	}
	var added []VerseRange
	for _, r := range collectRanges(other) {
		added = append(added, p.store.add(r)...)
	}
	p.changed(VersesAdded, added)
	return nil
}

func (p *passage) RemoveAll(other Passage) error {
	if other == nil {
		return errors.NewNull("passage")
	}
	if err := p.writable("remove"); err != nil {
		return err
	}
	var removed []VerseRange
	for _, r := range collectRanges(other) {
		removed = append(removed, p.store.remove(r)...)
	}
	p.changed(VersesRemoved, removed)
	return nil
}

func (p *passage) RetainAll(other Passage) error {
	if other == nil {
		return errors.NewNull("passage")
	}
	if err := p.writable("retain"); err != nil {
		return err
	}
	var removed []VerseRange
	for _, gap := range complement(collectRanges(other)) {
		removed = append(removed, p.store.remove(gap)...)
	}
	p.changed(VersesRemoved, removed)
	return nil
}

func (p *passage) Clear() error {
	if err := p.writable("clear"); err != nil {
		return err
	}
	p.changed(VersesRemoved, p.store.remove(wholeCanon()))
	return nil
}

func (p *passage) Blur(n int, res Restriction) error {
	if n < 0 {
		return errors.NewArgument("blur", n, "blur count must not be negative")
	}
	if res != RestrictNone && res != RestrictChapter {
		return errors.NewArgument("restriction", res, "blurring supports none and chapter only")
	}
	if err := p.writable("blur"); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	var added []VerseRange
	for _, r := range p.store.ranges() {
		wide, err := BlurRange(r, n, n, res)
		if err != nil {
			return err
		}
		added = append(added, p.store.add(wide)...)
	}
	p.changed(VersesAdded, added)
	return nil
}

func (p *passage) Contains(b VerseBase) bool {
	r, ok := asRange(b)
	if !ok {
		return false
	}
	if p.frozen != nil {
		next, found := p.frozen.bits.NextClear(uint(r.first()))
		return !found || int(next) > r.last()
	}
	return p.store.contains(r)
}

func (p *passage) ContainsAll(other Passage) bool {
	if other == nil {
		return false
	}
	for r := range other.Ranges() {
		if !p.Contains(r) {
			return false
		}
	}
	return true
}

func (p *passage) IsEmpty() bool {
	return p.store.count() == 0
}

func (p *passage) CountVerses() int {
	return p.store.count()
}

func (p *passage) rangeList() []VerseRange {
	if p.frozen != nil {
		return p.frozen.ranges
	}
	return p.store.ranges()
}

func (p *passage) CountRanges() int {
	if p.frozen != nil {
		return len(p.frozen.ranges)
	}
	return len(p.store.ranges())
}

func (p *passage) VerseAt(i int) (Verse, error) {
	if i < 0 || i >= p.store.count() {
		return Verse{}, errors.NewArgument("index", i, "verse index out of range")
	}
	if p.frozen != nil {
		return verseAt(p.frozen.ordinals[i]), nil
	}
	for _, r := range p.store.ranges() {
		if i < r.Count() {
			return r.Start().Add(i), nil
		}
		i -= r.Count()
	}
	return Verse{}, errors.NewArgument("index", i, "verse index out of range")
}

func (p *passage) RangeAt(i int) (VerseRange, error) {
	ranges := p.rangeList()
	if i < 0 || i >= len(ranges) {
		return VerseRange{}, errors.NewArgument("index", i, "range index out of range")
	}
	return ranges[i], nil
}

func (p *passage) BooksInPassage() int {
	return booksIn(p.rangeList())
}

func (p *passage) ChaptersInPassage(book int) (int, error) {
	return chaptersIn(p.rangeList(), book)
}

func (p *passage) VersesInPassage(book, chapter int) (int, error) {
	return versesIn(p.rangeList(), book, chapter)
}

func (p *passage) Verses() iter.Seq[Verse] {
	return versesOf(p.rangeList())
}

func (p *passage) Ranges() iter.Seq[VerseRange] {
	return slices.Values(slices.Clone(p.rangeList()))
}

func (p *passage) TrimVerses(n int) (Passage, error) {
	if n < 0 {
		return nil, errors.NewArgument("count", n, "trim count must not be negative")
	}
	if err := p.writable("trim"); err != nil {
		return nil, err
	}
	if p.store.count() <= n {
		return nil, nil
	}
	cut, _ := p.VerseAt(n)
	tail := rangeOf(cut.Ordinal(), canon.VersesInBible())
	removed := p.store.remove(tail)

	rest := newPassage(p.kind)
	for _, r := range removed {
		rest.store.add(r)
	}
	p.changed(VersesRemoved, removed)
	return rest, nil
}

func (p *passage) TrimRanges(n int) (Passage, error) {
	if n < 0 {
		return nil, errors.NewArgument("count", n, "trim count must not be negative")
	}
	if err := p.writable("trim"); err != nil {
		return nil, err
	}
	ranges := p.store.ranges()
	if len(ranges) <= n {
		return nil, nil
	}

	rest := newPassage(p.kind)
	var removed []VerseRange
	for _, r := range ranges[n:] {
		removed = append(removed, p.store.remove(r)...)
		rest.store.add(r)
	}
	p.changed(VersesRemoved, removed)
	return rest, nil
}

// OptimizeReads freezes the passage: lookups by index and containment
// become constant time and every mutator fails until OptimizeWrites.
func (p *passage) OptimizeReads() {
	if p.frozen == nil {
		p.frozen = buildReadIndex(p.store)
	}
}

// OptimizeWrites makes a frozen passage mutable again.
func (p *passage) OptimizeWrites() {
	p.frozen = nil
}

func (p *passage) Name() string {
	return p.NameWith(DefaultRenderOptions)
}

func (p *passage) NameWith(o RenderOptions) string {
	if o.persistent && p.original != "" {
		return p.original
	}
	return nameRanges(p.rangeList(), o)
}

func (p *passage) String() string {
	return p.Name()
}

func (p *passage) WriteDescription(w io.Writer) error {
	return writeDescription(w, p.rangeList())
}

func (p *passage) ReadDescription(r io.Reader) error {
	return readDescription(r, p)
}

func (p *passage) Clone() Passage {
	return &passage{kind: p.kind, store: p.store.clone(), original: p.original}
}

// asRange converts any VerseBase, rejecting nil values.
func asRange(b VerseBase) (VerseRange, bool) {
	switch x := b.(type) {
	case nil:
		return VerseRange{}, false
	case Verse:
		return NewVerseRange(x), true
	case VerseRange:
		return x, true
	case *Verse:
		if x == nil {
			return VerseRange{}, false
		}
		return NewVerseRange(*x), true
	case *VerseRange:
		if x == nil {
			return VerseRange{}, false
		}
		return *x, true
	}
	return NewVerseRangeSpan(b.Start(), b.End()), true
}

func wholeCanon() VerseRange {
	return rangeOf(1, canon.VersesInBible())
}

// collectRanges snapshots another passage's ranges in ascending order.
func collectRanges(p Passage) []VerseRange {
	ranges := slices.Collect(p.Ranges())
	if p.Kind() == KindTally {
		slices.SortFunc(ranges, VerseRange.Compare)
	}
	return ranges
}

// complement returns the verses of the canon outside ascending ranges.
func complement(ranges []VerseRange) []VerseRange {
	var gaps []VerseRange
	next := 1
	for _, r := range ranges {
		if r.first() > next {
			gaps = append(gaps, rangeOf(next, r.first()-1))
		}
		next = max(next, r.last()+1)
	}
	if next <= canon.VersesInBible() {
		gaps = append(gaps, rangeOf(next, canon.VersesInBible()))
	}
	return gaps
}

func versesOf(ranges []VerseRange) iter.Seq[Verse] {
	ranges = slices.Clone(ranges)
	return func(yield func(Verse) bool) {
		for _, r := range ranges {
			for v := range r.Verses() {
				if !yield(v) {
					return
				}
			}
		}
	}
}

func booksIn(ranges []VerseRange) int {
	count, last := 0, 0
	for _, r := range ranges {
		for b := r.Start().Book(); b <= r.End().Book(); b++ {
			if b != last {
				count++
				last = b
			}
		}
	}
	return count
}

func chaptersIn(ranges []VerseRange, book int) (int, error) {
	if book != 0 {
		if _, err := canon.ChaptersInBook(book); err != nil {
			return 0, err
		}
	}
	count := 0
	var last [2]int
	for _, r := range ranges {
		for ord := r.first(); ord <= r.last(); {
			v := verseAt(ord)
			ref := v.Ref()
			key := [2]int{ref.Book, ref.Chapter}
			if key != last && (book == 0 || ref.Book == book) {
				count++
			}
			last = key
			ord = v.LastVerseInChapter().Ordinal() + 1
		}
	}
	return count, nil
}

func versesIn(ranges []VerseRange, book, chapter int) (int, error) {
	if err := canon.Validate(max(book, 1), max(chapter, 1), 1); err != nil {
		return 0, err
	}
	if book == 0 && chapter == 0 {
		total := 0
		for _, r := range ranges {
			total += r.Count()
		}
		return total, nil
	}
	count := 0
	for _, r := range ranges {
		for v := range r.Verses() {
			ref := v.Ref()
			if (book == 0 || ref.Book == book) && (chapter == 0 || ref.Chapter == chapter) {
				count++
			}
		}
	}
	return count, nil
}

// nameRanges names each range relative to the start of the one before it.
func nameRanges(ranges []VerseRange, o RenderOptions) string {
	var b strings.Builder
	var base *Verse
	for i, r := range ranges {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(o.RangeName(r, base))
		start := r.Start()
		base = &start
	}
	return b.String()
}

func writeDescription(w io.Writer, ranges []VerseRange) error {
	bw := bufio.NewWriter(w)
	for _, r := range ranges {
		if _, err := bw.WriteString(r.Name() + "\n"); err != nil {
			return errors.NewIO("write", "description", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.NewIO("write", "description", err)
	}
	return nil
}

func readDescription(r io.Reader, p Passage) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		vr, err := ParseVerseRange(line)
		if err != nil {
			return err
		}
		if err := p.Add(vr); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.NewIO("read", "description", err)
	}
	return nil
}
