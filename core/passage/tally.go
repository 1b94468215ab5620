package passage

import (
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// MaxTally caps both individual weights and the running maximum.
const MaxTally = 20000

// Order is the iteration order of a Tally.
type Order int

const (
	// OrderBiblical iterates in canon order.
	OrderBiblical Order = iota
	// OrderTally iterates by weight, heaviest first, ties in canon order.
	OrderTally
)

func (o Order) String() string {
	switch o {
	case OrderBiblical:
		return "biblical"
	case OrderTally:
		return "tally"
	}
	return "unknown"
}

// Tally is a passage that counts how often each verse was added, as used
// for ranking search results. Verses with a zero count are not members.
type Tally struct {
	listeners
	board    []int // indexed by ordinal
	size     int
	max      int
	order    Order
	frozen   []int // ordinals in current order, set by OptimizeReads
	original string
}

// NewTally returns an empty tally in biblical order.
func NewTally() *Tally {
	return &Tally{board: make([]int, canon.VersesInBible()+1)}
}

func (t *Tally) Kind() Kind { return KindTally }

// SetOrder changes the iteration order.
func (t *Tally) SetOrder(o Order) error {
	if o != OrderBiblical && o != OrderTally {
		return errors.NewArgument("order", int(o), "expected biblical or tally order")
	}
	t.order = o
	t.frozen = nil
	return nil
}

// Order returns the iteration order.
func (t *Tally) Order() Order { return t.order }

// Total returns the running maximum used as 100% by NameAndTally.
func (t *Tally) Total() int { return t.max }

// TallyOf returns the weight of v, zero if it is not a member.
func (t *Tally) TallyOf(v Verse) int {
	return t.board[v.Ordinal()]
}

// IndexOf returns the position of v in the current order, or -1.
func (t *Tally) IndexOf(v Verse) int {
	if t.board[v.Ordinal()] == 0 {
		return -1
	}
	return slices.Index(t.ordered(), v.Ordinal())
}

func (t *Tally) writable(op string) error {
	if t.frozen != nil {
		return errors.NewState(op, "tally is optimised for reading")
	}
	return nil
}

func (t *Tally) changed(kind EventKind, ranges []VerseRange) {
	t.original = ""
	t.fire(t, kind, ranges)
}

// increment adds n to one weight, keeping it within 0..MaxTally, and
// reports whether the weight moved.
func (t *Tally) increment(ord, n int) bool {
	was := t.board[ord]
	t.board[ord] = min(max(was+n, 0), MaxTally)
	switch has := t.board[ord] > 0; {
	case was > 0 && !has:
		t.size--
	case was == 0 && has:
		t.size++
	}
	return t.board[ord] != was
}

func (t *Tally) incrementMax(n int) {
	t.max = min(max(t.max+n, 0), MaxTally)
}

func (t *Tally) kill(ord int) bool {
	if t.board[ord] == 0 {
		return false
	}
	t.board[ord] = 0
	t.size--
	return true
}

func (t *Tally) resetMax() {
	t.max, t.size = 0, 0
	for _, w := range t.board {
		if w > 0 {
			t.size++
		}
		t.max = max(t.max, w)
	}
}

// Add adds one to the weight of every verse of b.
func (t *Tally) Add(b VerseBase) error {
	return t.AddWeighted(b, 1)
}

// AddWeighted adds n to the weight of every verse of b. A negative n
// lowers the weights without touching the maximum. Listeners hear of the
// verses whose weight rose, or of those that dropped out; lowering weights
// that stay above zero is a VersesChanged event.
func (t *Tally) AddWeighted(b VerseBase, n int) error {
	r, ok := asRange(b)
	if !ok {
		return errors.NewNull("verse")
	}
	if err := t.writable("add"); err != nil {
		return err
	}
	var moved, dropped []VerseRange
	for ord := r.first(); ord <= r.last(); ord++ {
		if !t.increment(ord, n) {
			continue
		}
		moved = append(moved, rangeOf(ord, ord))
		if t.board[ord] == 0 {
			dropped = append(dropped, rangeOf(ord, ord))
		}
	}
	if n > 0 {
		t.incrementMax(n)
	}
	switch {
	case len(moved) == 0:
	case n > 0:
		t.changed(VersesAdded, mergeAdjacent(moved))
	case len(dropped) > 0:
		t.changed(VersesRemoved, mergeAdjacent(dropped))
	default:
		t.changed(VersesChanged, nil)
	}
	return nil
}

// UnAdd takes one from the weight of every verse of b, never below zero.
func (t *Tally) UnAdd(b VerseBase) error {
	return t.AddWeighted(b, -1)
}

// AddAll adds another passage. A tally contributes its weights and its
// maximum; any other passage adds one to each of its verses.
func (t *Tally) AddAll(other Passage) error {
	return t.addAll(other, 1)
}

// UnAddAll reverses AddAll, except that the maximum is left alone.
func (t *Tally) UnAddAll(other Passage) error {
	return t.addAll(other, -1)
}

func (t *Tally) addAll(other Passage, sign int) error {
	if other == nil {
		return errors.NewNull("passage")
	}
	if err := t.writable("add"); err != nil {
		return err
	}
	if o, ok := unwrapTally(other); ok {
		board := slices.Clone(o.board)
		for ord, w := range board {
			if w != 0 {
				t.increment(ord, sign*w)
			}
		}
		if sign > 0 {
			t.incrementMax(o.max)
		}
	} else {
		for _, r := range collectRanges(other) {
			for ord := r.first(); ord <= r.last(); ord++ {
				t.increment(ord, sign)
			}
		}
		if sign > 0 {
			t.incrementMax(1)
		}
	}
	if sign > 0 {
		t.changed(VersesAdded, nil)
	} else {
		t.changed(VersesRemoved, nil)
	}
	return nil
}

// Remove drops every verse of b whatever its weight.
func (t *Tally) Remove(b VerseBase) error {
	r, ok := asRange(b)
	if !ok {
		return errors.NewNull("verse")
	}
	if err := t.writable("remove"); err != nil {
		return err
	}
	var removed []VerseRange
	for ord := r.first(); ord <= r.last(); ord++ {
		if t.kill(ord) {
			removed = append(removed, rangeOf(ord, ord))
		}
	}
	if len(removed) > 0 {
		t.changed(VersesRemoved, mergeAdjacent(removed))
	}
	return nil
}

func (t *Tally) RemoveAll(other Passage) error {
	if other == nil {
		return errors.NewNull("passage")
	}
	if err := t.writable("remove"); err != nil {
		return err
	}
	var removed []VerseRange
	for _, r := range collectRanges(other) {
		for ord := r.first(); ord <= r.last(); ord++ {
			if t.kill(ord) {
				removed = append(removed, rangeOf(ord, ord))
			}
		}
	}
	if len(removed) > 0 {
		t.changed(VersesRemoved, mergeAdjacent(removed))
	}
	return nil
}

func (t *Tally) RetainAll(other Passage) error {
	if other == nil {
		return errors.NewNull("passage")
	}
	if err := t.writable("retain"); err != nil {
		return err
	}
	var removed []VerseRange
	for _, gap := range complement(collectRanges(other)) {
		for ord := gap.first(); ord <= gap.last(); ord++ {
			if t.kill(ord) {
				removed = append(removed, rangeOf(ord, ord))
			}
		}
	}
	if len(removed) > 0 {
		t.changed(VersesRemoved, mergeAdjacent(removed))
	}
	return nil
}

func (t *Tally) Clear() error {
	if err := t.writable("clear"); err != nil {
		return err
	}
	if t.size == 0 {
		return nil
	}
	removed := t.biblicalRanges()
	clear(t.board)
	t.size = 0
	t.changed(VersesRemoved, removed)
	return nil
}

// Flatten sets every non-zero weight, and the maximum, to one.
func (t *Tally) Flatten() error {
	if err := t.writable("flatten"); err != nil {
		return err
	}
	for ord, w := range t.board {
		if w != 0 {
			t.board[ord] = 1
		}
	}
	t.max = 1
	t.changed(VersesChanged, nil)
	return nil
}

// Blur spreads weight to neighbouring verses. Under RestrictNone each verse
// of weight w gives w+n-d to the verses d <= n away, so the result stays
// ranked by closeness; the maximum is then recomputed.
func (t *Tally) Blur(n int, res Restriction) error {
	if n < 0 {
		return errors.NewArgument("blur", n, "blur count must not be negative")
	}
	if res != RestrictNone && res != RestrictChapter {
		return errors.NewArgument("restriction", res, "blurring supports none and chapter only")
	}
	if err := t.writable("blur"); err != nil {
		return err
	}

	// Past this every weight the blur can reach is already MaxTally.
	last := canon.VersesInBible()
	n = min(n, MaxTally+last)

	if res == RestrictNone {
		board := make([]int, len(t.board))
		for ord, w := range t.board {
			if w == 0 {
				continue
			}
			for j := max(-n, 1-ord); j <= min(n, last-ord); j++ {
				k := ord + j
				d := j
				if d < 0 {
					d = -d
				}
				board[k] = min(board[k]+w+n-d, MaxTally)
			}
		}
		t.board = board
	} else {
		for _, r := range t.biblicalRanges() {
			full, err := BlurRange(r, n, n, res)
			if err != nil {
				return err
			}
			for i := 0; i <= n; i++ {
				wide, _ := BlurRange(r, i, i, res)
				// Once wide reaches the chapter edges the remaining
				// passes all cover the same verses.
				times := 1
				if wide.Equal(full) {
					times = n - i + 1
				}
				for ord := wide.first(); ord <= wide.last(); ord++ {
					t.increment(ord, times)
				}
				t.incrementMax(times)
				if times > 1 {
					break
				}
			}
		}
	}
	t.resetMax()
	t.changed(VersesChanged, nil)
	return nil
}

func (t *Tally) Contains(b VerseBase) bool {
	r, ok := asRange(b)
	if !ok {
		return false
	}
	for ord := r.first(); ord <= r.last(); ord++ {
		if t.board[ord] == 0 {
			return false
		}
	}
	return true
}

func (t *Tally) ContainsAll(other Passage) bool {
	if other == nil {
		return false
	}
	for r := range other.Ranges() {
		if !t.Contains(r) {
			return false
		}
	}
	return true
}

func (t *Tally) IsEmpty() bool { return t.size == 0 }

func (t *Tally) CountVerses() int { return t.size }

func (t *Tally) CountRanges() int { return len(t.rangeList()) }

func (t *Tally) VerseAt(i int) (Verse, error) {
	if i < 0 || i >= t.size {
		return Verse{}, errors.NewArgument("index", i, "verse index out of range")
	}
	return verseAt(t.ordered()[i]), nil
}

func (t *Tally) RangeAt(i int) (VerseRange, error) {
	ranges := t.rangeList()
	if i < 0 || i >= len(ranges) {
		return VerseRange{}, errors.NewArgument("index", i, "range index out of range")
	}
	return ranges[i], nil
}

func (t *Tally) BooksInPassage() int {
	return booksIn(t.biblicalRanges())
}

func (t *Tally) ChaptersInPassage(book int) (int, error) {
	return chaptersIn(t.biblicalRanges(), book)
}

func (t *Tally) VersesInPassage(book, chapter int) (int, error) {
	return versesIn(t.biblicalRanges(), book, chapter)
}

// Verses yields the members in the current order.
func (t *Tally) Verses() iter.Seq[Verse] {
	ords := slices.Clone(t.ordered())
	return func(yield func(Verse) bool) {
		for _, ord := range ords {
			if !yield(verseAt(ord)) {
				return
			}
		}
	}
}

// Ranges yields the members as ranges. In tally order, verses that follow
// each other both in rank and in the canon are joined, and the ranges are
// sorted by their heaviest verse.
func (t *Tally) Ranges() iter.Seq[VerseRange] {
	return slices.Values(slices.Clone(t.rangeList()))
}

func (t *Tally) TrimVerses(n int) (Passage, error) {
	if n < 0 {
		return nil, errors.NewArgument("count", n, "trim count must not be negative")
	}
	if err := t.writable("trim"); err != nil {
		return nil, err
	}
	ords := t.ordered()
	if len(ords) <= n {
		return nil, nil
	}

	rest := t.cloneTally()
	for _, ord := range ords[:n] {
		rest.kill(ord)
	}
	for _, ord := range ords[n:] {
		t.kill(ord)
	}
	t.changed(VersesRemoved, nil)
	return rest, nil
}

func (t *Tally) TrimRanges(n int) (Passage, error) {
	return t.TrimRangesRestricted(n, RestrictNone)
}

// TrimRangesRestricted keeps the first n ranges, after splitting them under
// res when in biblical order, and returns the rest as a new tally.
func (t *Tally) TrimRangesRestricted(n int, res Restriction) (Passage, error) {
	if n < 0 {
		return nil, errors.NewArgument("count", n, "trim count must not be negative")
	}
	if err := t.writable("trim"); err != nil {
		return nil, err
	}
	ranges := t.rangeList()
	if t.order == OrderBiblical {
		ranges = slices.Collect(SplitRanges(slices.Values(ranges), res))
	}
	if len(ranges) <= n {
		return nil, nil
	}

	rest := t.cloneTally()
	for _, r := range ranges[:n] {
		for ord := r.first(); ord <= r.last(); ord++ {
			rest.kill(ord)
		}
	}
	for _, r := range ranges[n:] {
		for ord := r.first(); ord <= r.last(); ord++ {
			t.kill(ord)
		}
	}
	t.changed(VersesRemoved, nil)
	return rest, nil
}

// OptimizeReads caches the current order and freezes the tally.
func (t *Tally) OptimizeReads() {
	if t.frozen == nil {
		t.frozen = t.computeOrder()
	}
}

func (t *Tally) OptimizeWrites() {
	t.frozen = nil
}

// Name names the members in the current order.
func (t *Tally) Name() string {
	return t.NameWith(DefaultRenderOptions)
}

func (t *Tally) NameWith(o RenderOptions) string {
	if o.persistent && t.original != "" {
		return t.original
	}
	return t.name(o, 0)
}

// NameLimit names at most n verses in tally order; 0 means all. In biblical
// order the whole passage is named.
func (t *Tally) NameLimit(n int) string {
	return t.name(DefaultRenderOptions, n)
}

func (t *Tally) name(o RenderOptions, limit int) string {
	if t.order == OrderBiblical {
		return nameRanges(t.biblicalRanges(), o)
	}
	var b strings.Builder
	var prev *Verse
	for i, ord := range t.limited(limit) {
		if i > 0 {
			b.WriteString(", ")
		}
		v := verseAt(ord)
		b.WriteString(o.VerseName(v, prev))
		prev = &v
	}
	return b.String()
}

// NameAndTally lists every verse in tally order with its share of the
// maximum, e.g. "Gen 1:1 (100%), Gen 1:5 (66%)".
func (t *Tally) NameAndTally() string {
	return t.NameAndTallyLimit(0)
}

// NameAndTallyLimit is NameAndTally for at most n verses; 0 means all.
func (t *Tally) NameAndTallyLimit(n int) string {
	var b strings.Builder
	for i, ord := range t.limited(n) {
		if i > 0 {
			b.WriteString(", ")
		}
		pct := 0
		if t.max > 0 {
			pct = 100 * t.board[ord] / t.max
		}
		b.WriteString(verseAt(ord).Name())
		b.WriteString(" (" + strconv.Itoa(pct) + "%)")
	}
	return b.String()
}

func (t *Tally) limited(n int) []int {
	ords := t.byWeight()
	if n > 0 && n < len(ords) {
		ords = ords[:n]
	}
	return ords
}

func (t *Tally) String() string {
	return t.Name()
}

func (t *Tally) WriteDescription(w io.Writer) error {
	return writeDescription(w, t.rangeList())
}

func (t *Tally) ReadDescription(r io.Reader) error {
	return readDescription(r, t)
}

func (t *Tally) Clone() Passage {
	return t.cloneTally()
}

func (t *Tally) cloneTally() *Tally {
	return &Tally{
		board:    slices.Clone(t.board),
		size:     t.size,
		max:      t.max,
		order:    t.order,
		original: t.original,
	}
}

// ordered returns member ordinals in the current order.
func (t *Tally) ordered() []int {
	if t.frozen != nil {
		return t.frozen
	}
	return t.computeOrder()
}

func (t *Tally) computeOrder() []int {
	if t.order == OrderTally {
		return t.byWeight()
	}
	ords := make([]int, 0, t.size)
	for ord, w := range t.board {
		if w > 0 {
			ords = append(ords, ord)
		}
	}
	return ords
}

// byWeight returns member ordinals heaviest first.
func (t *Tally) byWeight() []int {
	if t.frozen != nil && t.order == OrderTally {
		return t.frozen
	}
	ords := make([]int, 0, t.size)
	for ord, w := range t.board {
		if w > 0 {
			ords = append(ords, ord)
		}
	}
	slices.SortStableFunc(ords, func(a, b int) int {
		return t.board[b] - t.board[a]
	})
	return ords
}

func (t *Tally) biblicalRanges() []VerseRange {
	var out []VerseRange
	start := 0
	for ord := 1; ord < len(t.board); ord++ {
		switch {
		case t.board[ord] > 0 && start == 0:
			start = ord
		case t.board[ord] == 0 && start != 0:
			out = append(out, rangeOf(start, ord-1))
			start = 0
		}
	}
	if start != 0 {
		out = append(out, rangeOf(start, len(t.board)-1))
	}
	return out
}

func (t *Tally) rangeList() []VerseRange {
	if t.order == OrderBiblical {
		return t.biblicalRanges()
	}

	type ranked struct {
		r    VerseRange
		rank int
	}
	var list []ranked
	for _, ord := range t.ordered() {
		if n := len(list); n > 0 && list[n-1].r.last()+1 == ord {
			list[n-1].r = rangeOf(list[n-1].r.first(), ord)
			list[n-1].rank = max(list[n-1].rank, t.board[ord])
			continue
		}
		list = append(list, ranked{r: rangeOf(ord, ord), rank: t.board[ord]})
	}
	slices.SortFunc(list, func(a, b ranked) int {
		if a.rank != b.rank {
			return b.rank - a.rank
		}
		return a.r.Compare(b.r)
	})

	out := make([]VerseRange, len(list))
	for i, x := range list {
		out[i] = x.r
	}
	return out
}

// unwrapTally finds the tally behind a passage, looking through wrappers.
func unwrapTally(p Passage) (*Tally, bool) {
	switch x := p.(type) {
	case *Tally:
		return x, true
	case *readOnly:
		return unwrapTally(x.p)
	case *synchronized:
		return unwrapTally(x.p)
	}
	return nil, false
}
