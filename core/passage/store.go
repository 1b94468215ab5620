package passage

import (
	"slices"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// store holds the verses of a passage. ranges always returns ascending,
// disjoint, non-adjacent ranges. add and remove report the ranges that
// actually changed.
type store interface {
	add(r VerseRange) []VerseRange
	remove(r VerseRange) []VerseRange
	contains(r VerseRange) bool
	ranges() []VerseRange
	count() int
	clone() store
}

func newStore(k Kind) store {
	if k == KindBitwise {
		return newBitwiseStore()
	}
	return &rangedStore{}
}

// rangedStore is a sorted slice of ranges.
type rangedStore struct {
	list   []VerseRange
	verses int
}

// search returns the index of the first range ending at or after ord.
func (s *rangedStore) search(ord int) int {
	return sort.Search(len(s.list), func(i int) bool { return s.list[i].last() >= ord })
}

func (s *rangedStore) add(r VerseRange) []VerseRange {
	r.original = ""
	i := s.search(r.first() - 1)
	j := i
	for j < len(s.list) && s.list[j].first() <= r.last()+1 {
		j++
	}

	var added []VerseRange
	cursor := r.first()
	merged := r
	for _, x := range s.list[i:j] {
		if x.first() > cursor && cursor <= r.last() {
			added = append(added, rangeOf(cursor, min(x.first()-1, r.last())))
		}
		cursor = max(cursor, x.last()+1)
		merged = Union(merged, x)
	}
	if cursor <= r.last() {
		added = append(added, rangeOf(cursor, r.last()))
	}
	if len(added) == 0 {
		return nil
	}

	s.list = slices.Replace(s.list, i, j, merged)
	for _, a := range added {
		s.verses += a.Count()
	}
	return added
}

func (s *rangedStore) remove(r VerseRange) []VerseRange {
	i := s.search(r.first())
	j := i
	for j < len(s.list) && s.list[j].first() <= r.last() {
		j++
	}
	if i == j {
		return nil
	}

	var removed, kept []VerseRange
	for _, x := range s.list[i:j] {
		if cut, ok := Intersection(x, r); ok {
			removed = append(removed, cut)
			s.verses -= cut.Count()
		}
		kept = append(kept, Remainder(x, r)...)
	}
	s.list = slices.Replace(s.list, i, j, kept...)
	return removed
}

func (s *rangedStore) contains(r VerseRange) bool {
	i := s.search(r.first())
	return i < len(s.list) && s.list[i].first() <= r.first() && s.list[i].last() >= r.last()
}

func (s *rangedStore) ranges() []VerseRange {
	return slices.Clone(s.list)
}

func (s *rangedStore) count() int {
	return s.verses
}

func (s *rangedStore) clone() store {
	return &rangedStore{list: slices.Clone(s.list), verses: s.verses}
}

// bitwiseStore keeps one bit per ordinal.
type bitwiseStore struct {
	bits *bitset.BitSet
}

func newBitwiseStore() *bitwiseStore {
	return &bitwiseStore{bits: bitset.New(uint(canon.VersesInBible() + 1))}
}

// flip sets or clears every bit of r and returns the runs that changed.
func (s *bitwiseStore) flip(r VerseRange, set bool) []VerseRange {
	var changed []VerseRange
	runStart := 0
	for ord := r.first(); ord <= r.last(); ord++ {
		if s.bits.Test(uint(ord)) != set {
			s.bits.SetTo(uint(ord), set)
			if runStart == 0 {
				runStart = ord
			}
			continue
		}
		if runStart != 0 {
			changed = append(changed, rangeOf(runStart, ord-1))
			runStart = 0
		}
	}
	if runStart != 0 {
		changed = append(changed, rangeOf(runStart, r.last()))
	}
	return changed
}

func (s *bitwiseStore) add(r VerseRange) []VerseRange {
	return s.flip(r, true)
}

func (s *bitwiseStore) remove(r VerseRange) []VerseRange {
	return s.flip(r, false)
}

func (s *bitwiseStore) contains(r VerseRange) bool {
	next, ok := s.bits.NextClear(uint(r.first()))
	return !ok || int(next) > r.last()
}

func (s *bitwiseStore) ranges() []VerseRange {
	var out []VerseRange
	for i, ok := s.bits.NextSet(1); ok; i, ok = s.bits.NextSet(i) {
		end, found := s.bits.NextClear(i)
		if !found {
			end = s.bits.Len()
		}
		out = append(out, rangeOf(int(i), int(end)-1))
		i = end
	}
	return out
}

func (s *bitwiseStore) count() int {
	return int(s.bits.Count())
}

func (s *bitwiseStore) clone() store {
	return &bitwiseStore{bits: s.bits.Clone()}
}
