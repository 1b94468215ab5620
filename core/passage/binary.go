package passage

import (
	"github.com/FocuswithJustin/versekit/core/errors"
)

// Binary encoding methods, written as the first byte.
const (
	methodBitwise  = 0
	methodDistinct = 1
	methodRanged   = 2
	methodCount    = 3
)

// BinarySize returns how many bytes ToBinary uses for values up to max.
func BinarySize(max int) int {
	switch {
	case max < 1<<8:
		return 1
	case max < 1<<16:
		return 2
	case max < 1<<24:
		return 3
	}
	return 4
}

// ToBinary writes value into buf at offset using BinarySize(max) bytes,
// most significant first, and returns the number of bytes written.
func ToBinary(buf []byte, offset, value, max int) (int, error) {
	if value < 0 || value > max {
		return 0, errors.NewArgument("value", value, "value outside 0..max")
	}
	size := BinarySize(max)
	if offset < 0 || offset+size > len(buf) {
		return 0, errors.NewArgument("offset", offset, "buffer too small")
	}
	for i := size - 1; i >= 0; i-- {
		buf[offset+i] = byte(value)
		value >>= 8
	}
	return size, nil
}

// FromBinary reads a value written by ToBinary at *cursor and advances the
// cursor past it.
func FromBinary(buf []byte, cursor *int, max int) (int, error) {
	size := BinarySize(max)
	if *cursor < 0 || *cursor+size > len(buf) {
		return 0, errors.NewNoSuchVerse("", "binary passage is truncated")
	}
	value := 0
	for i := 0; i < size; i++ {
		value = value<<8 | int(buf[*cursor+i])
	}
	*cursor += size
	return value, nil
}

func bitwiseBytes() int {
	return canon.VersesInBible()/8 + 1
}

// Marshal encodes the verses of p in whichever of the three layouts is
// smallest. Tally weights are not kept.
func Marshal(p Passage) ([]byte, error) {
	if p == nil {
		return nil, errors.NewNull("passage")
	}
	ranges := collectRanges(p)
	ranges = mergeAdjacent(ranges)
	verses := 0
	for _, r := range ranges {
		verses += r.Count()
	}

	total := canon.VersesInBible()
	head := BinarySize(methodCount)
	bitwiseSize := head + bitwiseBytes()
	distinctSize := head + BinarySize(total) + verses*BinarySize(total)
	rangedSize := head + BinarySize(total/2) + 2*len(ranges)*BinarySize(total)

	switch {
	case bitwiseSize <= distinctSize && bitwiseSize <= rangedSize:
		buf := make([]byte, bitwiseSize)
		n, _ := ToBinary(buf, 0, methodBitwise, methodCount)
		for _, r := range ranges {
			for ord := r.first(); ord <= r.last(); ord++ {
				buf[n+ord/8] |= 1 << (ord % 8)
			}
		}
		return buf, nil

	case distinctSize <= rangedSize:
		buf := make([]byte, distinctSize)
		n, _ := ToBinary(buf, 0, methodDistinct, methodCount)
		w, err := ToBinary(buf, n, verses, total)
		if err != nil {
			return nil, err
		}
		n += w
		for _, r := range ranges {
			for ord := r.first(); ord <= r.last(); ord++ {
				w, err := ToBinary(buf, n, ord, total)
				if err != nil {
					return nil, err
				}
				n += w
			}
		}
		return buf, nil
	}

	buf := make([]byte, rangedSize)
	n, _ := ToBinary(buf, 0, methodRanged, methodCount)
	w, err := ToBinary(buf, n, len(ranges), total/2)
	if err != nil {
		return nil, err
	}
	n += w
	for _, r := range ranges {
		for _, v := range []int{r.first(), r.Count()} {
			w, err := ToBinary(buf, n, v, total)
			if err != nil {
				return nil, err
			}
			n += w
		}
	}
	return buf, nil
}

// Unmarshal decodes bytes written by Marshal into a new passage.
func Unmarshal(buf []byte, opts ...Option) (Passage, error) {
	p := New(opts...)
	total := canon.VersesInBible()
	cursor := 0

	method, err := FromBinary(buf, &cursor, methodCount)
	if err != nil {
		return nil, err
	}
	switch method {
	case methodBitwise:
		if len(buf) < cursor+bitwiseBytes() {
			return nil, errors.NewNoSuchVerse("", "binary passage is truncated")
		}
		bits := buf[cursor:]
		for ord := 1; ord <= total; ord++ {
			if bits[ord/8]&(1<<(ord%8)) != 0 {
				if err := p.Add(verseAt(ord)); err != nil {
					return nil, err
				}
			}
		}

	case methodDistinct:
		count, err := FromBinary(buf, &cursor, total)
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			ord, err := FromBinary(buf, &cursor, total)
			if err != nil {
				return nil, err
			}
			v, err := NewVerseFromOrdinal(ord)
			if err != nil {
				return nil, err
			}
			if err := p.Add(v); err != nil {
				return nil, err
			}
		}

	case methodRanged:
		count, err := FromBinary(buf, &cursor, total/2)
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			ord, err := FromBinary(buf, &cursor, total)
			if err != nil {
				return nil, err
			}
			length, err := FromBinary(buf, &cursor, total)
			if err != nil {
				return nil, err
			}
			start, err := NewVerseFromOrdinal(ord)
			if err != nil {
				return nil, err
			}
			if err := p.Add(NewVerseRangeCountClamped(start, length)); err != nil {
				return nil, err
			}
		}

	default:
		return nil, errors.NewNoSuchVersef("", "unknown binary passage method %d", method)
	}
	return p, nil
}

// mergeAdjacent joins touching ranges of an ascending list.
func mergeAdjacent(ranges []VerseRange) []VerseRange {
	var out []VerseRange
	for _, r := range ranges {
		if n := len(out); n > 0 && out[n-1].AdjacentTo(r) {
			out[n-1] = Union(out[n-1], r)
			continue
		}
		out = append(out, r)
	}
	return out
}
