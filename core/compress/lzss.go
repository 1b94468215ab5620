package compress

import "bytes"

// LZSS ring buffer parameters, fixed by the SWORD module format.
const (
	lzssRingSize  = 4096
	lzssRingMask  = lzssRingSize - 1
	lzssMaxMatch  = 18
	lzssThreshold = 3
	lzssStart     = lzssRingSize - lzssMaxMatch

	lzssHashBits  = 12
	lzssMaxChain  = 256
	lzssNoMatch   = -1
	lzssMaxWindow = lzssRingSize - lzssMaxMatch
)

// LZSS is the ring-buffer codec used by SWORD compressed modules.
//
// The stream is a sequence of groups. Each group is a flags byte followed by
// up to eight items read LSB first: a set bit is a literal byte and a clear
// bit is a two byte back reference into a 4096 byte ring. The ring starts
// with spaces, so a stream may reference text it never emitted.
type LZSS struct{}

func (LZSS) Type() Type { return TypeLZSS }

func newLZSSRing() *[lzssRingSize]byte {
	var ring [lzssRingSize]byte
	for i := 0; i < lzssStart; i++ {
		ring[i] = ' '
	}
	return &ring
}

// Compress encodes data. Matches are found through a hash chain over the
// input and checked against a model of the decoder's ring, so every emitted
// reference decodes to exactly the bytes it replaces.
func (LZSS) Compress(data []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(data)/2 + 16)

	ring := newLZSSRing()
	r := lzssStart

	head := make([]int, 1<<lzssHashBits)
	for i := range head {
		head[i] = lzssNoMatch
	}
	prev := make([]int, len(data))

	hash := func(i int) int {
		h := uint32(data[i])<<16 | uint32(data[i+1])<<8 | uint32(data[i+2])
		return int((h * 2654435761) >> (32 - lzssHashBits))
	}
	insert := func(i int) {
		if i+lzssThreshold > len(data) {
			return
		}
		h := hash(i)
		prev[i] = head[h]
		head[h] = i
	}
	// matchLen replays the decoder copying from ring position p.
	matchLen := func(i, p, limit int) int {
		n := 0
		for ; n < limit; n++ {
			src := (p + n) & lzssRingMask
			dist := (src - r) & lzssRingMask
			var c byte
			if dist < n {
				c = data[i+dist]
			} else {
				c = ring[src]
			}
			if c != data[i+n] {
				break
			}
		}
		return n
	}

	group := make([]byte, 1, 17)
	var bit uint
	flush := func() {
		if len(group) > 1 {
			out.Write(group)
		}
		group = group[:1]
		group[0] = 0
		bit = 0
	}
	flush()

	for i := 0; i < len(data); {
		limit := min(lzssMaxMatch, len(data)-i)
		bestLen, bestPos := 0, 0
		if limit >= lzssThreshold {
			for j, depth := head[hash(i)], 0; j != lzssNoMatch && i-j < lzssMaxWindow && depth < lzssMaxChain; j, depth = prev[j], depth+1 {
				p := (lzssStart + j) & lzssRingMask
				if n := matchLen(i, p, limit); n > bestLen {
					bestLen, bestPos = n, p
					if n == limit {
						break
					}
				}
			}
		}

		step := 1
		if bestLen >= lzssThreshold {
			group = append(group, byte(bestPos), byte((bestPos>>4)&0xf0)|byte(bestLen-lzssThreshold))
			step = bestLen
		} else {
			group[0] |= 1 << bit
			group = append(group, data[i])
		}
		for k := 0; k < step; k++ {
			ring[r] = data[i+k]
			r = (r + 1) & lzssRingMask
			insert(i + k)
		}
		i += step

		bit++
		if bit == 8 {
			flush()
		}
	}
	flush()
	return out.Bytes(), nil
}

func (c LZSS) Uncompress(data []byte) ([]byte, error) {
	return c.UncompressSized(data, 0)
}

// UncompressSized decodes data until the input runs out. A truncated final
// group ends the stream without error.
func (LZSS) UncompressSized(data []byte, expected int) ([]byte, error) {
	if expected <= 0 {
		expected = len(data) * 2
	}
	out := make([]byte, 0, expected)
	ring := newLZSSRing()
	r := lzssStart

	for i := 0; i < len(data); {
		flags := data[i]
		i++
		for bit := 0; bit < 8; bit++ {
			if flags&(1<<bit) != 0 {
				if i >= len(data) {
					return out, nil
				}
				c := data[i]
				i++
				out = append(out, c)
				ring[r] = c
				r = (r + 1) & lzssRingMask
				continue
			}
			if i+1 >= len(data) {
				return out, nil
			}
			pos := int(data[i]) | int(data[i+1]&0xf0)<<4
			n := int(data[i+1]&0x0f) + lzssThreshold
			i += 2
			for k := 0; k < n; k++ {
				c := ring[(pos+k)&lzssRingMask]
				out = append(out, c)
				ring[r] = c
				r = (r + 1) & lzssRingMask
			}
		}
	}
	return out, nil
}
