// Package compress provides the block codecs used to store serialised
// passages: zlib, LZSS, bzip2, gzip and xz.
package compress

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/ulikunitz/xz"
)

// Injectable functions for testing
var (
	zlibNewWriterLevel = zlib.NewWriterLevel
	gzipNewWriterLevel = gzip.NewWriterLevel
	xzNewWriter        = xz.NewWriter
)

// Injectable decompression readers for testing
var (
	zlibNewReader  = zlib.NewReader
	gzipNewReader  = gzip.NewReader
	xzNewReader    = xz.NewReader
	bzip2NewReader = bzip2.NewReader
)

// Type identifies a compression algorithm.
type Type int

const (
	// TypeZip is zlib deflate, the SWORD "ZIP" block format.
	TypeZip Type = iota
	// TypeLZSS is the SWORD ring-buffer LZSS format.
	TypeLZSS
	// TypeBZip2 can only be read.
	TypeBZip2
	// TypeGzip is gzip deflate.
	TypeGzip
	// TypeXZ is XZ/LZMA2.
	TypeXZ
)

var typeNames = [...]string{"ZIP", "LZSS", "BZIP2", "GZIP", "XZ"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Types returns every known compression type in declaration order.
func Types() []Type {
	return []Type{TypeZip, TypeLZSS, TypeBZip2, TypeGzip, TypeXZ}
}

// ParseType looks up a type by name, ignoring case.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Type(i), nil
		}
	}
	return 0, errors.NewArgument("compression", name, "unknown compression type")
}

// Compressor compresses and uncompresses whole blocks.
type Compressor interface {
	Type() Type
	Compress(data []byte) ([]byte, error)
	Uncompress(data []byte) ([]byte, error)
	// UncompressSized is Uncompress with a hint of the expected output
	// length. The hint sizes the output buffer and is not enforced.
	UncompressSized(data []byte, expected int) ([]byte, error)
}

// New returns the compressor for t.
func New(t Type) (Compressor, error) {
	switch t {
	case TypeZip, TypeBZip2, TypeGzip, TypeXZ:
		return streamCodec{t: t}, nil
	case TypeLZSS:
		return LZSS{}, nil
	default:
		return nil, errors.NewArgument("compression", t.String(), "unknown compression type")
	}
}

// Detect identifies a stream compressor by its magic bytes. LZSS has no
// header and is never detected.
func Detect(data []byte) (Type, error) {
	switch {
	case len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b:
		return TypeGzip, nil
	case len(data) >= 6 && bytes.Equal(data[:6], []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}):
		return TypeXZ, nil
	case len(data) >= 3 && data[0] == 'B' && data[1] == 'Z' && data[2] == 'h':
		return TypeBZip2, nil
	case len(data) >= 2 && data[0]&0x0f == 8 && (uint16(data[0])<<8|uint16(data[1]))%31 == 0:
		return TypeZip, nil
	}
	return 0, errors.NewUnsupported("compression format", "unknown magic bytes")
}

// streamCodec adapts the io.Reader/io.Writer based codecs.
type streamCodec struct {
	t Type
}

func (c streamCodec) Type() Type { return c.t }

func (c streamCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch c.t {
	case TypeZip:
		w, err = zlibNewWriterLevel(&buf, zlib.BestCompression)
	case TypeGzip:
		w, err = gzipNewWriterLevel(&buf, gzip.BestCompression)
	case TypeXZ:
		w, err = xzNewWriter(&buf)
	default:
		return nil, errors.NewUnsupported(c.t.String()+" compression", "only decompression is available")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s writer: %w", c.t, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write %s stream: %w", c.t, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s writer: %w", c.t, err)
	}
	return buf.Bytes(), nil
}

func (c streamCodec) Uncompress(data []byte) ([]byte, error) {
	return c.UncompressSized(data, 0)
}

func (c streamCodec) UncompressSized(data []byte, expected int) ([]byte, error) {
	src := bytes.NewReader(data)
	var r io.Reader
	switch c.t {
	case TypeZip:
		zr, err := zlibNewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create ZIP reader: %w", err)
		}
		defer zr.Close()
		r = zr
	case TypeGzip:
		gr, err := gzipNewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create GZIP reader: %w", err)
		}
		defer gr.Close()
		r = gr
	case TypeXZ:
		xr, err := xzNewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create XZ reader: %w", err)
		}
		r = xr
	case TypeBZip2:
		r = bzip2NewReader(src)
	}

	var out bytes.Buffer
	if expected > 0 {
		out.Grow(expected)
	}
	if _, err := io.Copy(&out, r); err != nil {
		return nil, fmt.Errorf("failed to read %s stream: %w", c.t, err)
	}
	return out.Bytes(), nil
}
