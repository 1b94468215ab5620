package cas

import (
	"github.com/FocuswithJustin/versekit/core/compress"
	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/passage"
)

// blobHeader prefixes every passage blob: a format version and the
// compression type of the payload that follows.
const (
	blobVersion    = 1
	blobHeaderSize = 2
)

// PassageBlob describes a passage written by PutPassage.
type PassageBlob struct {
	Hash        string
	Compression compress.Type
	Size        int // stored bytes, header included
	RawSize     int // bytes of the uncompressed binary form
}

// PutPassage stores the binary form of p compressed with c.
func (s *Store) PutPassage(p passage.Passage, c compress.Compressor) (*PassageBlob, error) {
	if p == nil {
		return nil, errors.NewNull("passage")
	}
	if c == nil {
		return nil, errors.NewNull("compressor")
	}
	raw, err := passage.Marshal(p)
	if err != nil {
		return nil, err
	}
	packed, err := c.Compress(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "compress passage with %s", c.Type())
	}

	blob := make([]byte, 0, blobHeaderSize+len(packed))
	blob = append(blob, blobVersion, byte(c.Type()))
	blob = append(blob, packed...)

	hash, err := s.Put(blob)
	if err != nil {
		return nil, err
	}
	return &PassageBlob{
		Hash:        hash,
		Compression: c.Type(),
		Size:        len(blob),
		RawSize:     len(raw),
	}, nil
}

// GetPassage reads back a passage stored by PutPassage.
func (s *Store) GetPassage(hash string, opts ...passage.Option) (passage.Passage, error) {
	blob, err := s.Get(hash)
	if err != nil {
		return nil, err
	}
	if len(blob) < blobHeaderSize || blob[0] != blobVersion {
		return nil, errors.NewParse("passage blob", hash, "missing or unknown header")
	}
	c, err := compress.New(compress.Type(blob[1]))
	if err != nil {
		return nil, err
	}
	raw, err := c.Uncompress(blob[blobHeaderSize:])
	if err != nil {
		return nil, errors.Wrapf(err, "uncompress passage blob %s", hash)
	}
	return passage.Unmarshal(raw, opts...)
}
