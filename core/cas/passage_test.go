package cas

import (
	"os"
	"testing"

	"github.com/FocuswithJustin/versekit/core/compress"
	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/passage"
)

func TestPassageRoundTrip(t *testing.T) {
	store := newTestStore(t)
	p := passage.MustParse("Gen 1:1-3, 22:2-10, Exo 2, Rev 22")

	for _, typ := range []compress.Type{compress.TypeZip, compress.TypeLZSS, compress.TypeGzip, compress.TypeXZ} {
		c, err := compress.New(typ)
		if err != nil {
			t.Fatal(err)
		}
		blob, err := store.PutPassage(p, c)
		if err != nil {
			t.Errorf("PutPassage(%v) error = %v", typ, err)
			continue
		}
		if blob.Compression != typ || blob.Size < blobHeaderSize || blob.RawSize == 0 {
			t.Errorf("PutPassage(%v) = %+v", typ, blob)
		}

		got, err := store.GetPassage(blob.Hash, passage.WithKind(passage.KindBitwise))
		if err != nil {
			t.Errorf("GetPassage(%v) error = %v", typ, err)
			continue
		}
		if got.Kind() != passage.KindBitwise {
			t.Errorf("GetPassage(%v).Kind() = %v, want bitwise", typ, got.Kind())
		}
		if !passage.Equal(got, p) {
			t.Errorf("GetPassage(%v) = %q, want %q", typ, got.Name(), p.Name())
		}
	}
}

func TestPutPassageDeduplicates(t *testing.T) {
	store := newTestStore(t)
	c, _ := compress.New(compress.TypeLZSS)

	a, err := store.PutPassage(passage.MustParse("Gen 1:1-3"), c)
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.PutPassage(passage.MustParse("gen 1 3, gen 1 1-2", passage.WithKind(passage.KindBitwise)), c)
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash != b.Hash {
		t.Errorf("equal passages stored under %s and %s", a.Hash, b.Hash)
	}
}

func TestPassageErrors(t *testing.T) {
	store := newTestStore(t)
	c, _ := compress.New(compress.TypeZip)

	if _, err := store.PutPassage(nil, c); !errors.Is(err, errors.ErrNullReference) {
		t.Errorf("PutPassage(nil) error = %v, want ErrNullReference", err)
	}
	if _, err := store.PutPassage(passage.New(), nil); !errors.Is(err, errors.ErrNullReference) {
		t.Errorf("PutPassage(nil compressor) error = %v, want ErrNullReference", err)
	}
	bz, _ := compress.New(compress.TypeBZip2)
	if _, err := store.PutPassage(passage.New(), bz); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("PutPassage(bzip2) error = %v, want ErrUnsupported", err)
	}

	raw, err := store.Put([]byte("not a passage blob"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetPassage(raw); !errors.Is(err, errors.ErrIllegalArgument) {
		t.Errorf("GetPassage(foreign blob) error = %v, want ErrIllegalArgument", err)
	}

	unknown, err := store.Put([]byte{blobVersion, 99, 0})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetPassage(unknown); !errors.Is(err, errors.ErrIllegalArgument) {
		t.Errorf("GetPassage(unknown compression) error = %v, want ErrIllegalArgument", err)
	}

	missing := Hash([]byte("never stored"))
	if _, err := store.GetPassage(missing); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetPassage(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(store.pathForHash(missing)); !os.IsNotExist(err) {
		t.Errorf("GetPassage(missing) created %s", store.pathForHash(missing))
	}
}
