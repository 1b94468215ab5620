package osis

import (
	"slices"
	"strings"
	"testing"

	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/passage"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gen.1.1-Gen.1.3 Exod.2", "Gen 1:1-3, Exo 2"},
		{"Gen", "Gen"},
		{"Gen.1-Gen.3", "Gen 1-3"},
		{"Lev-Num", "Lev-Num"},
		{"Ps.23", "Psa 23"},
		{"Matt.5.3-Matt.5.12", "Mat 5:3-12"},
		{"Jude.1.5", "Jude 5"},
		{"KJV:Gen.1.1!crossReference.a", "Gen 1:1"},
		{"Bible:Gen.1.1-Bible:Gen.1.2", "Gen 1:1-2"},
		{"  Rev.22.21\n Gen.1.1 ", "Gen 1:1, Rev 22:21"},
		{"", ""},
	}
	for _, tt := range tests {
		p, err := ParseRef(tt.in)
		if err != nil {
			t.Errorf("ParseRef(%q) error = %v", tt.in, err)
			continue
		}
		if got := p.Name(); got != tt.want {
			t.Errorf("ParseRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	bad := []string{"Gen.51", "Xyz.1", "Genesis.1", "Gen.1.1-", "Gen.1.3-Gen.1.1", "Gen..1", "Gen.1.1.1", "Gen.0", "Gen 1:1"}
	for _, in := range bad {
		if _, err := ParseRef(in); !errors.Is(err, errors.ErrNoSuchVerse) {
			t.Errorf("ParseRef(%q) error = %v, want ErrNoSuchVerse", in, err)
		}
	}
}

func TestParseRefKind(t *testing.T) {
	p, err := ParseRef("Gen.1", passage.WithKind(passage.KindBitwise))
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind() != passage.KindBitwise || p.CountVerses() != 31 {
		t.Errorf("ParseRef(bitwise) = %v with %d verses", p.Kind(), p.CountVerses())
	}
}

func TestFormatRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gen 1:1", "Gen.1.1"},
		{"Gen 1:1-3, Exo 2", "Gen.1.1-Gen.1.3 Exod.2"},
		{"Gen 3-5", "Gen.3-Gen.5"},
		{"Gen 1:30-2:3", "Gen.1.30-Gen.2.3"},
		{"Lev-Num, Jude", "Lev-Num Jude"},
		{"Rev 22:21, Psa 23", "Ps.23 Rev.22.21"},
		{"", ""},
	}
	for _, tt := range tests {
		p := passage.MustParse(tt.in)
		got := FormatRef(p)
		if got != tt.want {
			t.Errorf("FormatRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
		back, err := ParseRef(got)
		if err != nil || !passage.Equal(back, p) {
			t.Errorf("ParseRef(FormatRef(%q)) = %v, %v", tt.in, back, err)
		}
	}
	if got := FormatRef(nil); got != "" {
		t.Errorf("FormatRef(nil) = %q", got)
	}
}

func TestFormatID(t *testing.T) {
	got := FormatID(passage.MustParse("Gen 1:1-3, Jude 2"))
	if want := "Gen.1.1 Gen.1.2 Gen.1.3 Jude.1.2"; got != want {
		t.Errorf("FormatID() = %q, want %q", got, want)
	}
	if got := FormatID(nil); got != "" {
		t.Errorf("FormatID(nil) = %q", got)
	}
}

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<osis xmlns="http://www.bibletechnologies.net/2003/OSIS/namespace">
  <osisText osisIDWork="KJV" osisRefWork="Bible">
    <div type="book" osisID="Gen">
      <chapter osisID="Gen.1">
        <verse osisID="Gen.1.1">In the beginning God created the heaven and the earth.</verse>
        <verse osisID="Gen.1.2 Gen.1.3">And the earth was without form.
          <note type="crossReference"><reference osisRef="Exod.20.11">Exod 20:11</reference></note>
        </verse>
      </chapter>
    </div>
    <note><reference osisRef="Bible:Rev.22.21!a">Rev 22:21</reference></note>
    <reference osisRef="1Macc.1.1">1 Macc 1:1</reference>
    <reference osisRef="Gen.1.1-Gen.1.99">broken</reference>
  </osisText>
</osis>`

func TestExtract(t *testing.T) {
	ex, err := Extract(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	// Gen and Gen.1 as osisIDs cover the whole book.
	if got, want := ex.Passage.Name(), "Gen, Exo 20:11, Rev 22:21"; got != want {
		t.Errorf("Extract() passage = %q, want %q", got, want)
	}
	if ex.Values != 8 {
		t.Errorf("Extract() values = %d, want 8", ex.Values)
	}
	if want := []string{"1Macc.1.1", "Gen.1.1-Gen.1.99"}; !slices.Equal(ex.Skipped, want) {
		t.Errorf("Extract() skipped = %q, want %q", ex.Skipped, want)
	}
}

func TestExtractOnlyVerses(t *testing.T) {
	doc := `<osis><verse osisID="Jude.1.1"/><verse osisID="Jude.1.2"/><p>no refs</p></osis>`
	ex, err := Extract(strings.NewReader(doc), passage.WithKind(passage.KindBitwise))
	if err != nil {
		t.Fatal(err)
	}
	if got := ex.Passage.Name(); got != "Jude 1-2" {
		t.Errorf("Extract() = %q, want %q", got, "Jude 1-2")
	}
	if len(ex.Skipped) != 0 {
		t.Errorf("Extract() skipped = %q", ex.Skipped)
	}
}

func TestExtractMalformed(t *testing.T) {
	if _, err := Extract(strings.NewReader("<osis><verse osisID=")); !errors.Is(err, errors.ErrIllegalArgument) {
		t.Errorf("Extract(malformed) error = %v, want ErrIllegalArgument", err)
	}
}
