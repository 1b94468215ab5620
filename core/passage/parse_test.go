package passage

import (
	"slices"
	"strings"
	"testing"

	"github.com/FocuswithJustin/versekit/core/errors"
)

func TestDelimitersAreDisjoint(t *testing.T) {
	sets := []string{VerseDelimiters, RangeDelimiters, ListDelimiters}
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			if strings.ContainsAny(sets[i], sets[j]) {
				t.Errorf("delimiter sets %q and %q share a character", sets[i], sets[j])
			}
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Gen 1:1", []string{"Gen", "1", "1"}},
		{"gen.1.1", []string{"gen", "1", "1"}},
		{"Gen1", []string{"Gen", "1"}},
		{"2 Ki 3 4", []string{"2Ki", "3", "4"}},
		{"II Ki 3", []string{"2Ki", "3"}},
		{"1 Cor 13:4", []string{"1Cor", "13", "4"}},
		{"Song of Solomon 2", []string{"Song of Solomon", "2"}},
		{"Gen 1:ff", []string{"Gen", "1", "ff"}},
		{"Rev $", []string{"Rev", "$"}},
		{"   ", nil},
	}
	for _, tt := range tests {
		got, err := tokenize(tt.in)
		if err != nil {
			t.Errorf("tokenize(%q) error = %v", tt.in, err)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := tokenize("Gen 1@2"); !errors.Is(err, errors.ErrNoSuchVerse) {
		t.Errorf("tokenize(bad char) error = %v, want ErrNoSuchVerse", err)
	}
}

func TestSplitRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end string
		wantErr    bool
	}{
		{"Gen 1:1-5", "Gen 1:1", "5", false},
		{"Gen 1:1", "Gen 1:1", "", false},
		{"Gen 1:1-", "Gen 1:1", "", false},
		{"Gen 1:1--5", "", "", true},
		{"Gen 1:1-3-5", "", "", true},
	}
	for _, tt := range tests {
		start, end, err := splitRange(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrNoSuchVerse) {
				t.Errorf("splitRange(%q) error = %v, want ErrNoSuchVerse", tt.in, err)
			}
			continue
		}
		if err != nil || start != tt.start || end != tt.end {
			t.Errorf("splitRange(%q) = %q, %q, %v, want %q, %q", tt.in, start, end, err, tt.start, tt.end)
		}
	}
}

func TestSplitList(t *testing.T) {
	got, err := splitList("Gen 1:1, 5;;Exo 2\n\tRev 22 ,")
	if err != nil {
		t.Fatalf("splitList() error = %v", err)
	}
	want := []string{"Gen 1:1", "5", "Exo 2", "Rev 22"}
	if !slices.Equal(got, want) {
		t.Errorf("splitList() = %q, want %q", got, want)
	}
}

func TestGetAccuracy(t *testing.T) {
	chapters := span(t, 4, 1, 1, 4, 1, 54)
	verse := NewVerseRange(mustVerse(t, 1, 1, 1))
	tests := []struct {
		parts    []string
		previous Accuracy
		basis    *VerseRange
		want     Accuracy
	}{
		{[]string{"Gen"}, AccuracyNone, nil, AccuracyBookOnly},
		{[]string{"Gen", "1"}, AccuracyNone, nil, AccuracyBookChapter},
		{[]string{"Jude", "2"}, AccuracyNone, nil, AccuracyBookVerse},
		{[]string{"Gen", "1", "1"}, AccuracyNone, nil, AccuracyBookVerse},
		{[]string{"2", "3"}, AccuracyNone, &verse, AccuracyChapterVerse},
		{[]string{"5"}, AccuracyNone, &verse, AccuracyVerseOnly},
		{[]string{"2"}, AccuracyNone, &chapters, AccuracyChapterOnly},
		{[]string{"5"}, AccuracyBookVerse, nil, AccuracyVerseOnly},
		{[]string{"5"}, AccuracyBookChapter, nil, AccuracyChapterOnly},
		{[]string{"ff"}, AccuracyBookVerse, nil, AccuracyVerseOnly},
	}
	for _, tt := range tests {
		got, err := GetAccuracy(tt.parts, tt.previous, tt.basis)
		if err != nil || got != tt.want {
			t.Errorf("GetAccuracy(%q, %v) = %v, %v, want %v", tt.parts, tt.previous, got, err, tt.want)
		}
	}

	bad := [][]string{{"5"}, {"Xyz", "1"}, {"Gen", "x"}, {"Gen", "1", "2", "3"}, {"1", "2", "3"}}
	for _, parts := range bad {
		if _, err := GetAccuracy(parts, AccuracyNone, nil); !errors.Is(err, errors.ErrNoSuchVerse) {
			t.Errorf("GetAccuracy(%q) error = %v, want ErrNoSuchVerse", parts, err)
		}
	}
}

func TestParseVerse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gen 1:1", "Gen 1:1"},
		{"genesis 1 1", "Gen 1:1"},
		{"Gen", "Gen 1:1"},
		{"Gen 2", "Gen 2:1"},
		{"2 Ki 3 4", "2Ki 3:4"},
		{"Jude 2", "Jude 2"},
		{"rev 22 ff", "Rev 22:21"},
		{"Rev $:$", "Rev 22:21"},
		{"Revelations 1:1", "Rev 1:1"},
	}
	for _, tt := range tests {
		v, err := ParseVerse(tt.in)
		if err != nil {
			t.Errorf("ParseVerse(%q) error = %v", tt.in, err)
			continue
		}
		if got := v.Name(); got != tt.want {
			t.Errorf("ParseVerse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "Gen 51:1", "Gen 1:32", "5", "Xyz 1:1", "Gen 1:1:1"} {
		if _, err := ParseVerse(in); !errors.Is(err, errors.ErrNoSuchVerse) {
			t.Errorf("ParseVerse(%q) error = %v, want ErrNoSuchVerse", in, err)
		}
	}
}

func TestParseVerseFrom(t *testing.T) {
	basis := span(t, 1, 3, 4, 1, 3, 6)
	tests := []struct {
		in   string
		want string
	}{
		{"8", "Gen 3:8"},
		{"5:2", "Gen 5:2"},
		{"Exo 1 1", "Exo 1:1"},
	}
	for _, tt := range tests {
		v, err := ParseVerseFrom(tt.in, basis)
		if err != nil || v.Name() != tt.want {
			t.Errorf("ParseVerseFrom(%q) = %q, %v, want %q", tt.in, v.Name(), err, tt.want)
		}
	}
}

func TestParseVerseRange(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gen 1:1-5", "Gen 1:1-5"},
		{"Gen 1-3", "Gen 1-3"},
		{"Gen-Exo", "Gen-Exo"},
		{"Exo 2", "Exo 2"},
		{"Gen 1:1-2:3", "Gen 1:1-2:3"},
		{"Gen 1:28-ff", "Gen 1:28-31"},
		{"Gen 1:1-", "Gen 1:1"},
		{"Gen 1:1-Exo 1:1", "Gen 1:1-Exo 1:1"},
		{"Gen 1:1-50:26", "Gen"},
		{"Gen 50-Exo 1", "Gen 50-Exo 1"},
		{"Jude 2-4", "Jude 2-4"},
		{"Jude", "Jude"},
	}
	for _, tt := range tests {
		r, err := ParseVerseRange(tt.in)
		if err != nil {
			t.Errorf("ParseVerseRange(%q) error = %v", tt.in, err)
			continue
		}
		if got := r.Name(); got != tt.want {
			t.Errorf("ParseVerseRange(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := r.OriginalName(); got != tt.in {
			t.Errorf("ParseVerseRange(%q).OriginalName() = %q", tt.in, got)
		}
	}

	for _, in := range []string{"", "Gen 1:5-3", "Gen 1:1--2", "Gen 1-2-3", "Gen 51", "-5"} {
		if _, err := ParseVerseRange(in); !errors.Is(err, errors.ErrNoSuchVerse) {
			t.Errorf("ParseVerseRange(%q) error = %v, want ErrNoSuchVerse", in, err)
		}
	}
}

func TestParseVerseRangeFrom(t *testing.T) {
	gen11 := NewVerseRange(mustVerse(t, 1, 1, 1))
	num1 := span(t, 4, 1, 1, 4, 1, 54)
	tests := []struct {
		in    string
		basis VerseRange
		want  string
	}{
		{"5", gen11, "Gen 1:5"},
		{"5-7", gen11, "Gen 1:5-7"},
		{"2:3", gen11, "Gen 2:3"},
		{"2", num1, "Num 2"},
		{"2-3", num1, "Num 2-3"},
	}
	for _, tt := range tests {
		r, err := ParseVerseRangeFrom(tt.in, tt.basis)
		if err != nil {
			t.Errorf("ParseVerseRangeFrom(%q) error = %v", tt.in, err)
			continue
		}
		if got := r.Name(); got != tt.want {
			t.Errorf("ParseVerseRangeFrom(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gen 1 1,gen 1 3,rev 22 21,gen 1 2", "Gen 1:1-3, Rev 22:21"},
		{"Gen 1 3;gen 22 2;rev 22 21;gen 22 3-10; rev 22 19;gen 1 1;rev 22 10-18; gen 1 2; rev 22 1-21", "Gen 1:1-3, 22:2-10, Rev 22"},
		{"gen 1 1-50:26,e,e 1 2,e 1 3-10", "Gen-Exo"},
		{"exo 1:1, 4", "Exo 1:1, 4"},
		{"exo 1:1, 4, 2-3, 11-ff, 6-10", "Exo 1:1-4, 6-22"},
		{"Num 1, 2", "Num 1-2"},
		{"", ""},
		{" ; , ", ""},
	}
	for _, kind := range []Kind{KindRanged, KindBitwise} {
		for _, tt := range tests {
			p, err := Parse(tt.in, WithKind(kind))
			if err != nil {
				t.Errorf("Parse(%q, %v) error = %v", tt.in, kind, err)
				continue
			}
			if got := p.Name(); got != tt.want {
				t.Errorf("Parse(%q, %v) = %q, want %q", tt.in, kind, got, tt.want)
			}
		}
	}

	if !Equal(MustParse("1ch 5"), MustParse("1Ch 5")) {
		t.Error(`"1ch 5" and "1Ch 5" should be equal`)
	}

	for _, in := range []string{"Gen 51", "5", "Gen 1:1, Xyz"} {
		if _, err := Parse(in); !errors.Is(err, errors.ErrNoSuchVerse) {
			t.Errorf("Parse(%q) error = %v, want ErrNoSuchVerse", in, err)
		}
	}
}

func TestParsePtr(t *testing.T) {
	if _, err := ParsePtr(nil); !errors.Is(err, errors.ErrNullReference) {
		t.Errorf("ParsePtr(nil) error = %v, want ErrNullReference", err)
	}
	s := "Gen 1:1"
	p, err := ParsePtr(&s)
	if err != nil || p.Name() != "Gen 1:1" {
		t.Errorf("ParsePtr(%q) = %v, %v", s, p, err)
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse(bad) did not panic")
		}
	}()
	MustParse("Gen 99")
}
