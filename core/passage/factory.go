package passage

import (
	"slices"
	"strings"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// Option configures New and Parse.
type Option func(*config)

type config struct {
	kind  Kind
	order Order
}

// WithKind selects the passage implementation. The default is KindRanged.
func WithKind(k Kind) Option {
	return func(c *config) { c.kind = k }
}

// WithOrder sets the order of a KindTally passage.
func WithOrder(o Order) Option {
	return func(c *config) { c.order = o }
}

// New returns an empty passage.
func New(opts ...Option) Passage {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	switch c.kind {
	case KindTally:
		t := NewTally()
		if c.order == OrderTally {
			t.order = OrderTally
		}
		return t
	case KindBitwise:
		return newPassage(KindBitwise)
	}
	return newPassage(KindRanged)
}

// Parse reads a list of references separated by commas, semicolons,
// tabs or newlines. Each item may leave out whatever it shares with the
// item before it, so "Gen 1:1, 5, 2:3" names three verses of Genesis.
// An empty or blank string gives an empty passage.
func Parse(refs string, opts ...Option) (Passage, error) {
	p := New(opts...)
	items, err := splitList(refs)
	if err != nil {
		return nil, err
	}

	var basis *VerseRange
	for _, item := range items {
		r, err := parseVerseRange(item, basis)
		if err != nil {
			return nil, err
		}
		if err := p.Add(r); err != nil {
			return nil, err
		}
		basis = &r
	}
	setOriginal(p, strings.TrimSpace(refs))
	return p, nil
}

// ParsePtr is Parse for an optional string; nil is an error rather than an
// empty passage.
func ParsePtr(refs *string, opts ...Option) (Passage, error) {
	if refs == nil {
		return nil, errors.NewNull("refs")
	}
	return Parse(*refs, opts...)
}

// MustParse is Parse for references known to be valid. It panics on error.
func MustParse(refs string, opts ...Option) Passage {
	p, err := Parse(refs, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Equal reports whether two passages hold the same verses, whatever their
// kinds. Tally weights are ignored.
func Equal(a, b Passage) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return slices.EqualFunc(mergeAdjacent(collectRanges(a)), mergeAdjacent(collectRanges(b)), VerseRange.Equal)
}

// setOriginal records the text a passage was parsed from so that a
// persistent RenderOptions can give it back unchanged.
func setOriginal(p Passage, s string) {
	switch x := p.(type) {
	case *passage:
		x.original = s
	case *Tally:
		x.original = s
	}
}
