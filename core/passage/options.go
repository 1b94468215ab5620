package passage

import (
	"github.com/FocuswithJustin/versekit/core/versification"
)

// RenderOptions controls how verses, ranges and passages are named. Build one
// with NewRenderOptions or start from DefaultRenderOptions; the zero value
// renders lower case.
type RenderOptions struct {
	caseMode   versification.Case
	persistent bool
}

// DefaultRenderOptions renders "Gen 1:1" style names.
var DefaultRenderOptions = RenderOptions{caseMode: versification.CaseSentence}

// NewRenderOptions validates a case mode. CaseMixed cannot be rendered.
func NewRenderOptions(c versification.Case, persistent bool) (RenderOptions, error) {
	if err := c.CheckRenderable(); err != nil {
		return RenderOptions{}, err
	}
	return RenderOptions{caseMode: c, persistent: persistent}, nil
}

// Case returns the rendering case.
func (o RenderOptions) Case() versification.Case { return o.caseMode }

// Persistent reports whether parsed values keep the text they were parsed from.
func (o RenderOptions) Persistent() bool { return o.persistent }

// WithCase returns a copy using a different case mode.
func (o RenderOptions) WithCase(c versification.Case) (RenderOptions, error) {
	return NewRenderOptions(c, o.persistent)
}

// VerseName names v, omitting what it shares with base. base may be nil.
func (o RenderOptions) VerseName(v Verse, base *Verse) string {
	if o.persistent && v.original != "" {
		return v.original
	}
	return v.render(base, o.caseMode)
}

// RangeName names r, omitting what its start shares with base. base may be nil.
func (o RenderOptions) RangeName(r VerseRange, base *Verse) string {
	if o.persistent && r.original != "" {
		return r.original
	}
	return r.render(base, o)
}

func (o RenderOptions) bookName(book int) string {
	name, _ := canon.ShortBookName(book, o.caseMode)
	return name
}
