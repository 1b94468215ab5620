package osis

import (
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/passage"
)

// Attributes that carry references in an OSIS document.
const (
	AttrRef = "osisRef"
	AttrID  = "osisID"
)

var refHolders = xpath.MustCompile("//*[@osisRef or @osisID]")

// Extraction is the result of scanning an OSIS document.
type Extraction struct {
	// Passage holds every verse referenced by a resolvable attribute.
	Passage passage.Passage
	// Values is the number of attribute values read.
	Values int
	// Skipped lists values that did not resolve against the canon, such as
	// references to books outside the KJV or to non-biblical works.
	Skipped []string
}

// Extract collects the osisRef and osisID attributes of an OSIS document
// into a single passage.
func Extract(r io.Reader, opts ...passage.Option) (*Extraction, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.NewParse("OSIS", "", err.Error())
	}

	ex := &Extraction{Passage: passage.New(opts...)}
	for _, node := range xmlquery.QuerySelectorAll(doc, refHolders) {
		for _, attr := range []string{AttrRef, AttrID} {
			value := node.SelectAttr(attr)
			if value == "" {
				continue
			}
			ex.Values++
			if err := addRef(ex.Passage, value); err != nil {
				ex.Skipped = append(ex.Skipped, value)
			}
		}
	}
	return ex, nil
}
