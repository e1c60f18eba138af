package tei

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"estoria/common"
)

// ErrIncompleteChoice is reported in strict mode for choice lacking either
// abbreviation or expansion.
var ErrIncompleteChoice = errors.New("incomplete choice")

// Reading types of variant groups.
const (
	ReadingOriginal = "orig"
	ReadingLiteral  = "lit"
	ReadingModified = "mod"
)

// Cleaned is page document prepared for single display mode.
type Cleaned struct {
	Doc *etree.Document
	// Hovers keeps one "<abbr> expands to <expan>" entry per choice in
	// document order.
	Hovers []string
}

// Clean returns cleaned copy of the page document, source document is not
// modified. Variant groups lose their original readings and type 2 segments
// of literal readings, choices keep only the form selected by display mode.
func Clean(doc *etree.Document, mode common.DisplayMode, strict bool) (*Cleaned, error) {
	if doc == nil || doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedMarkup)
	}

	out := doc.Copy()
	cleanVariants(out)

	hovers, err := cleanChoices(out, mode, strict)
	if err != nil {
		return nil, err
	}
	return &Cleaned{Doc: out, Hovers: hovers}, nil
}

func cleanVariants(doc *etree.Document) {
	for _, app := range doc.FindElements("//app") {
		for _, rdg := range app.SelectElements("rdg") {
			switch rdg.SelectAttrValue("type", "") {
			case ReadingOriginal:
				removeWithTail(rdg)
			case ReadingLiteral:
				removeSegments(rdg)
			}
		}
	}
}

// removeSegments drops type 2 segments. Their trailing text stays in place
// and so joins tail of preceding sibling or, when there is none, leading text
// of the parent.
func removeSegments(rdg *etree.Element) {
	for _, seg := range rdg.FindElements(".//seg[@type='2']") {
		if p := seg.Parent(); p != nil {
			p.RemoveChild(seg)
		}
	}
}

func cleanChoices(doc *etree.Document, mode common.DisplayMode, strict bool) ([]string, error) {
	choices := doc.FindElements("//choice")
	hovers := make([]string, 0, len(choices))

	for i, choice := range choices {
		abbr, expan := choice.SelectElement("abbr"), choice.SelectElement("expan")
		if (abbr == nil || expan == nil) && strict {
			return nil, fmt.Errorf("%w: choice %d (%s) has no abbr or expan", ErrIncompleteChoice, i, choice.GetPath())
		}
		hovers = append(hovers, InnerText(abbr)+" expands to "+InnerText(expan))

		drop := expan
		if mode.Expanded() {
			drop = abbr
		}
		if drop != nil {
			removeWithTail(drop)
		}
	}
	return hovers, nil
}

// removeWithTail drops element together with character data following it.
func removeWithTail(e *etree.Element) {
	p := e.Parent()
	if p == nil {
		return
	}
	i := e.Index()
	p.RemoveChildAt(i)
	for i < len(p.Child) {
		if _, ok := p.Child[i].(*etree.CharData); !ok {
			break
		}
		p.RemoveChildAt(i)
	}
}
