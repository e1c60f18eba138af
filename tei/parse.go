// Package tei reads page transcription markup and prepares it for rendering:
// parsing, column structure and variant/abbreviation cleanup prescans, and
// ordered enter/exit event stream over the cleaned tree.
package tei

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrMalformedMarkup is returned when page markup does not form well-formed
// document with single root element.
var ErrMalformedMarkup = errors.New("malformed markup")

// Parse reads page markup. Line breaks carry no meaning in transcriptions and
// are dropped before parsing, comments are removed from resulting tree.
func Parse(markup string) (*etree.Document, error) {
	markup = strings.ReplaceAll(markup, "\n", "")
	if len(strings.TrimSpace(markup)) == 0 {
		return nil, fmt.Errorf("%w: empty page text", ErrMalformedMarkup)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = false
	if err := doc.ReadFromString(markup); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMarkup, err)
	}

	roots := 0
	for _, t := range doc.Child {
		switch t := t.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if !t.IsWhitespace() {
				return nil, fmt.Errorf("%w: text outside of root element", ErrMalformedMarkup)
			}
		}
	}
	if roots != 1 {
		return nil, fmt.Errorf("%w: expected single root element, found %d", ErrMalformedMarkup, roots)
	}

	removeComments(&doc.Element)
	return doc, nil
}

func removeComments(e *etree.Element) {
	for i := 0; i < len(e.Child); {
		switch t := e.Child[i].(type) {
		case *etree.Comment:
			e.RemoveChildAt(i)
			continue
		case *etree.Element:
			removeComments(t)
		}
		i++
	}
}

// InnerText returns all character data inside the element with tags
// stripped, tail of the element is not included.
func InnerText(e *etree.Element) string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	collectText(&sb, e)
	return sb.String()
}

func collectText(sb *strings.Builder, e *etree.Element) {
	for _, t := range e.Child {
		switch t := t.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			collectText(sb, t)
		}
	}
}
