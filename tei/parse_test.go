package tei

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	doc, err := Parse("<root n=\"Q\"><pb n=\"1r\"/>\n<ab n=\"1200\">dñs<!-- checked --> noster</ab>\n</root>")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "root" {
		t.Fatalf("unexpected root: %v", root)
	}

	ab := root.SelectElement("ab")
	if ab == nil {
		t.Fatal("ab element not found")
	}
	if got := ab.Text(); got != "dñs noster" {
		t.Errorf("ab text = %q, want comments removed and text joined", got)
	}
	if got := ab.Tail(); got != "" {
		t.Errorf("ab tail = %q, want line breaks dropped", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"empty", ""},
		{"blank", "  \n "},
		{"unclosed", "<root><ab>text</root>"},
		{"two roots", "<root/><root/>"},
		{"text outside", "text<root/>"},
		{"unknown entity", "<root>&nbsp;</root>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.markup)
			if !errors.Is(err, ErrMalformedMarkup) {
				t.Errorf("Parse() error = %v, want ErrMalformedMarkup", err)
			}
		})
	}
}

func TestInnerText(t *testing.T) {
	doc, err := Parse(`<root><abbr>d<am>ñ</am>s<g ref="x"/></abbr> tail</root>`)
	if err != nil {
		t.Fatal(err)
	}
	if got := InnerText(doc.Root().SelectElement("abbr")); got != "dñs" {
		t.Errorf("InnerText() = %q, want dñs", got)
	}
	if got := InnerText(nil); got != "" {
		t.Errorf("InnerText(nil) = %q", got)
	}
}
