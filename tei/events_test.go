package tei

import (
	"strings"
	"testing"
)

func TestEvents(t *testing.T) {
	doc, err := Parse(`<root><ab n="1">a<hi rend="red">b</hi>c<lb/>d</ab>e</root>`)
	if err != nil {
		t.Fatal(err)
	}

	var trace []string
	for ev := range Events(doc.Root()) {
		s := ev.Kind.String() + ":" + ev.Tag()
		switch ev.Kind {
		case Enter:
			s += "[" + ev.Text() + "]"
		case Exit:
			s += "(" + ev.Tail() + ")"
		}
		trace = append(trace, s)
	}

	want := []string{
		"enter:root[]",
		"enter:ab[a]",
		"enter:hi[b]",
		"exit:hi(c)",
		"enter:lb[]",
		"exit:lb(d)",
		"exit:ab(e)",
		"exit:root()",
	}
	if strings.Join(trace, " ") != strings.Join(want, " ") {
		t.Errorf("Events() =\n%v\nwant\n%v", trace, want)
	}
}

func TestEvents_DepthAndAttributes(t *testing.T) {
	doc, err := Parse(`<root><seg xml:id="rubric-1"><g/></seg></root>`)
	if err != nil {
		t.Fatal(err)
	}

	depths := map[string]int{}
	for ev := range Events(doc.Root()) {
		if ev.Kind != Enter {
			continue
		}
		depths[ev.Tag()] = ev.Depth
		if ev.Tag() == "seg" {
			if v, ok := ev.Attr("xml:id"); !ok || v != "rubric-1" {
				t.Errorf("Attr(xml:id) = %q, %v", v, ok)
			}
			if _, ok := ev.Attr("type"); ok {
				t.Error("Attr(type) should be absent")
			}
			if v := ev.AttrValue("type", "none"); v != "none" {
				t.Errorf("AttrValue() = %q, want default", v)
			}
		}
	}
	if depths["root"] != 0 || depths["seg"] != 1 || depths["g"] != 2 {
		t.Errorf("depths = %v", depths)
	}
}

func TestEvents_StopEarly(t *testing.T) {
	doc, err := Parse(`<root><a/><b/><c/></root>`)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for range Events(doc.Root()) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	for range Events(nil) {
		t.Error("no events expected for nil root")
	}
}
