package render

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"estoria/tei"
)

const (
	nbsp = "&nbsp;"
	// maxBlankLines limits line breaks produced by single blank space.
	maxBlankLines = 10
	// maxBlankChars limits width of single gap or blank space.
	maxBlankChars = 1000
)

// Tironian et is shown with similar looking glyph supported by fonts.
var abbrReplacer = strings.NewReplacer("⁊", "τ")

func (t *transducer) columnBreak(ev tei.Event) error {
	var ref tei.ColumnRef
	if n, ok := ev.Attr("n"); ok {
		ref = tei.ParseColumnRef(n)
	} else {
		// stay in current column
		if err := t.forced(ev, "n", "", t.layout.Current()); err != nil {
			return err
		}
		ref = tei.ColumnRef{Main: t.layout.Current()}
	}
	t.boundary(t.layout.Break(ref))
	return nil
}

func (t *transducer) rootExit() {
	if t.notes.Pending() {
		t.log.Warn("Abbreviation marker without expansion", zap.String("id", t.notes.MarkerID()))
		t.out.write(t.notes.Tooltip(""))
	}
	t.out.structural(t.layout.CloseAll())
}

func (t *transducer) div(ev tei.Event) error {
	n, ok := ev.Attr("n")
	if !ok {
		t.out.write(ev.Text())
		return nil
	}
	if !t.pastFirstChapter {
		t.pastFirstChapter = true
		if _, err := strconv.Atoi(n); err != nil {
			if err := t.forced(ev, "n", n, "0"); err != nil {
				return err
			}
		}
	}
	if len(n) == 0 || ev.AttrValue("continued", "") == "true" {
		// continuation of a chapter started on earlier page
		return nil
	}
	t.out.write(`<br class="clear" /><span class="chapter">` + n + `</span>`)
	return nil
}

func (t *transducer) block(ev tei.Event) error {
	n, ok := ev.Attr("n")
	if !ok {
		if err := t.forced(ev, "n", "", "000"); err != nil {
			return err
		}
		n = "000"
	}
	var label string
	if len(n) > 0 && ev.AttrValue("continued", "") != "true" {
		label = "<sub>" + verseLabel(n) + "</sub>" + nbsp
	}
	t.out.write(label + ev.Text())
	return nil
}

// verseLabel makes display label from verse identifier: last two digits are
// verse number within chapter, with trailing zeros dropped.
func verseLabel(n string) string {
	k := len(n)
	switch {
	case k >= 2 && n[k-2:] == "00":
		return n[:k-2]
	case k >= 2 && n[k-1] == '0':
		return n[:k-2] + "." + n[k-2:k-1]
	default:
		i := max(k-2, 0)
		return n[:i] + "." + n[i:]
	}
}

func isRubric(n string) bool {
	return n == "rubric" || n == "Rubric"
}

func (t *transducer) headEnter(ev tei.Event, f *frame) {
	if !isRubric(ev.AttrValue("n", "")) {
		t.out.write(ev.Text())
		return
	}
	if !t.layout.Opened() {
		// rubric before the first column goes inside it
		t.out.hold(t.styles.Len())
	}
	t.out.write(rubricOpen + ev.Text())
	if t.out.visible() {
		t.styles.PushRubric()
		f.rubric = true
	}
	f.closing = `</span><br />`
}

func (t *transducer) highlightEnter(ev tei.Event, f *frame) {
	rend, ok := ev.Attr("rend")
	if !ok {
		t.out.write(ev.Text())
		return
	}
	f.closing = "</span>"

	text := ev.Text()
	switch {
	case strings.HasPrefix(rend, "init1"):
		t.out.write(t.initial("init1", rend, text, nbsp))
	case strings.HasPrefix(rend, "init"):
		t.out.write(t.initial("init", rend, text, nbsp+nbsp+nbsp))
	default:
		open := `<span class="` + rend + `">`
		t.out.write(open + text)
		if t.out.visible() {
			t.styles.Push(open)
			f.styled = true
		}
	}
}

// initial renders decorated initial letter, unextended initials are shown
// as blank space of fixed width.
func (t *transducer) initial(cls, rend, text, blank string) string {
	if t.styles.InRubric() {
		cls = "rubric" + cls
	}
	if strings.HasSuffix(rend, "unex") || len(text) == 0 {
		text = blank
	}
	return `<span class="` + cls + `">` + text
}

// quantity returns non negative value of quantity attribute, 1 when it is
// absent.
func (t *transducer) quantity(ev tei.Event) (int, error) {
	v, ok := ev.Attr("quantity")
	if !ok {
		return 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		if err := t.forced(ev, "quantity", v, "1"); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return max(n, 0), nil
}

// width returns quantity of blank characters, limited to maxBlankChars.
func (t *transducer) width(ev tei.Event) (int, error) {
	n, err := t.quantity(ev)
	if err != nil || n <= maxBlankChars {
		return n, err
	}
	if err := t.forced(ev, "quantity", strconv.Itoa(n), strconv.Itoa(maxBlankChars)); err != nil {
		return 0, err
	}
	return maxBlankChars, nil
}

func (t *transducer) gap(ev tei.Event) error {
	n, err := t.width(ev)
	if err != nil {
		return err
	}
	t.out.write(`<span class="gap">` + strings.Repeat(nbsp, n) + `</span>`)
	return nil
}

func (t *transducer) space(ev tei.Event) error {
	unit, ok := ev.Attr("unit")
	switch {
	case !ok || unit == "char" || unit == "chars":
		n, err := t.width(ev)
		if err != nil {
			return err
		}
		t.out.write(`<span class="space">` + strings.Repeat(nbsp, n) + `</span>`)
	case unit == "line" || unit == "lines":
		n, err := t.quantity(ev)
		if err != nil {
			return err
		}
		t.out.write(strings.Repeat("<br />", min(n, maxBlankLines)))
	default:
		t.log.Debug("Ignoring space with unsupported unit", zap.String("unit", unit))
	}
	return nil
}

func (t *transducer) segmentEnter(ev tei.Event, f *frame) {
	cls := "seg"
	if id, ok := ev.Attr("xml:id"); ok && strings.HasPrefix(id, "rubric") {
		cls += " rubric"
	}
	t.out.write(`<span class="` + cls + `">` + ev.Text())
	f.closing = "</span>"
}

func (t *transducer) unclearEnter(ev tei.Event, f *frame) {
	var title string
	if reason := ev.AttrValue("reason", ""); len(reason) > 0 && t.appDepth == 0 {
		title = ` title="text ` + reason + `"`
	}
	t.out.write(`<span class="hoverover unclear"` + title + `>` + ev.Text())
	f.closing = "</span>"
}

func (t *transducer) noteEnter(ev tei.Event, f *frame) {
	if ev.AttrValue("type", "") == "ed" {
		// editorial notes are not shown
		t.mute(f)
		return
	}
	id := t.notes.NextNote()
	var label string
	if place, ok := ev.Attr("place"); ok {
		label = place + ": "
	}
	t.out.write(`<span class="note hoverover" data-tooltip-content="#` + id + `">☜</span>` +
		`<div class="tooltip_templates"><span id="` + id + `">` + label + strings.ReplaceAll(ev.Text(), `"`, "'"))
	f.closing = `</span></div>`
}

func (t *transducer) figure(ev tei.Event) {
	t.out.write(`<span class="note hoverover" title="` + strings.ReplaceAll(ev.Text(), `"`, "'") + `">☜</span>`)
}

var formeTypes = map[string]struct{ title, cls string }{
	"header":  {"header", "header"},
	"pageNum": {"page number", "pageNum"},
	"catch":   {"catch word", "catch"},
}

func (t *transducer) formeEnter(ev tei.Event, f *frame) {
	place, hasPlace := ev.Attr("place")

	var cls string
	if hasPlace {
		cls = " " + place
		// running text in the bottom margin is outside of columns
		if strings.HasPrefix(place, "b") && t.layout.Open() {
			t.boundary(t.layout.CloseAll() + `<br class="clear"/>`)
		}
	}

	if ft, ok := formeTypes[ev.AttrValue("type", "")]; ok {
		t.out.write(`<span title="` + ft.title + `" class="hoverover ` + ft.cls + cls + `">` + ev.Text())
	} else {
		t.out.write(`<span class="` + cls + `">` + ev.Text())
	}

	f.closing = "</span>"
	if place == "tm" {
		f.closing = `</span><br class="clear"/>`
	}
}

func (t *transducer) choiceEnter(ev tei.Event, f *frame) error {
	hover, err := t.notes.NextHover()
	if err != nil {
		t.log.Error("Hover registry out of sync", zap.Error(err))
		return err
	}
	t.choiceDepth++
	f.hover = hover
	t.out.write(`<span class="choice">`)
	f.closing = "</span>"
	return nil
}

func (t *transducer) abbrEnter(ev tei.Event, f *frame) {
	text := abbrReplacer.Replace(ev.Text())
	f.closing = "</span>"
	if choice := t.innermost(KindChoice); choice != nil {
		t.out.write(`<span class="abbreviation hoverover" title="` + hoverTitle(choice.hover) + `">` + text)
		return
	}
	t.out.write(`<span class="abbreviation">` + text)
}

func (t *transducer) markerEnter(ev tei.Event, f *frame) {
	text := abbrReplacer.Replace(ev.Text())
	switch {
	case t.mode.Expanded():
		t.mute(f)
	case t.choiceDepth > 0:
		t.out.write(`<span class="inner-abbreviation">` + text)
		f.closing = "</span>"
	default:
		if t.notes.Pending() {
			t.log.Warn("Abbreviation marker without expansion", zap.String("id", t.notes.MarkerID()))
			t.out.write(t.notes.Tooltip(""))
		}
		t.out.write(`<span class="abbreviation_marker hoverover" data-tooltip-content="#` + t.notes.MarkerID() + `">`)
		f.capture, f.prevMark = true, t.out.marker
		t.out.marker = new(strings.Builder)
		t.out.write(text)
		f.closing = "</span>"
	}
}

func (t *transducer) markerExit(f *frame) {
	if !f.capture {
		t.out.write(f.closing)
		return
	}
	text := t.out.marker.String()
	t.out.marker = f.prevMark
	t.out.write(f.closing)
	t.notes.MarkerDone(text)
}

func (t *transducer) expansionEnter(ev tei.Event, f *frame) {
	switch {
	case t.choiceDepth > 0 && t.mode.Expanded():
		t.out.write(`<span class="inner-expansion">` + ev.Text())
		f.closing = "</span>"
	case t.choiceDepth > 0:
		t.mute(f)
	case t.mode.Expanded():
		t.out.write(`<span class="expansion">` + ev.Text())
		f.closing = "</span>"
	default:
		// shown in tooltip of preceding abbreviation marker only
		f.collect, f.prevColl = true, t.out.expansion
		t.out.expansion = new(strings.Builder)
		t.out.write(ev.Text())
	}
}

func (t *transducer) expansionExit(f *frame) {
	if !f.collect {
		t.out.write(f.closing)
		return
	}
	text := t.out.expansion.String()
	t.out.expansion = f.prevColl
	if !t.notes.Pending() {
		t.log.Warn("Expansion without abbreviation marker", zap.String("text", text))
		return
	}
	t.out.write(t.notes.Tooltip(text))
}

func (t *transducer) appEnter(ev tei.Event, f *frame) {
	t.appDepth++
	f.appID = t.notes.NextApp()
	t.out.write(`<span class="app">` + nbsp)
	f.closing = "</span>"
}

func (t *transducer) appExit(f *frame) {
	t.appDepth--
	t.out.write(f.closing)
}

func (t *transducer) readingEnter(ev tei.Event, f *frame) {
	app := t.innermost(KindApp)
	if app == nil {
		t.log.Debug("Ignoring reading outside of variant group")
		t.mute(f)
		return
	}

	var rend string
	if r, ok := ev.Attr("rend"); ok {
		rend = r + " "
	}
	text := ev.Text()

	switch ev.AttrValue("type", "") {
	case tei.ReadingLiteral:
		t.out.write(`<span class="` + rend + `rdg_orig hoverover" data-tooltip-content="#` + app.appID + `">` + text)
		f.closing = "</span>"
	case tei.ReadingModified:
		open := `<div class="tooltip_templates"><span id="` + app.appID + `" class="rdg_mod">`
		if len(text) > 0 {
			open += `changed to <span class="` + rend + `">` + text + `</span>`
		}
		t.out.write(open)
		f.closing = `</span></div>`
	default:
		// reading of unknown type has no presentation
	}
}
