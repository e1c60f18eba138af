package render

import (
	"fmt"
	"strings"
)

// AnnotationState keeps positional counters used to pair hover markers with
// their tooltip templates, and abbreviation marker text waiting for its
// expansion. All counters start from zero for every page.
type AnnotationState struct {
	siglum string
	page   string

	amex int
	app  int
	note int

	hovers    []string
	nextHover int

	pending    bool
	markerText string
}

func NewAnnotationState(siglum, page string, hovers []string) *AnnotationState {
	return &AnnotationState{siglum: siglum, page: page, hovers: hovers}
}

func (a *AnnotationState) id(prefix string, n int) string {
	return fmt.Sprintf("%s-%s-%s-%d", prefix, a.siglum, a.page, n)
}

// MarkerID is identifier of the current abbreviation marker/expansion pair.
func (a *AnnotationState) MarkerID() string {
	return a.id("amex", a.amex)
}

// NextApp reserves identifier for variant group.
func (a *AnnotationState) NextApp() string {
	id := a.id("rdg", a.app)
	a.app++
	return id
}

// NextNote reserves identifier for note.
func (a *AnnotationState) NextNote() string {
	id := a.id("note", a.note)
	a.note++
	return id
}

// NextHover takes hover registry entry for the choice. Registry is consumed
// by position, in the same order it was filled.
func (a *AnnotationState) NextHover() (string, error) {
	if a.nextHover >= len(a.hovers) {
		return "", fmt.Errorf("%w: choice %d, registry has %d entries", ErrRegistryExhausted, a.nextHover, len(a.hovers))
	}
	h := a.hovers[a.nextHover]
	a.nextHover++
	return h, nil
}

// HoversLeft returns number of registry entries not consumed.
func (a *AnnotationState) HoversLeft() int {
	return len(a.hovers) - a.nextHover
}

// MarkerDone remembers text of the abbreviation marker just closed.
func (a *AnnotationState) MarkerDone(text string) {
	a.pending, a.markerText = true, text
}

// Pending reports if abbreviation marker waits for its expansion.
func (a *AnnotationState) Pending() bool {
	return a.pending
}

// Tooltip produces tooltip template for waiting marker and moves to the next
// pair. Without waiting marker there is nothing to produce.
func (a *AnnotationState) Tooltip(expansion string) string {
	if !a.pending {
		return ""
	}
	s := `<div class="tooltip_templates"><span class="expansion_details" id="` + a.MarkerID() + `">` +
		a.markerText + " expands to " + expansion + `</span></div>`
	a.amex++
	a.pending, a.markerText = false, ""
	return s
}

// Counters returns current values of abbreviation, variant and note counters.
func (a *AnnotationState) Counters() (amex, app, note int) {
	return a.amex, a.app, a.note
}

// titleReplacer escapes only what would break double quoted attribute.
var titleReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&#34;")

func hoverTitle(s string) string {
	return titleReplacer.Replace(s)
}
