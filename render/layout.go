package render

import (
	"fmt"

	"estoria/tei"
)

type layoutPhase int

const (
	noColumn layoutPhase = iota
	inColumn
	inSubcolumn
)

func (p layoutPhase) String() string {
	switch p {
	case inColumn:
		return "main-column-open"
	case inSubcolumn:
		return "main-and-subcolumn-open"
	default:
		return "no-column-open"
	}
}

// LayoutState tracks row, main column and subcolumn wrappers open on the
// page. Methods return wrapper markup to be emitted.
type LayoutState struct {
	cols   *tei.Columns
	phase  layoutPhase
	main   string
	sub    string
	opened bool
}

func NewLayoutState(cols *tei.Columns) *LayoutState {
	if cols == nil {
		cols = tei.ColumnStructure(nil)
	}
	return &LayoutState{cols: cols, main: tei.DefaultColumn}
}

// Opened reports if any column has been opened on the page so far.
func (l *LayoutState) Opened() bool {
	return l.opened
}

// Open reports if column is currently open.
func (l *LayoutState) Open() bool {
	return l.phase != noColumn
}

// Current returns current main column identifier.
func (l *LayoutState) Current() string {
	return l.main
}

func (l *LayoutState) openColumn() string {
	return fmt.Sprintf(`<div class="column col-md-%d">`, l.cols.MainWidth())
}

func (l *LayoutState) openSubcolumn(main string) string {
	return fmt.Sprintf(`<div class="subcolumn col-md-%d">`, l.cols.SubWidth(main))
}

// Break moves layout to the column named by column break descriptor.
func (l *LayoutState) Break(ref tei.ColumnRef) string {
	var markup string

	switch {
	case l.phase == noColumn:
		markup = `<div class="row">` + l.openColumn()
		if ref.HasSub() {
			markup += `<div class="row">` + l.openSubcolumn(ref.Main)
		}

	case !ref.HasSub() && ref.Main != l.main:
		if l.phase == inSubcolumn {
			markup = `</div></div>`
		}
		markup += `</div>` + l.openColumn()

	case !ref.HasSub():
		// end of subcolumns, back to the main column
		if l.phase == inSubcolumn {
			markup = `</div></div>`
		}

	case ref.Main != l.main:
		if l.phase == inSubcolumn {
			markup = `</div></div>`
		}
		markup += `</div>` + l.openColumn() + `<div class="row">` + l.openSubcolumn(ref.Main)

	default:
		if l.phase == inSubcolumn {
			markup = `</div>`
		} else {
			markup = `<br class="clear"/><div class="row">`
		}
		markup += l.openSubcolumn(ref.Main)
	}

	l.main, l.sub = ref.Main, ref.Sub
	if ref.HasSub() {
		l.phase = inSubcolumn
	} else {
		l.phase = inColumn
	}
	l.opened = true
	return markup
}

// CloseAll closes every open wrapper.
func (l *LayoutState) CloseAll() string {
	var markup string
	switch l.phase {
	case inSubcolumn:
		markup = `</div></div></div></div>`
	case inColumn:
		markup = `</div></div>`
	}
	l.phase, l.sub = noColumn, ""
	return markup
}
