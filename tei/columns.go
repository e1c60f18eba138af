package tei

import (
	"slices"
	"strings"

	"github.com/beevik/etree"
)

// DefaultColumn is main column identifier assumed when column break does not
// carry one.
const DefaultColumn = "a"

// TotalWidth is number of grid units available for a row.
const TotalWidth = 12

// ColumnRef is resolved column break descriptor: "main" or "main-sub".
type ColumnRef struct {
	Main string
	Sub  string
}

// HasSub reports if descriptor points to subcolumn.
func (r ColumnRef) HasSub() bool {
	return len(r.Sub) > 0
}

func (r ColumnRef) String() string {
	if r.HasSub() {
		return r.Main + "-" + r.Sub
	}
	return r.Main
}

// ParseColumnRef splits column descriptor on dashes, anything after the
// second part is ignored.
func ParseColumnRef(n string) ColumnRef {
	parts := strings.Split(n, "-")
	if len(parts) == 1 {
		return ColumnRef{Main: parts[0]}
	}
	return ColumnRef{Main: parts[0], Sub: parts[1]}
}

// Columns maps main column identifiers to their subcolumn identifiers, both
// in order of first appearance on the page.
type Columns struct {
	order []string
	subs  map[string][]string
}

// ColumnStructure scans every column break of the page. Nil document gives
// empty structure.
func ColumnStructure(doc *etree.Document) *Columns {
	c := &Columns{subs: make(map[string][]string)}
	if doc == nil || doc.Root() == nil {
		return c
	}
	for _, cb := range doc.FindElements("//cb") {
		c.add(ParseColumnRef(cb.SelectAttrValue("n", DefaultColumn)))
	}
	return c
}

func (c *Columns) add(ref ColumnRef) {
	subs, ok := c.subs[ref.Main]
	if !ok {
		c.order = append(c.order, ref.Main)
	}
	if ref.HasSub() && !slices.Contains(subs, ref.Sub) {
		subs = append(subs, ref.Sub)
	}
	c.subs[ref.Main] = subs
}

// Main returns main column identifiers in order.
func (c *Columns) Main() []string {
	return append([]string(nil), c.order...)
}

// Subcolumns returns subcolumn identifiers of the main column.
func (c *Columns) Subcolumns(main string) []string {
	return append([]string(nil), c.subs[main]...)
}

// MainWidth is grid width of a main column. Division is integer, empty
// structure is treated as single column.
func (c *Columns) MainWidth() int {
	return width(len(c.order))
}

// SubWidth is grid width of a subcolumn under the main column.
func (c *Columns) SubWidth(main string) int {
	return width(len(c.subs[main]))
}

func width(count int) int {
	if count < 1 {
		count = 1
	}
	return TotalWidth / count
}
