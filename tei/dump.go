package tei

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
)

type treeWriter struct {
	w strings.Builder
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw *treeWriter) text(depth int, label, value string) {
	if len(value) == 0 {
		return
	}
	tw.line(depth, "%s: %s", label, strconv.Quote(value))
}

// Dump returns readable tree of the page. It exists solely for inspection of
// debug reports.
func Dump(root *etree.Element) string {
	if root == nil {
		return "<empty page>\n"
	}
	var tw treeWriter
	dumpElement(&tw, root, 0)
	return tw.w.String()
}

func dumpElement(tw *treeWriter, e *etree.Element, depth int) {
	attrs := make([]string, 0, len(e.Attr))
	for _, a := range e.Attr {
		attrs = append(attrs, fmt.Sprintf("%s=%q", a.FullKey(), a.Value))
	}
	sort.Sort(natural.StringSlice(attrs))

	head := "<" + e.FullTag() + ">"
	if len(attrs) > 0 {
		head += " " + strings.Join(attrs, " ")
	}
	tw.line(depth, "%s", head)
	tw.text(depth+1, "text", e.Text())
	for _, c := range e.ChildElements() {
		dumpElement(tw, c, depth+1)
	}
	tw.text(depth, "tail", e.Tail())
}

// String returns readable form of cleanup result: cleaned page tree followed
// by hover registry.
func (c *Cleaned) String() string {
	if c == nil {
		return "<nil Cleaned>"
	}
	var root *etree.Element
	if c.Doc != nil {
		root = c.Doc.Root()
	}
	out := Dump(root)

	var tw treeWriter
	tw.line(0, "Hover registry: %d", len(c.Hovers))
	for i, h := range c.Hovers {
		tw.line(1, "Choice[%d] %q", i, h)
	}
	return out + "\n" + tw.w.String()
}
