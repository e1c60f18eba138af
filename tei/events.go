package tei

import (
	"iter"

	"github.com/beevik/etree"
)

// EventKind distinguishes element start from element end.
type EventKind int

const (
	Enter EventKind = iota
	Exit
)

func (k EventKind) String() string {
	if k == Enter {
		return "enter"
	}
	return "exit"
}

// Event is produced for every element of the tree twice: when entering it
// (before children) and when leaving it (after children).
type Event struct {
	Kind  EventKind
	Elem  *etree.Element
	Depth int
}

// Tag returns local element name.
func (ev Event) Tag() string {
	return ev.Elem.Tag
}

// Text returns character data immediately following element start.
func (ev Event) Text() string {
	return ev.Elem.Text()
}

// Tail returns character data immediately following element end.
func (ev Event) Tail() string {
	return ev.Elem.Tail()
}

// Attr returns attribute value and presence flag.
func (ev Event) Attr(key string) (string, bool) {
	if a := ev.Elem.SelectAttr(key); a != nil {
		return a.Value, true
	}
	return "", false
}

// AttrValue returns attribute value or default.
func (ev Event) AttrValue(key, dflt string) string {
	return ev.Elem.SelectAttrValue(key, dflt)
}

// Events walks tree under root in document order. Tree must not be modified
// while walking.
func Events(root *etree.Element) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if root != nil {
			walk(root, 0, yield)
		}
	}
}

func walk(e *etree.Element, depth int, yield func(Event) bool) bool {
	if !yield(Event{Kind: Enter, Elem: e, Depth: depth}) {
		return false
	}
	for _, t := range e.Child {
		if c, ok := t.(*etree.Element); ok {
			if !walk(c, depth+1, yield) {
				return false
			}
		}
	}
	return yield(Event{Kind: Exit, Elem: e, Depth: depth})
}
