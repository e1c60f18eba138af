package render

import "strings"

// output assembles page fragments in document order.
//
// Content may be held back until the first column opens (rubric preceding
// any column break), muted (subtrees producing nothing in current display
// mode) or collected aside (expansion text for tooltips). Wrapper markup
// always goes straight to the result.
type output struct {
	buf strings.Builder

	held      strings.Builder
	holding   bool
	holdDepth int

	mute int

	marker    *strings.Builder
	expansion *strings.Builder
}

// write appends content fragment.
func (o *output) write(s string) {
	if len(s) == 0 {
		return
	}
	if o.expansion != nil {
		o.expansion.WriteString(s)
		return
	}
	if o.mute > 0 {
		return
	}
	if o.marker != nil {
		o.marker.WriteString(s)
	}
	if o.holding {
		o.held.WriteString(s)
		return
	}
	o.buf.WriteString(s)
}

// visible reports if content written now would reach the result.
func (o *output) visible() bool {
	return o.expansion == nil && o.mute == 0
}

// hold starts holding content back, depth is number of runs open so far.
func (o *output) hold(depth int) {
	if o.holding {
		return
	}
	o.holding, o.holdDepth = true, depth
}

// structural appends wrapper markup followed by any content held so far.
func (o *output) structural(s string) {
	o.buf.WriteString(s)
	if o.holding {
		o.buf.WriteString(o.held.String())
		o.held.Reset()
		o.holding, o.holdDepth = false, 0
	}
}

func (o *output) String() string {
	return o.buf.String()
}
