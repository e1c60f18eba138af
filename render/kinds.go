package render

// TagKind selects handler for markup element.
type TagKind int

const (
	// KindPassthrough is used for every tag without dedicated handler:
	// element text is emitted as is, no markup added.
	KindPassthrough TagKind = iota
	KindRoot
	KindStructural
	KindMilestone
	KindColumnBreak
	KindLineBreak
	KindDiv
	KindBlock
	KindHead
	KindHighlight
	KindGlyph
	KindGap
	KindSpace
	KindSegment
	KindUnclear
	KindNote
	KindFigure
	KindForme
	KindChoice
	KindAbbr
	KindExpan
	KindMarker
	KindExpansion
	KindApp
	KindReading
)

var kindNames = [...]string{
	KindPassthrough: "passthrough",
	KindRoot:        "root",
	KindStructural:  "structural",
	KindMilestone:   "milestone",
	KindColumnBreak: "column-break",
	KindLineBreak:   "line-break",
	KindDiv:         "div",
	KindBlock:       "block",
	KindHead:        "head",
	KindHighlight:   "highlight",
	KindGlyph:       "glyph",
	KindGap:         "gap",
	KindSpace:       "space",
	KindSegment:     "segment",
	KindUnclear:     "unclear",
	KindNote:        "note",
	KindFigure:      "figure",
	KindForme:       "forme-work",
	KindChoice:      "choice",
	KindAbbr:        "abbr",
	KindExpan:       "expan",
	KindMarker:      "abbreviation-marker",
	KindExpansion:   "expansion",
	KindApp:         "app",
	KindReading:     "reading",
}

func (k TagKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

var tagKinds = map[string]TagKind{
	"root":    KindRoot,
	"text":    KindStructural,
	"body":    KindStructural,
	"pb":      KindMilestone,
	"cb":      KindColumnBreak,
	"lb":      KindLineBreak,
	"div":     KindDiv,
	"ab":      KindBlock,
	"head":    KindHead,
	"hi":      KindHighlight,
	"g":       KindGlyph,
	"gap":     KindGap,
	"space":   KindSpace,
	"seg":     KindSegment,
	"unclear": KindUnclear,
	"note":    KindNote,
	"figDesc": KindFigure,
	"fw":      KindForme,
	"choice":  KindChoice,
	"abbr":    KindAbbr,
	"expan":   KindExpan,
	"am":      KindMarker,
	"ex":      KindExpansion,
	"app":     KindApp,
	"rdg":     KindReading,
}

// KindOf classifies element by its local name.
func KindOf(tag string) TagKind {
	if k, ok := tagKinds[tag]; ok {
		return k
	}
	return KindPassthrough
}
