// Package render turns page transcription markup into HTML fragment for one
// display mode.
//
// Rendering is a single ordered walk over enter/exit events of the cleaned
// page tree. Every element is classified into TagKind and handled by the
// matching handler, which may emit markup and update layout, annotation and
// style state of the page. Nothing is shared between pages.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"estoria/common"
	"estoria/tei"
)

var (
	// ErrMissingAttribute is reported in strict mode for missing or invalid
	// attribute which otherwise gets forced default.
	ErrMissingAttribute = errors.New("missing or invalid attribute")
	// ErrRegistryExhausted means choices met while rendering do not match
	// hover registry built by prescan.
	ErrRegistryExhausted = errors.New("hover registry exhausted")
	// ErrRegistryUnused means some hover registry entries were never used.
	ErrRegistryUnused = errors.New("hover registry entries left unused")
)

// Page identifies page and carries its markup.
type Page struct {
	Siglum string
	ID     string
	Markup string
}

// Renderer renders pages. It keeps no page state and could be used from
// multiple goroutines.
type Renderer struct {
	log    *zap.Logger
	strict bool
}

// New creates renderer. In strict mode missing or invalid attributes abort
// page rendering instead of using forced defaults.
func New(log *zap.Logger, strict bool) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log.Named("render"), strict: strict}
}

// Render parses page markup and renders it for display mode.
func (r *Renderer) Render(ctx context.Context, p Page, mode common.DisplayMode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, err := tei.Parse(p.Markup)
	if err != nil {
		return "", err
	}
	return r.RenderDocument(ctx, p, doc, mode)
}

// RenderDocument renders already parsed page. Document is not modified, so
// the same document could be rendered for both display modes.
func (r *Renderer) RenderDocument(ctx context.Context, p Page, doc *etree.Document, mode common.DisplayMode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !mode.IsValid() {
		return "", fmt.Errorf("unable to render page: %w", common.ErrInvalidDisplayMode)
	}

	cols := tei.ColumnStructure(doc)
	cleaned, err := tei.Clean(doc, mode, r.strict)
	if err != nil {
		return "", err
	}

	t := &transducer{
		log:    r.log.With(zap.String("siglum", p.Siglum), zap.String("page", p.ID), zap.Stringer("mode", mode)),
		mode:   mode,
		strict: r.strict,
		layout: NewLayoutState(cols),
		notes:  NewAnnotationState(p.Siglum, p.ID, cleaned.Hovers),
	}
	return t.run(cleaned.Doc.Root())
}

type tailAction int

const (
	emitTail tailAction = iota
	suppressTail
)

// frame keeps what element handler did on enter, so exit could undo it.
type frame struct {
	kind    TagKind
	closing string

	muted  bool
	styled bool
	rubric bool

	// abbreviation marker text capture and expansion text collection
	capture  bool
	prevMark *strings.Builder
	collect  bool
	prevColl *strings.Builder

	hover string
	appID string
}

type transducer struct {
	log    *zap.Logger
	mode   common.DisplayMode
	strict bool

	layout *LayoutState
	notes  *AnnotationState
	styles StyleStack
	out    output

	frames      []frame
	choiceDepth int
	appDepth    int

	pastFirstChapter bool
	unknown          map[string]struct{}
}

func (t *transducer) run(root *etree.Element) (string, error) {
	for ev := range tei.Events(root) {
		var err error
		switch ev.Kind {
		case tei.Enter:
			err = t.enter(ev)
		case tei.Exit:
			err = t.exit(ev)
		}
		if err != nil {
			return "", fmt.Errorf("<%s> at %s: %w", ev.Tag(), ev.Elem.GetPath(), err)
		}
	}
	if left := t.notes.HoversLeft(); left > 0 {
		t.log.Error("Hover registry out of sync", zap.Int("unused", left))
		return "", fmt.Errorf("%w: %d", ErrRegistryUnused, left)
	}
	return t.out.String(), nil
}

func (t *transducer) top() *frame {
	return &t.frames[len(t.frames)-1]
}

// innermost returns closest open element of the kind.
func (t *transducer) innermost(kind TagKind) *frame {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if t.frames[i].kind == kind {
			return &t.frames[i]
		}
	}
	return nil
}

func (t *transducer) enter(ev tei.Event) error {
	kind := KindOf(ev.Tag())
	if ev.Depth == 0 {
		kind = KindRoot
	}
	t.frames = append(t.frames, frame{kind: kind})
	f := t.top()

	switch kind {
	case KindPassthrough:
		t.passthrough(ev)
	case KindRoot, KindStructural, KindMilestone:
		// element text is not part of the page
	case KindGlyph:
		t.out.write(ev.Text())
	case KindColumnBreak:
		return t.columnBreak(ev)
	case KindLineBreak:
		t.out.write("<br />\n")
	case KindDiv:
		return t.div(ev)
	case KindBlock:
		return t.block(ev)
	case KindHead:
		t.headEnter(ev, f)
	case KindHighlight:
		t.highlightEnter(ev, f)
	case KindGap:
		return t.gap(ev)
	case KindSpace:
		return t.space(ev)
	case KindSegment:
		t.segmentEnter(ev, f)
	case KindUnclear:
		t.unclearEnter(ev, f)
	case KindNote:
		t.noteEnter(ev, f)
	case KindFigure:
		t.figure(ev)
	case KindForme:
		t.formeEnter(ev, f)
	case KindChoice:
		return t.choiceEnter(ev, f)
	case KindAbbr:
		t.abbrEnter(ev, f)
	case KindExpan:
		t.out.write(`<span class="expansion">` + ev.Text())
		f.closing = "</span>"
	case KindMarker:
		t.markerEnter(ev, f)
	case KindExpansion:
		t.expansionEnter(ev, f)
	case KindApp:
		t.appEnter(ev, f)
	case KindReading:
		t.readingEnter(ev, f)
	}
	return nil
}

func (t *transducer) exit(ev tei.Event) error {
	f := *t.top()

	action := emitTail
	switch f.kind {
	case KindRoot:
		t.rootExit()
	case KindHead, KindHighlight:
		if f.styled || f.rubric {
			t.styles.Pop()
		}
		t.out.write(f.closing)
	case KindSegment:
		t.out.write(f.closing + ev.Tail())
		action = suppressTail
	case KindChoice:
		t.choiceDepth--
		t.out.write(f.closing)
	case KindMarker:
		t.markerExit(&f)
	case KindExpansion:
		t.expansionExit(&f)
	case KindApp:
		t.appExit(&f)
	default:
		t.out.write(f.closing)
	}

	t.frames = t.frames[:len(t.frames)-1]
	if f.muted {
		t.out.mute--
	}
	if action == emitTail && ev.Depth > 0 {
		t.out.write(ev.Tail())
	}
	return nil
}

func (t *transducer) passthrough(ev tei.Event) {
	if t.unknown == nil {
		t.unknown = make(map[string]struct{})
	}
	if _, seen := t.unknown[ev.Tag()]; !seen {
		t.unknown[ev.Tag()] = struct{}{}
		t.log.Debug("Passing through text of unknown tag", zap.String("tag", ev.Tag()))
	}
	t.out.write(ev.Text())
}

func (t *transducer) mute(f *frame) {
	f.muted = true
	t.out.mute++
}

// forced reports missing or invalid attribute. In strict mode this is an
// error, otherwise forced default is used and warning logged.
func (t *transducer) forced(ev tei.Event, attr, value, dflt string) error {
	if t.strict {
		return fmt.Errorf("%w: %s=%q", ErrMissingAttribute, attr, value)
	}
	t.log.Warn("Using forced default for attribute",
		zap.String("tag", ev.Tag()), zap.String("attr", attr), zap.String("value", value), zap.String("default", dflt))
	return nil
}

// boundary emits wrapper markup closing styled runs before and reopening
// them after it. Runs opened inside content held for the first column stay
// untouched, their opening markup follows the wrapper.
func (t *transducer) boundary(markup string) {
	depth := t.styles.Len()
	if t.out.holding {
		depth = t.out.holdDepth
	}
	t.out.structural(t.styles.Closing(depth) + markup + t.styles.Opening(depth))
}
