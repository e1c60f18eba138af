// Package htmlcheck verifies rendered page fragments: every element opened
// is closed in order, and hover markers and tooltip templates pair up by
// identifier.
package htmlcheck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"go.uber.org/multierr"
)

var (
	ErrUnbalanced     = errors.New("unbalanced markup")
	ErrMissingTooltip = errors.New("hover marker without tooltip")
	ErrOrphanTooltip  = errors.New("tooltip without hover marker")
	ErrDuplicateID    = errors.New("duplicate identifier")
	ErrLexer          = errors.New("unable to lex fragment")
)

// elements which never have end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

const tooltipAttr = "data-tooltip-content"

// Problem is single defect found in fragment.
type Problem struct {
	Err    error
	Detail string
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s: %s", p.Err, p.Detail)
}

func (p Problem) Unwrap() error {
	return p.Err
}

// Report lists problems in the order they were found.
type Report struct {
	Problems []Problem
	// Elements is number of elements checked.
	Elements int
}

// OK reports if fragment has no problems.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

// Err combines all problems into single error, nil when there are none.
func (r Report) Err() error {
	var err error
	for _, p := range r.Problems {
		err = multierr.Append(err, p)
	}
	return err
}

func (r *Report) add(err error, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{Err: err, Detail: fmt.Sprintf(format, args...)})
}

// Check lexes fragment and reports its problems.
func Check(fragment string) Report {
	var (
		rpt   Report
		stack []string
		tag   string
		refs  []string
		ids   = make(map[string]int)
	)

	l := html.NewLexer(parse.NewInputString(fragment))
	for {
		tt, _ := l.Next()
		switch tt {
		case html.ErrorToken:
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				rpt.add(ErrLexer, "%v", err)
			}
			for i := len(stack) - 1; i >= 0; i-- {
				rpt.add(ErrUnbalanced, "<%s> is never closed", stack[i])
			}
			pairTooltips(&rpt, refs, ids)
			return rpt

		case html.StartTagToken:
			tag = string(l.Text())
			rpt.Elements++

		case html.AttributeToken:
			val := attrValue(l.AttrVal())
			switch string(l.AttrKey()) {
			case tooltipAttr:
				refs = append(refs, strings.TrimPrefix(val, "#"))
			case "id":
				ids[val]++
			}

		case html.StartTagCloseToken:
			if !voidElements[tag] {
				stack = append(stack, tag)
			}

		case html.StartTagVoidToken:
			// self closed

		case html.EndTagToken:
			name := string(l.Text())
			if voidElements[name] {
				continue
			}
			i := lastIndex(stack, name)
			if i < 0 {
				rpt.add(ErrUnbalanced, "</%s> without opening tag", name)
				continue
			}
			for _, unclosed := range stack[i+1:] {
				rpt.add(ErrUnbalanced, "<%s> is closed by </%s>", unclosed, name)
			}
			stack = stack[:i]
		}
	}
}

// lastIndex returns position of the innermost open element with the name.
func lastIndex(stack []string, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return i
		}
	}
	return -1
}

func attrValue(v []byte) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return string(bytes.TrimSpace(v))
}

func pairTooltips(rpt *Report, refs []string, ids map[string]int) {
	referenced := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if referenced[ref] {
			rpt.add(ErrDuplicateID, "hover marker %q used more than once", ref)
			continue
		}
		referenced[ref] = true
		switch ids[ref] {
		case 0:
			rpt.add(ErrMissingTooltip, "%q", ref)
		case 1:
		default:
			rpt.add(ErrDuplicateID, "tooltip %q defined %d times", ref, ids[ref])
		}
	}

	orphans := make([]string, 0)
	for id := range ids {
		if !referenced[id] {
			orphans = append(orphans, id)
		}
	}
	slices.Sort(orphans)
	for _, id := range orphans {
		rpt.add(ErrOrphanTooltip, "%q", id)
	}
}
