package render

import "strings"

const rubricOpen = `<span class="rubric">`

type styledRun struct {
	open   string
	rubric bool
}

// StyleStack keeps inline runs (styled highlights and rubric) currently open,
// outermost first. Runs have to be closed before and reopened after every
// wrapper boundary.
type StyleStack struct {
	runs []styledRun
}

func (s *StyleStack) Len() int {
	return len(s.runs)
}

// Push registers run opened by the markup.
func (s *StyleStack) Push(open string) {
	s.runs = append(s.runs, styledRun{open: open})
}

// PushRubric registers rubric span.
func (s *StyleStack) PushRubric() {
	s.runs = append(s.runs, styledRun{open: rubricOpen, rubric: true})
}

// Pop removes innermost run.
func (s *StyleStack) Pop() {
	if len(s.runs) > 0 {
		s.runs = s.runs[:len(s.runs)-1]
	}
}

// InRubric reports if rubric span is open.
func (s *StyleStack) InRubric() bool {
	for _, r := range s.runs {
		if r.rubric {
			return true
		}
	}
	return false
}

// Closing returns markup closing outermost "depth" runs.
func (s *StyleStack) Closing(depth int) string {
	return strings.Repeat("</span>", min(depth, len(s.runs)))
}

// Opening returns markup reopening outermost "depth" runs in nesting order.
func (s *StyleStack) Opening(depth int) string {
	var sb strings.Builder
	for _, r := range s.runs[:min(depth, len(s.runs))] {
		sb.WriteString(r.open)
	}
	return sb.String()
}
