package render

import "testing"

func TestStyleStack(t *testing.T) {
	var s StyleStack

	if s.InRubric() || s.Len() != 0 {
		t.Fatal("empty stack expected")
	}
	if got := s.Closing(3) + s.Opening(3); got != "" {
		t.Errorf("empty stack produced %q", got)
	}

	s.PushRubric()
	s.Push(`<span class="red">`)
	s.Push(`<span class="blue">`)

	if !s.InRubric() {
		t.Error("InRubric() = false")
	}
	if got, want := s.Closing(s.Len()), "</span></span></span>"; got != want {
		t.Errorf("Closing() = %q, want %q", got, want)
	}
	if got, want := s.Opening(s.Len()), `<span class="rubric"><span class="red"><span class="blue">`; got != want {
		t.Errorf("Opening() = %q, want %q", got, want)
	}
	if got, want := s.Opening(1), `<span class="rubric">`; got != want {
		t.Errorf("Opening(1) = %q, want %q", got, want)
	}

	s.Pop()
	s.Pop()
	s.Pop()
	s.Pop()
	if s.Len() != 0 || s.InRubric() {
		t.Errorf("stack not empty after pops: %d", s.Len())
	}
}
