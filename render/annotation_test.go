package render

import (
	"errors"
	"testing"
)

func TestAnnotationState_Identifiers(t *testing.T) {
	a := NewAnnotationState("Q", "12r", nil)

	if got, want := a.MarkerID(), "amex-Q-12r-0"; got != want {
		t.Errorf("MarkerID() = %q, want %q", got, want)
	}
	for i, want := range []string{"rdg-Q-12r-0", "rdg-Q-12r-1"} {
		if got := a.NextApp(); got != want {
			t.Errorf("NextApp() #%d = %q, want %q", i, got, want)
		}
	}
	if got, want := a.NextNote(), "note-Q-12r-0"; got != want {
		t.Errorf("NextNote() = %q, want %q", got, want)
	}
	if amex, app, note := a.Counters(); amex != 0 || app != 2 || note != 1 {
		t.Errorf("Counters() = %d, %d, %d", amex, app, note)
	}
}

func TestAnnotationState_Tooltip(t *testing.T) {
	a := NewAnnotationState("Q", "1r", nil)

	if a.Tooltip("x") != "" {
		t.Error("Tooltip() without marker should produce nothing")
	}

	a.MarkerDone("dñs")
	if !a.Pending() {
		t.Fatal("Pending() = false after MarkerDone")
	}
	want := `<div class="tooltip_templates"><span class="expansion_details" id="amex-Q-1r-0">dñs expands to dominus</span></div>`
	if got := a.Tooltip("dominus"); got != want {
		t.Errorf("Tooltip() = %s, want %s", got, want)
	}
	if a.Pending() {
		t.Error("Pending() = true after Tooltip")
	}
	if got, want := a.MarkerID(), "amex-Q-1r-1"; got != want {
		t.Errorf("MarkerID() = %q, want %q", got, want)
	}
}

func TestAnnotationState_Hovers(t *testing.T) {
	a := NewAnnotationState("Q", "1r", []string{"q̃ expands to que", "dñs expands to dominus"})

	if a.HoversLeft() != 2 {
		t.Errorf("HoversLeft() = %d, want 2", a.HoversLeft())
	}
	for _, want := range []string{"q̃ expands to que", "dñs expands to dominus"} {
		got, err := a.NextHover()
		if err != nil {
			t.Fatalf("NextHover() error = %v", err)
		}
		if got != want {
			t.Errorf("NextHover() = %q, want %q", got, want)
		}
	}
	if a.HoversLeft() != 0 {
		t.Errorf("HoversLeft() = %d, want 0", a.HoversLeft())
	}
	if _, err := a.NextHover(); !errors.Is(err, ErrRegistryExhausted) {
		t.Errorf("NextHover() error = %v, want %v", err, ErrRegistryExhausted)
	}
}

func TestHoverTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`q̃ expands to que`, `q̃ expands to que`},
		{`a<b> expands to "c"`, `a&lt;b> expands to &#34;c&#34;`},
		{`d'o expands to de o`, `d'o expands to de o`},
		{`R&D expands to`, `R&amp;D expands to`},
	}
	for _, tt := range tests {
		if got := hoverTitle(tt.in); got != tt.want {
			t.Errorf("hoverTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
