package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{MinWidth, MinHeight, false},
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
		{200, 60, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v", tt.w, tt.h, got)
		}
	}
}

func TestRenderMinSizeMessage(t *testing.T) {
	out := RenderMinSizeMessage(40, 10)
	if !strings.Contains(out, "40x10") || !strings.Contains(out, "60x20") {
		t.Fatalf("message = %q", out)
	}
}

func TestRenderHeader_Progress(t *testing.T) {
	with := RenderHeader("Assessment", Progress{Answered: 3, Total: 13}, 80)
	if !strings.Contains(with, "3/13 answered") {
		t.Fatalf("missing counter: %q", with)
	}
	without := RenderHeader("Home", Progress{}, 80)
	if strings.Contains(without, "answered") {
		t.Fatalf("counter shown without total: %q", without)
	}
}

func TestRenderFooter_DropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Abandon"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	wide := RenderFooter(hints, 100)
	if !strings.Contains(wide, "Quit") {
		t.Fatal("all hints should fit at 100 columns")
	}
	narrow := RenderFooter(hints, 30)
	if strings.Contains(narrow, "Quit") || !strings.Contains(narrow, "Answer") {
		t.Fatalf("narrow footer = %q", narrow)
	}
}

func TestRenderFrame_FillsHeight(t *testing.T) {
	header := RenderHeader("Home", Progress{}, 80)
	footer := RenderFooter(nil, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	if h := lipgloss.Height(frame); h != 30 {
		t.Fatalf("frame height = %d, want 30", h)
	}
}
