package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

type fixedWidget struct{ text string }

func (w fixedWidget) Render(width, height int) string {
	return w.text
}

func TestHStackRespectsRatios(t *testing.T) {
	h := HStack{Widgets: []Widget{fixedWidget{"A"}, fixedWidget{"B"}}, Ratios: []float64{0.75, 0.25}, Gap: 1}
	out := h.Render(20, 2)
	line := strings.Split(out, "\n")[0]
	if idx := strings.Index(line, "B"); idx < 14 {
		t.Fatalf("expected B in the last quarter, got index %d in %q", idx, line)
	}
}

func TestVStackSpacing(t *testing.T) {
	v := VStack{Widgets: []Widget{fixedWidget{"top"}, fixedWidget{"bottom"}}, Spacing: 1}
	out := v.Render(20, 6)
	if !strings.Contains(out, "top") || !strings.Contains(out, "bottom") {
		t.Fatalf("expected both widgets in output")
	}
}

func TestRenderPopupOverlaysWithoutDroppingBase(t *testing.T) {
	rows := make([]string, 9)
	for i := range rows {
		rows[i] = "row-" + string(rune('0'+i)) + "................"
	}
	out := RenderPopup(strings.Join(rows, "\n"), "Popup", 20, 9)
	lines := strings.Split(out, "\n")
	if len(lines) != 9 {
		t.Fatalf("line count = %d, want 9", len(lines))
	}
	if !strings.Contains(out, "Popup") {
		t.Fatalf("expected popup content in output")
	}
	if !strings.Contains(lines[0], "row-0") || !strings.Contains(lines[8], "row-8") {
		t.Fatalf("expected base rows preserved around the card")
	}
}

func TestListScrollsToCursor(t *testing.T) {
	l := List{Title: "Events", Items: []string{"a", "b", "c", "d", "e"}, Cursor: 4}
	out := ansi.Strip(l.Render(20, 3))
	if !strings.Contains(out, "> e") {
		t.Fatalf("cursor row should be visible: %q", out)
	}
	if strings.Contains(out, "- a") {
		t.Fatalf("first row should have scrolled out: %q", out)
	}
}

func TestListEmptyState(t *testing.T) {
	out := List{Title: "News", Empty: "No news today."}.Render(30, 4)
	if !strings.Contains(out, "No news today.") {
		t.Fatalf("expected empty text, got %q", out)
	}
}

func TestTableAlignsColumns(t *testing.T) {
	tb := Table{Headers: []string{"Name", "Price"}, Rows: [][]string{{"Test Product", "$10.00"}, {"Mug", "$4.50"}}, Cursor: -1}
	lines := strings.Split(tb.Render(40, 5), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(lines))
	}
	if strings.Index(lines[1], "$10.00") != strings.Index(lines[2], "$4.50") {
		t.Fatalf("price column not aligned: %q / %q", lines[1], lines[2])
	}
}

func TestPaneRendersBody(t *testing.T) {
	out := Pane{Title: "Virtual Tours", Body: List{Items: []string{"Old Town"}, Cursor: -1}}.Render(30, 6)
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("pane should fill its cell, got %d lines", len(lines))
	}
	if !strings.Contains(out, "Virtual Tours") || !strings.Contains(out, "Old Town") {
		t.Fatalf("missing title or body: %q", out)
	}
}

func TestTextClips(t *testing.T) {
	out := Text("one\ntwo\nthree").Render(10, 2)
	if out != "one\ntwo" {
		t.Fatalf("got %q", out)
	}
}
