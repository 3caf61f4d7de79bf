package widgets

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Table renders aligned columns; Cursor highlights a row (-1 for none).
type Table struct {
	Headers []string
	Rows    [][]string
	Cursor  int
}

func (t Table) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(t.Headers) == 0 {
		return "No data"
	}
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = ansi.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], ansi.StringWidth(row[i]))
		}
	}
	format := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = padRight(cell, widths[i])
		}
		return truncate(strings.TrimRight(strings.Join(parts, "  "), " "), width)
	}
	lines := []string{format(t.Headers)}
	room := height - 1
	start := 0
	if t.Cursor >= room && room > 0 {
		start = t.Cursor - room + 1
	}
	for i := start; i < len(t.Rows) && len(lines) < height; i++ {
		line := format(t.Rows[i])
		if i == t.Cursor {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
