package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)

// List renders bullet rows. Cursor marks the selected row; -1 means none.
// Rows scroll so the cursor stays visible.
type List struct {
	Title  string
	Items  []string
	Cursor int
	Empty  string
}

func (l List) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := make([]string, 0, len(l.Items)+1)
	if l.Title != "" {
		rows = append(rows, truncate(l.Title, width))
	}
	room := height - len(rows)
	if len(l.Items) == 0 {
		empty := l.Empty
		if empty == "" {
			empty = "Nothing here yet."
		}
		return strings.Join(append(rows, truncate(empty, width)), "\n")
	}
	start := 0
	if l.Cursor >= room && room > 0 {
		start = l.Cursor - room + 1
	}
	for i := start; i < len(l.Items) && len(rows) < height; i++ {
		if i == l.Cursor {
			rows = append(rows, cursorStyle.Render(truncate("> "+l.Items[i], width)))
			continue
		}
		rows = append(rows, truncate("- "+l.Items[i], width))
	}
	return strings.Join(rows, "\n")
}
