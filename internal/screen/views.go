package screen

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/regionhub/internal/store"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

// LoadingView is the loading branch.
func LoadingView(indicator string) string {
	return indicator + " " + loadingStyle.Render("Loading…")
}

// ErrorView is the error branch; it shows the cause's message.
func ErrorView(cause *store.FetchError) string {
	msg := "unknown error"
	if cause != nil && strings.TrimSpace(cause.Message) != "" {
		msg = cause.Message
	}
	return errorStyle.Render("Error: "+msg) + "\n" + hintStyle.Render("press r to retry")
}
