package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/dispatch"
)

var (
	formTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	formLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	formErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	formBusyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	formHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

type field struct {
	label string
	input textinput.Model
}

// form is the shared state of the auth screens: focusable inputs, the inline
// error and the lease their submissions are dispatched under.
type form struct {
	scope     string
	keys      *core.KeyRegistry
	d         *dispatch.Dispatcher
	fields    []field
	focus     int
	err       string
	submitted bool
	lease     *dispatch.Lease
}

func newForm(scope string, keys *core.KeyRegistry, d *dispatch.Dispatcher, labels ...string) form {
	f := form{scope: scope, keys: keys, d: d}
	for _, label := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 128
		if strings.Contains(strings.ToLower(label), "password") {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.fields = append(f.fields, field{label: label, input: in})
	}
	f.fields[0].input.Focus()
	return f
}

func (f *form) value(i int) string { return f.fields[i].input.Value() }

func (f *form) setValue(i int, v string) { f.fields[i].input.SetValue(v) }

func (f *form) mount(owner string) tea.Cmd {
	f.lease = f.d.Acquire(owner)
	f.submitted = false
	return textinput.Blink
}

func (f *form) unmount() {
	if f.lease != nil {
		f.lease.Release()
	}
}

func (f *form) move(delta int) {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// handleNav consumes field navigation keys.
func (f *form) handleNav(msg tea.KeyMsg) bool {
	switch {
	case f.keys.IsAction(msg, "next-field", f.scope):
		f.move(1)
	case f.keys.IsAction(msg, "prev-field", f.scope):
		f.move(-1)
	default:
		return false
	}
	return true
}

func (f *form) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) view(title, busy string, width int) string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render(title) + "\n\n")
	for i, fd := range f.fields {
		fd.input.Width = max(10, width-len(fd.label)-4)
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		b.WriteString(marker + formLabelStyle.Render(fd.label+": ") + fd.input.View() + "\n")
	}
	switch {
	case f.err != "":
		b.WriteString("\n" + formErrStyle.Render(f.err) + "\n")
	case busy != "":
		b.WriteString("\n" + formBusyStyle.Render(busy) + "\n")
	}
	b.WriteString("\n" + formHintStyle.Render("tab next field · enter submit · ctrl+r switch form · esc close"))
	return b.String()
}
