package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
)

type CommandOption struct {
	ID       string
	Name     string
	Desc     string
	Disabled bool
	Reason   string
}

func (i CommandOption) Title() string {
	if i.Disabled && i.Reason != "" {
		return fmt.Sprintf("%s (%s)", i.Name, i.Reason)
	}
	return i.Name
}
func (i CommandOption) Description() string { return i.Desc }
func (i CommandOption) FilterValue() string { return i.Name + " " + i.Desc + " " + i.ID }

// CommandScreen is the palette: a query input over the command registry.
type CommandScreen struct {
	origin string
	keys   *core.KeyRegistry
	search func(query string) []CommandOption
	input  textinput.Model
	list   list.Model
}

func NewCommandScreen(origin string, keys *core.KeyRegistry, search func(query string) []CommandOption) *CommandScreen {
	inp := textinput.New()
	inp.Placeholder = "Go to, refresh, log out…"
	inp.Prompt = "> "
	inp.Focus()
	lst := list.New(nil, list.NewDefaultDelegate(), 64, 14)
	lst.SetShowStatusBar(false)
	lst.SetFilteringEnabled(false)
	lst.SetShowHelp(false)
	lst.SetShowTitle(false)
	s := &CommandScreen{origin: origin, keys: keys, search: search, input: inp, list: lst}
	s.refresh()
	return s
}

// CommandScreenFor builds the palette over m's command registry for the
// commands visible from scope.
func CommandScreenFor(m *core.Model, scope string) core.Screen {
	return NewCommandScreen(scope, m.Keys(), func(query string) []CommandOption {
		results := m.CommandRegistry().Search(query, scope, m)
		out := make([]CommandOption, 0, len(results))
		for _, r := range results {
			out = append(out, CommandOption{ID: r.CommandID, Name: r.Name, Desc: r.Desc, Disabled: r.Disabled, Reason: r.Reason})
		}
		return out
	})
}

func (s *CommandScreen) Title() string { return "Command Palette" }
func (s *CommandScreen) Scope() string { return "screen:command" }

func (s *CommandScreen) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch {
		case s.keys.IsAction(key, "close", s.Scope()):
			return s, nil, true
		case s.keys.IsAction(key, "select", s.Scope()):
			it, ok := s.list.SelectedItem().(CommandOption)
			if !ok {
				return s, nil, false
			}
			if it.Disabled {
				return s, core.StatusCmd(it.Reason), true
			}
			id := it.ID
			return s, func() tea.Msg { return core.CommandExecuteMsg{CommandID: id} }, true
		case s.keys.IsAction(key, "cursor-down", s.Scope()) && key.Type != tea.KeyRunes,
			s.keys.IsAction(key, "cursor-up", s.Scope()) && key.Type != tea.KeyRunes:
			var cmd tea.Cmd
			s.list, cmd = s.list.Update(msg)
			return s, cmd, false
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.refresh()
	return s, cmd, false
}

func (s *CommandScreen) refresh() {
	query := strings.TrimSpace(s.input.Value())
	items := s.search(query)
	ls := make([]list.Item, 0, len(items))
	for _, it := range items {
		ls = append(ls, it)
	}
	_ = s.list.SetItems(ls)
	if s.list.Index() >= len(ls) {
		s.list.Select(0)
	}
}

func (s *CommandScreen) View(width, height int) string {
	s.list.SetWidth(width)
	s.list.SetHeight(max(6, height-4))
	return "Command Palette (from " + s.origin + ")\n" + s.input.View() + "\n" + s.list.View()
}
