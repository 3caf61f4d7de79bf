package core

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/internal/store"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	keys := next.drainChanges()
	if len(keys) == 0 {
		return next, cmd
	}
	cmds := []tea.Cmd{cmd}
	for _, k := range keys {
		cmds = append(cmds, sliceChanged(k))
	}
	return next, tea.Batch(cmds...)
}

func sliceChanged(k store.Key) tea.Cmd {
	return func() tea.Msg { return SliceChangedMsg{Key: k} }
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case StatusMsg:
		m.status = msg.Text
		m.statusErr = msg.IsErr
		return m, nil
	case store.Event:
		if m.Dispatcher != nil {
			m.Dispatcher.Deliver(msg)
		}
		return m, nil
	case NavigateMsg:
		return m, m.Navigate(msg.Path)
	case SliceChangedMsg, spinner.TickMsg:
		return m, m.broadcast(msg)
	case PushScreenMsg:
		return m, m.PushScreen(msg.Screen)
	case PopScreenMsg:
		m.PopScreen()
		return m, nil
	case CommandExecuteMsg:
		return m, m.commands.Execute(msg.CommandID, &m)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			m.Shutdown()
			return m, tea.Quit
		}

		if m.screens.Top() != nil {
			return m, m.updateTopScreen(msg)
		}

		scope := m.ActiveScope()
		if m.keys.IsAction(msg, "quit", scope) {
			m.quitting = true
			m.Shutdown()
			return m, tea.Quit
		}
		if m.keys.IsAction(msg, "open-command-palette", scope) && m.OpenCommandModal != nil {
			return m, m.PushScreen(m.OpenCommandModal(&m, scope))
		}
		for i, t := range m.tabs {
			if m.keys.IsAction(msg, fmt.Sprintf("switch-tab-%d", i+1), scope) {
				return m, m.Navigate(m.tabPath(t))
			}
		}
		if len(m.tabs) > 0 {
			return m, m.tabs[m.activeTab].Update(&m, msg)
		}
		return m, nil
	}

	if m.screens.Top() != nil {
		return m, m.updateTopScreen(msg)
	}
	if len(m.tabs) > 0 {
		return m, m.tabs[m.activeTab].Update(&m, msg)
	}
	return m, nil
}

func (m *Model) tabPath(t Tab) string {
	if m.router != nil {
		if p := m.router.PathForTab(t.ID()); p != "" {
			return p
		}
	}
	return "/" + t.ID()
}

func (m *Model) updateTopScreen(msg tea.Msg) tea.Cmd {
	next, cmd, pop := m.screens.Top().Update(msg)
	if pop {
		m.PopScreen()
		if m.screens.Len() == 0 && len(m.tabs) > 0 {
			m.path = m.tabPath(m.tabs[m.activeTab])
		}
		return cmd
	}
	m.screens.ReplaceTop(next)
	return cmd
}

// broadcast delivers msg to the top screen and to the active tab. Slice
// changes and spinner ticks concern both while a screen is open.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if m.screens.Top() != nil {
		cmds = append(cmds, m.updateTopScreen(msg))
	}
	if len(m.tabs) > 0 {
		cmds = append(cmds, m.tabs[m.activeTab].Update(m, msg))
	}
	return tea.Batch(cmds...)
}

// Navigate resolves path and makes its tab and screen visible. Screens opened
// for the previous path are unmounted.
func (m *Model) Navigate(path string) tea.Cmd {
	if m.router == nil {
		return nil
	}
	authed := m.Authenticated != nil && m.Authenticated()
	match, err := m.router.Resolve(path, authed)
	if err != nil {
		m.SetError(err)
		return nil
	}
	idx := m.TabIndex(match.Route.Tab)
	if idx < 0 {
		m.SetError(fmt.Errorf("route %s names unknown tab %q", match.Route.Pattern, match.Route.Tab))
		return nil
	}
	m.clearScreens()
	cmds := []tea.Cmd{m.SwitchTab(idx)}
	m.path = match.Path
	if match.Route.Screen != nil {
		cmds = append(cmds, m.PushScreen(match.Route.Screen(m, match.Params)))
	}
	if match.Redirected {
		m.SetStatus("Redirected to " + match.Path)
	} else {
		m.SetStatus(m.tabs[idx].Title())
	}
	return tea.Batch(slices.DeleteFunc(cmds, func(c tea.Cmd) bool { return c == nil })...)
}
