package core

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/store"
	"github.com/jask/regionhub/widgets"
)

type Screen interface {
	Update(msg tea.Msg) (Screen, tea.Cmd, bool)
	View(width, height int) string
	Scope() string
	Title() string
}

type Tab interface {
	ID() string
	Title() string
	Scope() string
	Update(m *Model, msg tea.Msg) tea.Cmd
	Build(m *Model) widgets.Widget
}

// Activator is implemented by tabs that fetch on activation. Activate runs when
// the tab becomes visible; Deactivate when another tab replaces it or the
// program exits.
type Activator interface {
	Activate(m *Model) tea.Cmd
	Deactivate(m *Model)
}

// Mounter is implemented by screens with a lifecycle of their own. Unmount runs
// when the screen leaves the stack for any reason.
type Mounter interface {
	Mount(m *Model) tea.Cmd
	Unmount()
}

type Model struct {
	width     int
	height    int
	tabs      []Tab
	activeTab int
	activated bool
	screens   ScreenStack
	keys      *KeyRegistry
	commands  *CommandRegistry
	router    *Router
	path      string
	startPath string
	status    string
	statusErr bool
	quitting  bool

	Dispatcher *dispatch.Dispatcher
	// Authenticated reports whether the session slice holds a live session.
	Authenticated func() bool

	OpenCommandModal func(m *Model, scope string) Screen

	changed *[]store.Key
}

func NewModel(tabs []Tab, keys *KeyRegistry, commands *CommandRegistry, router *Router, d *dispatch.Dispatcher) Model {
	changed := &[]store.Key{}
	m := Model{
		tabs:          tabs,
		keys:          keys,
		commands:      commands,
		router:        router,
		Dispatcher:    d,
		Authenticated: func() bool { return false },
		status:        "Ready",
		activeTab:     0,
		width:         100,
		height:        32,
		changed:       changed,
	}
	if d != nil {
		d.Store().Subscribe(func(k store.Key) { *changed = append(*changed, k) })
	}
	return m
}

// SetStartPath sets the path navigated to by Init.
func (m *Model) SetStartPath(path string) { m.startPath = path }

func (m Model) Init() tea.Cmd {
	start := m.startPath
	if start == "" && m.router != nil {
		start = m.router.Fallback()
	}
	if start == "" {
		return nil
	}
	return NavigateCmd(start)
}

func (m *Model) SetStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) SetError(err error) {
	if err == nil {
		m.status = ""
		m.statusErr = false
		return
	}
	m.status = err.Error()
	m.statusErr = true
}

func (m Model) Status() (string, bool) { return m.status, m.statusErr }

func (m Model) ActiveScope() string {
	if top := m.screens.Top(); top != nil {
		return top.Scope()
	}
	if len(m.tabs) == 0 {
		return "app"
	}
	return m.tabs[m.activeTab].Scope()
}

// ActiveTab returns the visible tab, or nil when there are none.
func (m Model) ActiveTab() Tab {
	if len(m.tabs) == 0 {
		return nil
	}
	return m.tabs[m.activeTab]
}

// Path is the path of the last successful navigation.
func (m Model) Path() string { return m.path }

func (m Model) TopScreen() Screen { return m.screens.Top() }

func (m Model) ScreenDepth() int { return m.screens.Len() }

func (m Model) Size() (int, int) { return m.width, m.height }

func (m Model) Router() *Router { return m.router }

func (m *Model) Store() *store.Store {
	if m.Dispatcher == nil {
		return nil
	}
	return m.Dispatcher.Store()
}

// SwitchTab makes index the visible tab, deactivating the previous one and
// activating the new one.
func (m *Model) SwitchTab(index int) tea.Cmd {
	if index < 0 || index >= len(m.tabs) {
		return nil
	}
	if m.activated && index == m.activeTab {
		return nil
	}
	if m.activated {
		if a, ok := m.tabs[m.activeTab].(Activator); ok {
			a.Deactivate(m)
		}
	}
	m.activeTab = index
	m.activated = true
	if a, ok := m.tabs[index].(Activator); ok {
		return a.Activate(m)
	}
	return nil
}

// RefreshActive deactivates and reactivates the visible tab, which remounts it.
func (m *Model) RefreshActive() tea.Cmd {
	if !m.activated || len(m.tabs) == 0 {
		return nil
	}
	a, ok := m.tabs[m.activeTab].(Activator)
	if !ok {
		return nil
	}
	a.Deactivate(m)
	return a.Activate(m)
}

func (m *Model) PushScreen(s Screen) tea.Cmd {
	if s == nil {
		return nil
	}
	m.screens.Push(s)
	if mt, ok := s.(Mounter); ok {
		return mt.Mount(m)
	}
	return nil
}

func (m *Model) PopScreen() {
	if s := m.screens.Pop(); s != nil {
		if mt, ok := s.(Mounter); ok {
			mt.Unmount()
		}
	}
}

func (m *Model) clearScreens() {
	for m.screens.Len() > 0 {
		m.PopScreen()
	}
}

// Shutdown unmounts every screen and deactivates the visible tab.
func (m *Model) Shutdown() {
	m.clearScreens()
	if m.activated && len(m.tabs) > 0 {
		if a, ok := m.tabs[m.activeTab].(Activator); ok {
			a.Deactivate(m)
		}
	}
	m.activated = false
}

func (m *Model) Keys() *KeyRegistry { return m.keys }

func (m *Model) CommandRegistry() *CommandRegistry {
	return m.commands
}

func (m *Model) TabIndex(id string) int {
	for i, t := range m.tabs {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

func (m *Model) drainChanges() []store.Key {
	if m.changed == nil || len(*m.changed) == 0 {
		return nil
	}
	seen := map[store.Key]bool{}
	var keys []store.Key
	for _, k := range *m.changed {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	*m.changed = nil
	return keys
}
