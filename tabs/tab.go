package tabs

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/boundary"
	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/screen"
	"github.com/jask/regionhub/widgets"
)

// Deps is what every tab needs from the program.
type Deps struct {
	Dispatcher *dispatch.Dispatcher
	Logger     *slog.Logger
	Reporter   boundary.Reporter
	Now        func() time.Time
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// controlled is the part shared by every domain tab: one controller mounted
// while the tab is visible, plus a fault boundary per pane renewed on mount.
type controlled[T any] struct {
	id    string
	title string
	deps  Deps
	ctrl  *screen.Controller[T]
	panes map[string]*boundary.Boundary
}

func newControlled[T any](id, title string, deps Deps, res dispatch.Resource, compose screen.ComposeFunc[T]) *controlled[T] {
	t := &controlled[T]{id: id, title: title, deps: deps, panes: map[string]*boundary.Boundary{}}
	t.ctrl = screen.New(deps.Dispatcher, screen.Config[T]{
		Name:     id,
		Resource: res,
		Compose:  compose,
		Logger:   deps.logger(),
		Reporter: deps.Reporter,
	})
	return t
}

func (t *controlled[T]) ID() string    { return t.id }
func (t *controlled[T]) Title() string { return t.title }
func (t *controlled[T]) Scope() string { return "tab:" + t.id }

// Controller exposes the tab's controller.
func (t *controlled[T]) Controller() *screen.Controller[T] { return t.ctrl }

func (t *controlled[T]) Activate(m *core.Model) tea.Cmd {
	clear(t.panes)
	return t.ctrl.Mount()
}

func (t *controlled[T]) Deactivate(m *core.Model) { t.ctrl.Unmount() }

// update handles what every tab does the same way: spinner ticks and refresh.
func (t *controlled[T]) update(m *core.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return true, t.ctrl.Update(msg)
	case tea.KeyMsg:
		if m.Keys().IsAction(msg, "refresh", t.Scope()) {
			return true, t.ctrl.Refresh()
		}
	}
	return false, nil
}

func (t *controlled[T]) Build(m *core.Model) widgets.Widget {
	return widgets.Pane{Title: t.title, Selected: true, Body: widgets.Func(t.ctrl.View)}
}

// pane wraps w in the boundary named name, so a fault in one pane leaves its
// siblings rendering.
func (t *controlled[T]) pane(name string, w widgets.Widget) widgets.Widget {
	b, ok := t.panes[name]
	if !ok {
		b = boundary.New(t.id+"."+name, boundary.WithLogger(t.deps.logger()), boundary.WithReporter(t.deps.Reporter))
		t.panes[name] = b
	}
	return widgets.Func(func(width, height int) string {
		return b.CatchFault(func() string { return w.Render(width, height) })
	})
}

// PaneFault returns the fault record of one pane, for tests and diagnostics.
func (t *controlled[T]) PaneFault(name string) (boundary.Record, bool) {
	b, ok := t.panes[name]
	if !ok {
		return boundary.Record{}, false
	}
	return b.Record(), true
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
