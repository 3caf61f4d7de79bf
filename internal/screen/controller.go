// Package screen implements the per-domain screen controller: fetch once per
// mount, then render the loading, error or ready branch of one slice inside a
// fault boundary.
package screen

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/internal/boundary"
	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/store"
)

// Phase is the controller's position in its mount lifecycle.
type Phase int

const (
	PhaseUnmounted Phase = iota
	PhaseIdle
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseUnmounted:
		return "unmounted"
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ComposeFunc renders the ready branch from the slice payload.
type ComposeFunc[T any] func(data T, width, height int) string

// Config describes one controller.
type Config[T any] struct {
	Name     string
	Resource dispatch.Resource
	Compose  ComposeFunc[T]
	Logger   *slog.Logger
	Reporter boundary.Reporter
}

// Controller binds one slice to a render function.
type Controller[T any] struct {
	cfg        Config[T]
	dispatcher *dispatch.Dispatcher
	lease      *dispatch.Lease
	guard      *boundary.Boundary
	spinner    spinner.Model
	mounts     int
	dispatches int
}

func New[T any](d *dispatch.Dispatcher, cfg Config[T]) *Controller[T] {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Name == "" {
		cfg.Name = string(cfg.Resource.Key)
	}
	c := &Controller[T]{
		cfg:        cfg,
		dispatcher: d,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
	c.guard = c.newBoundary()
	return c
}

func (c *Controller[T]) newBoundary() *boundary.Boundary {
	return boundary.New(c.cfg.Name, boundary.WithLogger(c.cfg.Logger), boundary.WithReporter(c.cfg.Reporter))
}

func (c *Controller[T]) Name() string           { return c.cfg.Name }
func (c *Controller[T]) Key() store.Key         { return c.cfg.Resource.Key }
func (c *Controller[T]) Mounts() int            { return c.mounts }
func (c *Controller[T]) Dispatches() int        { return c.dispatches }
func (c *Controller[T]) Mounted() bool          { return c.lease.Live() }
func (c *Controller[T]) Lease() *dispatch.Lease { return c.lease }

// Boundary returns the fault boundary of the current mount.
func (c *Controller[T]) Boundary() *boundary.Boundary { return c.guard }

// Mount activates the controller: it acquires a fresh lease and boundary and
// issues exactly one fetch. Mounting an already mounted controller remounts it.
func (c *Controller[T]) Mount() tea.Cmd {
	if c.Mounted() {
		c.Unmount()
	}
	c.lease = c.dispatcher.Acquire(c.cfg.Name)
	c.guard = c.newBoundary()
	c.mounts++
	c.cfg.Logger.Debug("controller mounted", "screen", c.cfg.Name, "mount", c.mounts)
	return tea.Batch(c.fetch(), c.spinner.Tick)
}

// Unmount releases the mount's lease so late terminal events are discarded.
// It is safe to call on an unmounted controller.
func (c *Controller[T]) Unmount() {
	if !c.Mounted() {
		return
	}
	c.lease.Release()
	c.cfg.Logger.Debug("controller unmounted", "screen", c.cfg.Name)
}

// Refresh re-issues the fetch under the current lease. It does nothing when
// the controller is not mounted.
func (c *Controller[T]) Refresh() tea.Cmd {
	if !c.Mounted() {
		return nil
	}
	return tea.Batch(c.fetch(), c.spinner.Tick)
}

func (c *Controller[T]) fetch() tea.Cmd {
	c.dispatches++
	return c.dispatcher.Fetch(c.lease, c.cfg.Resource)
}

// Slice reads the controller's slice through the selector.
func (c *Controller[T]) Slice() store.Slice[T] {
	return store.Select[T](c.dispatcher.Store(), c.cfg.Resource.Key)
}

func (c *Controller[T]) Phase() Phase {
	if !c.Mounted() {
		return PhaseUnmounted
	}
	switch c.Slice().Status() {
	case store.StatusLoading:
		return PhaseLoading
	case store.StatusReady:
		return PhaseReady
	case store.StatusError:
		return PhaseError
	default:
		return PhaseIdle
	}
}

// Update advances the loading indicator while the slice is loading.
func (c *Controller[T]) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return nil
	}
	switch c.Phase() {
	case PhaseIdle, PhaseLoading:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return cmd
	default:
		return nil
	}
}

// View renders the current branch inside the mount's fault boundary.
func (c *Controller[T]) View(width, height int) string {
	if !c.Mounted() {
		return ""
	}
	return c.guard.CatchFault(func() string { return c.render(width, height) })
}

func (c *Controller[T]) render(width, height int) string {
	s := c.Slice()
	switch s.Status() {
	case store.StatusIdle, store.StatusLoading:
		return LoadingView(c.spinner.View())
	case store.StatusError:
		return ErrorView(s.Err())
	}
	data, _ := s.Data()
	if c.cfg.Compose == nil {
		return ""
	}
	return c.cfg.Compose(data, width, height)
}
