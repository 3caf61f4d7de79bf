package screens

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/internal/boundary"
	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/screen"
)

// EventScreen shows one community event. It mounts its own controller over the
// community slice, so opening it by path fetches the data it needs.
type EventScreen struct {
	keys *core.KeyRegistry
	id   int
	ctrl *screen.Controller[api.CommunityData]
}

func NewEventScreen(keys *core.KeyRegistry, d *dispatch.Dispatcher, rawID string, logger *slog.Logger, reporter boundary.Reporter) *EventScreen {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		id = -1
	}
	s := &EventScreen{keys: keys, id: id}
	s.ctrl = screen.New(d, screen.Config[api.CommunityData]{
		Name:     "community.event",
		Resource: api.CommunityResource(),
		Compose:  s.compose,
		Logger:   logger,
		Reporter: reporter,
	})
	return s
}

func (s *EventScreen) Title() string { return "Event" }
func (s *EventScreen) Scope() string { return "screen:event" }

func (s *EventScreen) Mount(m *core.Model) tea.Cmd { return s.ctrl.Mount() }
func (s *EventScreen) Unmount()                    { s.ctrl.Unmount() }

// Controller exposes the screen's controller.
func (s *EventScreen) Controller() *screen.Controller[api.CommunityData] { return s.ctrl }

func (s *EventScreen) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return s, s.ctrl.Update(msg), false
	case tea.KeyMsg:
		switch {
		case s.keys.IsAction(msg, "close", s.Scope()):
			return s, nil, true
		case s.keys.IsAction(msg, "refresh", s.Scope()):
			return s, s.ctrl.Refresh(), false
		}
	}
	return s, nil, false
}

func (s *EventScreen) compose(data api.CommunityData, width, height int) string {
	ev, ok := data.EventByID(s.id)
	if !ok {
		return "Event not found."
	}
	var b strings.Builder
	b.WriteString(formTitleStyle.Render(ev.Title) + "\n\n")
	if !ev.Date.IsZero() {
		fmt.Fprintf(&b, "When:  %s\n", ev.Date.Local().Format("Mon 2 Jan 2006 15:04"))
	}
	if ev.Location != "" {
		fmt.Fprintf(&b, "Where: %s\n", ev.Location)
	}
	if ev.Description != "" {
		b.WriteString("\n" + ev.Description + "\n")
	}
	b.WriteString("\n" + formHintStyle.Render("r refresh · esc back"))
	return b.String()
}

func (s *EventScreen) View(width, height int) string {
	return s.ctrl.View(width, height)
}
