package tabs

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/widgets"
)

// EventPath is the route of one community event.
func EventPath(id int) string { return fmt.Sprintf("/community/events/%d", id) }

type CommunityTab struct {
	*controlled[api.CommunityData]
	cursor int
}

func NewCommunityTab(deps Deps) *CommunityTab {
	t := &CommunityTab{}
	t.controlled = newControlled("community", "Community Network and Services", deps, api.CommunityResource(), t.compose)
	return t
}

func (t *CommunityTab) Update(m *core.Model, msg tea.Msg) tea.Cmd {
	if handled, cmd := t.update(m, msg); handled {
		return cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	data, ready := t.ctrl.Slice().Data()
	if !ready {
		return nil
	}
	keys := m.Keys()
	switch {
	case keys.IsAction(key, "cursor-down", t.Scope()):
		t.cursor = clamp(t.cursor+1, 0, len(data.Events)-1)
	case keys.IsAction(key, "cursor-up", t.Scope()):
		t.cursor = clamp(t.cursor-1, 0, len(data.Events)-1)
	case keys.IsAction(key, "open-event", t.Scope()):
		if len(data.Events) == 0 {
			return nil
		}
		return core.NavigateCmd(EventPath(data.Events[clamp(t.cursor, 0, len(data.Events)-1)].ID))
	}
	return nil
}

func (t *CommunityTab) compose(data api.CommunityData, width, height int) string {
	news := make([]string, 0, len(data.News))
	for _, a := range data.News {
		line := a.Title
		if !a.PublishedAt.IsZero() {
			line = a.PublishedAt.Format("2006-01-02") + "  " + line
		}
		news = append(news, line)
	}
	events := make([]string, 0, len(data.Events))
	for _, ev := range data.Events {
		events = append(events, fmt.Sprintf("%s  %s @ %s", ev.Date.Format("Jan 2"), ev.Title, ev.Location))
	}
	return widgets.HStack{
		Widgets: []widgets.Widget{
			t.pane("news", widgets.Pane{
				Title: "Local News",
				Body:  widgets.List{Items: news, Cursor: -1, Empty: "No news today."},
			}),
			t.pane("events", widgets.Pane{
				Title:    "Community Events",
				Selected: true,
				Body:     widgets.List{Items: events, Cursor: clamp(t.cursor, 0, len(events)-1), Empty: "No upcoming events."},
			}),
		},
		Ratios: []float64{0.5, 0.5},
		Gap:    1,
	}.Render(width, height)
}
