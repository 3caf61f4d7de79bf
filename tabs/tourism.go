package tabs

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/widgets"
)

type TourismTab struct {
	*controlled[api.TourismData]
	money Money
}

func NewTourismTab(deps Deps, money Money) *TourismTab {
	t := &TourismTab{money: money}
	t.controlled = newControlled("tourism", "Tourism Promotion Platform", deps, api.TourismResource(), t.compose)
	return t
}

func (t *TourismTab) Update(m *core.Model, msg tea.Msg) tea.Cmd {
	_, cmd := t.update(m, msg)
	return cmd
}

func (t *TourismTab) compose(data api.TourismData, width, height int) string {
	tours := make([]string, 0, len(data.VirtualTours))
	for _, tour := range data.VirtualTours {
		tours = append(tours, fmt.Sprintf("%s  (%s)", tour.Name, tour.Location))
	}
	bookings := make([][]string, 0, len(data.Bookings))
	for _, b := range data.Bookings {
		avail := "yes"
		if !b.Available {
			avail = "no"
		}
		bookings = append(bookings, []string{b.Name, b.Kind, t.money.Format(b.Price), avail})
	}
	businesses := make([][]string, 0, len(data.Businesses))
	for _, b := range data.Businesses {
		businesses = append(businesses, []string{b.Name, b.Category, b.Address, b.Phone})
	}

	top := widgets.HStack{
		Widgets: []widgets.Widget{
			t.pane("tours", widgets.Pane{
				Title: "Virtual Tours",
				Body:  widgets.List{Items: tours, Cursor: -1, Empty: "No virtual tours yet."},
			}),
			t.pane("bookings", widgets.Pane{
				Title: "Booking Services",
				Body:  widgets.Table{Headers: []string{"Service", "Type", "Price", "Available"}, Rows: bookings, Cursor: -1},
			}),
		},
		Ratios: []float64{0.45, 0.55},
		Gap:    1,
	}
	directory := t.pane("businesses", widgets.Pane{
		Title: "Local Business Directory",
		Body:  widgets.Table{Headers: []string{"Business", "Category", "Address", "Phone"}, Rows: businesses, Cursor: -1},
	})
	return widgets.VStack{Widgets: []widgets.Widget{top, directory}, Ratios: []float64{0.5, 0.5}}.Render(width, height)
}
