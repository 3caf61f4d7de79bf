package tabs

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/internal/boundary"
	"github.com/jask/regionhub/internal/credentials"
	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/store"
	"github.com/jask/regionhub/widgets"
)

type harness struct {
	d        *dispatch.Dispatcher
	fetcher  dispatch.Fetcher
	deps     Deps
	model    core.Model
	payloads map[string]any
	errs     map[string]error
	paths    []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{payloads: map[string]any{}, errs: map[string]error{}}
	st := store.New()
	api.RegisterSlices(st)
	h.fetcher = dispatch.FetcherFunc(func(_ context.Context, res dispatch.Resource) (any, error) {
		h.paths = append(h.paths, res.Path)
		if err := h.errs[res.Path]; err != nil {
			return nil, err
		}
		return h.payloads[res.Path], nil
	})
	h.d = dispatch.New(st, h.fetcher)
	h.deps = Deps{Dispatcher: h.d, Now: func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }}
	h.model = core.NewModel(nil, core.NewKeyRegistry(core.DefaultKeyBindings()), core.NewCommandRegistry(nil), nil, h.d)
	return h
}

// run executes cmd and its batches, delivering store events and returning
// every other message.
func (h *harness) run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, h.run(c)...)
		}
		return out
	case store.Event:
		h.d.Deliver(msg)
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func navigations(msgs []tea.Msg) []string {
	var out []string
	for _, msg := range msgs {
		if nav, ok := msg.(core.NavigateMsg); ok {
			out = append(out, nav.Path)
		}
	}
	return out
}

func render(tab core.Tab, m *core.Model) string {
	return tab.Build(m).Render(120, 30)
}

func TestTourismTabRendersThreePanes(t *testing.T) {
	h := newHarness(t)
	h.payloads["/tourism"] = api.TourismData{
		VirtualTours: []api.Tour{{ID: 1, Name: "Old Harbour", Location: "Port Town"}},
		Bookings:     []api.Booking{{ID: 1, Name: "Lake Cabin", Kind: "lodging", Price: 80, Available: true}},
		Businesses:   []api.Business{{ID: 1, Name: "Mill Bakery", Category: "food", Phone: "555-0101"}},
	}
	tab := NewTourismTab(h.deps, NewMoney("en-US", "USD"))

	cmd := tab.Activate(&h.model)
	if !strings.Contains(render(tab, &h.model), "Loading") {
		t.Fatalf("expected loading branch before the fetch completes")
	}
	h.run(cmd)

	out := render(tab, &h.model)
	for _, want := range []string{"Tourism Promotion Platform", "Virtual Tours", "Booking Services", "Local Business Directory", "Old Harbour", "Lake Cabin", "Mill Bakery"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in tourism view:\n%s", want, out)
		}
	}
}

func TestTourismTabShowsFetchError(t *testing.T) {
	h := newHarness(t)
	h.errs["/tourism"] = store.E(store.KindTransport, api.NetworkError)
	tab := NewTourismTab(h.deps, NewMoney("en-US", "USD"))

	h.run(tab.Activate(&h.model))
	if out := render(tab, &h.model); !strings.Contains(out, "Error: Network Error") {
		t.Fatalf("expected error branch, got:\n%s", out)
	}

	delete(h.errs, "/tourism")
	h.payloads["/tourism"] = api.TourismData{}
	h.run(tab.Update(&h.model, runeKey('r')))
	if !tab.Controller().Slice().IsReady() {
		t.Fatalf("expected refresh to recover the slice")
	}
}

func TestDeactivatedTabIgnoresLateResult(t *testing.T) {
	h := newHarness(t)
	h.payloads["/community"] = api.CommunityData{News: []api.Article{{ID: 1, Title: "Bridge reopens"}}}
	tab := NewCommunityTab(h.deps)

	cmd := tab.Activate(&h.model)
	tab.Deactivate(&h.model)
	h.run(cmd)

	if !store.Select[api.CommunityData](h.d.Store(), api.KeyCommunity).IsIdle() {
		t.Fatalf("late result for a deactivated tab must not reach the store")
	}
}

func TestMarketplaceCartRespectsStock(t *testing.T) {
	h := newHarness(t)
	h.payloads["/products"] = api.Marketplace{Products: []api.Product{
		{ID: 1, Name: "Honey", Price: 10, Stock: 1},
		{ID: 2, Name: "Jam", Price: 2.5, Stock: 5},
	}}
	h.payloads["/cart"] = []api.CartItem{{ProductID: 2, Name: "Jam", Price: 2.5, Quantity: 1}}
	tab := NewMarketplaceTab(h.deps, NewMoney("en-US", "USD"), h.fetcher)

	h.run(tab.Activate(&h.model))
	data, ok := tab.Controller().Slice().Data()
	if !ok || len(data.Cart) != 1 {
		t.Fatalf("expected products joined with the cart, got %+v", data)
	}

	h.run(tab.Update(&h.model, runeKey('a')))
	msgs := h.run(tab.Update(&h.model, runeKey('a')))
	if len(msgs) != 1 {
		t.Fatalf("expected one status message, got %v", msgs)
	}
	if st, ok := msgs[0].(core.StatusMsg); !ok || !st.IsErr || !strings.Contains(st.Text, "only 1 Honey") {
		t.Fatalf("expected stock error, got %#v", msgs[0])
	}

	cart := tab.Cart(data)
	if len(cart) != 2 || itemCount(cart) != 2 {
		t.Fatalf("expected honey added next to jam, got %+v", cart)
	}
	out := render(tab, &h.model)
	for _, want := range []string{"E-commerce Marketplace", "Checkout Summary", "Items: 2", "12.50"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in marketplace view:\n%s", want, out)
		}
	}

	h.run(tab.Update(&h.model, runeKey('x')))
	if itemCount(tab.Cart(data)) != 1 {
		t.Fatalf("expected honey removed")
	}
}

func TestSkillsEnrollRequiresLogin(t *testing.T) {
	h := newHarness(t)
	h.payloads["/courses"] = []api.Course{{ID: 3, Title: "Spreadsheets 101"}}
	tab := NewSkillsTab(h.deps)
	h.run(tab.Activate(&h.model))

	msgs := h.run(tab.Update(&h.model, runeKey('e')))
	if got := navigations(msgs); len(got) != 1 || got[0] != LoginPath {
		t.Fatalf("expected redirect to login, got %v", got)
	}
	for _, p := range h.paths {
		if strings.HasSuffix(p, "/register") {
			t.Fatalf("enroll must not be sent while signed out")
		}
	}
}

func TestSkillsEnrollRefreshesCourses(t *testing.T) {
	h := newHarness(t)
	h.model.Authenticated = func() bool { return true }
	h.payloads["/courses"] = []api.Course{{ID: 3, Title: "Spreadsheets 101"}}
	h.payloads["/courses/3/register"] = api.Enrollment{CourseID: 3, Status: "registered"}
	tab := NewSkillsTab(h.deps)
	h.run(tab.Activate(&h.model))

	h.run(tab.Update(&h.model, runeKey('e')))
	if !store.Select[api.Enrollment](h.d.Store(), api.KeyEnrollment).IsReady() {
		t.Fatalf("expected enrollment slice ready")
	}

	h.payloads["/courses"] = []api.Course{{ID: 3, Title: "Spreadsheets 101", Enrolled: true}}
	h.run(tab.Update(&h.model, core.SliceChangedMsg{Key: api.KeyEnrollment}))
	courses, _ := tab.Controller().Slice().Data()
	if len(courses) != 1 || !courses[0].Enrolled {
		t.Fatalf("expected refreshed course list, got %+v", courses)
	}
	if out := render(tab, &h.model); !strings.Contains(out, "[registered]") {
		t.Fatalf("expected registered marker:\n%s", out)
	}
}

func TestSkillsEnrollAbandonedBySwitchingTabs(t *testing.T) {
	h := newHarness(t)
	h.model.Authenticated = func() bool { return true }
	h.payloads["/courses"] = []api.Course{{ID: 3, Title: "Spreadsheets 101"}}
	h.payloads["/courses/3/register"] = api.Enrollment{CourseID: 3, Status: "registered"}
	tab := NewSkillsTab(h.deps)
	h.run(tab.Activate(&h.model))

	pending := tab.Update(&h.model, runeKey('e'))
	if out := render(tab, &h.model); !strings.Contains(out, "Registering…") {
		t.Fatalf("expected registering indicator:\n%s", out)
	}
	tab.Deactivate(&h.model)
	h.run(tab.Activate(&h.model))
	h.run(pending)

	if !store.Select[api.Enrollment](h.d.Store(), api.KeyEnrollment).IsIdle() {
		t.Fatalf("abandoned enrollment must not stay loading")
	}
	if out := render(tab, &h.model); strings.Contains(out, "Registering…") {
		t.Fatalf("registering indicator outlived the tab:\n%s", out)
	}
}

func TestCommunityOpenEventNavigates(t *testing.T) {
	h := newHarness(t)
	h.payloads["/community"] = api.CommunityData{Events: []api.Event{
		{ID: 4, Title: "Harvest fair"},
		{ID: 7, Title: "Coding club"},
	}}
	tab := NewCommunityTab(h.deps)
	h.run(tab.Activate(&h.model))

	h.run(tab.Update(&h.model, runeKey('j')))
	msgs := h.run(tab.Update(&h.model, tea.KeyMsg{Type: tea.KeyEnter}))
	if got := navigations(msgs); len(got) != 1 || got[0] != "/community/events/7" {
		t.Fatalf("expected navigation to event 7, got %v", got)
	}
}

type memTokens struct{ token string }

func (m *memTokens) Save(_ context.Context, token string) error { m.token = token; return nil }
func (m *memTokens) Clear(context.Context) error                { m.token = ""; return nil }
func (m *memTokens) Token(context.Context) (string, error) {
	if m.token == "" {
		return "", credentials.ErrNoToken
	}
	return m.token, nil
}

func TestProfileTabNeedsSession(t *testing.T) {
	h := newHarness(t)
	h.payloads["/profile"] = api.Profile{Email: "ana@example.org", Name: "Ana"}
	tokens := &memTokens{}
	tab := NewProfileTab(h.deps, tokens)

	if cmd := tab.Activate(&h.model); cmd != nil {
		t.Fatalf("signed-out profile must not fetch")
	}
	if out := render(tab, &h.model); !strings.Contains(out, "not signed in") {
		t.Fatalf("expected signed-out notice:\n%s", out)
	}

	tokens.token = "opaque"
	h.d.Seed(api.KeySession, api.Session{Token: "opaque", Email: "ana@example.org"})
	h.run(tab.Activate(&h.model))
	if out := render(tab, &h.model); !strings.Contains(out, "Email: ana@example.org") {
		t.Fatalf("expected profile:\n%s", out)
	}

	msgs := h.run(tab.Update(&h.model, runeKey('L')))
	if got := navigations(msgs); len(got) != 1 || got[0] != LoginPath {
		t.Fatalf("expected logout to open login, got %v", got)
	}
	if tokens.token != "" || !store.Select[api.Session](h.d.Store(), api.KeySession).IsIdle() {
		t.Fatalf("expected token cleared and session reset")
	}
	if tab.Controller().Mounted() {
		t.Fatalf("expected profile unmounted after logout")
	}
}

func TestPaneFaultStaysInsideItsPane(t *testing.T) {
	h := newHarness(t)
	tab := NewTourismTab(h.deps, NewMoney("en-US", "USD"))

	broken := tab.pane("tours", widgets.Func(func(int, int) string {
		var byID map[int]string
		byID[1] = "boom"
		return "unreachable"
	}))
	sibling := tab.pane("bookings", widgets.Text("Lake Cabin"))

	if got := broken.Render(20, 3); got != boundary.Fallback {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := sibling.Render(20, 3); got != "Lake Cabin" {
		t.Fatalf("sibling pane must keep rendering, got %q", got)
	}
	rec, ok := tab.PaneFault("tours")
	if !ok || !rec.HasFailed {
		t.Fatalf("expected tours pane fault recorded")
	}
	if rec, _ := tab.PaneFault("bookings"); rec.HasFailed {
		t.Fatalf("bookings pane must not be marked failed")
	}

	h.run(tab.Activate(&h.model))
	if _, ok := tab.PaneFault("tours"); ok {
		t.Fatalf("remount must start with fresh pane boundaries")
	}
}

func TestMoneyFallsBackOnBadInput(t *testing.T) {
	if got := NewMoney("en-US", "USD").Format(1234.5); !strings.Contains(got, "1,234.50") {
		t.Fatalf("unexpected format %q", got)
	}
	if got := NewMoney("??", "???").Format(3); !strings.Contains(got, "3.00") {
		t.Fatalf("unexpected fallback format %q", got)
	}
	if got := (Money{}).Format(1); !strings.Contains(got, "1.00") {
		t.Fatalf("zero Money should format, got %q", got)
	}
}

func TestTabsReportErrorsAsStatus(t *testing.T) {
	h := newHarness(t)
	h.model.Authenticated = func() bool { return true }
	h.payloads["/courses"] = []api.Course{{ID: 3, Title: "Spreadsheets 101"}}
	h.errs["/courses/3/register"] = store.E(store.KindServer, "Course is full")
	tab := NewSkillsTab(h.deps)
	h.run(tab.Activate(&h.model))
	h.run(tab.Update(&h.model, runeKey('e')))

	msgs := h.run(tab.Update(&h.model, core.SliceChangedMsg{Key: api.KeyEnrollment}))
	if len(msgs) != 1 {
		t.Fatalf("expected one status message, got %v", msgs)
	}
	st, ok := msgs[0].(core.StatusMsg)
	if !ok || !st.IsErr || st.Text != "Course is full" {
		t.Fatalf("expected enrollment error status, got %#v", msgs[0])
	}
	if out := render(tab, &h.model); !strings.Contains(out, "Error: Course is full") {
		t.Fatalf("expected inline enrollment error:\n%s", out)
	}
}
