package app

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/auth"
	"github.com/jask/regionhub/internal/boundary"
	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/screens"
	"github.com/jask/regionhub/tabs"
)

// Options carries what main has built: the dispatcher over the store, the
// fetcher behind it and the persisted credentials.
type Options struct {
	Dispatcher *dispatch.Dispatcher
	Fetcher    dispatch.Fetcher
	Tokens     auth.Tokens
	Logger     *slog.Logger
	Reporter   boundary.Reporter
	Money      tabs.Money
	StartPath  string
	Now        func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Tabs builds the domain tabs in header order.
func Tabs(o Options) (all []core.Tab, profile *tabs.ProfileTab) {
	deps := tabs.Deps{Dispatcher: o.Dispatcher, Logger: o.Logger, Reporter: o.Reporter, Now: o.Now}
	profile = tabs.NewProfileTab(deps, o.Tokens)
	all = []core.Tab{
		tabs.NewTourismTab(deps, o.Money),
		tabs.NewMarketplaceTab(deps, o.Money, o.Fetcher),
		tabs.NewSkillsTab(deps),
		tabs.NewCommunityTab(deps),
		profile,
	}
	return all, profile
}

// Routes maps paths to tabs and screens. Unauthenticated visits to the
// profile land on the login screen.
func Routes(o Options) *core.Router {
	return core.NewRouter(screens.HomePath,
		core.Route{Pattern: screens.HomePath, Tab: "tourism"},
		core.Route{Pattern: "/tourism", RedirectTo: screens.HomePath},
		core.Route{Pattern: "/marketplace", Tab: "marketplace"},
		core.Route{Pattern: "/skills", Tab: "skills"},
		core.Route{Pattern: "/community", Tab: "community"},
		core.Route{Pattern: "/community/events/{id}", Tab: "community", Screen: func(m *core.Model, params map[string]string) core.Screen {
			return screens.NewEventScreen(m.Keys(), o.Dispatcher, params["id"], o.Logger, o.Reporter)
		}},
		core.Route{Pattern: "/auth/profile", Tab: "profile", RequiresAuth: true, AuthRedirect: screens.LoginPath},
		core.Route{Pattern: screens.LoginPath, Tab: "profile", Screen: func(m *core.Model, _ map[string]string) core.Screen {
			return screens.NewLoginScreen(m.Keys(), o.Dispatcher, o.Tokens)
		}},
		core.Route{Pattern: screens.RegisterPath, Tab: "profile", Screen: func(m *core.Model, _ map[string]string) core.Screen {
			return screens.NewRegisterScreen(m.Keys(), o.Dispatcher)
		}},
	)
}

// NewModel assembles the root model.
func NewModel(o Options) core.Model {
	all, profile := Tabs(o)
	keys := core.NewKeyRegistry(core.DefaultKeyBindings())
	commands := core.NewCommandRegistry(nil)
	m := core.NewModel(all, keys, commands, Routes(o), o.Dispatcher)
	m.SetStartPath(o.StartPath)
	m.Authenticated = func() bool { return auth.IsAuthenticated(o.Dispatcher.Store(), o.now()) }
	m.OpenCommandModal = screens.CommandScreenFor
	RegisterCommands(commands, profile)
	return m
}

func navigate(id, name, path string) core.Command {
	return core.Command{
		ID:          id,
		Name:        name,
		Description: "Open " + path,
		Scopes:      []string{"*"},
		Execute:     func(m *core.Model) tea.Cmd { return core.NavigateCmd(path) },
	}
}

func RegisterCommands(reg *core.CommandRegistry, profile *tabs.ProfileTab) {
	reg.Register(navigate("go-tourism", "Go to tourism", screens.HomePath))
	reg.Register(navigate("go-marketplace", "Go to marketplace", "/marketplace"))
	reg.Register(navigate("go-skills", "Go to digital skills", "/skills"))
	reg.Register(navigate("go-community", "Go to community", "/community"))
	reg.Register(navigate("go-profile", "Go to profile", "/auth/profile"))
	reg.Register(navigate("login", "Log in", screens.LoginPath))
	reg.Register(navigate("register", "Register", screens.RegisterPath))
	reg.Register(core.Command{
		ID:          "refresh",
		Name:        "Refresh",
		Description: "Fetch the visible tab again",
		Scopes:      []string{"tab:*"},
		Execute: func(m *core.Model) tea.Cmd {
			return tea.Batch(m.RefreshActive(), core.StatusCmd("Refreshing"))
		},
	})
	reg.Register(core.Command{
		ID:           "logout",
		Name:         "Log out",
		Description:  "Forget the stored session",
		Scopes:       []string{"*"},
		RequiresAuth: true,
		Execute:      profile.Logout,
	})
}
