package tabs

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/internal/auth"
	"github.com/jask/regionhub/widgets"
)

// ProfileTab shows the signed-in user. It only fetches while a session exists.
type ProfileTab struct {
	*controlled[api.Profile]
	tokens auth.Tokens
}

func NewProfileTab(deps Deps, tokens auth.Tokens) *ProfileTab {
	t := &ProfileTab{tokens: tokens}
	t.controlled = newControlled("profile", "Profile", deps, api.ProfileResource(), t.compose)
	return t
}

func (t *ProfileTab) Activate(m *core.Model) tea.Cmd {
	if !auth.IsAuthenticated(t.deps.Dispatcher.Store(), t.deps.now()) {
		return nil
	}
	return t.controlled.Activate(m)
}

func (t *ProfileTab) Update(m *core.Model, msg tea.Msg) tea.Cmd {
	if handled, cmd := t.update(m, msg); handled {
		return cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok && m.Keys().IsAction(key, "logout", t.Scope()) {
		return t.Logout(m)
	}
	return nil
}

// Logout clears the session and sends the user to the login screen.
func (t *ProfileTab) Logout(m *core.Model) tea.Cmd {
	if err := auth.Logout(context.Background(), t.deps.Dispatcher, t.tokens); err != nil {
		t.deps.logger().Error("logout failed", "err", err)
		return core.ErrorCmd(err)
	}
	t.ctrl.Unmount()
	return tea.Batch(core.StatusCmd("Logged out"), core.NavigateCmd(LoginPath))
}

func (t *ProfileTab) Build(m *core.Model) widgets.Widget {
	if !t.ctrl.Mounted() {
		return widgets.Box{Title: "Profile", Content: "You are not signed in.\nOpen " + LoginPath + " from the command palette to log in."}
	}
	return t.controlled.Build(m)
}

func (t *ProfileTab) compose(p api.Profile, width, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Email: %s\n", p.Email)
	if p.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", p.Name)
	}
	if !p.JoinedAt.IsZero() {
		fmt.Fprintf(&b, "Member since: %s\n", p.JoinedAt.Format("January 2006"))
	}
	if s, ok := auth.Session(t.deps.Dispatcher.Store()).Data(); ok && !s.ExpiresAt.IsZero() {
		fmt.Fprintf(&b, "Session expires: %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	b.WriteString("\nPress L to log out.")
	return t.pane("account", widgets.Pane{Title: "Account", Content: b.String()}).Render(width, height)
}
