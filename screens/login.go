package screens

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/internal/auth"
	"github.com/jask/regionhub/internal/dispatch"
)

const (
	HomePath     = "/dashboard"
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"
)

// LoginScreen signs the user in. A successful login persists the token and
// opens the home page.
type LoginScreen struct {
	form
	tokens auth.Tokens
}

func NewLoginScreen(keys *core.KeyRegistry, d *dispatch.Dispatcher, tokens auth.Tokens) *LoginScreen {
	return &LoginScreen{form: newForm("screen:login", keys, d, "Email", "Password"), tokens: tokens}
}

func (s *LoginScreen) Title() string { return "Log in" }
func (s *LoginScreen) Scope() string { return s.scope }

func (s *LoginScreen) Mount(m *core.Model) tea.Cmd { return s.mount("login") }
func (s *LoginScreen) Unmount()                    { s.unmount() }

func (s *LoginScreen) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case core.SliceChangedMsg:
		if msg.Key == api.KeySession {
			return s, s.sessionChanged(), false
		}
		return s, nil, false
	case tea.KeyMsg:
		switch {
		case s.keys.IsAction(msg, "close", s.scope):
			return s, nil, true
		case s.handleNav(msg):
			return s, nil, false
		case s.keys.IsAction(msg, "switch-form", s.scope):
			return s, core.NavigateCmd(RegisterPath), false
		case s.keys.IsAction(msg, "submit", s.scope):
			return s, s.submit(), false
		}
	}
	return s, s.updateInput(msg), false
}

func (s *LoginScreen) submit() tea.Cmd {
	if s.submitted {
		return nil
	}
	cmd, err := auth.SubmitLogin(s.d, s.lease, auth.LoginForm{Email: s.value(0), Password: s.value(1)}, s.tokens)
	if err != nil {
		s.err = err.Error()
		return nil
	}
	s.err = ""
	s.submitted = true
	return cmd
}

func (s *LoginScreen) sessionChanged() tea.Cmd {
	if !s.submitted {
		return nil
	}
	session := auth.Session(s.d.Store())
	switch {
	case session.IsReady():
		s.submitted = false
		data, _ := session.Data()
		return tea.Batch(core.NavigateCmd(HomePath), core.StatusCmd("Signed in as "+data.Email))
	case session.IsError():
		s.submitted = false
		s.err = session.Err().Error()
	}
	return nil
}

func (s *LoginScreen) View(width, height int) string {
	busy := ""
	if s.submitted {
		busy = "Signing in…"
	}
	return s.view("Log in", busy, width)
}
