package screens

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/internal/auth"
	"github.com/jask/regionhub/internal/dispatch"
	"github.com/jask/regionhub/internal/store"
)

type RegisterScreen struct {
	form
}

func NewRegisterScreen(keys *core.KeyRegistry, d *dispatch.Dispatcher) *RegisterScreen {
	return &RegisterScreen{form: newForm("screen:register", keys, d, "Email", "Password", "Confirm password")}
}

func (s *RegisterScreen) Title() string { return "Register" }
func (s *RegisterScreen) Scope() string { return s.scope }

func (s *RegisterScreen) Mount(m *core.Model) tea.Cmd { return s.mount("register") }
func (s *RegisterScreen) Unmount()                    { s.unmount() }

func (s *RegisterScreen) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case core.SliceChangedMsg:
		if msg.Key == api.KeyRegister {
			return s, s.resultChanged(), false
		}
		return s, nil, false
	case tea.KeyMsg:
		switch {
		case s.keys.IsAction(msg, "close", s.scope):
			return s, nil, true
		case s.handleNav(msg):
			return s, nil, false
		case s.keys.IsAction(msg, "switch-form", s.scope):
			return s, core.NavigateCmd(LoginPath), false
		case s.keys.IsAction(msg, "submit", s.scope):
			return s, s.submit(), false
		}
	}
	return s, s.updateInput(msg), false
}

// submit validates before anything is dispatched; mismatched passwords never
// reach the server.
func (s *RegisterScreen) submit() tea.Cmd {
	if s.submitted {
		return nil
	}
	cmd, err := auth.SubmitRegistration(s.d, s.lease, auth.RegistrationForm{
		Email:           s.value(0),
		Password:        s.value(1),
		ConfirmPassword: s.value(2),
	})
	if err != nil {
		s.err = err.Error()
		return nil
	}
	s.err = ""
	s.submitted = true
	return cmd
}

func (s *RegisterScreen) resultChanged() tea.Cmd {
	if !s.submitted {
		return nil
	}
	result := store.Select[api.RegisterResult](s.d.Store(), api.KeyRegister)
	switch {
	case result.IsReady():
		s.submitted = false
		return tea.Batch(core.NavigateCmd(LoginPath), core.StatusCmd("Registration successful. Please log in."))
	case result.IsError():
		s.submitted = false
		s.err = result.Err().Error()
	}
	return nil
}

func (s *RegisterScreen) View(width, height int) string {
	busy := ""
	if s.submitted {
		busy = "Creating your account…"
	}
	return s.view("Create an account", busy, width)
}
