package core

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSearchFiltersByScopeAndDisabled(t *testing.T) {
	reg := NewCommandRegistry([]Command{
		{ID: "a", Name: "Alpha", Scopes: []string{"tab:a"}},
		{ID: "b", Name: "Beta", Scopes: []string{"tab:b"}, Disabled: func(m *Model) (bool, string) { return true, "blocked" }},
	})
	m := NewModel(nil, NewKeyRegistry(nil), reg, nil, nil)
	resA := reg.Search("", "tab:a", &m)
	if len(resA) != 1 || resA[0].CommandID != "a" {
		t.Fatalf("expected only command a in tab:a, got %+v", resA)
	}
	resB := reg.Search("", "tab:b", &m)
	if len(resB) != 1 || !resB[0].Disabled || resB[0].Reason != "blocked" {
		t.Fatalf("expected disabled command in tab:b, got %+v", resB)
	}
}

func TestSearchWildcardScopes(t *testing.T) {
	reg := NewCommandRegistry([]Command{
		{ID: "refresh", Name: "Refresh", Scopes: []string{"tab:*"}},
		{ID: "go-skills", Name: "Go to digital skills", Scopes: []string{"*"}},
	})
	m := NewModel(nil, NewKeyRegistry(nil), reg, nil, nil)
	if got := reg.Search("", "tab:marketplace", &m); len(got) != 2 {
		t.Fatalf("expected both commands on a tab, got %+v", got)
	}
	got := reg.Search("", "screen:event", &m)
	if len(got) != 1 || got[0].CommandID != "go-skills" {
		t.Fatalf("expected only the global command on a screen, got %+v", got)
	}
}

func TestSearchMatchesEveryWordAndRanksPrefix(t *testing.T) {
	reg := NewCommandRegistry([]Command{
		{ID: "go-profile", Name: "Go to profile", Description: "Open /auth/profile"},
		{ID: "logout", Name: "Log out", Description: "Forget the stored session"},
		{ID: "login", Name: "Log in", Description: "Open /auth/login"},
	})
	m := NewModel(nil, NewKeyRegistry(nil), reg, nil, nil)
	got := reg.Search("log out", "tab:tourism", &m)
	if len(got) != 1 || got[0].CommandID != "logout" {
		t.Fatalf("expected only logout, got %+v", got)
	}
	got = reg.Search("log", "tab:tourism", &m)
	if len(got) != 2 || got[0].CommandID != "login" || got[1].CommandID != "logout" {
		t.Fatalf("expected prefix matches by name, got %+v", got)
	}
}

func TestRequiresAuthFollowsSession(t *testing.T) {
	signedIn := false
	ran := false
	reg := NewCommandRegistry([]Command{{
		ID:           "logout",
		Name:         "Log out",
		RequiresAuth: true,
		Execute:      func(m *Model) tea.Cmd { ran = true; return nil },
	}})
	m := NewModel(nil, NewKeyRegistry(nil), reg, nil, nil)
	m.Authenticated = func() bool { return signedIn }

	res := reg.Search("", "tab:profile", &m)
	if len(res) != 1 || !res[0].Disabled || res[0].Reason != SignedOutReason {
		t.Fatalf("expected signed-out reason, got %+v", res)
	}
	if msg, _ := reg.Execute("logout", &m)().(StatusMsg); !msg.IsErr || ran {
		t.Fatalf("expected error status without running, got %#v", msg)
	}

	signedIn = true
	if res := reg.Search("", "tab:profile", &m); res[0].Disabled {
		t.Fatalf("expected logout enabled once signed in")
	}
	reg.Execute("logout", &m)
	if !ran {
		t.Fatalf("expected logout to run")
	}
}

func TestExecuteDisabledReportsReason(t *testing.T) {
	ran := false
	reg := NewCommandRegistry([]Command{{
		ID:       "refresh",
		Name:     "Refresh",
		Execute:  func(m *Model) tea.Cmd { ran = true; return nil },
		Disabled: func(m *Model) (bool, string) { return true, "Nothing to refresh" },
	}})
	m := NewModel(nil, NewKeyRegistry(nil), reg, nil, nil)
	cmd := reg.Execute("refresh", &m)
	if ran {
		t.Fatalf("disabled command must not run")
	}
	msg, ok := cmd().(StatusMsg)
	if !ok || msg.Text != "Nothing to refresh" || !msg.IsErr {
		t.Fatalf("expected reason as error status, got %#v", msg)
	}
	if msg, _ := reg.Execute("missing", &m)().(StatusMsg); msg.Text != "Unknown command: missing" || !msg.IsErr {
		t.Fatalf("unexpected status %#v", msg)
	}
}
