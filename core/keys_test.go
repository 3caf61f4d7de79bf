package core

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyRegistryScopeMatch(t *testing.T) {
	reg := NewKeyRegistry([]KeyBinding{
		{Keys: []string{"ctrl+k"}, Action: "palette", Scopes: []string{"tab:a"}},
		{Keys: []string{"q"}, Action: "quit", Scopes: []string{"*"}},
		{Keys: []string{"r"}, Action: "refresh", Scopes: []string{"tab:*"}},
	})
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlK}, "palette", "tab:a") {
		t.Fatalf("expected ctrl+k in tab:a")
	}
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlK}, "palette", "tab:b") {
		t.Fatalf("did not expect ctrl+k in tab:b")
	}
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, "quit", "tab:b") {
		t.Fatalf("expected q to match wildcard scope")
	}
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, "refresh", "tab:skills") {
		t.Fatalf("expected tab:* to match tab:skills")
	}
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, "refresh", "screen:login") {
		t.Fatalf("did not expect tab:* to match a screen scope")
	}
}

func TestKeyRegistryKeepsRuneCase(t *testing.T) {
	reg := NewKeyRegistry([]KeyBinding{{Keys: []string{"L"}, Action: "logout", Scopes: []string{"*"}}})
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}, "logout", "tab:profile") {
		t.Fatalf("lower-case l should not trigger logout")
	}
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'L'}}, "logout", "tab:profile") {
		t.Fatalf("expected L to trigger logout")
	}
}

func TestDefaultBindingsCoverEveryTab(t *testing.T) {
	reg := NewKeyRegistry(DefaultKeyBindings())
	for i, r := range []rune{'1', '2', '3', '4', '5'} {
		action := "switch-tab-" + string(r)
		if !reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, action, "tab:tourism") {
			t.Fatalf("binding %d (%s) missing", i, action)
		}
	}
}
