package core

var listScopes = []string{"tab:marketplace", "tab:skills", "tab:community", "screen:command"}

func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"q"}, Action: "quit", Description: "quit", Scopes: []string{"tab:tourism", "tab:marketplace", "tab:skills", "tab:community", "tab:profile"}},
		{Keys: []string{"ctrl+k"}, Action: "open-command-palette", Description: "commands", Scopes: []string{"*"}},
		{Keys: []string{"1"}, Action: "switch-tab-1", Description: "tourism", Scopes: []string{"tab:*"}},
		{Keys: []string{"2"}, Action: "switch-tab-2", Description: "marketplace", Scopes: []string{"tab:*"}},
		{Keys: []string{"3"}, Action: "switch-tab-3", Description: "skills", Scopes: []string{"tab:*"}},
		{Keys: []string{"4"}, Action: "switch-tab-4", Description: "community", Scopes: []string{"tab:*"}},
		{Keys: []string{"5"}, Action: "switch-tab-5", Description: "profile", Scopes: []string{"tab:*"}},
		{Keys: []string{"r"}, Action: "refresh", Description: "refresh", Scopes: []string{"tab:*", "screen:event"}},
		{Keys: []string{"j", "down"}, Action: "cursor-down", Description: "down", Scopes: listScopes},
		{Keys: []string{"k", "up"}, Action: "cursor-up", Description: "up", Scopes: listScopes},
		{Keys: []string{"a"}, Action: "cart-add", Description: "add to cart", Scopes: []string{"tab:marketplace"}},
		{Keys: []string{"x"}, Action: "cart-remove", Description: "remove", Scopes: []string{"tab:marketplace"}},
		{Keys: []string{"e"}, Action: "enroll", Description: "register for course", Scopes: []string{"tab:skills"}},
		{Keys: []string{"enter"}, Action: "open-event", Description: "event details", Scopes: []string{"tab:community"}},
		{Keys: []string{"L"}, Action: "logout", Description: "log out", Scopes: []string{"tab:profile"}},
		{Keys: []string{"tab"}, Action: "next-field", Description: "next field", Scopes: []string{"screen:login", "screen:register"}},
		{Keys: []string{"shift+tab"}, Action: "prev-field", Description: "prev field", Scopes: []string{"screen:login", "screen:register"}},
		{Keys: []string{"enter"}, Action: "submit", Description: "submit", Scopes: []string{"screen:login", "screen:register"}},
		{Keys: []string{"ctrl+r"}, Action: "switch-form", Description: "login/register", Scopes: []string{"screen:login", "screen:register"}},
		{Keys: []string{"esc"}, Action: "close", Description: "close", Scopes: []string{"screen:command", "screen:event", "screen:login", "screen:register"}},
		{Keys: []string{"enter"}, Action: "select", Description: "select", Scopes: []string{"screen:command"}},
	}
}
