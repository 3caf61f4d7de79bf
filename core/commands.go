package core

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// SignedOutReason is shown for commands that need a session while none exists.
const SignedOutReason = "Not signed in"

// Command is a palette entry. Scopes use the key registry's matching, so
// "tab:*" offers the command on every tab and "*" everywhere.
type Command struct {
	ID           string
	Name         string
	Description  string
	Scopes       []string
	RequiresAuth bool
	Execute      func(m *Model) tea.Cmd
	Disabled     func(m *Model) (bool, string)
}

// available reports whether c can run now, and why not when it cannot.
func (c Command) available(m *Model) (bool, string) {
	if c.RequiresAuth && (m == nil || m.Authenticated == nil || !m.Authenticated()) {
		return false, SignedOutReason
	}
	if c.Disabled != nil {
		if disabled, reason := c.Disabled(m); disabled {
			if reason == "" {
				reason = "Command is disabled"
			}
			return false, reason
		}
	}
	return true, ""
}

type CommandResult struct {
	CommandID string
	Name      string
	Desc      string
	Disabled  bool
	Reason    string
	rank      int
}

type CommandRegistry struct {
	commands map[string]Command
}

func NewCommandRegistry(cmds []Command) *CommandRegistry {
	reg := &CommandRegistry{commands: map[string]Command{}}
	for _, c := range cmds {
		reg.Register(c)
	}
	return reg
}

func (r *CommandRegistry) Register(c Command) {
	if c.ID == "" {
		return
	}
	r.commands[c.ID] = c
}

// Search lists the commands offered in scope whose name, description or ID
// contains every word of query. Runnable commands come first; among them a
// name starting with the query ranks above other matches.
func (r *CommandRegistry) Search(query, scope string, m *Model) []CommandResult {
	q := strings.ToLower(strings.TrimSpace(query))
	words := strings.Fields(q)
	results := make([]CommandResult, 0, len(r.commands))
	for _, c := range r.commands {
		if !scopeMatch(scope, c.Scopes) {
			continue
		}
		name := strings.ToLower(c.Name)
		h := name + " " + strings.ToLower(c.Description) + " " + c.ID
		if !slices.ContainsFunc(words, func(w string) bool { return !strings.Contains(h, w) }) {
			ok, reason := c.available(m)
			rank := 1
			if q != "" && strings.HasPrefix(name, q) {
				rank = 0
			}
			results = append(results, CommandResult{
				CommandID: c.ID,
				Name:      c.Name,
				Desc:      c.Description,
				Disabled:  !ok,
				Reason:    reason,
				rank:      rank,
			})
		}
	}
	slices.SortFunc(results, func(a, b CommandResult) int {
		if a.Disabled != b.Disabled {
			if !a.Disabled {
				return -1
			}
			return 1
		}
		if a.rank != b.rank {
			return cmp.Compare(a.rank, b.rank)
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return results
}

// Execute runs the command with id. Unknown and unavailable commands report
// an error status instead.
func (r *CommandRegistry) Execute(id string, m *Model) tea.Cmd {
	c, ok := r.commands[id]
	if !ok {
		return ErrorCmd(errors.New("Unknown command: " + id))
	}
	if ok, reason := c.available(m); !ok {
		return ErrorCmd(errors.New(reason))
	}
	if c.Execute == nil {
		return nil
	}
	return c.Execute(m)
}
