package core

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/internal/store"
)

type StatusMsg struct {
	Text  string
	IsErr bool
}

// NavigateMsg asks the model to resolve Path and show the matching tab and
// screens.
type NavigateMsg struct {
	Path string
}

// SliceChangedMsg is sent to the top screen and the active tab after a slice
// in the store changed.
type SliceChangedMsg struct {
	Key store.Key
}

type PushScreenMsg struct {
	Screen Screen
}

type PopScreenMsg struct{}

type CommandExecuteMsg struct {
	CommandID string
}

func NavigateCmd(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

func StatusCmd(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func ErrorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		if err == nil {
			return StatusMsg{Text: "", IsErr: false}
		}
		return StatusMsg{Text: err.Error(), IsErr: true}
	}
}
