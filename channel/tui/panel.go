// Package tui provides a terminal user interface for chatting with the model.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/asdevv/funai/chat"
	"github.com/asdevv/funai/transcript"
)

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// InputSubmitMsg is emitted when the user presses Enter in the input panel.
type InputSubmitMsg struct{ Text string }

// TranscriptMsg carries a snapshot of the conversation for rendering.
type TranscriptMsg struct {
	Turns []transcript.Turn
	State transcript.State
	Err   string
}

// ReplyMsg carries the outcome of one submission.
type ReplyMsg struct {
	Result chat.Result
	Err    error
}
