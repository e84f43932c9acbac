package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asdevv/funai/mdterm"
	"github.com/asdevv/funai/transcript"
)

var (
	userMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// ChatPanel displays the transcript in a scrollable viewport that follows the newest turn.
type ChatPanel struct {
	viewport viewport.Model
	spinner  spinner.Model
	snap     TranscriptMsg
	styles   mdterm.Styles
}

// NewChatPanel creates a chat panel.
func NewChatPanel() *ChatPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &ChatPanel{
		viewport: vp,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:   mdterm.DefaultStyles(),
	}
}

func (p *ChatPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case TranscriptMsg:
		wasBusy := p.snap.State == transcript.StateSubmitting
		p.snap = msg
		p.render()
		if msg.State == transcript.StateSubmitting && !wasBusy {
			return p, p.spinner.Tick
		}
		return p, nil
	case spinner.TickMsg:
		if p.snap.State != transcript.StateSubmitting {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		p.render()
		return p, cmd
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// render rebuilds the viewport from the snapshot. Rendering the same snapshot twice
// yields the same content.
func (p *ChatPanel) render() {
	p.viewport.SetContent(p.content())
	p.viewport.GotoBottom()
}

func (p *ChatPanel) content() string {
	var b strings.Builder
	for i, turn := range p.snap.Turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch turn.Speaker {
		case transcript.SpeakerUser:
			b.WriteString(userMsgStyle.Render("> " + turn.Text))
		default:
			b.WriteString(strings.TrimRight(mdterm.ConvertWith(turn.Text, p.styles), "\n"))
		}
	}
	if p.snap.State == transcript.StateSubmitting {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(p.spinner.View() + " Thinking..."))
	}
	if p.snap.Err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(p.snap.Err))
	}
	return b.String()
}

func (p *ChatPanel) View() string {
	return p.viewport.View()
}

func (p *ChatPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	p.viewport.GotoBottom()
}
