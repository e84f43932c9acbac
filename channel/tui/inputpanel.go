package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/asdevv/funai/transcript"
)

const (
	inputPlaceholder   = "What can I help you?"
	waitingPlaceholder = "Waiting"
)

// InputPanel provides a single-line prompt input. Enter is ignored while a
// submission is in flight.
type InputPanel struct {
	input         textinput.Model
	busy          bool
	width, height int
}

// NewInputPanel creates an input panel with the given prompt.
func NewInputPanel(prompt string) *InputPanel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = inputPlaceholder
	ti.Focus()
	return &InputPanel{input: ti}
}

func (p *InputPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case TranscriptMsg:
		p.busy = msg.State == transcript.StateSubmitting
		if p.busy {
			p.input.Placeholder = waitingPlaceholder
		} else {
			p.input.Placeholder = inputPlaceholder
		}
		return p, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			text := p.input.Value()
			if text == "" || p.busy {
				return p, nil
			}
			p.input.Reset()
			return p, func() tea.Msg { return InputSubmitMsg{Text: text} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *InputPanel) View() string {
	return p.input.View()
}

func (p *InputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = width - len(p.input.Prompt) - 1
}
