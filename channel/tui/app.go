package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asdevv/funai/chat"
	"github.com/asdevv/funai/logger"
	"github.com/asdevv/funai/transcript"
)

const (
	defaultLogRatio = 0.3
	failedMessage   = "Something went wrong. Please try again."
)

var separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// Submitter turns one prompt into one result.
type Submitter interface {
	Submit(ctx context.Context, message string) (chat.Result, error)
}

// App is the root bubbletea model. It owns the transcript view and
// orchestrates panels and layout.
type App struct {
	ctx       context.Context
	submitter Submitter
	view      *transcript.View
	lastErr   string

	logPanel   Panel
	chatPanel  Panel
	inputPanel Panel

	width, height int
	logRatio      float64
}

// NewApp creates the root TUI model. ctx bounds every submission.
func NewApp(ctx context.Context, sub Submitter) *App {
	return &App{
		ctx:        ctx,
		submitter:  sub,
		view:       transcript.NewView(),
		logPanel:   NewLogPanel(),
		chatPanel:  NewChatPanel(),
		inputPanel: NewInputPanel("you> "),
		logRatio:   defaultLogRatio,
	}
}

// Transcript returns the conversation shown by the app.
func (m *App) Transcript() *transcript.View { return m.view }

func (m *App) Init() tea.Cmd {
	return textinput.Blink
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			p, cmd := m.chatPanel.Update(msg)
			m.chatPanel = p
			return m, cmd
		}
		p, cmd := m.inputPanel.Update(msg)
		m.inputPanel = p
		cmds = append(cmds, cmd)

	case InputSubmitMsg:
		if isQuit(msg.Text) {
			return m, tea.Quit
		}
		if _, err := m.view.Begin(msg.Text); err != nil {
			logger.Debug("tui submit ignored", "err", err)
			return m, nil
		}
		m.lastErr = ""
		cmds = append(cmds, m.refresh(), m.submit(msg.Text))

	case ReplyMsg:
		if msg.Err != nil {
			logger.Error("tui submit failed", "channel", "tui", "err", msg.Err)
			_ = m.view.Fail()
			m.lastErr = failedMessage
		} else {
			_, _ = m.view.Complete(msg.Result.Content)
		}
		cmds = append(cmds, m.refresh())

	case LogLineMsg:
		p, cmd := m.logPanel.Update(msg)
		m.logPanel = p
		cmds = append(cmds, cmd)

	default:
		// Spinner ticks go to the chat panel, cursor blinks to the input.
		p, cmd := m.chatPanel.Update(msg)
		m.chatPanel = p
		cmds = append(cmds, cmd)
		p, cmd = m.inputPanel.Update(msg)
		m.inputPanel = p
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// refresh pushes the current transcript snapshot to the chat and input panels.
func (m *App) refresh() tea.Cmd {
	snap := TranscriptMsg{Turns: m.view.Turns(), State: m.view.State(), Err: m.lastErr}
	var cmds []tea.Cmd
	p, cmd := m.chatPanel.Update(snap)
	m.chatPanel = p
	cmds = append(cmds, cmd)
	p, cmd = m.inputPanel.Update(snap)
	m.inputPanel = p
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (m *App) submit(text string) tea.Cmd {
	ctx, sub := m.ctx, m.submitter
	return func() tea.Msg {
		res, err := sub.Submit(ctx, text)
		return ReplyMsg{Result: res, Err: err}
	}
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.logPanel.View(),
		sep,
		m.chatPanel.View(),
		sep,
		m.inputPanel.View(),
	)
}

func (m *App) recalcLayout() {
	const inputH = 1
	const sepLines = 2

	usable := max(m.height-inputH-sepLines, 2)
	logH := max(int(float64(usable)*m.logRatio), 1)
	chatH := max(usable-logH, 1)

	m.logPanel.SetSize(m.width, logH)
	m.chatPanel.SetSize(m.width, chatH)
	m.inputPanel.SetSize(m.width, inputH)
}

func isQuit(text string) bool {
	switch strings.TrimSpace(text) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}
