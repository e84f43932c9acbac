package channel

import (
	"bytes"
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/asdevv/funai/channel/tui"
	"github.com/asdevv/funai/logger"
)

// TUIChannel runs the chat in the terminal using bubbletea.
type TUIChannel struct {
	submitter Submitter
	opts      []tea.ProgramOption

	app      *tui.App
	program  *tea.Program
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewTUIChannel creates a terminal channel backed by sub.
func NewTUIChannel(sub Submitter, opts ...tea.ProgramOption) *TUIChannel {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	}
	return &TUIChannel{
		submitter: sub,
		opts:      opts,
		done:      make(chan struct{}),
	}
}

func (c *TUIChannel) Name() string { return "tui" }

func (c *TUIChannel) Start(ctx context.Context) error {
	c.app = tui.NewApp(ctx, c.submitter)
	c.program = tea.NewProgram(c.app, append(c.opts, tea.WithContext(ctx))...)

	// Log lines go to the log panel while the program owns the terminal.
	logger.Intercept(&logWriter{program: c.program})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.done)
		if _, err := c.program.Run(); err != nil && ctx.Err() == nil {
			logger.Restore()
			logger.Error("tui exited with error", "err", err)
		}
	}()

	logger.Info("tui channel started")
	return nil
}

func (c *TUIChannel) Stop() error {
	c.stopOnce.Do(func() {
		if c.program != nil {
			c.program.Quit()
		}
		c.wg.Wait()
		logger.Restore()
		logger.Info("tui channel stopped")
	})
	return nil
}

func (c *TUIChannel) Done() <-chan struct{} { return c.done }

// logWriter forwards each written line to the TUI as a LogLineMsg.
type logWriter struct {
	program *tea.Program
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.program.Send(tui.LogLineMsg{Line: string(line)})
	}
	return len(p), nil
}
