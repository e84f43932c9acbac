// Package channel provides the rendering surfaces that feed prompts to the chat handler.
package channel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/asdevv/funai/chat"
	"github.com/asdevv/funai/logger"
)

// Submitter turns one prompt into one result. *chat.Handler implements it.
type Submitter interface {
	Submit(ctx context.Context, message string) (chat.Result, error)
}

// Channel is the interface for rendering surfaces.
type Channel interface {
	// Name returns the channel name (e.g., "web", "tui").
	Name() string

	// Start begins serving. It must not block.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the channel.
	Stop() error

	// Done is closed when the channel stops on its own (e.g. the user quits the TUI).
	Done() <-chan struct{}
}

// Manager manages multiple channels as a pure registry.
type Manager struct {
	channels map[string]Channel
	started  []Channel
}

// NewManager creates a new channel manager.
func NewManager() *Manager {
	return &Manager{
		channels: make(map[string]Channel),
	}
}

// Register adds a channel to the manager and logs it. Nil is silently ignored.
func (m *Manager) Register(ch Channel) {
	if ch == nil {
		return
	}
	m.channels[ch.Name()] = ch
	logger.Info("channel registered", "channel", ch.Name())
}

// Get returns a channel by name.
func (m *Manager) Get(name string) (Channel, bool) {
	ch, ok := m.channels[name]
	return ch, ok
}

// StartAll starts all registered channels in name order.
// If one fails, the ones already started are stopped.
func (m *Manager) StartAll(ctx context.Context) error {
	for _, name := range m.names() {
		ch := m.channels[name]
		if err := ch.Start(ctx); err != nil {
			stopErr := m.StopAll()
			return errors.Join(fmt.Errorf("start %s channel: %w", name, err), stopErr)
		}
		m.started = append(m.started, ch)
	}
	return nil
}

// StopAll stops started channels in reverse start order.
func (m *Manager) StopAll() error {
	var errs []error
	for i := len(m.started) - 1; i >= 0; i-- {
		ch := m.started[i]
		if err := ch.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop %s channel: %w", ch.Name(), err))
		}
	}
	m.started = nil
	return errors.Join(errs...)
}

// AnyDone returns a channel closed as soon as one registered channel finishes on its own.
func (m *Manager) AnyDone(ctx context.Context) <-chan struct{} {
	out := make(chan struct{})
	var once sync.Once
	for _, ch := range m.channels {
		go func(done <-chan struct{}) {
			select {
			case <-done:
				once.Do(func() { close(out) })
			case <-ctx.Done():
			}
		}(ch.Done())
	}
	return out
}

func (m *Manager) names() []string {
	names := make([]string, 0, len(m.channels))
	for name := range m.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
