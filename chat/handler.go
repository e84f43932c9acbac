// Package chat turns a submitted prompt into a single-turn completion call
// and reduces the reply to a displayable result.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asdevv/funai/logger"
	"github.com/asdevv/funai/provider"
)

const (
	// AgentAI tags every submission result.
	AgentAI = "ai"

	// UnknownResponse replaces a first content block that is not text.
	UnknownResponse = "Unknown response"

	// DefaultSystemPrompt is sent as the system instruction when none is configured.
	DefaultSystemPrompt = "Answer the questions clearly and concisely"
)

// ErrEmptyResponse is returned when the provider reply carries no content blocks.
var ErrEmptyResponse = errors.New("chat: response has no content")

// Result is the reply to one submission.
type Result struct {
	Agent   string `json:"agent"`
	Content string `json:"content"`
}

// Options configures a Handler.
type Options struct {
	SystemPrompt string
	Counter      TokenCounter // optional, used for logging only
}

// Handler forwards prompts to a provider. It holds no conversation state:
// every call sends the system prompt and the one user message.
type Handler struct {
	provider provider.Provider
	system   string
	counter  TokenCounter
}

// NewHandler creates a Handler backed by p.
func NewHandler(p provider.Provider, opts Options) *Handler {
	system := strings.TrimSpace(opts.SystemPrompt)
	if system == "" {
		system = DefaultSystemPrompt
	}
	return &Handler{provider: p, system: system, counter: opts.Counter}
}

// Submit sends message to the provider and returns the first text block of the reply.
// An empty message returns an empty result without calling the provider.
func (h *Handler) Submit(ctx context.Context, message string) (Result, error) {
	if message == "" {
		return Result{Agent: AgentAI}, nil
	}

	start := time.Now()
	resp, err := h.provider.Chat(ctx, &provider.Request{
		System:   h.system,
		Messages: []provider.Message{provider.UserMessage(message)},
	})
	if err != nil {
		return Result{}, fmt.Errorf("chat: submit: %w", err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return Result{}, ErrEmptyResponse
	}

	content := UnknownResponse
	if first := resp.Content[0]; first.Type == provider.BlockText {
		content = first.Text
	}

	logger.Info(
		"chat submit",
		"promptChars", len(message),
		"promptTokens", h.countTokens(message),
		"firstBlockType", resp.Content[0].Type,
		"outputChars", len(content),
		"latencyMs", time.Since(start).Milliseconds(),
	)

	return Result{Agent: AgentAI, Content: content}, nil
}

func (h *Handler) countTokens(s string) int {
	if h.counter == nil {
		return -1
	}
	return h.counter.Count(s)
}
