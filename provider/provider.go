// Package provider defines the LLM provider interface and common types.
package provider

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// Provider is the interface for LLM providers.
type Provider interface {
	// Chat sends a single completion request and returns the response.
	Chat(ctx context.Context, req *Request) (*Response, error)
}

// Request represents a completion request.
type Request struct {
	System   string    // system instruction, sent outside the message list
	Messages []Message // user messages only; calls carry no history
}

// Message represents a conversational message.
type Message struct {
	Role    string `json:"role"` // always "user"
	Content string `json:"content"`
}

// Content block types reported by providers.
const (
	BlockText = "text"
)

// ContentBlock is one element of a response's content array.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Response represents a completion response.
type Response struct {
	ID         string
	Model      string
	StopReason string
	Content    []ContentBlock
	Usage      Usage
}

// Usage represents token usage information.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// Settings carries the fixed per-provider call configuration.
type Settings struct {
	APIKey    string
	APIBase   string
	Model     string
	MaxTokens int
}

// ProviderConstructor builds a provider from its settings.
type ProviderConstructor func(s Settings) Provider

// ProviderRegistration defines metadata and constructor for a provider.
type ProviderRegistration struct {
	DefaultModel string
	EnvKey       string
	EnvBase      string
	Constructor  ProviderConstructor
}

var providerRegistry = map[string]ProviderRegistration{}

// ErrUnknownProvider is returned by Lookup and New for unregistered names.
var ErrUnknownProvider = errors.New("unknown provider")

// RegisterProvider registers provider metadata and constructor.
func RegisterProvider(name string, reg ProviderRegistration) {
	name = strings.TrimSpace(name)
	if name == "" || reg.Constructor == nil {
		return
	}
	reg.DefaultModel = strings.TrimSpace(reg.DefaultModel)
	reg.EnvKey = strings.TrimSpace(reg.EnvKey)
	reg.EnvBase = strings.TrimSpace(reg.EnvBase)
	providerRegistry[name] = reg
}

// Lookup returns the registration for name.
func Lookup(name string) (ProviderRegistration, error) {
	reg, ok := providerRegistry[strings.TrimSpace(name)]
	if !ok {
		return ProviderRegistration{}, &unknownProviderError{name: name}
	}
	return reg, nil
}

// New builds the named provider. An empty model falls back to the registration default.
func New(name string, s Settings) (Provider, error) {
	reg, ok := providerRegistry[strings.TrimSpace(name)]
	if !ok {
		return nil, &unknownProviderError{name: name}
	}
	if strings.TrimSpace(s.Model) == "" {
		s.Model = reg.DefaultModel
	}
	return reg.Constructor(s), nil
}

// SupportedProviders returns all supported provider names in sorted order.
func SupportedProviders() []string {
	names := make([]string, 0, len(providerRegistry))
	for name := range providerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type unknownProviderError struct{ name string }

func (e *unknownProviderError) Error() string { return "unknown provider: " + e.name }

func (e *unknownProviderError) Unwrap() error { return ErrUnknownProvider }

func inputChars(req *Request) int {
	n := len(req.System)
	for _, m := range req.Messages {
		n += len(m.Content)
	}
	return n
}
