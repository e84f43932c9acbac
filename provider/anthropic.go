package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/asdevv/funai/logger"
)

const (
	anthropicDefaultModel = "claude-3-5-sonnet-20240620"
	sdkMaxRetries         = 0
	sdkRequestTimeout     = 5 * time.Minute
)

func init() {
	RegisterProvider("anthropic", ProviderRegistration{
		DefaultModel: anthropicDefaultModel,
		EnvKey:       "ANTHROPIC_API_KEY",
		EnvBase:      "ANTHROPIC_BASE_URL",
		Constructor: func(s Settings) Provider {
			return newAnthropicProvider(s)
		},
	})
}

// AnthropicProvider implements the Provider interface using the Anthropic Messages API.
type AnthropicProvider struct {
	modelName string
	maxTokens int
	client    anthropic.Client
}

func newAnthropicProvider(s Settings) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithMaxRetries(sdkMaxRetries),
		option.WithHTTPClient(&http.Client{Timeout: sdkRequestTimeout}),
	}
	if key := strings.TrimSpace(s.APIKey); key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}
	if base := strings.TrimSpace(s.APIBase); base != "" {
		opts = append(opts, option.WithBaseURL(normalizeBaseURL(base)))
	}

	return &AnthropicProvider{
		modelName: s.Model,
		maxTokens: s.MaxTokens,
		client:    anthropic.NewClient(opts...),
	}
}

// Chat sends one Messages API request.
func (p *AnthropicProvider) Chat(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	logger.Info(
		"anthropic request",
		"provider", "anthropic",
		"modelName", p.modelName,
		"maxTokens", p.maxTokens,
		"messageCount", len(req.Messages),
		"inputChars", inputChars(req),
	)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.modelName),
		MaxTokens: int64(p.maxTokens),
		Messages:  toAnthropicMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("anthropic request error", "provider", "anthropic", "err", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	resp := &Response{
		ID:         msg.ID,
		Model:      string(msg.Model),
		StopReason: string(msg.StopReason),
		Content:    make([]ContentBlock, 0, len(msg.Content)),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}
	for _, block := range msg.Content {
		resp.Content = append(resp.Content, ContentBlock{Type: block.Type, Text: block.Text})
	}

	logger.Info(
		"anthropic response",
		"provider", "anthropic",
		"modelName", p.modelName,
		"stopReason", resp.StopReason,
		"blockCount", len(resp.Content),
		"inputTokens", resp.Usage.InputTokens,
		"outputTokens", resp.Usage.OutputTokens,
		"latencyMs", time.Since(start).Milliseconds(),
	)

	return resp, nil
}

func toAnthropicMessages(msgs []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}
	return out
}

// normalizeBaseURL makes sure SDK relative paths resolve under base.
func normalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
