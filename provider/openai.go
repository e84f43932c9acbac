package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	oaioption "github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/asdevv/funai/logger"
)

const openAIDefaultModel = "gpt-4o-mini"

func init() {
	RegisterProvider("openai", ProviderRegistration{
		DefaultModel: openAIDefaultModel,
		EnvKey:       "OPENAI_API_KEY",
		EnvBase:      "OPENAI_BASE_URL",
		Constructor: func(s Settings) Provider {
			return newOpenAIProvider(s)
		},
	})
}

// OpenAIProvider implements the Provider interface using the Chat Completions API
// and maps the reply onto content blocks.
type OpenAIProvider struct {
	modelName string
	maxTokens int
	client    openai.Client
}

func newOpenAIProvider(s Settings) *OpenAIProvider {
	opts := []oaioption.RequestOption{
		oaioption.WithMaxRetries(sdkMaxRetries),
		oaioption.WithHTTPClient(&http.Client{Timeout: sdkRequestTimeout}),
	}
	if key := strings.TrimSpace(s.APIKey); key != "" {
		opts = append(opts, oaioption.WithAPIKey(key))
	}
	if base := strings.TrimSpace(s.APIBase); base != "" {
		opts = append(opts, oaioption.WithBaseURL(normalizeBaseURL(base)))
	}

	return &OpenAIProvider{
		modelName: s.Model,
		maxTokens: s.MaxTokens,
		client:    openai.NewClient(opts...),
	}
}

// Chat sends one chat completion request.
func (p *OpenAIProvider) Chat(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	logger.Info(
		"openai request",
		"provider", "openai",
		"modelName", p.modelName,
		"maxTokens", p.maxTokens,
		"messageCount", len(req.Messages),
		"inputChars", inputChars(req),
	)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.UserMessage(m.Content))
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.modelName),
		Messages: messages,
	}
	if p.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(p.maxTokens))
	}

	chatResp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("openai request error", "provider", "openai", "err", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	resp := &Response{
		ID:    chatResp.ID,
		Model: chatResp.Model,
		Usage: Usage{
			InputTokens:  int(chatResp.Usage.PromptTokens),
			OutputTokens: int(chatResp.Usage.CompletionTokens),
		},
	}
	if len(chatResp.Choices) > 0 {
		choice := chatResp.Choices[0]
		resp.StopReason = choice.FinishReason
		resp.Content = []ContentBlock{choiceBlock(choice.Message)}
	}

	logger.Info(
		"openai response",
		"provider", "openai",
		"modelName", p.modelName,
		"stopReason", resp.StopReason,
		"blockCount", len(resp.Content),
		"inputTokens", resp.Usage.InputTokens,
		"outputTokens", resp.Usage.OutputTokens,
		"latencyMs", time.Since(start).Milliseconds(),
	)

	return resp, nil
}

func choiceBlock(msg openai.ChatCompletionMessage) ContentBlock {
	switch {
	case msg.Content != "":
		return ContentBlock{Type: BlockText, Text: msg.Content}
	case msg.Refusal != "":
		return ContentBlock{Type: "refusal", Text: msg.Refusal}
	case len(msg.ToolCalls) > 0:
		return ContentBlock{Type: "tool_use"}
	default:
		return ContentBlock{Type: BlockText}
	}
}
