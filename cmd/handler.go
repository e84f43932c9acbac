package cmd

import (
	"fmt"
	"strings"

	"github.com/asdevv/funai/chat"
	"github.com/asdevv/funai/config"
	"github.com/asdevv/funai/logger"
	"github.com/asdevv/funai/provider"
)

// overrides replace config values for one run.
type overrides struct {
	provider string
	model    string
	apiKey   string
	apiBase  string
}

// buildHandler resolves the provider settings and returns the chat handler
// together with the model name it will call.
func buildHandler(cfg *config.Config, o overrides) (*chat.Handler, string, error) {
	if name := strings.TrimSpace(o.provider); name != "" && name != cfg.Chat.Provider {
		cfg.Chat.Provider = name
		// a model configured for another provider does not apply
		cfg.Chat.Model = ""
	}
	if m := strings.TrimSpace(o.model); m != "" {
		cfg.Chat.Model = m
	}

	name, settings, err := cfg.ProviderSettings()
	if err != nil {
		return nil, "", err
	}
	if k := strings.TrimSpace(o.apiKey); k != "" {
		settings.APIKey = k
	}
	if b := strings.TrimSpace(o.apiBase); b != "" {
		settings.APIBase = b
	}

	p, err := provider.New(name, settings)
	if err != nil {
		return nil, "", err
	}

	model := settings.Model
	if model == "" {
		reg, _ := provider.Lookup(name)
		model = reg.DefaultModel
	}

	opts := chat.Options{SystemPrompt: cfg.Chat.SystemPrompt}
	counter, err := chat.NewTiktokenCounter()
	if err != nil {
		logger.Warn("token counter unavailable", "err", err)
	} else {
		opts.Counter = counter
	}

	logger.Info(
		"chat handler ready",
		"provider", name,
		"model", model,
		"maxTokens", settings.MaxTokens,
		"credentials", config.ProviderConfig{APIKey: settings.APIKey, APIBase: settings.APIBase},
	)
	return chat.NewHandler(p, opts), model, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'funai onboard' to initialize", err)
	}
	return cfg, nil
}
