// Package config handles configuration loading and saving.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/asdevv/funai/logger"
	"github.com/asdevv/funai/provider"
)

const (
	configDirName  = ".funai"
	configFileName = "config.yaml"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Chat      ChatConfig      `json:"chat" yaml:"chat"`
	Providers ProvidersConfig `json:"providers" yaml:"providers"`
	Web       WebConfig       `json:"web" yaml:"web"`
	Logging   LoggingConfig   `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ChatConfig holds the fixed per-call settings sent with every prompt.
type ChatConfig struct {
	Provider     string `json:"provider" yaml:"provider"`                             // anthropic, openai
	Model        string `json:"model,omitempty" yaml:"model,omitempty"`               // defaults to the provider's model
	MaxTokens    int    `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`       // defaults to 300
	SystemPrompt string `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty"` // defaults to chat.DefaultSystemPrompt
}

// ProvidersConfig contains provider API configurations.
type ProvidersConfig struct {
	Anthropic *ProviderConfig `json:"anthropic,omitempty" yaml:"anthropic,omitempty"`
	OpenAI    *ProviderConfig `json:"openai,omitempty" yaml:"openai,omitempty"`
}

// ProviderConfig contains API credentials for a provider.
type ProviderConfig struct {
	APIKey  string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	APIBase string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"` // optional custom base URL
}

// LogValue keeps the API key out of log output.
func (p ProviderConfig) LogValue() slog.Value {
	key := "unset"
	if p.APIKey != "" {
		key = "[redacted]"
	}
	return slog.GroupValue(
		slog.String("apiKey", key),
		slog.String("apiBase", p.APIBase),
	)
}

// WebConfig contains web channel configuration.
type WebConfig struct {
	Addr  string `json:"addr,omitempty" yaml:"addr,omitempty"`   // default: 127.0.0.1:8080
	Title string `json:"title,omitempty" yaml:"title,omitempty"` // page heading
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to stdout
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path, relative to the config dir
}

// ConfigDir returns the configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the path of the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config file, creating the directory if needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// 0600: the file may hold API keys.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ProviderConfigFor returns the stored credentials for a provider name, or nil.
func (c *Config) ProviderConfigFor(name string) *ProviderConfig {
	switch name {
	case "anthropic":
		return c.Providers.Anthropic
	case "openai":
		return c.Providers.OpenAI
	}
	return nil
}

// SetProviderAPIKey stores an API key for the selected provider.
func (c *Config) SetProviderAPIKey(key string) {
	key = strings.TrimSpace(key)
	switch c.Chat.Provider {
	case "anthropic":
		if c.Providers.Anthropic == nil {
			c.Providers.Anthropic = &ProviderConfig{}
		}
		c.Providers.Anthropic.APIKey = key
	case "openai":
		if c.Providers.OpenAI == nil {
			c.Providers.OpenAI = &ProviderConfig{}
		}
		c.Providers.OpenAI.APIKey = key
	}
}

// ProviderSettings resolves the call settings for the configured provider.
// Environment variables named by the provider registration win over the file.
// A missing key is not an error here; the provider call fails instead.
func (c *Config) ProviderSettings() (string, provider.Settings, error) {
	name := c.Chat.Provider
	reg, err := provider.Lookup(name)
	if err != nil {
		return "", provider.Settings{}, err
	}

	s := provider.Settings{
		Model:     c.Chat.Model,
		MaxTokens: c.Chat.MaxTokens,
	}
	if pc := c.ProviderConfigFor(name); pc != nil {
		s.APIKey = pc.APIKey
		s.APIBase = pc.APIBase
	}
	if v := strings.TrimSpace(os.Getenv(reg.EnvKey)); reg.EnvKey != "" && v != "" {
		s.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(reg.EnvBase)); reg.EnvBase != "" && v != "" {
		s.APIBase = v
	}
	if s.APIKey == "" {
		logger.Warn("no API key configured; requests will fail", "provider", name, "envKey", reg.EnvKey)
	}
	return name, s, nil
}

// BuildLoggerConfig converts the logging section into logger settings.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
