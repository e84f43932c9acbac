package config

const (
	defaultProvider  = "anthropic"
	defaultModel     = "claude-3-5-sonnet-20240620"
	defaultMaxTokens = 300
	defaultWebAddr   = "127.0.0.1:8080"
	defaultWebTitle  = "Fun AI"
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Chat: ChatConfig{
			Provider:  defaultProvider,
			Model:     defaultModel,
			MaxTokens: defaultMaxTokens,
		},
		Providers: ProvidersConfig{
			Anthropic: &ProviderConfig{},
		},
		Web: WebConfig{
			Addr:  defaultWebAddr,
			Title: defaultWebTitle,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		Stdout:  true,
		File:    "logs/funai.log",
	}
}

func (c *Config) applyDefaults() {
	if c.Chat.Provider == "" {
		c.Chat.Provider = defaultProvider
	}
	// the default model only applies to the default provider;
	// other providers fall back to their own registration default
	if c.Chat.Model == "" && c.Chat.Provider == defaultProvider {
		c.Chat.Model = defaultModel
	}
	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = defaultMaxTokens
	}

	if c.Web.Addr == "" {
		c.Web.Addr = defaultWebAddr
	}
	if c.Web.Title == "" {
		c.Web.Title = defaultWebTitle
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}

	hasAny := c.Logging.Level != "" || c.Logging.File != "" || c.Logging.Stdout
	if c.Logging.Enabled == nil && hasAny {
		enabled := true
		c.Logging.Enabled = &enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
