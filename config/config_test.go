package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asdevv/funai/provider"
)

func useConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	useConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat.Provider != "anthropic" || cfg.Chat.Model != "claude-3-5-sonnet-20240620" || cfg.Chat.MaxTokens != 300 {
		t.Fatalf("unexpected chat defaults: %+v", cfg.Chat)
	}
	if cfg.Web.Addr != defaultWebAddr || cfg.Web.Title != "Fun AI" {
		t.Fatalf("unexpected web defaults: %+v", cfg.Web)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := useConfigDir(t)

	cfg := DefaultConfig()
	cfg.Web.Addr = "0.0.0.0:9000"
	cfg.SetProviderAPIKey(" sk-ant-file ")
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, configFileName))
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Web.Addr != "0.0.0.0:9000" {
		t.Errorf("addr = %q", loaded.Web.Addr)
	}
	if loaded.Providers.Anthropic == nil || loaded.Providers.Anthropic.APIKey != "sk-ant-file" {
		t.Errorf("api key not persisted: %+v", loaded.Providers.Anthropic)
	}
}

func TestLoadPartialFileAppliesDefaults(t *testing.T) {
	dir := useConfigDir(t)
	raw := "chat:\n  provider: openai\nlogging:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(raw), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat.Model != "" {
		t.Errorf("openai should keep an empty model so the provider default applies, got %q", cfg.Chat.Model)
	}
	if cfg.Chat.MaxTokens != 300 {
		t.Errorf("maxTokens = %d", cfg.Chat.MaxTokens)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Enabled == nil || !*cfg.Logging.Enabled {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := useConfigDir(t)
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("chat: [\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestProviderSettingsEnvWinsOverFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.Anthropic = &ProviderConfig{APIKey: "from-file", APIBase: "http://file"}

	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	t.Setenv("ANTHROPIC_BASE_URL", "")

	name, s, err := cfg.ProviderSettings()
	if err != nil {
		t.Fatalf("ProviderSettings() error = %v", err)
	}
	if name != "anthropic" {
		t.Errorf("name = %q", name)
	}
	if s.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", s.APIKey)
	}
	if s.APIBase != "http://file" {
		t.Errorf("APIBase = %q, want file value when env is empty", s.APIBase)
	}
	if s.Model != defaultModel || s.MaxTokens != 300 {
		t.Errorf("settings = %+v", s)
	}
}

func TestProviderSettingsMissingKeyIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, s, err := cfg.ProviderSettings()
	if err != nil {
		t.Fatalf("ProviderSettings() error = %v", err)
	}
	if s.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", s.APIKey)
	}
}

func TestProviderSettingsUnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chat.Provider = "nope"
	if _, _, err := cfg.ProviderSettings(); !errors.Is(err, provider.ErrUnknownProvider) {
		t.Fatalf("error = %v, want ErrUnknownProvider", err)
	}
}

func TestProviderConfigLogValueRedactsKey(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	l.Info("provider", "anthropic", ProviderConfig{APIKey: "sk-ant-secret", APIBase: "http://x"})

	out := buf.String()
	if strings.Contains(out, "sk-ant-secret") {
		t.Fatalf("api key leaked into log: %s", out)
	}
	if !strings.Contains(out, "[redacted]") || !strings.Contains(out, "http://x") {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestBuildLoggerConfig(t *testing.T) {
	disabled := false
	cfg := DefaultConfig()
	cfg.Logging.Enabled = &disabled
	if lc := cfg.BuildLoggerConfig(); lc.Enabled {
		t.Fatal("expected disabled logger config")
	}
	if lc := DefaultConfig().BuildLoggerConfig(); !lc.Enabled || lc.File != "logs/funai.log" {
		t.Fatalf("unexpected default logger config: %+v", lc)
	}
}
