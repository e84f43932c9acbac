package cmd

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/asdevv/funai/config"
	"github.com/asdevv/funai/logger"
	"github.com/asdevv/funai/provider"
)

func fakeAnthropic(t *testing.T, reply string, requests *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		*requests = append(*requests, string(body))

		resp := `{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-sonnet-20240620","stop_reason":"end_turn"}`
		resp, _ = sjson.Set(resp, "content.-1", map[string]any{"type": "text", "text": reply})
		resp, _ = sjson.Set(resp, "usage", map[string]any{"input_tokens": 12, "output_tokens": 3})
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func resetAskFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		askMessage, askProvider, askModel, askAPIKey, askAPIBase = "", "", "", "", ""
		askRaw = false
		configDirFlag = ""
		config.SetConfigDir("")
	})
}

func TestAskPrintsReply(t *testing.T) {
	resetAskFlags(t)
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_BASE_URL", "")

	var requests []string
	srv := fakeAnthropic(t, "**4**", &requests)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"ask", "-m", "2+2?",
		"--api-key", "test-key",
		"--api-base", srv.URL,
		"--config-dir", t.TempDir(),
	})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(requests))
	}
	req := requests[0]
	if got := gjson.Get(req, "model").String(); got != "claude-3-5-sonnet-20240620" {
		t.Errorf("model = %q", got)
	}
	if got := gjson.Get(req, "max_tokens").Int(); got != 300 {
		t.Errorf("max_tokens = %d", got)
	}
	if got := gjson.Get(req, "system.0.text").String(); got != "Answer the questions clearly and concisely" {
		t.Errorf("system = %q", got)
	}
	if got := gjson.Get(req, "messages.#").Int(); got != 1 {
		t.Errorf("messages = %d, want 1", got)
	}
	if got := gjson.Get(req, "messages.0.role").String(); got != "user" {
		t.Errorf("messages.0.role = %q, want user", got)
	}
	if got := gjson.Get(req, "messages.0.content.0.text").String(); got != "2+2?" {
		t.Errorf("messages.0 text = %q", got)
	}

	if got := strings.TrimSpace(out.String()); got != "4" {
		t.Errorf("output = %q, want rendered reply", got)
	}
}

func TestBuildHandlerProviderOverrideDropsModel(t *testing.T) {
	cfg := config.DefaultConfig()
	_, model, err := buildHandler(cfg, overrides{provider: "openai", apiKey: "k"})
	if err != nil {
		t.Fatalf("buildHandler() error = %v", err)
	}
	if model != "gpt-4o-mini" {
		t.Errorf("model = %q, want openai default", model)
	}
	if cfg.Chat.Provider != "openai" || cfg.Chat.Model != "" {
		t.Errorf("chat config = %+v", cfg.Chat)
	}
}

func TestBuildHandlerModelOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	_, model, err := buildHandler(cfg, overrides{model: "claude-3-haiku-20240307"})
	if err != nil {
		t.Fatalf("buildHandler() error = %v", err)
	}
	if model != "claude-3-haiku-20240307" {
		t.Errorf("model = %q", model)
	}
}

func TestBuildHandlerUnknownProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, _, err := buildHandler(cfg, overrides{provider: "nope"}); !errors.Is(err, provider.ErrUnknownProvider) {
		t.Fatalf("error = %v, want ErrUnknownProvider", err)
	}
}

func TestOnboardAnswersApply(t *testing.T) {
	cfg := onboardAnswers{provider: "openai", apiKey: " sk-test ", addr: "0.0.0.0:9000"}.apply(config.DefaultConfig())
	if cfg.Chat.Provider != "openai" || cfg.Chat.Model != "" {
		t.Errorf("chat = %+v", cfg.Chat)
	}
	if cfg.Providers.OpenAI == nil || cfg.Providers.OpenAI.APIKey != "sk-test" {
		t.Errorf("openai provider = %+v", cfg.Providers.OpenAI)
	}
	if cfg.Web.Addr != "0.0.0.0:9000" {
		t.Errorf("addr = %q", cfg.Web.Addr)
	}

	same := onboardAnswers{provider: "anthropic", addr: ""}.apply(config.DefaultConfig())
	if same.Chat.Model != "claude-3-5-sonnet-20240620" || same.Web.Addr != "127.0.0.1:8080" {
		t.Errorf("defaults not kept: %+v %+v", same.Chat, same.Web)
	}
}

func TestValidateAddr(t *testing.T) {
	for _, ok := range []string{"127.0.0.1:8080", ":3000", "localhost:80"} {
		if err := validateAddr(ok); err != nil {
			t.Errorf("validateAddr(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "8080", "localhost"} {
		if err := validateAddr(bad); err == nil {
			t.Errorf("validateAddr(%q) should fail", bad)
		}
	}
}

func TestBuildProviderOptions(t *testing.T) {
	opts := buildProviderOptions()
	if len(opts) != 2 {
		t.Fatalf("options = %d, want 2", len(opts))
	}
	if opts[0].Value != "anthropic" || !strings.Contains(opts[0].Key, "claude-3-5-sonnet-20240620") {
		t.Errorf("first option = %+v", opts[0])
	}
}

func TestBuildHandlerLogsRedactedCredentials(t *testing.T) {
	if err := logger.Init(logger.Config{Enabled: true, Level: "info"}, ""); err != nil {
		t.Fatalf("logger.Init() error = %v", err)
	}
	var buf bytes.Buffer
	logger.Intercept(&buf)
	t.Cleanup(logger.Restore)

	cfg := config.DefaultConfig()
	if _, _, err := buildHandler(cfg, overrides{apiKey: "sk-ant-do-not-log", apiBase: "http://127.0.0.1:1"}); err != nil {
		t.Fatalf("buildHandler() error = %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "sk-ant-do-not-log") {
		t.Fatalf("api key leaked into log: %s", out)
	}
	if !strings.Contains(out, "credentials.apiKey=[redacted]") || !strings.Contains(out, "credentials.apiBase=http://127.0.0.1:1") {
		t.Fatalf("resolved credentials not logged: %s", out)
	}
}
