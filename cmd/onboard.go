package cmd

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/asdevv/funai/config"
	"github.com/asdevv/funai/provider"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize funai configuration",
	Long:  `Create the funai configuration directory and config file.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

// providerURLs maps provider names to their API key portal URLs.
var providerURLs = map[string]string{
	"anthropic": "https://console.anthropic.com",
	"openai":    "https://platform.openai.com/api-keys",
}

type onboardAnswers struct {
	provider string
	apiKey   string
	addr     string
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	var answers onboardAnswers
	defaults := config.DefaultConfig()
	answers.addr = defaults.Web.Addr

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose your LLM provider").
				Options(buildProviderOptions()...).
				Value(&answers.provider),
		),
	).Run()
	if err != nil {
		return err
	}

	lookup, _ := provider.Lookup(answers.provider)
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your "+answers.provider+" API key").
				Description(fmt.Sprintf("Create one at %s. Leave empty to use $%s instead.", providerURLs[answers.provider], lookup.EnvKey)).
				EchoMode(huh.EchoModePassword).
				Value(&answers.apiKey),
			huh.NewInput().
				Title("Web listen address").
				Description("host:port for 'funai serve'.").
				Validate(validateAddr).
				Value(&answers.addr),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg := answers.apply(defaults)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("funai initialized successfully!")
	fmt.Println()
	fmt.Println("  Config:", configPath)
	fmt.Println("  Provider:", cfg.Chat.Provider)
	fmt.Println("  Address:", cfg.Web.Addr)
	fmt.Println()
	fmt.Println("Run 'funai serve' to start.")
	return nil
}

// apply writes the wizard answers onto cfg.
func (a onboardAnswers) apply(cfg *config.Config) *config.Config {
	if a.provider != "" && a.provider != cfg.Chat.Provider {
		cfg.Chat.Provider = a.provider
		cfg.Chat.Model = ""
	}
	cfg.SetProviderAPIKey(a.apiKey)
	if addr := strings.TrimSpace(a.addr); addr != "" {
		cfg.Web.Addr = addr
	}
	return cfg
}

func buildProviderOptions() []huh.Option[string] {
	names := provider.SupportedProviders()
	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		label := name
		if reg, err := provider.Lookup(name); err == nil && reg.DefaultModel != "" {
			label += " (" + reg.DefaultModel + ")"
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}

func validateAddr(s string) error {
	if _, _, err := net.SplitHostPort(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("expected host:port: %w", err)
	}
	return nil
}
