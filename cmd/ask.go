package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asdevv/funai/logger"
	"github.com/asdevv/funai/mdterm"
)

var (
	askMessage  string
	askProvider string
	askModel    string
	askAPIKey   string
	askAPIBase  string
	askRaw      bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Send one prompt and print the reply",
	Long: `Send a single prompt with the -m flag and print the reply.

Use --provider, --model, --api-key, --api-base to override config for one run.

Examples:
  funai ask -m "What is the capital of France?"
  funai ask --provider openai -m "hi"
  funai ask --raw -m "Write a haiku" > haiku.md`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMessage, "message", "m", "", "Prompt to send")
	askCmd.Flags().StringVar(&askProvider, "provider", "", "Override provider (anthropic, openai)")
	askCmd.Flags().StringVar(&askModel, "model", "", "Override model")
	askCmd.Flags().StringVar(&askAPIKey, "api-key", "", "Override API key")
	askCmd.Flags().StringVar(&askAPIBase, "api-base", "", "Override API base URL")
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "Print the reply as markdown instead of terminal text")
	_ = askCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// keep stdout for the reply; the log file still receives everything
	logger.Intercept(io.Discard)
	defer logger.Restore()

	handler, _, err := buildHandler(cfg, overrides{
		provider: askProvider,
		model:    askModel,
		apiKey:   askAPIKey,
		apiBase:  askAPIBase,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := handler.Submit(ctx, askMessage)
	if err != nil {
		return err
	}

	out := res.Content
	if !askRaw {
		out = strings.TrimRight(mdterm.Convert(out), "\n")
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
