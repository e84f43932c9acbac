package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asdevv/funai/channel"
	"github.com/asdevv/funai/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web chat",
	Long: `Start funai as a long-running service.

The web channel serves the chat page on --addr (or web.addr in config.yaml).
With --tui the terminal chat runs alongside it.

Examples:
  funai serve                      # Web chat on 127.0.0.1:8080
  funai serve --addr :3000         # Listen on all interfaces, port 3000
  funai serve --tui                # Web chat plus terminal chat`,
	RunE: runServe,
}

var (
	serveAddr string
	serveTUI  bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides web.addr)")
	serveCmd.Flags().BoolVar(&serveTUI, "tui", false, "Also start the terminal chat")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	handler, model, err := buildHandler(cfg, overrides{})
	if err != nil {
		return err
	}

	addr := cfg.Web.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	manager := channel.NewManager()
	web := channel.NewWebChannel(channel.WebConfig{
		Addr:      addr,
		Title:     cfg.Web.Title,
		Model:     model,
		Submitter: handler,
	})
	manager.Register(web)
	if serveTUI {
		manager.Register(channel.NewTUIChannel(handler))
	}

	return runChannels(manager, func() {
		if !serveTUI {
			fmt.Printf("funai is running at http://%s. Press Ctrl+C to stop.\n", web.Addr())
		}
	})
}

// runChannels starts every registered channel and blocks until a shutdown
// signal arrives or one channel finishes on its own.
func runChannels(manager *channel.Manager, started func()) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := manager.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start channels: %w", err)
	}
	logger.Info("funai service started")
	if started != nil {
		started()
	}

	select {
	case <-ctx.Done():
	case <-manager.AnyDone(ctx):
	}
	cancel()

	if err := manager.StopAll(); err != nil {
		logger.Error("error stopping channels", "err", err)
	}
	logger.Info("funai service stopped")
	return nil
}
