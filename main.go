// funai is a minimal web and terminal chat for large language models.
package main

import (
	"fmt"
	"os"

	"github.com/asdevv/funai/cmd"
	"github.com/asdevv/funai/config"
	"github.com/asdevv/funai/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	dir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), dir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	cmd.Execute()
}
