package cmd

import (
	"github.com/spf13/cobra"

	"github.com/asdevv/funai/channel"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat in the terminal",
	Long: `Open the terminal chat. Type a prompt and press Enter.
Type 'exit' or press Ctrl+C to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	handler, _, err := buildHandler(cfg, overrides{})
	if err != nil {
		return err
	}

	manager := channel.NewManager()
	manager.Register(channel.NewTUIChannel(handler))
	return runChannels(manager, nil)
}
