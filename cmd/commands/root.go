package commands

// Root command for Cobra CLI
// Loads configuration and starts logging before any subcommand runs
// Registers all subcommands (serve, bot, add, remove, list, render)

import (
	"fmt"

	"line-chart/internal/infra/config"
	logging "line-chart/internal/infra/log"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "line-chart",
	Short: "Line chart of timestamped values with a web page, a Telegram bot and a CLI",
	Long: `Line chart keeps a list of timestamped numeric values on disk and draws them as a line chart.
Values can be managed from the web page, the Telegram bot or the command line.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(renderCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	if err := logging.Init(cfg.App.LogDir); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	return nil
}
