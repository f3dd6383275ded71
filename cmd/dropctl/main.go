package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "dropctl",
	Short:         "Maintenance tasks for the drop bot",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.LogError("Command failed", err)
		os.Exit(-1)
	}
}
