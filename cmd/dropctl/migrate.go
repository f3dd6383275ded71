package main

import (
	"fmt"
	"log/slog"

	"github.com/auradrop/dropbot/dropbot"
	"github.com/auradrop/dropbot/dropbot/database"
	"github.com/auradrop/dropbot/dropbot/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := dropbot.LoadConfig(configPath)
		if err != nil {
			return err
		}

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			return err
		}

		v, err := db.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		logger.LogSystem("Schema is up to date", slog.String("version", v))
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
