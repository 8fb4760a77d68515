package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/gallery/config"
	"github.com/sagarc03/gallery/database"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the metadata table",
	Long: `Create the metadata table for the configured backend if it does
not exist yet. DynamoDB tables are created with "id" as the string
partition key and on-demand billing; the command waits until the
table is active. Running it against an existing table is a no-op.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	slog.Info("initializing metadata table", "type", cfg.Database.Type, "table", cfg.Database.Table)

	if err := database.Init(cmd.Context(), cfg.Database); err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	slog.Info("initialization complete", "table", cfg.Database.Table)
	return nil
}
