package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/gallery/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "gallery",
	Short:   "Upload gallery backed by S3 and a key-value table",
	Long: `Gallery serves a single-page upload gallery and its JSON API.

Browsers upload straight to the object store through presigned URLs;
the server only keeps a small metadata record per object.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if f, _ := cmd.Flags().GetString("config"); f != "" {
			files = append(files, f)
		}

		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg, os.Stdout)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "metadata backend: dynamodb, sqlite, postgres, redis (env: GALLERY_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "connection string for sqlite, postgres or redis (env: GALLERY_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("db-table", "", "metadata table name (default: uploads, env: DDB_TABLE)")
	rootCmd.PersistentFlags().String("db-endpoint", "", "DynamoDB endpoint override, e.g. http://localhost:8000")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
