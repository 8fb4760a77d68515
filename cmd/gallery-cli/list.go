package main

import (
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List gallery items, newest first",
	Long: `List gallery items, newest first.

The server returns at most 100 items per call.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	items, err := client.List(cmd.Context())
	if err != nil {
		return err
	}

	return getFormatter().FormatList(os.Stdout, items)
}
