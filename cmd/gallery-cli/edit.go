package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/gallery"
)

var noteCmd = &cobra.Command{
	Use:   "note <id> <note>",
	Short: "Set the note of an item",
	Long: `Set the note of an item. An empty note removes it:

  gallery-cli note uploads/1700000000000_ab12cd34_cat.png ""`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd, gallery.UpdateRequest{ID: args[0], Note: &args[1]})
	},
}

var setURLCmd = &cobra.Command{
	Use:   "set-url <id> <url>",
	Short: "Replace the public URL of an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd, gallery.UpdateRequest{ID: args[0], URL: &args[1]})
	},
}

func runUpdate(cmd *cobra.Command, req gallery.UpdateRequest) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	rec, err := client.Update(cmd.Context(), req)
	if err != nil {
		return err
	}

	return getFormatter().FormatRecord(os.Stdout, rec)
}
