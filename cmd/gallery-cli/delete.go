package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/gallery/clientcli"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id> [id...]",
	Aliases: []string{"rm"},
	Short:   "Delete gallery items and their objects",
	Long: `Delete one or more items. The record is removed first, then the
object in the bucket; if only the object removal fails the item is
still reported as deleted, with a warning.

You are asked to confirm unless --yes is given.

Examples:
  gallery-cli delete uploads/1700000000000_ab12cd34_cat.png
  gallery-cli delete -y uploads/a.png uploads/b.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	if !deleteYes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Permanently delete %d item(s)", len(args)),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
				fmt.Println("Cancelled.")
				return nil
			}
			return err
		}
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Delete(cmd.Context(), args)
	if err != nil {
		return err
	}

	if err := getFormatter().FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}
	return nil
}
