package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/gallery/clientcli"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file> [file...]",
	Short: "Upload files to the gallery",
	Long: `Upload one or more local files.

Each file is presigned, PUT to the object store and then saved as a
gallery item. The content type is detected from the file extension
unless --content-type is given.

Examples:
  gallery-cli upload cat.png
  gallery-cli upload --note "holiday" a.jpg b.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

var (
	uploadNote        string
	uploadContentType string
)

func init() {
	uploadCmd.Flags().StringVarP(&uploadNote, "note", "n", "", "note stored with every uploaded item")
	uploadCmd.Flags().StringVarP(&uploadContentType, "content-type", "t", "", "override the detected content type")
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	results := make([]clientcli.UploadResult, 0, len(args))
	failed := false
	for _, path := range args {
		result, uploadErr := client.Upload(cmd.Context(), clientcli.UploadOptions{
			LocalPath:   path,
			ContentType: uploadContentType,
			Note:        uploadNote,
		})
		if uploadErr != nil {
			result = clientcli.UploadResult{LocalPath: path, Err: uploadErr}
			failed = true
		}
		results = append(results, result)
	}

	if err := getFormatter().FormatUpload(os.Stdout, results); err != nil {
		return err
	}
	if failed {
		return &exitError{code: 1}
	}
	return nil
}
