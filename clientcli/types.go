package clientcli

import "github.com/sagarc03/gallery"

// UploadOptions configures an upload.
type UploadOptions struct {
	LocalPath   string
	ContentType string // optional, detected from the extension if empty
	Note        string // optional
}

// UploadResult is the outcome of one upload.
type UploadResult struct {
	LocalPath string         `json:"local_path"`
	Size      int64          `json:"size_bytes"`
	Item      gallery.Record `json:"item"`
	Err       error          `json:"-"` // nil on success
}

// DeleteResult is the outcome of deleting one record.
type DeleteResult struct {
	ID      string          `json:"id"`
	Deleted gallery.Deleted `json:"deleted"`
	Err     error           `json:"-"` // nil on success
}

// Health mirrors the server's /health response.
type Health struct {
	Status string `json:"status"`
	TS     string `json:"ts"`
}

type itemResponse struct {
	OK   bool           `json:"ok"`
	Item gallery.Record `json:"item"`
}

type listResponse struct {
	Items []gallery.Record `json:"items"`
}

type deleteResponse struct {
	OK      bool            `json:"ok"`
	Deleted gallery.Deleted `json:"deleted"`
}
