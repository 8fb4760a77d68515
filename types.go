package gallery

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const (
	// DefaultContentType is stored when a save request carries no content type.
	DefaultContentType = "application/octet-stream"

	// DefaultFilename replaces an empty or fully stripped filename hint.
	DefaultFilename = "upload"

	// DefaultUploadPrefix scopes every minted key and every accepted id.
	DefaultUploadPrefix = "uploads/"

	// ListLimit is the hard cap applied to a single list scan. Records beyond
	// the cap are not returned; there is no pagination.
	ListLimit = 100

	// TimeFormat is the fixed-width ISO-8601 layout used for createdAt.
	// Fixed width keeps lexical and chronological order identical.
	TimeFormat = "2006-01-02T15:04:05.000Z"
)

// Record is the metadata entry describing one uploaded object.
type Record struct {
	ID          string `json:"id" dynamodbav:"id" redis:"id"`
	URL         string `json:"url,omitempty" dynamodbav:"url,omitempty" redis:"url"`
	ContentType string `json:"contentType,omitempty" dynamodbav:"contentType,omitempty" redis:"contentType"`
	CreatedAt   string `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty" redis:"createdAt"`
	Note        string `json:"note,omitempty" dynamodbav:"note,omitempty" redis:"note"`
}

// RecordPatch holds the attributes an update may change. A nil field is left
// untouched; an empty Note removes the annotation.
type RecordPatch struct {
	Note *string
	URL  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p RecordPatch) IsEmpty() bool {
	return p.Note == nil && p.URL == nil
}

// SaveRequest is the input of GalleryService.Save.
type SaveRequest struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	ContentType string  `json:"contentType,omitempty"`
	Note        *string `json:"note,omitempty"`
}

// UpdateRequest is the input of GalleryService.Update.
type UpdateRequest struct {
	ID   string  `json:"id"`
	Note *string `json:"note,omitempty"`
	URL  *string `json:"url,omitempty"`
}

// PresignResult is a short-lived upload authorization for a freshly minted key.
type PresignResult struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
}

// Deleted reports which stores dropped their copy during a delete.
type Deleted struct {
	DDB bool `json:"ddb"`
	S3  bool `json:"s3"`
}

// DeleteResult is returned by GalleryService.Delete. Deleted.S3 is false when
// the object store removal failed after the record was already gone.
type DeleteResult struct {
	ID      string  `json:"id"`
	Deleted Deleted `json:"deleted"`
}

// FormatTime renders t in TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Tables holds configurable table names for metadata storage.
type Tables struct {
	MetaData string `mapstructure:"meta_data"`
}

var validTableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// IsValidTableName checks if a table name is usable by every backend
// (letters, digits, underscore, dot and dash, max 63 chars, no leading digit).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.MetaData == "" {
		return errors.New("validate tables: metadata table name cannot be empty")
	}

	if !IsValidTableName(t.MetaData) {
		return fmt.Errorf("validate tables: invalid metadata table name: %s (must match ^[A-Za-z_][A-Za-z0-9_.-]*$ and be <= 63 chars)", t.MetaData)
	}

	return nil
}
