package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sagarc03/gallery"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, results []UploadResult) error
	FormatList(w io.Writer, items []gallery.Record) error
	FormatRecord(w io.Writer, rec gallery.Record) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatUpload formats upload results as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.LocalPath, r.Err)
			continue
		}
		if f.Quiet {
			_, _ = fmt.Fprintln(w, r.Item.ID)
			continue
		}
		_, _ = fmt.Fprintf(w, "Uploaded: %s -> %s (%s)\n", r.LocalPath, r.Item.ID, formatSize(r.Size))
		_, _ = fmt.Fprintf(w, "  URL: %s\n", r.Item.URL)
	}
	return nil
}

// FormatList formats records as a table, newest first.
func (f *HumanFormatter) FormatList(w io.Writer, items []gallery.Record) error {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "No items found")
		return nil
	}

	if f.Quiet {
		for i := range items {
			_, _ = fmt.Fprintln(w, items[i].ID)
		}
		return nil
	}

	maxIDLen := 2 // "ID"
	for i := range items {
		maxIDLen = max(maxIDLen, len(items[i].ID))
	}
	maxIDLen = min(maxIDLen, 60)

	_, _ = fmt.Fprintf(w, "%-*s  %-24s  %-20s  %s\n", maxIDLen, "ID", "CREATED", "TYPE", "NOTE")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
		strings.Repeat("-", maxIDLen), strings.Repeat("-", 24), strings.Repeat("-", 20), strings.Repeat("-", 4))

	for i := range items {
		it := &items[i]
		_, _ = fmt.Fprintf(w, "%-*s  %-24s  %-20s  %s\n",
			maxIDLen,
			truncate(it.ID, maxIDLen),
			orDash(it.CreatedAt),
			truncate(orDash(it.ContentType), 20),
			orDash(it.Note),
		)
	}

	_, _ = fmt.Fprintf(w, "\n%d item(s)\n", len(items))
	return nil
}

// FormatRecord prints a single record after an update.
func (f *HumanFormatter) FormatRecord(w io.Writer, rec gallery.Record) error {
	if f.Quiet {
		return nil
	}
	_, _ = fmt.Fprintf(w, "Updated: %s\n", rec.ID)
	_, _ = fmt.Fprintf(w, "  URL:  %s\n", orDash(rec.URL))
	_, _ = fmt.Fprintf(w, "  Note: %s\n", orDash(rec.Note))
	return nil
}

// FormatDelete formats delete results as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		switch {
		case r.Err != nil:
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.ID, r.Err)
		case !r.Deleted.S3:
			_, _ = fmt.Fprintf(w, "Deleted: %s (object could not be removed from the bucket)\n", r.ID)
		case !f.Quiet:
			_, _ = fmt.Fprintf(w, "Deleted: %s\n", r.ID)
		}
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
// The default profile is marked with an asterisk.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	maxNameLen := 4 // "NAME"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
	}
	maxNameLen = min(maxNameLen, 20)

	_, _ = fmt.Fprintf(w, "  %-*s  %s\n", maxNameLen, "NAME", "ENDPOINT")
	_, _ = fmt.Fprintf(w, "  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", 8))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %-*s  %s\n", marker, maxNameLen, truncate(p.Name, maxNameLen), p.Endpoint)
	}

	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload formats upload results as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	type jsonResult struct {
		LocalPath string          `json:"local_path"`
		Size      int64           `json:"size_bytes,omitempty"`
		Item      *gallery.Record `json:"item,omitempty"`
		Error     string          `json:"error,omitempty"`
	}

	output := make([]jsonResult, len(results))
	for i := range results {
		r := &results[i]
		jr := jsonResult{LocalPath: r.LocalPath}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.Size = r.Size
			jr.Item = &r.Item
		}
		output[i] = jr
	}

	return writeJSON(w, output)
}

// FormatList formats records as JSON in the server's list shape.
func (f *JSONFormatter) FormatList(w io.Writer, items []gallery.Record) error {
	return writeJSON(w, listResponse{Items: items})
}

// FormatRecord formats a single record as JSON.
func (f *JSONFormatter) FormatRecord(w io.Writer, rec gallery.Record) error {
	return writeJSON(w, rec)
}

// FormatDelete formats delete results as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	type jsonResult struct {
		ID      string          `json:"id"`
		Deleted gallery.Deleted `json:"deleted"`
		Error   string          `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i, r := range results {
		jr := jsonResult{ID: r.ID, Deleted: r.Deleted}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		output.Results[i] = jr
	}

	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	output := struct {
		Profiles []Profile `json:"profiles"`
	}{
		Profiles: make([]Profile, len(profiles)),
	}
	for i, p := range profiles {
		p.Default = p.Name == defaultName
		output.Profiles[i] = p
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n || n <= 3 {
		return s
	}
	return s[:n-3] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
