package cloud

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/nbupload"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, outcome nbupload.Outcome) error
	FormatError(w io.Writer, err error) error
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

// FormatUpload formats an upload outcome as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, outcome nbupload.Outcome) error {
	if f.Quiet {
		return nil
	}
	a := &outcome.Artifact
	verb := "Uploaded"
	if outcome.Created {
		verb = "Created"
	}
	_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", verb, a.URI, formatSize(a.Size))
	if a.ID != uuid.Nil {
		_, _ = fmt.Fprintf(w, "  ID: %s\n", a.ID)
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload formats an upload outcome as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, outcome nbupload.Outcome) error {
	a := &outcome.Artifact
	output := struct {
		ID        string `json:"id"`
		Namespace string `json:"namespace"`
		Name      string `json:"name"`
		URI       string `json:"uri"`
		Size      int64  `json:"size_bytes"`
		CreatedAt string `json:"created_at,omitempty"`
		UpdatedAt string `json:"updated_at,omitempty"`
		Attempts  int    `json:"attempts"`
		Created   bool   `json:"created"`
	}{
		ID:        a.ID.String(),
		Namespace: a.Namespace,
		Name:      a.Name,
		URI:       a.URI,
		Size:      a.Size,
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
		Attempts:  outcome.Attempts,
		Created:   outcome.Created,
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

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
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
