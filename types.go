package nbupload

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotebookExt is the only accepted notebook file extension.
const NotebookExt = ".ipynb"

// OnExists tells the remote service what to do when an artifact with the
// requested name already exists.
type OnExists string

const (
	// OnExistsUnset sends no directive; the service creates a new artifact
	// and rejects the request if one already exists.
	OnExistsUnset OnExists = ""
	// OnExistsFail rejects the request if the artifact exists.
	OnExistsFail OnExists = "fail"
	// OnExistsOverwrite replaces an existing artifact. The service rejects it
	// with a not found error when there is nothing to replace.
	OnExistsOverwrite OnExists = "overwrite"
	// OnExistsOmit keeps the existing artifact and skips the upload.
	OnExistsOmit OnExists = "omit"
	// OnExistsAutoIncrement stores the upload under a suffixed name.
	OnExistsAutoIncrement OnExists = "auto_increment"
)

// IsValid reports whether o is a known policy.
func (o OnExists) IsValid() bool {
	switch o {
	case OnExistsUnset, OnExistsFail, OnExistsOverwrite, OnExistsOmit, OnExistsAutoIncrement:
		return true
	default:
		return false
	}
}

func (o OnExists) String() string {
	if o == OnExistsUnset {
		return "unset"
	}
	return string(o)
}

// ParseOnExists parses a policy name. The empty string and "unset" map to OnExistsUnset.
func ParseOnExists(s string) (OnExists, error) {
	if s == "unset" {
		return OnExistsUnset, nil
	}
	o := OnExists(s)
	if !o.IsValid() {
		return OnExistsUnset, fmt.Errorf("parse on_exists: unknown policy %q", s)
	}
	return o, nil
}

// Notebook is a local notebook file that passed validation.
type Notebook struct {
	Path    string
	Name    string // display name: base name without extension
	Ext     string
	Content []byte
}

// Size returns the content length in bytes.
func (n Notebook) Size() int64 {
	return int64(len(n.Content))
}

// Target identifies where a notebook is uploaded.
type Target struct {
	Namespace             string
	StoragePath           string // optional, empty means service default
	StorageCredentialName string // optional, empty means service default
}

// UploadRequest is a single upload call against a Remote.
type UploadRequest struct {
	Namespace             string
	Name                  string
	Content               []byte
	StoragePath           string
	StorageCredentialName string
	OnExists              OnExists
}

// Artifact is the remote representation of an uploaded notebook.
type Artifact struct {
	ID        uuid.UUID `json:"id"`
	Namespace string    `json:"namespace"`
	Name      string    `json:"name"`
	URI       string    `json:"uri"`
	Size      int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Outcome describes how an upload completed.
type Outcome struct {
	Artifact Artifact `json:"artifact"`
	// Attempts is the number of upload calls issued (1 or 2).
	Attempts int `json:"attempts"`
	// Created is true when the artifact did not exist and the
	// upload was repeated without the overwrite directive.
	Created bool `json:"created"`
}
