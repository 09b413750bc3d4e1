package nbupload

import "errors"

// Errors for local notebook validation.
var (
	// ErrNotebookNotFound is returned when the notebook path does not exist
	ErrNotebookNotFound = errors.New("notebook file does not exist")
	// ErrNotebookIsDir is returned when the notebook path is a directory
	ErrNotebookIsDir = errors.New("notebook path is a directory")
	// ErrInvalidExtension is returned when the notebook file is not an .ipynb file
	ErrInvalidExtension = errors.New("invalid notebook file extension")
)

// Errors for credential validation.
var (
	ErrTokenRequired     = errors.New("missing API token")
	ErrNamespaceRequired = errors.New("missing namespace")
)

// Errors reported by a Remote.
var (
	// ErrArtifactNotFound is returned when an overwrite was requested for an
	// artifact that does not exist yet.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrArtifactExists is returned when an artifact already exists and the
	// request did not allow replacing it.
	ErrArtifactExists = errors.New("artifact already exists")
)
