package nbupload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Remote defines the notebook service an Uploader talks to.
//
// Implementations must return an error matching ErrArtifactNotFound (via
// errors.Is) when req.OnExists is OnExistsOverwrite and no artifact named
// req.Name exists in req.Namespace. Transport-level retries, if any, belong
// to the implementation.
type Remote interface {
	// UploadNotebook stores req.Content as the artifact req.Name.
	//
	// Returns:
	//   - Artifact: the stored artifact
	//   - error: ErrArtifactNotFound, ErrArtifactExists, or any other remote error
	UploadNotebook(ctx context.Context, req UploadRequest) (Artifact, error)
}

// Uploader uploads notebooks with the overwrite-then-create sequence.
type Uploader struct {
	remote Remote
	logger *slog.Logger
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(logger *slog.Logger) UploaderOption {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUploader creates an Uploader backed by remote.
func NewUploader(remote Remote, opts ...UploaderOption) (*Uploader, error) {
	if remote == nil {
		return nil, errors.New("new uploader: remote is required")
	}

	u := &Uploader{
		remote: remote,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}

	return u, nil
}

// Upload stores nb under its display name in target.
//
// The first call asks the remote to overwrite an existing artifact. If the
// remote reports that no such artifact exists, exactly one more call is made
// without any on-exists directive. Every other failure, including a failure
// of the second call, is returned as is.
func (u *Uploader) Upload(ctx context.Context, nb Notebook, target Target) (Outcome, error) {
	if target.Namespace == "" {
		return Outcome{}, fmt.Errorf("upload: %w", ErrNamespaceRequired)
	}

	req := UploadRequest{
		Namespace:             target.Namespace,
		Name:                  nb.Name,
		Content:               nb.Content,
		StoragePath:           target.StoragePath,
		StorageCredentialName: target.StorageCredentialName,
		OnExists:              OnExistsOverwrite,
	}

	u.logger.Debug("uploading notebook", "name", req.Name, "namespace", req.Namespace, "on_exists", req.OnExists.String())
	artifact, err := u.remote.UploadNotebook(ctx, req)
	if err == nil {
		return Outcome{Artifact: artifact, Attempts: 1}, nil
	}
	if !errors.Is(err, ErrArtifactNotFound) {
		return Outcome{}, fmt.Errorf("upload %q: %w", req.Name, err)
	}

	u.logger.Info("notebook does not exist yet, creating it", "name", req.Name, "namespace", req.Namespace)
	req.OnExists = OnExistsUnset
	artifact, err = u.remote.UploadNotebook(ctx, req)
	if err != nil {
		return Outcome{}, fmt.Errorf("upload %q: create: %w", req.Name, err)
	}

	return Outcome{Artifact: artifact, Attempts: 2, Created: true}, nil
}
