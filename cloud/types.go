package cloud

import (
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/nbupload"
)

// User is the account a token belongs to.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// serverArtifact mirrors the JSON response of a notebook upload.
type serverArtifact struct {
	ID        uuid.UUID `json:"id"`
	Namespace string    `json:"namespace"`
	Name      string    `json:"name"`
	URI       string    `json:"uri"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a serverArtifact) toArtifact() nbupload.Artifact {
	uri := a.URI
	if uri == "" {
		uri = nbupload.ArtifactURI(a.Namespace, a.Name)
	}
	return nbupload.Artifact{
		ID:        a.ID,
		Namespace: a.Namespace,
		Name:      a.Name,
		URI:       uri,
		Size:      a.SizeBytes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// serverError mirrors the JSON body of an error response.
type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
