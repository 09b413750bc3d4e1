package cloud

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sagarc03/nbupload"
)

// Errors for configuration validation.
var (
	ErrConfigRequired  = errors.New("config is required")
	ErrInvalidEndpoint = errors.New("invalid endpoint URL")
)

// Errors for input validation.
var (
	ErrNameRequired    = errors.New("notebook name is required")
	ErrInvalidOnExists = errors.New("invalid on_exists policy")
)

// Error codes sent by the service in the "error" field of error responses.
const (
	CodeArtifactNotFound  = "artifact_not_found"
	CodeNamespaceNotFound = "namespace_not_found"
	CodeArtifactExists    = "artifact_exists"
	CodeUnauthorized      = "unauthorized"
	CodeInvalidRequest    = "invalid_request"
)

// APIError represents an error response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	s := "server error: " + strconv.Itoa(e.StatusCode) + " - " + msg
	if e.RequestID != "" {
		s += " (request " + e.RequestID + ")"
	}
	return s
}

// Is reports whether target matches this error.
//
// It matches an *APIError with the same StatusCode, nbupload.ErrArtifactNotFound
// for a 404 that is not about a missing namespace, and nbupload.ErrArtifactExists
// for a 409.
func (e *APIError) Is(target error) bool {
	switch target {
	case nbupload.ErrArtifactNotFound:
		return e.IsNotFound() && e.Code != CodeNamespaceNotFound
	case nbupload.ErrArtifactExists:
		return e.StatusCode == http.StatusConflict
	}

	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the artifact or namespace does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the token is missing, invalid or expired (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden is returned when the token cannot write to the namespace (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}

	// ErrConflict is returned when the artifact exists and was not replaced (409).
	ErrConflict = &APIError{StatusCode: http.StatusConflict}
)
