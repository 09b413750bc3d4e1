// Package cloudtest provides an in-memory notebook service for tests.
package cloudtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sagarc03/nbupload"
	"github.com/sagarc03/nbupload/cloud"
)

// Upload records one upload request received by the server.
type Upload struct {
	Namespace             string
	Name                  string
	OnExists              string
	HasOnExists           bool
	StoragePath           string
	HasStoragePath        bool
	StorageCredentialName string
	HasStorageCredential  bool
	ContentType           string
	Token                 string
	RequestID             string
	Body                  []byte
	Status                int
}

// Artifact is a stored notebook.
type Artifact struct {
	ID                    uuid.UUID
	Namespace             string
	Name                  string
	Content               []byte
	StoragePath           string
	StorageCredentialName string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type fault struct {
	status int
	left   int
}

// Server is a fake notebook service backed by an httptest.Server.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	tokens     map[string]string // token -> username
	namespaces map[string]bool
	artifacts  map[string]*Artifact
	uploads    []Upload
	faults     []fault
}

// NewServer starts a server that accepts token for user and owns namespaces.
// The caller must call Close.
func NewServer(token, user string, namespaces ...string) *Server {
	s := &Server{
		tokens:     map[string]string{token: user},
		namespaces: make(map[string]bool),
		artifacts:  make(map[string]*Artifact),
	}
	for _, ns := range namespaces {
		s.namespaces[ns] = true
	}

	r := chi.NewRouter()
	r.Get("/v1/user", s.handleUser)
	r.Post("/v1/notebooks/{namespace}/{name}", s.handleUpload)

	s.Server = httptest.NewServer(r)
	return s
}

// Seed stores an existing notebook.
func (s *Server) Seed(namespace, name string, content []byte) *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.namespaces[namespace] = true
	now := time.Now().UTC()
	a := &Artifact{
		ID:        uuid.New(),
		Namespace: namespace,
		Name:      name,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.artifacts[key(namespace, name)] = a
	return a
}

// FailNext makes the next n requests fail with status before any other handling.
func (s *Server) FailNext(status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{status: status, left: n})
}

// Uploads returns the upload requests received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Upload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

// Artifact returns a stored notebook, or nil.
func (s *Server) Artifact(namespace, name string) *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artifacts[key(namespace, name)]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	if status, ok := s.takeFault(); ok {
		writeError(w, status, "injected", "injected failure")
		return
	}

	user, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, cloud.CodeUnauthorized, "invalid or missing API token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": user})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")
	query := r.URL.Query()
	body, _ := io.ReadAll(r.Body)

	rec := Upload{
		Namespace:             namespace,
		Name:                  name,
		OnExists:              query.Get("on_exists"),
		HasOnExists:           query.Has("on_exists"),
		StoragePath:           query.Get("storage_path"),
		HasStoragePath:        query.Has("storage_path"),
		StorageCredentialName: query.Get("storage_credential_name"),
		HasStorageCredential:  query.Has("storage_credential_name"),
		ContentType:           r.Header.Get("Content-Type"),
		Token:                 strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
		RequestID:             r.Header.Get("X-Request-Id"),
		Body:                  body,
	}

	status, resp := s.upload(r, rec)
	rec.Status = status

	s.mu.Lock()
	s.uploads = append(s.uploads, rec)
	s.mu.Unlock()

	w.Header().Set("X-Request-Id", rec.RequestID)
	writeJSON(w, status, resp)
}

func (s *Server) upload(r *http.Request, rec Upload) (int, any) {
	if status, ok := s.takeFault(); ok {
		return status, errorBody("injected", "injected failure")
	}
	if _, ok := s.authenticate(r); !ok {
		return http.StatusUnauthorized, errorBody(cloud.CodeUnauthorized, "invalid or missing API token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.namespaces[rec.Namespace] {
		return http.StatusNotFound, errorBody(cloud.CodeNamespaceNotFound, fmt.Sprintf("namespace %q does not exist", rec.Namespace))
	}

	policy, err := nbupload.ParseOnExists(rec.OnExists)
	if err != nil {
		return http.StatusBadRequest, errorBody(cloud.CodeInvalidRequest, err.Error())
	}

	name := rec.Name
	existing, exists := s.artifacts[key(rec.Namespace, name)]

	switch policy {
	case nbupload.OnExistsUnset, nbupload.OnExistsFail:
		if exists {
			return http.StatusConflict, errorBody(cloud.CodeArtifactExists, fmt.Sprintf("notebook %q already exists", name))
		}
	case nbupload.OnExistsOverwrite:
		if !exists {
			return http.StatusNotFound, errorBody(cloud.CodeArtifactNotFound, fmt.Sprintf("notebook %q does not exist", name))
		}
	case nbupload.OnExistsOmit:
		if exists {
			return http.StatusOK, toResponse(existing)
		}
	case nbupload.OnExistsAutoIncrement:
		for i := 1; exists; i++ {
			name = fmt.Sprintf("%s-%d", rec.Name, i)
			_, exists = s.artifacts[key(rec.Namespace, name)]
		}
	}

	now := time.Now().UTC()
	if exists && policy == nbupload.OnExistsOverwrite {
		existing.Content = rec.Body
		existing.StoragePath = rec.StoragePath
		existing.StorageCredentialName = rec.StorageCredentialName
		existing.UpdatedAt = now
		return http.StatusOK, toResponse(existing)
	}

	a := &Artifact{
		ID:                    uuid.New(),
		Namespace:             rec.Namespace,
		Name:                  name,
		Content:               rec.Body,
		StoragePath:           rec.StoragePath,
		StorageCredentialName: rec.StorageCredentialName,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	s.artifacts[key(rec.Namespace, name)] = a
	return http.StatusCreated, toResponse(a)
}

func (s *Server) authenticate(r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.tokens[token]
	return user, ok
}

func (s *Server) takeFault() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.faults) == 0 {
		return 0, false
	}
	f := &s.faults[0]
	f.left--
	status := f.status
	if f.left <= 0 {
		s.faults = s.faults[1:]
	}
	return status, true
}

func key(namespace, name string) string {
	return namespace + "/" + name
}

func toResponse(a *Artifact) map[string]any {
	return map[string]any{
		"id":         a.ID.String(),
		"namespace":  a.Namespace,
		"name":       a.Name,
		"uri":        "cloud://" + a.Namespace + "/" + a.Name,
		"size_bytes": len(a.Content),
		"created_at": a.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": a.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func errorBody(code, message string) map[string]string {
	return map[string]string{"error": code, "message": message}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody(code, message))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
