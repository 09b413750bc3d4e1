package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sagarc03/nbupload"
)

const (
	// DefaultTimeout is the default per-attempt HTTP timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultRetryMax is the default number of retries for transient failures.
	DefaultRetryMax = 3

	// NotebookContentType is the media type of an uploaded notebook body.
	NotebookContentType = "application/x-ipynb+json"

	// RequestIDHeader carries the per-request correlation ID.
	RequestIDHeader = "X-Request-Id"
)

// ProgressFunc returns a writer that receives the bytes of an upload body
// as they are sent. It is called once per attempt that actually sends data.
type ProgressFunc func(name string, size int64) io.Writer

// Client is an authenticated session against the notebook service.
// It implements nbupload.Remote.
type Client struct {
	config   *Config
	http     *retryablehttp.Client
	logger   *slog.Logger
	progress ProgressFunc
	user     *User
}

var _ nbupload.Remote = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithRetryMax sets how many times a transient failure is retried.
// Zero disables retries.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		c.http.RetryMax = n
	}
}

// WithRetryWait sets the minimum and maximum backoff between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = minWait
		c.http.RetryWaitMax = maxWait
	}
}

// WithLogger sets the logger for the client and its retry transport.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProgress reports upload progress.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Client) {
		c.progress = fn
	}
}

// New creates a Client with the given config and options. It does not
// contact the service; use Login to verify the token.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	rc.RetryMax = DefaultRetryMax
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		config: cfg,
		http:   rc,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.http.Logger = c.logger

	return c, nil
}

// Login creates a Client and verifies its token against the service.
// The returned Client is the session used for all further calls.
func Login(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	c, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	user, err := c.whoAmI(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.user = user
	c.logger.Debug("logged in", "username", user.Username, "endpoint", c.config.Endpoint)

	return c, nil
}

// User returns the account the session is logged in as, or nil if Login
// was not used to create the client.
func (c *Client) User() *User {
	return c.user
}

// Endpoint returns the normalized service URL.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// whoAmI returns the account that owns the token.
func (c *Client) whoAmI(ctx context.Context) (*User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.config.Endpoint+"/v1/user", nil)
	if err != nil {
		return nil, err
	}

	body, requestID, statusCode, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if statusCode != http.StatusOK {
		return nil, parseServerError(statusCode, body, requestID)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &user, nil
}

// UploadNotebook uploads req.Content as the notebook req.Name in req.Namespace.
//
// Storage path and storage credential name are sent only when set. The
// on_exists directive is omitted for nbupload.OnExistsUnset. A 404 in reply
// to an overwrite matches nbupload.ErrArtifactNotFound.
func (c *Client) UploadNotebook(ctx context.Context, req nbupload.UploadRequest) (nbupload.Artifact, error) {
	if req.Namespace == "" {
		return nbupload.Artifact{}, fmt.Errorf("upload notebook: %w", nbupload.ErrNamespaceRequired)
	}
	if req.Name == "" {
		return nbupload.Artifact{}, fmt.Errorf("upload notebook: %w", ErrNameRequired)
	}
	if !req.OnExists.IsValid() {
		return nbupload.Artifact{}, fmt.Errorf("upload notebook: %w: %q", ErrInvalidOnExists, string(req.OnExists))
	}

	target := c.config.Endpoint + "/v1/notebooks/" + url.PathEscape(req.Namespace) + "/" + url.PathEscape(req.Name)
	query := url.Values{}
	if req.OnExists != nbupload.OnExistsUnset {
		query.Set("on_exists", string(req.OnExists))
	}
	if req.StoragePath != "" {
		query.Set("storage_path", req.StoragePath)
	}
	if req.StorageCredentialName != "" {
		query.Set("storage_credential_name", req.StorageCredentialName)
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, target, c.uploadBody(req.Name, req.Content))
	if err != nil {
		return nbupload.Artifact{}, err
	}
	httpReq.Header.Set("Content-Type", NotebookContentType)
	httpReq.ContentLength = int64(len(req.Content))

	body, requestID, statusCode, err := c.do(httpReq)
	if err != nil {
		return nbupload.Artifact{}, err
	}
	if statusCode != http.StatusOK && statusCode != http.StatusCreated {
		return nbupload.Artifact{}, parseServerError(statusCode, body, requestID)
	}

	var meta serverArtifact
	if err := json.Unmarshal(body, &meta); err != nil {
		return nbupload.Artifact{}, fmt.Errorf("parse response: %w", err)
	}

	return meta.toArtifact(), nil
}

// uploadBody returns a retryable request body. With a progress hook the
// body is a ReaderFunc so every attempt reports from zero.
func (c *Client) uploadBody(name string, content []byte) any {
	if c.progress == nil {
		return content
	}
	size := int64(len(content))
	return retryablehttp.ReaderFunc(func() (io.Reader, error) {
		return &progressReader{
			r:    bytes.NewReader(content),
			open: func() io.Writer { return c.progress(name, size) },
		}, nil
	})
}

func (c *Client) newRequest(ctx context.Context, method, target string, body any) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return req, nil
}

// do executes req and returns the response body, the request ID and the status code.
func (c *Client) do(req *retryablehttp.Request) ([]byte, string, int, error) {
	requestID := req.Header.Get(RequestIDHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, requestID, 0, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if id := resp.Header.Get(RequestIDHeader); id != "" {
		requestID = id
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, requestID, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
	)
	return body, requestID, resp.StatusCode, nil
}

// parseServerError extracts the error code and message from a service response.
func parseServerError(statusCode int, body []byte, requestID string) error {
	apiErr := &APIError{
		StatusCode: statusCode,
		RequestID:  requestID,
	}

	var se serverError
	if err := json.Unmarshal(body, &se); err == nil && (se.Error != "" || se.Message != "") {
		apiErr.Code = se.Error
		apiErr.Message = se.Message
	} else {
		apiErr.Message = string(bytes.TrimSpace(body))
	}

	return apiErr
}

// progressReader copies everything read from r to the writer returned by
// open, which is only called on the first Read.
type progressReader struct {
	r    *bytes.Reader
	open func() io.Writer
	w    io.Writer
}

// Len lets retryablehttp determine the content length without reading.
func (p *progressReader) Len() int {
	return p.r.Len()
}

func (p *progressReader) Read(b []byte) (int, error) {
	if p.w == nil {
		p.w = p.open()
	}
	n, err := p.r.Read(b)
	if n > 0 {
		_, _ = p.w.Write(b[:n])
	}
	return n, err
}
