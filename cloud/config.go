package cloud

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sagarc03/nbupload"
)

// DefaultEndpoint is the default notebook service API URL.
const DefaultEndpoint = "https://api.cloud.example.com"

// Config holds the connection settings for a Client.
type Config struct {
	Endpoint string
	Token    string
}

// WithDefaults returns a copy of the config with default values applied.
// If Endpoint is empty, it defaults to DefaultEndpoint.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")
	return &cfg
}

// Validate checks that the endpoint is an http(s) URL and a token is set.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidEndpoint, c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidEndpoint, c.Endpoint)
	}
	if c.Token == "" {
		return nbupload.ErrTokenRequired
	}
	return nil
}
