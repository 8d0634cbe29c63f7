package feed

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/xalps/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every single request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithBaseURLs points the client at another host, e.g. an httptest server.
// overview is the full overview document URL, data the race data host.
func WithBaseURLs(overview, data string) Option {
	return func(c *Client) {
		if overview != "" {
			c.overviewURL = overview
		}
		if data != "" {
			c.dataURL = strings.TrimRight(data, "/")
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
