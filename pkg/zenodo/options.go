package zenodo

import (
	"net/http"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Option is a functor to configure a Zenodo client
type Option func(*Client)

// BaseURL of the Zenodo service, e.g. https://sandbox.zenodo.org
func BaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// HTTPClient replaces the default retrying HTTP client
func HTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// Fs sets the file system downloads are written to
func Fs(fs afero.Fs) Option {
	return func(c *Client) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// PageSize sets the number of records retrieved per search request
func PageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// Logger sets the logger for this client
func Logger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
