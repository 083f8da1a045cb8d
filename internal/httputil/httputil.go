// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across commands.
package httputil

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

const (
	// DefaultTimeout applies when HTTPConfig.Timeout is zero.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent applies when HTTPConfig.UserAgent is empty.
	DefaultUserAgent = "llm-wikimedia/0.1 (https://github.com/pdiddy/llm-wikimedia)"

	maxRedirects = 10
)

// StatusError reports a response whose status code is outside 2xx.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// NewClient returns a client that follows up to ten redirects and applies
// the configured timeout.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// UserAgent returns the configured User-Agent or DefaultUserAgent.
func UserAgent(cfg types.HTTPConfig) string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return DefaultUserAgent
}

// CheckStatus returns a *StatusError for non-2xx responses. In that case
// the body is drained and closed; otherwise the response is left untouched.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	u := ""
	if resp.Request != nil && resp.Request.URL != nil {
		u = resp.Request.URL.String()
	}
	return &StatusError{StatusCode: resp.StatusCode, URL: u}
}
