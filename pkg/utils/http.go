// Package utils provides common utility functions.
package utils

import (
	"net/http"
	"net/url"
	"path"
	"strings"
)

// DefaultUserAgent identifies outgoing requests when no other is configured.
const DefaultUserAgent = "seopress/1.0"

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct{}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper() *HTTPHelper {
	return &HTTPHelper{}
}

// IsValidURL reports whether raw is an absolute http or https URL with a host.
func (h *HTTPHelper) IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FileNameFromURL returns the last path segment of raw, or fallback when the
// URL has none.
func (h *HTTPHelper) FileNameFromURL(raw, fallback string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fallback
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return fallback
	}

	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	return name
}

// BuildHeaders creates HTTP headers with defaults. Custom values replace the
// defaults for the same key.
func (h *HTTPHelper) BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	// Add default headers
	headers.Set("User-Agent", DefaultUserAgent)
	headers.Set("Accept", "application/json, text/html")

	// Add custom headers
	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
