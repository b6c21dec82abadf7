package omeka

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrTransport classifies failures below HTTP: DNS, connection, timeout
	ErrTransport = errors.New("omeka transport error")
	// ErrHTTPStatus classifies responses outside the 2xx range
	ErrHTTPStatus = errors.New("omeka HTTP status error")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid omeka configuration")
)

// RequestError represents a failed request against the Omeka API
type RequestError struct {
	Method     string
	URL        string // credentials redacted
	StatusCode int    // 0 for transport failures
	Body       string
	Err        error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("omeka request %s %s failed: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("omeka request %s %s failed with status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Unwrap returns the underlying transport error, if any
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is classify the failure with ErrTransport or ErrHTTPStatus
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.StatusCode == 0
	case ErrHTTPStatus:
		return e.StatusCode != 0
	}
	return false
}

// IsNotFound checks if the error indicates a not found response
func (e *RequestError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *RequestError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// DownloadError represents a failed media download
type DownloadError struct {
	URL  string
	Path string
	Err  error
}

// Error implements the error interface
func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s to %s: %v", e.URL, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *DownloadError) Unwrap() error {
	return e.Err
}
