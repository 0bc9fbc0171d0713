package stories

import "errors"

var (
	// ErrNotConfigured is returned when the base URL is missing
	ErrNotConfigured = errors.New("stories service is not configured")

	// ErrNetworkError is returned when the service cannot be reached
	ErrNetworkError = errors.New("network error")

	// ErrRejected is returned when the service answers with a non-2xx status
	ErrRejected = errors.New("stories service rejected the request")
)
