package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEndpoint indicates a malformed collector endpoint. Not retryable.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrEncodingFailure indicates the sample could not be encoded. Not retryable.
	ErrEncodingFailure = errors.New("encoding failure")
)

// StatusError reports a non-2xx response from the collector. Retryable.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server status: %d", e.Code)
}
