package match

import (
	"errors"
	"fmt"
)

// ErrTooFewComparisons is returned before any I/O when a submission has
// fewer than model.MinComparisons comparison images.
var ErrTooFewComparisons = errors.New("at least 2 comparison images are required")

// ServerError reports a non-success response or an unreadable success
// body from the match server.
type ServerError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Message is the server's "error" field, or a description of what was
	// wrong with the response. Empty when the server gave no reason.
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (HTTP %d)", e.StatusCode)
}
