package cms

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when no CMS base URL is set. No request
	// is attempted.
	ErrNotConfigured = errors.New("cms base url not configured")

	// ErrMissingData is returned when a response has a success status but no
	// data key (or data is null).
	ErrMissingData = errors.New("cms response missing data")
)

// StatusError is a non-success HTTP response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cms responded with status %d", e.Status)
}
