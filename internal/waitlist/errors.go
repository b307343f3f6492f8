// internal/waitlist/errors.go
package waitlist

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a non-success response carries a
// body that is not the expected JSON error document.
var ErrMalformedResponse = errors.New("waitlist: malformed error response")

// RejectionError is a non-success response that is not a duplicate signup.
// Message is the server's own message and may be empty.
type RejectionError struct {
	Status  int
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("waitlist: rejected with status %d", e.Status)
	}
	return fmt.Sprintf("waitlist: rejected with status %d: %s", e.Status, e.Message)
}

// TransportError means the request never produced a response.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("waitlist: request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
