// internal/waitlist/response.go
package waitlist

import (
	"encoding/json"
	"slices"
)

// Messages the endpoint uses to report an address that is already registered.
const (
	invalidDataMessage = "The given data was invalid."
	emailTakenMessage  = "The email has already been taken."
)

// errorBody is the JSON document the endpoint returns with non-success
// statuses. Errors stays raw: with no field errors the endpoint sends an
// empty array instead of an object.
type errorBody struct {
	Message *string         `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// emailErrors returns the messages under errors.email, or nil when errors
// is not an object or email is not a list of strings.
func (b errorBody) emailErrors() []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b.Errors, &fields); err != nil {
		return nil
	}
	var msgs []string
	if err := json.Unmarshal(fields["email"], &msgs); err != nil {
		return nil
	}
	return msgs
}

// isDuplicate reports whether the body describes an email that is already
// on the waitlist.
func (b errorBody) isDuplicate() bool {
	return b.Message != nil && *b.Message == invalidDataMessage &&
		slices.Contains(b.emailErrors(), emailTakenMessage)
}

// interpretFailure turns a non-success status and its body into either the
// AlreadyJoined outcome or an error.
func interpretFailure(status int, body []byte) (Outcome, error) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return Failed, ErrMalformedResponse
	}
	if eb.isDuplicate() {
		return AlreadyJoined, nil
	}
	msg := ""
	if eb.Message != nil {
		msg = *eb.Message
	}
	return Failed, &RejectionError{Status: status, Message: msg}
}
