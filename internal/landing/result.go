// internal/landing/result.go
package landing

import (
	"errors"

	"github.com/orderrave/plated/internal/waitlist"
)

// Toast texts shown to visitors.
const (
	MsgMissingFields  = "Please enter your name and email."
	MsgInvalidEmail   = "Please enter a valid email."
	MsgJoined         = "You're on the waitlist! 🎉"
	MsgAlreadyJoined  = "You're already on the waitlist! 🎉"
	MsgNetworkError   = "Network error. Please try again."
	MsgGenericFailure = "An error occurred."
)

// ResultKind classifies how a submission ended.
type ResultKind string

const (
	ResultInvalid       ResultKind = "invalid"
	ResultJoined        ResultKind = "joined"
	ResultAlreadyJoined ResultKind = "already_joined"
	ResultRejected      ResultKind = "rejected"
	ResultNetworkError  ResultKind = "network_error"
	ResultMalformed     ResultKind = "malformed_response"
)

// Result is the visitor-facing outcome of one submission.
type Result struct {
	Kind     ResultKind `json:"kind"`
	Message  string     `json:"message"`
	Severity Severity   `json:"severity"`
}

// Succeeded reports whether the visitor ended up on the waitlist.
func (r Result) Succeeded() bool {
	return r.Kind == ResultJoined || r.Kind == ResultAlreadyJoined
}

// resolve maps a waitlist call's outcome onto the toast the visitor sees.
func resolve(outcome waitlist.Outcome, err error) Result {
	var rej *waitlist.RejectionError
	switch {
	case err == nil && outcome == waitlist.Joined:
		return Result{Kind: ResultJoined, Message: MsgJoined, Severity: SeveritySuccess}
	case err == nil && outcome == waitlist.AlreadyJoined:
		return Result{Kind: ResultAlreadyJoined, Message: MsgAlreadyJoined, Severity: SeveritySuccess}
	case errors.As(err, &rej):
		msg := rej.Message
		if msg == "" {
			msg = MsgGenericFailure
		}
		return Result{Kind: ResultRejected, Message: msg, Severity: SeverityError}
	case errors.Is(err, waitlist.ErrMalformedResponse):
		return Result{Kind: ResultMalformed, Message: MsgGenericFailure, Severity: SeverityError}
	default:
		return Result{Kind: ResultNetworkError, Message: MsgNetworkError, Severity: SeverityError}
	}
}
