// internal/landing/validate.go
package landing

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// emailPattern is one '@', at least one '.' after it, and no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a form problem caught before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks f in order: both fields present, then email shape.
func Validate(f Form) error {
	if f.Name == "" || f.Email == "" {
		return &ValidationError{Message: MsgMissingFields}
	}
	if !emailPattern.MatchString(f.Email) {
		return &ValidationError{Message: MsgInvalidEmail}
	}
	return nil
}

// Normalize puts the name in Unicode NFC for sending. It runs after
// Validate and leaves the email untouched.
func Normalize(f Form) Form {
	return Form{Name: norm.NFC.String(f.Name), Email: f.Email}
}
