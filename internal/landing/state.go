// internal/landing/state.go

// Package landing holds the per-visitor view state of the Plated landing
// page and the logic that drives it: modal visibility, the two-field signup
// form, the toast notification and the in-flight flag of a submission.
//
// All state changes go through Reduce, a pure function over State and an
// Event. Component wraps a State with the side effects (network call,
// toast timer, subscribers).
package landing

// Severity is the kind of toast being shown.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Field names one of the form inputs.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
)

// Form is the signup form as typed by the visitor.
type Form struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Toast is the transient notification. Token identifies which Show
// produced it so that a stale expiry cannot hide a newer toast.
type Toast struct {
	Visible  bool     `json:"visible"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Token    uint64   `json:"-"`
}

// State is everything the landing page renders from.
type State struct {
	ModalOpen bool  `json:"modalOpen"`
	Form      Form  `json:"form"`
	Toast     Toast `json:"toast"`
	InFlight  bool  `json:"inFlight"`
}

// Event is a state transition understood by Reduce.
type Event interface {
	apply(State) State
}

// ModalToggled flips the modal, as the call-to-action button does.
type ModalToggled struct{}

// ModalOpened opens the modal.
type ModalOpened struct{}

// ModalClosed closes the modal. It does not touch an in-flight request.
type ModalClosed struct{}

// FieldEdited replaces the value of one form field.
type FieldEdited struct {
	Field Field
	Value string
}

// ToastShown replaces the current toast.
type ToastShown struct {
	Message  string
	Severity Severity
	Token    uint64
}

// ToastExpired hides the toast if it is still the one identified by Token.
type ToastExpired struct {
	Token uint64
}

// SubmitStarted marks a submission as in flight.
type SubmitStarted struct{}

// SubmitFinished clears the in-flight flag and applies the result: a
// successful or duplicate signup closes the modal and empties the form.
type SubmitFinished struct {
	Result Result
}

// Reduce returns the state that follows s after e.
func Reduce(s State, e Event) State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

func (ModalToggled) apply(s State) State {
	s.ModalOpen = !s.ModalOpen
	return s
}

func (ModalOpened) apply(s State) State {
	s.ModalOpen = true
	return s
}

func (ModalClosed) apply(s State) State {
	s.ModalOpen = false
	return s
}

func (e FieldEdited) apply(s State) State {
	switch e.Field {
	case FieldName:
		s.Form.Name = e.Value
	case FieldEmail:
		s.Form.Email = e.Value
	}
	return s
}

func (e ToastShown) apply(s State) State {
	s.Toast = Toast{
		Visible:  true,
		Message:  e.Message,
		Severity: e.Severity,
		Token:    e.Token,
	}
	return s
}

func (e ToastExpired) apply(s State) State {
	if s.Toast.Token == e.Token {
		s.Toast.Visible = false
	}
	return s
}

func (SubmitStarted) apply(s State) State {
	s.InFlight = true
	return s
}

func (e SubmitFinished) apply(s State) State {
	s.InFlight = false
	if e.Result.Succeeded() {
		s.ModalOpen = false
		s.Form = Form{}
	}
	return s
}
