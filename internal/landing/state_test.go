package landing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduce_Modal(t *testing.T) {
	s := State{}
	s = Reduce(s, ModalToggled{})
	assert.True(t, s.ModalOpen)
	s = Reduce(s, ModalToggled{})
	assert.False(t, s.ModalOpen)
	s = Reduce(s, ModalOpened{})
	assert.True(t, s.ModalOpen)
	s = Reduce(s, ModalClosed{})
	assert.False(t, s.ModalOpen)
}

func TestReduce_FieldEdited(t *testing.T) {
	s := Reduce(State{}, FieldEdited{Field: FieldName, Value: "Ada"})
	s = Reduce(s, FieldEdited{Field: FieldEmail, Value: "ada@example.com"})
	s = Reduce(s, FieldEdited{Field: Field("phone"), Value: "123"})
	assert.Equal(t, Form{Name: "Ada", Email: "ada@example.com"}, s.Form)
}

func TestReduce_ToastExpiryMatchesToken(t *testing.T) {
	s := Reduce(State{}, ToastShown{Message: "first", Severity: SeverityError, Token: 1})
	s = Reduce(s, ToastShown{Message: "second", Severity: SeveritySuccess, Token: 2})

	// The first toast's timer fires late: the newer toast stays.
	s = Reduce(s, ToastExpired{Token: 1})
	assert.True(t, s.Toast.Visible)
	assert.Equal(t, "second", s.Toast.Message)
	assert.Equal(t, SeveritySuccess, s.Toast.Severity)

	s = Reduce(s, ToastExpired{Token: 2})
	assert.False(t, s.Toast.Visible)
}

func TestReduce_SubmitFinished(t *testing.T) {
	filled := State{
		ModalOpen: true,
		Form:      Form{Name: "A", Email: "x@y.com"},
		InFlight:  true,
	}

	tests := []struct {
		name      string
		result    Result
		wantModal bool
		wantForm  Form
	}{
		{"joined", Result{Kind: ResultJoined}, false, Form{}},
		{"already joined", Result{Kind: ResultAlreadyJoined}, false, Form{}},
		{"rejected", Result{Kind: ResultRejected}, true, filled.Form},
		{"network", Result{Kind: ResultNetworkError}, true, filled.Form},
		{"malformed", Result{Kind: ResultMalformed}, true, filled.Form},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(filled, SubmitFinished{Result: tt.result})
			assert.False(t, s.InFlight)
			assert.Equal(t, tt.wantModal, s.ModalOpen)
			assert.Equal(t, tt.wantForm, s.Form)
		})
	}
}

func TestReduce_SubmitStartedAndNil(t *testing.T) {
	s := Reduce(State{}, SubmitStarted{})
	assert.True(t, s.InFlight)
	assert.Equal(t, s, Reduce(s, nil))
}
