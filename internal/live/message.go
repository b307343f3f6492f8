// internal/live/message.go
package live

import (
	"fmt"

	"github.com/orderrave/plated/internal/landing"
)

// Command types sent by the page.
const (
	CmdOpenModal   = "open_modal"
	CmdCloseModal  = "close_modal"
	CmdToggleModal = "toggle_modal"
	CmdEdit        = "edit"
	CmdSubmit      = "submit"
)

// Message types sent to the page.
const (
	MsgState = "state"
	MsgError = "error"
)

// Command is one client instruction.
type Command struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// Message is one server push. State is set for "state" messages, Message
// for "error" messages.
type Message struct {
	Type    string         `json:"type"`
	State   *landing.State `json:"state,omitempty"`
	Message string         `json:"message,omitempty"`
}

func stateMessage(s landing.State) Message {
	return Message{Type: MsgState, State: &s}
}

func errorMessage(err error) Message {
	return Message{Type: MsgError, Message: err.Error()}
}

// apply performs a synchronous command on c. Submit is not handled here
// since it blocks on the network.
func apply(c *landing.Component, cmd Command) error {
	switch cmd.Type {
	case CmdOpenModal:
		c.OpenModal()
	case CmdCloseModal:
		c.CloseModal()
	case CmdToggleModal:
		c.ToggleModal()
	case CmdEdit:
		f := landing.Field(cmd.Field)
		if f != landing.FieldName && f != landing.FieldEmail {
			return fmt.Errorf("%w: %q", ErrUnknownField, cmd.Field)
		}
		c.Edit(f, cmd.Value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}
