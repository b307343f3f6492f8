// internal/live/errors.go
package live

import (
	"errors"

	"github.com/coder/websocket"
)

var (
	// ErrConnectionClosed is returned when writing to a closed connection.
	ErrConnectionClosed = errors.New("live: connection closed")

	// ErrExpectedText is returned when a binary frame arrives.
	ErrExpectedText = errors.New("live: expected text message")

	// ErrMalformedCommand is returned for a frame that is not a JSON command.
	ErrMalformedCommand = errors.New("live: malformed command")

	// ErrUnknownCommand is returned for a command type the page does not send.
	ErrUnknownCommand = errors.New("live: unknown command")

	// ErrUnknownField is returned for an edit of a field the form lacks.
	ErrUnknownField = errors.New("live: unknown form field")
)

// isNormalClose reports whether err is the peer going away politely.
func isNormalClose(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
