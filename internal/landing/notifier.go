// internal/landing/notifier.go
package landing

import (
	"sync"
	"time"
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 4 * time.Second

// Notifier shows toasts and hides them after a fixed duration.
//
// Each Show stops the previous hide timer and issues a new token, so the
// visible toast is always hidden by its own timer and never by an older one.
type Notifier struct {
	mu       sync.Mutex
	duration time.Duration
	dispatch func(Event)
	timer    *time.Timer
	token    uint64
	stopped  bool
}

// NewNotifier returns a Notifier that reports its transitions to dispatch.
// A non-positive duration means DefaultToastDuration.
func NewNotifier(duration time.Duration, dispatch func(Event)) *Notifier {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &Notifier{duration: duration, dispatch: dispatch}
}

// Show displays message with the given severity and schedules its hide.
// It returns the token of the new toast, or 0 after Stop.
func (n *Notifier) Show(message string, sev Severity) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return 0
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.token++
	tok := n.token
	n.dispatch(ToastShown{Message: message, Severity: sev, Token: tok})
	n.timer = time.AfterFunc(n.duration, func() { n.expire(tok) })
	return tok
}

func (n *Notifier) expire(tok uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped || tok != n.token {
		return
	}
	n.timer = nil
	n.dispatch(ToastExpired{Token: tok})
}

// Stop cancels any pending hide. Later Shows are ignored.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
