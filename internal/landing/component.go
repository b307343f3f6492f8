// internal/landing/component.go
package landing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/orderrave/plated/internal/waitlist"
	"github.com/orderrave/plated/metrics"
	"go.uber.org/zap"
)

var (
	// ErrInFlight is returned by Submit while a previous submission is pending.
	ErrInFlight = errors.New("landing: submission already in flight")
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("landing: component closed")
)

// Joiner submits a registration to the waitlist. *waitlist.Client is one.
type Joiner interface {
	Join(ctx context.Context, reg waitlist.Registration) (waitlist.Outcome, error)
}

// Config configures a Component.
type Config struct {
	Joiner        Joiner
	ToastDuration time.Duration
	Logger        *zap.Logger
}

// Component is one visitor's landing page. It is safe for concurrent use;
// every change is applied through Reduce under a single lock and published
// to subscribers.
type Component struct {
	mu       sync.Mutex
	state    State
	closed   bool
	seq      uint64 // submission sequence, used to drop stale completions
	subs     map[int]chan State
	nextSub  int
	lastSeen time.Time

	joiner   Joiner
	notifier *Notifier
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a Component with an empty form and a closed modal.
func New(cfg Config) *Component {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Component{
		subs:     make(map[int]chan State),
		lastSeen: time.Now(),
		joiner:   cfg.Joiner,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	c.notifier = NewNotifier(cfg.ToastDuration, c.dispatch)
	return c
}

// State returns a snapshot of the current state.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ToggleModal flips the modal, as the call-to-action does.
func (c *Component) ToggleModal() { c.act(ModalToggled{}) }

// OpenModal opens the modal.
func (c *Component) OpenModal() { c.act(ModalOpened{}) }

// CloseModal closes the modal. A pending submission keeps running.
func (c *Component) CloseModal() { c.act(ModalClosed{}) }

// Edit sets one form field.
func (c *Component) Edit(field Field, value string) {
	c.act(FieldEdited{Field: field, Value: value})
}

// Notify shows a toast directly.
func (c *Component) Notify(message string, sev Severity) {
	c.notifier.Show(message, sev)
}

// Submit validates the form and, when it is valid, sends it to the waitlist.
//
// The request is bound to the component's lifetime, not to ctx: if ctx ends
// first Submit returns ctx.Err() and the result is still applied when it
// arrives. Close cancels the request and discards its result.
func (c *Component) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result{}, ErrClosed
	}
	if c.state.InFlight {
		c.mu.Unlock()
		return Result{}, ErrInFlight
	}
	c.lastSeen = time.Now()

	form := c.state.Form
	if err := Validate(form); err != nil {
		c.mu.Unlock()
		var ve *ValidationError
		errors.As(err, &ve)
		res := Result{Kind: ResultInvalid, Message: ve.Message, Severity: SeverityError}
		c.notifier.Show(res.Message, res.Severity)
		metrics.ObserveSubmission(string(res.Kind))
		return res, nil
	}

	c.applyLocked(SubmitStarted{})
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	done := make(chan Result, 1)
	go func() {
		sent := Normalize(form)
		done <- c.run(seq, waitlist.Registration{Name: sent.Name, Email: sent.Email})
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// run performs the network call and applies its result. The in-flight flag
// is cleared on every path.
func (c *Component) run(seq uint64, reg waitlist.Registration) (res Result) {
	res = Result{Kind: ResultNetworkError, Message: MsgNetworkError, Severity: SeverityError}
	defer func() { c.finish(seq, res) }()

	if c.joiner == nil {
		c.logger.Error("landing component has no waitlist client")
		return res
	}

	outcome, err := c.joiner.Join(c.ctx, reg)
	res = resolve(outcome, err)
	switch res.Kind {
	case ResultNetworkError:
		c.logger.Warn("waitlist request failed", zap.Error(err))
	case ResultMalformed, ResultRejected:
		c.logger.Info("waitlist rejected submission",
			zap.String("kind", string(res.Kind)), zap.Error(err))
	}
	return res
}

func (c *Component) finish(seq uint64, res Result) {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("dropping stale submission result", zap.String("kind", string(res.Kind)))
		return
	}
	c.applyLocked(SubmitFinished{Result: res})
	c.mu.Unlock()

	c.notifier.Show(res.Message, res.Severity)
	metrics.ObserveSubmission(string(res.Kind))
}

// Subscribe returns a channel that receives the state after every change.
// Slow readers only see the latest state. The channel is closed by the
// returned cancel func or by Close.
func (c *Component) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Subscribers reports how many subscriptions are open.
func (c *Component) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Touch records visitor activity.
func (c *Component) Touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

// LastSeen returns the time of the last visitor activity.
func (c *Component) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Close cancels any pending request and toast timer and closes all
// subscriptions. Results that arrive afterwards are dropped.
func (c *Component) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	c.notifier.Stop()
}

// Done is closed once the component is closed.
func (c *Component) Done() <-chan struct{} {
	return c.ctx.Done()
}

// act applies a visitor-initiated event.
func (c *Component) act(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.lastSeen = time.Now()
	c.applyLocked(e)
}

// dispatch applies an event raised by the component itself (toast timer).
func (c *Component) dispatch(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.applyLocked(e)
}

func (c *Component) applyLocked(e Event) {
	next := Reduce(c.state, e)
	if next == c.state {
		return
	}
	c.state = next
	for _, ch := range c.subs {
		publish(ch, next)
	}
}

// publish delivers s, replacing an unread older state if the buffer is full.
func publish(ch chan State, s State) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
