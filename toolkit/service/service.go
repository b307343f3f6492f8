// toolkit/service/service.go

// Package service runs an app under the host's service manager (Windows
// SCM, systemd, launchd) and installs or removes it there.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kardianos/service"
	"github.com/orderrave/plated/app"
)

// Actions accepted by Control in addition to "run".
var Actions = service.ControlAction[:]

// ErrUnknownAction is returned by Control for an action it does not know.
var ErrUnknownAction = errors.New("service: unknown action")

// Program drives app.Run from the service manager.
//
// C = app-specific config type
// D = app-specific deps bundle type
type Program[C any, D any] struct {
	Hooks app.Hooks[C, D]

	// run defaults to app.Run; tests replace it.
	run func(ctx context.Context, hooks app.Hooks[C, D]) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

// NewProgram returns a Program running hooks.
func NewProgram[C any, D any](hooks app.Hooks[C, D]) *Program[C, D] {
	return &Program[C, D]{Hooks: hooks, run: app.Run[C, D]}
}

// Start is called by the service manager. It must not block, so the app
// runs in its own goroutine.
func (p *Program[C, D]) Start(s service.Service) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return fmt.Errorf("service: %s already started", p.Hooks.Name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	p.cancel = cancel
	p.done = done

	run := p.run
	if run == nil {
		run = app.Run[C, D]
	}
	go func() {
		err := run(ctx, p.Hooks)
		done <- err
		if err != nil && s != nil {
			// the app stopped on its own; let the manager know
			_ = s.Stop()
		}
	}()
	return nil
}

// Stop cancels the app and waits for its graceful shutdown.
func (p *Program[C, D]) Stop(s service.Service) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	return <-done
}

// Config describes how the service is registered.
type Config struct {
	Name        string
	DisplayName string
	Description string
	// Arguments are passed to the executable when the manager starts it.
	Arguments []string
}

// New wraps prg for the host's service manager.
func New(prg service.Interface, cfg Config) (service.Service, error) {
	return service.New(prg, &service.Config{
		Name:        cfg.Name,
		DisplayName: cfg.DisplayName,
		Description: cfg.Description,
		Arguments:   cfg.Arguments,
	})
}

// Control runs action against svc: "run" blocks under the service
// manager, any of Actions changes the installed service.
func Control(svc service.Service, action string) error {
	if action == "run" {
		return svc.Run()
	}
	for _, a := range Actions {
		if a == action {
			return service.Control(svc, action)
		}
	}
	return fmt.Errorf("%w %q (want run or one of %v)", ErrUnknownAction, action, Actions)
}
