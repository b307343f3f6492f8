package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orderrave/plated/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCfg struct{}
type testDeps struct{}

func TestProgram_StartStop(t *testing.T) {
	started := make(chan struct{})
	p := NewProgram(app.Hooks[testCfg, testDeps]{Name: "test"})
	p.run = func(ctx context.Context, _ app.Hooks[testCfg, testDeps]) error {
		close(started)
		<-ctx.Done()
		return nil
	}

	require.NoError(t, p.Start(nil))
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("app did not start")
	}

	assert.Error(t, p.Start(nil), "second start")
	assert.NoError(t, p.Stop(nil))
	assert.NoError(t, p.Stop(nil), "stop is idempotent")
}

func TestProgram_StopReturnsRunError(t *testing.T) {
	boom := errors.New("boom")
	p := NewProgram(app.Hooks[testCfg, testDeps]{Name: "test"})
	p.run = func(ctx context.Context, _ app.Hooks[testCfg, testDeps]) error {
		<-ctx.Done()
		return boom
	}

	require.NoError(t, p.Start(nil))
	assert.ErrorIs(t, p.Stop(nil), boom)
}

func TestControl_UnknownAction(t *testing.T) {
	err := Control(nil, "explode")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestActions(t *testing.T) {
	assert.Contains(t, Actions, "install")
	assert.Contains(t, Actions, "uninstall")
}
