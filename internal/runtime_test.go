package internal

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/readiness/pkg/health"
)

func TestRunServer_Lifecycle(t *testing.T) {
	t.Parallel()

	app := New(WithHealth(health.Config{}, WithReadinessKeys("db")))

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan string, 1)
	var shutdownCalled bool

	done := make(chan error, 1)
	go func() {
		done <- runServer(runtimeConfig{
			handler: app,
			address: "127.0.0.1:0",
			baseCtx: ctx,
			startupHooks: []func(context.Context) error{
				func(ctx context.Context) error {
					app.MarkReady(ctx, "db")
					return nil
				},
			},
			shutdownHooks: []func(context.Context) error{
				func(context.Context) error {
					shutdownCalled = true
					return nil
				},
			},
			onListen: func(addr string) { addrCh <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/health/ready")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, shutdownCalled)
}

func TestRunServer_StartupHookFailure(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	var cleaned bool

	err := runServer(runtimeConfig{
		handler:      New(),
		address:      "127.0.0.1:0",
		startupHooks: []func(context.Context) error{func(context.Context) error { return errBoom }},
		shutdownHooks: []func(context.Context) error{func(context.Context) error {
			cleaned = true
			return nil
		}},
	})
	require.ErrorIs(t, err, errBoom)
	assert.True(t, cleaned)
}

func TestRunServer_ListenError(t *testing.T) {
	t.Parallel()

	err := runServer(runtimeConfig{handler: New(), address: "256.0.0.1:99999"})
	require.Error(t, err)
}

func TestBuildRunConfig(t *testing.T) {
	t.Parallel()

	cfg := buildRunConfig(
		ShutdownTimeout(time.Second),
		ShutdownTimeout(0),
		StartupHook(nil),
		ShutdownHook(func(context.Context) error { return nil }),
		WithContext(nil),
	)
	assert.Equal(t, time.Second, cfg.shutdownTimeout)
	assert.Empty(t, cfg.startupHooks)
	assert.Len(t, cfg.shutdownHooks, 1)
	assert.Nil(t, cfg.baseCtx)
}
