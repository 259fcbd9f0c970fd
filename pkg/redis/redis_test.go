package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		client, err := Open(ctx, "")
		require.ErrorIs(t, err, ErrEmptyConnectionURL)
		require.Nil(t, client)
	})

	t.Run("invalid URLs", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{
			"http://localhost:6379",
			"localhost:6379",
			"redis://localhost:notaport",
			"redis://localhost:6379/notanumber",
		} {
			client, err := Open(ctx, url)
			require.ErrorIs(t, err, ErrFailedToParseURL, url)
			require.Nil(t, client)
		}
	})

	t.Run("connects", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		client, err := Open(ctx, "redis://"+mr.Addr(), WithPoolSize(2))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, Healthcheck(client)(ctx))
	})

	t.Run("gives up after retries", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		client, err := Open(ctx, "redis://"+addr,
			WithRetry(2, 10*time.Millisecond),
			WithTimeouts(100*time.Millisecond, 0, 0),
		)
		require.ErrorIs(t, err, ErrConnectionFailed)
		require.Nil(t, client)
	})

	t.Run("cancelled during retry wait", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		defer cancel()

		_, err := Open(cctx, "redis://"+addr, WithRetry(3, time.Minute))
		require.ErrorIs(t, err, ErrConnectionFailed)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("nil client", func(t *testing.T) {
		t.Parallel()

		err := Healthcheck(nil)(context.Background())
		require.ErrorIs(t, err, ErrHealthcheckFailed)
	})

	t.Run("server down", func(t *testing.T) {
		t.Parallel()

		client, mr := newTestClient(t)
		mr.Close()

		err := Healthcheck(client)(context.Background())
		require.ErrorIs(t, err, ErrHealthcheckFailed)
	})
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	closer := &mockCloser{err: errors.New("close error")}
	err := Shutdown(closer)(context.Background())
	require.EqualError(t, err, "close error")
	assert.True(t, closer.closed)
}

func TestWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, wait(ctx, 10*time.Second), context.Canceled)
	require.NoError(t, wait(context.Background(), time.Millisecond))
}

type mockCloser struct {
	err    error
	closed bool
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}
