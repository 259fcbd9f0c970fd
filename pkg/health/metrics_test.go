package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a minimal Store for in-package tests.
type memStore struct {
	regs map[string]Registry
}

func (s *memStore) Load(_ context.Context, key string) (Registry, error) {
	return s.regs[key].Clone(), nil
}

func (s *memStore) Save(_ context.Context, key string, r Registry) error {
	if s.regs == nil {
		s.regs = make(map[string]Registry)
	}
	s.regs[key] = r.Clone()
	return nil
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test")
	reg := prometheus.NewRegistry()
	m.MustRegister(reg)

	store := &memStore{}
	tr, err := New(store, Config{}, WithMetrics(m))
	require.NoError(t, err)

	ctx := context.Background()

	_, err = tr.Evaluate(ctx)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.InDelta(t, 1, testutil.ToFloat64(m.probesTotal.WithLabelValues(probeReadiness, resultNotConfigured)), 0)

	require.NoError(t, tr.Register(ctx, "db"))
	assert.InDelta(t, 0, testutil.ToFloat64(m.flag.WithLabelValues("db")), 0)

	_, err = tr.Evaluate(ctx)
	require.ErrorIs(t, err, ErrNotReady)
	assert.InDelta(t, 1, testutil.ToFloat64(m.probesTotal.WithLabelValues(probeReadiness, resultNotReady)), 0)

	tr.MarkReady(ctx, "db")
	assert.InDelta(t, 1, testutil.ToFloat64(m.flag.WithLabelValues("db")), 0)

	_, err = tr.Evaluate(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(m.probesTotal.WithLabelValues(probeReadiness, resultOK)), 0)

	rec := httptest.NewRecorder()
	tr.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/alive", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(m.probesTotal.WithLabelValues(probeLiveness, resultOK)), 0)

	assert.Len(t, m.Collectors(), 2)
}

func TestMetrics_ResetDropsRemovedKeys(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test")
	tr, err := New(&memStore{}, Config{}, WithMetrics(m))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, tr.Register(ctx, "db", "cache"))
	assert.Equal(t, 2, testutil.CollectAndCount(m.flag))

	require.NoError(t, tr.Reset(ctx, Registry{"db": true}))
	assert.Equal(t, 1, testutil.CollectAndCount(m.flag))
	assert.InDelta(t, 1, testutil.ToFloat64(m.flag.WithLabelValues("db")), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeProbe(probeReadiness, resultOK)
		m.observeRegistry(Registry{"db": true})
	})
}
