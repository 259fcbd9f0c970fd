package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/readiness/pkg/health"
	"github.com/dmitrymomot/readiness/pkg/settings"
)

// newTracker builds a tracker over in-memory settings seeded with reg (if non-nil).
func newTracker(t *testing.T, reg health.Registry, cfg health.Config) (*health.Tracker, *settings.Memory) {
	t.Helper()

	s := settings.NewMemory()
	key := cfg.RegistryKey
	if key == "" {
		key = health.DefaultRegistryKey
	}
	if reg != nil {
		s.Set(key, reg)
	}

	tr, err := health.New(health.NewSettingsStore(s), cfg)
	require.NoError(t, err)
	return tr, s
}

func staticCheck(ok bool) health.Checker {
	return health.CheckerFunc(func(context.Context) bool { return ok })
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		tr, err := health.New(health.NewSettingsStore(settings.NewMemory()), health.Config{})
		require.NoError(t, err)

		cfg := tr.Config()
		assert.Equal(t, "readiness", cfg.RegistryKey)
		assert.Equal(t, "/health/alive", cfg.AliveURL)
		assert.Equal(t, "/health/ready", cfg.ReadyURL)
		assert.False(t, cfg.ReturnBody)
		assert.False(t, cfg.CustomOnly)
		assert.Empty(t, cfg.Checks)
	})

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()

		_, err := health.New(nil, health.Config{})
		require.ErrorIs(t, err, health.ErrInvalidConfig)
	})

	t.Run("invalid paths", func(t *testing.T) {
		t.Parallel()

		_, err := health.New(health.NewSettingsStore(settings.NewMemory()), health.Config{
			ReadyURL: "health/ready",
		})
		require.ErrorIs(t, err, health.ErrInvalidConfig)
	})

	t.Run("does not touch the store", func(t *testing.T) {
		t.Parallel()

		s := settings.NewMemory()
		_, err := health.New(health.NewSettingsStore(s), health.Config{})
		require.NoError(t, err)
		assert.Empty(t, s.Keys())
	})
}

func TestTracker_MarkReady(t *testing.T) {
	t.Parallel()

	t.Run("known key flips to true", func(t *testing.T) {
		t.Parallel()

		tr, _ := newTracker(t, health.Registry{"mongoose": false, "redis": false}, health.Config{})
		tr.MarkReady(context.Background(), "mongoose")

		reg, err := tr.Registry(context.Background())
		require.NoError(t, err)
		assert.Equal(t, health.Registry{"mongoose": true, "redis": false}, reg)
	})

	t.Run("unknown key is ignored", func(t *testing.T) {
		t.Parallel()

		tr, _ := newTracker(t, health.Registry{"mongoose": false}, health.Config{})
		tr.MarkReady(context.Background(), "mongose")

		reg, err := tr.Registry(context.Background())
		require.NoError(t, err)
		assert.Equal(t, health.Registry{"mongoose": false}, reg)

		known, err := tr.Mark(context.Background(), "mongose")
		require.NoError(t, err)
		assert.False(t, known)
	})

	t.Run("unset registry stays unset", func(t *testing.T) {
		t.Parallel()

		tr, s := newTracker(t, nil, health.Config{})
		tr.MarkReady(context.Background(), "mongoose")

		_, ok := s.Get(health.DefaultRegistryKey)
		assert.False(t, ok)
	})

	t.Run("host map value is accepted", func(t *testing.T) {
		t.Parallel()

		s := settings.NewMemory(map[string]any{"deps": map[string]bool{"db": false}})
		tr, err := health.New(health.NewSettingsStore(s), health.Config{RegistryKey: "deps"})
		require.NoError(t, err)

		known, err := tr.Mark(context.Background(), "db")
		require.NoError(t, err)
		assert.True(t, known)

		reg, err := tr.Registry(context.Background())
		require.NoError(t, err)
		assert.Equal(t, health.Registry{"db": true}, reg)
	})

	t.Run("SetReady matches MarkReady", func(t *testing.T) {
		t.Parallel()

		direct, _ := newTracker(t, health.Registry{"a": false, "b": false}, health.Config{})
		helper, _ := newTracker(t, health.Registry{"a": false, "b": false}, health.Config{})

		for _, key := range []string{"a", "unknown"} {
			direct.MarkReady(context.Background(), key)
			health.SetReady(context.Background(), helper, key)

			want, err := direct.Registry(context.Background())
			require.NoError(t, err)
			got, err := helper.Registry(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})
}

func TestTracker_MarkReady_Concurrent(t *testing.T) {
	t.Parallel()

	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	reg := health.Registry{}
	for _, k := range keys {
		reg[k] = false
	}
	tr, _ := newTracker(t, reg, health.Config{})

	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			tr.MarkReady(context.Background(), k)
		}(k)
	}
	wg.Wait()

	got, err := tr.Registry(context.Background())
	require.NoError(t, err)
	assert.True(t, got.AllReady())
	assert.Len(t, got, len(keys))
}

func TestTracker_RegisterAndReset(t *testing.T) {
	t.Parallel()

	tr, _ := newTracker(t, health.Registry{"db": true}, health.Config{})
	ctx := context.Background()

	require.NoError(t, tr.Register(ctx, "db", "cache"))
	reg, err := tr.Registry(ctx)
	require.NoError(t, err)
	assert.Equal(t, health.Registry{"db": true, "cache": false}, reg)

	require.NoError(t, tr.Reset(ctx, health.Registry{"queue": false}))
	reg, err = tr.Registry(ctx)
	require.NoError(t, err)
	assert.Equal(t, health.Registry{"queue": false}, reg)
}

func TestTracker_Evaluate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	testCases := []struct {
		name    string
		reg     health.Registry
		cfg     health.Config
		wantErr error
		wantMsg string
		want    health.Data
	}{
		{
			name:    "registry not configured",
			cfg:     health.Config{},
			wantErr: health.ErrNotConfigured,
			wantMsg: "config.readiness not configured",
		},
		{
			name:    "custom registry key not configured",
			cfg:     health.Config{RegistryKey: "deps"},
			wantErr: health.ErrNotConfigured,
			wantMsg: "config.deps not configured",
		},
		{
			name:    "flags not ready",
			reg:     health.Registry{"mongoose": false},
			cfg:     health.Config{},
			wantErr: health.ErrNotReady,
			wantMsg: "Application is not ready",
		},
		{
			name: "ready without body",
			reg:  health.Registry{"mongoose": true},
			cfg:  health.Config{},
			want: health.Data{},
		},
		{
			name: "ready with body",
			reg:  health.Registry{"mongoose": true},
			cfg:  health.Config{ReturnBody: true},
			want: health.Data{"mongoose": true},
		},
		{
			name: "ready with custom results",
			reg:  health.Registry{"mongoose": true},
			cfg:  health.Config{ReturnBody: true, Checks: []health.Checker{staticCheck(true)}},
			want: health.Data{"mongoose": true, "custom": []bool{true}},
		},
		{
			name:    "failing custom check",
			reg:     health.Registry{"mongoose": true},
			cfg:     health.Config{ReturnBody: true, Checks: []health.Checker{staticCheck(false)}},
			wantErr: health.ErrNotReady,
			wantMsg: "Application is not ready",
		},
		{
			name: "custom only ignores flags",
			reg:  health.Registry{"mongoose": false},
			cfg:  health.Config{ReturnBody: true, CustomOnly: true, Checks: []health.Checker{staticCheck(true)}},
			want: health.Data{"custom": []bool{true}},
		},
		{
			name: "custom only without registry",
			cfg:  health.Config{ReturnBody: true, CustomOnly: true, Checks: []health.Checker{staticCheck(true)}},
			want: health.Data{"custom": []bool{true}},
		},
		{
			name: "custom only without checks",
			cfg:  health.Config{CustomOnly: true},
			want: health.Data{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tr, _ := newTracker(t, tc.reg, tc.cfg)
			data, err := tr.Evaluate(ctx)

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, data)

				he, ok := health.AsError(err)
				require.True(t, ok)
				assert.Equal(t, "BadRequest", he.Name)
				assert.Equal(t, tc.wantMsg, he.Message)
				assert.Equal(t, 400, he.StatusCode())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, data)
		})
	}
}

func TestTracker_Evaluate_ErrorData(t *testing.T) {
	t.Parallel()

	t.Run("not ready carries flags and custom results", func(t *testing.T) {
		t.Parallel()

		tr, _ := newTracker(t, health.Registry{"db": true}, health.Config{
			ReturnBody: true,
			Checks:     []health.Checker{staticCheck(true), staticCheck(false)},
		})

		_, err := tr.Evaluate(context.Background())
		he, ok := health.AsError(err)
		require.True(t, ok)
		assert.Equal(t, health.Data{"db": true, "custom": []bool{true, false}}, he.Data)
	})

	t.Run("without body data is empty", func(t *testing.T) {
		t.Parallel()

		tr, _ := newTracker(t, health.Registry{"db": false}, health.Config{})

		_, err := tr.Evaluate(context.Background())
		he, ok := health.AsError(err)
		require.True(t, ok)
		assert.Empty(t, he.Data)
	})

	t.Run("not configured wins over failing checks", func(t *testing.T) {
		t.Parallel()

		tr, _ := newTracker(t, nil, health.Config{Checks: []health.Checker{staticCheck(false)}})

		_, err := tr.Evaluate(context.Background())
		assert.ErrorIs(t, err, health.ErrNotConfigured)
	})
}

func TestTracker_Evaluate_CheckOrder(t *testing.T) {
	t.Parallel()

	var calls []int
	record := func(i int, ok bool) health.Checker {
		return health.CheckerFunc(func(context.Context) bool {
			calls = append(calls, i)
			return ok
		})
	}

	tr, _ := newTracker(t, health.Registry{"db": true}, health.Config{
		ReturnBody: true,
		Checks:     []health.Checker{record(0, true), record(1, false), record(2, true)},
	})

	_, err := tr.Evaluate(context.Background())
	require.ErrorIs(t, err, health.ErrNotReady)
	assert.Equal(t, []int{0, 1}, calls, "checks stop after the first failure")
}

func TestTracker_Evaluate_StoreFailure(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	tr, err := health.New(failingStore{err: errBoom}, health.Config{})
	require.NoError(t, err)

	_, err = tr.Evaluate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, health.ErrNotReady)
	assert.ErrorIs(t, err, errBoom)

	known, err := tr.Mark(context.Background(), "db")
	assert.False(t, known)
	assert.ErrorIs(t, err, errBoom)
}

func TestTracker_Evaluate_CustomOnlyIgnoresStore(t *testing.T) {
	t.Parallel()

	store := failingStore{err: errors.New("connection refused")}

	t.Run("passing check", func(t *testing.T) {
		t.Parallel()

		tr, err := health.New(store, health.Config{
			ReturnBody: true,
			CustomOnly: true,
			Checks:     []health.Checker{staticCheck(true)},
		})
		require.NoError(t, err)

		data, err := tr.Evaluate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, health.Data{"custom": []bool{true}}, data)
	})

	t.Run("failing check", func(t *testing.T) {
		t.Parallel()

		tr, err := health.New(store, health.Config{
			ReturnBody: true,
			CustomOnly: true,
			Checks:     []health.Checker{staticCheck(false)},
		})
		require.NoError(t, err)

		_, err = tr.Evaluate(context.Background())
		require.ErrorIs(t, err, health.ErrNotReady)
		he, ok := health.AsError(err)
		require.True(t, ok)
		assert.Equal(t, health.Data{"custom": []bool{false}}, he.Data)
	})
}

func TestFromErrorCheck(t *testing.T) {
	t.Parallel()

	ok := health.FromErrorCheck(func(context.Context) error { return nil })
	failing := health.FromErrorCheck(func(context.Context) error { return errors.New("down") })
	missing := health.FromErrorCheck(nil)

	assert.True(t, ok.Check(context.Background()))
	assert.False(t, failing.Check(context.Background()))
	assert.False(t, missing.Check(context.Background()))
}

type failingStore struct {
	err error
}

func (s failingStore) Load(context.Context, string) (health.Registry, error) {
	return nil, s.err
}

func (s failingStore) Save(context.Context, string, health.Registry) error {
	return s.err
}
