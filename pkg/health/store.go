package health

import "context"

// Store persists the readiness registry under a key.
// The tracker reads and writes through it but does not own its lifecycle;
// the host may replace the stored registry at any time.
type Store interface {
	// Load returns the registry stored under key.
	// A missing registry is returned as an empty Registry with a nil error.
	Load(ctx context.Context, key string) (Registry, error)

	// Save replaces the registry stored under key.
	Save(ctx context.Context, key string, r Registry) error
}

// Settings is the host's generic key/value settings store.
type Settings interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// settingsStore keeps the registry as a value in host settings.
type settingsStore struct {
	settings Settings
}

// NewSettingsStore returns a Store that keeps the registry in host settings.
// Values of type Registry and map[string]bool are recognized on read;
// anything else under the key is treated as an unset registry.
func NewSettingsStore(s Settings) Store {
	return &settingsStore{settings: s}
}

func (s *settingsStore) Load(_ context.Context, key string) (Registry, error) {
	v, ok := s.settings.Get(key)
	if !ok {
		return Registry{}, nil
	}
	switch r := v.(type) {
	case Registry:
		return r.Clone(), nil
	case map[string]bool:
		return Registry(r).Clone(), nil
	default:
		return Registry{}, nil
	}
}

func (s *settingsStore) Save(_ context.Context, key string, r Registry) error {
	s.settings.Set(key, r.Clone())
	return nil
}
