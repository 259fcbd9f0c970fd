package redis

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/readiness/pkg/health"
)

const defaultKeyPrefix = "readiness"

// StoreOption configures a RegistryStore.
type StoreOption func(*RegistryStore)

// WithKeyPrefix sets the hash key prefix. Default: "readiness".
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *RegistryStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithInstanceID sets the instance ID embedded in keys. Default: a random UUID.
func WithInstanceID(id string) StoreOption {
	return func(s *RegistryStore) {
		if id != "" {
			s.instanceID = id
		}
	}
}

// WithTTL expires registries that go untouched for d. Every Load and Save
// refreshes the expiry. Default: no expiry; keys live until Purge.
func WithTTL(d time.Duration) StoreOption {
	return func(s *RegistryStore) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// RegistryStore is a health.Store backed by one Redis hash per registry key.
// Field values are "true" or "false".
type RegistryStore struct {
	client     redis.UniversalClient
	written    map[string]struct{}
	prefix     string
	instanceID string
	ttl        time.Duration
	mu         sync.Mutex
}

var _ health.Store = (*RegistryStore)(nil)

// NewRegistryStore creates a store on client.
func NewRegistryStore(client redis.UniversalClient, opts ...StoreOption) *RegistryStore {
	s := &RegistryStore{
		client:     client,
		written:    make(map[string]struct{}),
		prefix:     defaultKeyPrefix,
		instanceID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InstanceID returns the instance ID embedded in this store's keys.
func (s *RegistryStore) InstanceID() string {
	return s.instanceID
}

// Key returns the Redis key holding the registry stored under key.
func (s *RegistryStore) Key(key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, s.instanceID, key)
}

// Load reads the registry hash. A missing hash is an empty registry.
func (s *RegistryStore) Load(ctx context.Context, key string) (health.Registry, error) {
	k := s.Key(key)
	var get *redis.MapStringStringCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGetAll(ctx, k)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields := get.Val()

	reg := make(health.Registry, len(fields))
	for name, raw := range fields {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFlag, name, raw)
		}
		reg[name] = v
	}
	return reg, nil
}

// Save replaces the registry hash atomically.
func (s *RegistryStore) Save(ctx context.Context, key string, r health.Registry) error {
	k := s.Key(key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		if len(r) == 0 {
			return nil
		}
		values := make([]any, 0, len(r)*2)
		for _, name := range r.Keys() {
			values = append(values, name, strconv.FormatBool(r[name]))
		}
		pipe.HSet(ctx, k, values...)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.written[k] = struct{}{}
	s.mu.Unlock()
	return nil
}

// Purge deletes every key this store has written.
// It has the shutdown hook signature.
func (s *RegistryStore) Purge(ctx context.Context) error {
	s.mu.Lock()
	keys := slices.Collect(maps.Keys(s.written))
	clear(s.written)
	s.mu.Unlock()

	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Join(fmt.Errorf("redis: purge %d registry keys", len(keys)), err)
	}
	return nil
}
