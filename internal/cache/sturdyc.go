package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the sturdyc options used by the in-process store.
type Config struct {
	// Capacity is the maximum number of entries. Must be greater than 0.
	Capacity int

	// NumShards spreads keys over independently locked shards. Must be greater than 0.
	NumShards int

	// TTL bounds how long an entry may live. sturdyc requires a positive value;
	// keep it long so entries live until a write deletes them.
	TTL time.Duration

	// EvictionPercentage is the share of entries dropped when Capacity is reached (1-100).
	EvictionPercentage int
}

func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          16,
		TTL:                365 * 24 * time.Hour,
		EvictionPercentage: 10,
	}
}

func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache config error in field " + e.Field + ": " + e.Message
}

// MemoryStore is a Store backed by a sturdyc client.
type MemoryStore struct {
	client *sturdyc.Client[string]
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(cfg Config) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[string](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)
	return &MemoryStore{client: client}, nil
}

func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.client.Get(key)
	return ok, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := s.client.Get(key)
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.client.Set(key, value)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	return s.client.Size()
}
