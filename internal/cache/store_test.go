package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishKey(t *testing.T) {
	assert.Equal(t, "dish_7", DishKey(7))
	assert.Equal(t, "dish_1024", DishKey(1024))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "zero capacity", cfg: Config{Capacity: 0, NumShards: 1, TTL: time.Hour, EvictionPercentage: 10}, field: "Capacity"},
		{name: "zero shards", cfg: Config{Capacity: 10, NumShards: 0, TTL: time.Hour, EvictionPercentage: 10}, field: "NumShards"},
		{name: "zero ttl", cfg: Config{Capacity: 10, NumShards: 1, TTL: 0, EvictionPercentage: 10}, field: "TTL"},
		{name: "eviction too high", cfg: Config{Capacity: 10, NumShards: 1, TTL: time.Hour, EvictionPercentage: 101}, field: "EvictionPercentage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(DefaultConfig())
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "dish_1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "dish_1", `[{"id":1}]`))
	ok, err = s.Exists(ctx, "dish_1")
	require.NoError(t, err)
	assert.True(t, ok)

	v, ok, err := s.Get(ctx, "dish_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "dish_1"))
	_, ok, err = s.Get(ctx, "dish_1")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting an absent key is not an error
	assert.NoError(t, s.Delete(ctx, "dish_404"))
}

func TestNewMemoryStore_InvalidConfig(t *testing.T) {
	_, err := NewMemoryStore(Config{})
	assert.Error(t, err)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(DefaultConfig())
	require.NoError(t, err)

	type item struct {
		ID    int64    `json:"id"`
		Names []string `json:"names"`
	}

	var out []item
	ok, err := GetJSON(ctx, s, DishKey(3), &out)
	require.NoError(t, err)
	assert.False(t, ok)

	in := []item{{ID: 1, Names: []string{"Mild", "Hot"}}, {ID: 2}}
	require.NoError(t, SetJSON(ctx, s, DishKey(3), in))

	ok, err = GetJSON(ctx, s, DishKey(3), &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	require.NoError(t, s.Set(ctx, DishKey(4), "not json"))
	_, err = GetJSON(ctx, s, DishKey(4), &out)
	assert.Error(t, err)
}
