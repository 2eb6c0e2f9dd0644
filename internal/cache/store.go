// Package cache holds the side cache used by the dish read path.
// Entries are never authoritative: the database is the source of truth and
// writers only ever delete keys.
package cache

import (
	"context"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// Store is a string key-value cache.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const dishKeyPrefix = "dish_"

// DishKey is the key of the cached dish list for one category.
func DishKey(categoryID int64) string {
	return dishKeyPrefix + strconv.FormatInt(categoryID, 10)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetJSON loads key into out. It reports false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.UnmarshalFromString(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v under key in its JSON form.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.MarshalToString(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}
