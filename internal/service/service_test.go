package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"sky-admin-go/internal/cache"
	"sky-admin-go/internal/db"
)

type fixture struct {
	store  *db.Store
	cache  *cache.MemoryStore
	emps   *EmployeeService
	dishes *DishService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := db.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(store.DB, store.Dialect))
	t.Cleanup(func() { _ = store.Close() })

	c, err := cache.NewMemoryStore(cache.DefaultConfig())
	require.NoError(t, err)

	return &fixture{
		store:  store,
		cache:  c,
		emps:   NewEmployeeService(store, discardLogger()),
		dishes: NewDishService(store, c, discardLogger()),
	}
}

func (f *fixture) category(t *testing.T, name string, typ int) int64 {
	t.Helper()
	id, err := f.store.Q.CreateCategory(context.Background(), db.CreateCategoryParams{Type: typ, Name: name, Status: db.StatusEnabled})
	require.NoError(t, err)
	return id
}

func intp(v int) *int       { return &v }
func int64p(v int64) *int64 { return &v }

// failingCache fails every operation.
type failingCache struct{}

var errCacheDown = errors.New("cache down")

func (failingCache) Exists(context.Context, string) (bool, error) { return false, errCacheDown }
func (failingCache) Get(context.Context, string) (string, bool, error) {
	return "", false, errCacheDown
}
func (failingCache) Set(context.Context, string, string) error { return errCacheDown }
func (failingCache) Delete(context.Context, string) error      { return errCacheDown }
