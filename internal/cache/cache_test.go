package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvaqz/curvaqz/internal/cache"
)

// memoryKV is an in-process KeyValue fake, ignoring TTL.
type memoryKV struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{items: make(map[string][]byte)}
}

func (m *memoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// failingKV errors on every operation, simulating an unavailable backend.
type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("backend unavailable")
}

func (failingKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("backend unavailable")
}

type league struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func countingFetch(value []league, calls *int) cache.FetchFunc[[]league] {
	return func(ctx context.Context) ([]league, error) {
		*calls++
		return value, nil
	}
}

func TestFetch(t *testing.T) {
	t.Parallel()

	leagues := []league{{ID: 1, Name: "League 1"}}

	t.Run("second call within ttl skips the origin", func(t *testing.T) {
		t.Parallel()

		c := cache.New(newMemoryKV(), cache.Config{}, nil)
		ctx := context.Background()

		calls := 0
		first, err := cache.Fetch(ctx, c, "qz:leagues", countingFetch(leagues, &calls))
		require.NoError(t, err)
		assert.Equal(t, leagues, first)
		assert.Equal(t, 1, calls)

		second, err := cache.Fetch(ctx, c, "qz:leagues", countingFetch(leagues, &calls))
		require.NoError(t, err)
		assert.Equal(t, leagues, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("distinct keys fetch independently", func(t *testing.T) {
		t.Parallel()

		c := cache.New(newMemoryKV(), cache.Config{}, nil)
		ctx := context.Background()

		calls := 0
		_, err := cache.Fetch(ctx, c, "qz:teams:1", countingFetch(leagues, &calls))
		require.NoError(t, err)
		_, err = cache.Fetch(ctx, c, "qz:teams:2", countingFetch(leagues, &calls))
		require.NoError(t, err)
		assert.Equal(t, 2, calls)

		_, err = cache.Fetch(ctx, c, "qz:teams:1", countingFetch(leagues, &calls))
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("backend failure degrades to direct fetch", func(t *testing.T) {
		t.Parallel()

		c := cache.New(failingKV{}, cache.Config{}, nil)
		ctx := context.Background()

		calls := 0
		got, err := cache.Fetch(ctx, c, "qz:leagues", countingFetch(leagues, &calls))
		require.NoError(t, err)
		assert.Equal(t, leagues, got)
		assert.Equal(t, 1, calls)

		// Every call goes to origin while the backend is down, and the write
		// failure is swallowed.
		_, err = cache.Fetch(ctx, c, "qz:leagues", countingFetch(leagues, &calls))
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("undecodable entry is treated as a miss", func(t *testing.T) {
		t.Parallel()

		kv := newMemoryKV()
		require.NoError(t, kv.Set(context.Background(), "qz:leagues", []byte("{not json"), 0))

		c := cache.New(kv, cache.Config{}, nil)

		calls := 0
		got, err := cache.Fetch(context.Background(), c, "qz:leagues", countingFetch(leagues, &calls))
		require.NoError(t, err)
		assert.Equal(t, leagues, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("fetch errors propagate without caching", func(t *testing.T) {
		t.Parallel()

		kv := newMemoryKV()
		c := cache.New(kv, cache.Config{}, nil)
		fetchErr := errors.New("origin down")

		_, err := cache.Fetch(context.Background(), c, "qz:leagues", func(ctx context.Context) ([]league, error) {
			return nil, fetchErr
		})
		assert.ErrorIs(t, err, fetchErr)
		assert.Empty(t, kv.items)
	})

	t.Run("nil backend always fetches from origin", func(t *testing.T) {
		t.Parallel()

		c := cache.New(nil, cache.Config{}, nil)

		calls := 0
		_, err := cache.Fetch(context.Background(), c, "k", countingFetch(leagues, &calls))
		require.NoError(t, err)
		_, err = cache.Fetch(context.Background(), c, "k", countingFetch(leagues, &calls))
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestNew_TTLResolution(t *testing.T) {
	t.Parallel()

	t.Run("positive override wins", func(t *testing.T) {
		t.Parallel()
		c := cache.New(nil, cache.Config{TTLSeconds: 120}, nil)
		assert.Equal(t, 2*time.Minute, c.TTL())
	})

	t.Run("non-positive override falls back to default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, cache.DefaultTTL, cache.New(nil, cache.Config{}, nil).TTL())
		assert.Equal(t, cache.DefaultTTL, cache.New(nil, cache.Config{TTLSeconds: -5}, nil).TTL())
	})
}
