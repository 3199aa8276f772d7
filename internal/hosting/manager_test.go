package hosting

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T) *ConfigRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewConfigRepository(client)
}

func TestManager_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing uid yields nil", func(t *testing.T) {
		m := NewManager(testRepo(t), newFakeBackend(), "roomify-hosting", ".roomify.site")
		assert.Nil(t, m.GetOrCreate(ctx, ""))
	})

	t.Run("creates namespace on first use", func(t *testing.T) {
		backend := newFakeBackend()
		m := NewManager(testRepo(t), backend, "roomify-hosting", ".roomify.site")

		cfg := m.GetOrCreate(ctx, "user-1")
		require.NotNil(t, cfg)
		assert.NotEmpty(t, cfg.Slug)
		assert.Equal(t, cfg.Slug+".roomify.site", cfg.Host)
		assert.Equal(t, "roomify-hosting", cfg.RootDir)
		assert.True(t, backend.namespaces[cfg.Slug])
	})

	t.Run("two calls return the same namespace", func(t *testing.T) {
		backend := newFakeBackend()
		m := NewManager(testRepo(t), backend, "roomify-hosting", ".roomify.site")

		first := m.GetOrCreate(ctx, "user-1")
		require.NotNil(t, first)
		second := m.GetOrCreate(ctx, "user-1")
		require.NotNil(t, second)

		assert.Equal(t, first.Slug, second.Slug)
		assert.Len(t, backend.namespaces, 1)
	})

	t.Run("recreates when cached namespace no longer resolves", func(t *testing.T) {
		backend := newFakeBackend()
		m := NewManager(testRepo(t), backend, "roomify-hosting", ".roomify.site")

		first := m.GetOrCreate(ctx, "user-1")
		require.NotNil(t, first)

		// Simulate the namespace disappearing on the hosting side.
		backend.mu.Lock()
		delete(backend.namespaces, first.Slug)
		backend.mu.Unlock()

		second := m.GetOrCreate(ctx, "user-1")
		require.NotNil(t, second)
		assert.NotEqual(t, first.Slug, second.Slug)
		assert.True(t, backend.namespaces[second.Slug])
	})

	t.Run("creation failure collapses to nil", func(t *testing.T) {
		backend := newFakeBackend()
		backend.failCreate = true
		m := NewManager(testRepo(t), backend, "roomify-hosting", ".roomify.site")

		assert.Nil(t, m.GetOrCreate(ctx, "user-1"))
	})

	t.Run("separate accounts get separate namespaces", func(t *testing.T) {
		backend := newFakeBackend()
		m := NewManager(testRepo(t), backend, "roomify-hosting", ".roomify.site")

		a := m.GetOrCreate(ctx, "user-a")
		b := m.GetOrCreate(ctx, "user-b")
		require.NotNil(t, a)
		require.NotNil(t, b)
		assert.NotEqual(t, a.Slug, b.Slug)
	})
}
