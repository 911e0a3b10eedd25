package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))
	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", v)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))
	_, ok, err = s.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, s.Set(ctx, "", "x"), ErrEmptyKey)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	storeContract(t, s)
	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Set(context.Background(), "a", "b"), ErrClosed)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	storeContract(t, s)

	require.NoError(t, s.Set(context.Background(), "kept", "yes"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	v, ok, err := reopened.Get(context.Background(), "kept")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "yes", v)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TIMELINE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TIMELINE_TEST_REDIS_ADDR not set")
	}
	cfg := DefaultConfig().Redis
	cfg.Addr = addr
	cfg.Prefix = "timeline:test:" + t.Name() + ":"
	s, err := OpenRedis(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	storeContract(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{}, nil)
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Config{Backend: "SQLite", Path: filepath.Join(t.TempDir(), "p.db")}, nil)
	require.NoError(t, err)
	require.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Backend: "etcd"}, nil)
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	r := NewRecent(NewMemory(), KeyRecentTemplates, 3)

	for _, id := range []string{"a", "b", "c", "a", "d", ""} {
		require.NoError(t, r.Touch(ctx, id))
	}
	items, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "c"}, items)

	require.NoError(t, r.Remove(ctx, "a"))
	items, _ = r.List(ctx)
	assert.Equal(t, []string{"d", "c"}, items)

	require.NoError(t, r.Clear(ctx))
	items, _ = r.List(ctx)
	assert.Empty(t, items)
}

func TestPinned(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	p := NewPinned(store, KeyPinnedEffects)

	require.NoError(t, p.Pin(ctx, "blur"))
	require.NoError(t, p.Pin(ctx, "sepia"))
	require.NoError(t, p.Pin(ctx, "blur"))
	items, err := p.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"blur", "sepia"}, items)

	pinned, err := p.Toggle(ctx, "blur")
	require.NoError(t, err)
	assert.False(t, pinned)
	pinned, err = p.Toggle(ctx, "glow")
	require.NoError(t, err)
	assert.True(t, pinned)

	ok, err := p.IsPinned(ctx, "glow")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, p.Unpin(ctx, "sepia"))
	require.NoError(t, p.Unpin(ctx, "glow"))
	_, present, _ := store.Get(ctx, KeyPinnedEffects)
	assert.False(t, present)

	require.NoError(t, store.Set(ctx, KeyPinnedEffects, "not json"))
	_, err = p.List(ctx)
	require.Error(t, err)
}
