package storage

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/runnerr0/snufulufugus/internal/config"
)

// openTestStore creates a migrated in-memory Store for testing.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db := openTestDB(t)

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSet_Get_Roundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyInstalled, "true"))

	got, ok, err := store.Get(ctx, KeyInstalled)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", got)
}

func TestGet_MissingKey(t *testing.T) {
	store := openTestStore(t)

	got, ok, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestSet_Overwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyActivePersona, "p1"))
	require.NoError(t, store.Set(ctx, KeyActivePersona, "p2"))

	got, ok, err := store.Get(ctx, KeyActivePersona)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "p2", got)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalKeys)
}

func TestStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", stats.Backend)
	assert.Equal(t, int64(0), stats.TotalKeys)
	assert.True(t, stats.LastUpdated.IsZero())

	require.NoError(t, store.Set(ctx, "a", "123"))
	require.NoError(t, store.Set(ctx, "b", "45"))

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalKeys)
	assert.Equal(t, int64(5), stats.TotalBytes)
	assert.False(t, stats.LastUpdated.IsZero())
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "snufulufugus.db")
	ctx := context.Background()

	kv, err := OpenSQLite(dbPath, "wal")
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, KeyTargetURL, "https://example.com"))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(dbPath, "wal")
	require.NoError(t, err)
	defer kv.Close()

	got, ok, err := kv.Get(ctx, KeyTargetURL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", got)
}

func TestOpen_SelectsSQLiteBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = t.TempDir()

	kv, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer kv.Close()

	stats, err := kv.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", stats.Backend)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = "etcd"

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

// --- LoadJSON / SaveJSON ---

func TestSaveJSON_LoadJSON_Roundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	in := map[string][]string{"p1": {"a", "b"}}
	require.NoError(t, SaveJSON(ctx, store, KeyPersonaHistory, in))

	var out map[string][]string
	assert.True(t, LoadJSON(ctx, store, KeyPersonaHistory, &out, zap.NewNop()))
	assert.Equal(t, in, out)
}

func TestLoadJSON_MissingKey(t *testing.T) {
	store := openTestStore(t)

	var out map[string]string
	assert.False(t, LoadJSON(context.Background(), store, "missing", &out, nil))
	assert.Nil(t, out)
}

func TestLoadJSON_MalformedLogsAndFails(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyAgentConfig, "{not json"))

	core, logs := observer.New(zapcore.WarnLevel)
	var out map[string]string
	assert.False(t, LoadJSON(ctx, store, KeyAgentConfig, &out, zap.New(core)))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "could not parse stored value")
	assert.Equal(t, KeyAgentConfig, entry.ContextMap()["key"])
}
