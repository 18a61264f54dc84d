package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/snufulufugus/internal/config"
)

// ownedSQLiteStore closes its *sql.DB along with the prepared statements.
type ownedSQLiteStore struct {
	*SQLiteStore
	db *sql.DB
}

func (s *ownedSQLiteStore) Close() error {
	s.SQLiteStore.Close()
	return s.db.Close()
}

// Open returns the KV backend selected by cfg.Storage.Backend. The returned
// store owns its connection; Close releases everything.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return DialRedis(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisDB, cfg.Storage.RedisKeyPrefix)
	case "sqlite", "":
		dbPath, err := cfg.SQLitePath()
		if err != nil {
			return nil, err
		}
		return OpenSQLite(dbPath, cfg.Storage.SQLiteJournalMode)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// OpenSQLite opens (creating if needed) the database at dbPath, runs
// migrations, and returns a ready-to-use store.
func OpenSQLite(dbPath, journalMode string) (KV, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Writes are serialised by the controller; one connection also keeps
	// :memory: databases from fragmenting across the pool.
	db.SetMaxOpenConns(1)

	runner := NewMigrationRunner(db).WithJournalMode(journalMode)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create store: %w", err)
	}

	return &ownedSQLiteStore{SQLiteStore: store, db: db}, nil
}
