package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type dialect struct {
	schema string
	get    string
	set    string
	remove string
}

var postgresDialect = dialect{
	schema: `
		CREATE TABLE IF NOT EXISTS kv_store (
			store_key   TEXT PRIMARY KEY,
			store_value TEXT NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	get: `SELECT store_value FROM kv_store WHERE store_key = $1`,
	set: `
		INSERT INTO kv_store (store_key, store_value)
		VALUES ($1, $2)
		ON CONFLICT (store_key) DO UPDATE
		SET store_value = EXCLUDED.store_value,
		    updated_at  = NOW()`,
	remove: `DELETE FROM kv_store WHERE store_key = $1`,
}

var sqliteDialect = dialect{
	schema: `
		CREATE TABLE IF NOT EXISTS kv_store (
			store_key   TEXT PRIMARY KEY,
			store_value TEXT NOT NULL,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	get: `SELECT store_value FROM kv_store WHERE store_key = ?`,
	set: `
		INSERT INTO kv_store (store_key, store_value)
		VALUES (?, ?)
		ON CONFLICT(store_key) DO UPDATE
		SET store_value = excluded.store_value,
		    updated_at  = CURRENT_TIMESTAMP`,
	remove: `DELETE FROM kv_store WHERE store_key = ?`,
}

// SQLStore keeps every key as one row of the kv_store table.
type SQLStore struct {
	DB      *sql.DB
	Timeout time.Duration
	dialect dialect
}

// NewPostgresStore wraps an open PostgreSQL handle. Call Migrate before use.
func NewPostgresStore(db *sql.DB, timeout time.Duration) *SQLStore {
	return &SQLStore{DB: db, Timeout: timeout, dialect: postgresDialect}
}

// OpenSQLite opens (or creates) a single-file database at path and ensures
// the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time, sqlite locks the whole file anyway
	db.SetMaxOpenConns(1)

	s := &SQLStore{DB: db, Timeout: DefaultTimeout, dialect: sqliteDialect}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the kv_store table if it is missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.DB.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var value string
	err := s.DB.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.DB.ExecContext(ctx, s.dialect.set, key, value); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.DB.ExecContext(ctx, s.dialect.remove, key); err != nil {
		return unavailable("remove", key, err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}

func (s *SQLStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}
