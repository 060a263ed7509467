// Package sqlstore implements storage.Store on top of sqlx, backed by either
// SQLite (pure Go driver, no CGO) or PostgreSQL.
package sqlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tripledger/internal/storage"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(DialectSQLite, sqlx.QUESTION)
}

// Store implements storage.Store with sqlx.
type Store struct {
	db      *sqlx.DB
	dialect string
}

// Open returns a store for the given database type ("sqlite" or "postgres").
// For sqlite, dsn is a file path; for postgres, a connection URL.
func Open(ctx context.Context, dbType, dsn string) (*Store, error) {
	switch dbType {
	case DialectSQLite:
		return NewSQLite(ctx, dsn)
	case DialectPostgres:
		return NewPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// NewSQLite creates a SQLite-backed store at dbPath.
// It creates the parent directories and runs migrations automatically.
func NewSQLite(ctx context.Context, dbPath string) (*Store, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open(DialectSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers and avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	return newStore(ctx, db, DialectSQLite)
}

// NewPostgres creates a PostgreSQL-backed store from a connection URL.
func NewPostgres(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sqlx.Open(DialectPostgres, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStore(ctx, db, DialectPostgres)
}

func newStore(ctx context.Context, db *sqlx.DB, dialect string) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(ctx, db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, dialect: dialect}, nil
}

// Dialect reports which database backs the store.
func (s *Store) Dialect() string {
	return s.dialect
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
