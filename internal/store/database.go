package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var embedMigrations embed.FS

// Supported dialects, named as goose and database/sql know them
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Store is the persistence adapter. A Store without a connection is valid:
// every call is a no-op returning empty results, so a run without a database
// degrades to print-only mode.
type Store struct {
	db *sql.DB
}

// Disabled returns a Store with no connection
func Disabled() *Store {
	return &Store{}
}

// Enabled reports whether the store is backed by a live connection
func (s *Store) Enabled() bool {
	return s != nil && s.db != nil
}

// Open connects to Postgres when databaseURL is set, otherwise to the SQLite
// file at dbPath. With neither set it returns a disabled Store.
func Open(ctx context.Context, databaseURL, dbPath string) (*Store, error) {
	switch {
	case databaseURL != "":
		return OpenPostgres(ctx, databaseURL)
	case dbPath != "":
		return OpenSQLite(ctx, dbPath)
	default:
		log.Info().Msg("No database configured, running without persistence")
		return Disabled(), nil
	}
}

// OpenPostgres connects to Postgres and applies migrations
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open(DialectPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return finishOpen(db, DialectPostgres)
}

// OpenSQLite opens (creating if needed) a SQLite database file and applies migrations
func OpenSQLite(ctx context.Context, dbPath string) (*Store, error) {
	log.Debug().Str("path", dbPath).Msg("Opening SQLite database")

	db, err := sql.Open(DialectSQLite, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writes are sequential; one connection keeps pragmas and transactions on the same handle
	db.SetMaxOpenConns(1)

	if err := configureSQLite(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure SQLite: %w", err)
	}

	return finishOpen(db, DialectSQLite)
}

func finishOpen(db *sql.DB, dialect string) (*Store, error) {
	if err := runMigrations(db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Str("dialect", dialect).Msg("Database connection established")
	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB, dialect string) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, path.Join("migrations", dialect)); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	log.Debug().Str("dialect", dialect).Msg("Migrations completed")
	return nil
}

func configureSQLite(ctx context.Context, db *sql.DB) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "ON"},
	}

	for _, pragma := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
	}

	return nil
}

// Close releases the connection
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.db.Close()
}

// withTx runs fn in its own transaction, committing on success and rolling
// back on any error. Each logical write gets its own unit.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn().Err(rbErr).Msg("Failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
