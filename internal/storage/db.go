// Package storage keeps the optional result cache in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	perrors "plum/internal/errors"
)

// DB is a database connection with transaction helpers
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
	path   string
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA temp_store=MEMORY",
}

// Open opens or creates the database at path and brings its schema up to
// date. Failures are CacheUnavailable errors.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, perrors.New(perrors.CacheUnavailable, "cannot create cache directory", err)
	}
	exists := fileExists(path)

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, perrors.New(perrors.CacheUnavailable, "cannot open cache", err)
	}
	// one writer at a time; WAL still lets readers through
	conn.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, perrors.New(perrors.CacheUnavailable, "cannot configure cache", err)
		}
	}

	db := &DB{conn: conn, logger: logger, path: path}
	if !exists {
		logger.Debug("creating cache database", "path", path)
		err = db.initializeSchema()
	} else {
		err = db.runMigrations()
	}
	if err != nil {
		_ = conn.Close()
		return nil, perrors.New(perrors.CacheUnavailable, "cannot prepare cache schema", err)
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// WithTx runs fn in a transaction, rolled back when fn fails or panics.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("failed to rollback transaction", "error", err, "rollback_error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
