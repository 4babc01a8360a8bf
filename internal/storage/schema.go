package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const currentSchemaVersion = 1

func (db *DB) initializeSchema() error {
	return db.WithTx(context.Background(), func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createResultsTable(tx); err != nil {
			return err
		}
		return setSchemaVersion(tx, currentSchemaVersion)
	})
}

// runMigrations rebuilds the cache when it was written by another schema
// version. Cached results can always be recomputed.
func (db *DB) runMigrations() error {
	version, err := db.schemaVersion()
	if err != nil {
		return err
	}
	if version == currentSchemaVersion {
		return nil
	}
	db.logger.Info("rebuilding result cache", "from_version", version, "to_version", currentSchemaVersion)
	return db.WithTx(context.Background(), func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DROP TABLE IF EXISTS results",
			"DROP TABLE IF EXISTS schema_version",
		} {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createResultsTable(tx); err != nil {
			return err
		}
		return setSchemaVersion(tx, currentSchemaVersion)
	})
}

func (db *DB) schemaVersion() (int, error) {
	var name string
	err := db.conn.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// createResultsTable stores one row per checked file.
func createResultsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			path TEXT PRIMARY KEY,
			content_hash BLOB NOT NULL,
			ruleset_hash BLOB NOT NULL,
			payload BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create results table: %w", err)
	}
	return nil
}
