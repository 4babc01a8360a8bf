package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"

	perrors "plum/internal/errors"
	"plum/internal/lint"
)

// ResultCache remembers the diagnostics of files whose content and rule
// set did not change since the last run.
type ResultCache struct {
	db          *DB
	rulesetHash []byte
	logger      *slog.Logger

	// ids and skip describe per-path rule exclusions, see WithSkip
	ids  []string
	skip func(path, ruleID string) bool
}

var _ lint.Cache = (*ResultCache)(nil)

// NewResultCache returns a cache bound to one rule set hash, usually from
// RulesetHash.
func NewResultCache(db *DB, rulesetHash []byte, logger *slog.Logger) *ResultCache {
	return &ResultCache{db: db, rulesetHash: rulesetHash, logger: logger}
}

// WithSkip keys every entry on the rules skipped for its path as well, so
// a changed path override invalidates the files it covers. ids are the
// rule ids of the run and skip is the runner's predicate; a nil skip
// leaves the cache unchanged.
func (c *ResultCache) WithSkip(ids []string, skip func(path, ruleID string) bool) *ResultCache {
	c.ids = append([]string(nil), ids...)
	sort.Strings(c.ids)
	c.skip = skip
	return c
}

// keyFor is the ruleset hash of the rules that actually run on path.
func (c *ResultCache) keyFor(path string) []byte {
	if c.skip == nil {
		return c.rulesetHash
	}
	var skipped []string
	for _, id := range c.ids {
		if c.skip(path, id) {
			skipped = append(skipped, id)
		}
	}
	if len(skipped) == 0 {
		return c.rulesetHash
	}
	h, _ := blake2b.New256(nil)
	h.Write(c.rulesetHash)
	for _, id := range skipped {
		h.Write([]byte{0})
		h.Write([]byte(id))
	}
	return h.Sum(nil)
}

// RulesetHash identifies a rule set: ids, severities, file kinds and the
// current settings of every check, plus a caller version string.
func RulesetHash(checks []lint.Check, version string) []byte {
	type entry struct {
		ID       string         `json:"id"`
		Severity lint.Severity  `json:"severity"`
		Level    lint.Level     `json:"level"`
		Kinds    lint.FileKind  `json:"kinds"`
		Settings map[string]any `json:"settings,omitempty"`
	}
	entries := make([]entry, 0, len(checks))
	for _, c := range checks {
		e := entry{ID: c.Rule.ID(), Severity: c.Severity, Level: c.Severity.Level, Kinds: c.Kinds}
		if cfg, ok := c.Rule.(lint.Configurable); ok {
			e.Settings = cfg.DefaultSettings()
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	// json sorts map keys, which keeps the hash stable
	data, _ := json.Marshal(struct {
		Version string  `json:"version"`
		Checks  []entry `json:"checks"`
	}{version, entries})
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Lookup returns the cached diagnostics of path when both hashes match.
func (c *ResultCache) Lookup(path string, content []byte) ([]lint.Diagnostic, bool) {
	var contentHash, rulesetHash, payload []byte
	err := c.db.conn.QueryRow(
		"SELECT content_hash, ruleset_hash, payload FROM results WHERE path = ?", path,
	).Scan(&contentHash, &rulesetHash, &payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Warn("Cache lookup failed", "file", path, "error", err.Error())
		}
		return nil, false
	}

	sum := blake2b.Sum256(content)
	if !bytes.Equal(contentHash, sum[:]) || !bytes.Equal(rulesetHash, c.keyFor(path)) {
		return nil, false
	}
	diags, err := decodeDiagnostics(path, payload)
	if err != nil {
		c.logger.Warn("Dropping corrupt cache entry", "file", path, "error", err.Error())
		return nil, false
	}
	return diags, true
}

// Store records the diagnostics of path, replacing any previous entry.
func (c *ResultCache) Store(path string, content []byte, diags []lint.Diagnostic) error {
	sum := blake2b.Sum256(content)
	_, err := c.db.conn.Exec(`
		INSERT INTO results (path, content_hash, ruleset_hash, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			ruleset_hash = excluded.ruleset_hash,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, path, sum[:], c.keyFor(path), encodeDiagnostics(diags), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return perrors.New(perrors.CacheUnavailable, "cannot store cache entry", err)
	}
	return nil
}

// Clear removes every entry and returns how many there were.
func (db *DB) Clear(ctx context.Context) (int64, error) {
	var n int64
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM results")
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, perrors.New(perrors.CacheUnavailable, "cannot clear cache", err)
	}
	return n, nil
}

// Count returns the number of cached files.
func (db *DB) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM results").Scan(&n); err != nil {
		return 0, perrors.New(perrors.CacheUnavailable, "cannot count cache entries", err)
	}
	return n, nil
}
