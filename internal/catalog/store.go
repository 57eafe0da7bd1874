package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cwbudde/algo-partials/aggregate"
	"github.com/cwbudde/algo-partials/partials"
)

// Store manages cached analyses backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the catalog database at path, creating
// its directory when needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the cached descriptors for key in harmonic order. ok is
// false on a cache miss.
func (s *Store) Lookup(ctx context.Context, key Key) ([]aggregate.Descriptor, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM analyses WHERE path = ? AND digest = ? AND fingerprint = ?`,
		key.Path, key.Digest, key.Fingerprint,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup analysis: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT mid_freq, mid_level, level_randomization, attack, attack_profile, fit
         FROM partials WHERE analysis_id = ? ORDER BY rank`,
		id,
	)
	if err != nil {
		return nil, false, fmt.Errorf("query partials: %w", err)
	}
	defer rows.Close()

	var out []aggregate.Descriptor
	for rows.Next() {
		var (
			d   aggregate.Descriptor
			fit string
		)
		if err := rows.Scan(&d.MidFreq, &d.MidLevel, &d.LevelRandomization, &d.Attack, &d.AttackProfile, &fit); err != nil {
			return nil, false, fmt.Errorf("scan partial: %w", err)
		}
		status, ok := partials.ParseFitStatus(fit)
		if !ok {
			return nil, false, fmt.Errorf("scan partial: unknown fit status %q", fit)
		}
		d.Fit = status
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate partials: %w", err)
	}
	return out, true, nil
}

// Put records descriptors for key, replacing older analyses of the same
// path. It returns the new analysis id.
func (s *Store) Put(ctx context.Context, key Key, descs []aggregate.Descriptor) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin put tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM partials WHERE analysis_id IN (SELECT id FROM analyses WHERE path = ?)`, key.Path,
	); err != nil {
		return "", fmt.Errorf("delete stale partials: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM analyses WHERE path = ?`, key.Path); err != nil {
		return "", fmt.Errorf("delete stale analyses: %w", err)
	}

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (id, path, digest, fingerprint, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, key.Path, key.Digest, key.Fingerprint, s.now().UTC().UnixNano(),
	); err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO partials (
            analysis_id, rank, mid_freq, mid_level, level_randomization, attack, attack_profile, fit
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("prepare partial insert: %w", err)
	}
	defer stmt.Close()

	for rank, d := range descs {
		if _, err := stmt.ExecContext(ctx,
			id, rank, d.MidFreq, d.MidLevel, d.LevelRandomization, d.Attack, d.AttackProfile, d.Fit.String(),
		); err != nil {
			return "", fmt.Errorf("insert partial %d: %w", rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit put: %w", err)
	}
	return id, nil
}

// Prune deletes analyses stored more than olderThan ago and returns how many
// were removed. A non-positive olderThan removes nothing.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().Add(-olderThan).UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM partials WHERE analysis_id IN (SELECT id FROM analyses WHERE created_at < ?)`, cutoff,
	); err != nil {
		return 0, fmt.Errorf("prune partials: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM analyses WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune analyses: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return removed, nil
}

// Count returns the number of cached analyses.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM analyses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return n, nil
}
