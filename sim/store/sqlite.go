// Package store saves finished simulation runs to a SQLite database.
// It records final results only; simulation state is never resumed from it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/ghostsim/ghostsim/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	policy      TEXT NOT NULL,
	ticks       INTEGER NOT NULL,
	populations INTEGER NOT NULL,
	config      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id     INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	population INTEGER NOT NULL,
	n          INTEGER NOT NULL,
	a          INTEGER NOT NULL,
	p          REAL NOT NULL,
	PRIMARY KEY (run_id, population)
);
`

// RunRecord describes a stored run.
type RunRecord struct {
	ID          int64
	CreatedAt   time.Time
	Seed        int64
	Policy      string
	Ticks       int64
	Populations int
	Config      sim.SimConfig
}

// Store is a SQLite-backed sink for run results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveRun stores cfg and its results in one transaction and returns the new run ID.
func (s *Store) SaveRun(ctx context.Context, cfg sim.SimConfig, results []sim.PopulationResult) (runID int64, retErr error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("encode config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, seed, policy, ticks, populations, config) VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), cfg.Seed, cfg.Policy.String(), cfg.Ticks, len(results), string(cfgJSON))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results (run_id, population, n, a, p) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare results insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for i, r := range results {
		if _, err := stmt.ExecContext(ctx, runID, i, r.Size, r.Altruists, r.Frequency); err != nil {
			return 0, fmt.Errorf("insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// Run loads the metadata of a stored run.
func (s *Store) Run(ctx context.Context, runID int64) (*RunRecord, error) {
	var (
		rec       RunRecord
		createdAt string
		cfgJSON   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, seed, policy, ticks, populations, config FROM runs WHERE id = ?`, runID).
		Scan(&rec.ID, &createdAt, &rec.Seed, &rec.Policy, &rec.Ticks, &rec.Populations, &cfgJSON)
	if err != nil {
		return nil, fmt.Errorf("select run %d: %w", runID, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(cfgJSON), &rec.Config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &rec, nil
}

// Results loads the results of a stored run in population order.
func (s *Store) Results(ctx context.Context, runID int64) ([]sim.PopulationResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT n, a, p FROM results WHERE run_id = ? ORDER BY population`, runID)
	if err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []sim.PopulationResult
	for rows.Next() {
		var r sim.PopulationResult
		if err := rows.Scan(&r.Size, &r.Altruists, &r.Frequency); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}
