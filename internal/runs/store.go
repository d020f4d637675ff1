// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runs records training runs in a SQLite registry so that every
// model directory can be traced back to the data and settings behind it.
package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Run describes one completed training run.
type Run struct {
	ID              string    `json:"id" yaml:"id"`
	StartedAt       time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt      time.Time `json:"finished_at" yaml:"finished_at"`
	DataFiles       []string  `json:"data_files" yaml:"data_files"`
	Rows            int       `json:"rows" yaml:"rows"`
	DroppedRows     int       `json:"dropped_rows" yaml:"dropped_rows"`
	TrainRows       int       `json:"train_rows" yaml:"train_rows"`
	HoldoutRows     int       `json:"holdout_rows" yaml:"holdout_rows"`
	FeatureWidth    int       `json:"feature_width" yaml:"feature_width"`
	TrainAccuracy   float64   `json:"train_accuracy" yaml:"train_accuracy"`
	HoldoutAccuracy float64   `json:"holdout_accuracy" yaml:"holdout_accuracy"`
	ModelDir        string    `json:"model_dir" yaml:"model_dir"`
}

// Store manages the run registry database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the registry at path and creates the schema
// if it does not exist.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			data_files TEXT,
			total_rows INTEGER,
			dropped_rows INTEGER,
			train_rows INTEGER,
			holdout_rows INTEGER,
			feature_width INTEGER,
			train_accuracy REAL,
			holdout_accuracy REAL,
			model_dir TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts r, replacing any run with the same ID.
func (s *Store) Record(ctx context.Context, r Run) error {
	files, err := json.Marshal(r.DataFiles)
	if err != nil {
		return fmt.Errorf("encoding data files for run %s: %w", r.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, started_at, finished_at, data_files, total_rows, dropped_rows,
			train_rows, holdout_rows, feature_width, train_accuracy, holdout_accuracy, model_dir)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(time.RFC3339Nano), r.FinishedAt.UTC().Format(time.RFC3339Nano),
		string(files), r.Rows, r.DroppedRows, r.TrainRows, r.HoldoutRows, r.FeatureWidth,
		r.TrainAccuracy, r.HoldoutAccuracy, r.ModelDir,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}
	return nil
}

const selectRun = `SELECT id, started_at, finished_at, data_files, total_rows, dropped_rows,
	train_rows, holdout_rows, feature_width, train_accuracy, holdout_accuracy, model_dir
	FROM runs`

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := selectRun + ` ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r                 Run
		started, finished string
		files             sql.NullString
		modelDir          sql.NullString
	)
	if err := sc.Scan(&r.ID, &started, &finished, &files, &r.Rows, &r.DroppedRows,
		&r.TrainRows, &r.HoldoutRows, &r.FeatureWidth, &r.TrainAccuracy, &r.HoldoutAccuracy, &modelDir); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	var err error
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parsing started_at: %w", err)
	}
	if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return Run{}, fmt.Errorf("parsing finished_at: %w", err)
	}
	if files.Valid && files.String != "" {
		if err := json.Unmarshal([]byte(files.String), &r.DataFiles); err != nil {
			return Run{}, fmt.Errorf("decoding data_files of run %s: %w", r.ID, err)
		}
	}
	r.ModelDir = modelDir.String
	return r, nil
}
