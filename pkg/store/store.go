// Package store persists extraction runs and their records in SQLite. A run
// is one invocation of the pipeline over a document set; its records are kept
// as nested JSON payloads so reloading a run reproduces the corpus exactly.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ijm11/becas-extractor/pkg/record"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Run describes one persisted extraction run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  int
	Anomalies  int
}

// Store is the SQLite-backed corpus store.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// migrations are applied in order; schema_migrations records the last
// applied version.
var migrations = []string{
	`CREATE TABLE runs (
		id          TEXT PRIMARY KEY,
		started_at  DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		documents   INTEGER NOT NULL,
		anomalies   INTEGER NOT NULL
	);
	CREATE TABLE records (
		run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		curso_academico TEXT NOT NULL,
		fichero         TEXT NOT NULL,
		leaf_count      INTEGER NOT NULL,
		payload         TEXT NOT NULL,
		PRIMARY KEY (run_id, curso_academico)
	);
	CREATE INDEX idx_records_curso ON records(curso_academico);`,
}

// Open opens (creating if needed) the store at the given database path.
// A nil logger falls back to slog.Default.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	for i, stmt := range migrations {
		version := i + 1
		if version <= current {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration %d: %w", version, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
	}
	return nil
}

// SaveRun persists the corpus as a new run and returns its metadata. The run
// ID is a fresh UUID.
func (s *Store) SaveRun(ctx context.Context, startedAt time.Time, corpus record.Corpus) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		StartedAt:  startedAt.UTC(),
		FinishedAt: time.Now().UTC(),
		Documents:  len(corpus),
	}
	for _, rec := range corpus {
		if rec.ValidationReport != nil {
			run.Anomalies += len(rec.ValidationReport.Anomalies)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, documents, anomalies)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt, run.Documents, run.Anomalies)
	if err != nil {
		return nil, fmt.Errorf("saving run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, curso_academico, fichero, leaf_count, payload)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range corpus {
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshalling record %s: %w", rec.AcademicYear, err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, rec.AcademicYear, rec.SourceID,
			rec.LeafCount(), string(payload)); err != nil {
			return nil, fmt.Errorf("saving record %s: %w", rec.AcademicYear, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Info("run saved", "run", run.ID, "documents", run.Documents, "anomalies", run.Anomalies)
	return run, nil
}

// LoadRun reloads a run and its corpus in chronological order.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, record.Corpus, error) {
	run, err := s.getRun(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM records WHERE run_id = ? ORDER BY curso_academico
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var corpus record.Corpus
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, nil, fmt.Errorf("scanning record: %w", err)
		}
		var rec record.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, nil, fmt.Errorf("unmarshalling record: %w", err)
		}
		corpus = append(corpus, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating records: %w", err)
	}

	return run, corpus, nil
}

// LatestRun returns the most recently finished run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, documents, anomalies
		FROM runs ORDER BY finished_at DESC, id LIMIT 1
	`)
	return scanRun(row)
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, documents, anomalies
		FROM runs ORDER BY finished_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
			&run.Documents, &run.Anomalies); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run and its records.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// YearHistory returns every stored record for one academic year across runs,
// most recent run first. Useful for comparing extractions after parser or
// registry changes.
func (s *Store) YearHistory(ctx context.Context, academicYear string) ([]*record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.payload FROM records r
		JOIN runs ON runs.id = r.run_id
		WHERE r.curso_academico = ?
		ORDER BY runs.finished_at DESC, runs.id
	`, academicYear)
	if err != nil {
		return nil, fmt.Errorf("querying year history: %w", err)
	}
	defer rows.Close()

	var records []*record.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var rec record.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("unmarshalling record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating year history: %w", err)
	}
	return records, nil
}

func (s *Store) getRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, documents, anomalies
		FROM runs WHERE id = ?
	`, id)
	return scanRun(row)
}

func scanRun(row *sql.Row) (*Run, error) {
	var run Run
	if err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
		&run.Documents, &run.Anomalies); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	return &run, nil
}
