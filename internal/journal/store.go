package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the journal database after schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Batch statuses persisted in the journal.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusEmpty     = "empty"
)

// BatchRecord is the audit row for one sort invocation.
type BatchRecord struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Destination string
	DryRun      bool
	Movie       bool
	Sequences   int
	Files       int
	Status      string
	Error       string
}

// SequenceRecord is the audit row for one sequence within a batch.
type SequenceRecord struct {
	BatchID    string
	Ordinal    int
	Folder     string
	FirstFrame int
	LastFrame  int
	Files      int
	MoviePath  string
}

// Store persists batch history in SQLite. The sorting engine never reads it
// back; every invocation scans the filesystem fresh.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordBatch inserts a batch and its sequence rows in one transaction.
func (s *Store) RecordBatch(ctx context.Context, batch BatchRecord, sequences []SequenceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (
            id, started_at, finished_at, destination, dry_run, movie,
            sequences, files, status, error
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.ID,
		batch.StartedAt.UTC().Format(time.RFC3339Nano),
		batch.FinishedAt.UTC().Format(time.RFC3339Nano),
		batch.Destination,
		boolToInt(batch.DryRun),
		boolToInt(batch.Movie),
		batch.Sequences,
		batch.Files,
		batch.Status,
		nullableString(batch.Error),
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	for _, seq := range sequences {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO batch_sequences (
                batch_id, ordinal, folder, first_frame, last_frame, files, movie_path
            ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			batch.ID,
			seq.Ordinal,
			seq.Folder,
			seq.FirstFrame,
			seq.LastFrame,
			seq.Files,
			nullableString(seq.MoviePath),
		)
		if err != nil {
			return fmt.Errorf("insert sequence %d: %w", seq.Ordinal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// ListBatches returns the most recent batches, newest first.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]BatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, destination, dry_run, movie,
                sequences, files, status, COALESCE(error, '')
         FROM batches ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []BatchRecord
	for rows.Next() {
		var (
			record              BatchRecord
			started, finished   string
			dryRunInt, movieInt int
		)
		if err := rows.Scan(&record.ID, &started, &finished, &record.Destination,
			&dryRunInt, &movieInt, &record.Sequences, &record.Files,
			&record.Status, &record.Error); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		record.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		record.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		record.DryRun = dryRunInt != 0
		record.Movie = movieInt != 0
		batches = append(batches, record)
	}
	return batches, rows.Err()
}

// BatchSequences returns the sequence rows for one batch in ordinal order.
func (s *Store) BatchSequences(ctx context.Context, batchID string) ([]SequenceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT batch_id, ordinal, folder, first_frame, last_frame, files, COALESCE(movie_path, '')
         FROM batch_sequences WHERE batch_id = ? ORDER BY ordinal`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	var sequences []SequenceRecord
	for rows.Next() {
		var record SequenceRecord
		if err := rows.Scan(&record.BatchID, &record.Ordinal, &record.Folder,
			&record.FirstFrame, &record.LastFrame, &record.Files, &record.MoviePath); err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		sequences = append(sequences, record)
	}
	return sequences, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
