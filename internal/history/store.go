package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS translation_runs (
	id TEXT PRIMARY KEY,
	input_path TEXT NOT NULL,
	output_path TEXT NOT NULL,
	source_language TEXT NOT NULL,
	target_language TEXT NOT NULL,
	unit_count INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_translation_runs_input
	ON translation_runs (input_path, target_language);
`

// Record is one fully translated file. Rows are only written after the
// output file landed on disk, so the ledger never claims more than the
// filesystem holds.
type Record struct {
	ID             string
	InputPath      string
	OutputPath     string
	SourceLanguage string
	TargetLanguage string
	UnitCount      int
	Duration       time.Duration
	CreatedAt      time.Time
}

// Store is a SQLite-backed ledger of completed translation runs.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the ledger database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// RecordRun inserts a completed run, assigning its id and timestamp.
func (s *Store) RecordRun(ctx context.Context, rec Record) (Record, error) {
	if rec.InputPath == "" || rec.OutputPath == "" {
		return Record{}, fmt.Errorf("input and output paths are required")
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `INSERT INTO translation_runs
		(id, input_path, output_path, source_language, target_language, unit_count, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InputPath, rec.OutputPath, rec.SourceLanguage, rec.TargetLanguage,
		rec.UnitCount, rec.Duration.Milliseconds(), rec.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}

// Completed reports whether a run for the input path and target
// language was already recorded.
func (s *Store) Completed(ctx context.Context, inputPath, targetLanguage string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM translation_runs WHERE input_path = ? AND target_language = ?`,
		inputPath, targetLanguage).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query runs: %w", err)
	}
	return count > 0, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, input_path, output_path, source_language, target_language, unit_count, duration_ms, created_at
		FROM translation_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var durationMS int64
		if err := rows.Scan(&rec.ID, &rec.InputPath, &rec.OutputPath,
			&rec.SourceLanguage, &rec.TargetLanguage, &rec.UnitCount,
			&durationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}
