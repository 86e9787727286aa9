package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/booktran/internal"
)

// ErrNotFound is returned when a job or glossary entry does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		genre TEXT NOT NULL,
		models TEXT NOT NULL,
		chunks INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		status TEXT DEFAULT 'running',
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	-- attempts keeps one row per model call; chunk text is never stored
	CREATE TABLE IF NOT EXISTS attempts (
		job_id TEXT NOT NULL,
		chunk_idx INTEGER NOT NULL,
		model TEXT NOT NULL,
		outcome TEXT NOT NULL,
		status_code INTEGER DEFAULT 0,
		latency_ms INTEGER DEFAULT 0,
		error TEXT DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (job_id) REFERENCES jobs(id)
	);

	-- glossary stores user-defined terminology for consistent translation of specific terms
	CREATE TABLE IF NOT EXISTS glossary (
		id TEXT PRIMARY KEY,
		target_lang TEXT NOT NULL,
		source_term TEXT NOT NULL,
		target_term TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(target_lang, source_term)
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_started ON jobs(started_at);
	CREATE INDEX IF NOT EXISTS idx_attempts_job ON attempts(job_id, chunk_idx);
	CREATE INDEX IF NOT EXISTS idx_glossary_lookup ON glossary(target_lang);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateJob records a job as running.
func (s *Store) CreateJob(ctx context.Context, job internal.JobRecord) error {
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, input_path, output_path, target_lang, genre, models, status, started_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.InputPath, job.OutputPath, job.TargetLang, job.Genre, strings.Join(job.Models, ","), internal.JobRunning, job.StartedAt.UTC())
	return err
}

// FinishJob stores the final status and counters of a job.
func (s *Store) FinishJob(ctx context.Context, id, status string, chunks, failed int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, chunks = ?, failed = ?, finished_at = ? WHERE id = ?`,
		status, chunks, failed, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) SaveAttempt(ctx context.Context, a internal.AttemptRecord) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (job_id, chunk_idx, model, outcome, status_code, latency_ms, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.JobID, a.Chunk, a.Model, a.Outcome, a.StatusCode, a.Latency.Milliseconds(), a.Error, a.CreatedAt.UTC())
	return err
}

const jobColumns = `id, input_path, output_path, target_lang, genre, models, chunks, failed, status, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (internal.JobRecord, error) {
	var (
		j        internal.JobRecord
		models   string
		finished sql.NullTime
	)
	err := row.Scan(&j.ID, &j.InputPath, &j.OutputPath, &j.TargetLang, &j.Genre, &models, &j.Chunks, &j.Failed, &j.Status, &j.StartedAt, &finished)
	if err != nil {
		return j, err
	}
	if models != "" {
		j.Models = strings.Split(models, ",")
	}
	if finished.Valid {
		j.FinishedAt = finished.Time
	}
	return j, nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*internal.JobRecord, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// ListJobs returns the most recent jobs first. limit <= 0 returns all.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]internal.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []internal.JobRecord
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// ListAttempts returns a job's attempts in chunk order.
func (s *Store) ListAttempts(ctx context.Context, jobID string) ([]internal.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, chunk_idx, model, outcome, status_code, latency_ms, error, created_at FROM attempts WHERE job_id = ? ORDER BY chunk_idx, rowid`,
		jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []internal.AttemptRecord
	for rows.Next() {
		var a internal.AttemptRecord
		var latencyMs int64
		if err := rows.Scan(&a.JobID, &a.Chunk, &a.Model, &a.Outcome, &a.StatusCode, &latencyMs, &a.Error, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Latency = time.Duration(latencyMs) * time.Millisecond
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// ModelStat summarises how a model performed across all recorded jobs.
type ModelStat struct {
	Model        string
	Attempts     int
	Successes    int
	AvgLatencyMs float64
}

func (s *Store) ModelStats(ctx context.Context) ([]ModelStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			model,
			COUNT(*),
			COALESCE(SUM(CASE WHEN outcome = 'ok' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(latency_ms), 0)
		FROM attempts
		GROUP BY model
		ORDER BY COUNT(*) DESC, model`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []ModelStat
	for rows.Next() {
		var st ModelStat
		if err := rows.Scan(&st.Model, &st.Attempts, &st.Successes, &st.AvgLatencyMs); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// ClearJobs removes every job and attempt and returns the number of jobs removed.
func (s *Store) ClearJobs(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attempts`); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent term comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// GlossaryEntry represents a row in the glossary table.
type GlossaryEntry struct {
	ID         string
	TargetLang string
	SourceTerm string
	TargetTerm string
	CreatedAt  time.Time
}

// AddGlossaryTerm inserts a term or replaces the translation of an existing one.
func (s *Store) AddGlossaryTerm(ctx context.Context, targetLang, sourceTerm, targetTerm string) error {
	sourceTerm, targetTerm = normalizeText(sourceTerm), normalizeText(targetTerm)
	if sourceTerm == "" || targetTerm == "" {
		return errors.New("glossary terms must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO glossary (id, target_lang, source_term, target_term)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(target_lang, source_term) DO UPDATE SET target_term = excluded.target_term`,
		uuid.NewString(), strings.ToLower(targetLang), sourceTerm, targetTerm)
	return err
}

// GetGlossaryTerms returns the glossary for a target language as a
// source-term → target-term map, ready to embed in a translation prompt.
func (s *Store) GetGlossaryTerms(ctx context.Context, targetLang string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_term, target_term FROM glossary WHERE target_lang = ?`,
		strings.ToLower(targetLang))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := make(map[string]string)
	for rows.Next() {
		var src, tgt string
		if err := rows.Scan(&src, &tgt); err != nil {
			return nil, err
		}
		terms[src] = tgt
	}
	return terms, rows.Err()
}

// ListGlossaryTerms returns glossary entries, optionally filtered by target
// language (pass an empty string to return everything).
func (s *Store) ListGlossaryTerms(ctx context.Context, targetLang string) ([]GlossaryEntry, error) {
	query := `SELECT id, target_lang, source_term, target_term, created_at FROM glossary`
	var args []any
	if targetLang != "" {
		query += ` WHERE target_lang = ?`
		args = append(args, strings.ToLower(targetLang))
	}
	query += ` ORDER BY target_lang, source_term`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []GlossaryEntry
	for rows.Next() {
		var e GlossaryEntry
		if err := rows.Scan(&e.ID, &e.TargetLang, &e.SourceTerm, &e.TargetTerm, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteGlossaryTerm removes a glossary entry by ID.
func (s *Store) DeleteGlossaryTerm(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM glossary WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("glossary entry %s: %w", id, ErrNotFound)
	}
	return nil
}
