package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/liliang-cn/azrag/internal/domain"
)

// RunRepository handles setup run persistence
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run in the running state
func (r *RunRepository) Create(run *domain.SetupRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Status == "" {
		run.Status = domain.RunStatusRunning
	}
	run.StartedAt = time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO setup_runs (id, index_name, status, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.IndexName, run.Status, run.StartedAt)

	return err
}

// Finish records the outcome of a run
func (r *RunRepository) Finish(run *domain.SetupRun) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	_, err := r.db.Exec(`
		UPDATE setup_runs
		SET status = ?, files = ?, chunks = ?, uploaded = ?, failed = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, run.Status, run.Files, run.Chunks, run.Uploaded, run.Failed, run.Error, now, run.ID)

	return err
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*domain.SetupRun, error) {
	row := r.db.QueryRow(`
		SELECT id, index_name, status, files, chunks, uploaded, failed, error, started_at, finished_at
		FROM setup_runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// List returns the most recent runs first
func (r *RunRepository) List(limit int) ([]*domain.SetupRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, index_name, status, files, chunks, uploaded, failed, error, started_at, finished_at
		FROM setup_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.SetupRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.SetupRun, error) {
	run := &domain.SetupRun{}
	var errText sql.NullString
	var finished sql.NullTime

	err := s.Scan(
		&run.ID, &run.IndexName, &run.Status,
		&run.Files, &run.Chunks, &run.Uploaded, &run.Failed,
		&errText, &run.StartedAt, &finished,
	)
	if err != nil {
		return nil, err
	}

	if errText.Valid {
		run.Error = errText.String
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}
