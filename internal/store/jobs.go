// internal/store/jobs.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recruit-workers/internal/models"
)

// ErrNotFound is returned when a requested record does not exist or has been
// archived.
var ErrNotFound = errors.New("RESOURCE_NOT_FOUND")

// JobStore reads job descriptions.
type JobStore struct {
	db *sql.DB
}

func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

func (s *JobStore) GetByID(ctx context.Context, id string) (*models.JobDescription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, body, priority, created_at, updated_at
		FROM job_descriptions WHERE id = $1`, id)

	var jd models.JobDescription
	err := row.Scan(&jd.ID, &jd.Title, &jd.Body, &jd.Priority, &jd.CreatedAt, &jd.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: job description %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job description: %w", err)
	}
	return &jd, nil
}

// GetDefault picks the default job description: lowest priority number wins,
// ties broken by id so the selection is deterministic.
func (s *JobStore) GetDefault(ctx context.Context) (*models.JobDescription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, body, priority, created_at, updated_at
		FROM job_descriptions
		ORDER BY priority ASC, id ASC
		LIMIT 1`)

	var jd models.JobDescription
	err := row.Scan(&jd.ID, &jd.Title, &jd.Body, &jd.Priority, &jd.CreatedAt, &jd.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no job descriptions configured", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get default job description: %w", err)
	}
	return &jd, nil
}
