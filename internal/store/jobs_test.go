// internal/store/jobs_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "body", "priority", "created_at", "updated_at"})
}

func TestJobStore_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, title, body, priority`).
		WithArgs("jd-42").
		WillReturnRows(jobRows().AddRow("jd-42", "Platform Engineer", "Go, Kubernetes, five years.", 1, now, now))

	s := NewJobStore(db)
	jd, err := s.GetByID(context.Background(), "jd-42")

	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", jd.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobStore_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, body, priority`).
		WithArgs("missing").
		WillReturnRows(jobRows())

	s := NewJobStore(db)
	_, err = s.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobStore_GetDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`ORDER BY priority ASC, id ASC`).
		WillReturnRows(jobRows().AddRow("jd-1", "Backend Engineer", "Default posting.", 1, now, now))

	s := NewJobStore(db)
	jd, err := s.GetDefault(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "jd-1", jd.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobStore_GetDefault_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`ORDER BY priority ASC, id ASC`).
		WillReturnRows(jobRows())

	s := NewJobStore(db)
	_, err = s.GetDefault(context.Background())

	assert.ErrorIs(t, err, ErrNotFound)
}
