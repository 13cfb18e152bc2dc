// internal/store/candidates_test.go
package store

import (
	"context"
	"testing"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		Name:         "Alice Chen",
		Email:        "alice@example.com",
		MatchScore:   7.8,
		Summary:      "Strong backend candidate.",
		ModelVersion: "gemini-1.5-flash",
	}
}

func TestCandidateStore_SaveAnalysis_NewCandidate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO candidates`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	s := NewCandidateStore(db, logger.NewNoOpLogger())
	id, err := s.SaveAnalysis(context.Background(), "", "recruiter-1", "Backend Engineer", "resume text", testAnalysis())

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateStore_SaveAnalysis_RescoreArchivesPrevious(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT analysis, role_applied FROM candidates`).
		WithArgs("cand-1").
		WillReturnRows(sqlmock.NewRows([]string{"analysis", "role_applied"}).
			AddRow([]byte(`{"matchScore":6.2}`), "Backend Engineer"))
	mock.ExpectExec(`INSERT INTO candidate_versions`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE candidates`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	s := NewCandidateStore(db, logger.NewNoOpLogger())
	id, err := s.SaveAnalysis(context.Background(), "cand-1", "recruiter-1", "Backend Engineer", "", testAnalysis())

	require.NoError(t, err)
	assert.Equal(t, "cand-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateStore_SaveAnalysis_MissingCandidate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT analysis, role_applied FROM candidates`).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"analysis", "role_applied"}))
	mock.ExpectRollback()

	s := NewCandidateStore(db, logger.NewNoOpLogger())
	_, err = s.SaveAnalysis(context.Background(), "gone", "recruiter-1", "", "", testAnalysis())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCandidateStore_Archive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE candidates`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	s := NewCandidateStore(db, logger.NewNoOpLogger())

	assert.NoError(t, s.Archive(context.Background(), "cand-1", "admin-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateStore_Archive_AlreadyDeleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE candidates`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	s := NewCandidateStore(db, logger.NewNoOpLogger())

	assert.ErrorIs(t, s.Archive(context.Background(), "cand-1", "admin-1"), ErrNotFound)
}

func TestCandidateStore_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "role_applied", "resume_text", "analysis", "created_at", "updated_at"}).
		AddRow("cand-1", "Alice Chen", "alice@example.com", nil, "Backend Engineer", "resume text",
			[]byte(`{"matchScore":7.8,"name":"Alice Chen"}`), now, now)
	mock.ExpectQuery(`SELECT id, name, email, phone, role_applied, resume_text, analysis`).
		WithArgs("cand-1").
		WillReturnRows(rows)

	s := NewCandidateStore(db, logger.NewNoOpLogger())
	c, err := s.GetByID(context.Background(), "cand-1")

	require.NoError(t, err)
	assert.Equal(t, "Alice Chen", c.Name)
	require.NotNil(t, c.CurrentAnalysis)
	assert.InDelta(t, 7.8, c.CurrentAnalysis.MatchScore, 1e-9)
}
