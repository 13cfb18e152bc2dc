// internal/workers/candidate/persist-analysis/handler_test.go
package persistanalysis

import (
	"context"
	"testing"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"
	"recruit-workers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	returnID string
	err      error

	gotCandidateID string
	gotActor       string
	gotResumeText  string
}

func (f *fakeSaver) SaveAnalysis(ctx context.Context, candidateID, actor, roleApplied, resumeText string, analysis *models.AnalysisResult) (string, error) {
	f.gotCandidateID = candidateID
	f.gotActor = actor
	f.gotResumeText = resumeText
	if f.err != nil {
		return "", f.err
	}
	return f.returnID, nil
}

func testAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{Name: "Alice Chen", MatchScore: 7.8}
}

func TestExecute_NewCandidate(t *testing.T) {
	saver := &fakeSaver{returnID: "cand-new"}
	h := NewHandler(LoadConfig(), saver, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{
		Actor:       "recruiter-1",
		RoleApplied: "Backend Engineer",
		ResumeText:  "resume text",
		Analysis:    testAnalysis(),
	})

	require.NoError(t, err)
	assert.Equal(t, "cand-new", out.CandidateID)
	assert.Equal(t, "", saver.gotCandidateID)
	assert.Equal(t, "recruiter-1", saver.gotActor)

	_, err = time.Parse(time.RFC3339, out.SavedAt)
	assert.NoError(t, err)
}

func TestExecute_ExistingCandidate(t *testing.T) {
	saver := &fakeSaver{returnID: "cand-1"}
	h := NewHandler(LoadConfig(), saver, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{
		CandidateID: "cand-1",
		Actor:       "recruiter-1",
		Analysis:    testAnalysis(),
	})

	require.NoError(t, err)
	assert.Equal(t, "cand-1", out.CandidateID)
	assert.Equal(t, "cand-1", saver.gotCandidateID)
}

func TestExecute_MissingAnalysisRejected(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeSaver{}, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{Actor: "recruiter-1"})

	assert.ErrorIs(t, err, ErrMissingAnalysis)
}

func TestExecute_NotFoundPassthrough(t *testing.T) {
	saver := &fakeSaver{err: store.ErrNotFound}
	h := NewHandler(LoadConfig(), saver, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{
		CandidateID: "gone",
		Actor:       "recruiter-1",
		Analysis:    testAnalysis(),
	})

	assert.ErrorIs(t, err, store.ErrNotFound)
}
