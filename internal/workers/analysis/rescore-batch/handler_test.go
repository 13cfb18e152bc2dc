// internal/workers/analysis/rescore-batch/handler_test.go
package rescorebatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCandidates struct {
	missing map[string]bool
	noText  map[string]bool
}

func (f *fakeCandidates) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	if f.missing[id] {
		return nil, errors.New("RESOURCE_NOT_FOUND")
	}
	c := &models.Candidate{ID: id, RoleApplied: "Backend Engineer", ResumeText: "resume for " + id}
	if f.noText[id] {
		c.ResumeText = ""
	}
	return c, nil
}

type fakeAnalyzer struct {
	failFor map[string]bool
	calls   int
}

func (f *fakeAnalyzer) AnalyzeResume(ctx context.Context, resumeText, jobID, language string) (*models.AnalysisResult, error) {
	f.calls++
	for id := range f.failFor {
		if resumeText == "resume for "+id {
			return nil, errors.New("completion unavailable")
		}
	}
	return &models.AnalysisResult{MatchScore: 7.0}, nil
}

type fakeSaver struct {
	saved   []string
	failFor map[string]bool
}

func (f *fakeSaver) SaveAnalysis(ctx context.Context, candidateID, actor, roleApplied, resumeText string, analysis *models.AnalysisResult) (string, error) {
	if f.failFor[candidateID] {
		return "", errors.New("db down")
	}
	f.saved = append(f.saved, candidateID)
	return candidateID, nil
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("cand-%d", i+1)
	}
	return out
}

func newHandler(c *fakeCandidates, a *fakeAnalyzer, s *fakeSaver) *Handler {
	return NewHandler(LoadConfig(), c, a, s, logger.NewNoOpLogger())
}

func TestExecute_AllSucceed(t *testing.T) {
	saver := &fakeSaver{}
	h := newHandler(&fakeCandidates{}, &fakeAnalyzer{}, saver)

	out, err := h.Execute(context.Background(), &Input{CandidateIDs: ids(3), RequestedBy: "admin-1"})

	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 3, out.Succeeded)
	assert.Equal(t, 0, out.Failed)
	assert.Empty(t, out.Failures)
	assert.Equal(t, []string{"cand-1", "cand-2", "cand-3"}, saver.saved)
}

func TestExecute_ItemFailureDoesNotAbortBatch(t *testing.T) {
	analyzer := &fakeAnalyzer{failFor: map[string]bool{"cand-4": true}}
	saver := &fakeSaver{}
	h := newHandler(&fakeCandidates{}, analyzer, saver)

	out, err := h.Execute(context.Background(), &Input{CandidateIDs: ids(10), RequestedBy: "admin-1"})

	require.NoError(t, err)
	assert.Equal(t, 10, out.Total)
	assert.Equal(t, 9, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "cand-4", out.Failures[0].CandidateID)
	assert.Contains(t, out.Failures[0].Reason, "analyze")
	// Items after the failed one were still processed.
	assert.Contains(t, saver.saved, "cand-10")
}

func TestExecute_MissingCandidateRecorded(t *testing.T) {
	h := newHandler(&fakeCandidates{missing: map[string]bool{"cand-2": true}}, &fakeAnalyzer{}, &fakeSaver{})

	out, err := h.Execute(context.Background(), &Input{CandidateIDs: ids(3), RequestedBy: "admin-1"})

	require.NoError(t, err)
	assert.Equal(t, 2, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.Contains(t, out.Failures[0].Reason, "load candidate")
}

func TestExecute_NoResumeTextRecorded(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	h := newHandler(&fakeCandidates{noText: map[string]bool{"cand-1": true}}, analyzer, &fakeSaver{})

	out, err := h.Execute(context.Background(), &Input{CandidateIDs: ids(2), RequestedBy: "admin-1"})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Failed)
	// The analyzer was never called for the item without text.
	assert.Equal(t, 1, analyzer.calls)
}

func TestExecute_PersistFailureRecorded(t *testing.T) {
	saver := &fakeSaver{failFor: map[string]bool{"cand-3": true}}
	h := newHandler(&fakeCandidates{}, &fakeAnalyzer{}, saver)

	out, err := h.Execute(context.Background(), &Input{CandidateIDs: ids(3), RequestedBy: "admin-1"})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Failed)
	assert.Contains(t, out.Failures[0].Reason, "persist")
}

func TestExecute_EmptyBatchRejected(t *testing.T) {
	h := newHandler(&fakeCandidates{}, &fakeAnalyzer{}, &fakeSaver{})

	_, err := h.Execute(context.Background(), &Input{RequestedBy: "admin-1"})

	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestExecute_CancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHandler(&fakeCandidates{}, &fakeAnalyzer{}, &fakeSaver{})
	_, err := h.Execute(ctx, &Input{CandidateIDs: ids(5), RequestedBy: "admin-1"})

	assert.ErrorIs(t, err, context.Canceled)
}
