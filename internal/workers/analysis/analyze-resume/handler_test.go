// internal/workers/analysis/analyze-resume/handler_test.go
package analyzeresume

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	commonerrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/llm"
	"recruit-workers/internal/models"
	"recruit-workers/internal/scoring/normalizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	result *models.AnalysisResult
	err    error
	calls  int
}

func (f *fakeAnalyzer) AnalyzeResume(ctx context.Context, resumeText, jobID, language string) (*models.AnalysisResult, error) {
	f.calls++
	return f.result, f.err
}

func testResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Name:       "Alice Chen",
		MatchScore: 7.6,
		Advice: models.Advice{
			Verdict: models.VerdictRecommend,
			Points:  []string{"strong backend experience"},
		},
		ModelVersion: "test-model-1",
	}
}

func TestExecute_Success(t *testing.T) {
	analyzer := &fakeAnalyzer{result: testResult()}
	h := NewHandler(LoadConfig(), analyzer, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{
		CandidateID: "cand-1",
		ResumeText:  "eight years of Go",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, "cand-1", out.CandidateID)
	assert.InDelta(t, 7.6, out.Analysis.MatchScore, 1e-9)

	_, err = time.Parse(time.RFC3339, out.AnalyzedAt)
	assert.NoError(t, err)
}

func TestExecute_EmptyResumeText(t *testing.T) {
	analyzer := &fakeAnalyzer{result: testResult()}
	h := NewHandler(LoadConfig(), analyzer, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{ResumeText: "   "})

	require.Error(t, err)
	assert.Equal(t, 0, analyzer.calls)
}

func TestConvertToStandardError_ParseErrorNotRetryable(t *testing.T) {
	err := fmt.Errorf("normalize: %w", normalizer.ErrParse)

	stdErr := convertToStandardError(err)

	assert.Equal(t, commonerrors.ErrCodeAnalysisParseError, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestConvertToStandardError_MissingCredentialNotRetryable(t *testing.T) {
	err := fmt.Errorf("client init: %w", llm.ErrMissingCredential)

	stdErr := convertToStandardError(err)

	assert.Equal(t, commonerrors.ErrCodeMissingCredential, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestConvertToStandardError_TransportRetryable(t *testing.T) {
	stdErr := convertToStandardError(errors.New("upstream unavailable"))

	assert.Equal(t, commonerrors.ErrCodeCompletionFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestConvertToStandardError_PassesThroughStandardError(t *testing.T) {
	orig := commonerrors.NewAccessDeniedError("u1", "analyze")

	stdErr := convertToStandardError(orig)

	assert.Same(t, orig, stdErr)
}
