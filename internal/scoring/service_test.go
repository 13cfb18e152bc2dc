// internal/scoring/service_test.go
package scoring

import (
	"context"
	"errors"
	"testing"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/models"
	"recruit-workers/internal/scoring/normalizer"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStandards struct {
	standards []models.ScoringStandard
	err       error
}

func (f *fakeStandards) FetchActive(ctx context.Context) ([]models.ScoringStandard, error) {
	return f.standards, f.err
}

type fakeJobs struct {
	byID       *models.JobDescription
	def        *models.JobDescription
	defCalled  bool
	byIDCalled bool
}

func (f *fakeJobs) GetByID(ctx context.Context, id string) (*models.JobDescription, error) {
	f.byIDCalled = true
	if f.byID == nil {
		return nil, errors.New("not found")
	}
	return f.byID, nil
}

func (f *fakeJobs) GetDefault(ctx context.Context) (*models.JobDescription, error) {
	f.defCalled = true
	return f.def, nil
}

type fakeCompletion struct {
	response     string
	err          error
	instructions string
	content      string
	calls        int
}

func (f *fakeCompletion) Complete(ctx context.Context, instructions, content string) (string, error) {
	f.calls++
	f.instructions = instructions
	f.content = content
	return f.response, f.err
}

func (f *fakeCompletion) ModelVersion() string { return "test-model-1" }

func validResponse() string {
	return `{
		"name": "Alice Chen",
		"email": "alice@example.com",
		"yearsOfExperience": "8 years",
		"matchScore": 76,
		"summary": "Strong backend candidate.",
		"advice": {"verdict": "RECOMMEND", "points": ["hire"]}
	}`
}

func TestService_AnalyzeResume_HappyPath(t *testing.T) {
	standards := &fakeStandards{standards: []models.ScoringStandard{
		{ID: "s1", Category: models.CategoryDimensionWeight, Condition: "Skills Match", RuleText: "40", Description: "Core skills", Priority: 1, IsActive: true},
	}}
	jobs := &fakeJobs{def: &models.JobDescription{ID: "j1", Title: "Backend Engineer", Body: "Go services"}}
	completion := &fakeCompletion{response: validResponse()}

	svc := NewService(standards, jobs, completion, Config{}, logger.NewNoOpLogger())
	result, err := svc.AnalyzeResume(context.Background(), "resume text", "", "")

	require.NoError(t, err)
	assert.Equal(t, 1, completion.calls)
	assert.True(t, jobs.defCalled)
	assert.Contains(t, completion.instructions, "Skills Match")
	assert.Contains(t, completion.instructions, "Go services")
	assert.Equal(t, "resume text", completion.content)
	assert.InDelta(t, 7.6, result.MatchScore, 1e-9)
	assert.InDelta(t, 8.0, result.YearsOfExperience, 1e-9)
	assert.Equal(t, "test-model-1", result.ModelVersion)
}

func TestService_AnalyzeResume_ExplicitJob(t *testing.T) {
	standards := &fakeStandards{}
	jobs := &fakeJobs{byID: &models.JobDescription{ID: "j2", Title: "Data Engineer", Body: "Spark pipelines"}}
	completion := &fakeCompletion{response: validResponse()}

	svc := NewService(standards, jobs, completion, Config{}, logger.NewNoOpLogger())
	_, err := svc.AnalyzeResume(context.Background(), "resume", "j2", "")

	require.NoError(t, err)
	assert.True(t, jobs.byIDCalled)
	assert.False(t, jobs.defCalled)
	assert.Contains(t, completion.instructions, "Spark pipelines")
}

func TestService_AnalyzeResume_ParseErrorIsFatal(t *testing.T) {
	standards := &fakeStandards{}
	jobs := &fakeJobs{def: &models.JobDescription{ID: "j1", Body: "x"}}
	completion := &fakeCompletion{response: "I think this candidate is great!"}

	svc := NewService(standards, jobs, completion, Config{}, logger.NewNoOpLogger())
	_, err := svc.AnalyzeResume(context.Background(), "resume", "", "")

	assert.ErrorIs(t, err, normalizer.ErrParse)
	assert.Equal(t, 1, completion.calls)
}

func TestService_AnalyzeResume_CompletionError(t *testing.T) {
	standards := &fakeStandards{}
	jobs := &fakeJobs{def: &models.JobDescription{ID: "j1", Body: "x"}}
	completion := &fakeCompletion{err: errors.New("upstream unavailable")}

	svc := NewService(standards, jobs, completion, Config{}, logger.NewNoOpLogger())
	_, err := svc.AnalyzeResume(context.Background(), "resume", "", "")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, normalizer.ErrParse)
}

func TestService_AnalyzeResume_RecordsCompletionMetrics(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.CompletionCalls.WithLabelValues("test-model-1", "ok"))
	parseBefore := testutil.ToFloat64(metrics.CompletionCalls.WithLabelValues("test-model-1", "parse_error"))
	errBefore := testutil.ToFloat64(metrics.CompletionCalls.WithLabelValues("test-model-1", "error"))

	jobs := &fakeJobs{def: &models.JobDescription{ID: "j1", Body: "x"}}

	svc := NewService(&fakeStandards{}, jobs, &fakeCompletion{response: validResponse()}, Config{}, logger.NewNoOpLogger())
	_, err := svc.AnalyzeResume(context.Background(), "resume", "", "")
	require.NoError(t, err)

	svc = NewService(&fakeStandards{}, jobs, &fakeCompletion{response: "not json"}, Config{}, logger.NewNoOpLogger())
	_, err = svc.AnalyzeResume(context.Background(), "resume", "", "")
	require.Error(t, err)

	svc = NewService(&fakeStandards{}, jobs, &fakeCompletion{err: errors.New("upstream unavailable")}, Config{}, logger.NewNoOpLogger())
	_, err = svc.AnalyzeResume(context.Background(), "resume", "", "")
	require.Error(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.CompletionCalls.WithLabelValues("test-model-1", "ok")))
	assert.Equal(t, parseBefore+1, testutil.ToFloat64(metrics.CompletionCalls.WithLabelValues("test-model-1", "parse_error")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.CompletionCalls.WithLabelValues("test-model-1", "error")))
}

func TestService_AnalyzeResume_StandardsError(t *testing.T) {
	standards := &fakeStandards{err: errors.New("db down")}
	jobs := &fakeJobs{def: &models.JobDescription{ID: "j1", Body: "x"}}
	completion := &fakeCompletion{response: validResponse()}

	svc := NewService(standards, jobs, completion, Config{}, logger.NewNoOpLogger())
	_, err := svc.AnalyzeResume(context.Background(), "resume", "", "")

	assert.Error(t, err)
	assert.Equal(t, 0, completion.calls)
}
