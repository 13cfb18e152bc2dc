// internal/scoring/service.go
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/llm"
	"recruit-workers/internal/models"
	"recruit-workers/internal/scoring/compiler"
	"recruit-workers/internal/scoring/normalizer"
)

// StandardsSource supplies the active scoring standards.
type StandardsSource interface {
	FetchActive(ctx context.Context) ([]models.ScoringStandard, error)
}

// JobSource supplies job descriptions for scoring context.
type JobSource interface {
	GetByID(ctx context.Context, id string) (*models.JobDescription, error)
	GetDefault(ctx context.Context) (*models.JobDescription, error)
}

// Config tunes the analysis pipeline.
type Config struct {
	DefaultLanguage   string
	ExpectedWeightSum float64
}

// Service runs the full scoring pipeline: load standards, compile the
// instruction document, call the completion backend exactly once, and
// normalize the response into a stable result.
type Service struct {
	standards  StandardsSource
	jobs       JobSource
	completion llm.CompletionClient
	cfg        Config
	logger     logger.Logger
}

func NewService(standards StandardsSource, jobs JobSource, completion llm.CompletionClient, cfg Config, log logger.Logger) *Service {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = compiler.DefaultLanguage
	}
	if cfg.ExpectedWeightSum == 0 {
		cfg.ExpectedWeightSum = 100
	}
	return &Service{
		standards:  standards,
		jobs:       jobs,
		completion: completion,
		cfg:        cfg,
		logger:     log,
	}
}

// AnalyzeResume scores one resume against the current configuration. A
// jobID of "" selects the default job description. The completion call is
// attempted exactly once; parse failures surface as normalizer.ErrParse.
func (s *Service) AnalyzeResume(ctx context.Context, resumeText, jobID, language string) (*models.AnalysisResult, error) {
	standards, err := s.standards.FetchActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch scoring standards: %w", err)
	}

	job, err := s.resolveJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// Misconfigured weights are reported, never rejected: scoring proceeds
	// with whatever the admins have saved.
	if total := compiler.DimensionWeightTotal(standards); total != 0 && math.Abs(total-s.cfg.ExpectedWeightSum) > 1e-9 {
		s.logger.Warn("dimension weights do not sum to expected total", map[string]interface{}{
			"total":    total,
			"expected": s.cfg.ExpectedWeightSum,
		})
	}

	if language == "" {
		language = s.cfg.DefaultLanguage
	}

	instructions := compiler.Compile(standards, job.Body, language)

	model := s.completion.ModelVersion()
	start := time.Now()
	raw, err := s.completion.Complete(ctx, instructions, resumeText)
	metrics.CompletionDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CompletionCalls.WithLabelValues(model, "error").Inc()
		return nil, fmt.Errorf("completion call: %w", err)
	}

	result, err := normalizer.Normalize(raw)
	if err != nil {
		metrics.CompletionCalls.WithLabelValues(model, "parse_error").Inc()
		return nil, err
	}
	metrics.CompletionCalls.WithLabelValues(model, "ok").Inc()

	result.ModelVersion = s.completion.ModelVersion()
	return result, nil
}

func (s *Service) resolveJob(ctx context.Context, jobID string) (*models.JobDescription, error) {
	if jobID != "" {
		job, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("fetch job description %s: %w", jobID, err)
		}
		return job, nil
	}

	job, err := s.jobs.GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch default job description: %w", err)
	}
	return job, nil
}
