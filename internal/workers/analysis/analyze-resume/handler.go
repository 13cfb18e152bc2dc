// internal/workers/analysis/analyze-resume/handler.go
package analyzeresume

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/llm"
	"recruit-workers/internal/models"
	"recruit-workers/internal/scoring/normalizer"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "analyze-resume"
)

// Analyzer runs the scoring pipeline for one resume.
type Analyzer interface {
	AnalyzeResume(ctx context.Context, resumeText, jobID, language string) (*models.AnalysisResult, error)
}

type Handler struct {
	analyzer   Analyzer
	config     *Config
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, analyzer Analyzer, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		analyzer:   analyzer,
		config:     config,
		logger:     scoped,
		errHandler: errors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.errHandler.HandleJobError(ctx, client, job, errors.NewAnalysisParseError(fmt.Errorf("parse input: %w", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := convertToStandardError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.ResumeText) == "" {
		return nil, errors.NewAnalysisParseError(stderrors.New("resumeText is empty"))
	}

	analysis, err := h.analyzer.AnalyzeResume(ctx, input.ResumeText, input.JobID, input.Language)
	if err != nil {
		return nil, err
	}

	h.logger.Info("resume analyzed", map[string]interface{}{
		"candidateId":  input.CandidateID,
		"matchScore":   analysis.MatchScore,
		"verdict":      analysis.Advice.Verdict,
		"modelVersion": analysis.ModelVersion,
	})

	return &Output{
		CandidateID: input.CandidateID,
		Analysis:    analysis,
		AnalyzedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// convertToStandardError maps pipeline errors onto the shared taxonomy so
// the engine gets correct retry semantics: parse and credential failures are
// final, transport failures retry.
func convertToStandardError(err error) *errors.StandardError {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case stderrors.Is(err, normalizer.ErrParse):
		return errors.NewAnalysisParseError(err)
	case stderrors.Is(err, llm.ErrMissingCredential):
		return errors.NewMissingCredentialError(err.Error())
	default:
		return errors.NewCompletionFailedError(err)
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
