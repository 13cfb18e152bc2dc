// internal/workers/analysis/rescore-batch/handler.go
package rescorebatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rescore-batch"
)

var ErrEmptyBatch = errors.New("EMPTY_BATCH")

// CandidateSource loads candidates to be rescored.
type CandidateSource interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
}

// Analyzer runs the scoring pipeline for one resume.
type Analyzer interface {
	AnalyzeResume(ctx context.Context, resumeText, jobID, language string) (*models.AnalysisResult, error)
}

// AnalysisSaver persists a rescored analysis, archiving the previous one.
type AnalysisSaver interface {
	SaveAnalysis(ctx context.Context, candidateID, actor, roleApplied, resumeText string, analysis *models.AnalysisResult) (string, error)
}

type Handler struct {
	candidates CandidateSource
	analyzer   Analyzer
	saver      AnalysisSaver
	config     *Config
	logger     logger.Logger
}

func NewHandler(config *Config, candidates CandidateSource, analyzer Analyzer, saver AnalysisSaver, log logger.Logger) *Handler {
	return &Handler{
		candidates: candidates,
		analyzer:   analyzer,
		saver:      saver,
		config:     config,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		if errors.Is(err, ErrEmptyBatch) {
			errorCode = "EMPTY_BATCH"
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute rescores the batch sequentially. One item's failure is recorded
// and the loop moves on; the job itself only fails if the batch is empty or
// the context is cancelled.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.CandidateIDs) == 0 {
		return nil, fmt.Errorf("%w: candidateIds is empty", ErrEmptyBatch)
	}

	output := &Output{
		Total:    len(input.CandidateIDs),
		Failures: []ItemFailure{},
	}

	for _, id := range input.CandidateIDs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch aborted after %d of %d items: %w",
				output.Succeeded+output.Failed, output.Total, err)
		}

		if err := h.rescoreOne(ctx, id, input); err != nil {
			output.Failed++
			output.Failures = append(output.Failures, ItemFailure{
				CandidateID: id,
				Reason:      err.Error(),
			})
			h.logger.Warn("batch item failed", map[string]interface{}{
				"candidateId": id,
				"error":       err.Error(),
			})
			continue
		}
		output.Succeeded++
	}

	h.logger.Info("batch rescore finished", map[string]interface{}{
		"total":       output.Total,
		"succeeded":   output.Succeeded,
		"failed":      output.Failed,
		"requestedBy": input.RequestedBy,
	})

	return output, nil
}

func (h *Handler) rescoreOne(ctx context.Context, candidateID string, input *Input) error {
	candidate, err := h.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("load candidate: %w", err)
	}

	if candidate.ResumeText == "" {
		return errors.New("candidate has no stored resume text")
	}

	analysis, err := h.analyzer.AnalyzeResume(ctx, candidate.ResumeText, input.JobID, input.Language)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if _, err := h.saver.SaveAnalysis(ctx, candidateID, input.RequestedBy, candidate.RoleApplied, "", analysis); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
