// internal/workers/candidate/persist-analysis/handler.go
package persistanalysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"
	"recruit-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "persist-analysis"
)

var ErrMissingAnalysis = errors.New("MISSING_ANALYSIS")

// AnalysisSaver persists an analysis, creating the candidate when needed.
type AnalysisSaver interface {
	SaveAnalysis(ctx context.Context, candidateID, actor, roleApplied, resumeText string, analysis *models.AnalysisResult) (string, error)
}

type Handler struct {
	saver  AnalysisSaver
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, saver AnalysisSaver, log logger.Logger) *Handler {
	return &Handler{
		saver:  saver,
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "DATABASE_INSERT_FAILED"
		if errors.Is(err, store.ErrNotFound) {
			errorCode = "RESOURCE_NOT_FOUND"
		} else if errors.Is(err, ErrMissingAnalysis) {
			errorCode = "MISSING_ANALYSIS"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Analysis == nil {
		return nil, fmt.Errorf("%w: analysis payload is required", ErrMissingAnalysis)
	}

	id, err := h.saver.SaveAnalysis(ctx, input.CandidateID, input.Actor, input.RoleApplied, input.ResumeText, input.Analysis)
	if err != nil {
		return nil, err
	}

	h.logger.Info("analysis persisted", map[string]interface{}{
		"candidateId": id,
		"actor":       input.Actor,
		"matchScore":  input.Analysis.MatchScore,
	})

	return &Output{
		CandidateID: id,
		SavedAt:     time.Now().UTC().Format(time.RFC3339),
	}, nil
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
