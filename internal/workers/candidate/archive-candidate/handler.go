// internal/workers/candidate/archive-candidate/handler.go
package archivecandidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruit-workers/internal/common/ats"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "archive-candidate"
)

var ErrMissingCandidateID = errors.New("MISSING_CANDIDATE_ID")

// Archiver soft-deletes a candidate, keeping the row for the audit trail.
type Archiver interface {
	Archive(ctx context.Context, candidateID, deletedBy string) error
}

// StatusPusher mirrors the archival into the external tracking system.
type StatusPusher interface {
	PushStatus(ctx context.Context, status *ats.CandidateStatus) error
}

type Handler struct {
	archiver Archiver
	atsc     StatusPusher
	config   *Config
	logger   logger.Logger
}

// NewHandler builds the archive worker. atsc may be nil when no tracking
// system is configured.
func NewHandler(config *Config, archiver Archiver, atsc StatusPusher, log logger.Logger) *Handler {
	return &Handler{
		archiver: archiver,
		atsc:     atsc,
		config:   config,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "QUERY_EXECUTION_FAILED"
		if errors.Is(err, store.ErrNotFound) {
			errorCode = "RESOURCE_NOT_FOUND"
		} else if errors.Is(err, ErrMissingCandidateID) {
			errorCode = "MISSING_CANDIDATE_ID"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.CandidateID == "" {
		return nil, fmt.Errorf("%w: candidateId is required", ErrMissingCandidateID)
	}

	if err := h.archiver.Archive(ctx, input.CandidateID, input.RequestedBy); err != nil {
		return nil, err
	}

	h.logger.Info("candidate archived", map[string]interface{}{
		"candidateId": input.CandidateID,
		"requestedBy": input.RequestedBy,
	})

	// Tracking-system push is best effort: an ATS outage must not undo a
	// completed archival.
	if h.atsc != nil && input.ATSExternalID != "" {
		err := h.atsc.PushStatus(ctx, &ats.CandidateStatus{
			ExternalID: input.ATSExternalID,
			Stage:      "archived",
		})
		if err != nil {
			h.logger.Warn("ats status push failed", map[string]interface{}{
				"candidateId":   input.CandidateID,
				"atsExternalId": input.ATSExternalID,
				"error":         err.Error(),
			})
		}
	}

	return &Output{
		CandidateID: input.CandidateID,
		Archived:    true,
		ArchivedAt:  time.Now().UTC().Format(time.RFC3339),
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
