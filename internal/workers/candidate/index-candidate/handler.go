// internal/workers/candidate/index-candidate/handler.go
package indexcandidate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"
	"recruit-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "index-candidate"
)

var ErrIndexFailed = errors.New("SEARCH_INDEX_FAILED")

// CandidateSource loads the candidate to be indexed.
type CandidateSource interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
}

type Handler struct {
	candidates CandidateSource
	es         *elasticsearch.Client
	config     *Config
	logger     logger.Logger
}

func NewHandler(config *Config, candidates CandidateSource, es *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		candidates: candidates,
		es:         es,
		config:     config,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "SEARCH_INDEX_FAILED"
		if errors.Is(err, store.ErrNotFound) {
			errorCode = "RESOURCE_NOT_FOUND"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	candidate, err := h.candidates.GetByID(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}

	doc := buildDocument(candidate)

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal document: %v", ErrIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      h.config.Index,
		DocumentID: candidate.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, h.es)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("%w: %s: %s", ErrIndexFailed, res.Status(), string(msg))
	}

	h.logger.Info("candidate indexed", map[string]interface{}{
		"candidateId": candidate.ID,
		"index":       h.config.Index,
	})

	return &Output{
		CandidateID: candidate.ID,
		Indexed:     true,
		Index:       h.config.Index,
	}, nil
}

func buildDocument(c *models.Candidate) document {
	doc := document{
		CandidateID: c.ID,
		Name:        c.Name,
		Email:       c.Email,
		RoleApplied: c.RoleApplied,
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a := c.CurrentAnalysis; a != nil {
		doc.MatchScore = a.MatchScore
		doc.Verdict = a.Advice.Verdict
		doc.Skills = a.Skills
		doc.DetectedSource = a.DetectedSource
		doc.YearsOfExp = a.YearsOfExperience
	}
	return doc
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
