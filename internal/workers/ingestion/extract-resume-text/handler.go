// internal/workers/ingestion/extract-resume-text/handler.go
package extractresumetext

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/ingestion"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "extract-resume-text"
)

var (
	ErrStorageFetch = errors.New("STORAGE_FETCH_FAILED")
	ErrExtraction   = errors.New("EXTRACTION_FAILED")
	ErrEmptyResume  = errors.New("EMPTY_RESUME")
)

// ObjectFetcher downloads an uploaded resume from the object store.
type ObjectFetcher interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, string, error)
}

type Handler struct {
	storage ObjectFetcher
	config  *Config
	logger  logger.Logger
}

func NewHandler(config *Config, storage ObjectFetcher, log logger.Logger) *Handler {
	return &Handler{
		storage: storage,
		config:  config,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "UNKNOWN_ERROR"
		switch {
		case errors.Is(err, ErrStorageFetch):
			errorCode = "STORAGE_FETCH_FAILED"
		case errors.Is(err, ingestion.ErrUnsupportedType):
			errorCode = "UNSUPPORTED_CONTENT_TYPE"
		case errors.Is(err, ErrExtraction):
			errorCode = "EXTRACTION_FAILED"
		case errors.Is(err, ErrEmptyResume):
			errorCode = "EMPTY_RESUME"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	bucket := input.Bucket
	if bucket == "" {
		bucket = h.config.Bucket
	}

	data, storedType, err := h.storage.GetObject(ctx, bucket, input.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s/%s: %v", ErrStorageFetch, bucket, input.Key, err)
	}

	// The caller's declared content type wins over what the store recorded.
	contentType := input.ContentType
	if contentType == "" {
		contentType = storedType
	}

	text, err := ingestion.ExtractText(contentType, data)
	if err != nil {
		if errors.Is(err, ingestion.ErrUnsupportedType) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: no extractable text in %s/%s", ErrEmptyResume, bucket, input.Key)
	}

	h.logger.Info("resume text extracted", map[string]interface{}{
		"key":         input.Key,
		"contentType": contentType,
		"charCount":   len(text),
	})

	return &Output{
		ResumeText:  text,
		ContentType: contentType,
		CharCount:   len(text),
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
