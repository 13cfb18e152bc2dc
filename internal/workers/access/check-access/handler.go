// internal/workers/access/check-access/handler.go
package checkaccess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"recruit-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "check-access"
)

var (
	ErrAccessDenied = errors.New("ACCESS_DENIED")
	ErrRoleLookup   = errors.New("ROLE_LOOKUP_FAILED")
)

// Operations the workflow can gate on.
const (
	OpAnalyze = "analyze"
	OpRescore = "rescore"
	OpArchive = "archive"
	OpView    = "view"
)

// operationRoles maps each operation to the realm roles that may perform it.
// Admins implicitly pass every check.
var operationRoles = map[string][]string{
	OpAnalyze: {"recruiter"},
	OpRescore: {"recruiter"},
	OpArchive: {},
	OpView:    {"recruiter", "viewer"},
}

const adminRole = "admin"

// RoleResolver resolves the effective realm roles for a user.
type RoleResolver interface {
	GetUserRealmRoles(ctx context.Context, userID string) ([]string, error)
}

type Handler struct {
	roles   RoleResolver
	timeout Config
	logger  logger.Logger
}

func NewHandler(config *Config, roles RoleResolver, log logger.Logger) *Handler {
	return &Handler{
		roles:   roles,
		timeout: *config,
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

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		if errors.Is(err, ErrAccessDenied) {
			errorCode = "ACCESS_DENIED"
		} else if errors.Is(err, ErrRoleLookup) {
			errorCode = "ROLE_LOOKUP_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrAccessDenied)
	}

	required, known := operationRoles[input.Operation]
	if !known {
		return nil, fmt.Errorf("%w: unknown operation %q", ErrAccessDenied, input.Operation)
	}

	roles, err := h.roles.GetUserRealmRoles(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoleLookup, err)
	}

	if !allowed(roles, required) {
		h.logger.Warn("access denied", map[string]interface{}{
			"userId":    input.UserID,
			"operation": input.Operation,
			"roles":     roles,
		})
		return nil, fmt.Errorf("%w: user %s lacks a role for operation %s", ErrAccessDenied, input.UserID, input.Operation)
	}

	return &Output{
		Allowed: true,
		UserID:  input.UserID,
		Roles:   roles,
	}, nil
}

func allowed(have, required []string) bool {
	for _, r := range have {
		if r == adminRole {
			return true
		}
		for _, req := range required {
			if r == req {
				return true
			}
		}
	}
	return false
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
