// internal/common/camunda/middleware.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"
)

// InputValidator checks job variables against an activity's registered
// input schema.
type InputValidator interface {
	ValidateInput(vars map[string]interface{}) error
}

// JobRecorder receives one measurement per handled job.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration)
}

// CheckJobInput parses the job's variable payload and validates it against
// the activity's input schema. An empty payload validates as an empty object.
func CheckJobInput(v InputValidator, variables string) error {
	vars := map[string]interface{}{}
	if variables != "" {
		if err := json.Unmarshal([]byte(variables), &vars); err != nil {
			return fmt.Errorf("parse job variables: %w", err)
		}
	}
	return v.ValidateInput(vars)
}

// WithInputValidation rejects jobs whose variables fail the activity's input
// schema before the handler runs. Rejection is a BPMN error, not a retryable
// failure: the same variables would fail the same way on redelivery.
func WithInputValidation(taskType string, v InputValidator, next HandlerFunc, logger *zap.Logger) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		if err := CheckJobInput(v, job.Variables); err != nil {
			logger.Error("job input rejected by schema",
				zap.String("taskType", taskType),
				zap.Int64("jobKey", job.Key),
				zap.Error(err),
			)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_, sendErr := client.NewThrowErrorCommand().
				JobKey(job.Key).
				ErrorCode("INVALID_JOB_INPUT").
				ErrorMessage(err.Error()).
				Send(ctx)
			if sendErr != nil {
				logger.Error("failed to throw error", zap.Error(sendErr))
			}
			return
		}

		next(client, job)
	}
}

// WithJobMetrics records a processed count and a duration for every job the
// handler sees, whatever the outcome.
func WithJobMetrics(taskType string, rec JobRecorder, next HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		next(client, job)
		rec.RecordJobProcessed(context.Background(), taskType)
		rec.RecordJobDuration(context.Background(), taskType, time.Since(start))
	}
}
