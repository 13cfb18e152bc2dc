// internal/workers/notification/notify-analysis-complete/handler.go
package notifyanalysiscomplete

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruit-workers/internal/common/ats"
	"recruit-workers/internal/common/logger"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "notify-analysis-complete"
)

var (
	ErrSendFailed   = errors.New("NOTIFICATION_SEND_FAILED")
	ErrMissingInput = errors.New("MISSING_NOTIFICATION_INPUT")
)

// EmailSender sends transactional mail. The SES wrapper satisfies this.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSPublisher sends short text alerts. The SNS wrapper satisfies this.
type SMSPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// ATSPusher pushes the analysis outcome back to the tracking system.
type ATSPusher interface {
	PushStatus(ctx context.Context, status *ats.CandidateStatus) error
}

type Handler struct {
	email  EmailSender
	sms    SMSPublisher
	atsc   ATSPusher
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSPublisher, atsc ATSPusher, log logger.Logger) *Handler {
	return &Handler{
		email:  email,
		sms:    sms,
		atsc:   atsc,
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
		errorCode := "NOTIFICATION_SEND_FAILED"
		if errors.Is(err, ErrMissingInput) {
			errorCode = "MISSING_NOTIFICATION_INPUT"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.CandidateID == "" {
		return nil, fmt.Errorf("%w: candidateId is required", ErrMissingInput)
	}

	output := &Output{}

	if h.config.EmailEnabled {
		if input.RecipientEmail == "" {
			return nil, fmt.Errorf("%w: recipientEmail is required when email is enabled", ErrMissingInput)
		}
		if err := h.sendEmail(ctx, input); err != nil {
			return nil, fmt.Errorf("%w: email: %v", ErrSendFailed, err)
		}
		output.EmailSent = true
	}

	if h.config.SMSEnabled && input.RecipientPhone != "" {
		if err := h.sendSMS(ctx, input); err != nil {
			return nil, fmt.Errorf("%w: sms: %v", ErrSendFailed, err)
		}
		output.SMSSent = true
	}

	// ATS push is best-effort: the recruiter was already notified, so a
	// Teamdoor outage is logged rather than failing the job.
	if h.config.ATSEnabled && input.ATSExternalID != "" {
		if err := h.pushATS(ctx, input); err != nil {
			h.logger.Warn("ats status push failed", map[string]interface{}{
				"candidateId":   input.CandidateID,
				"atsExternalId": input.ATSExternalID,
				"error":         err.Error(),
			})
		} else {
			output.ATSUpdated = true
		}
	}

	output.NotifiedAt = time.Now().UTC().Format(time.RFC3339)

	h.logger.Info("analysis notification dispatched", map[string]interface{}{
		"candidateId": input.CandidateID,
		"emailSent":   output.EmailSent,
		"smsSent":     output.SMSSent,
		"atsUpdated":  output.ATSUpdated,
	})

	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) error {
	subject := fmt.Sprintf("Resume analysis complete: %s", input.CandidateName)
	body := fmt.Sprintf(
		"Analysis for %s is ready.\n\nMatch score: %.1f / 10\nVerdict: %s\n\n%s\n",
		input.CandidateName, input.MatchScore, input.Verdict, input.Summary,
	)

	_, err := h.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(h.config.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{input.RecipientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(body)},
			},
		},
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, input *Input) error {
	message := fmt.Sprintf("Resume analysis for %s is ready: %.1f/10, %s",
		input.CandidateName, input.MatchScore, input.Verdict)

	_, err := h.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: awssdk.String(input.RecipientPhone),
		Message:     awssdk.String(message),
	})
	return err
}

func (h *Handler) pushATS(ctx context.Context, input *Input) error {
	return h.atsc.PushStatus(ctx, &ats.CandidateStatus{
		ExternalID: input.ATSExternalID,
		Stage:      "analyzed",
		MatchScore: input.MatchScore,
		Verdict:    input.Verdict,
		Summary:    input.Summary,
	})
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
