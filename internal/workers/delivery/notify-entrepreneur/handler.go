// internal/workers/delivery/notify-entrepreneur/handler.go
package notifyentrepreneur

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/camunda"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/metrics"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-entrepreneur"
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, textBody, htmlBody string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config *Config
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
}

// NewHandler accepts nil senders; the matching channel is then skipped.
func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		email:  email,
		sms:    sms,
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
		camunda.FailJob(context.Background(), client, job,
			apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)), h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		camunda.FailJob(context.Background(), client, job, err, h.logger)
		return
	}

	camunda.CompleteJob(context.Background(), client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	doc := input.Case
	doc.Profile.Normalize()
	data := templateData(doc, input.ViewsStatus, input.Feedback)

	output := &Output{
		NotificationID: uuid.New().String(),
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	var attempted, sent int
	var failures []error
	var failed []string

	if h.config.EmailEnabled && h.email != nil && len(h.config.AdminEmails) > 0 {
		attempted++
		tmpl := templates[TypeAdminEvaluation]
		id, err := h.email.SendEmail(ctx, h.config.AdminEmails,
			renderTemplate(tmpl.subject, data), renderTemplate(tmpl.body, data), "")
		if err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error":  err.Error(),
				"caseId": doc.CaseID,
			})
			failures = append(failures, err)
			failed = append(failed, "email")
		} else {
			output.EmailMessageID = id
			sent++
		}
	}

	phone := normalizePhone(doc.Profile.Entrepreneur.Phone, h.config.CountryCode)
	if h.config.SMSEnabled && h.sms != nil && phone != "" {
		attempted++
		id, err := h.sms.SendSMS(ctx, phone, renderTemplate(templates[TypeEntrepreneurScore].body, data))
		if err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error":  err.Error(),
				"caseId": doc.CaseID,
			})
			failures = append(failures, err)
			failed = append(failed, "sms")
		} else {
			output.SMSMessageID = id
			sent++
		}
	} else if models.IsSpecified(doc.Profile.Entrepreneur.Phone) && phone == "" {
		h.logger.Warn("entrepreneur phone is not a valid number, skipping SMS", map[string]interface{}{
			"caseId": doc.CaseID,
		})
	}

	switch {
	case attempted == 0:
		output.Status = StatusDisabled
	case sent == 0:
		metrics.StageDuration.WithLabelValues(TaskType, "error").Observe(time.Since(start).Seconds())
		return nil, apperrors.NewNotificationSendFailedError(strings.Join(failed, ","), errors.Join(failures...))
	case sent < attempted:
		output.Status = StatusPartial
	default:
		output.Status = StatusSent
	}

	metrics.StageDuration.WithLabelValues(TaskType, "ok").Observe(time.Since(start).Seconds())
	h.logger.Info("notifications processed", map[string]interface{}{
		"caseId":         doc.CaseID,
		"notificationId": output.NotificationID,
		"status":         output.Status,
	})
	return output, nil
}

func templateData(doc models.CaseDocument, viewsStatus string, feedback *models.Feedback) map[string]interface{} {
	message := ""
	if feedback != nil {
		message = feedback.Encouragement.Message
	}
	if viewsStatus == "" {
		viewsStatus = "not generated"
	}
	return map[string]interface{}{
		"caseId":           doc.CaseID,
		"submissionId":     doc.SubmissionID,
		"businessName":     doc.Profile.Concept.BusinessName,
		"entrepreneurName": doc.Profile.Entrepreneur.Name,
		"totalScore":       doc.Score.Total,
		"maxScore":         doc.Score.Max,
		"scoringMethod":    doc.Score.ScoringMethod,
		"eligibility":      doc.Score.Eligibility,
		"viewsStatus":      viewsStatus,
		"message":          message,
	}
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
