// internal/workers/evaluation/calculate-score/handler.go
package calculatescore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/camunda"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/metrics"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-score"
)

type Handler struct {
	config    *Config
	generator genai.Generator
	logger    logger.Logger
}

func NewHandler(config *Config, generator genai.Generator, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		generator: generator,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

// execute always produces both scores; enhanced failures degrade to the
// fallback score instead of failing the job.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	completeness := Completeness(input.Profile)
	primary := completeness

	useEnhanced := h.config.Enhanced
	if input.Enhanced != nil {
		useEnhanced = *input.Enhanced
	}

	outcome := "ok"
	if useEnhanced {
		primary = h.scoreEnhanced(ctx, input, completeness)
		if primary.ScoringMethod == models.ScoringFallback {
			outcome = "degraded"
		}
	}

	metrics.ScoresComputed.WithLabelValues(string(completeness.ScoringMethod), completeness.Eligibility).Inc()
	if useEnhanced {
		metrics.ScoresComputed.WithLabelValues(string(primary.ScoringMethod), primary.Eligibility).Inc()
	}
	metrics.StageDuration.WithLabelValues(TaskType, outcome).Observe(time.Since(start).Seconds())

	h.logger.Info("score calculated", map[string]interface{}{
		"submissionId":      input.SubmissionID,
		"completenessTotal": completeness.Total,
		"scoringMethod":     primary.ScoringMethod,
		"total":             primary.Total,
		"eligibility":       primary.Eligibility,
	})

	return &Output{
		SubmissionID:      input.SubmissionID,
		CompletenessScore: completeness,
		AssessmentScore:   primary,
	}, nil
}

func (h *Handler) scoreEnhanced(ctx context.Context, input *Input, completeness models.AssessmentScore) models.AssessmentScore {
	if !input.Profile.OK() {
		return Fallback(completeness, fmt.Errorf("profile unavailable: %s", completeness.Error))
	}

	score, err := h.enhanced(ctx, *input.Profile.Profile, completeness, input.MarketResearch)
	if err != nil {
		h.logger.Warn("enhanced scoring failed, using fallback", map[string]interface{}{
			"submissionId": input.SubmissionID,
			"errorCode":    string(apperrors.CodeOf(err)),
			"error":        err.Error(),
		})
		return Fallback(completeness, err)
	}
	return score
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
