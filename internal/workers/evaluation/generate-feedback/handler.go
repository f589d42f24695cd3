// internal/workers/evaluation/generate-feedback/handler.go
package generatefeedback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/camunda"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/jsonutil"
	"github.com/shub15/the-unfair-advantage/internal/common/locale"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/metrics"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-feedback"
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

// execute reports generation failures in the output; feedback is optional
// for the rest of the process.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	input.Profile.Normalize()
	loc := input.Locale
	if loc == "" {
		loc = h.config.DefaultLocale
	}

	output := &Output{SubmissionID: input.SubmissionID}
	feedback, err := h.Generate(ctx, input.Profile, input.AssessmentScore, loc)
	if err != nil {
		h.logger.Warn("feedback generation failed", map[string]interface{}{
			"submissionId": input.SubmissionID,
			"errorCode":    string(apperrors.CodeOf(err)),
			"error":        err.Error(),
		})
		output.Error = apperrors.ToExtractionError(err)
		return output, nil
	}

	output.Feedback = feedback
	return output, nil
}

// Generate writes the localized feedback for the entrepreneur.
func (h *Handler) Generate(ctx context.Context, profile models.BusinessProfile, score models.AssessmentScore, loc string) (*models.Feedback, error) {
	start := time.Now()
	loc = locale.Normalize(loc)

	feedback, err := h.generate(ctx, profile, score, loc)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.StageDuration.WithLabelValues(TaskType, outcome).Observe(time.Since(start).Seconds())
	return feedback, err
}

func (h *Handler) generate(ctx context.Context, profile models.BusinessProfile, score models.AssessmentScore, loc string) (*models.Feedback, error) {
	if err := genai.Require(h.generator); err != nil {
		return nil, err
	}

	raw, err := h.generator.GenerateStructuredJSON(ctx, genai.Request{
		Prompt:      buildPrompt(profile, score, loc),
		Temperature: h.config.Temperature,
		Schema:      feedbackSchema,
	})
	if err != nil {
		return nil, err
	}

	var feedback models.Feedback
	if err := jsonutil.ParseResponse(raw, &feedback); err != nil {
		return nil, err
	}
	if feedback.CongratulationsMessage == "" && feedback.Encouragement.Message == "" && len(feedback.BusinessStrengths.Points) == 0 {
		return nil, apperrors.NewMalformedResponseError(raw, fmt.Errorf("response carries no feedback sections"))
	}

	feedback.Normalize()
	feedback.LanguageCode = loc
	return &feedback, nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
