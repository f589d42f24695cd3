// internal/workers/evaluation/extract-fields/handler.go
package extractfields

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/camunda"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/jsonutil"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/metrics"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "extract-fields"
)

type Handler struct {
	config    *Config
	generator genai.Generator
	logger    logger.Logger
}

// NewHandler accepts a nil generator; every extraction then reports
// CAPABILITY_NOT_CONFIGURED without calling out.
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	source := strings.ToLower(strings.TrimSpace(input.Source))
	if source == "" {
		source = SourceDocument
	}
	if source != SourceDocument && source != SourceTranscript {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown source %q", input.Source))
	}

	result := h.extract(ctx, source, input.RawText)

	return &Output{
		SubmissionID: input.SubmissionID,
		Source:       source,
		Extraction:   result,
	}, nil
}

// Extract turns raw OCR or transcript text into a PartialExtraction. Failures
// are returned as the error side of the result, never as a Go error.
func (h *Handler) Extract(ctx context.Context, source, rawText string) models.ExtractionResult {
	return h.extract(ctx, source, rawText)
}

func (h *Handler) extract(ctx context.Context, source, rawText string) models.ExtractionResult {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.StageDuration.WithLabelValues(TaskType, outcome).Observe(time.Since(start).Seconds())
	}()

	fail := func(err error) models.ExtractionResult {
		outcome = "error"
		h.logger.Warn("extraction failed", map[string]interface{}{
			"source":    source,
			"errorCode": string(apperrors.CodeOf(err)),
			"error":     err.Error(),
		})
		return models.ExtractionFailed(apperrors.ToExtractionError(err))
	}

	if err := genai.Require(h.generator); err != nil {
		return fail(err)
	}
	if strings.TrimSpace(rawText) == "" {
		return fail(apperrors.NewNotEnoughInputError("raw text is empty"))
	}

	raw, err := h.generator.GenerateStructuredJSON(ctx, genai.Request{
		Prompt:      buildPrompt(source, rawText),
		Temperature: h.config.Temperature,
		Schema:      extractionSchema,
	})
	if err != nil {
		return fail(err)
	}

	var extraction models.PartialExtraction
	if err := jsonutil.ParseResponse(raw, &extraction); err != nil {
		return fail(err)
	}
	extraction.Normalize()

	h.logger.Info("fields extracted", map[string]interface{}{
		"source":       source,
		"businessName": extraction.BusinessConcept.BusinessName,
	})
	return models.ExtractionOK(extraction)
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
