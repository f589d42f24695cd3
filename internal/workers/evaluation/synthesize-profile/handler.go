// internal/workers/evaluation/synthesize-profile/handler.go
package synthesizeprofile

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
	"github.com/shub15/the-unfair-advantage/internal/common/locale"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/metrics"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "synthesize-profile"
)

// Extractor turns one raw text into a PartialExtraction. The extract-fields
// handler satisfies it.
type Extractor interface {
	Extract(ctx context.Context, source, rawText string) models.ExtractionResult
}

var extractionBuckets = []string{
	"entrepreneur_info",
	"business_concept",
	"value_proposition",
	"financial_info",
	"additional_info",
}

var ocrTextKeys = []string{"text", "raw_text", "extracted_text"}

type Handler struct {
	config    *Config
	generator genai.Generator
	extractor Extractor
	logger    logger.Logger
}

func NewHandler(config *Config, generator genai.Generator, extractor Extractor, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		generator: generator,
		extractor: extractor,
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
	start := time.Now()
	loc := locale.Normalize(input.Locale)

	hasDocument := len(input.OCRData) > 0
	hasTranscript := strings.TrimSpace(input.Transcript) != ""

	sources := models.DataSources{
		DocumentProvided:   hasDocument,
		TranscriptProvided: hasTranscript,
		OCRData:            input.OCRData,
		Transcript:         input.Transcript,
		Conflicts:          []models.SourceConflict{},
	}

	var result models.ProfileResult
	switch {
	case hasDocument && hasTranscript:
		sources.Method = models.SynthesisDualSource
		var conflicts []models.SourceConflict
		result, conflicts = h.synthesize(ctx, input.OCRData, input.Transcript, loc)
		if conflicts != nil {
			sources.Conflicts = conflicts
		}
	case hasDocument:
		sources.Method = models.SynthesisDocument
		result = h.promoteResult(h.documentPartial(ctx, input.OCRData))
	case hasTranscript:
		sources.Method = models.SynthesisAudio
		result = h.promoteResult(h.extract(ctx, "transcript", input.Transcript))
	default:
		sources.Method = models.SynthesisNone
		result = models.ProfileFailed(apperrors.ToExtractionError(
			apperrors.NewNotEnoughInputError("neither document nor transcript provided")))
	}

	outcome := "ok"
	if !result.OK() {
		outcome = "error"
		sources.ProfileError = result.Err
		h.logger.Warn("profile synthesis failed", map[string]interface{}{
			"submissionId": input.SubmissionID,
			"method":       sources.Method,
			"errorCode":    result.Err.Code,
		})
	} else {
		h.logger.Info("profile synthesized", map[string]interface{}{
			"submissionId": input.SubmissionID,
			"method":       sources.Method,
			"conflicts":    len(sources.Conflicts),
		})
	}
	metrics.StageDuration.WithLabelValues(TaskType, outcome).Observe(time.Since(start).Seconds())

	return &Output{
		SubmissionID: input.SubmissionID,
		Locale:       loc,
		Profile:      result,
		DataSources:  sources,
	}, nil
}

// synthesize merges both sources with one generative call. Conflicts are
// returned alongside the profile; nil means the model reported none.
func (h *Handler) synthesize(ctx context.Context, ocrData map[string]interface{}, transcript, loc string) (models.ProfileResult, []models.SourceConflict) {
	if err := genai.Require(h.generator); err != nil {
		return models.ProfileFailed(apperrors.ToExtractionError(err)), nil
	}

	raw, err := h.generator.GenerateStructuredJSON(ctx, genai.Request{
		Prompt:      buildSynthesisPrompt(ocrData, transcript, loc),
		Temperature: h.config.Temperature,
		Schema:      profileSchema,
	})
	if err != nil {
		return models.ProfileFailed(apperrors.ToExtractionError(err)), nil
	}

	var resp synthesisResponse
	if err := jsonutil.ParseResponse(raw, &resp); err != nil {
		return models.ProfileFailed(apperrors.ToExtractionError(err)), nil
	}
	resp.BusinessProfile.Normalize()

	conflicts := make([]models.SourceConflict, 0, len(resp.SourceConflicts))
	for _, c := range resp.SourceConflicts {
		if strings.TrimSpace(c.Field) == "" {
			continue
		}
		conflicts = append(conflicts, c)
	}
	return models.ProfileOK(resp.BusinessProfile), conflicts
}

// documentPartial reads the OCR payload either as already-extracted buckets
// or as plain text that still needs extraction.
func (h *Handler) documentPartial(ctx context.Context, ocrData map[string]interface{}) models.ExtractionResult {
	for _, bucket := range extractionBuckets {
		if _, ok := ocrData[bucket]; !ok {
			continue
		}
		var partial models.PartialExtraction
		if err := jsonutil.Decode(ocrData, &partial); err != nil {
			return models.ExtractionFailed(apperrors.ToExtractionError(apperrors.NewInvalidInputError(err.Error())))
		}
		partial.Normalize()
		return models.ExtractionOK(partial)
	}

	for _, key := range ocrTextKeys {
		if text, ok := ocrData[key].(string); ok && strings.TrimSpace(text) != "" {
			return h.extract(ctx, "document", text)
		}
	}
	return models.ExtractionFailed(apperrors.ToExtractionError(
		apperrors.NewNotEnoughInputError("OCR data holds neither extracted fields nor text")))
}

func (h *Handler) extract(ctx context.Context, source, text string) models.ExtractionResult {
	if h.extractor == nil {
		return models.ExtractionFailed(apperrors.ToExtractionError(
			apperrors.NewCapabilityNotConfiguredError("extractor")))
	}
	return h.extractor.Extract(ctx, source, text)
}

func (h *Handler) promoteResult(r models.ExtractionResult) models.ProfileResult {
	if !r.OK() {
		return models.ProfileFailed(r.Err)
	}
	return models.ProfileOK(Promote(*r.Extraction))
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
