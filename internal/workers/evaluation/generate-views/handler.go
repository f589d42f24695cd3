// internal/workers/evaluation/generate-views/handler.go
package generateviews

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
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "generate-views"
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	loc := input.Locale
	if loc == "" {
		loc = input.Case.Locale
	}
	loc = h.resolveLocale(loc)

	input.Case.Profile.Normalize()
	views := h.Render(ctx, input.Case, loc)

	output := &Output{
		SubmissionID: input.SubmissionID,
		Locale:       loc,
		Views:        views,
	}
	if len(views.Failed) > 0 {
		failed := make([]string, len(views.Failed))
		for i, a := range views.Failed {
			failed[i] = string(a)
		}
		output.Error = apperrors.ToExtractionError(apperrors.NewPartialFailureError(failed))
	}
	return output, nil
}

func (h *Handler) resolveLocale(loc string) string {
	if loc == "" {
		loc = h.config.DefaultLocale
	}
	return locale.Normalize(loc)
}

// Render produces the three audience views concurrently. A failed view keeps
// its slot with an error message and never affects its siblings.
func (h *Handler) Render(ctx context.Context, doc models.CaseDocument, loc string) models.StakeholderViews {
	start := time.Now()
	loc = h.resolveLocale(loc)
	entities := keyEntities(doc.Profile)

	rendered := make([]models.StakeholderView, len(models.Audiences))
	var g errgroup.Group
	for i, audience := range models.Audiences {
		i, audience := i, audience
		g.Go(func() error {
			rendered[i] = h.renderView(ctx, viewSpecs[audience], doc, loc, entities)
			return nil
		})
	}
	_ = g.Wait()

	var views models.StakeholderViews
	for _, v := range rendered {
		views.Set(v)
	}
	views.Summarize()

	outcome := "ok"
	switch views.Status {
	case models.RenderPartial:
		outcome = "degraded"
	case models.RenderFailed:
		outcome = "error"
	}
	metrics.StageDuration.WithLabelValues(TaskType, outcome).Observe(time.Since(start).Seconds())

	h.logger.Info("stakeholder views rendered", map[string]interface{}{
		"caseId":    doc.CaseID,
		"locale":    loc,
		"status":    views.Status,
		"succeeded": views.Succeeded,
		"failed":    views.Failed,
	})
	return views
}

func (h *Handler) renderView(ctx context.Context, spec *viewSpec, doc models.CaseDocument, loc string, entities []entity) models.StakeholderView {
	view := models.StakeholderView{Audience: spec.audience}
	translated := spec.audience == models.AudienceEntrepreneur && !locale.IsDefault(loc)
	if spec.audience == models.AudienceEntrepreneur {
		view.LanguageCode = loc
	}

	temperature := h.config.temperature(spec.audience)
	content, err := h.generate(ctx, buildViewPrompt(spec, doc, loc, translated, nil), temperature)
	if err != nil {
		h.logger.Warn("view generation failed", map[string]interface{}{
			"audience":  spec.audience,
			"errorCode": string(apperrors.CodeOf(err)),
			"error":     err.Error(),
		})
		metrics.ViewRenders.WithLabelValues(string(spec.audience), "failed").Inc()
		view.Error = fmt.Sprintf("Error generating %s view: %v", spec.audience, err)
		return view
	}

	result := "ok"
	report := checkGrounding(content, entities, h.config.GroundingMinRatio)
	if translated {
		report = models.GroundingReport{Entities: report.Entities, Matched: []string{}, Grounded: true, Skipped: true}
	}

	if !report.Grounded {
		h.logger.Warn("view not grounded in the case, regenerating", map[string]interface{}{
			"audience": spec.audience,
			"ratio":    report.Ratio,
			"matched":  report.Matched,
		})
		strict := buildViewPrompt(spec, doc, loc, translated, strictFacts(entities))
		second, err := h.generate(ctx, strict, h.config.RegenerateTemperature)
		if err != nil {
			h.logger.Warn("regeneration failed, keeping first render", map[string]interface{}{
				"audience": spec.audience,
				"error":    err.Error(),
			})
		} else {
			content = second
			report = checkGrounding(content, entities, h.config.GroundingMinRatio)
			report.Regenerated = true
			result = "regenerated"
		}
	}

	view.Content = content
	view.Grounding = &report
	view.SchemaViolations = spec.schema.Violations(content)
	if translated {
		view.LanguageCheck = checkLanguage(content, loc)
		if !view.LanguageCheck.Plausible {
			h.logger.Warn("view language looks wrong", map[string]interface{}{
				"audience":    spec.audience,
				"expected":    view.LanguageCheck.Expected,
				"scriptRatio": view.LanguageCheck.ScriptRatio,
			})
		}
	}
	if len(view.SchemaViolations) > 0 {
		h.logger.Warn("view does not match its schema", map[string]interface{}{
			"audience":   spec.audience,
			"violations": view.SchemaViolations,
		})
	}

	metrics.ViewRenders.WithLabelValues(string(spec.audience), result).Inc()
	return view
}

func (h *Handler) generate(ctx context.Context, prompt string, temperature float32) (map[string]interface{}, error) {
	if err := genai.Require(h.generator); err != nil {
		return nil, err
	}
	raw, err := h.generator.GenerateStructuredJSON(ctx, genai.Request{
		Prompt:      prompt,
		Temperature: temperature,
	})
	if err != nil {
		return nil, err
	}
	return jsonutil.ParseObject(raw)
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
