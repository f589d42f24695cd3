// internal/pipeline/pipeline.go

// Package pipeline runs the evaluation workers in-process, in the order the
// BPMN process runs them, for the CLI and for synchronous callers.
package pipeline

import (
	"context"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/locale"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/observability"
	"github.com/shub15/the-unfair-advantage/internal/common/websearch"
	"github.com/shub15/the-unfair-advantage/internal/models"
	calculatescore "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/calculate-score"
	enrichmarket "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/enrich-market"
	extractfields "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/extract-fields"
	generatefeedback "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/generate-feedback"
	generateviews "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/generate-views"
	synthesizeprofile "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/synthesize-profile"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Options select the optional stages.
type Options struct {
	EnhancedScoring   bool
	MarketEnrichment  bool
	Feedback          bool
	DefaultLocale     string
	GroundingMinRatio float64
}

// Submission is one entrepreneur's raw input. Either source may be empty.
type Submission struct {
	SubmissionID string
	Locale       string
	OCRData      map[string]interface{}
	Transcript   string
}

type Result struct {
	Case          models.CaseDocument
	Views         models.StakeholderViews
	Feedback      *models.Feedback
	FeedbackError *models.ExtractionError
}

type Pipeline struct {
	synthesizer *synthesizeprofile.Handler
	enricher    *enrichmarket.Handler
	scorer      *calculatescore.Handler
	renderer    *generateviews.Handler
	feedback    *generatefeedback.Handler
	options     Options
	logger      logger.Logger

	now   func() time.Time
	newID func() string
}

// New wires the evaluation handlers around one generator and searcher. A nil
// generator is allowed; every generative stage then degrades as it would in
// a worker.
func New(generator genai.Generator, searcher websearch.Searcher, opts Options, log logger.Logger) *Pipeline {
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = locale.Default
	}

	extractor := extractfields.NewHandler(extractfields.LoadConfig(), generator, log)

	scoreCfg := calculatescore.LoadConfig()
	scoreCfg.Enhanced = opts.EnhancedScoring

	viewsCfg := generateviews.LoadConfig()
	viewsCfg.DefaultLocale = opts.DefaultLocale
	if opts.GroundingMinRatio > 0 {
		viewsCfg.GroundingMinRatio = opts.GroundingMinRatio
	}

	feedbackCfg := generatefeedback.LoadConfig()
	feedbackCfg.DefaultLocale = opts.DefaultLocale

	return &Pipeline{
		synthesizer: synthesizeprofile.NewHandler(synthesizeprofile.LoadConfig(), generator, extractor, log),
		enricher:    enrichmarket.NewHandler(enrichmarket.LoadConfig(), generator, searcher, log),
		scorer:      calculatescore.NewHandler(scoreCfg, generator, log),
		renderer:    generateviews.NewHandler(viewsCfg, generator, log),
		feedback:    generatefeedback.NewHandler(feedbackCfg, generator, log),
		options:     opts,
		logger:      log.WithFields(map[string]interface{}{"component": "pipeline"}),
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// Run evaluates one submission. It always yields a case document and a
// score; stage failures are carried in the result. Only a cancelled context
// is returned as an error.
func (p *Pipeline) Run(ctx context.Context, sub Submission) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc := sub.Locale
	if loc == "" {
		loc = p.options.DefaultLocale
	}
	loc = locale.Normalize(loc)

	ctx, span := observability.StartSpan(ctx, "pipeline.run",
		attribute.String("submission.id", sub.SubmissionID),
		attribute.String("locale", loc),
	)
	defer observability.EndSpan(span, nil)

	synthesis, err := p.synthesize(ctx, sub, loc)
	if err != nil {
		return nil, err
	}

	// An enabled enrichment always leaves a block on the case, a stub when
	// the profile is missing.
	var research *models.MarketResearch
	if p.options.MarketEnrichment {
		r := p.enrich(ctx, synthesis.Profile.ProfileOrDefault())
		research = &r
	}

	scores, err := p.score(ctx, sub.SubmissionID, synthesis.Profile, research)
	if err != nil {
		return nil, err
	}

	doc := models.CaseDocument{
		CaseID:            p.newID(),
		SubmissionID:      sub.SubmissionID,
		Locale:            loc,
		Profile:           synthesis.Profile.ProfileOrDefault(),
		CompletenessScore: scores.CompletenessScore,
		Score:             scores.AssessmentScore,
		MarketResearch:    research,
		DataSources:       synthesis.DataSources,
		CreatedAt:         p.now().UTC(),
	}

	result := &Result{Case: doc}
	result.Views = p.render(ctx, doc, loc)

	if p.options.Feedback {
		fctx, fspan := observability.StartSpan(ctx, "pipeline.feedback")
		out, err := p.feedback.Execute(fctx, &generatefeedback.Input{
			SubmissionID:    sub.SubmissionID,
			Locale:          loc,
			Profile:         doc.Profile,
			AssessmentScore: doc.Score,
		})
		observability.EndSpan(fspan, err)
		if err == nil {
			result.Feedback = out.Feedback
			result.FeedbackError = out.Error
		}
	}

	p.logger.Info("submission evaluated", map[string]interface{}{
		"submissionId":  sub.SubmissionID,
		"caseId":        doc.CaseID,
		"scoringMethod": doc.Score.ScoringMethod,
		"total":         doc.Score.Total,
		"eligibility":   doc.Score.Eligibility,
		"viewsStatus":   result.Views.Status,
	})
	return result, nil
}

func (p *Pipeline) synthesize(ctx context.Context, sub Submission, loc string) (*synthesizeprofile.Output, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.synthesize")
	out, err := p.synthesizer.Execute(ctx, &synthesizeprofile.Input{
		SubmissionID: sub.SubmissionID,
		Locale:       loc,
		OCRData:      sub.OCRData,
		Transcript:   sub.Transcript,
	})
	observability.EndSpan(span, err)
	return out, err
}

func (p *Pipeline) enrich(ctx context.Context, profile models.BusinessProfile) models.MarketResearch {
	ctx, span := observability.StartSpan(ctx, "pipeline.enrich")
	defer observability.EndSpan(span, nil)
	return p.enricher.Enrich(ctx, profile)
}

func (p *Pipeline) score(ctx context.Context, submissionID string, profile models.ProfileResult, research *models.MarketResearch) (*calculatescore.Output, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.score")
	out, err := p.scorer.Execute(ctx, &calculatescore.Input{
		SubmissionID:   submissionID,
		Profile:        profile,
		MarketResearch: research,
	})
	observability.EndSpan(span, err)
	return out, err
}

func (p *Pipeline) render(ctx context.Context, doc models.CaseDocument, loc string) models.StakeholderViews {
	ctx, span := observability.StartSpan(ctx, "pipeline.views", attribute.String("locale", loc))
	defer observability.EndSpan(span, nil)
	return p.renderer.Render(ctx, doc, loc)
}
