// internal/workers/evaluation/enrich-market/handler.go
package enrichmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/camunda"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/jsonutil"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/metrics"
	"github.com/shub15/the-unfair-advantage/internal/common/websearch"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "enrich-market"
)

// Default scores of the stub blocks.
const (
	disabledMarketScore      = 75
	disabledCompetitionScore = 70
	failedMarketScore        = 70
	failedCompetitionScore   = 65
)

type Handler struct {
	config    *Config
	generator genai.Generator
	searcher  websearch.Searcher
	now       func() time.Time
	logger    logger.Logger
}

func NewHandler(config *Config, generator genai.Generator, searcher websearch.Searcher, log logger.Logger) *Handler {
	if searcher == nil {
		searcher = websearch.Disabled{}
	}
	return &Handler{
		config:    config,
		generator: generator,
		searcher:  searcher,
		now:       time.Now,
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
	input.Profile.Normalize()
	return &Output{
		SubmissionID:   input.SubmissionID,
		MarketResearch: h.Enrich(ctx, input.Profile),
	}, nil
}

// Enrich always returns a market research block. Missing capabilities give
// the disabled stub; failures give the error stub.
func (h *Handler) Enrich(ctx context.Context, profile models.BusinessProfile) models.MarketResearch {
	start := time.Now()
	research, outcome := h.enrich(ctx, profile)
	research.Normalize()
	metrics.StageDuration.WithLabelValues(TaskType, outcome).Observe(time.Since(start).Seconds())
	return research
}

func (h *Handler) enrich(ctx context.Context, profile models.BusinessProfile) (models.MarketResearch, string) {
	if !h.searcher.Enabled() || h.generator == nil {
		h.logger.Info("market research disabled", map[string]interface{}{
			"searchEnabled":    h.searcher.Enabled(),
			"generatorEnabled": h.generator != nil,
		})
		return disabledResearch(), "degraded"
	}

	concept := conceptOf(profile)
	if concept == "" {
		err := apperrors.NewNotEnoughInputError("profile has no description, business name or industry")
		return failedResearch(nil, 0, err), "degraded"
	}

	topics := buildQueries(concept, h.config.Region, h.now().Year())
	h.search(ctx, topics)

	queries := make([]string, len(topics))
	count := 0
	for i, t := range topics {
		queries[i] = t.query
		count += len(t.results)
	}

	raw, err := h.generator.GenerateStructuredJSON(ctx, genai.Request{
		Prompt:      h.buildPrompt(profile, topics),
		Temperature: h.config.Temperature,
		Schema:      marketSchema,
	})
	if err != nil {
		return failedResearch(queries, count, err), "error"
	}

	obj, err := jsonutil.ParseObject(raw)
	if err != nil {
		return failedResearch(queries, count, err), "error"
	}
	var research models.MarketResearch
	if err := jsonutil.Decode(obj, &research); err != nil {
		return failedResearch(queries, count, apperrors.NewMalformedResponseError(raw, err)), "error"
	}

	// Scores arrive as numbers or as text like "85/100".
	research.MarketPotentialScore = clamp(jsonutil.Int(obj["market_potential_score"], failedMarketScore), 0, 100)
	research.CompetitiveLandscapeScore = clamp(jsonutil.Int(obj["competitive_landscape_score"], failedCompetitionScore), 0, 100)
	research.SearchEnabled = true
	research.SearchQueriesUsed = queries
	research.SearchResultsCount = count
	research.Error = ""

	h.logger.Info("market research completed", map[string]interface{}{
		"concept":      concept,
		"resultsCount": count,
		"marketScore":  research.MarketPotentialScore,
	})
	return research, "ok"
}

// search runs the queries concurrently. A failed query contributes no
// results; it never aborts the others.
func (h *Handler) search(ctx context.Context, topics []topic) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range topics {
		i := i
		g.Go(func() error {
			results, err := h.searcher.Search(gctx, topics[i].query, h.config.ResultsPerQuery)
			if err != nil {
				h.logger.Warn("web search failed, continuing without results", map[string]interface{}{
					"query":     topics[i].query,
					"errorCode": string(apperrors.CodeOf(err)),
					"error":     err.Error(),
				})
				results = []models.SearchResult{}
			}
			topics[i].results = results
			return nil
		})
	}
	_ = g.Wait()
}

func disabledResearch() models.MarketResearch {
	return models.MarketResearch{
		MarketAnalysis:            "Market research unavailable - search or generation not configured",
		CompetitionAnalysis:       "Competition research unavailable - search or generation not configured",
		MarketPotentialScore:      disabledMarketScore,
		CompetitiveLandscapeScore: disabledCompetitionScore,
		IndustryTrends:            []string{"Market research not configured"},
		MarketOpportunities:       []string{"Enable web search for detailed market analysis"},
		CompetitiveThreats:        []string{"Limited market intelligence without search integration"},
		TargetMarketValidation:    models.NotSpecified,
		PricingBenchmarks:         models.NotSpecified,
		GrowthProjections:         models.NotSpecified,
		SearchEnabled:             false,
	}
}

func failedResearch(queries []string, count int, cause error) models.MarketResearch {
	return models.MarketResearch{
		MarketAnalysis:            "Market research temporarily unavailable",
		CompetitionAnalysis:       "Competition research temporarily unavailable",
		MarketPotentialScore:      failedMarketScore,
		CompetitiveLandscapeScore: failedCompetitionScore,
		IndustryTrends:            []string{"Market research temporarily unavailable"},
		MarketOpportunities:       []string{"Retry market research when services are available"},
		CompetitiveThreats:        []string{"Limited market intelligence due to technical issues"},
		TargetMarketValidation:    models.NotSpecified,
		PricingBenchmarks:         models.NotSpecified,
		GrowthProjections:         models.NotSpecified,
		SearchEnabled:             true,
		SearchQueriesUsed:         queries,
		SearchResultsCount:        count,
		Error:                     fmt.Sprintf("Market research failed: %v", cause),
	}
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
