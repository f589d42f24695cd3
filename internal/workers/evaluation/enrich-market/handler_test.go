// internal/workers/evaluation/enrich-market/handler_test.go
package enrichmarket

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/websearch"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.Timeout = 5 * time.Second
	return cfg
}

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	counts  []int
	fail    string
}

func (f *fakeSearcher) Enabled() bool { return true }

func (f *fakeSearcher) Search(_ context.Context, query string, count int) ([]models.SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.counts = append(f.counts, count)
	f.mu.Unlock()

	if f.fail != "" && strings.Contains(query, f.fail) {
		return nil, apperrors.NewWebSearchTimeoutError()
	}
	return []models.SearchResult{
		{Title: "Result 1 " + query, Snippet: strings.Repeat("x", 500), URL: "https://a.example"},
		{Title: "Result 2 " + query, Snippet: "short", URL: "https://b.example"},
		{Title: "Result 3 " + query, Snippet: "third", URL: "https://c.example"},
	}, nil
}

func dairyProfile() models.BusinessProfile {
	p := models.EmptyProfile()
	p.Concept.BusinessName = "Ravi Dairy"
	p.Concept.Description = "organic milk delivery"
	return p
}

func newTestHandler(t *testing.T, gen genai.Generator, s websearch.Searcher) *Handler {
	h := NewHandler(createTestConfig(), gen, s, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	return h
}

const marketResponse = "```json\n" + `{
  "market_analysis": "Growing urban demand for organic milk",
  "competition_analysis": "Dominated by cooperatives",
  "market_potential_score": 82,
  "competitive_landscape_score": 140,
  "industry_trends": ["subscription delivery"],
  "market_opportunities": ["apartment complexes"],
  "target_market_validation": "Validated",
  "pricing_benchmarks": "Rs 70-90 per litre",
  "growth_projections": "12% CAGR"
}` + "\n```"

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Enrich_Success(t *testing.T) {
	searcher := &fakeSearcher{}
	var prompt string
	gen := genai.GeneratorFunc(func(_ context.Context, req genai.Request) (string, error) {
		prompt = req.Prompt
		return marketResponse, nil
	})
	h := newTestHandler(t, gen, searcher)

	research := h.Enrich(context.Background(), dairyProfile())

	assert.True(t, research.SearchEnabled)
	assert.Empty(t, research.Error)
	assert.False(t, research.IsStub())
	assert.Equal(t, 82, research.MarketPotentialScore)
	assert.Equal(t, 100, research.CompetitiveLandscapeScore, "scores are clamped")
	assert.Equal(t, 9, research.SearchResultsCount)
	assert.Equal(t, []string{
		"organic milk delivery market size India 2025",
		"organic milk delivery competition analysis India 2025",
		"organic milk delivery industry trends 2025",
	}, research.SearchQueriesUsed)
	assert.Equal(t, []string{}, research.CompetitiveThreats, "missing lists default to empty")

	sort.Strings(searcher.queries)
	assert.Len(t, searcher.queries, 3)
	assert.Equal(t, []int{3, 3, 3}, searcher.counts)

	assert.Contains(t, prompt, "Result 2 organic milk delivery market size India 2025")
	assert.NotContains(t, prompt, "Result 3", "only the top two hits reach the prompt")
	assert.NotContains(t, prompt, strings.Repeat("x", 301), "snippets are truncated")
}

func TestHandler_Enrich_ConceptFallsBackToName(t *testing.T) {
	searcher := &fakeSearcher{}
	h := newTestHandler(t, genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
		return marketResponse, nil
	}), searcher)

	p := models.EmptyProfile()
	p.Concept.BusinessName = "Chai Point"

	research := h.Enrich(context.Background(), p)
	assert.Equal(t, "Chai Point market size India 2025", research.SearchQueriesUsed[0])
}

func TestHandler_Enrich_LooselyTypedResponse(t *testing.T) {
	tests := []struct {
		name          string
		potential     string
		landscape     string
		wantPotential int
		wantLandscape int
	}{
		{"numeric strings", `"85"`, `"60"`, 85, 60},
		{"scores with text", `"85/100"`, `"about 40 points"`, 85, 40},
		{"unreadable scores use defaults", `"high"`, `null`, failedMarketScore, failedCompetitionScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := "```json\n{" +
				`"market_analysis": 42, ` +
				`"industry_trends": "subscription delivery", ` +
				`"pricing_benchmarks": true, ` +
				`"market_potential_score": ` + tt.potential + `, ` +
				`"competitive_landscape_score": ` + tt.landscape +
				"}\n```"
			h := newTestHandler(t, genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
				return resp, nil
			}), &fakeSearcher{})

			research := h.Enrich(context.Background(), dairyProfile())

			assert.Empty(t, research.Error)
			assert.True(t, research.SearchEnabled)
			assert.Equal(t, tt.wantPotential, research.MarketPotentialScore)
			assert.Equal(t, tt.wantLandscape, research.CompetitiveLandscapeScore)
			assert.Equal(t, "42", research.MarketAnalysis)
			assert.Equal(t, []string{"subscription delivery"}, research.IndustryTrends)
			assert.Equal(t, "true", research.PricingBenchmarks)
		})
	}
}

// ==========================
// Degraded Mode Tests
// ==========================

func TestHandler_Enrich_DisabledStub(t *testing.T) {
	tests := []struct {
		name      string
		generator genai.Generator
		searcher  websearch.Searcher
	}{
		{
			name:      "search disabled",
			generator: genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) { return "{}", nil }),
			searcher:  websearch.Disabled{},
		},
		{
			name:     "generator missing",
			searcher: &fakeSearcher{},
		},
		{
			name: "nothing configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.generator, tt.searcher)

			research := h.Enrich(context.Background(), dairyProfile())

			assert.False(t, research.SearchEnabled)
			assert.True(t, research.IsStub())
			assert.Equal(t, 75, research.MarketPotentialScore)
			assert.Equal(t, 70, research.CompetitiveLandscapeScore)
			assert.Equal(t, []string{}, research.SearchQueriesUsed)
		})
	}
}

func TestHandler_Enrich_GenerationFailureStub(t *testing.T) {
	tests := []struct {
		name string
		gen  genai.Generator
	}{
		{"call error", genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
			return "", apperrors.NewGenerationFailedError(errors.New("quota"))
		})},
		{"malformed", genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
			return "The market looks good.", nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.gen, &fakeSearcher{})

			research := h.Enrich(context.Background(), dairyProfile())

			assert.True(t, research.IsStub())
			assert.NotEmpty(t, research.Error)
			assert.Equal(t, 70, research.MarketPotentialScore)
			assert.Equal(t, 65, research.CompetitiveLandscapeScore)
			assert.Len(t, research.SearchQueriesUsed, 3)
		})
	}
}

func TestHandler_Enrich_SearchFailureIsSoft(t *testing.T) {
	searcher := &fakeSearcher{fail: "competition"}
	h := newTestHandler(t, genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
		return marketResponse, nil
	}), searcher)

	research := h.Enrich(context.Background(), dairyProfile())

	assert.Empty(t, research.Error)
	assert.Equal(t, 6, research.SearchResultsCount)
}

func TestHandler_Enrich_NoConcept(t *testing.T) {
	h := newTestHandler(t, genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
		return marketResponse, nil
	}), &fakeSearcher{})

	research := h.Enrich(context.Background(), models.EmptyProfile())

	assert.True(t, research.IsStub())
	assert.Contains(t, research.Error, "NOT_ENOUGH_INPUT")
}

func TestHandler_Execute_NormalizesProfile(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-9"})
	require.NoError(t, err)
	assert.Equal(t, "sub-9", out.SubmissionID)
	assert.False(t, out.MarketResearch.SearchEnabled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("  abc ", 10))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "दूध...", truncate("दूध वाला", 3))
}
