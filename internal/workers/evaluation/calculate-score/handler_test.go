// internal/workers/evaluation/calculate-score/handler_test.go
package calculatescore

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(enhanced bool) *Config {
	return &Config{Timeout: 5 * time.Second, Enhanced: enhanced, Temperature: 0.2}
}

func workedExampleProfile() models.BusinessProfile {
	p := models.EmptyProfile()
	p.TargetMarket.PrimaryCustomers = "Rural households"
	p.Concept.Description = "Mobile repair service"
	p.ResourcesRequired.StartupCosts = "₹99,000"
	return p
}

func fullProfile() models.BusinessProfile {
	p := workedExampleProfile()
	p.TargetMarket.MarketSize = "5 villages, 8000 people"
	p.RevenueModel.PricingStrategy = "Rs 200 per repair"
	p.RevenueModel.RevenueStreams = []string{"repairs", "accessories"}
	p.ValueProposition.UniqueSellingPoint = "Doorstep service"
	p.ValueProposition.ProblemSolved = "Nearest repair shop is 30 km away"
	p.Entrepreneur.Experience = "3 years at a phone shop"
	p.Implementation.Timeline = "1 month"
	return p
}

func generatorReturning(text string, err error) genai.Generator {
	return genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
		return text, err
	})
}

// ==========================
// Completeness Tests
// ==========================

func TestScoreProfile_WorkedExample(t *testing.T) {
	score := ScoreProfile(workedExampleProfile())

	assert.Equal(t, models.ScoringCompleteness, score.ScoringMethod)
	assert.Equal(t, map[string]int{
		models.CategoryMarketPotential:        1,
		models.CategoryBusinessModelClarity:   1,
		models.CategoryFinancialFeasibility:   1,
		models.CategoryCompetitiveAdvantage:   0,
		models.CategoryEntrepreneurCapability: 0,
	}, score.Scores)
	assert.Equal(t, 3, score.Total)
	assert.Equal(t, 10, score.Max)
	assert.InDelta(t, 30.0, score.Percentage, 0.001)
	assert.Equal(t, models.EligibilityNeedsWork, score.Eligibility)
	assert.Equal(t, "1/2 - Market size and customer identification", score.Rationale[models.CategoryMarketPotential])
}

func TestScoreProfile_FullAndEmpty(t *testing.T) {
	full := ScoreProfile(fullProfile())
	assert.Equal(t, 10, full.Total)
	assert.Equal(t, models.EligibilityHigh, full.Eligibility)

	empty := ScoreProfile(models.EmptyProfile())
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, models.EligibilityInsufficient, empty.Eligibility)
	assert.Len(t, empty.Scores, 5)
}

func TestScoreProfile_LoanAloneCountsForFinancials(t *testing.T) {
	p := models.EmptyProfile()
	p.ResourcesRequired.LoanRequirement = "Rs 1 lakh"

	score := ScoreProfile(p)
	assert.Equal(t, 1, score.Scores[models.CategoryFinancialFeasibility])
}

func TestClassifyCompleteness_Thresholds(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{10, models.EligibilityHigh},
		{7, models.EligibilityHigh},
		{6, models.EligibilityGood},
		{5, models.EligibilityGood},
		{4, models.EligibilityNeedsWork},
		{3, models.EligibilityNeedsWork},
		{2, models.EligibilityInsufficient},
		{0, models.EligibilityInsufficient},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCompleteness(tt.total), "total %d", tt.total)
	}
}

// presenceFields sets the ten completeness fields, one per entry.
var presenceFields = []func(p *models.BusinessProfile){
	func(p *models.BusinessProfile) { p.TargetMarket.MarketSize = "2000 households" },
	func(p *models.BusinessProfile) { p.TargetMarket.PrimaryCustomers = "Urban families" },
	func(p *models.BusinessProfile) { p.Concept.Description = "Organic milk delivery" },
	func(p *models.BusinessProfile) { p.RevenueModel.PricingStrategy = "Rs 60 per litre" },
	func(p *models.BusinessProfile) { p.ResourcesRequired.StartupCosts = "Rs 3 lakh" },
	func(p *models.BusinessProfile) { p.RevenueModel.RevenueStreams = []string{"milk"} },
	func(p *models.BusinessProfile) { p.ValueProposition.UniqueSellingPoint = "Same-day delivery" },
	func(p *models.BusinessProfile) { p.ValueProposition.ProblemSolved = "Adulterated milk" },
	func(p *models.BusinessProfile) { p.Entrepreneur.Experience = "5 years" },
	func(p *models.BusinessProfile) { p.Implementation.Timeline = "3 months" },
}

func profileWithFields(n int) models.BusinessProfile {
	p := models.EmptyProfile()
	for _, set := range presenceFields[:n] {
		set(&p)
	}
	return p
}

func TestScoreProfile_ThresholdBoundaries(t *testing.T) {
	tests := []struct {
		fields int
		want   string
	}{
		{10, models.EligibilityHigh},
		{7, models.EligibilityHigh},
		{6, models.EligibilityGood},
		{5, models.EligibilityGood},
		{4, models.EligibilityNeedsWork},
		{3, models.EligibilityNeedsWork},
		{2, models.EligibilityInsufficient},
		{0, models.EligibilityInsufficient},
	}

	for _, tt := range tests {
		score := ScoreProfile(profileWithFields(tt.fields))

		assert.Equal(t, tt.fields, score.Total, "fields %d", tt.fields)
		assert.Equal(t, tt.want, score.Eligibility, "fields %d", tt.fields)
		assert.Equal(t, recommendations[tt.want], score.Recommendation)
	}
}

func TestScoreProfile_Deterministic(t *testing.T) {
	p := fullProfile()
	p.ValueProposition.ProblemSolved = models.NotSpecified

	first := ScoreProfile(p)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ScoreProfile(p))
	}
}

func TestScoreProfile_Monotonic(t *testing.T) {
	setters := []func(*models.BusinessProfile){
		func(p *models.BusinessProfile) { p.TargetMarket.MarketSize = "large" },
		func(p *models.BusinessProfile) { p.TargetMarket.PrimaryCustomers = "students" },
		func(p *models.BusinessProfile) { p.Concept.Description = "canteen" },
		func(p *models.BusinessProfile) { p.RevenueModel.PricingStrategy = "Rs 40 per meal" },
		func(p *models.BusinessProfile) { p.ResourcesRequired.StartupCosts = "Rs 50,000" },
		func(p *models.BusinessProfile) { p.RevenueModel.RevenueStreams = []string{"meals"} },
		func(p *models.BusinessProfile) { p.ValueProposition.UniqueSellingPoint = "home style food" },
		func(p *models.BusinessProfile) { p.ValueProposition.ProblemSolved = "no cheap food nearby" },
		func(p *models.BusinessProfile) { p.Entrepreneur.Experience = "cook for 10 years" },
		func(p *models.BusinessProfile) { p.Implementation.Timeline = "2 weeks" },
	}

	p := models.EmptyProfile()
	prev := ScoreProfile(p).Total
	for i, set := range setters {
		set(&p)
		next := ScoreProfile(p).Total
		assert.GreaterOrEqual(t, next, prev, "setter %d decreased the total", i)
		prev = next
	}
	assert.Equal(t, 10, prev)
}

func TestCompleteness_ErrorInput(t *testing.T) {
	score := Completeness(models.ProfileFailed(&models.ExtractionError{
		Code:    string(apperrors.ErrCodeMalformedResponse),
		Message: "not json",
	}))

	assert.Equal(t, 0, score.Total)
	assert.Equal(t, models.EligibilityIncomplete, score.Eligibility)
	assert.Contains(t, score.Error, "MALFORMED_RESPONSE")
	assert.Len(t, score.Scores, 5)
}

// ==========================
// Fallback & Weighting Tests
// ==========================

func TestFallback_CarriesAllKeys(t *testing.T) {
	completeness := ScoreProfile(workedExampleProfile())

	score := Fallback(completeness, errors.New("boom"))

	assert.Equal(t, models.ScoringFallback, score.ScoringMethod)
	for _, c := range models.EnhancedCategories {
		_, ok := score.Scores[c]
		assert.True(t, ok, "missing %s", c)
	}
	assert.Equal(t, 50, score.Scores[models.CategoryMarketPotential])
	assert.Equal(t, 0, score.Scores[models.CategoryImplementationReadiness])
	assert.Equal(t, 50, score.Scores[models.CategoryMarketResearch])
	// 50*.25 + 50*.20 + 50*.20 + 0 + 0 + 50*.10 = 37.5 -> 38
	assert.Equal(t, 38, score.Total)
	assert.Equal(t, models.EligibilityInsufficient, score.Eligibility)
	assert.Equal(t, "boom", score.Error)
}

func TestFallback_FullProfile(t *testing.T) {
	score := Fallback(ScoreProfile(fullProfile()), nil)

	assert.Equal(t, 95, score.Total)
	assert.Equal(t, models.EligibilityHigh, score.Eligibility)
	assert.Empty(t, score.Error)
}

func TestClassifyEnhanced_Thresholds(t *testing.T) {
	assert.Equal(t, models.EligibilityHigh, ClassifyEnhanced(80))
	assert.Equal(t, models.EligibilityGood, ClassifyEnhanced(79))
	assert.Equal(t, models.EligibilityGood, ClassifyEnhanced(65))
	assert.Equal(t, models.EligibilityNeedsWork, ClassifyEnhanced(64))
	assert.Equal(t, models.EligibilityNeedsWork, ClassifyEnhanced(50))
	assert.Equal(t, models.EligibilityInsufficient, ClassifyEnhanced(49))
}

func TestWeightedTotal(t *testing.T) {
	scores := map[string]int{
		models.CategoryMarketPotential:         80,
		models.CategoryBusinessModelClarity:    70,
		models.CategoryFinancialFeasibility:    60,
		models.CategoryCompetitiveAdvantage:    90,
		models.CategoryImplementationReadiness: 50,
		models.CategoryMarketResearch:          40,
	}
	// 20 + 14 + 12 + 13.5 + 5 + 4 = 68.5 -> 69
	assert.Equal(t, 69, WeightedTotal(scores))
}

func TestCoerceScore(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want int
	}{
		{"number", float64(82), 82},
		{"fractional number", 77.6, 78},
		{"numeric string", "85", 85},
		{"string with text", "about 65 out of 100", 65},
		{"string without digits", "high", 70},
		{"missing", nil, 70},
		{"boolean", true, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceScore(tt.raw))
		})
	}
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_Execute_CompletenessOnly(t *testing.T) {
	h := NewHandler(createTestConfig(false), nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Profile: models.ProfileOK(workedExampleProfile())})
	require.NoError(t, err)

	assert.Equal(t, models.ScoringCompleteness, out.AssessmentScore.ScoringMethod)
	assert.Equal(t, out.CompletenessScore, out.AssessmentScore)
	assert.Equal(t, 3, out.AssessmentScore.Total)
}

func TestHandler_Execute_Enhanced(t *testing.T) {
	response := "```json\n" + `{
  "market_potential": 90,
  "business_model_clarity": "75",
  "financial_feasibility": "around 70",
  "competitive_advantage": 140,
  "implementation_readiness": -5,
  "market_research_score": 60,
  "overall_score": 12,
  "scoring_rationale": {"market_validation": "Clear local demand"}
}` + "\n```"
	h := NewHandler(createTestConfig(true), generatorReturning(response, nil), logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Profile: models.ProfileOK(fullProfile())})
	require.NoError(t, err)

	score := out.AssessmentScore
	assert.Equal(t, models.ScoringEnhanced, score.ScoringMethod)
	assert.Equal(t, 100, score.Scores[models.CategoryCompetitiveAdvantage])
	assert.Equal(t, 0, score.Scores[models.CategoryImplementationReadiness])
	assert.Equal(t, 75, score.Scores[models.CategoryBusinessModelClarity])
	// 22.5 + 15 + 14 + 15 + 0 + 6 = 72.5 -> 73; the model's overall is ignored
	assert.Equal(t, 73, score.Total)
	assert.Equal(t, models.EligibilityGood, score.Eligibility)
	assert.Equal(t, "Clear local demand", score.Rationale["market_validation"])
	assert.Equal(t, models.NotSpecified, score.Rationale["financial_viability"])

	assert.Equal(t, models.ScoringCompleteness, out.CompletenessScore.ScoringMethod)
}

func TestHandler_Execute_EnhancedFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		generator genai.Generator
		profile   models.ProfileResult
		wantError string
	}{
		{
			name:      "generator not configured",
			profile:   models.ProfileOK(fullProfile()),
			wantError: "CAPABILITY_NOT_CONFIGURED",
		},
		{
			name:      "malformed response",
			generator: generatorReturning("scores: good", nil),
			profile:   models.ProfileOK(fullProfile()),
			wantError: "MALFORMED_RESPONSE",
		},
		{
			name:      "json without categories",
			generator: generatorReturning(`{"verdict": "great"}`, nil),
			profile:   models.ProfileOK(fullProfile()),
			wantError: "MALFORMED_RESPONSE",
		},
		{
			name:      "call failure",
			generator: generatorReturning("", apperrors.NewGenerationFailedError(errors.New("503"))),
			profile:   models.ProfileOK(fullProfile()),
			wantError: "GENERATION_FAILED",
		},
		{
			name:      "profile error",
			generator: generatorReturning(`{"market_potential": 99}`, nil),
			profile:   models.ProfileFailed(&models.ExtractionError{Code: "NOT_ENOUGH_INPUT", Message: "empty"}),
			wantError: "profile unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(true), tt.generator, logger.NewTestLogger(t))

			out, err := h.Execute(context.Background(), &Input{Profile: tt.profile})
			require.NoError(t, err)

			score := out.AssessmentScore
			assert.Equal(t, models.ScoringFallback, score.ScoringMethod)
			assert.Len(t, score.Scores, 6)
			assert.Contains(t, score.Error, tt.wantError)
		})
	}
}

func TestHandler_Execute_InputOverridesMode(t *testing.T) {
	off := false
	h := NewHandler(createTestConfig(true), nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Profile: models.ProfileOK(fullProfile()), Enhanced: &off})
	require.NoError(t, err)
	assert.Equal(t, models.ScoringCompleteness, out.AssessmentScore.ScoringMethod)
}
