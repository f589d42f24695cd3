// internal/workers/evaluation/calculate-score/enhanced.go
package calculatescore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/jsonutil"
	"github.com/shub15/the-unfair-advantage/internal/models"
)

// defaultCategoryScore replaces category values the model left unreadable.
const defaultCategoryScore = 70

var rationaleKeys = []string{
	"market_validation",
	"competitive_analysis",
	"financial_viability",
	"implementation_assessment",
}

const enhancedSchema = `{
  "market_potential": 0,
  "business_model_clarity": 0,
  "financial_feasibility": 0,
  "competitive_advantage": 0,
  "implementation_readiness": 0,
  "market_research_score": 0,
  "scoring_rationale": {
    "market_validation": "brief explanation",
    "competitive_analysis": "brief explanation",
    "financial_viability": "brief explanation",
    "implementation_assessment": "brief explanation"
  }
}`

func buildEnhancedPrompt(profile models.BusinessProfile, completeness models.AssessmentScore, market *models.MarketResearch) string {
	var parts []string

	parts = append(parts, "Score this business plan on six criteria, each an integer from 0 to 100.")

	profileJSON, _ := json.MarshalIndent(profile, "", "  ")
	parts = append(parts, "\nBusiness Profile:")
	parts = append(parts, string(profileJSON))

	parts = append(parts, fmt.Sprintf("\nCompleteness Score: %d/%d (%s)", completeness.Total, completeness.Max, completeness.Eligibility))

	if market != nil {
		marketJSON, _ := json.MarshalIndent(market, "", "  ")
		parts = append(parts, "\nMarket Research:")
		parts = append(parts, string(marketJSON))
	}

	parts = append(parts, "\nScoring Criteria:")
	parts = append(parts, "1. market_potential: market size, demand validation, growth trends")
	parts = append(parts, "2. business_model_clarity: revenue model definition, scalability, sustainability")
	parts = append(parts, "3. financial_feasibility: realism of startup costs, revenue vs market data")
	parts = append(parts, "4. competitive_advantage: differentiation, barriers to entry, positioning")
	parts = append(parts, "5. implementation_readiness: resources, timeline realism, risk mitigation")
	parts = append(parts, "6. market_research_score: quality and depth of market validation data")
	parts = append(parts, "\nDo not compute an overall score. Give a one-sentence rationale per rationale key.")

	return strings.Join(parts, "\n")
}

// enhanced runs the generative six-category scoring. Any failure is returned
// so the caller can fall back.
func (h *Handler) enhanced(ctx context.Context, profile models.BusinessProfile, completeness models.AssessmentScore, market *models.MarketResearch) (models.AssessmentScore, error) {
	if err := genai.Require(h.generator); err != nil {
		return models.AssessmentScore{}, err
	}

	raw, err := h.generator.GenerateStructuredJSON(ctx, genai.Request{
		Prompt:      buildEnhancedPrompt(profile, completeness, market),
		Temperature: h.config.Temperature,
		Schema:      enhancedSchema,
	})
	if err != nil {
		return models.AssessmentScore{}, err
	}

	obj, err := jsonutil.ParseObject(raw)
	if err != nil {
		return models.AssessmentScore{}, err
	}

	scores, err := coerceScores(obj)
	if err != nil {
		return models.AssessmentScore{}, apperrors.NewMalformedResponseError(raw, err)
	}

	total := WeightedTotal(scores)
	eligibility := ClassifyEnhanced(total)

	return models.AssessmentScore{
		ScoringMethod:  models.ScoringEnhanced,
		Scores:         scores,
		Rationale:      coerceRationale(obj["scoring_rationale"]),
		Total:          total,
		Max:            100,
		Percentage:     float64(total),
		Eligibility:    eligibility,
		Recommendation: recommendations[eligibility],
	}, nil
}

// coerceScores reads the six categories. A response carrying none of them
// is malformed; an individual unreadable value becomes the default.
func coerceScores(obj map[string]interface{}) (map[string]int, error) {
	scores := make(map[string]int, len(models.EnhancedCategories))
	found := 0
	for _, category := range models.EnhancedCategories {
		raw, ok := obj[category]
		if ok {
			found++
		}
		scores[category] = clamp(coerceScore(raw), 0, 100)
	}
	if found == 0 {
		return nil, fmt.Errorf("response carries none of the score categories")
	}
	return scores, nil
}

func coerceScore(raw interface{}) int {
	return jsonutil.Int(raw, defaultCategoryScore)
}

func coerceRationale(raw interface{}) map[string]string {
	out := make(map[string]string, len(rationaleKeys))
	m, _ := raw.(map[string]interface{})
	for _, key := range rationaleKeys {
		s, _ := m[key].(string)
		if strings.TrimSpace(s) == "" {
			s = models.NotSpecified
		}
		out[key] = s
	}
	return out
}
