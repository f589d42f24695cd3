// internal/workers/evaluation/calculate-score/fallback.go
package calculatescore

import "github.com/shub15/the-unfair-advantage/internal/models"

// Weights of the enhanced categories in the overall score, in percent.
var categoryWeights = map[string]int{
	models.CategoryMarketPotential:         25,
	models.CategoryBusinessModelClarity:    20,
	models.CategoryFinancialFeasibility:    20,
	models.CategoryCompetitiveAdvantage:    15,
	models.CategoryImplementationReadiness: 10,
	models.CategoryMarketResearch:          10,
}

const neutralMarketResearchScore = 50

// Fallback derives a six-category score from the completeness breakdown when
// enhanced scoring cannot be used. It always carries every enhanced key.
func Fallback(completeness models.AssessmentScore, cause error) models.AssessmentScore {
	sub := func(category string) int {
		return clamp(completeness.Scores[category]*50, 0, 100)
	}

	scores := map[string]int{
		models.CategoryMarketPotential:         sub(models.CategoryMarketPotential),
		models.CategoryBusinessModelClarity:    sub(models.CategoryBusinessModelClarity),
		models.CategoryFinancialFeasibility:    sub(models.CategoryFinancialFeasibility),
		models.CategoryCompetitiveAdvantage:    sub(models.CategoryCompetitiveAdvantage),
		models.CategoryImplementationReadiness: sub(models.CategoryEntrepreneurCapability),
		models.CategoryMarketResearch:          neutralMarketResearchScore,
	}

	total := WeightedTotal(scores)
	eligibility := ClassifyEnhanced(total)

	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	return models.AssessmentScore{
		ScoringMethod: models.ScoringFallback,
		Scores:        scores,
		Rationale: map[string]string{
			"market_validation":         "Derived from field completeness; no market validation was scored",
			"competitive_analysis":      "Derived from the stated unique selling point and problem solved",
			"financial_viability":       "Derived from stated costs, loan need and revenue streams",
			"implementation_assessment": "Derived from stated experience and timeline",
		},
		Total:          total,
		Max:            100,
		Percentage:     float64(total),
		Eligibility:    eligibility,
		Recommendation: recommendations[eligibility],
		Error:          msg,
	}
}

// WeightedTotal blends the six enhanced categories and rounds to the nearest
// integer, halves up. Missing categories count as 0.
func WeightedTotal(scores map[string]int) int {
	sum := 0
	for category, weight := range categoryWeights {
		sum += clamp(scores[category], 0, 100) * weight
	}
	return clamp((sum+50)/100, 0, 100)
}

// ClassifyEnhanced maps a 0-100 overall score onto the eligibility labels.
func ClassifyEnhanced(total int) string {
	switch {
	case total >= 80:
		return models.EligibilityHigh
	case total >= 65:
		return models.EligibilityGood
	case total >= 50:
		return models.EligibilityNeedsWork
	default:
		return models.EligibilityInsufficient
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
