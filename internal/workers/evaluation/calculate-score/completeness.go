// internal/workers/evaluation/calculate-score/completeness.go
package calculatescore

import (
	"fmt"

	"github.com/shub15/the-unfair-advantage/internal/models"
)

const completenessMax = 10

var completenessRationale = map[string]string{
	models.CategoryMarketPotential:        "Market size and customer identification",
	models.CategoryBusinessModelClarity:   "Business description and pricing strategy",
	models.CategoryFinancialFeasibility:   "Startup costs and revenue streams",
	models.CategoryCompetitiveAdvantage:   "Unique value proposition and problem solving",
	models.CategoryEntrepreneurCapability: "Experience and implementation planning",
}

var recommendations = map[string]string{
	models.EligibilityHigh:         "Strong business case with clear market opportunity and execution plan",
	models.EligibilityGood:         "Promising business idea that needs some development",
	models.EligibilityNeedsWork:    "Business concept requires significant improvement before funding",
	models.EligibilityInsufficient: "More information needed to properly evaluate the business",
	models.EligibilityIncomplete:   "The submission could not be read; please resubmit the business plan",
}

// Completeness scores a profile result. An error result scores 0 with the
// "Incomplete Information" label; it is never an error itself.
func Completeness(result models.ProfileResult) models.AssessmentScore {
	if !result.OK() {
		scores := make(map[string]int, len(models.CompletenessCategories))
		for _, c := range models.CompletenessCategories {
			scores[c] = 0
		}
		msg := "profile unavailable"
		if result.Err != nil {
			msg = result.Err.Error()
		}
		return models.AssessmentScore{
			ScoringMethod:  models.ScoringCompleteness,
			Scores:         scores,
			Rationale:      rationaleFor(scores),
			Total:          0,
			Max:            completenessMax,
			Percentage:     0,
			Eligibility:    models.EligibilityIncomplete,
			Recommendation: recommendations[models.EligibilityIncomplete],
			Error:          msg,
		}
	}
	return ScoreProfile(*result.Profile)
}

// ScoreProfile applies the ten field-presence tests, two per category.
func ScoreProfile(p models.BusinessProfile) models.AssessmentScore {
	scores := map[string]int{
		models.CategoryMarketPotential: point(models.IsSpecified(p.TargetMarket.MarketSize)) +
			point(models.IsSpecified(p.TargetMarket.PrimaryCustomers)),

		models.CategoryBusinessModelClarity: point(models.IsSpecified(p.Concept.Description)) +
			point(models.IsSpecified(p.RevenueModel.PricingStrategy)),

		models.CategoryFinancialFeasibility: point(models.IsSpecified(p.ResourcesRequired.StartupCosts) ||
			models.IsSpecified(p.ResourcesRequired.LoanRequirement)) +
			point(len(p.RevenueModel.RevenueStreams) > 0),

		models.CategoryCompetitiveAdvantage: point(models.IsSpecified(p.ValueProposition.UniqueSellingPoint)) +
			point(models.IsSpecified(p.ValueProposition.ProblemSolved)),

		models.CategoryEntrepreneurCapability: point(models.IsSpecified(p.Entrepreneur.Experience)) +
			point(models.IsSpecified(p.Implementation.Timeline)),
	}

	total := 0
	for _, v := range scores {
		total += v
	}

	eligibility := ClassifyCompleteness(total)
	return models.AssessmentScore{
		ScoringMethod:  models.ScoringCompleteness,
		Scores:         scores,
		Rationale:      rationaleFor(scores),
		Total:          total,
		Max:            completenessMax,
		Percentage:     float64(total) / completenessMax * 100,
		Eligibility:    eligibility,
		Recommendation: recommendations[eligibility],
	}
}

// ClassifyCompleteness maps a 0-10 total onto the eligibility labels.
func ClassifyCompleteness(total int) string {
	switch {
	case total >= 7:
		return models.EligibilityHigh
	case total >= 5:
		return models.EligibilityGood
	case total >= 3:
		return models.EligibilityNeedsWork
	default:
		return models.EligibilityInsufficient
	}
}

func rationaleFor(scores map[string]int) map[string]string {
	out := make(map[string]string, len(scores))
	for category, v := range scores {
		out[category] = fmt.Sprintf("%d/2 - %s", v, completenessRationale[category])
	}
	return out
}

func point(ok bool) int {
	if ok {
		return 1
	}
	return 0
}
