// internal/models/score.go
package models

type ScoringMethod string

const (
	ScoringCompleteness ScoringMethod = "completeness"
	ScoringEnhanced     ScoringMethod = "enhanced"
	ScoringFallback     ScoringMethod = "fallback"
)

const (
	EligibilityHigh         = "High Potential - Recommended"
	EligibilityGood         = "Good Potential - Consider"
	EligibilityNeedsWork    = "Needs Development"
	EligibilityInsufficient = "Insufficient Information"
	EligibilityIncomplete   = "Incomplete Information"
)

// Completeness categories, 0-2 points each.
const (
	CategoryMarketPotential        = "market_potential"
	CategoryBusinessModelClarity   = "business_model_clarity"
	CategoryFinancialFeasibility   = "financial_feasibility"
	CategoryCompetitiveAdvantage   = "competitive_advantage"
	CategoryEntrepreneurCapability = "entrepreneur_capability"
)

// Enhanced categories, 0-100 each. The first four are shared with completeness.
const (
	CategoryImplementationReadiness = "implementation_readiness"
	CategoryMarketResearch          = "market_research_score"
)

var CompletenessCategories = []string{
	CategoryMarketPotential,
	CategoryBusinessModelClarity,
	CategoryFinancialFeasibility,
	CategoryCompetitiveAdvantage,
	CategoryEntrepreneurCapability,
}

var EnhancedCategories = []string{
	CategoryMarketPotential,
	CategoryBusinessModelClarity,
	CategoryFinancialFeasibility,
	CategoryCompetitiveAdvantage,
	CategoryImplementationReadiness,
	CategoryMarketResearch,
}

// AssessmentScore is tagged with the method that produced it. Completeness
// scores range 0-2 per category with a max of 10; enhanced and fallback scores
// range 0-100.
type AssessmentScore struct {
	ScoringMethod  ScoringMethod     `json:"scoring_method"`
	Scores         map[string]int    `json:"scores"`
	Rationale      map[string]string `json:"rationale"`
	Total          int               `json:"total_score"`
	Max            int               `json:"max_score"`
	Percentage     float64           `json:"percentage"`
	Eligibility    string            `json:"eligibility"`
	Recommendation string            `json:"recommendation"`
	Error          string            `json:"error,omitempty"`
}
