// internal/workers/delivery/index-evaluation/models.go
package indexevaluation

import "github.com/shub15/the-unfair-advantage/internal/models"

type Input struct {
	Case        models.CaseDocument `json:"caseDocument"`
	ViewsStatus string              `json:"viewsStatus,omitempty"`
}

type Output struct {
	CaseID  string `json:"caseId"`
	Index   string `json:"index"`
	Result  string `json:"indexResult"`
	Version int64  `json:"indexVersion"`
}

// triageDocument is the flattened record admins search and filter on.
type triageDocument struct {
	CaseID               string  `json:"case_id"`
	SubmissionID         string  `json:"submission_id"`
	Locale               string  `json:"locale"`
	BusinessName         string  `json:"business_name"`
	EntrepreneurName     string  `json:"entrepreneur_name"`
	Industry             string  `json:"industry"`
	Description          string  `json:"description"`
	Location             string  `json:"location"`
	LoanRequirement      string  `json:"loan_requirement"`
	ScoringMethod        string  `json:"scoring_method"`
	TotalScore           int     `json:"total_score"`
	MaxScore             int     `json:"max_score"`
	Percentage           float64 `json:"percentage"`
	Eligibility          string  `json:"eligibility"`
	CompletenessTotal    int     `json:"completeness_total"`
	MarketPotentialScore *int    `json:"market_potential_score,omitempty"`
	SynthesisMethod      string  `json:"synthesis_method"`
	ViewsStatus          string  `json:"views_status,omitempty"`
	CreatedAt            string  `json:"created_at"`
}

type indexResponse struct {
	Result  string `json:"result"`
	Version int64  `json:"_version"`
}
