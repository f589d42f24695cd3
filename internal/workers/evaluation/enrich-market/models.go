// internal/workers/evaluation/enrich-market/models.go
package enrichmarket

import "github.com/shub15/the-unfair-advantage/internal/models"

type Input struct {
	SubmissionID string                 `json:"submissionId"`
	Profile      models.BusinessProfile `json:"businessProfile"`
}

type Output struct {
	SubmissionID   string                `json:"submissionId"`
	MarketResearch models.MarketResearch `json:"marketResearch"`
}

// topic is one search query and the hits it returned.
type topic struct {
	label   string
	query   string
	results []models.SearchResult
}
