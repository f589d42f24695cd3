// internal/workers/evaluation/generate-views/models.go
package generateviews

import "github.com/shub15/the-unfair-advantage/internal/models"

type Input struct {
	SubmissionID string              `json:"submissionId"`
	Locale       string              `json:"locale"`
	Case         models.CaseDocument `json:"caseDocument"`
}

type Output struct {
	SubmissionID string                  `json:"submissionId"`
	Locale       string                  `json:"locale"`
	Views        models.StakeholderViews `json:"stakeholderViews"`
	// Error is PARTIAL_FAILURE when at least one view failed.
	Error *models.ExtractionError `json:"error,omitempty"`
}
