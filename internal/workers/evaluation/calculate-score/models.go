// internal/workers/evaluation/calculate-score/models.go
package calculatescore

import "github.com/shub15/the-unfair-advantage/internal/models"

type Input struct {
	SubmissionID   string                 `json:"submissionId"`
	Profile        models.ProfileResult   `json:"profile"`
	MarketResearch *models.MarketResearch `json:"marketResearch,omitempty"`
	// Enhanced overrides the worker default when set.
	Enhanced *bool `json:"enhanced,omitempty"`
}

type Output struct {
	SubmissionID      string                 `json:"submissionId"`
	CompletenessScore models.AssessmentScore `json:"completenessScore"`
	AssessmentScore   models.AssessmentScore `json:"assessmentScore"`
}
