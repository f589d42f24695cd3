// internal/workers/evaluation/generate-feedback/models.go
package generatefeedback

import "github.com/shub15/the-unfair-advantage/internal/models"

type Input struct {
	SubmissionID    string                 `json:"submissionId"`
	Locale          string                 `json:"locale"`
	Profile         models.BusinessProfile `json:"businessProfile"`
	AssessmentScore models.AssessmentScore `json:"assessmentScore"`
}

// Output carries either the feedback or the error that prevented it.
type Output struct {
	SubmissionID string                  `json:"submissionId"`
	Feedback     *models.Feedback        `json:"feedback,omitempty"`
	Error        *models.ExtractionError `json:"error,omitempty"`
}
