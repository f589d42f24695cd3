// internal/workers/evaluation/extract-fields/models.go
package extractfields

import "github.com/shub15/the-unfair-advantage/internal/models"

const (
	SourceDocument   = "document"
	SourceTranscript = "transcript"
)

type Input struct {
	SubmissionID string `json:"submissionId"`
	Source       string `json:"source"`
	RawText      string `json:"rawText"`
}

type Output struct {
	SubmissionID string                  `json:"submissionId"`
	Source       string                  `json:"source"`
	Extraction   models.ExtractionResult `json:"extraction"`
}
