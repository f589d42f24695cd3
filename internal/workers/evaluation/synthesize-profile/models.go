// internal/workers/evaluation/synthesize-profile/models.go
package synthesizeprofile

import "github.com/shub15/the-unfair-advantage/internal/models"

// Input carries the two upstream sources. OCRData is the structured OCR
// output of the document; it may hold extracted buckets or a bare "text".
type Input struct {
	SubmissionID string                 `json:"submissionId"`
	Locale       string                 `json:"locale"`
	OCRData      map[string]interface{} `json:"ocrData"`
	Transcript   string                 `json:"transcript"`
}

type Output struct {
	SubmissionID string               `json:"submissionId"`
	Locale       string               `json:"locale"`
	Profile      models.ProfileResult `json:"profile"`
	DataSources  models.DataSources   `json:"dataSources"`
}

// synthesisResponse is the dual-source model output: the eight profile
// buckets at top level plus the recorded disagreements.
type synthesisResponse struct {
	models.BusinessProfile
	SourceConflicts []models.SourceConflict `json:"source_conflicts"`
}
