// internal/models/case.go
package models

import "time"

// CaseDocument bundles everything downstream consumers need for one submission.
type CaseDocument struct {
	CaseID            string          `json:"case_id"`
	SubmissionID      string          `json:"submission_id"`
	Locale            string          `json:"locale"`
	Profile           BusinessProfile `json:"business_profile"`
	CompletenessScore AssessmentScore `json:"completeness_score"`
	Score             AssessmentScore `json:"assessment_score"`
	MarketResearch    *MarketResearch `json:"market_research,omitempty"`
	DataSources       DataSources     `json:"data_sources"`
	CreatedAt         time.Time       `json:"created_at"`
}

// DataSources keeps the raw inputs next to the synthesized profile for audit.
type DataSources struct {
	DocumentProvided   bool                   `json:"document_provided"`
	TranscriptProvided bool                   `json:"transcript_provided"`
	OCRData            map[string]interface{} `json:"ocr_data,omitempty"`
	Transcript         string                 `json:"transcript,omitempty"`
	Method             string                 `json:"synthesis_method"`
	Conflicts          []SourceConflict       `json:"source_conflicts"`
	ProfileError       *ExtractionError       `json:"profile_error,omitempty"`
}

// SourceConflict records a field where the document and audio disagreed.
type SourceConflict struct {
	Field         string `json:"field"`
	DocumentValue string `json:"document_value"`
	AudioValue    string `json:"audio_value"`
	Resolution    string `json:"resolution"`
}

const (
	SynthesisDualSource = "dual_source"
	SynthesisDocument   = "document_only"
	SynthesisAudio      = "audio_only"
	SynthesisNone       = "none"
)
