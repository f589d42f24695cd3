// internal/models/views.go
package models

type Audience string

const (
	AudienceEntrepreneur Audience = "entrepreneur"
	AudienceMentor       Audience = "mentor"
	AudienceAdmin        Audience = "admin"
)

var Audiences = []Audience{AudienceEntrepreneur, AudienceMentor, AudienceAdmin}

const (
	RenderComplete = "complete"
	RenderPartial  = "partial"
	RenderFailed   = "failed"
)

// StakeholderView is one audience report. Exactly one of Content or Error is
// set; a failed render keeps its slot with the error message.
type StakeholderView struct {
	Audience         Audience               `json:"audience"`
	Content          map[string]interface{} `json:"content,omitempty"`
	Error            string                 `json:"error,omitempty"`
	LanguageCode     string                 `json:"language_code,omitempty"`
	LanguageCheck    *LanguageCheck         `json:"language_check,omitempty"`
	Grounding        *GroundingReport       `json:"grounding,omitempty"`
	SchemaViolations []string               `json:"schema_violations,omitempty"`
}

func (v StakeholderView) Failed() bool {
	return v.Error != ""
}

// Document is the artifact written for the view: its content, or {error}.
func (v StakeholderView) Document() map[string]interface{} {
	if v.Failed() {
		return map[string]interface{}{"error": v.Error}
	}
	doc := make(map[string]interface{}, len(v.Content)+1)
	for k, val := range v.Content {
		doc[k] = val
	}
	if v.LanguageCode != "" {
		doc["language_code"] = v.LanguageCode
	}
	return doc
}

type StakeholderViews struct {
	Entrepreneur StakeholderView `json:"entrepreneur"`
	Mentor       StakeholderView `json:"mentor"`
	Admin        StakeholderView `json:"admin"`
	Succeeded    []Audience      `json:"succeeded"`
	Failed       []Audience      `json:"failed"`
	Status       string          `json:"status"`
}

func (v *StakeholderViews) Get(a Audience) StakeholderView {
	switch a {
	case AudienceMentor:
		return v.Mentor
	case AudienceAdmin:
		return v.Admin
	default:
		return v.Entrepreneur
	}
}

func (v *StakeholderViews) Set(view StakeholderView) {
	switch view.Audience {
	case AudienceMentor:
		v.Mentor = view
	case AudienceAdmin:
		v.Admin = view
	default:
		v.Entrepreneur = view
	}
}

// Summarize recomputes Succeeded, Failed and Status from the slots.
func (v *StakeholderViews) Summarize() {
	v.Succeeded = []Audience{}
	v.Failed = []Audience{}
	for _, a := range Audiences {
		if v.Get(a).Failed() {
			v.Failed = append(v.Failed, a)
		} else {
			v.Succeeded = append(v.Succeeded, a)
		}
	}
	switch {
	case len(v.Failed) == 0:
		v.Status = RenderComplete
	case len(v.Succeeded) == 0:
		v.Status = RenderFailed
	default:
		v.Status = RenderPartial
	}
}

type LanguageCheck struct {
	Expected    string  `json:"expected_script"`
	ScriptRatio float64 `json:"script_ratio"`
	Plausible   bool    `json:"plausible"`
}

type GroundingReport struct {
	Entities    []string `json:"entities"`
	Matched     []string `json:"matched"`
	Ratio       float64  `json:"ratio"`
	Grounded    bool     `json:"grounded"`
	Regenerated bool     `json:"regenerated"`
	Skipped     bool     `json:"skipped,omitempty"`
}
