// internal/workers/evaluation/generate-feedback/prompt.go
package generatefeedback

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shub15/the-unfair-advantage/internal/common/locale"
	"github.com/shub15/the-unfair-advantage/internal/models"
)

const feedbackSchema = `{
  "congratulations_message": "",
  "business_strengths": {"title": "", "points": [""]},
  "improvement_areas": {"title": "", "points": [""]},
  "next_steps": {"title": "", "immediate_actions": [""], "long_term_goals": [""]},
  "resources_needed": {"title": "", "financial": "", "skills": [""], "support": [""]},
  "encouragement": {"title": "", "message": ""},
  "scoring_explanation": {"title": "", "overall_score": "", "what_it_means": "", "how_to_improve": ""}
}`

func buildPrompt(profile models.BusinessProfile, score models.AssessmentScore, loc string) string {
	language := locale.LanguageName(loc)
	var parts []string

	parts = append(parts, "Generate encouraging and constructive feedback for an entrepreneur from a rural or semi-urban area.")
	parts = append(parts, fmt.Sprintf("Write the feedback in %s in simple, easy-to-understand terms.", language))

	profileJSON, _ := json.MarshalIndent(profile, "", "  ")
	parts = append(parts, "\nBusiness Information:")
	parts = append(parts, string(profileJSON))

	scoreJSON, _ := json.MarshalIndent(score, "", "  ")
	parts = append(parts, "\nAssessment Score:")
	parts = append(parts, string(scoreJSON))

	parts = append(parts, "\nRespond with JSON in this format:")
	parts = append(parts, feedbackSchema)

	parts = append(parts, "\nGuidelines:")
	parts = append(parts, "- 3-4 strengths, 3-4 gentle improvement suggestions, 2-3 immediate actions and 2-3 long-term goals")
	parts = append(parts, "- Be encouraging and positive while being honest about areas for improvement")
	parts = append(parts, "- Avoid business jargon and complex terms")
	parts = append(parts, fmt.Sprintf("- Explain the score as %d out of %d", score.Total, score.Max))
	if !locale.IsDefault(loc) {
		parts = append(parts, fmt.Sprintf("- Use cultural context and expressions natural in %s; keep JSON keys in English", language))
	}

	return strings.Join(parts, "\n")
}
