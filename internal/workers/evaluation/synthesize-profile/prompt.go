// internal/workers/evaluation/synthesize-profile/prompt.go
package synthesizeprofile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shub15/the-unfair-advantage/internal/common/locale"
)

const profileSchema = `{
  "entrepreneur": {"name": "", "education": "", "phone": "", "experience": "", "commitment_level": "Full-time/Part-time/Side-project", "team_size": ""},
  "concept": {"business_name": "", "description": "", "industry": "", "business_type": "Product/Service/Platform/etc."},
  "target_market": {"primary_customers": "", "market_size": "", "demographics": "", "geographic_scope": "Local/Regional/National/International"},
  "value_proposition": {"unique_selling_point": "", "problem_solved": "", "benefits_offered": ""},
  "revenue_model": {"pricing_strategy": "", "revenue_streams": [""], "payment_model": "One-time/Subscription/Commission/etc."},
  "resources_required": {"startup_costs": "", "loan_requirement": "", "key_resources": [""], "skills_needed": [""], "technology_requirements": ""},
  "competition": {"competitors": [""], "competitive_advantage": "", "market_position": ""},
  "implementation": {"timeline": "", "location": "", "key_milestones": [""], "success_metrics": [""]},
  "source_conflicts": [{"field": "bucket.field", "document_value": "", "audio_value": "", "resolution": ""}]
}`

func buildSynthesisPrompt(ocrData map[string]interface{}, transcript, loc string) string {
	var parts []string

	parts = append(parts, "Synthesize one business profile from a written business plan (OCR data) and a spoken pitch (audio transcript).")
	parts = append(parts, fmt.Sprintf("Language of the submission: %s (%s)", locale.LanguageName(loc), loc))

	ocrJSON, _ := json.MarshalIndent(ocrData, "", "  ")
	parts = append(parts, "\nOCR Data from Images:")
	parts = append(parts, string(ocrJSON))

	parts = append(parts, "\nAudio Transcript:")
	parts = append(parts, transcript)

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Combine information from both sources into one profile")
	parts = append(parts, "- When the sources disagree, record the field in source_conflicts with both values and the value you chose")
	parts = append(parts, "- Use \"Not specified\" for missing text and [] for missing lists")
	parts = append(parts, "- If several speakers are present, consider all of them")
	parts = append(parts, "- Write field values in English")

	return strings.Join(parts, "\n")
}
