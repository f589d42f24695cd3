// internal/workers/evaluation/generate-views/prompt.go
package generateviews

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shub15/the-unfair-advantage/internal/common/locale"
	"github.com/shub15/the-unfair-advantage/internal/models"
)

func languageInstruction(loc string) string {
	name := locale.LanguageName(loc)
	return strings.Join([]string{
		fmt.Sprintf("IMPORTANT: Generate ALL content in %s (%s).", name, locale.NativeName(loc)),
		fmt.Sprintf("Use simple, rural-friendly %s that entrepreneurs from villages and small towns can easily understand.", name),
		"Avoid complex business terms and use everyday language.",
		"Keep the JSON keys in English exactly as shown; translate only the values.",
	}, "\n")
}

// buildViewPrompt renders the prompt for one audience. translated is only
// honoured for the entrepreneur view. strict adds the grounding rules used
// when a first render drifted away from the case.
func buildViewPrompt(spec *viewSpec, doc models.CaseDocument, loc string, translated bool, strict []string) string {
	var parts []string

	parts = append(parts, spec.instructions...)

	if translated {
		parts = append(parts, "\n"+languageInstruction(loc))
	}

	caseJSON, _ := json.MarshalIndent(doc, "", "  ")
	parts = append(parts, "\nBusiness Case:")
	parts = append(parts, string(caseJSON))

	parts = append(parts, "\nFormat the output as a JSON object with exactly these sections:")
	parts = append(parts, spec.shape)

	parts = append(parts, "\nGuidelines:")
	parts = append(parts, "- All values are strings, arrays of strings or nested objects of strings")
	parts = append(parts, "- Use only facts present in the business case; say \"Not specified\" when something is unknown")
	if spec.audience == models.AudienceEntrepreneur {
		parts = append(parts, "- Be encouraging and positive while being realistic about challenges")
		parts = append(parts, "- Include cultural context appropriate for Indian entrepreneurs")
	}

	if len(strict) > 0 {
		parts = append(parts, "\nThe previous answer did not describe this business. Rewrite it so that it:")
		parts = append(parts, "- Refers to the business and its details by the exact words used in the business case")
		parts = append(parts, "- Mentions these facts explicitly: "+strings.Join(strict, "; "))
		parts = append(parts, "- Invents no names, numbers or places")
	}

	return strings.Join(parts, "\n")
}
