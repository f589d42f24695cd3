// internal/workers/delivery/notify-entrepreneur/templates.go
package notifyentrepreneur

import (
	"fmt"
	"strings"
)

type template struct {
	subject string
	body    string
}

var templates = map[string]template{
	TypeAdminEvaluation: {
		subject: "New business plan evaluated: {{businessName}}",
		body: "Case {{caseId}} ({{submissionId}})\n" +
			"Business: {{businessName}}\n" +
			"Entrepreneur: {{entrepreneurName}}\n" +
			"Score: {{totalScore}}/{{maxScore}} ({{scoringMethod}})\n" +
			"Eligibility: {{eligibility}}\n" +
			"Reports: {{viewsStatus}}",
	},
	TypeEntrepreneurScore: {
		body: "Namaste {{entrepreneurName}}! Your business plan {{businessName}} has been evaluated: " +
			"{{eligibility}} ({{totalScore}}/{{maxScore}}). {{message}}",
	},
}

// renderTemplate substitutes {{key}} placeholders and drops unknown ones.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return strings.TrimSpace(result)
}

// normalizePhone returns an E.164 number, or "" when raw is not a phone
// number. National numbers get countryCode prefixed.
func normalizePhone(raw, countryCode string) string {
	raw = strings.TrimSpace(raw)
	international := strings.HasPrefix(raw, "+")

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case international && len(d) >= 8 && len(d) <= 15:
		return "+" + d
	case len(d) == 10:
		return "+" + countryCode + d
	case len(d) == 11 && d[0] == '0':
		return "+" + countryCode + d[1:]
	case len(d) == 10+len(countryCode) && strings.HasPrefix(d, countryCode):
		return "+" + d
	default:
		return ""
	}
}
