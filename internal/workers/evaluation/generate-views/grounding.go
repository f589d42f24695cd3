// internal/workers/evaluation/generate-views/grounding.go
package generateviews

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shub15/the-unfair-advantage/internal/models"
)

// minTokenLength drops short words ("and", "for") that match anything.
const minTokenLength = 4

// minEntities is the number of known entities needed to judge grounding.
const minEntities = 2

type entity struct {
	label  string
	value  string
	tokens []string
}

// keyEntities lists the profile facts a view about this business should
// mention. Unknown fields and values without usable tokens are left out.
func keyEntities(p models.BusinessProfile) []entity {
	candidates := []struct {
		label string
		value string
	}{
		{"business_name", p.Concept.BusinessName},
		{"industry", p.Concept.Industry},
		{"primary_customers", p.TargetMarket.PrimaryCustomers},
		{"location", p.Implementation.Location},
		{"benefits_offered", p.ValueProposition.BenefitsOffered},
		{"description", p.Concept.Description},
	}

	var out []entity
	for _, c := range candidates {
		if !models.IsSpecified(c.value) {
			continue
		}
		tokens := tokenize(c.value)
		if len(tokens) == 0 {
			continue
		}
		out = append(out, entity{label: c.label, value: c.value, tokens: tokens})
	}
	return out
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) && !unicode.Is(unicode.Mc, r)
	})
	var tokens []string
	for _, f := range fields {
		if len([]rune(f)) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// checkGrounding measures the share of entities with at least one token in
// the view text.
func checkGrounding(content map[string]interface{}, entities []entity, minRatio float64) models.GroundingReport {
	report := models.GroundingReport{
		Entities: make([]string, 0, len(entities)),
		Matched:  []string{},
	}
	for _, e := range entities {
		report.Entities = append(report.Entities, e.label)
	}

	if len(entities) < minEntities {
		report.Skipped = true
		report.Grounded = true
		return report
	}

	text := strings.ToLower(flattenText(content))
	for _, e := range entities {
		for _, tok := range e.tokens {
			if strings.Contains(text, tok) {
				report.Matched = append(report.Matched, e.label)
				break
			}
		}
	}

	report.Ratio = float64(len(report.Matched)) / float64(len(entities))
	report.Grounded = report.Ratio >= minRatio
	return report
}

// strictFacts formats the entities for the stricter regeneration prompt.
func strictFacts(entities []entity) []string {
	facts := make([]string, len(entities))
	for i, e := range entities {
		facts[i] = fmt.Sprintf("%s: %s", e.label, e.value)
	}
	return facts
}
