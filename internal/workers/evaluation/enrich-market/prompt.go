// internal/workers/evaluation/enrich-market/prompt.go
package enrichmarket

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shub15/the-unfair-advantage/internal/models"
)

const marketSchema = `{
  "market_analysis": "Market size and potential based on the search results",
  "competition_analysis": "Competition landscape",
  "market_potential_score": 0,
  "competitive_landscape_score": 0,
  "industry_trends": [""],
  "market_opportunities": [""],
  "competitive_threats": [""],
  "market_entry_barriers": [""],
  "target_market_validation": "",
  "pricing_benchmarks": "",
  "growth_projections": ""
}`

// conceptOf picks the most descriptive concept field the profile has.
func conceptOf(p models.BusinessProfile) string {
	for _, v := range []string{p.Concept.Description, p.Concept.BusinessName, p.Concept.Industry} {
		if models.IsSpecified(v) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func buildQueries(concept, region string, year int) []topic {
	return []topic{
		{label: "Market Size Data", query: fmt.Sprintf("%s market size %s %d", concept, region, year)},
		{label: "Competition Data", query: fmt.Sprintf("%s competition analysis %s %d", concept, region, year)},
		{label: "Industry Trends", query: fmt.Sprintf("%s industry trends %d", concept, year)},
	}
}

func truncate(s string, limit int) string {
	r := []rune(strings.TrimSpace(s))
	if limit <= 0 || len(r) <= limit {
		return string(r)
	}
	return string(r[:limit]) + "..."
}

func (h *Handler) buildPrompt(profile models.BusinessProfile, topics []topic) string {
	var parts []string

	parts = append(parts, "Analyze this business with the market research data below and provide market intelligence.")

	profileJSON, _ := json.MarshalIndent(profile, "", "  ")
	parts = append(parts, "\nBusiness Profile:")
	parts = append(parts, string(profileJSON))

	parts = append(parts, "\nMarket Research Results:")
	for _, t := range topics {
		parts = append(parts, fmt.Sprintf("%s (%s):", t.label, t.query))
		if len(t.results) == 0 {
			parts = append(parts, "- no results")
			continue
		}
		for i, r := range t.results {
			if i >= h.config.ResultsPerTopic {
				break
			}
			parts = append(parts, fmt.Sprintf("- %s: %s (%s)", r.Title, truncate(r.Snippet, h.config.SnippetLimit), r.URL))
		}
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Base the analysis on the search results provided")
	parts = append(parts, "- Scores are integers from 1 to 100")
	parts = append(parts, "- Say so when the results do not cover a topic")

	return strings.Join(parts, "\n")
}
