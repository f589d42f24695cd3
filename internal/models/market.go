// internal/models/market.go
package models

// MarketResearch is always present on an enriched case. A stub block has
// SearchEnabled false or a non-empty Error, and carries default scores.
type MarketResearch struct {
	MarketAnalysis            string   `json:"market_analysis"`
	CompetitionAnalysis       string   `json:"competition_analysis"`
	MarketPotentialScore      int      `json:"market_potential_score"`
	CompetitiveLandscapeScore int      `json:"competitive_landscape_score"`
	IndustryTrends            []string `json:"industry_trends"`
	MarketOpportunities       []string `json:"market_opportunities"`
	CompetitiveThreats        []string `json:"competitive_threats"`
	MarketEntryBarriers       []string `json:"market_entry_barriers"`
	TargetMarketValidation    string   `json:"target_market_validation"`
	PricingBenchmarks         string   `json:"pricing_benchmarks"`
	GrowthProjections         string   `json:"growth_projections"`

	SearchEnabled      bool     `json:"search_enabled"`
	SearchQueriesUsed  []string `json:"search_queries_used"`
	SearchResultsCount int      `json:"search_results_count"`
	Error              string   `json:"error,omitempty"`
}

func (m *MarketResearch) IsStub() bool {
	return m == nil || !m.SearchEnabled || m.Error != ""
}

func (m *MarketResearch) Normalize() {
	for _, l := range []*[]string{
		&m.IndustryTrends,
		&m.MarketOpportunities,
		&m.CompetitiveThreats,
		&m.MarketEntryBarriers,
		&m.SearchQueriesUsed,
	} {
		if *l == nil {
			*l = []string{}
		}
	}
}

// SearchResult is one web-search hit as seen by the pipeline.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}
