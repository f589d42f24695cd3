// internal/workers/delivery/index-evaluation/mapping.go
package indexevaluation

// IndexMapping is applied when the worker manager creates the index.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "case_id":                {"type": "keyword"},
      "submission_id":          {"type": "keyword"},
      "locale":                 {"type": "keyword"},
      "business_name":          {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "entrepreneur_name":      {"type": "text"},
      "industry":               {"type": "keyword"},
      "description":            {"type": "text"},
      "location":               {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "loan_requirement":       {"type": "text"},
      "scoring_method":         {"type": "keyword"},
      "total_score":            {"type": "integer"},
      "max_score":              {"type": "integer"},
      "percentage":             {"type": "float"},
      "eligibility":            {"type": "keyword"},
      "completeness_total":     {"type": "integer"},
      "market_potential_score": {"type": "integer"},
      "synthesis_method":       {"type": "keyword"},
      "views_status":           {"type": "keyword"},
      "created_at":             {"type": "date"}
    }
  }
}`
