// internal/workers/evaluation/extract-fields/prompt.go
package extractfields

import (
	"fmt"
	"strings"
)

const extractionSchema = `{
  "entrepreneur_info": {
    "name": "Full name of the entrepreneur",
    "education": "Educational qualification",
    "phone": "Contact number",
    "experience": "Relevant work or business experience"
  },
  "business_concept": {
    "business_name": "Name of the business",
    "description": "What the business does",
    "industry": "Industry or sector",
    "business_type": "Product/Service/Platform/etc."
  },
  "value_proposition": {
    "main_product_service": "Main product or service offered",
    "unique_selling_point": "What makes it different",
    "problem_solved": "Problem the business solves"
  },
  "financial_info": {
    "loan_requirement": "Loan amount requested",
    "startup_costs": "Initial investment needed",
    "revenue_expectations": "Expected revenue"
  },
  "additional_info": {
    "target_customers": "Who the customers are",
    "location": "Business location",
    "timeline": "Expected launch timeline"
  }
}`

func buildPrompt(source, rawText string) string {
	var parts []string

	origin := "a handwritten or printed business plan (OCR output)"
	if source == SourceTranscript {
		origin = "a spoken business pitch (speech transcript)"
	}

	parts = append(parts, fmt.Sprintf("Extract structured business information from the following text taken from %s.", origin))
	parts = append(parts, "\nText:")
	parts = append(parts, rawText)

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Extract only facts that are clearly stated in the text")
	parts = append(parts, "- Use \"Not specified\" for any missing data")
	parts = append(parts, "- Keep the original amounts and units for money values")
	parts = append(parts, "- Every value must be a string")

	return strings.Join(parts, "\n")
}
