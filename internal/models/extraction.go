// internal/models/extraction.go
package models

// PartialExtraction is the looser schema produced from a single raw text.
type PartialExtraction struct {
	EntrepreneurInfo EntrepreneurInfo   `json:"entrepreneur_info"`
	BusinessConcept  Concept            `json:"business_concept"`
	ValueProposition ExtractedValueProp `json:"value_proposition"`
	FinancialInfo    FinancialInfo      `json:"financial_info"`
	AdditionalInfo   AdditionalInfo     `json:"additional_info"`
}

type EntrepreneurInfo struct {
	Name       string `json:"name"`
	Education  string `json:"education"`
	Phone      string `json:"phone"`
	Experience string `json:"experience"`
}

type ExtractedValueProp struct {
	MainProductService string `json:"main_product_service"`
	UniqueSellingPoint string `json:"unique_selling_point"`
	ProblemSolved      string `json:"problem_solved"`
}

type FinancialInfo struct {
	LoanRequirement     string `json:"loan_requirement"`
	StartupCosts        string `json:"startup_costs"`
	RevenueExpectations string `json:"revenue_expectations"`
}

type AdditionalInfo struct {
	TargetCustomers string `json:"target_customers"`
	Location        string `json:"location"`
	Timeline        string `json:"timeline"`
}

// EmptyExtraction returns an extraction with every field set to NotSpecified.
func EmptyExtraction() PartialExtraction {
	var e PartialExtraction
	e.Normalize()
	return e
}

func (e *PartialExtraction) Normalize() {
	for _, s := range []*string{
		&e.EntrepreneurInfo.Name,
		&e.EntrepreneurInfo.Education,
		&e.EntrepreneurInfo.Phone,
		&e.EntrepreneurInfo.Experience,
		&e.BusinessConcept.BusinessName,
		&e.BusinessConcept.Description,
		&e.BusinessConcept.Industry,
		&e.BusinessConcept.BusinessType,
		&e.ValueProposition.MainProductService,
		&e.ValueProposition.UniqueSellingPoint,
		&e.ValueProposition.ProblemSolved,
		&e.FinancialInfo.LoanRequirement,
		&e.FinancialInfo.StartupCosts,
		&e.FinancialInfo.RevenueExpectations,
		&e.AdditionalInfo.TargetCustomers,
		&e.AdditionalInfo.Location,
		&e.AdditionalInfo.Timeline,
	} {
		*s = OrNotSpecified(*s)
	}
}

// ExtractionError is the serializable failure side of an extraction or
// synthesis result. RawResponse keeps the upstream text for diagnostics.
type ExtractionError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	RawResponse string `json:"raw_response,omitempty"`
}

func (e *ExtractionError) Error() string {
	return e.Code + ": " + e.Message
}

// ExtractionResult holds exactly one of Extraction or Err.
type ExtractionResult struct {
	Extraction *PartialExtraction `json:"extraction,omitempty"`
	Err        *ExtractionError   `json:"error,omitempty"`
}

func ExtractionOK(e PartialExtraction) ExtractionResult {
	return ExtractionResult{Extraction: &e}
}

func ExtractionFailed(err *ExtractionError) ExtractionResult {
	return ExtractionResult{Err: err}
}

func (r ExtractionResult) OK() bool {
	return r.Err == nil && r.Extraction != nil
}

// ProfileResult holds exactly one of Profile or Err.
type ProfileResult struct {
	Profile *BusinessProfile `json:"profile,omitempty"`
	Err     *ExtractionError `json:"error,omitempty"`
}

func ProfileOK(p BusinessProfile) ProfileResult {
	return ProfileResult{Profile: &p}
}

func ProfileFailed(err *ExtractionError) ProfileResult {
	return ProfileResult{Err: err}
}

func (r ProfileResult) OK() bool {
	return r.Err == nil && r.Profile != nil
}

// ProfileOrDefault returns the profile, or an all-default profile when the
// result carries an error.
func (r ProfileResult) ProfileOrDefault() BusinessProfile {
	if r.OK() {
		return *r.Profile
	}
	return EmptyProfile()
}
