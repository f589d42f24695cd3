// internal/models/profile.go
package models

import "strings"

// NotSpecified marks a canonical field the sources did not provide. Scoring
// compares against it directly, so it must never be replaced by "".
const NotSpecified = "Not specified"

// BusinessProfile is the canonical eight-bucket record built once per submission.
type BusinessProfile struct {
	Entrepreneur      Entrepreneur      `json:"entrepreneur"`
	Concept           Concept           `json:"concept"`
	TargetMarket      TargetMarket      `json:"target_market"`
	ValueProposition  ValueProposition  `json:"value_proposition"`
	RevenueModel      RevenueModel      `json:"revenue_model"`
	ResourcesRequired ResourcesRequired `json:"resources_required"`
	Competition       Competition       `json:"competition"`
	Implementation    Implementation    `json:"implementation"`
}

type Entrepreneur struct {
	Name            string `json:"name"`
	Education       string `json:"education"`
	Phone           string `json:"phone"`
	Experience      string `json:"experience"`
	CommitmentLevel string `json:"commitment_level"`
	TeamSize        string `json:"team_size"`
}

type Concept struct {
	BusinessName string `json:"business_name"`
	Description  string `json:"description"`
	Industry     string `json:"industry"`
	BusinessType string `json:"business_type"`
}

type TargetMarket struct {
	PrimaryCustomers string `json:"primary_customers"`
	MarketSize       string `json:"market_size"`
	Demographics     string `json:"demographics"`
	GeographicScope  string `json:"geographic_scope"`
}

type ValueProposition struct {
	UniqueSellingPoint string `json:"unique_selling_point"`
	ProblemSolved      string `json:"problem_solved"`
	BenefitsOffered    string `json:"benefits_offered"`
}

type RevenueModel struct {
	PricingStrategy string   `json:"pricing_strategy"`
	RevenueStreams  []string `json:"revenue_streams"`
	PaymentModel    string   `json:"payment_model"`
}

type ResourcesRequired struct {
	StartupCosts           string   `json:"startup_costs"`
	LoanRequirement        string   `json:"loan_requirement"`
	KeyResources           []string `json:"key_resources"`
	SkillsNeeded           []string `json:"skills_needed"`
	TechnologyRequirements string   `json:"technology_requirements"`
}

type Competition struct {
	Competitors          []string `json:"competitors"`
	CompetitiveAdvantage string   `json:"competitive_advantage"`
	MarketPosition       string   `json:"market_position"`
}

type Implementation struct {
	Timeline       string   `json:"timeline"`
	Location       string   `json:"location"`
	KeyMilestones  []string `json:"key_milestones"`
	SuccessMetrics []string `json:"success_metrics"`
}

// EmptyProfile returns a profile where every leaf holds its default.
func EmptyProfile() BusinessProfile {
	var p BusinessProfile
	p.Normalize()
	return p
}

// Normalize fills every blank string leaf with NotSpecified and every nil list
// with an empty one. Decoders call it after unmarshalling upstream output.
func (p *BusinessProfile) Normalize() {
	for _, s := range []*string{
		&p.Entrepreneur.Name,
		&p.Entrepreneur.Education,
		&p.Entrepreneur.Phone,
		&p.Entrepreneur.Experience,
		&p.Entrepreneur.CommitmentLevel,
		&p.Entrepreneur.TeamSize,
		&p.Concept.BusinessName,
		&p.Concept.Description,
		&p.Concept.Industry,
		&p.Concept.BusinessType,
		&p.TargetMarket.PrimaryCustomers,
		&p.TargetMarket.MarketSize,
		&p.TargetMarket.Demographics,
		&p.TargetMarket.GeographicScope,
		&p.ValueProposition.UniqueSellingPoint,
		&p.ValueProposition.ProblemSolved,
		&p.ValueProposition.BenefitsOffered,
		&p.RevenueModel.PricingStrategy,
		&p.RevenueModel.PaymentModel,
		&p.ResourcesRequired.StartupCosts,
		&p.ResourcesRequired.LoanRequirement,
		&p.ResourcesRequired.TechnologyRequirements,
		&p.Competition.CompetitiveAdvantage,
		&p.Competition.MarketPosition,
		&p.Implementation.Timeline,
		&p.Implementation.Location,
	} {
		*s = OrNotSpecified(*s)
	}

	p.RevenueModel.RevenueStreams = cleanList(p.RevenueModel.RevenueStreams)
	p.ResourcesRequired.KeyResources = cleanList(p.ResourcesRequired.KeyResources)
	p.ResourcesRequired.SkillsNeeded = cleanList(p.ResourcesRequired.SkillsNeeded)
	p.Competition.Competitors = cleanList(p.Competition.Competitors)
	p.Implementation.KeyMilestones = cleanList(p.Implementation.KeyMilestones)
	p.Implementation.SuccessMetrics = cleanList(p.Implementation.SuccessMetrics)
}

// IsSpecified reports whether a field carries a real value.
func IsSpecified(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != NotSpecified
}

func OrNotSpecified(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, NotSpecified) {
		return NotSpecified
	}
	return v
}

// cleanList drops blank and sentinel entries while keeping order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if IsSpecified(v) {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
