// internal/workers/evaluation/synthesize-profile/promote.go
package synthesizeprofile

import "github.com/shub15/the-unfair-advantage/internal/models"

// Promote lifts a single-source extraction into the canonical profile.
// Fields with no counterpart in the extraction stay at their defaults;
// revenue_expectations has no canonical slot and is dropped.
func Promote(partial models.PartialExtraction) models.BusinessProfile {
	p := models.EmptyProfile()

	p.Entrepreneur.Name = partial.EntrepreneurInfo.Name
	p.Entrepreneur.Education = partial.EntrepreneurInfo.Education
	p.Entrepreneur.Phone = partial.EntrepreneurInfo.Phone
	p.Entrepreneur.Experience = partial.EntrepreneurInfo.Experience

	p.Concept = partial.BusinessConcept

	p.ValueProposition.UniqueSellingPoint = partial.ValueProposition.UniqueSellingPoint
	p.ValueProposition.ProblemSolved = partial.ValueProposition.ProblemSolved
	p.ValueProposition.BenefitsOffered = partial.ValueProposition.MainProductService

	p.TargetMarket.PrimaryCustomers = partial.AdditionalInfo.TargetCustomers
	p.TargetMarket.GeographicScope = partial.AdditionalInfo.Location
	p.Implementation.Location = partial.AdditionalInfo.Location
	p.Implementation.Timeline = partial.AdditionalInfo.Timeline

	p.ResourcesRequired.StartupCosts = partial.FinancialInfo.StartupCosts
	p.ResourcesRequired.LoanRequirement = partial.FinancialInfo.LoanRequirement

	p.Normalize()
	return p
}
