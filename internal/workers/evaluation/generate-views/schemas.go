// internal/workers/evaluation/generate-views/schemas.go
package generateviews

import (
	"encoding/json"

	"github.com/shub15/the-unfair-advantage/internal/common/validation"
	"github.com/shub15/the-unfair-advantage/internal/models"
)

// viewSpec describes one audience report: the sections it must carry, the
// example shape shown to the model and the compiled schema checked afterwards.
type viewSpec struct {
	audience     models.Audience
	sections     []string
	shape        string
	instructions []string
	schema       *validation.Schema
}

var entrepreneurSections = []string{
	"business_overview",
	"business_potential",
	"action_items",
	"development_plan",
	"market_insights",
	"financial_guidance",
	"practical_tips",
	"encouragement",
}

var mentorSections = []string{
	"evaluation_summary",
	"market_analysis",
	"critical_analysis",
	"mentorship_focus",
	"guidance_framework",
	"recommendations",
}

var adminSections = []string{
	"application_summary",
	"enhanced_scoring",
	"market_intelligence",
	"resource_requirements",
	"administrative_actions",
}

const entrepreneurShape = `{
  "business_overview": {
    "executive_summary": "Simple summary of the business",
    "value_proposition": "What makes the business special",
    "target_market": "Who will buy",
    "market_validation": "What research shows about the business potential"
  },
  "business_potential": {
    "market_opportunity": "",
    "revenue_potential": "",
    "key_strengths": [""],
    "competitive_position": ""
  },
  "action_items": {
    "immediate_steps": ["Next 3 things to do right away"],
    "improvement_areas": [""],
    "resource_requirements": [""],
    "market_entry_strategy": [""]
  },
  "development_plan": {
    "short_term_goals": ["Goals for the next 3-6 months"],
    "key_milestones": [""],
    "success_metrics": [""],
    "risk_mitigation": [""]
  },
  "market_insights": {
    "industry_trends": [""],
    "opportunities": [""],
    "challenges": [""],
    "success_factors": [""]
  },
  "financial_guidance": {
    "startup_costs_breakdown": "",
    "revenue_projections": "",
    "profit_expectations": "",
    "funding_options": [""]
  },
  "practical_tips": {
    "daily_operations": [""],
    "customer_service": [""],
    "quality_control": [""],
    "growth_strategies": [""]
  },
  "encouragement": {
    "motivational_message": "",
    "community_impact": "",
    "success_potential": ""
  }
}`

const mentorShape = `{
  "evaluation_summary": {
    "business_concept": "Overview of the business idea",
    "market_validation": "Market research validation results",
    "assessment_score": "Current evaluation score with market insights",
    "key_strengths": [""],
    "key_concerns": [""]
  },
  "market_analysis": {
    "market_size_validation": "",
    "competitive_landscape": "",
    "industry_trends": [""],
    "market_entry_feasibility": ""
  },
  "critical_analysis": {
    "business_model_viability": "",
    "financial_projections_review": "",
    "competitive_positioning": "",
    "risk_factors": [""]
  },
  "mentorship_focus": {
    "priority_topics": [""],
    "skills_development": [""],
    "resource_needs": [""],
    "market_strategy_guidance": [""]
  },
  "guidance_framework": {
    "key_questions": [""],
    "validation_points": [""],
    "success_metrics": [""],
    "milestone_checkpoints": [""]
  },
  "recommendations": {
    "short_term_actions": [""],
    "long_term_goals": [""],
    "support_needed": [""],
    "market_strategy": [""]
  }
}`

const adminShape = `{
  "application_summary": {
    "entrepreneur_profile": {"name": "", "experience": "", "education": ""},
    "business_concept": "Brief business description",
    "submission_date": "",
    "eligibility_status": "",
    "application_id": ""
  },
  "enhanced_scoring": {
    "overall_assessment_score": "Overall score out of 100",
    "market_validation_score": "",
    "detailed_scores": {
      "market_potential": "", "business_model_clarity": "", "financial_feasibility": "",
      "competitive_advantage": "", "implementation_readiness": "", "market_research_score": ""
    },
    "scoring_rationale": {
      "market_validation": "", "competitive_analysis": "", "financial_viability": "", "implementation_assessment": ""
    },
    "eligibility_recommendation": "High Potential - Recommended|Good Potential - Consider|Needs Development|Insufficient Information",
    "risk_assessment": "Low|Medium|High with brief justification"
  },
  "market_intelligence": {
    "market_potential_validated": "",
    "competitive_landscape_score": "",
    "industry_outlook": "",
    "market_entry_barriers": [""]
  },
  "resource_requirements": {
    "funding_needs": "",
    "support_services": [""],
    "mentor_matching_criteria": [""],
    "market_development_support": [""]
  },
  "administrative_actions": {
    "application_status": "",
    "next_steps": [""],
    "follow_up_items": [""],
    "market_research_recommendations": [""],
    "mentor_assignment_priority": "High|Medium|Low"
  }
}`

var viewSpecs = map[models.Audience]*viewSpec{
	models.AudienceEntrepreneur: {
		audience: models.AudienceEntrepreneur,
		sections: entrepreneurSections,
		shape:    entrepreneurShape,
		instructions: []string{
			"Create an entrepreneur-focused business plan analysis from this business case.",
			"Make the language simple and accessible for rural and semi-urban entrepreneurs.",
		},
		schema: validation.MustCompile("entrepreneur_view", sectionSchema(entrepreneurSections)),
	},
	models.AudienceMentor: {
		audience: models.AudienceMentor,
		sections: mentorSections,
		shape:    mentorShape,
		instructions: []string{
			"Create a detailed mentor evaluation guide from this business case.",
			"Include market research insights throughout the evaluation.",
		},
		schema: validation.MustCompile("mentor_view", sectionSchema(mentorSections)),
	},
	models.AudienceAdmin: {
		audience: models.AudienceAdmin,
		sections: adminSections,
		shape:    adminShape,
		instructions: []string{
			"Create a concise administrative overview from this business case.",
			"Focus on administrative decision points and prioritize the scoring information.",
		},
		schema: validation.MustCompile("admin_view", sectionSchema(adminSections)),
	},
}

// sectionSchema builds a JSON schema requiring every section as an object.
func sectionSchema(sections []string) string {
	props := make(map[string]interface{}, len(sections))
	for _, s := range sections {
		props[s] = map[string]interface{}{"type": "object"}
	}
	doc := map[string]interface{}{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"required":   sections,
		"properties": props,
	}
	b, _ := json.Marshal(doc)
	return string(b)
}
