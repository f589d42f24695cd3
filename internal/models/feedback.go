// internal/models/feedback.go
package models

// Feedback is the localized, encouraging summary shown to the entrepreneur.
type Feedback struct {
	LanguageCode           string          `json:"language_code"`
	CongratulationsMessage string          `json:"congratulations_message"`
	BusinessStrengths      FeedbackSection `json:"business_strengths"`
	ImprovementAreas       FeedbackSection `json:"improvement_areas"`
	NextSteps              NextSteps       `json:"next_steps"`
	ResourcesNeeded        ResourcesNeeded `json:"resources_needed"`
	Encouragement          Encouragement   `json:"encouragement"`
	ScoringExplanation     ScoreExplainer  `json:"scoring_explanation"`
}

type FeedbackSection struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

type NextSteps struct {
	Title            string   `json:"title"`
	ImmediateActions []string `json:"immediate_actions"`
	LongTermGoals    []string `json:"long_term_goals"`
}

type ResourcesNeeded struct {
	Title     string   `json:"title"`
	Financial string   `json:"financial"`
	Skills    []string `json:"skills"`
	Support   []string `json:"support"`
}

type Encouragement struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type ScoreExplainer struct {
	Title        string `json:"title"`
	OverallScore string `json:"overall_score"`
	WhatItMeans  string `json:"what_it_means"`
	HowToImprove string `json:"how_to_improve"`
}

// Normalize replaces null lists with empty ones.
func (f *Feedback) Normalize() {
	for _, l := range []*[]string{
		&f.BusinessStrengths.Points,
		&f.ImprovementAreas.Points,
		&f.NextSteps.ImmediateActions,
		&f.NextSteps.LongTermGoals,
		&f.ResourcesNeeded.Skills,
		&f.ResourcesNeeded.Support,
	} {
		if *l == nil {
			*l = []string{}
		}
	}
}
