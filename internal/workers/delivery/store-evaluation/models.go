// internal/workers/delivery/store-evaluation/models.go
package storeevaluation

import "github.com/shub15/the-unfair-advantage/internal/models"

type Input struct {
	Case  models.CaseDocument      `json:"caseDocument"`
	Views *models.StakeholderViews `json:"stakeholderViews,omitempty"`
}

type Output struct {
	CaseID   string `json:"caseId"`
	Status   string `json:"evaluationStatus"`
	StoredAt string `json:"storedAt"`
}
