// internal/workers/delivery/notify-entrepreneur/models.go
package notifyentrepreneur

import "github.com/shub15/the-unfair-advantage/internal/models"

type Input struct {
	Case        models.CaseDocument `json:"caseDocument"`
	ViewsStatus string              `json:"viewsStatus,omitempty"`
	Feedback    *models.Feedback    `json:"feedback,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	EmailMessageID string `json:"emailMessageId,omitempty"`
	SMSMessageID   string `json:"smsMessageId,omitempty"`
	SentAt         string `json:"sentAt"`
}

// Statuses
const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusDisabled = "disabled"
)

// Notification types
const (
	TypeAdminEvaluation   = "admin_evaluation"
	TypeEntrepreneurScore = "entrepreneur_score"
)
