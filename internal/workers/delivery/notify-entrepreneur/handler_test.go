// internal/workers/delivery/notify-entrepreneur/handler_test.go
package notifyentrepreneur

import (
	"context"
	"errors"
	"testing"

	awsclient "github.com/shub15/the-unfair-advantage/internal/common/aws"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.AdminEmails = []string{"admin@example.org"}
	return cfg
}

func createTestInput() *Input {
	p := models.EmptyProfile()
	p.Concept.BusinessName = "Ravi Dairy"
	p.Entrepreneur.Name = "Ravi"
	p.Entrepreneur.Phone = "98765 43210"

	return &Input{
		Case: models.CaseDocument{
			CaseID:       "case-7",
			SubmissionID: "sub-7",
			Profile:      p,
			Score: models.AssessmentScore{
				ScoringMethod: models.ScoringCompleteness,
				Total:         3,
				Max:           10,
				Eligibility:   models.EligibilityNeedsWork,
			},
		},
		ViewsStatus: models.RenderPartial,
		Feedback:    &models.Feedback{Encouragement: models.Encouragement{Message: "Keep going!"}},
	}
}

func newTestHandler(t *testing.T, cfg *Config, sesAPI *fakeSES, snsAPI *fakeSNS) *Handler {
	var email EmailSender
	if sesAPI != nil {
		email = awsclient.NewSESClientWithAPI(sesAPI, "noreply@example.org")
	}
	var sms SMSSender
	if snsAPI != nil {
		sms = awsclient.NewSNSClientWithAPI(snsAPI, "UNFAIR")
	}
	return NewHandler(cfg, email, sms, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SendsBothChannels(t *testing.T) {
	sesAPI, snsAPI := &fakeSES{}, &fakeSNS{}
	h := newTestHandler(t, createTestConfig(), sesAPI, snsAPI)

	output, err := h.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, "ses-1", output.EmailMessageID)
	assert.Equal(t, "sns-1", output.SMSMessageID)
	assert.NotEmpty(t, output.NotificationID)

	require.Len(t, sesAPI.inputs, 1)
	email := sesAPI.inputs[0]
	assert.Equal(t, []string{"admin@example.org"}, email.Destination.ToAddresses)
	assert.Equal(t, "New business plan evaluated: Ravi Dairy", aws.ToString(email.Message.Subject.Data))
	assert.Contains(t, aws.ToString(email.Message.Body.Text.Data), "Score: 3/10 (completeness)")
	assert.Contains(t, aws.ToString(email.Message.Body.Text.Data), "Reports: partial")

	require.Len(t, snsAPI.inputs, 1)
	sms := snsAPI.inputs[0]
	assert.Equal(t, "+919876543210", aws.ToString(sms.PhoneNumber))
	assert.Contains(t, aws.ToString(sms.Message), "Needs Development (3/10)")
	assert.Contains(t, aws.ToString(sms.Message), "Keep going!")
}

func TestHandler_Execute_NoPhoneSkipsSMS(t *testing.T) {
	sesAPI, snsAPI := &fakeSES{}, &fakeSNS{}
	h := newTestHandler(t, createTestConfig(), sesAPI, snsAPI)

	input := createTestInput()
	input.Case.Profile.Entrepreneur.Phone = models.NotSpecified

	output, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Empty(t, snsAPI.inputs)
}

func TestHandler_Execute_Disabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false
	h := newTestHandler(t, cfg, &fakeSES{}, &fakeSNS{})

	output, err := h.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

func TestHandler_Execute_NilSenders(t *testing.T) {
	h := newTestHandler(t, createTestConfig(), nil, nil)

	output, err := h.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_PartialFailure(t *testing.T) {
	sesAPI, snsAPI := &fakeSES{}, &fakeSNS{err: errors.New("throttled")}
	h := newTestHandler(t, createTestConfig(), sesAPI, snsAPI)

	output, err := h.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusPartial, output.Status)
	assert.Equal(t, "ses-1", output.EmailMessageID)
	assert.Empty(t, output.SMSMessageID)
}

func TestHandler_Execute_AllChannelsFail(t *testing.T) {
	sesAPI, snsAPI := &fakeSES{err: errors.New("rejected")}, &fakeSNS{err: errors.New("throttled")}
	h := newTestHandler(t, createTestConfig(), sesAPI, snsAPI)

	output, err := h.Execute(context.Background(), createTestInput())

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, apperrors.ErrNotificationSendFailed))
	assert.Contains(t, err.Error(), "email,sms")
}

// ==========================
// Helper Tests
// ==========================

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"98765-43210", "+919876543210"},
		{"09876543210", "+919876543210"},
		{"919876543210", "+919876543210"},
		{"+91 98765 43210", "+919876543210"},
		{"+44 20 7946 0958", "+442079460958"},
		{"Not specified", ""},
		{"12345", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePhone(tt.raw, "91"))
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	got := renderTemplate("Hello {{name}}, score {{score}} {{missing}}", map[string]interface{}{
		"name":  "Ravi",
		"score": 7,
	})
	assert.Equal(t, "Hello Ravi, score 7", got)
}
