// internal/workers/evaluation/generate-feedback/handler_test.go
package generatefeedback

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedbackResponse = "```json\n" + `{
  "congratulations_message": "बधाई हो!",
  "business_strengths": {"title": "आपकी ताकत", "points": ["अच्छा स्थान", "स्पष्ट ग्राहक"]},
  "improvement_areas": {"title": "सुधार", "points": ["लागत लिखें"]},
  "next_steps": {"title": "अगले कदम", "immediate_actions": ["बैंक से बात करें"]},
  "resources_needed": {"title": "संसाधन", "financial": "50,000 रुपये"},
  "encouragement": {"title": "प्रोत्साहन", "message": "आप कर सकते हैं"},
  "scoring_explanation": {"title": "आपका स्कोर", "overall_score": "3/10"}
}` + "\n```"

func workedScore() models.AssessmentScore {
	return models.AssessmentScore{
		ScoringMethod: models.ScoringCompleteness,
		Total:         3,
		Max:           10,
		Eligibility:   models.EligibilityNeedsWork,
	}
}

func profile() models.BusinessProfile {
	p := models.EmptyProfile()
	p.Concept.BusinessName = "Ravi Dairy"
	return p
}

func TestHandler_Generate_Success(t *testing.T) {
	var req genai.Request
	gen := genai.GeneratorFunc(func(_ context.Context, r genai.Request) (string, error) {
		req = r
		return feedbackResponse, nil
	})
	h := NewHandler(LoadConfig(), gen, logger.NewTestLogger(t))

	feedback, err := h.Generate(context.Background(), profile(), workedScore(), "hi-IN")

	require.NoError(t, err)
	assert.Equal(t, "hi-IN", feedback.LanguageCode)
	assert.Equal(t, "बधाई हो!", feedback.CongratulationsMessage)
	assert.Len(t, feedback.BusinessStrengths.Points, 2)
	assert.Equal(t, []string{}, feedback.NextSteps.LongTermGoals)
	assert.Equal(t, []string{}, feedback.ResourcesNeeded.Skills)

	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
	assert.Contains(t, req.Prompt, "Hindi")
	assert.Contains(t, req.Prompt, "Ravi Dairy")
	assert.Contains(t, req.Prompt, "3 out of 10")
}

func TestHandler_Generate_DefaultLocale(t *testing.T) {
	var prompt string
	gen := genai.GeneratorFunc(func(_ context.Context, r genai.Request) (string, error) {
		prompt = r.Prompt
		return feedbackResponse, nil
	})
	h := NewHandler(LoadConfig(), gen, logger.NewTestLogger(t))

	feedback, err := h.Generate(context.Background(), profile(), workedScore(), "")

	require.NoError(t, err)
	assert.Equal(t, "en-IN", feedback.LanguageCode)
	assert.Contains(t, prompt, "English")
	assert.NotContains(t, prompt, "cultural context")
}

func TestHandler_Generate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		generator genai.Generator
		code      apperrors.ErrorCode
	}{
		{
			name: "generator missing",
			code: apperrors.ErrCodeCapabilityNotConfigured,
		},
		{
			name: "call failure",
			generator: genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
				return "", apperrors.NewGenerationFailedError(errors.New("quota"))
			}),
			code: apperrors.ErrCodeGenerationFailed,
		},
		{
			name: "not json",
			generator: genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
				return "Great job!", nil
			}),
			code: apperrors.ErrCodeMalformedResponse,
		},
		{
			name: "empty object",
			generator: genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
				return "{}", nil
			}),
			code: apperrors.ErrCodeMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(LoadConfig(), tt.generator, logger.NewTestLogger(t))

			feedback, err := h.Generate(context.Background(), profile(), workedScore(), "en-IN")

			assert.Nil(t, feedback)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}
}

func TestHandler_Execute_ErrorIsAResult(t *testing.T) {
	h := NewHandler(LoadConfig(), genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
		return "not json", nil
	}), logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-1", AssessmentScore: workedScore()})

	require.NoError(t, err)
	assert.Nil(t, out.Feedback)
	require.NotNil(t, out.Error)
	assert.Equal(t, "MALFORMED_RESPONSE", out.Error.Code)
	assert.Equal(t, "not json", out.Error.RawResponse)
}

func TestHandler_Execute_Success(t *testing.T) {
	h := NewHandler(LoadConfig(), genai.GeneratorFunc(func(context.Context, genai.Request) (string, error) {
		return feedbackResponse, nil
	}), logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-1", Locale: "mr-IN", AssessmentScore: workedScore()})

	require.NoError(t, err)
	assert.Nil(t, out.Error)
	require.NotNil(t, out.Feedback)
	assert.Equal(t, "mr-IN", out.Feedback.LanguageCode)
}
