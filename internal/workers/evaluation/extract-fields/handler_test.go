// internal/workers/evaluation/extract-fields/handler_test.go
package extractfields

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/genai"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		Temperature: 0.1,
	}
}

func staticGenerator(text string, err error, calls *int) genai.Generator {
	return genai.GeneratorFunc(func(ctx context.Context, req genai.Request) (string, error) {
		if calls != nil {
			*calls++
		}
		return text, err
	})
}

const teaShopResponse = "Here is the data:\n```json\n" + `{
  "entrepreneur_info": {"name": "Lakshmi Devi", "education": "12th pass", "phone": "9876543210", "experience": ""},
  "business_concept": {"business_name": "Chai Point", "description": "Roadside tea stall", "industry": "Food", "business_type": "Service"},
  "value_proposition": {"main_product_service": "Masala tea", "unique_selling_point": "Not specified", "problem_solved": "Affordable refreshments"},
  "financial_info": {"loan_requirement": "Rs 50,000", "startup_costs": "Not specified", "revenue_expectations": "Rs 600/day"},
  "additional_info": {"target_customers": "Bus stand commuters", "location": "Nashik", "timeline": "2 months"}
}` + "\n```"

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Extract_Success(t *testing.T) {
	calls := 0
	h := NewHandler(createTestConfig(), staticGenerator(teaShopResponse, nil, &calls), logger.NewTestLogger(t))

	result := h.Extract(context.Background(), SourceDocument, "Chai Point tea stall in Nashik ...")

	require.True(t, result.OK())
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Lakshmi Devi", result.Extraction.EntrepreneurInfo.Name)
	assert.Equal(t, "Chai Point", result.Extraction.BusinessConcept.BusinessName)
	assert.Equal(t, models.NotSpecified, result.Extraction.EntrepreneurInfo.Experience, "empty string must become the sentinel")
	assert.Equal(t, models.NotSpecified, result.Extraction.ValueProposition.UniqueSellingPoint)
	assert.Equal(t, "Rs 50,000", result.Extraction.FinancialInfo.LoanRequirement)
}

func TestHandler_Extract_MissingFieldsDefault(t *testing.T) {
	h := NewHandler(createTestConfig(),
		staticGenerator(`{"business_concept": {"business_name": "Tailor Shop"}}`, nil, nil),
		logger.NewTestLogger(t))

	result := h.Extract(context.Background(), SourceTranscript, "I want to open a tailor shop")

	require.True(t, result.OK())
	assert.Equal(t, "Tailor Shop", result.Extraction.BusinessConcept.BusinessName)
	assert.Equal(t, models.NotSpecified, result.Extraction.AdditionalInfo.Location)
	assert.Equal(t, models.NotSpecified, result.Extraction.FinancialInfo.RevenueExpectations)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Extract_Errors(t *testing.T) {
	tests := []struct {
		name      string
		generator genai.Generator
		rawText   string
		wantCode  apperrors.ErrorCode
		wantCalls int
		wantRaw   string
	}{
		{
			name:     "capability not configured",
			rawText:  "some text",
			wantCode: apperrors.ErrCodeCapabilityNotConfigured,
		},
		{
			name:      "empty input",
			generator: staticGenerator("{}", nil, nil),
			rawText:   "   \n\t",
			wantCode:  apperrors.ErrCodeNotEnoughInput,
		},
		{
			name:      "malformed response keeps raw text",
			generator: staticGenerator("I could not read this document.", nil, nil),
			rawText:   "blurry scan",
			wantCode:  apperrors.ErrCodeMalformedResponse,
			wantRaw:   "I could not read this document.",
		},
		{
			name:      "upstream failure",
			generator: staticGenerator("", apperrors.NewGenerationFailedError(errors.New("quota exceeded")), nil),
			rawText:   "text",
			wantCode:  apperrors.ErrCodeGenerationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), tt.generator, logger.NewTestLogger(t))

			result := h.Extract(context.Background(), SourceDocument, tt.rawText)

			assert.False(t, result.OK())
			assert.Nil(t, result.Extraction)
			require.NotNil(t, result.Err)
			assert.Equal(t, string(tt.wantCode), result.Err.Code)
			if tt.wantRaw != "" {
				assert.Equal(t, tt.wantRaw, result.Err.RawResponse)
			}
		})
	}
}

func TestHandler_Extract_NoCallWithoutInput(t *testing.T) {
	calls := 0
	h := NewHandler(createTestConfig(), staticGenerator("{}", nil, &calls), logger.NewTestLogger(t))

	result := h.Extract(context.Background(), SourceDocument, "")

	assert.False(t, result.OK())
	assert.Equal(t, 0, calls)
}

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(createTestConfig(), staticGenerator(teaShopResponse, nil, nil), logger.NewTestLogger(t))

	t.Run("defaults source to document", func(t *testing.T) {
		out, err := h.Execute(context.Background(), &Input{SubmissionID: "sub-1", RawText: "text"})
		require.NoError(t, err)
		assert.Equal(t, SourceDocument, out.Source)
		assert.Equal(t, "sub-1", out.SubmissionID)
		assert.True(t, out.Extraction.OK())
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		_, err := h.Execute(context.Background(), &Input{Source: "video", RawText: "text"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestBuildPrompt(t *testing.T) {
	doc := buildPrompt(SourceDocument, "RAW")
	assert.Contains(t, doc, "OCR output")
	assert.Contains(t, doc, "RAW")
	assert.Contains(t, doc, `"Not specified"`)

	audio := buildPrompt(SourceTranscript, "RAW")
	assert.True(t, strings.Contains(audio, "speech transcript"))
}
