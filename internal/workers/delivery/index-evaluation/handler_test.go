// internal/workers/delivery/index-evaluation/handler_test.go
package indexevaluation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type capturedRequest struct {
	method string
	path   string
	query  string
	body   map[string]interface{}
}

type fakeCluster struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
	response string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: body})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.response))
}

func newTestClient(t *testing.T, cluster *fakeCluster) *elasticsearch.Client {
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  []string{srv.URL},
		MaxRetries: 0,
	})
	require.NoError(t, err)
	return client
}

func createTestInput() *Input {
	p := models.EmptyProfile()
	p.Concept.BusinessName = "Ravi Dairy"
	p.Concept.Industry = "Dairy"
	p.Implementation.Location = "Pune"

	return &Input{
		Case: models.CaseDocument{
			CaseID:       "case-42",
			SubmissionID: "sub-42",
			Locale:       "en-IN",
			Profile:      p,
			Score: models.AssessmentScore{
				ScoringMethod: models.ScoringFallback,
				Total:         38,
				Max:           100,
				Percentage:    38,
				Eligibility:   models.EligibilityInsufficient,
			},
			CompletenessScore: models.AssessmentScore{Total: 3, Max: 10},
			MarketResearch: &models.MarketResearch{
				SearchEnabled:        true,
				MarketPotentialScore: 82,
			},
			DataSources: models.DataSources{Method: models.SynthesisDocument},
			CreatedAt:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		ViewsStatus: models.RenderComplete,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	cluster := &fakeCluster{status: http.StatusCreated, response: `{"_index":"evaluations","_id":"case-42","_version":1,"result":"created"}`}
	cfg := LoadConfig()
	cfg.Refresh = true
	h := NewHandler(cfg, newTestClient(t, cluster), logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, "case-42", output.CaseID)
	assert.Equal(t, "evaluations", output.Index)
	assert.Equal(t, "created", output.Result)
	assert.Equal(t, int64(1), output.Version)

	require.Len(t, cluster.requests, 1)
	req := cluster.requests[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/evaluations/_doc/case-42", req.path)
	assert.Contains(t, req.query, "refresh=true")
	assert.Equal(t, "Ravi Dairy", req.body["business_name"])
	assert.Equal(t, "fallback", req.body["scoring_method"])
	assert.Equal(t, float64(38), req.body["total_score"])
	assert.Equal(t, float64(82), req.body["market_potential_score"])
	assert.Equal(t, "Not specified", req.body["entrepreneur_name"])
	assert.Equal(t, "2025-03-01T10:00:00Z", req.body["created_at"])
}

func TestBuildTriageDocument_StubMarketResearchOmitted(t *testing.T) {
	input := createTestInput()
	input.Case.MarketResearch = &models.MarketResearch{SearchEnabled: false, MarketPotentialScore: 75}

	doc := buildTriageDocument(input.Case, "")

	assert.Nil(t, doc.MarketPotentialScore)
	assert.Empty(t, doc.ViewsStatus)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_ClusterError(t *testing.T) {
	cluster := &fakeCluster{status: http.StatusBadRequest, response: `{"error":{"type":"mapper_parsing_exception"}}`}
	h := NewHandler(LoadConfig(), newTestClient(t, cluster), logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), createTestInput())

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, apperrors.ErrIndexFailed))
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

func TestHandler_Execute_MissingCaseID(t *testing.T) {
	cluster := &fakeCluster{status: http.StatusCreated, response: `{}`}
	h := NewHandler(LoadConfig(), newTestClient(t, cluster), logger.NewTestLogger(t))

	input := createTestInput()
	input.Case.CaseID = ""
	_, err := h.Execute(context.Background(), input)

	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
	assert.Empty(t, cluster.requests)
}
