// internal/workers/delivery/index-evaluation/handler.go
package indexevaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/camunda"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/metrics"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "index-evaluation"
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		camunda.FailJob(context.Background(), client, job,
			apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)), h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		camunda.FailJob(context.Background(), client, job, err, h.logger)
		return
	}

	camunda.CompleteJob(context.Background(), client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	if input.Case.CaseID == "" {
		return nil, apperrors.NewInvalidInputError("caseDocument requires case_id")
	}

	body, err := json.Marshal(buildTriageDocument(input.Case, input.ViewsStatus))
	if err != nil {
		return nil, apperrors.NewIndexFailedError(fmt.Errorf("marshal document: %w", err))
	}

	req := esapi.IndexRequest{
		Index:      h.config.Index,
		DocumentID: input.Case.CaseID,
		Body:       bytes.NewReader(body),
	}
	if h.config.Refresh {
		req.Refresh = "true"
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, apperrors.NewIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, apperrors.NewIndexFailedError(fmt.Errorf("%s: %s", res.Status(), bytes.TrimSpace(detail)))
	}

	var parsed indexResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewIndexFailedError(fmt.Errorf("decode response: %w", err))
	}

	metrics.StageDuration.WithLabelValues(TaskType, "ok").Observe(time.Since(start).Seconds())
	h.logger.Info("evaluation indexed", map[string]interface{}{
		"caseId":  input.Case.CaseID,
		"index":   h.config.Index,
		"result":  parsed.Result,
		"version": parsed.Version,
	})

	return &Output{
		CaseID:  input.Case.CaseID,
		Index:   h.config.Index,
		Result:  parsed.Result,
		Version: parsed.Version,
	}, nil
}

func buildTriageDocument(doc models.CaseDocument, viewsStatus string) triageDocument {
	p := doc.Profile
	p.Normalize()

	out := triageDocument{
		CaseID:            doc.CaseID,
		SubmissionID:      doc.SubmissionID,
		Locale:            doc.Locale,
		BusinessName:      p.Concept.BusinessName,
		EntrepreneurName:  p.Entrepreneur.Name,
		Industry:          p.Concept.Industry,
		Description:       p.Concept.Description,
		Location:          p.Implementation.Location,
		LoanRequirement:   p.ResourcesRequired.LoanRequirement,
		ScoringMethod:     string(doc.Score.ScoringMethod),
		TotalScore:        doc.Score.Total,
		MaxScore:          doc.Score.Max,
		Percentage:        doc.Score.Percentage,
		Eligibility:       doc.Score.Eligibility,
		CompletenessTotal: doc.CompletenessScore.Total,
		SynthesisMethod:   doc.DataSources.Method,
		ViewsStatus:       viewsStatus,
		CreatedAt:         doc.CreatedAt.UTC().Format(time.RFC3339),
	}
	if doc.MarketResearch != nil && !doc.MarketResearch.IsStub() {
		score := doc.MarketResearch.MarketPotentialScore
		out.MarketPotentialScore = &score
	}
	return out
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
