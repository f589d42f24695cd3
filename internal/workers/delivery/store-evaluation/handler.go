// internal/workers/delivery/store-evaluation/handler.go
package storeevaluation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/camunda"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/metrics"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/lib/pq"
)

const (
	TaskType = "store-evaluation"
)

const statusStored = "stored"

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
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

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	doc := input.Case
	if doc.CaseID == "" || doc.SubmissionID == "" {
		return nil, apperrors.NewInvalidInputError("caseDocument requires case_id and submission_id")
	}

	caseJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal case document: %w", err))
	}

	var viewsJSON []byte
	viewsStatus := models.RenderFailed
	if input.Views != nil {
		viewsStatus = input.Views.Status
		viewsJSON, err = json.Marshal(input.Views)
		if err != nil {
			return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal stakeholder views: %w", err))
		}
	}

	auditJSON, err := json.Marshal(map[string]interface{}{
		"submissionId":  doc.SubmissionID,
		"scoringMethod": doc.Score.ScoringMethod,
		"totalScore":    doc.Score.Total,
		"eligibility":   doc.Score.Eligibility,
		"viewsStatus":   viewsStatus,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal audit entry: %w", err))
	}

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM evaluations
			WHERE submission_id = $1
		)`, doc.SubmissionID).Scan(&exists)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("duplicate check failed: %w", err))
	}
	if exists {
		return nil, apperrors.NewDuplicateEvaluationError(doc.CaseID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO evaluations (
			case_id, submission_id, locale, business_name, entrepreneur_name,
			scoring_method, total_score, max_score, eligibility, synthesis_method,
			views_status, case_document, stakeholder_views, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		doc.CaseID,
		doc.SubmissionID,
		doc.Locale,
		doc.Profile.Concept.BusinessName,
		doc.Profile.Entrepreneur.Name,
		string(doc.Score.ScoringMethod),
		doc.Score.Total,
		doc.Score.Max,
		doc.Score.Eligibility,
		doc.DataSources.Method,
		viewsStatus,
		caseJSON,
		viewsJSON,
		createdAt,
	)
	if err != nil {
		// A concurrent store of the same submission loses on the unique index.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, apperrors.NewDuplicateEvaluationError(doc.CaseID)
		}
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("insert failed: %w", err))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (entity_type, entity_id, action, details)
		VALUES ($1, $2, $3, $4)`,
		"evaluation",
		doc.CaseID,
		"evaluation_stored",
		auditJSON,
	)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("audit insert failed: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("commit failed: %w", err))
	}

	metrics.StageDuration.WithLabelValues(TaskType, "ok").Observe(time.Since(start).Seconds())
	h.logger.Info("evaluation stored", map[string]interface{}{
		"caseId":       doc.CaseID,
		"submissionId": doc.SubmissionID,
		"eligibility":  doc.Score.Eligibility,
		"viewsStatus":  viewsStatus,
	})

	return &Output{
		CaseID:   doc.CaseID,
		Status:   statusStored,
		StoredAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
