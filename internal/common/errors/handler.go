// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Resolution is how a failed job is reported to the broker.
type Resolution int

const (
	// ResolveThrow raises the code as a BPMN error for the process to catch.
	ResolveThrow Resolution = iota
	// ResolveRetry fails the job and leaves retries on it.
	ResolveRetry
	// ResolveIncident fails the job with no retries left.
	ResolveIncident
)

func (r Resolution) String() string {
	switch r {
	case ResolveRetry:
		return "retry"
	case ResolveIncident:
		return "incident"
	default:
		return "throw"
	}
}

// Resolve decides how stdErr is reported for a job that still has
// jobRetries attempts. Only retryable delivery codes are retried, at most
// GetRetryCount times; when those run out the job becomes an incident.
// Every evaluation code is thrown.
func Resolve(stdErr *StandardError, jobRetries int32) (Resolution, int32) {
	budget := int32(GetRetryCount(stdErr.Code))
	if budget == 0 || !stdErr.Retryable {
		return ResolveThrow, 0
	}

	remaining := jobRetries - 1
	if remaining > budget {
		remaining = budget
	}
	if remaining <= 0 {
		return ResolveIncident, 0
	}
	return ResolveRetry, remaining
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler reports worker errors back to Zeebe.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError reports err for job. The BPMN error variables travel with
// both thrown errors and failed jobs.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := AsStandard(err)
	bpmnErr := ConvertToBPMNError(stdErr)
	resolution, retries := Resolve(stdErr, job.Retries)
	vars := encodeVariables(bpmnErr)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":             job.Key,
		"jobType":            job.Type,
		"processInstanceKey": job.ProcessInstanceKey,
		"errorCode":          bpmnErr.Code,
		"errorCategory":      GetErrorCategory(stdErr.Code),
		"message":            bpmnErr.Message,
		"details":            bpmnErr.Details,
		"resolution":         resolution.String(),
		"retriesLeft":        retries,
	})

	var sendErr error
	if resolution == ResolveThrow {
		sendErr = throwError(ctx, client, job.Key, bpmnErr, vars)
	} else {
		sendErr = failJob(ctx, client, job.Key, retries, bpmnErr, vars)
	}
	if sendErr != nil {
		h.logger.Error("failed to report job error", map[string]interface{}{
			"jobKey":     job.Key,
			"resolution": resolution.String(),
			"error":      sendErr.Error(),
		})
	}
}

func encodeVariables(e *BPMNError) string {
	data, err := json.Marshal(e.ToErrorVariables())
	if err != nil {
		return ""
	}
	return string(data)
}

func throwError(ctx context.Context, client worker.JobClient, key int64, e *BPMNError, vars string) error {
	cmd := client.NewThrowErrorCommand().
		JobKey(key).
		ErrorCode(e.Code).
		ErrorMessage(e.Message)

	if vars != "" {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, err = withVars.Send(ctx)
			return err
		}
	}
	_, err := cmd.Send(ctx)
	return err
}

func failJob(ctx context.Context, client worker.JobClient, key int64, retries int32, e *BPMNError, vars string) error {
	cmd := client.NewFailJobCommand().
		JobKey(key).
		Retries(retries).
		ErrorMessage(e.Message)

	if vars != "" {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, err = withVars.Send(ctx)
			return err
		}
	}
	_, err := cmd.Send(ctx)
	return err
}
