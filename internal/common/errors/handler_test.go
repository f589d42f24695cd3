// internal/common/errors/handler_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		jobRetries  int32
		want        Resolution
		wantRetries int32
	}{
		{
			name:       "evaluation code is thrown",
			err:        NewMalformedResponseError("oops", fmt.Errorf("bad json")),
			jobRetries: 3,
			want:       ResolveThrow,
		},
		{
			name:       "duplicate evaluation is thrown",
			err:        NewDuplicateEvaluationError("case-1"),
			jobRetries: 3,
			want:       ResolveThrow,
		},
		{
			name:        "delivery failure is retried",
			err:         NewDatabaseInsertFailedError(fmt.Errorf("connection reset")),
			jobRetries:  3,
			want:        ResolveRetry,
			wantRetries: 2,
		},
		{
			name:        "retries capped by the code budget",
			err:         NewIndexFailedError(fmt.Errorf("503")),
			jobRetries:  10,
			want:        ResolveRetry,
			wantRetries: 3,
		},
		{
			name:       "last attempt becomes an incident",
			err:        NewNotificationSendFailedError("sms", fmt.Errorf("throttled")),
			jobRetries: 1,
			want:       ResolveIncident,
		},
		{
			name:       "unknown error is thrown as internal",
			err:        AsStandard(fmt.Errorf("boom")),
			jobRetries: 3,
			want:       ResolveThrow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, retries := Resolve(tt.err, tt.jobRetries)
			assert.Equal(t, tt.want, got, "resolution %s", got)
			assert.Equal(t, tt.wantRetries, retries)
		})
	}
}

func TestConvertToBPMNError_CarriesRawResponse(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewMalformedResponseError("not json", fmt.Errorf("invalid character")))

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "MALFORMED_RESPONSE", vars["errorCode"])
	assert.Equal(t, "not json", vars[MetaRawResponse])
	assert.Equal(t, false, vars["retryable"])
	assert.Equal(t, 0, bpmnErr.Retries)
}
