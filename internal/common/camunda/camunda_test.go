package camunda

import (
	"errors"
	"testing"

	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/metrics"
	"driveup-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type nilCommandClient struct {
	worker.JobClient
}

func (nilCommandClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 { return nil }
func (nilCommandClient) NewFailJobCommand() commands.FailJobCommandStep1         { return nil }
func (nilCommandClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1   { return nil }

func testJob(key int64) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: key, Type: "rank-car-recommendations", Retries: 3}}
}

func TestInstrument_RecordsOutcome(t *testing.T) {
	obs := observability.New("driveup-workers-test")
	defer obs.Shutdown()

	const taskType = "instrument-test-completed"
	before := testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(taskType))

	var seen string
	handler := Instrument(taskType, obs, func(client worker.JobClient, job entities.Job) {
		client.NewCompleteJobCommand()
		seen = client.(*outcomeClient).status
	})
	handler(nilCommandClient{}, testJob(1))

	assert.Equal(t, StatusCompleted, seen)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Zero(t, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
}

func TestInstrument_FailedJobIsNotCountedAsCompleted(t *testing.T) {
	const taskType = "instrument-test-failed"
	before := testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(taskType))

	var status string
	handler := Instrument(taskType, nil, func(client worker.JobClient, job entities.Job) {
		client.NewThrowErrorCommand()
		status = client.(*outcomeClient).status
	})
	handler(nilCommandClient{}, testJob(2))

	assert.Equal(t, StatusThrown, status)
	assert.Equal(t, before, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(taskType)))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, IsRetryable(errors.New("context deadline exceeded")))
	assert.False(t, IsRetryable(errors.New("rpc error: code = NotFound")))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		msg  string
		code apperrors.ErrorCode
	}{
		{"connection refused", apperrors.ErrCodeExternalService},
		{"context deadline exceeded", apperrors.ErrCodeTimeout},
		{"process not found", apperrors.ErrCodeNotFound},
		{"instance already exists", apperrors.ErrCodeBusinessRule},
		{"permission denied", apperrors.ErrCodeAuthentication},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := MapError(errors.New(tt.msg), "topology")
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
			std, ok := apperrors.As(err)
			if assert.True(t, ok) {
				assert.Contains(t, std.Details, "topology")
			}
		})
	}
}
