package camunda

import (
	"context"

	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
	"driveup-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// JobReporter sends the terminal command for a job of one task type.
type JobReporter struct {
	taskType     string
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewJobReporter(taskType string, log logger.Logger) *JobReporter {
	return &JobReporter{
		taskType:     taskType,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (r *JobReporter) Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		r.Fail(ctx, client, job, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to encode job output", err))
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	r.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
	})
}

// Fail reports err through the shared error handler. Retryable codes fail
// the job, the rest are thrown as BPMN errors.
func (r *JobReporter) Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := r.errorHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(stdErr.Code)).Inc()
}
