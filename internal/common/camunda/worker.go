package camunda

import (
	"context"
	"time"

	"driveup-workers/internal/common/metrics"
	"driveup-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusThrown    = "error_thrown"
	StatusUnknown   = "unknown"
)

type HandlerFunc func(client worker.JobClient, job entities.Job)

// outcomeClient remembers which terminal command the handler issued.
type outcomeClient struct {
	worker.JobClient
	status string
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.status = StatusCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.status = StatusFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.status = StatusThrown
	return c.JobClient.NewThrowErrorCommand()
}

// Instrument wraps a job handler with the worker gauges, the duration
// histogram and one trace span per job.
func Instrument(taskType string, obs *observability.Observability, handler HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		ctx, span := obs.StartSpan(context.Background(), taskType,
			attribute.Int64("jobKey", job.Key),
			attribute.Int64("processInstanceKey", job.ProcessInstanceKey),
		)
		defer span.End()

		observed := &outcomeClient{JobClient: client, status: StatusUnknown}
		handler(observed, job)

		elapsed := time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if observed.status == StatusCompleted {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}
		span.SetAttributes(attribute.String("status", observed.status))
		obs.RecordJobProcessed(ctx, taskType, observed.status)
		obs.RecordJobDuration(ctx, taskType, elapsed, observed.status)
	}
}
