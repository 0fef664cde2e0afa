package rankcarrecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"driveup-workers/internal/carstore"
	"driveup-workers/internal/common/camunda"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/events"
	"driveup-workers/internal/common/logger"
	"driveup-workers/internal/common/metrics"
	"driveup-workers/internal/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "rank-car-recommendations"

// CandidateSource loads the variants to rank.
type CandidateSource interface {
	Candidates(ctx context.Context, pd carstore.Pushdown) ([]recommendation.CarVariant, error)
}

type Handler struct {
	config    *Config
	store     CandidateSource
	publisher events.Publisher
	logger    logger.Logger
	reporter  *camunda.JobReporter
}

func NewHandler(config *Config, store CandidateSource, publisher events.Publisher, log logger.Logger) *Handler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     store,
		publisher: publisher,
		logger:    scoped,
		reporter:  camunda.NewJobReporter(TaskType, scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.reporter.Fail(context.Background(), client, job,
			apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.reporter.Fail(context.Background(), client, job, err)
		return
	}

	h.reporter.Complete(context.Background(), client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	variants, err := h.store.Candidates(ctx, carstore.PushdownFor(input.Preferences))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("car_model_variants")
		}
		return nil, apperrors.NewCandidateQueryFailedError(err)
	}

	result := recommendation.Recommend(input.Preferences, variants)
	metrics.ObserveRecommendation(result.CandidateCount, len(result.Recommendations))

	h.logger.Info("recommendations ranked", map[string]interface{}{
		"loaded":         len(variants),
		"candidateCount": result.CandidateCount,
		"returned":       len(result.Recommendations),
		"durationMs":     time.Since(start).Milliseconds(),
	})

	h.publishServed(ctx, input, result)

	return &Output{
		Recommendations: result.Recommendations,
		CandidateCount:  result.CandidateCount,
	}, nil
}

// publishServed is best effort; a broker outage never fails the ranking.
func (h *Handler) publishServed(ctx context.Context, input *Input, result recommendation.Result) {
	payload := ServedEvent{
		SessionID:      input.SessionID,
		Preferences:    input.Preferences,
		VariantIDs:     make([]string, len(result.Recommendations)),
		Scores:         make([]int, len(result.Recommendations)),
		CandidateCount: result.CandidateCount,
	}
	for i, r := range result.Recommendations {
		payload.VariantIDs[i] = r.VariantID
		payload.Scores[i] = r.Score
	}

	ev := events.NewEvent(events.TypeRecommendationServed, input.SessionID, payload)
	if err := h.publisher.Publish(ctx, h.config.EventTopic, ev); err != nil {
		h.logger.Warn("failed to publish recommendation event", map[string]interface{}{
			"eventId": ev.ID,
			"error":   err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
