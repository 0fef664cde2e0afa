package summarizecaranswer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"driveup-workers/internal/common/camunda"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/genai"
	"driveup-workers/internal/common/logger"
)

const TaskType = "summarize-car-answer"

// AnswerSummarizer turns DriveBot rows into a conversational answer.
type AnswerSummarizer interface {
	Summarize(ctx context.Context, rows []map[string]interface{}) (string, error)
}

type Handler struct {
	config     *Config
	summarizer AnswerSummarizer
	logger     logger.Logger
	reporter   *camunda.JobReporter
}

func NewHandler(config *Config, summarizer AnswerSummarizer, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		summarizer: summarizer,
		logger:     scoped,
		reporter:   camunda.NewJobReporter(TaskType, scoped),
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
	summary, err := h.summarizer.Summarize(ctx, input.Rows)
	if err != nil {
		if errors.Is(err, genai.ErrTimeout) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewGenAITimeoutError()
		}
		return nil, apperrors.NewSummaryFailedError(err)
	}

	h.logger.Info("answer summarized", map[string]interface{}{
		"sessionId": input.SessionID,
		"rowCount":  len(input.Rows),
		"length":    len(summary),
	})

	return &Output{Summary: summary}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
