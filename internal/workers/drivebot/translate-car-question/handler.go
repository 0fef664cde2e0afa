package translatecarquestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"driveup-workers/internal/common/camunda"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/genai"
	"driveup-workers/internal/common/logger"
	"driveup-workers/internal/drivebot"
)

const TaskType = "translate-car-question"

type Handler struct {
	config     *Config
	translator drivebot.NaturalLanguageQueryTranslator
	logger     logger.Logger
	reporter   *camunda.JobReporter
}

func NewHandler(config *Config, translator drivebot.NaturalLanguageQueryTranslator, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		translator: translator,
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
	question := strings.TrimSpace(input.UserQuery)
	if question == "" {
		return nil, apperrors.NewInvalidInputError("userQuery is required")
	}
	if h.config.MaxQuestionChars > 0 && utf8.RuneCountInString(question) > h.config.MaxQuestionChars {
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("userQuery exceeds %d characters", h.config.MaxQuestionChars))
	}

	stmt, err := h.translator.Translate(ctx, question, input.History)
	if err != nil {
		switch {
		case errors.Is(err, drivebot.ErrUnsafeSQL):
			h.logger.Warn("generated SQL rejected", map[string]interface{}{
				"sessionId": input.SessionID,
				"reason":    err.Error(),
			})
			return nil, apperrors.NewUnsafeSQLError(err.Error())
		case errors.Is(err, genai.ErrTimeout), errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, apperrors.NewGenAITimeoutError()
		default:
			return nil, apperrors.NewSQLGenerationFailedError(err)
		}
	}

	h.logger.Debug("question translated", map[string]interface{}{
		"sessionId": input.SessionID,
		"sql":       stmt,
	})

	return &Output{SQL: stmt}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
