package checkquestionquota

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"driveup-workers/internal/common/camunda"
	"driveup-workers/internal/common/database"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
)

const (
	TaskType = "check-question-quota"

	keyPrefix = "drivebot:quota:"
)

type Handler struct {
	config   *Config
	redis    redis.Cmdable
	logger   logger.Logger
	reporter *camunda.JobReporter
}

func NewHandler(config *Config, rdb redis.Cmdable, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		redis:    rdb,
		logger:   scoped,
		reporter: camunda.NewJobReporter(TaskType, scoped),
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

	// An exhausted quota is a normal outcome the process gateway branches on.
	h.reporter.Complete(context.Background(), client, job, output)
}

// execute counts this question against the session. Every call consumes one
// unit, including calls made after the quota is exhausted.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return nil, apperrors.NewInvalidInputError("sessionId is required")
	}

	used, err := database.IncrWithin(ctx, h.redis, keyPrefix+sessionID, h.config.Window)
	if err != nil {
		return nil, apperrors.NewQuotaCheckFailedError(err)
	}

	remaining := h.config.MaxQuestions - int(used)
	if remaining < 0 {
		remaining = 0
	}
	output := &Output{
		Allowed:   int(used) <= h.config.MaxQuestions,
		Used:      int(used),
		Remaining: remaining,
		Limit:     h.config.MaxQuestions,
	}

	if !output.Allowed {
		h.logger.Warn("question quota exhausted", map[string]interface{}{
			"sessionId": sessionID,
			"used":      used,
			"limit":     h.config.MaxQuestions,
		})
	}
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
