package querydrivebotdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"driveup-workers/internal/common/camunda"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
	"driveup-workers/internal/drivebot"
)

const TaskType = "query-drivebot-data"

type Handler struct {
	config   *Config
	db       *sql.DB
	logger   logger.Logger
	reporter *camunda.JobReporter
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		db:       db,
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

	h.reporter.Complete(context.Background(), client, job, output)
}

// execute checks the statement again; the job variables are not trusted to
// come from translate-car-question.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	rows, truncated, err := drivebot.QueryRows(ctx, h.db, input.SQL, h.config.MaxRows)
	if err != nil {
		switch {
		case errors.Is(err, drivebot.ErrUnsafeSQL):
			return nil, apperrors.NewUnsafeSQLError(err.Error())
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, apperrors.NewQueryTimeoutError(drivebot.Table)
		default:
			return nil, apperrors.NewDriveBotQueryFailedError(err)
		}
	}

	if truncated {
		h.logger.Warn("drivebot result truncated", map[string]interface{}{
			"maxRows": h.config.MaxRows,
		})
	}

	return &Output{
		Rows:      rows,
		RowCount:  len(rows),
		Truncated: truncated,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
