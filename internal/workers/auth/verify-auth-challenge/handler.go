package verifyauthchallenge

import (
	"context"
	"fmt"
	"strings"

	"driveup-workers/internal/common/camunda"
	"driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "verify-auth-challenge"

type Handler struct {
	config   *Config
	logger   logger.Logger
	service  *Service
	reporter *camunda.JobReporter
}

type HandlerOptions struct {
	Deps         ServiceDependencies
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Deps.Provider == nil {
		return nil, fmt.Errorf("%s requires a challenge provider", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	deps := opts.Deps
	deps.Logger = log

	return &Handler{
		config:   cfg,
		logger:   log,
		service:  NewService(deps, cfg),
		reporter: camunda.NewJobReporter(TaskType, log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"workflowKey": job.GetProcessInstanceKey(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if !h.config.Enabled {
		h.reporter.Complete(ctx, client, job, &Output{Valid: false, Reason: "DISABLED"})
		return
	}

	input, err := h.parseInput(job)
	if err != nil {
		h.reporter.Fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.reporter.Fail(ctx, client, job, err)
		return
	}

	h.reporter.Complete(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse job variables: %v", err))
	}

	result, err := inputSchema.Validate(variables)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
	}

	input := &Input{}
	input.Token, _ = variables["token"].(string)
	input.RemoteIP, _ = variables["remoteIp"].(string)
	input.Action, _ = variables["action"].(string)
	return input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}
