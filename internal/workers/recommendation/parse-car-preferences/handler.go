package parsecarpreferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"driveup-workers/internal/common/camunda"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
	"driveup-workers/internal/recommendation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "parse-car-preferences"

var ErrInvalidPreferences = errors.New("INVALID_PREFERENCES")

type Handler struct {
	config   *Config
	logger   logger.Logger
	reporter *camunda.JobReporter
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
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
		h.reporter.Fail(context.Background(), client, job, apperrors.Wrap(apperrors.ErrCodeInvalidInput, "Invalid preferences", err))
		return
	}

	h.reporter.Complete(context.Background(), client, job, output)
}

// execute never rejects a request for bad field values: offending fields are
// dropped and reported so the ranking treats them as absent.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	raw := make(map[string]interface{}, len(input.RawPreferences))
	for k, v := range input.RawPreferences {
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		raw[k] = v
	}

	result, err := preferencesSchema.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}

	dropped := result.InvalidFields()
	for _, field := range dropped {
		delete(raw, field)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	var prefs recommendation.UserPreferences
	if err := json.Unmarshal(encoded, &prefs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}

	prefs = normalize(prefs)

	if len(dropped) > 0 {
		h.logger.Warn("dropped invalid preference fields", map[string]interface{}{
			"droppedFields": dropped,
			"errors":        result.GetErrorMessages(),
		})
	}

	return &Output{
		Preferences:   prefs,
		DroppedFields: dropped,
	}, nil
}

func normalize(p recommendation.UserPreferences) recommendation.UserPreferences {
	p.Budget = strings.TrimSpace(p.Budget)
	p.FuelType = strings.TrimSpace(p.FuelType)
	p.BodyType = strings.TrimSpace(p.BodyType)
	p.SeatingCapacity = strings.TrimSpace(p.SeatingCapacity)
	p.TransmissionType = strings.TrimSpace(p.TransmissionType)
	p.SafetyPreference = strings.TrimSpace(p.SafetyPreference)
	p.PerformancePreference = strings.TrimSpace(p.PerformancePreference)
	p.AdditionalFeatures = dedupe(p.AdditionalFeatures)
	p.BrandPreference = dedupe(p.BrandPreference)
	return p
}

// dedupe trims entries and keeps the first occurrence of each.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
