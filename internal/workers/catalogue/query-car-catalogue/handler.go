package querycarcatalogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"driveup-workers/internal/carstore"
	"driveup-workers/internal/common/camunda"
	"driveup-workers/internal/common/database"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
)

const (
	TaskType = "query-car-catalogue"

	modelsCacheKey = "cars:models"
)

// Catalogue is the read side of the car catalogue.
type Catalogue interface {
	Models(ctx context.Context) ([]carstore.CarModel, error)
	Variants(ctx context.Context, modelID string) ([]carstore.ModelVariant, error)
	VariantDetails(ctx context.Context, modelID string) ([]carstore.VariantDetail, error)
}

// queryFunc returns the rows and their count.
type queryFunc func(ctx context.Context, input *Input) (interface{}, int, error)

type Handler struct {
	config    *Config
	catalogue Catalogue
	cache     redis.Cmdable
	logger    logger.Logger
	reporter  *camunda.JobReporter
	registry  map[QueryType]queryFunc
}

// NewHandler wires the catalogue reads. cache may be nil, in which case the
// model list is always read from Postgres.
func NewHandler(config *Config, catalogue Catalogue, cache redis.Cmdable, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	h := &Handler{
		config:    config,
		catalogue: catalogue,
		cache:     cache,
		logger:    scoped,
		reporter:  camunda.NewJobReporter(TaskType, scoped),
	}
	h.registry = map[QueryType]queryFunc{
		QueryTypeCarModels:      h.carModels,
		QueryTypeModelVariants:  h.modelVariants,
		QueryTypeVariantDetails: h.variantDetails,
	}
	return h
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
	if input == nil {
		return nil, apperrors.NewInvalidInputError("input cannot be nil")
	}

	queryType := QueryType(input.QueryType)
	fn, ok := h.registry[queryType]
	if !ok {
		return nil, apperrors.NewInvalidQueryTypeError(input.QueryType)
	}
	if queryType.RequiresModelID() && input.ModelID == "" {
		return nil, apperrors.NewMissingModelIDError()
	}

	if queryType == QueryTypeCarModels {
		if out, hit := h.cachedModels(ctx); hit {
			return out, nil
		}
	}

	start := time.Now()
	data, rowCount, err := fn(ctx, input)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError(input.QueryType)
		}
		return nil, apperrors.NewCatalogueQueryFailedError(input.QueryType, err)
	}

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: time.Since(start).Milliseconds(),
	}, nil
}

func (h *Handler) cachedModels(ctx context.Context) (*Output, bool) {
	if h.cache == nil {
		return nil, false
	}
	var cached []carstore.CarModel
	hit, err := database.GetJSON(ctx, h.cache, modelsCacheKey, &cached)
	if err != nil {
		h.logger.Warn("model cache read failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	if !hit {
		return nil, false
	}
	return &Output{Data: cached, RowCount: len(cached), Cached: true}, true
}

func (h *Handler) carModels(ctx context.Context, _ *Input) (interface{}, int, error) {
	rows, err := h.catalogue.Models(ctx)
	if err != nil {
		return nil, 0, err
	}
	if h.cache != nil {
		if err := database.SetJSON(ctx, h.cache, modelsCacheKey, rows, h.config.CacheTTL); err != nil {
			h.logger.Warn("model cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return rows, len(rows), nil
}

func (h *Handler) modelVariants(ctx context.Context, input *Input) (interface{}, int, error) {
	rows, err := h.catalogue.Variants(ctx, input.ModelID)
	if err != nil {
		return nil, 0, err
	}
	return rows, len(rows), nil
}

func (h *Handler) variantDetails(ctx context.Context, input *Input) (interface{}, int, error) {
	rows, err := h.catalogue.VariantDetails(ctx, input.ModelID)
	if err != nil {
		return nil, 0, err
	}
	return rows, len(rows), nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
