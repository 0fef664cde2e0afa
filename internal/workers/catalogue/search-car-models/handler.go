package searchcarmodels

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"driveup-workers/internal/common/camunda"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
)

const TaskType = "search-car-models"

type Handler struct {
	config   *Config
	esClient *elasticsearch.Client
	logger   logger.Logger
	reporter *camunda.JobReporter
}

func NewHandler(config *Config, esClient *elasticsearch.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		esClient: esClient,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidInputError("input cannot be nil")
	}
	if input.MinPrice != nil && input.MaxPrice != nil && *input.MinPrice > *input.MaxPrice {
		return nil, apperrors.NewInvalidInputError("minPrice is greater than maxPrice")
	}

	body, err := json.Marshal(buildQuery(input, h.size(input.Size)))
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}

	req := esapi.SearchRequest{
		Index: []string{h.config.Index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, h.esClient)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError(TaskType)
		}
		return nil, apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("search returned %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("decode response: %w", err))
	}

	results := make([]SearchResult, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		results = append(results, SearchResult{
			ModelID:       hit.Source.ModelID,
			Brand:         hit.Source.Brand,
			Model:         hit.Source.Model,
			BodyType:      hit.Source.BodyType,
			StartingPrice: hit.Source.StartingPrice,
			Score:         hit.Score,
		})
	}

	h.logger.Debug("search completed", map[string]interface{}{
		"query":     input.Query,
		"totalHits": parsed.Hits.Total.Value,
		"returned":  len(results),
	})

	return &Output{
		Results:   results,
		TotalHits: parsed.Hits.Total.Value,
		Took:      parsed.Took,
	}, nil
}

func (h *Handler) size(requested int) int {
	switch {
	case requested <= 0:
		return h.config.DefaultSize
	case requested > h.config.MaxSize:
		return h.config.MaxSize
	default:
		return requested
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
