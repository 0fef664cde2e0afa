package database

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"driveup-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchClient wraps the car model search cluster.
type ElasticsearchClient struct {
	Client      *elasticsearch.Client
	ModelsIndex string
}

// carModelsMapping matches the fields search-car-models queries: analysed
// text with keyword subfields for the term filters, and a numeric price.
const carModelsMapping = `{
	"mappings": {
		"properties": {
			"model_id":       {"type": "keyword"},
			"brand":          {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"model":          {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"body_type":      {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"fuel":           {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"brief_info":     {"type": "text"},
			"starting_price": {"type": "double"}
		}
	}
}`

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	index := cfg.ModelsIndex
	if index == "" {
		index = "car_models"
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es, ModelsIndex: index}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}
	return nil
}

// EnsureModelsIndex creates the car model index when it does not exist yet.
// An existing index is left untouched, whatever its mapping.
func (c *ElasticsearchClient) EnsureModelsIndex(ctx context.Context) (created bool, err error) {
	exists, err := c.Client.Indices.Exists([]string{c.ModelsIndex},
		c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", c.ModelsIndex, err)
	}
	exists.Body.Close()

	switch exists.StatusCode {
	case http.StatusOK:
		return false, nil
	case http.StatusNotFound:
	default:
		return false, fmt.Errorf("check index %s: %s", c.ModelsIndex, exists.Status())
	}

	res, err := c.Client.Indices.Create(c.ModelsIndex,
		c.Client.Indices.Create.WithBody(strings.NewReader(carModelsMapping)),
		c.Client.Indices.Create.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("create index %s: %w", c.ModelsIndex, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return false, fmt.Errorf("create index %s: %s", c.ModelsIndex, res.Status())
	}
	return true, nil
}
