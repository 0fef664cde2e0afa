package queryfuelprices

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"driveup-workers/internal/common/camunda"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
	"driveup-workers/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType  = "query-fuel-prices"
	pricesTbl = "fuel_prices"
)

var (
	psql       = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	fuelTypes  = map[string]bool{"petrol": true, "diesel": true}
	dateLayout = "2006-01-02"
)

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

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.reporter.Fail(context.Background(), client, job, err)
		return
	}

	h.reporter.Complete(context.Background(), client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	city := strings.ToLower(strings.TrimSpace(input.City))
	fuelType := strings.ToLower(strings.TrimSpace(input.FuelType))
	if fuelType == "" {
		fuelType = "petrol"
	}
	if city == "" {
		return nil, apperrors.NewInvalidInputError("city is required")
	}
	if !fuelTypes[fuelType] {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unsupported fuelType %q", input.FuelType))
	}

	days := input.Days
	if days <= 0 {
		days = h.config.DefaultDays
	}
	if days > h.config.MaxDays {
		days = h.config.MaxDays
	}

	prices, err := h.fetch(ctx, city, fuelType, days)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError(pricesTbl)
		}
		return nil, apperrors.NewFuelPriceQueryFailedError(err)
	}

	output := &Output{City: city, FuelType: fuelType, Prices: prices}
	if n := len(prices); n > 0 {
		latest := prices[n-1].Price
		output.LatestPrice = &latest
		if n > 1 {
			change := math.Round((latest-prices[n-2].Price)*100) / 100
			output.Change = &change
		}
	}

	if input.Trip != nil && output.LatestPrice != nil {
		if input.Trip.DistanceKm <= 0 {
			return nil, apperrors.NewInvalidInputError("trip.distanceKm must be positive")
		}
		mileage, ok := mileageFor(input.Trip)
		if !ok {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf(
				"unknown trip profile %s/%s", input.Trip.CarType, input.Trip.DrivingType))
		}
		output.TripEstimate = estimateTrip(input.Trip, mileage, *output.LatestPrice)
	}

	h.logger.Debug("fuel prices loaded", map[string]interface{}{
		"city":     city,
		"fuelType": fuelType,
		"points":   len(prices),
	})
	return output, nil
}

// fetch reads the newest rows and returns them oldest first.
func (h *Handler) fetch(ctx context.Context, city, fuelType string, days int) ([]models.FuelPricePoint, error) {
	query, args, err := psql.Select("price_date", "price").
		From(pricesTbl).
		Where(sq.Eq{"city": city, "fuel_type": fuelType}).
		OrderBy("price_date DESC").
		Limit(uint64(days)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var newestFirst []models.FuelPricePoint
	for rows.Next() {
		var (
			date  time.Time
			price float64
		)
		if err := rows.Scan(&date, &price); err != nil {
			return nil, fmt.Errorf("scan fuel price: %w", err)
		}
		newestFirst = append(newestFirst, models.FuelPricePoint{Date: date.Format(dateLayout), Price: price})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prices := make([]models.FuelPricePoint, len(newestFirst))
	for i, p := range newestFirst {
		prices[len(newestFirst)-1-i] = p
	}
	return prices, nil
}
