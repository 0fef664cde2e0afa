package carstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"driveup-workers/internal/recommendation"

	sq "github.com/Masterminds/squirrel"
)

var ErrCandidateQueryFailed = errors.New("CANDIDATE_QUERY_FAILED")

const (
	variantsTable = "car_model_variants"
	pricesTable   = "car_model_variants_prices"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var variantColumns = []string{
	"variant_id",
	"model_id",
	"brand",
	"model",
	"variant",
	"body_type",
	"performance_and_fuel_economy_fuel_type",
	"engine_and_transmission_transmission",
	"engine_and_transmission_drive_type",
	"engine_and_transmission_10000_power",
	"interior_dimensions_seating_capacity",
	"interior_dimensions_boot_space",
	"safety_and_security_global_ncap_safety_rating",
	"safety_and_security_no_of_airbags",
	"adas_feature_automatic_emergency_braking",
	"safety_and_security_blind_spot_monitor",
	"adas_feature_blind_spot_collision_avoidance_assist",
	"safety_and_security_electronic_stability_program_esp",
	"safety_and_security_anti_lock_braking_system_abs",
	"comfort_and_convenience_sunroof",
}

// Store reads the car catalogue tables.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Pushdown carries exact-match constraints that can be evaluated by the
// database. The in-memory filter still runs afterwards.
type Pushdown struct {
	FuelType string
	BodyType string
	Brands   []string
}

func PushdownFor(prefs recommendation.UserPreferences) Pushdown {
	return Pushdown{
		FuelType: prefs.FuelType,
		BodyType: prefs.BodyType,
		Brands:   prefs.BrandPreference,
	}
}

// Candidates loads variants with their minimum resolved price.
func (s *Store) Candidates(ctx context.Context, pd Pushdown) ([]recommendation.CarVariant, error) {
	query := psql.Select(variantColumns...).From(variantsTable)
	if pd.FuelType != "" {
		query = query.Where(sq.Eq{"performance_and_fuel_economy_fuel_type": pd.FuelType})
	}
	if pd.BodyType != "" {
		query = query.Where(sq.Eq{"body_type": pd.BodyType})
	}
	if len(pd.Brands) > 0 {
		query = query.Where(sq.Eq{"brand": pd.Brands})
	}

	stmt, args, err := query.OrderBy("variant_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build variants query: %v", ErrCandidateQueryFailed, err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCandidateQueryFailed, err)
	}
	defer rows.Close()

	var variants []recommendation.CarVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan variant: %v", ErrCandidateQueryFailed, err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCandidateQueryFailed, err)
	}

	if len(variants) == 0 {
		return variants, nil
	}

	prices, err := s.minPrices(ctx, variants)
	if err != nil {
		return nil, err
	}
	for i := range variants {
		if p, ok := prices[variants[i].VariantID]; ok {
			price := p
			variants[i].Price = &price
		}
	}
	return variants, nil
}

func (s *Store) minPrices(ctx context.Context, variants []recommendation.CarVariant) (map[string]float64, error) {
	ids := make([]string, len(variants))
	for i, v := range variants {
		ids[i] = v.VariantID
	}

	stmt, args, err := psql.Select("variant_id", "ex_showroom_price").
		From(pricesTable).
		Where(sq.Eq{"variant_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build prices query: %v", ErrCandidateQueryFailed, err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCandidateQueryFailed, err)
	}
	defer rows.Close()

	labels := make(map[string][]string)
	for rows.Next() {
		var id string
		var label sql.NullString
		if err := rows.Scan(&id, &label); err != nil {
			return nil, fmt.Errorf("%w: scan price: %v", ErrCandidateQueryFailed, err)
		}
		if label.Valid {
			labels[id] = append(labels[id], label.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCandidateQueryFailed, err)
	}

	resolved := make(map[string]float64, len(labels))
	for id, ls := range labels {
		if p, ok := MinPrice(ls); ok {
			resolved[id] = p.InexactFloat64()
		}
	}
	return resolved, nil
}

func scanVariant(rows *sql.Rows) (recommendation.CarVariant, error) {
	var id, modelID string
	var brand, model, variant, bodyType, fuel sql.NullString
	var transmission, drive, power, seating, boot sql.NullString
	var ncap, airbags, aeb, bsm, bsca, esp, abs, sunroof sql.NullString
	if err := rows.Scan(
		&id, &modelID, &brand, &model, &variant, &bodyType, &fuel,
		&transmission, &drive, &power, &seating, &boot,
		&ncap, &airbags, &aeb, &bsm, &bsca, &esp, &abs, &sunroof,
	); err != nil {
		return recommendation.CarVariant{}, err
	}

	airbagCount, airbagsOK := parseAirbags(airbags.String)
	sunroofText := strings.TrimSpace(sunroof.String)

	v := recommendation.CarVariant{
		VariantID:        id,
		ModelID:          modelID,
		Brand:            brand.String,
		Model:            model.String,
		Variant:          variant.String,
		BodyType:         bodyType.String,
		FuelType:         fuel.String,
		TransmissionType: transmission.String,
		DriveType:        drive.String,

		HorsepowerBHP:   parseHorsepower(power.String),
		SeatingCapacity: parseLeadingInt(seating.String),
		BootSpaceLiters: parseLeadingInt(boot.String),

		NCAPRating:                     parseNCAP(ncap.String),
		AirbagCount:                    airbagCount,
		HasAutomaticEmergencyBraking:   isYes(aeb.String),
		HasBlindSpotMonitor:            isYes(bsm.String),
		HasBlindSpotCollisionAvoidance: isYes(bsca.String),
		HasElectronicStabilityProgram:  isYes(esp.String),
		HasAntiLockBrakes:              isYes(abs.String),
		SafetyAttributesParseFailed:    !airbagsOK,

		HasSunroof:  sunroofText != "",
		SunroofType: sunroofText,
	}
	v.AdditionalFeatures = recommendation.FeatureTags(v)
	return v, nil
}
