package carstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var ErrCatalogueQueryFailed = errors.New("CATALOGUE_QUERY_FAILED")

const catalogueTable = "car_final"

// CarModel is one row of the model listing. Field names follow the column
// names the browse pages already consume.
type CarModel struct {
	ModelID            string   `json:"model_id"`
	Model              string   `json:"model"`
	Brand              string   `json:"brand"`
	BodyType           string   `json:"body_type"`
	PrimaryImageURL    string   `json:"primary_image_url"`
	SecondaryImageURLs string   `json:"secondary_image_urls"`
	BrochureURL        string   `json:"brochure_url"`
	ColorOptions       string   `json:"color_options"`
	ColorImageURLs     string   `json:"color_image_urls"`
	BriefInfo          string   `json:"brief_info"`
	Rating             *float64 `json:"rating"`
	FuelOptions        string   `json:"fuel_options"`
	Fuel               string   `json:"fuel"`
	HP                 string   `json:"hp"`
	CC                 string   `json:"cc"`
	StartingPrice      *float64 `json:"starting_price"`
}

type ModelVariant struct {
	VariantID          string `json:"variant_id"`
	Variant            string `json:"variant"`
	BriefInfo          string `json:"brief_info"`
	ColorOptions       string `json:"color_options"`
	ColorImageURLs     string `json:"color_image_urls"`
	BrochureURL        string `json:"brochure_url"`
	PrimaryImageURL    string `json:"primary_image_url"`
	SecondaryImageURLs string `json:"secondary_image_urls"`
}

type VariantDetail struct {
	VariantID      string          `json:"variant_id"`
	Variant        string          `json:"variant"`
	Specifications json.RawMessage `json:"specifications"`
	Prices         json.RawMessage `json:"prices"`
}

var modelColumns = []string{
	"model_id", "model", "brand", "body_type", "primary_image_url", "secondary_image_urls",
	"brochure_url", "color_options", "color_image_urls", "brief_info",
	"CAST(rating AS FLOAT) AS rating", "fuel_options", "fuel", "hp", "cc",
	"CAST(starting_price AS FLOAT) AS starting_price",
}

var modelGroupBy = []string{
	"model_id", "model", "brand", "body_type", "primary_image_url", "secondary_image_urls",
	"brochure_url", "color_options", "color_image_urls", "brief_info",
	"CAST(rating AS FLOAT)", "fuel_options", "fuel", "hp", "cc", "CAST(starting_price AS FLOAT)",
}

// Models lists one row per car model, cheapest first.
func (s *Store) Models(ctx context.Context) ([]CarModel, error) {
	stmt, args, err := psql.Select(modelColumns...).
		From(catalogueTable).
		GroupBy(modelGroupBy...).
		OrderBy("starting_price").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueQueryFailed, err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueQueryFailed, err)
	}
	defer rows.Close()

	models := []CarModel{}
	for rows.Next() {
		var m CarModel
		var text [13]sql.NullString
		var rating, price sql.NullFloat64
		if err := rows.Scan(
			&m.ModelID, &text[0], &text[1], &text[2], &text[3], &text[4],
			&text[5], &text[6], &text[7], &text[8],
			&rating, &text[9], &text[10], &text[11], &text[12], &price,
		); err != nil {
			return nil, fmt.Errorf("%w: scan model: %v", ErrCatalogueQueryFailed, err)
		}
		m.Model, m.Brand, m.BodyType = text[0].String, text[1].String, text[2].String
		m.PrimaryImageURL, m.SecondaryImageURLs = text[3].String, text[4].String
		m.BrochureURL, m.ColorOptions, m.ColorImageURLs = text[5].String, text[6].String, text[7].String
		m.BriefInfo, m.FuelOptions, m.Fuel = text[8].String, text[9].String, text[10].String
		m.HP, m.CC = text[11].String, text[12].String
		m.Rating = nullFloat(rating)
		m.StartingPrice = nullFloat(price)
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueQueryFailed, err)
	}
	return models, nil
}

// Variants lists the trims of one model.
func (s *Store) Variants(ctx context.Context, modelID string) ([]ModelVariant, error) {
	stmt, args, err := psql.Select(
		"variant_id", "variant", "brief_info", "color_options", "color_image_urls",
		"brochure_url", "primary_image_url", "secondary_image_urls",
	).From(catalogueTable).Where(sq.Eq{"model_id": modelID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueQueryFailed, err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueQueryFailed, err)
	}
	defer rows.Close()

	variants := []ModelVariant{}
	for rows.Next() {
		var v ModelVariant
		var text [7]sql.NullString
		if err := rows.Scan(&v.VariantID, &text[0], &text[1], &text[2], &text[3], &text[4], &text[5], &text[6]); err != nil {
			return nil, fmt.Errorf("%w: scan variant: %v", ErrCatalogueQueryFailed, err)
		}
		v.Variant, v.BriefInfo, v.ColorOptions = text[0].String, text[1].String, text[2].String
		v.ColorImageURLs, v.BrochureURL = text[3].String, text[4].String
		v.PrimaryImageURL, v.SecondaryImageURLs = text[5].String, text[6].String
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueQueryFailed, err)
	}
	return variants, nil
}

// VariantDetails returns the specification and price documents of every trim
// of one model.
func (s *Store) VariantDetails(ctx context.Context, modelID string) ([]VariantDetail, error) {
	stmt, args, err := psql.Select("variant_id", "variant", "specifications", "prices").
		From(catalogueTable).
		Where(sq.Eq{"model_id": modelID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueQueryFailed, err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueQueryFailed, err)
	}
	defer rows.Close()

	details := []VariantDetail{}
	for rows.Next() {
		var d VariantDetail
		var variant sql.NullString
		var specs, prices []byte
		if err := rows.Scan(&d.VariantID, &variant, &specs, &prices); err != nil {
			return nil, fmt.Errorf("%w: scan variant details: %v", ErrCatalogueQueryFailed, err)
		}
		d.Variant = variant.String
		d.Specifications = asJSON(specs)
		d.Prices = asJSON(prices)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogueQueryFailed, err)
	}
	return details, nil
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// asJSON passes JSON documents through and quotes anything else as a string.
func asJSON(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(raw) {
		return json.RawMessage(append([]byte(nil), raw...))
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
