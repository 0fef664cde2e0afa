// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeCarModels      QueryType = "car_models"
	QueryTypeModelVariants  QueryType = "model_variants"
	QueryTypeVariantDetails QueryType = "variant_details"
)

// RequiresModelID reports whether the query is scoped to one car model.
func (q QueryType) RequiresModelID() bool {
	return q == QueryTypeModelVariants || q == QueryTypeVariantDetails
}
