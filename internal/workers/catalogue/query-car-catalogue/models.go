// internal/workers/catalogue/query-car-catalogue/models.go
package querycarcatalogue

import "driveup-workers/internal/models"

type Input struct {
	QueryType string `json:"queryType"`
	ModelID   string `json:"modelId,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
	Cached             bool        `json:"cached"`
}

type QueryType = models.QueryType

var (
	QueryTypeCarModels      = models.QueryTypeCarModels
	QueryTypeModelVariants  = models.QueryTypeModelVariants
	QueryTypeVariantDetails = models.QueryTypeVariantDetails
)
