// internal/workers/drivebot/query-drivebot-data/models.go
package querydrivebotdata

type Input struct {
	SQL string `json:"sql"`
}

type Output struct {
	Rows      []map[string]interface{} `json:"rows"`
	RowCount  int                      `json:"rowCount"`
	Truncated bool                     `json:"truncated"`
}
