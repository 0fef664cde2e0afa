package drivebot

import (
	"context"
	"database/sql"
	"fmt"

	"driveup-workers/internal/common/database"
)

// QueryRows runs a checked statement in a read-only transaction and decodes at
// most maxRows rows into column maps. truncated reports whether rows were cut.
func QueryRows(ctx context.Context, db *sql.DB, statement string, maxRows int) (rows []map[string]interface{}, truncated bool, err error) {
	stmt, err := CheckReadOnly(statement)
	if err != nil {
		return nil, false, err
	}

	rows = []map[string]interface{}{}
	err = database.RunReadOnly(ctx, db, func(tx *sql.Tx) error {
		result, err := tx.QueryContext(ctx, stmt)
		if err != nil {
			return err
		}
		defer result.Close()

		columns, err := result.Columns()
		if err != nil {
			return err
		}

		for result.Next() {
			if maxRows > 0 && len(rows) == maxRows {
				truncated = true
				break
			}
			values := make([]interface{}, len(columns))
			ptrs := make([]interface{}, len(columns))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := result.Scan(ptrs...); err != nil {
				return fmt.Errorf("scan row: %w", err)
			}

			row := make(map[string]interface{}, len(columns))
			for i, col := range columns {
				if b, ok := values[i].([]byte); ok {
					row[col] = string(b)
					continue
				}
				row[col] = values[i]
			}
			rows = append(rows, row)
		}
		return result.Err()
	})
	if err != nil {
		return nil, false, err
	}
	return rows, truncated, nil
}
