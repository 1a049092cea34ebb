package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/nao1215/sqlkernel/domain/model"
)

// NullText is how SQL NULL is shown in result tables.
const NullText = "NULL"

// Query runs sqlText and returns every row of its result. Statements that
// produce no columns return an empty table.
func (d *Database) Query(ctx context.Context, sqlText string) (*model.Table, error) {
	db, err := d.handle()
	if err != nil {
		return nil, err
	}

	d.logger.Debugw("executing query", "sql", SanitizeForLog(sqlText))
	rows, err := db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "query failed"), ErrQuery)
	}
	defer rows.Close()

	table, err := scanTable(rows)
	if err != nil {
		return nil, errors.Mark(err, ErrQuery)
	}
	d.logger.Debugw("query finished", "columns", len(table.Header()), "rows", table.Len())
	return table, nil
}

// scanTable drains rows into a table of formatted cells.
func scanTable(rows *sql.Rows) (*model.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read result columns")
	}

	var records []model.Record
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		record := make(model.Record, len(columns))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate rows")
	}
	return model.NewTable("", model.NewHeader(columns), records), nil
}

// formatValue renders a scanned driver value as text.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return NullText
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(val)
	}
}
