package engine

import (
	"context"

	"github.com/cockroachdb/errors"
)

// TableExists reports whether a table or view called name exists.
func (d *Database) TableExists(ctx context.Context, name string) (bool, error) {
	db, err := d.handle()
	if err != nil {
		return false, err
	}

	var count int
	err = db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?",
		name,
	).Scan(&count)
	if err != nil {
		return false, errors.Wrapf(err, "failed to look up table %s", name)
	}
	return count > 0, nil
}

// Tables lists user tables and views in name order.
func (d *Database) Tables(ctx context.Context) ([]string, error) {
	db, err := d.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to scan table name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	return names, nil
}

// Columns lists the column names of table in declaration order.
func (d *Database) Columns(ctx context.Context, table string) ([]string, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	db, err := d.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get columns for table %s", table)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to scan column name")
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to get columns for table %s", table)
	}
	return columns, nil
}
