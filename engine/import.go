package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nao1215/sqlkernel/domain/model"
)

// ImportResult describes a table created by Import.
type ImportResult struct {
	Table   string
	Rows    int
	Columns []model.ColumnInfo
}

// Import loads a CSV, TSV, LTSV, XLSX or Parquet file (delimited files may be
// compressed) into a new table. An empty table name is derived from the file
// name. Column types are inferred from the data.
func (d *Database) Import(ctx context.Context, path, table string) (*ImportResult, error) {
	if d.ReadOnly() {
		return nil, errors.WithHint(ErrReadOnly, "reload the database with %LOAD <path> RW")
	}
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	if err := ValidateFileSize(path); err != nil {
		return nil, err
	}
	file := model.NewFile(path)
	if file.Type() == model.FileTypeUnsupported {
		return nil, errors.WithHint(errors.Wrapf(model.ErrUnsupportedFile, "%s", path),
			"supported files are .csv, .tsv, .ltsv (optionally .gz, .bz2, .xz, .zst), .xlsx and .parquet")
	}

	data, err := file.ToTable(ctx, table)
	if err != nil {
		return nil, err
	}
	if err := ValidateIdentifier(data.Name()); err != nil {
		return nil, err
	}
	for _, column := range data.Header() {
		if err := ValidateIdentifier(column); err != nil {
			return nil, errors.Wrapf(err, "column of %s", path)
		}
	}
	if err := ValidateColumnCount(len(data.Header())); err != nil {
		return nil, err
	}

	exists, err := d.TableExists(ctx, data.Name())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.WithHint(errors.Wrapf(ErrTableExists, "%s", data.Name()),
			"pass a different table name: %IMPORT <file> <table>")
	}

	columns := data.ColumnInfo()
	if err := d.loadTable(ctx, data, columns); err != nil {
		return nil, err
	}
	d.logger.Infow("file imported",
		"path", path,
		"table", data.Name(),
		"rows", data.Len(),
		"format", file.Type().String(),
		"compression", file.Compression().String())
	return &ImportResult{Table: data.Name(), Rows: data.Len(), Columns: columns}, nil
}

// loadTable creates the table and inserts every record in one transaction.
func (d *Database) loadTable(ctx context.Context, table *model.Table, columns []model.ColumnInfo) (err error) {
	db, err := d.handle()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin import transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, buildCreateTableQuery(table.Name(), columns)); err != nil {
		return errors.Wrapf(err, "failed to create table %s", table.Name())
	}
	if err = insertRecords(ctx, tx, table, columns); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit import")
	}
	return nil
}

// buildCreateTableQuery constructs a CREATE TABLE query for the given columns
func buildCreateTableQuery(name string, columns []model.ColumnInfo) string {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdentifier(col.Name), col.Type.String()))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdentifier(name), strings.Join(defs, ", "))
}

// buildInsertQuery constructs an INSERT query for the given table
func buildInsertQuery(name string, columnCount int) string {
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdentifier(name), buildPlaceholders(columnCount))
}

// buildPlaceholders creates placeholder string for prepared statements
func buildPlaceholders(count int) string {
	if count == 0 {
		return ""
	}
	return "?" + strings.Repeat(", ?", count-1)
}

func insertRecords(ctx context.Context, tx *sql.Tx, table *model.Table, columns []model.ColumnInfo) error {
	if table.Len() == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, buildInsertQuery(table.Name(), len(columns)))
	if err != nil {
		return errors.Wrapf(err, "failed to prepare insert into %s", table.Name())
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for i, record := range table.Records() {
		for j, col := range columns {
			args[j] = cellValue(record, j, col.Type)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.Wrapf(err, "failed to insert record %d into %s", i+1, table.Name())
		}
	}
	return nil
}

// cellValue maps an empty cell of a numeric column to NULL so type affinity
// does not store it as text.
func cellValue(record model.Record, index int, columnType model.ColumnType) any {
	if index >= len(record) {
		return nil
	}
	value := record[index]
	if value == "" && (columnType == model.ColumnTypeInteger || columnType == model.ColumnTypeReal) {
		return nil
	}
	return value
}
