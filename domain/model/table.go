package model

import (
	"path/filepath"
	"strings"
)

// Table is a named grid of string cells. It holds both query results coming
// back from the engine and files read by %IMPORT.
type Table struct {
	// name is the table name; empty for ad-hoc query results.
	name string
	// header is table header.
	header Header
	// records is table records.
	records []Record
}

// NewTable create new Table.
func NewTable(
	name string,
	header Header,
	records []Record,
) *Table {
	return &Table{
		name:    name,
		header:  header,
		records: records,
	}
}

// Name return table name.
func (t *Table) Name() string {
	return t.name
}

// Header return table header.
func (t *Table) Header() Header {
	return t.header
}

// Records return table records.
func (t *Table) Records() []Record {
	return t.records
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// ColumnInfo infers a SQL type for every column from the records.
func (t *Table) ColumnInfo() []ColumnInfo {
	return InferColumnsInfo(t.header, t.records)
}

// Columns returns the column-oriented view: column name to its ordered cells.
// Short records contribute empty strings so every column has Len() cells.
func (t *Table) Columns() map[string][]string {
	columns := make(map[string][]string, len(t.header))
	for i, name := range t.header {
		values := make([]string, 0, len(t.records))
		for _, record := range t.records {
			if i < len(record) {
				values = append(values, record[i])
				continue
			}
			values = append(values, "")
		}
		columns[name] = values
	}
	return columns
}

// Rows returns one object per record keyed by column name.
func (t *Table) Rows() []map[string]string {
	rows := make([]map[string]string, 0, len(t.records))
	for _, record := range t.records {
		row := make(map[string]string, len(t.header))
		for i, name := range t.header {
			if i < len(record) {
				row[name] = record[i]
				continue
			}
			row[name] = ""
		}
		rows = append(rows, row)
	}
	return rows
}

// Truncate returns a table holding at most limit records and whether records
// were dropped. A non-positive limit keeps everything.
func (t *Table) Truncate(limit int) (*Table, bool) {
	if limit <= 0 || len(t.records) <= limit {
		return t, false
	}
	return NewTable(t.name, t.header, t.records[:limit]), true
}

// Equal compare Table.
func (t *Table) Equal(t2 *Table) bool {
	if t.Name() != t2.Name() {
		return false
	}
	if !t.header.Equal(t2.header) {
		return false
	}
	if len(t.Records()) != len(t2.Records()) {
		return false
	}
	for i, record := range t.Records() {
		if !record.Equal(t2.Records()[i]) {
			return false
		}
	}
	return true
}

// TableFromFilePath creates table name from file path
func TableFromFilePath(filePath string) string {
	fileName := filepath.Base(filePath)
	// Remove compression extensions first
	for _, ext := range []string{ExtGZ, ExtBZ2, ExtXZ, ExtZSTD} {
		if strings.HasSuffix(strings.ToLower(fileName), ext) {
			fileName = fileName[:len(fileName)-len(ext)]
			break
		}
	}
	// Then remove the file type extension
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
