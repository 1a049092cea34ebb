// Package model provides the domain model shared by the kernel, the SQLite
// engine and the chart compiler: tabular results, imported files, chart
// specifications and the decoded database header.
package model

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Header is the ordered list of column names of a table.
type Header []string

// NewHeader create new Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Equal compare Header.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Record is one row of string cells.
type Record []string

// NewRecord create new Record.
func NewRecord(r []string) Record {
	return Record(r)
}

// Equal compare Record.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// ColumnType represents the SQL column type used when a table is created from
// an imported file.
type ColumnType int

const (
	// ColumnTypeText represents TEXT column type
	ColumnTypeText ColumnType = iota
	// ColumnTypeInteger represents INTEGER column type
	ColumnTypeInteger
	// ColumnTypeReal represents REAL column type
	ColumnTypeReal
	// ColumnTypeDatetime represents datetime stored as TEXT in ISO8601 format
	ColumnTypeDatetime
)

// String returns the SQL column type string
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeInteger:
		return "INTEGER"
	case ColumnTypeReal:
		return "REAL"
	default:
		// SQLite has no datetime storage class; ISO8601 text sorts correctly.
		return "TEXT"
	}
}

// ColumnInfo represents column information with name and inferred type
type ColumnInfo struct {
	Name string
	Type ColumnType
}

// ValidateColumnNames returns ErrDuplicateColumnName when two columns share a
// name after trimming whitespace.
func ValidateColumnNames(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		trimmed := strings.TrimSpace(col)
		if _, ok := seen[trimmed]; ok {
			return errors.Wrapf(ErrDuplicateColumnName, "column %q", col)
		}
		seen[trimmed] = struct{}{}
	}
	return nil
}
