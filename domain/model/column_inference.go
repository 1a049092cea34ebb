package model

import (
	"strconv"
	"strings"
	"time"
)

// datetimeLayouts are the layouts a cell must parse with to count as a datetime.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"2.1.2006",
	"2.1.2006 15:04:05",
	"15:04:05",
	"15:04:05.000",
	"15:04",
}

// isDatetime checks if a string value represents a datetime
func isDatetime(value string) bool {
	// Every supported layout contains a separator; bare numbers are not dates.
	if !strings.ContainsAny(value, "-/.:") {
		return false
	}
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// InferColumnType infers the SQL column type from a slice of string values.
// Empty cells are ignored. Priority: TEXT > DATETIME > REAL > INTEGER.
func InferColumnType(values []string) ColumnType {
	var hasDatetime, hasReal, hasInteger bool

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			hasInteger = true
			continue
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			hasReal = true
			continue
		}
		if isDatetime(value) {
			hasDatetime = true
			continue
		}
		return ColumnTypeText
	}

	switch {
	case hasDatetime && (hasReal || hasInteger):
		return ColumnTypeText
	case hasDatetime:
		return ColumnTypeDatetime
	case hasReal:
		return ColumnTypeReal
	case hasInteger:
		return ColumnTypeInteger
	default:
		return ColumnTypeText
	}
}

// InferColumnsInfo infers column information from header and data records
func InferColumnsInfo(header Header, records []Record) []ColumnInfo {
	if len(header) == 0 {
		return nil
	}

	columns := make([]ColumnInfo, len(header))
	for i, name := range header {
		values := make([]string, 0, len(records))
		for _, record := range records {
			if i < len(record) {
				values = append(values, record[i])
			}
		}
		columns[i] = ColumnInfo{Name: name, Type: InferColumnType(values)}
	}
	return columns
}
