package sqlkernel

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNoDatabase is returned when a cell needs a database and none is loaded
	ErrNoDatabase = errors.New("sqlkernel: no database loaded")

	// ErrKernelClosed is returned by a kernel after Close
	ErrKernelClosed = errors.New("sqlkernel: kernel closed")

	// ErrMissingQuery indicates a chart command without a query after <>
	ErrMissingQuery = errors.New("sqlkernel: chart query missing")

	// ErrInvalidMaxRows indicates a negative row limit
	ErrInvalidMaxRows = errors.New("sqlkernel: max rows must not be negative")

	// ErrNoInput indicates a builder with nothing to open
	ErrNoInput = errors.New("sqlkernel: no database configured")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation    string
	DatabasePath string
	TableName    string
	Details      string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, databasePath string) *ErrorContext {
	return &ErrorContext{
		Operation:    operation,
		DatabasePath: databasePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error wraps baseErr with the recorded context. Hints and sentinels of
// baseErr survive the wrap.
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{ec.Operation + " failed"}
	if ec.DatabasePath != "" {
		parts = append(parts, "database: "+ec.DatabasePath)
	}
	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return errors.Wrapf(baseErr, "%s", context)
	}
	return errors.Newf("%s", context)
}
