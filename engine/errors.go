package engine

import "github.com/cockroachdb/errors"

var (
	// ErrQuery is matched by every failure reported by SQLite while running a query
	ErrQuery = errors.New("query failed")

	// ErrDatabaseExists is returned when creating a database over an existing file
	ErrDatabaseExists = errors.New("database file already exists")

	// ErrDatabaseNotFound is returned when loading a file that does not exist
	ErrDatabaseNotFound = errors.New("database file not found")

	// ErrInvalidMode is returned for an open mode other than RW or R
	ErrInvalidMode = errors.New("invalid open mode")

	// ErrReadOnly is returned when a write operation targets a read-only database
	ErrReadOnly = errors.New("database is opened read-only")

	// ErrClosed is returned when the database has been closed or deleted
	ErrClosed = errors.New("database is closed")

	// ErrTableExists is returned when an import would overwrite an existing table
	ErrTableExists = errors.New("table already exists")

	// ErrDestinationExists is returned when a backup target already exists
	ErrDestinationExists = errors.New("backup destination already exists")

	// ErrInvalidPath is returned when a path is empty or potentially dangerous
	ErrInvalidPath = errors.New("invalid or dangerous path")

	// ErrInvalidIdentifier is returned when an SQL identifier cannot be quoted safely
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")

	// ErrTooManyColumns is returned when an imported file has too many columns
	ErrTooManyColumns = errors.New("too many columns")

	// ErrFileTooLarge is returned when an imported file exceeds MaxFileSize
	ErrFileTooLarge = errors.New("file too large")
)
