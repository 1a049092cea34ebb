package model

import "github.com/cockroachdb/errors"

var (
	// ErrDuplicateColumnName is returned when a file contains duplicate column names
	ErrDuplicateColumnName = errors.New("duplicate column name")

	// ErrUnsupportedFile is returned when a file extension is not importable
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrEmptyFile is returned when an imported file holds no header row
	ErrEmptyFile = errors.New("empty file")

	// ErrUnsupportedCompression is returned when a compression type cannot be used
	// in the requested direction (bzip2 is read-only)
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrInvalidHeader is returned when bytes do not hold a SQLite database header
	ErrInvalidHeader = errors.New("invalid database header")

	// ErrMarkKindUnset is returned when a mark attribute is applied before a kind is chosen
	ErrMarkKindUnset = errors.New("mark kind is not set")
)
