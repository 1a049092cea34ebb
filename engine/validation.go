package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// MaxFileSize is the largest file %IMPORT accepts (1GB).
const MaxFileSize = 1024 * 1024 * 1024

// MaxColumnCount is the largest number of columns an imported table may have.
const MaxColumnCount = 2000

// systemDirs are never read or written by the kernel.
var systemDirs = []string{"/etc/", "/proc/", "/sys/", "/dev/", "/boot/"}

// ValidatePath rejects empty paths, NUL bytes, URI metacharacters and system
// directories.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.Wrap(ErrInvalidPath, "path is empty")
	}
	if strings.ContainsAny(path, "\x00?#") {
		return errors.Wrapf(ErrInvalidPath, "%q", path)
	}

	lower := strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
	for _, dir := range systemDirs {
		if strings.HasPrefix(lower+"/", dir) {
			return errors.Wrapf(ErrInvalidPath, "%s is a system directory", path)
		}
	}
	return nil
}

// ValidateIdentifier checks that name can be used inside [brackets].
func ValidateIdentifier(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Wrap(ErrInvalidIdentifier, "identifier is empty")
	}
	if strings.ContainsAny(name, "[]\x00") {
		return errors.Wrapf(ErrInvalidIdentifier, "%q", name)
	}
	return nil
}

// ValidateColumnCount checks if the number of columns is within acceptable limits
func ValidateColumnCount(columnCount int) error {
	if columnCount > MaxColumnCount {
		return errors.Wrapf(ErrTooManyColumns, "%d columns, limit is %d", columnCount, MaxColumnCount)
	}
	return nil
}

// ValidateFileSize checks the size of the file at path.
func ValidateFileSize(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", path)
	}
	if info.Size() > MaxFileSize {
		return errors.Wrapf(ErrFileTooLarge, "%s is %d bytes", path, info.Size())
	}
	return nil
}

// SanitizeForLog shortens SQL text before it is logged.
func SanitizeForLog(input string) string {
	const maxLogLength = 200
	input = strings.Join(strings.Fields(input), " ")
	if len(input) > maxLogLength {
		return input[:maxLogLength] + "..."
	}
	return input
}

func quoteIdentifier(name string) string {
	return "[" + name + "]"
}
