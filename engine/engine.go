package engine

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nao1215/sqlkernel/internal/logger"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// DriverName is the database/sql driver the engine opens.
const DriverName = "sqlite"

// Mode is how a database file is opened.
type Mode string

const (
	// ModeReadWrite opens an existing file for reading and writing
	ModeReadWrite Mode = "rw"
	// ModeReadOnly opens an existing file for reading only
	ModeReadOnly Mode = "ro"
	// modeCreate creates the file; used only by Create
	modeCreate Mode = "rwc"
)

// ParseMode maps the %LOAD mode argument. RW (or nothing) is read-write and
// R is read-only.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "RW":
		return ModeReadWrite, nil
	case "R", "RO":
		return ModeReadOnly, nil
	default:
		return "", errors.WithHint(errors.Wrapf(ErrInvalidMode, "%q", s), "use RW or R")
	}
}

// String returns the mode keyword shown to users
func (m Mode) String() string {
	switch m {
	case ModeReadOnly:
		return "R"
	default:
		return "RW"
	}
}

// Database is a SQLite database backed by a file.
type Database struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	mode   Mode
	logger *zap.SugaredLogger
}

// New wraps an already opened *sql.DB. path is the backing file used by the
// header, backup and delete operations.
func New(db *sql.DB, path string, mode Mode, log *zap.SugaredLogger) *Database {
	return &Database{
		db:     db,
		path:   path,
		mode:   mode,
		logger: logger.OrGlobal(log),
	}
}

// Open loads an existing database file.
func Open(ctx context.Context, path string, mode Mode, log *zap.SugaredLogger) (*Database, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	if mode != ModeReadWrite && mode != ModeReadOnly {
		return nil, errors.Wrapf(ErrInvalidMode, "%q", mode)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(errors.Wrapf(ErrDatabaseNotFound, "%s", path),
				"create a new database with %CREATE <path>")
		}
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Wrapf(ErrInvalidPath, "%s is a directory", path)
	}
	return open(ctx, path, mode, log)
}

// Create makes a new, empty database file. It fails if the file exists.
func Create(ctx context.Context, path string, log *zap.SugaredLogger) (*Database, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, errors.WithHint(errors.Wrapf(ErrDatabaseExists, "%s", path),
			"open it with %LOAD <path> instead")
	}
	if dir := filepath.Dir(path); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.Wrapf(err, "parent directory of %s", path)
		}
	}

	d, err := open(ctx, path, modeCreate, log)
	if err != nil {
		return nil, err
	}
	d.mode = ModeReadWrite
	return d, nil
}

func open(ctx context.Context, path string, mode Mode, log *zap.SugaredLogger) (*Database, error) {
	dsn := "file:" + filepath.ToSlash(path) + "?mode=" + string(mode)
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	// Temp tables and pragmas are per connection; a notebook session needs one.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s", path)
	}
	// Reading the schema fails for files that are not SQLite databases.
	var count int
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&count); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "%s is not a usable SQLite database", path)
	}

	d := New(db, path, mode, log)
	d.logger.Infow("database opened", "path", path, "mode", mode.String(), "objects", count)
	return d, nil
}

// Path returns the backing file path.
func (d *Database) Path() string {
	return d.path
}

// Mode returns how the file was opened.
func (d *Database) Mode() Mode {
	return d.mode
}

// ReadOnly reports whether writes are rejected.
func (d *Database) ReadOnly() bool {
	return d.mode == ModeReadOnly
}

// DB returns the underlying handle, or nil once closed.
func (d *Database) DB() *sql.DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db
}

func (d *Database) handle() (*sql.DB, error) {
	db := d.DB()
	if db == nil {
		return nil, ErrClosed
	}
	return db, nil
}

// Close releases the connection. Closing twice is a no-op.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	if err != nil {
		return errors.Wrapf(err, "failed to close %s", d.path)
	}
	d.logger.Debugw("database closed", "path", d.path)
	return nil
}

// Delete closes the database and removes its file together with any journal
// or WAL side files.
func (d *Database) Delete() error {
	if d.ReadOnly() {
		return errors.WithHint(ErrReadOnly, "reload the database with %LOAD <path> RW")
	}
	if err := d.Close(); err != nil {
		return err
	}
	if err := os.Remove(d.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete %s", d.path)
	}
	for _, suffix := range []string{"-journal", "-wal", "-shm"} {
		if err := os.Remove(d.path + suffix); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to delete %s%s", d.path, suffix)
		}
	}
	d.logger.Infow("database deleted", "path", d.path)
	return nil
}
