package sqlkernel

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nao1215/sqlkernel/domain/model"
	"github.com/nao1215/sqlkernel/engine"
	"github.com/nao1215/sqlkernel/internal/logger"
)

// DefaultMaxRows is the number of result rows rendered when no limit is set.
const DefaultMaxRows = 1000

// KernelBuilder configures a Kernel. Use NewBuilder, chain the With and Add
// methods, then call Build to validate and Open to start the kernel.
//
//	builder, err := sqlkernel.NewBuilder().
//		WithDatabase("sales.db", engine.ModeReadWrite).
//		AddPath("orders.csv").
//		Build(ctx)
//	if err != nil {
//		return err
//	}
//	defer builder.Cleanup()
//
//	kernel, err := builder.Open(ctx)
//	if err != nil {
//		return err
//	}
//	defer kernel.Close()
type KernelBuilder struct {
	// db is an already opened database, used instead of dbPath
	db *engine.Database
	// dbPath is the database opened at start; empty starts without one
	dbPath string
	mode   engine.Mode
	// createIfMissing creates dbPath when it does not exist
	createIfMissing bool
	// paths are data files imported into the database on Open
	paths []string
	// filesystems are searched for data files to import on Open
	filesystems []fs.FS
	// collectedPaths contains all import paths after Build validation
	collectedPaths []string
	// tempFiles tracks temporary copies of fs.FS files for cleanup
	tempFiles []string
	maxRows   int
	html      bool
	logger    *zap.SugaredLogger
	built     bool
}

// NewBuilder creates a builder for a kernel without a database, rendering up
// to DefaultMaxRows rows as text only.
func NewBuilder() *KernelBuilder {
	return &KernelBuilder{
		mode:    engine.ModeReadWrite,
		maxRows: DefaultMaxRows,
	}
}

// WithDatabase opens the database file at path when the kernel starts.
func (b *KernelBuilder) WithDatabase(path string, mode engine.Mode) *KernelBuilder {
	b.dbPath = path
	b.mode = mode
	return b
}

// WithEngine starts the kernel on an already opened database. The kernel
// takes ownership and closes it.
func (b *KernelBuilder) WithEngine(db *engine.Database) *KernelBuilder {
	b.db = db
	return b
}

// CreateIfMissing creates the configured database file if it does not exist.
func (b *KernelBuilder) CreateIfMissing() *KernelBuilder {
	b.createIfMissing = true
	return b
}

// AddPath imports a data file, or every supported file below a directory,
// into the database when the kernel starts. Tables are named after the files.
func (b *KernelBuilder) AddPath(path string) *KernelBuilder {
	b.paths = append(b.paths, path)
	return b
}

// AddFS imports every supported file found in filesystem, such as an
// embed.FS, when the kernel starts. Files are copied to temporary files
// during Build; call Cleanup to remove them.
func (b *KernelBuilder) AddFS(filesystem fs.FS) *KernelBuilder {
	b.filesystems = append(b.filesystems, filesystem)
	return b
}

// WithMaxRows limits the rows rendered for a result. Zero renders every row.
func (b *KernelBuilder) WithMaxRows(n int) *KernelBuilder {
	b.maxRows = n
	return b
}

// WithHTML adds a text/html table to result bundles.
func (b *KernelBuilder) WithHTML(enabled bool) *KernelBuilder {
	b.html = enabled
	return b
}

// WithLogger sets the kernel logger. The global logger is used otherwise.
func (b *KernelBuilder) WithLogger(l *zap.SugaredLogger) *KernelBuilder {
	b.logger = l
	return b
}

// Build validates the configuration and stages fs.FS inputs. It must be
// called before Open.
func (b *KernelBuilder) Build(ctx context.Context) (*KernelBuilder, error) {
	if b.maxRows < 0 {
		return nil, errors.Wrapf(ErrInvalidMaxRows, "got %d", b.maxRows)
	}
	if b.mode != engine.ModeReadWrite && b.mode != engine.ModeReadOnly {
		return nil, errors.Wrapf(engine.ErrInvalidMode, "%q", b.mode)
	}
	if b.dbPath != "" {
		if err := engine.ValidatePath(b.dbPath); err != nil {
			return nil, err
		}
	}
	if b.db != nil && b.dbPath != "" {
		return nil, errors.New("sqlkernel: WithEngine and WithDatabase are mutually exclusive")
	}
	imports := len(b.paths) > 0 || len(b.filesystems) > 0
	if imports && b.dbPath == "" && b.db == nil {
		return nil, errors.WithHint(ErrNoInput, "imports need a database: call WithDatabase")
	}
	if imports && (b.mode == engine.ModeReadOnly || (b.db != nil && b.db.ReadOnly())) {
		return nil, errors.Wrap(engine.ErrReadOnly, "cannot import into a read-only database")
	}

	b.collectedPaths = nil
	for _, path := range b.paths {
		collected, err := collectPath(path)
		if err != nil {
			return nil, err
		}
		b.collectedPaths = append(b.collectedPaths, collected...)
	}

	for _, filesystem := range b.filesystems {
		if filesystem == nil {
			return nil, errors.New("FS cannot be nil")
		}
		paths, err := b.processFSInput(ctx, filesystem)
		if err != nil {
			return nil, errors.Wrap(err, "failed to process FS input")
		}
		b.collectedPaths = append(b.collectedPaths, paths...)
	}

	b.built = true
	return b, nil
}

// Open starts a kernel: it opens or creates the database and imports the
// collected files. On failure nothing is left open.
func (b *KernelBuilder) Open(ctx context.Context) (*Kernel, error) {
	if !b.built {
		return nil, errors.New("sqlkernel: builder not validated, did you call Build()?")
	}

	log := logger.OrGlobal(b.logger)
	k := &Kernel{
		renderer: tableRenderer{maxRows: b.maxRows, html: b.html},
		logger:   log,
	}
	if b.dbPath == "" && b.db == nil {
		return k, nil
	}

	db := b.db
	if db == nil {
		opened, err := b.openDatabase(ctx, log)
		if err != nil {
			return nil, errors.CombineErrors(err, b.cleanup())
		}
		db = opened
	}
	for _, path := range b.collectedPaths {
		if _, err := db.Import(ctx, path, ""); err != nil {
			closeErr := db.Close()
			return nil, errors.CombineErrors(
				NewErrorContext("import", db.Path()).WithDetails("file: "+path).Error(err),
				errors.CombineErrors(closeErr, b.cleanup()))
		}
	}
	k.db = db
	log.Infow("kernel started", "database", db.Path(), "mode", db.Mode().String(), "imports", len(b.collectedPaths))
	return k, nil
}

func (b *KernelBuilder) openDatabase(ctx context.Context, log *zap.SugaredLogger) (*engine.Database, error) {
	if b.createIfMissing {
		if _, err := os.Stat(b.dbPath); os.IsNotExist(err) {
			return engine.Create(ctx, b.dbPath, log)
		}
	}
	return engine.Open(ctx, b.dbPath, b.mode, log)
}

// collectPath expands a file or directory into supported data files.
func collectPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf("failed to load file: path does not exist: %s", path)
		}
		return nil, errors.Wrapf(err, "failed to stat path %s", path)
	}
	if !info.IsDir() {
		if !model.IsSupportedFile(path) {
			return nil, errors.Wrapf(model.ErrUnsupportedFile, "%s", path)
		}
		return []string{path}, nil
	}

	var paths []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && model.IsSupportedFile(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", path)
	}
	if len(paths) == 0 {
		return nil, errors.Newf("no supported files found in %s", path)
	}
	return paths, nil
}

// processFSInput copies all supported files from an fs.FS to temporary files
func (b *KernelBuilder) processFSInput(ctx context.Context, filesystem fs.FS) ([]string, error) {
	var matches []string
	err := fs.WalkDir(filesystem, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && model.IsSupportedFile(path) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk filesystem")
	}
	if len(matches) == 0 {
		return nil, errors.New("no supported files found in filesystem")
	}

	paths := make([]string, 0, len(matches))
	for _, match := range matches {
		tempPath, err := b.copyFSToTemp(ctx, filesystem, match)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to copy file %s", match)
		}
		paths = append(paths, tempPath)
	}
	return paths, nil
}

// copyFSToTemp copies a file from fs.FS into a private temporary directory.
// The base name is kept so the imported table is named after the file.
func (b *KernelBuilder) copyFSToTemp(_ context.Context, filesystem fs.FS, path string) (string, error) {
	file, err := filesystem.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to open FS file")
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "sqlkernel-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp dir")
	}
	b.tempFiles = append(b.tempFiles, dir)

	tempPath := filepath.Join(dir, filepath.Base(path))
	tempFile, err := os.Create(tempPath) //nolint:gosec // path is inside a fresh temp dir
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp file")
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, file); err != nil {
		return "", errors.Wrap(err, "failed to copy content")
	}
	return tempPath, nil
}

// cleanup removes temporary files and returns any errors
func (b *KernelBuilder) cleanup() error {
	var errs error
	for _, path := range b.tempFiles {
		if err := os.RemoveAll(path); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "failed to remove temp dir %s", path))
		}
	}
	b.tempFiles = nil
	return errs
}

// Cleanup removes the temporary copies made from fs.FS inputs. It is safe to
// call more than once.
func (b *KernelBuilder) Cleanup() error {
	return b.cleanup()
}
