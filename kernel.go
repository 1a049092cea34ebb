package sqlkernel

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nao1215/sqlkernel/command"
	"github.com/nao1215/sqlkernel/domain/model"
	"github.com/nao1215/sqlkernel/engine"
)

// Kernel identity reported by KernelInfo
const (
	Implementation        = "sqlkernel"
	ImplementationVersion = "0.1.0"
	LanguageName          = "sqlite"
	LanguageVersion       = "3"
	LanguageMIMEType      = "text/x-sqlite"
	LanguageExtension     = ".sql"
)

// Status is the outcome of one execution.
type Status string

// Execution statuses
const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// OutputType tells the front end how to present an output.
type OutputType string

// Output types
const (
	// OutputExecuteResult is the value of the cell, shown with its execution count
	OutputExecuteResult OutputType = "execute_result"
	// OutputDisplayData is a side output such as a chart or a status message
	OutputDisplayData OutputType = "display_data"
)

// Output is one piece of cell output.
type Output struct {
	Type OutputType
	Data Bundle
}

// ExecuteRequest is a cell to run.
type ExecuteRequest struct {
	Code string
	// Silent suppresses outputs and does not advance the execution count.
	Silent bool
}

// ErrorReply describes a failed cell.
type ErrorReply struct {
	EName     string
	EValue    string
	Traceback []string
}

// ExecuteReply is the result of running one cell. Outputs is empty when
// Status is StatusError.
type ExecuteReply struct {
	Status         Status
	ExecutionCount int
	Outputs        []Output
	Error          *ErrorReply
}

// LanguageInfo describes the cell language.
type LanguageInfo struct {
	Name          string
	Version       string
	MIMEType      string
	FileExtension string
}

// KernelInfo is the reply to a kernel_info request.
type KernelInfo struct {
	Implementation        string
	ImplementationVersion string
	LanguageInfo          LanguageInfo
	Banner                string
}

// Kernel executes notebook cells against one current SQLite database.
// Cells are serialized; a Kernel is safe for concurrent use.
type Kernel struct {
	mu             sync.Mutex
	db             *engine.Database
	renderer       tableRenderer
	logger         *zap.SugaredLogger
	executionCount int
	closed         bool
}

// Database returns the current database, or nil.
func (k *Kernel) Database() *engine.Database {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.db
}

// ExecutionCount returns the number of cells executed so far.
func (k *Kernel) ExecutionCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.executionCount
}

// Execute runs one cell. Errors never escape: they are reported in the reply
// and the kernel stays ready for the next cell.
func (k *Kernel) Execute(ctx context.Context, req ExecuteRequest) ExecuteReply {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !req.Silent {
		k.executionCount++
	}
	reply := ExecuteReply{Status: StatusOK, ExecutionCount: k.executionCount}

	outputs, err := k.execute(ctx, req.Code)
	if err != nil {
		k.logger.Warnw("cell failed", "execution_count", k.executionCount, "error", err)
		reply.Status = StatusError
		reply.Error = newErrorReply(err)
		return reply
	}
	if !req.Silent {
		reply.Outputs = outputs
	}
	k.logger.Debugw("cell executed", "execution_count", k.executionCount, "outputs", len(outputs))
	return reply
}

func (k *Kernel) execute(ctx context.Context, code string) ([]Output, error) {
	if k.closed {
		return nil, ErrKernelClosed
	}
	if strings.TrimSpace(command.Sanitize(code)) == "" {
		return nil, command.ErrEmptyInput
	}
	if command.IsMagic(code) {
		return k.executeMagic(ctx, command.Parse(code))
	}
	return k.executeSQL(ctx, code)
}

func (k *Kernel) executeSQL(ctx context.Context, sqlText string) ([]Output, error) {
	db, err := k.requireDatabase()
	if err != nil {
		return nil, err
	}
	table, err := db.Query(ctx, sqlText)
	if err != nil {
		return nil, NewErrorContext("query", db.Path()).Error(err)
	}
	bundle, err := k.renderer.render(table)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, nil
	}
	return []Output{{Type: OutputExecuteResult, Data: bundle}}, nil
}

func (k *Kernel) requireDatabase() (*engine.Database, error) {
	if k.db == nil {
		return nil, errors.WithHint(ErrNoDatabase,
			"load a database with %LOAD <path> or create one with %CREATE <path>")
	}
	return k.db, nil
}

// replaceDatabase makes db current and closes the previous one.
func (k *Kernel) replaceDatabase(db *engine.Database) {
	previous := k.db
	k.db = db
	if previous == nil || previous == db {
		return
	}
	if err := previous.Close(); err != nil {
		k.logger.Warnw("failed to close previous database", "path", previous.Path(), "error", err)
	}
}

// KernelInfo describes the kernel and its language.
func (k *Kernel) KernelInfo() KernelInfo {
	return KernelInfo{
		Implementation:        Implementation,
		ImplementationVersion: ImplementationVersion,
		LanguageInfo: LanguageInfo{
			Name:          LanguageName,
			Version:       LanguageVersion,
			MIMEType:      LanguageMIMEType,
			FileExtension: LanguageExtension,
		},
		Banner: "sqlkernel: SQLite with %XVEGA_PLOT charts",
	}
}

// IsComplete reports whether code can run as is. Every cell is a complete
// statement or command, so the answer is always "complete".
func (k *Kernel) IsComplete(string) string {
	return "complete"
}

// Close releases the current database. Later executions fail with
// ErrKernelClosed.
func (k *Kernel) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true
	if k.db == nil {
		return nil
	}
	err := k.db.Close()
	k.db = nil
	return err
}

// newErrorReply converts err into the error fields of a reply. Hints become
// extra traceback lines.
func newErrorReply(err error) *ErrorReply {
	traceback := []string{err.Error()}
	for _, hint := range errors.GetAllHints(err) {
		traceback = append(traceback, "hint: "+hint)
	}
	return &ErrorReply{
		EName:     errorName(err),
		EValue:    err.Error(),
		Traceback: traceback,
	}
}

func errorName(err error) string {
	var perr *command.ParseError
	switch {
	case errors.As(err, &perr):
		return "ParseError"
	case errors.Is(err, ErrNoDatabase):
		return "NoDatabaseError"
	case errors.Is(err, command.ErrEmptyInput):
		return "EmptyInputError"
	case errors.Is(err, ErrKernelClosed):
		return "KernelClosedError"
	case errors.Is(err, model.ErrUnsupportedFile):
		return "UnsupportedFileError"
	case errors.Is(err, engine.ErrQuery):
		return "SQLiteError"
	default:
		return "KernelError"
	}
}
