package sqlkernel

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/nao1215/sqlkernel/engine"
)

func TestErrorContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ctx     *ErrorContext
		baseErr error
		want    string
	}{
		{
			name: "operation only",
			ctx:  NewErrorContext("load", ""),
			want: "load failed",
		},
		{
			name:    "database and cause",
			ctx:     NewErrorContext("load", "a.db"),
			baseErr: engine.ErrDatabaseNotFound,
			want:    "load failed, database: a.db: database file not found",
		},
		{
			name:    "all fields",
			ctx:     NewErrorContext("import", "a.db").WithTable("people").WithDetails("file: people.csv"),
			baseErr: engine.ErrTableExists,
			want:    "import failed, database: a.db, table: people, details: file: people.csv: table already exists",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.ctx.Error(tt.baseErr)
			assert.EqualError(t, err, tt.want)
			if tt.baseErr != nil {
				assert.True(t, errors.Is(err, tt.baseErr))
			}
		})
	}
}

func TestErrorContext_KeepsHints(t *testing.T) {
	t.Parallel()

	base := errors.WithHint(ErrNoDatabase, "load one first")
	err := NewErrorContext("query", "").Error(base)
	assert.Equal(t, []string{"load one first"}, errors.GetAllHints(err))
	assert.Equal(t, "NoDatabaseError", errorName(err))
}
