package model

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestHeader_Equal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		h1   Header
		h2   Header
		want bool
	}{
		{"same headers", NewHeader([]string{"id", "name"}), NewHeader([]string{"id", "name"}), true},
		{"different order", NewHeader([]string{"id", "name"}), NewHeader([]string{"name", "id"}), false},
		{"different length", NewHeader([]string{"id"}), NewHeader([]string{"id", "name"}), false},
		{"both empty", NewHeader(nil), NewHeader([]string{}), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.h1.Equal(tt.h2))
		})
	}
}

func TestRecord_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, NewRecord([]string{"1", "a"}).Equal(NewRecord([]string{"1", "a"})))
	assert.False(t, NewRecord([]string{"1", "a"}).Equal(NewRecord([]string{"1", "b"})))
	assert.False(t, NewRecord([]string{"1"}).Equal(NewRecord([]string{"1", "a"})))
}

func TestColumnType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TEXT", ColumnTypeText.String())
	assert.Equal(t, "INTEGER", ColumnTypeInteger.String())
	assert.Equal(t, "REAL", ColumnTypeReal.String())
	assert.Equal(t, "TEXT", ColumnTypeDatetime.String())
}

func TestValidateColumnNames(t *testing.T) {
	t.Parallel()

	t.Run("unique names", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateColumnNames([]string{"id", "name", "age"}))
	})

	t.Run("duplicate after trimming", func(t *testing.T) {
		t.Parallel()
		err := ValidateColumnNames([]string{"id", "name", " id "})
		assert.True(t, errors.Is(err, ErrDuplicateColumnName))
	})
}
