package sqlkernel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplete(t *testing.T) {
	t.Parallel()

	k, _ := newTestKernel(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		code      string
		cursor    int
		want      []string
		wantStart int
	}{
		{"magic keyword", "%LO", 3, []string{"%LOAD"}, 0},
		{"magic keyword lower case", "%is", 3, []string{"%IS_UNENCRYPTED"}, 0},
		{"chart keyword", "%XVEGA_PLOT X_F", 15, []string{"X_FIELD"}, 12},
		{"mark kind", "%XVEGA_PLOT MARK ci", 19, []string{"CIRCLE"}, 17},
		{"x field column", "%XVEGA_PLOT X_FIELD pr", 22, []string{"price"}, 20},
		{"y field column lower case", "%xvega_plot y_field q", 21, []string{"qty"}, 20},
		{"sql keyword", "SEL", 3, []string{"SELECT"}, 0},
		{"table name", "SELECT * FROM sa", 16, []string{"sales"}, 14},
		{"cursor mid line", "SELECT * FROM sa WHERE", 16, []string{"sales"}, 14},
		{"no word", "SELECT ", 7, []string{}, 7},
		{"cursor past end", "SEL", 99, []string{"SELECT"}, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reply := k.Complete(ctx, tt.code, tt.cursor)
			assert.Equal(t, tt.want, reply.Matches)
			assert.Equal(t, tt.wantStart, reply.CursorStart)
		})
	}
}

func TestComplete_WithoutDatabase(t *testing.T) {
	t.Parallel()

	reply := newEmptyKernel(t).Complete(context.Background(), "SELECT * FROM sa", 16)
	assert.Empty(t, reply.Matches)
	assert.Equal(t, 16, reply.CursorEnd)

	reply = newEmptyKernel(t).Complete(context.Background(), "%XVEGA_PLOT X_FIELD pr", 22)
	assert.Empty(t, reply.Matches)
}
