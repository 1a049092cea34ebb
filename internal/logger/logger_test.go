package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		level      string
		wantErr    bool
	}{
		{name: "JSON output mode", jsonOutput: true, level: "info"},
		{name: "Console output mode", jsonOutput: false, level: "debug"},
		{name: "default level", jsonOutput: false, level: ""},
		{name: "unknown level", jsonOutput: true, level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous := Logger
			t.Cleanup(func() {
				Logger = previous
				JSONOutput = false
			})

			err := Initialize(tt.jsonOutput, tt.level)
			if tt.wantErr {
				require.Error(t, err)
				assert.Same(t, previous, Logger, "failed initialization keeps the old logger")
				return
			}
			require.NoError(t, err)
			assert.NotSame(t, previous, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	lvl, err = ParseLevel(" ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)
}

func TestOrGlobal(t *testing.T) {
	t.Parallel()

	own := zap.NewNop().Sugar()
	assert.Same(t, own, OrGlobal(own))
	assert.NotNil(t, OrGlobal(nil))
}
