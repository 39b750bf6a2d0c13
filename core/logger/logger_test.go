package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"JSON Info", Config{Level: "info", Format: "json"}},
		{"Console Debug", Config{Level: "debug", Format: "console"}},
		{"Warn Level", Config{Level: "warn", Format: "json"}},
		{"Unknown Level Falls Back", Config{Level: "loud", Format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_WarnLevelDropsInfo(t *testing.T) {
	l, err := New(&Config{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestWithRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithRun(base, "TRN", "run-1").Info("hello")
	WithRun(base, "TIR", "").Info("bye")

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "TRN", first["company"])
	assert.Equal(t, "run-1", first["run_id"])

	second := entries[1].ContextMap()
	assert.Equal(t, "TIR", second["company"])
	_, hasRun := second["run_id"]
	assert.False(t, hasRun)
}
