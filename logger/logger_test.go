package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/skilltree/sym"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput))
			assert.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.False(t, ShouldOutput(VerbosityUser, OutputHistory))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputHistory))
	assert.False(t, ShouldOutput(VerbosityInfo, OutputNormalize))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputDataDump))
	assert.Equal(t, "normalize", CategoryName(OutputNormalize))
	assert.Equal(t, "unknown", CategoryName(OutputCategory(99)))
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(ThemePlain)

	SetTheme(ThemeColor)
	assert.Equal(t, ThemeColor, CurrentTheme())

	SetTheme("neon")
	assert.Equal(t, ThemeColor, CurrentTheme(), "unknown theme must be ignored")
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger
	Logger = zap.New(core).Sugar()
	defer func() { Logger = prev }()

	ctx := WithTree(WithSessionID(context.Background(), "s-1"), "warrior")
	LoggerFromContext(ctx).Infow("opened")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "s-1", fields["session_id"])
	assert.Equal(t, "warrior", fields[FieldTree])
}

func TestLoggerFromContextWithoutFields(t *testing.T) {
	assert.Same(t, Logger, LoggerFromContext(context.Background()))
}

func TestAddSymbol(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := AddSymbol(zap.New(core).Sugar(), sym.Commit)

	l.Infow("committed", FieldCount, 3)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, sym.Commit, logs.All()[0].ContextMap()[FieldSymbol])
}
