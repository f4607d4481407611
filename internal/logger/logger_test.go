package logger

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestInit(t *testing.T) {
	prev := log
	t.Cleanup(func() { log = prev })

	require.NoError(t, Init("debug", "json"))
	require.NoError(t, Init("info", "console"))
}

func TestKeyValueHelpers(t *testing.T) {
	prev := log
	t.Cleanup(func() { log = prev })

	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))

	Debug("d", "k", 1)
	Info("i", "order_id", int64(7))
	Warn("w")
	Error("e", "err", "boom")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "i", entries[1].Message)
	assert.Equal(t, int64(7), entries[1].ContextMap()["order_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}
