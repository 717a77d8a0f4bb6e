package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelRouting(t *testing.T) {
	t.Cleanup(func() { SetDebug(false) })

	var stdout, stderr bytes.Buffer
	log := zap.New(newCore(zapcore.AddSync(&stdout), zapcore.AddSync(&stderr)))

	SetDebug(false)
	log.Debug("Building Adam optimizer.")
	log.Info("wrote image")
	log.Warn("slow")
	log.Error("Unsupported loss provided.")

	assert.NotContains(t, stdout.String(), "Building Adam optimizer.")
	assert.Contains(t, stdout.String(), "wrote image")
	assert.NotContains(t, stdout.String(), "slow")
	assert.Contains(t, stderr.String(), "slow")
	assert.Contains(t, stderr.String(), "Unsupported loss provided.")
	assert.NotContains(t, stderr.String(), "wrote image")

	SetDebug(true)
	log.Debug("Building SGD optimizer.")
	assert.Contains(t, stdout.String(), "Building SGD optimizer.")
}

func TestGetZapLogger(t *testing.T) {
	t.Cleanup(func() { SetDebug(false) })

	log, err := GetZapLogger(context.Background())
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	SetDebug(true)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel), "debug applies to existing loggers")
}

func TestSpanHook_NoSpan(t *testing.T) {
	hook := spanHook(context.Background())
	assert.NoError(t, hook(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "failed"}))
}
