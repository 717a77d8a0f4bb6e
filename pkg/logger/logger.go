// Package logger provides the process-wide zap logger. Debug and info
// entries go to stdout, warnings and errors to stderr, and every entry is
// also recorded as an event on the span carried by the context.
package logger

import (
	"context"
	"os"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once  sync.Once
	core  zapcore.Core
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// SetDebug enables or disables the debug entries written by the builders.
// It takes effect immediately, also on loggers already handed out.
func SetDebug(enabled bool) {
	if enabled {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// newCore routes entries below warn, when enabled by the current level, to
// stdout and warn and above to stderr
func newCore(stdout, stderr zapcore.WriteSyncer) zapcore.Core {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	lowLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l < zapcore.WarnLevel
	})
	highLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.WarnLevel
	})

	return zapcore.NewTee(
		zapcore.NewCore(encoder, stdout, lowLevel),
		zapcore.NewCore(encoder.Clone(), stderr, highLevel),
	)
}

// spanHook records entries on the span of ctx. Errors also mark the span
// as failed.
func spanHook(ctx context.Context) func(zapcore.Entry) error {
	return func(entry zapcore.Entry) error {
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return nil
		}

		span.AddEvent("log", trace.WithAttributes(
			attribute.String("log.severity", entry.Level.String()),
			attribute.String("log.message", entry.Message),
		))
		if entry.Level >= zapcore.ErrorLevel {
			span.SetStatus(codes.Error, entry.Message)
		}
		return nil
	}
}

// GetZapLogger returns an instance of zap logger bound to the span of ctx
func GetZapLogger(ctx context.Context) (*zap.Logger, error) {
	once.Do(func() {
		core = newCore(zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr))
	})
	return zap.New(core, zap.Hooks(spanHook(ctx))), nil
}
