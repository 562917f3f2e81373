package telemetry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap records telemetry events as structured log entries. It satisfies the
// Telemetry interfaces of the ordering service and its commands.
type Zap struct {
	logger *zap.Logger
}

// NewZap wraps a logger. A nil logger discards events.
func NewZap(logger *zap.Logger) *Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zap{logger: logger.Named("telemetry")}
}

// Record logs the event with its payload as fields. Events whose name ends in
// ".error" or ".reverted" are logged at warn level.
func (z *Zap) Record(_ context.Context, event string, payload map[string]any) {
	fields := make([]zap.Field, 0, len(payload))
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, payload[k]))
	}
	z.logger.Check(levelFor(event), event).Write(fields...)
}

func levelFor(event string) zapcore.Level {
	if strings.HasSuffix(event, ".error") || strings.HasSuffix(event, ".reverted") {
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// NewLogger builds the production logger used by the binaries.
func NewLogger(level string, development bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("telemetry: log level: %w", err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("telemetry: build logger: %w", err)
	}
	return logger, nil
}
