package wallet

import (
	"log/slog"
	"time"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordOperationResult(string, string)          {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                         {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                        {}

// LogMetricsCollector writes operation metrics as debug log lines.
type LogMetricsCollector struct {
	Log *slog.Logger
}

func (m *LogMetricsCollector) RecordOperationDuration(op string, d time.Duration) {
	m.Log.Debug("wallet operation timing", slog.String("operation", op), slog.Duration("duration", d))
}

func (m *LogMetricsCollector) RecordOperationResult(op, result string) {
	m.Log.Debug("wallet operation result", slog.String("operation", op), slog.String("result", result))
}

func (m *LogMetricsCollector) RecordCacheHit(key string) {
	m.Log.Debug("wallet cache hit", slog.String("key", key))
}

func (m *LogMetricsCollector) RecordCacheMiss(key string) {
	m.Log.Debug("wallet cache miss", slog.String("key", key))
}
