package anndex

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with anndex-specific context: a build id field
// carried across the Fit/query lifecycle of one index.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithBuildID returns a Logger carrying buildID in every subsequent entry.
func (l *Logger) WithBuildID(buildID string) *Logger {
	return &Logger{Logger: l.Logger.With("build_id", buildID)}
}

// LogFit logs a Fit call.
func (l *Logger) LogFit(kind string, n int, err error) {
	if err != nil {
		l.Error("fit failed", "kind", kind, "rows", n, "error", err)
		return
	}
	l.Info("fit completed", "kind", kind, "rows", n)
}

// LogKNNQuery logs a KNNQuery call.
func (l *Logger) LogKNNQuery(kind string, k, found int, err error) {
	if err != nil {
		l.Error("knn query failed", "kind", kind, "k", k, "error", err)
		return
	}
	l.Debug("knn query completed", "kind", kind, "k", k, "found", found)
}

// LogRadiusQuery logs a RadiusQuery call.
func (l *Logger) LogRadiusQuery(kind string, found int, err error) {
	if err != nil {
		l.Error("radius query failed", "kind", kind, "error", err)
		return
	}
	l.Debug("radius query completed", "kind", kind, "found", found)
}
