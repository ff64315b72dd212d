package lmbclust

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/lmbclust/lmbm"
)

// Logger wraps slog.Logger with clustering-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogRound logs a finished round. Rounds whose optimizer stopped early are
// logged as warnings.
func (l *Logger) LogRound(ctx context.Context, rec ResultRecord) {
	attrs := []any{
		"k", rec.K,
		"objective", rec.Objective,
		"status", rec.Status.String(),
		"iterations", rec.Iterations,
		"evaluations", rec.Evaluations,
		"elapsed", rec.Elapsed,
	}
	if rec.Status.Terminal() && rec.Status != lmbm.StatusConverged {
		l.WarnContext(ctx, "round finished early", append(attrs, "diagnostic", rec.Diagnostic)...)
		return
	}
	l.InfoContext(ctx, "round completed", attrs...)
}

// LogCompletion logs the end of a run.
func (l *Logger) LogCompletion(ctx context.Context, res *Result) {
	l.InfoContext(ctx, res.Summary(),
		"max_k", res.MaxK(),
		"stop_reason", res.StopReason.String(),
		"elapsed", res.Elapsed,
	)
}
