package skygo

import (
	"context"
	"log/slog"
	"os"

	"github.com/starhaven/skygo/healpix"
)

// Logger wraps slog.Logger with skygo-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithCatalog adds a catalog name field to the logger.
func (l *Logger) WithCatalog(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("catalog", name),
	}
}

// WithPixel adds order and pixel fields to the logger.
func (l *Logger) WithPixel(p healpix.Pixel) *Logger {
	return &Logger{
		Logger: l.Logger.With("order", p.Order, "pixel", p.Num),
	}
}

// LogLoad logs a catalog load.
func (l *Logger) LogLoad(ctx context.Context, name string, rows, partitions int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"catalog", name,
			"rows", rows,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"catalog", name,
			"rows", rows,
			"partitions", partitions,
		)
	}
}

// LogConeSearch logs cone search planning.
func (l *Logger) LogConeSearch(ctx context.Context, ra, dec, radius float64, candidates int) {
	l.DebugContext(ctx, "cone search planned",
		"ra", ra,
		"dec", dec,
		"radius", radius,
		"candidates", candidates,
	)
}

// LogCrossmatch logs crossmatch planning.
func (l *Logger) LogCrossmatch(ctx context.Context, left, right string, pairs int) {
	l.DebugContext(ctx, "crossmatch planned",
		"left", left,
		"right", right,
		"pairs", pairs,
	)
}

// LogRealize logs a completed realize step.
func (l *Logger) LogRealize(ctx context.Context, tasks, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "realize failed",
			"tasks", tasks,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "realize completed",
			"tasks", tasks,
			"rows", rows,
		)
	}
}
