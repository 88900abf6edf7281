package slist

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with slist-specific helpers.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
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
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithList tags the logger with a list identifier.
func (l *Logger) WithList(id uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("list", id),
	}
}

// LogCreate logs list construction.
func (l *Logger) LogCreate(err error) {
	if err != nil {
		l.Error("list create failed", "error", err)
	} else {
		l.Debug("list created")
	}
}

// LogInsert logs an insert operation.
// op is one of "front", "end" or "at".
func (l *Logger) LogInsert(op string, index int, value uint32, err error) {
	if err != nil {
		l.Error("insert failed",
			"op", op,
			"index", index,
			"value", value,
			"error", err,
		)
	} else {
		l.Debug("insert completed",
			"op", op,
			"index", index,
			"value", value,
		)
	}
}

// LogRemove logs a remove operation.
func (l *Logger) LogRemove(index int, err error) {
	if err != nil {
		l.Error("remove failed",
			"index", index,
			"error", err,
		)
	} else {
		l.Debug("remove completed",
			"index", index,
		)
	}
}

// LogDestroy logs list teardown.
func (l *Logger) LogDestroy(nodes int, err error) {
	if err != nil {
		l.Error("destroy failed",
			"nodes", nodes,
			"error", err,
		)
	} else {
		l.Debug("list destroyed",
			"nodes", nodes,
		)
	}
}

// LogIterator logs iterator construction.
func (l *Logger) LogIterator(start int, err error) {
	if err != nil {
		l.Warn("iterator create failed",
			"start", start,
			"error", err,
		)
	} else {
		l.Debug("iterator created",
			"start", start,
		)
	}
}
