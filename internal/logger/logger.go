package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the logging surface used across ngram. It hides slog so that
// packages can accept a logger without caring which handler backs it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

// Supported output formats for New.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatText   = "text"
)

type slogLogger struct {
	logger *slog.Logger
}

// FromHandler wraps an arbitrary slog handler.
func FromHandler(handler slog.Handler) Logger {
	return &slogLogger{logger: slog.New(handler)}
}

// New builds a logger for the named format. An unknown format is an error so
// that a typo on the command line does not silently change the output.
func New(w io.Writer, format string, level slog.Level) (Logger, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatPretty:
		return Pretty(w, level), nil
	case FormatJSON:
		return JSON(w, level), nil
	case FormatText:
		return Text(w, level), nil
	default:
		return nil, fmt.Errorf("logger: unknown format %q (want pretty, json or text)", format)
	}
}

// Default writes text records at info level to stderr.
func Default() Logger {
	return Text(os.Stderr, slog.LevelInfo)
}

// Discard drops every record.
func Discard() Logger {
	return FromHandler(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// JSON is meant for the server and anything scraped by a log collector.
func JSON(w io.Writer, level slog.Level) Logger {
	return FromHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
}

func Text(w io.Writer, level slog.Level) Logger {
	return FromHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Pretty writes coloured single-line records for interactive use.
func Pretty(w io.Writer, level slog.Level) Logger {
	return FromHandler(NewPrettyHandler(w, &slog.HandlerOptions{Level: level}))
}

type loggerKey struct{}

// WithContext stores the logger on ctx.
func WithContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored on ctx, or Default when there is none.
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return logger
	}
	return Default()
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{logger: l.logger.WithGroup(name)}
}

// ParseLevel maps a lowercase level name to a slog level. Anything it does
// not recognise is treated as info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
