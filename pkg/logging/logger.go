// Package logging provides the JSON logger shared by every warehouse-ops
// binary. It is a thin layer over log/slog that stamps each line with the
// service identity and the request scope carried by the context.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel is the textual level read from configuration
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

func (l LogLevel) slog() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(string(l)))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Config holds logger configuration
type Config struct {
	Level       LogLevel
	ServiceName string
	Environment string
	Version     string
	Output      io.Writer
	AddSource   bool
}

// DefaultConfig returns an info level configuration. Environment and
// version come from ENVIRONMENT and VERSION.
func DefaultConfig(serviceName string) *Config {
	cfg := &Config{
		Level:       LevelInfo,
		ServiceName: serviceName,
		Environment: "development",
		Version:     "unknown",
		Output:      os.Stdout,
	}
	if env, ok := os.LookupEnv("ENVIRONMENT"); ok && env != "" {
		cfg.Environment = env
	}
	if version, ok := os.LookupEnv("VERSION"); ok && version != "" {
		cfg.Version = version
	}
	return cfg
}

// Logger is a slog.Logger with warehouse specific helpers
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger writing to cfg.Output
func New(cfg *Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       cfg.Level.slog(),
		AddSource:   cfg.AddSource,
		ReplaceAttr: utcTimestamps,
	})

	return &Logger{Logger: slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("version", cfg.Version),
	)}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))}
}

func utcTimestamps(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey || a.Value.Kind() != slog.KindTime {
		return a
	}
	return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339Nano))
}

func (l *Logger) derive(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithFields adds every key of fields to the logger
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return l.derive(args...)
}

// WithError adds err under the "error" key. A nil error is ignored.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.derive(slog.String("error", err.Error()))
}

// WithComponent tags lines with the emitting component
func (l *Logger) WithComponent(component string) *Logger {
	return l.derive(slog.String("component", component))
}

// WithRequestID tags lines with a request id
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.derive(slog.String("requestId", requestID))
}

// SetDefault installs the logger as the process wide slog default
func (l *Logger) SetDefault() {
	slog.SetDefault(l.Logger)
}
