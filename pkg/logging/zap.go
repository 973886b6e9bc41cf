package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects and configures a logger backend
type Config struct {
	// Level is the minimum log level
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// Format is "json" (JSONLogger) or "console" (zap console encoder)
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`

	// Output is stdout, stderr or a file path
	Output string `yaml:"output"`
}

// DefaultConfig logs JSON at info level to stderr
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}
}

// ZapLogger adapts a zap.Logger to the Logger interface
type ZapLogger struct {
	z *zap.Logger
}

// NewZapLogger wraps an existing zap logger
func NewZapLogger(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

// New builds the logger described by cfg
func New(cfg Config) (Logger, error) {
	level := ParseLevel(DefaultIfEmpty(cfg.Level, "info"))

	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	switch DefaultIfEmpty(cfg.Format, "json") {
	case "json":
		return NewJSONLogger(sink, level), nil
	case "console":
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(sink), zapLevel(level))
		return NewZapLogger(zap.New(core)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

func openSink(output string) (*os.File, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log output: %w", err)
		}
		return f, nil
	}
}

// DefaultIfEmpty returns def when s is empty
func DefaultIfEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}

func (l *ZapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, zapFields(fields)...) }
func (l *ZapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, zapFields(fields)...) }
func (l *ZapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, zapFields(fields)...) }
func (l *ZapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, zapFields(fields)...) }

// With creates a child logger with the given fields pre-set
func (l *ZapLogger) With(fields ...Field) Logger {
	return &ZapLogger{z: l.z.With(zapFields(fields)...)}
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync() error {
	return l.z.Sync()
}
