package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pfwidgets/internal/application/port/output"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

const logDir = "log"

type LoggerAdapter struct {
	sugar *zap.SugaredLogger
	close func()
}

// NewLoggerAdapter writes JSON lines to log/<timestamp>_<name>.log.
func NewLoggerAdapter(name string) (*LoggerAdapter, error) {
	return NewFileLogger(logDir, name)
}

func NewFileLogger(dir, name string) (*LoggerAdapter, error) {
	safeName := sanitize(name)
	filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), safeName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	ws, closeFile, err := zap.Open(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), ws, zapcore.DebugLevel)
	l := NewWithCore(core)
	l.close = closeFile
	return l, nil
}

// NewWithCore wraps an arbitrary zap core, e.g. an observer in tests.
func NewWithCore(core zapcore.Core) *LoggerAdapter {
	return &LoggerAdapter{sugar: zap.New(core).Sugar()}
}

func NewNopLogger() *LoggerAdapter {
	return &LoggerAdapter{sugar: zap.NewNop().Sugar()}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func (l *LoggerAdapter) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *LoggerAdapter) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *LoggerAdapter) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *LoggerAdapter) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &LoggerAdapter{sugar: l.sugar.With(key, value)}
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &LoggerAdapter{sugar: l.sugar.With(args...)}
}

// Close flushes and closes the log file. Derived loggers share the file and
// closing them is a no-op.
func (l *LoggerAdapter) Close() error {
	_ = l.sugar.Sync()
	if l.close != nil {
		l.close()
		l.close = nil
	}
	return nil
}

func sanitize(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	s = string(result)
	if s == "" {
		return "run"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
