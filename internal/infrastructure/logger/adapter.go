package logger

import (
	"browser-keywords/internal/application/port/output"

	"go.uber.org/zap"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

// LoggerAdapter exposes a sugared zap logger through the logger port.
type LoggerAdapter struct {
	sugar *zap.SugaredLogger
	base  *zap.Logger
}

func NewLoggerAdapter(l *zap.Logger) *LoggerAdapter {
	return &LoggerAdapter{sugar: l.Sugar(), base: l}
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
	return &LoggerAdapter{sugar: l.sugar.With(key, value), base: l.base}
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &LoggerAdapter{sugar: l.sugar.With(args...), base: l.base}
}

// Close flushes buffered entries. Sync errors on terminals are expected and ignored.
func (l *LoggerAdapter) Close() error {
	_ = l.base.Sync()
	return nil
}
