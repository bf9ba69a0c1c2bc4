package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"browser-keywords/internal/application/port/output"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	global atomic.Pointer[LoggerAdapter]
	once   sync.Once
)

type Options struct {
	Level string
	// Format is "console" (colorized) or "json".
	Format string
	// Dir receives a rotated JSON log file per run when set.
	Dir        string
	RunName    string
	MaxSizeMB  int
	MaxBackups int
}

// New builds a logger writing to stderr and, when Dir is set, to a rotated JSON file.
func New(opts Options) (*LoggerAdapter, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder(opts.Format), zapcore.Lock(os.Stderr), level)}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, FileName(opts.RunName, time.Now())),
			MaxSize:    max(opts.MaxSizeMB, 10),
			MaxBackups: opts.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(encoder("json"), zapcore.AddSync(file), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("keywords")
	return NewLoggerAdapter(l), nil
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	if format == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeName = zapcore.FullNameEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// Init installs the process logger once; later calls are no-ops.
func Init(opts Options) error {
	var err error
	once.Do(func() {
		var l *LoggerAdapter
		if l, err = New(opts); err == nil {
			global.Store(l)
		}
	})
	return err
}

// Get returns the process logger, or a no-op logger before Init.
func Get() output.LoggerPort {
	if l := global.Load(); l != nil {
		return l
	}
	return NewNop()
}

func NewNop() *LoggerAdapter {
	return NewLoggerAdapter(zap.NewNop())
}

// FileName is "<timestamp>_<run>.log" with the run name made safe for the filesystem.
func FileName(run string, at time.Time) string {
	return fmt.Sprintf("%s_%s.log", at.Format("2006-01-02_15-04-05"), sanitize(run))
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "run"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
