// Package logger wraps go.uber.org/zap behind the narrow surface the rest of
// the companion uses, the same way the teacher's core/logger wraps zap.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a structured, leveled logger. The zero value is not usable; call
// New.
type Logger struct {
	sugared *zap.SugaredLogger
}

var (
	defaultOnce sync.Once
	defaultLog  *Logger
)

// Default returns a process-wide production logger, built once.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLog = New(false)
	})
	return defaultLog
}

// New builds a Logger. In dev mode, output is human-readable console text at
// debug level; otherwise JSON at info level, matching the teacher's
// production/dev logger split.
func New(dev bool) *Logger {
	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stdout"}
	l, err := cfg.Build()
	if err != nil {
		// Logging itself is unavailable; fall back to a no-op-safe core
		// rather than panicking the process over a cosmetic failure.
		l = zap.NewNop()
		os.Stderr.WriteString("logger: failed to build zap config: " + err.Error() + "\n")
	}
	return &Logger{sugared: l.Sugar()}
}

func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{sugared: l.sugared.With(args...)}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.sugared.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.sugared.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.sugared.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugared.Errorf(format, args...) }

func (l *Logger) Debugw(msg string, kv ...interface{}) { l.sugared.Debugw(msg, kv...) }
func (l *Logger) Infow(msg string, kv ...interface{})  { l.sugared.Infow(msg, kv...) }
func (l *Logger) Warnw(msg string, kv ...interface{})  { l.sugared.Warnw(msg, kv...) }
func (l *Logger) Errorw(msg string, kv ...interface{}) { l.sugared.Errorw(msg, kv...) }

// Fatalf logs at fatal level and exits the process. Reserved for true
// invariant breaks (nonce overflow, and a resync that reaches the
// constructor event or exhausts EVM history without its target nonce) per
// spec §9 — never used for ordinary control flow.
func (l *Logger) Fatalf(format string, args ...interface{}) { l.sugared.Fatalf(format, args...) }

func (l *Logger) Sync() error { return l.sugared.Sync() }
