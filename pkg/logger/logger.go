package logger

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	levelMap = map[string]LogLevel{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"fatal": LevelFatal,
	}
	zapLevels = map[LogLevel]zapcore.Level{
		LevelDebug: zapcore.DebugLevel,
		LevelInfo:  zapcore.InfoLevel,
		LevelWarn:  zapcore.WarnLevel,
		LevelError: zapcore.ErrorLevel,
		LevelFatal: zapcore.FatalLevel,
	}
)

// Logger interface
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Fatal(format string, v ...interface{})
}

// logger implementation
type logger struct {
	level  zap.AtomicLevel
	format atomic.Value // string
	sugar  atomic.Pointer[zap.SugaredLogger]
}

var (
	instance *logger
	once     sync.Once
)

// ParseLevel maps a level name to a LogLevel. Unknown names fall back to info.
func ParseLevel(name string) (LogLevel, bool) {
	l, ok := levelMap[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return LevelInfo, false
	}
	return l, true
}

// GetLogger returns a singleton logger instance
func GetLogger() Logger {
	return get()
}

func get() *logger {
	once.Do(func() {
		level, _ := ParseLevel(os.Getenv("LOG_LEVEL"))
		instance = &logger{level: zap.NewAtomicLevelAt(zapLevels[level])}
		instance.setFormat(os.Getenv("LOG_FORMAT"))
	})
	return instance
}

// SetLogLevel sets the log level
func SetLogLevel(level string) {
	if l, ok := ParseLevel(level); ok {
		get().level.SetLevel(zapLevels[l])
	}
}

// SetFormat switches the encoding between "console" and "json".
// Unknown formats fall back to console.
func SetFormat(format string) {
	get().setFormat(format)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = get().sugar.Load().Sync()
}

func normalizeFormat(format string) string {
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		return "json"
	}
	return "console"
}

func (l *logger) setFormat(format string) {
	format = normalizeFormat(format)
	l.format.Store(format)
	l.sugar.Store(build(l.level, format))
}

func (l *logger) currentFormat() string {
	f, _ := l.format.Load().(string)
	return f
}

func build(level zap.AtomicLevel, format string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	if format != "json" {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		zl = zap.NewNop()
	}
	return zl.Sugar()
}

func (l *logger) Debug(format string, v ...interface{}) {
	l.sugar.Load().Debugf(format, v...)
}

func (l *logger) Info(format string, v ...interface{}) {
	l.sugar.Load().Infof(format, v...)
}

func (l *logger) Warn(format string, v ...interface{}) {
	l.sugar.Load().Warnf(format, v...)
}

func (l *logger) Error(format string, v ...interface{}) {
	l.sugar.Load().Errorf(format, v...)
}

func (l *logger) Fatal(format string, v ...interface{}) {
	l.sugar.Load().Fatalf(format, v...)
}
