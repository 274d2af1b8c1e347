package logger

import (
	"context"
	"io"
	"time"
)

// LogLevel 日志级别
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	// Disabled 关闭所有日志
	Disabled
)

// Field 结构化日志字段
type Field struct {
	Key   string
	Value any
}

// Logger 日志接口，查询执行链和命令行都只依赖这个接口
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithContext 带上 NewContext 放进 ctx 的字段
	WithContext(ctx context.Context) Logger
	// WithFields 返回附带固定字段的新 Logger
	WithFields(fields ...Field) Logger
}

type Option func(*LogConfig)

type LogConfig struct {
	Level      LogLevel
	Output     io.Writer
	TimeFormat string
	// Console 输出便于阅读的文本而不是 JSON
	Console bool
}

func WithLevel(level LogLevel) Option {
	return func(cfg *LogConfig) {
		cfg.Level = level
	}
}

func WithOutput(w io.Writer) Option {
	return func(cfg *LogConfig) {
		cfg.Output = w
	}
}

func WithTimeFormat(format string) Option {
	return func(cfg *LogConfig) {
		cfg.TimeFormat = format
	}
}

func WithConsole() Option {
	return func(cfg *LogConfig) {
		cfg.Console = true
	}
}

func defaultConfig() *LogConfig {
	return &LogConfig{
		Level:      InfoLevel,
		TimeFormat: time.RFC3339,
	}
}

// ParseLevel 把配置中的级别名转换为 LogLevel，无法识别时返回 InfoLevel
func ParseLevel(name string) LogLevel {
	switch name {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "disabled", "off":
		return Disabled
	}
	return InfoLevel
}

type ctxKey struct{}

// NewContext 把字段放进 ctx，之后通过 WithContext 取出
func NewContext(ctx context.Context, fields ...Field) context.Context {
	prev, _ := ctx.Value(ctxKey{}).([]Field)
	merged := make([]Field, 0, len(prev)+len(fields))
	merged = append(merged, prev...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func fieldsFromContext(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]Field)
	return fields
}

func String(key string, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// FieldError 错误字段，key 固定为 error
func FieldError(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

var defaultLogger Logger = New()

func Default() Logger {
	return defaultLogger
}

func SetDefault(l Logger) {
	if l != nil {
		defaultLogger = l
	}
}

type nopLogger struct{}

// Nop 丢弃所有日志
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...Field)               {}
func (nopLogger) Info(string, ...Field)                {}
func (nopLogger) Warn(string, ...Field)                {}
func (nopLogger) Error(string, ...Field)               {}
func (n nopLogger) WithContext(context.Context) Logger { return n }
func (n nopLogger) WithFields(...Field) Logger         { return n }
