package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// zerologLogger 基于 zerolog 的实现
type zerologLogger struct {
	zlog zerolog.Logger
}

// New 创建 zerolog 日志记录器，默认输出到 stderr
func New(opts ...Option) Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Console {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: cfg.TimeFormat}
	}

	zlog := zerolog.New(output).
		Level(toZerologLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
	return &zerologLogger{zlog: zlog}
}

func (l *zerologLogger) Debug(msg string, fields ...Field) {
	write(l.zlog.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...Field) {
	write(l.zlog.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...Field) {
	write(l.zlog.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...Field) {
	write(l.zlog.Error(), msg, fields)
}

func (l *zerologLogger) WithContext(ctx context.Context) Logger {
	fields := fieldsFromContext(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.WithFields(fields...)
}

func (l *zerologLogger) WithFields(fields ...Field) Logger {
	zctx := l.zlog.With()
	for _, f := range fields {
		zctx = addFieldToContext(zctx, f)
	}
	return &zerologLogger{zlog: zctx.Logger()}
}

// write 级别被关闭时 zerolog 返回 nil 事件，字段不会被处理
func write(event *zerolog.Event, msg string, fields []Field) {
	if event == nil {
		return
	}
	for _, f := range fields {
		addFieldToEvent(event, f)
	}
	event.Msg(msg)
}

func toZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case Disabled:
		return zerolog.Disabled
	}
	return zerolog.InfoLevel
}

func addFieldToEvent(event *zerolog.Event, field Field) {
	switch v := field.Value.(type) {
	case string:
		event.Str(field.Key, v)
	case int:
		event.Int(field.Key, v)
	case int64:
		event.Int64(field.Key, v)
	case bool:
		event.Bool(field.Key, v)
	case time.Duration:
		event.Dur(field.Key, v)
	case time.Time:
		event.Time(field.Key, v)
	case error:
		event.AnErr(field.Key, v)
	default:
		event.Interface(field.Key, v)
	}
}

func addFieldToContext(ctx zerolog.Context, field Field) zerolog.Context {
	switch v := field.Value.(type) {
	case string:
		return ctx.Str(field.Key, v)
	case int:
		return ctx.Int(field.Key, v)
	case int64:
		return ctx.Int64(field.Key, v)
	case bool:
		return ctx.Bool(field.Key, v)
	case time.Duration:
		return ctx.Dur(field.Key, v)
	case time.Time:
		return ctx.Time(field.Key, v)
	case error:
		return ctx.AnErr(field.Key, v)
	}
	return ctx.Interface(field.Key, field.Value)
}
