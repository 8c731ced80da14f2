package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	scierrors "github.com/YuminosukeSato/scitext/pkg/errors"
)

// ZerologLogger adapts zerolog.Logger to Logger.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger writes JSON lines to w at or above level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// NewConsoleLogger writes human-readable lines to w, for CLI use.
func NewConsoleLogger(w io.Writer, level Level) *ZerologLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	zl := zerolog.New(cw).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

func (l *ZerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *ZerologLogger) Error(msg string, fields ...any) {
	l.emit(l.zl.Error(), msg, fields)
}

// With returns a child logger carrying fields on every record.
func (l *ZerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		if err, ok := fields[i+1].(error); ok {
			ctx = ctx.AnErr(key, err)
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &ZerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return l.zl.GetLevel() <= toZerologLevel(level)
}

// Zerolog exposes the underlying logger.
func (l *ZerologLogger) Zerolog() zerolog.Logger {
	return l.zl
}

func (l *ZerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
			if m, ok := asObjectMarshaler(v); ok {
				e = e.Object(key+"_detail", m)
			}
		case string:
			e = e.Str(key, v)
		case int:
			e = e.Int(key, v)
		case int64:
			e = e.Int64(key, v)
		case float64:
			e = e.Float64(key, v)
		case bool:
			e = e.Bool(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

// asObjectMarshaler finds a typed error that knows how to marshal itself.
func asObjectMarshaler(err error) (zerolog.LogObjectMarshaler, bool) {
	var (
		shape    *scierrors.InputShapeError
		training *scierrors.TrainingError
		dim      *scierrors.DimensionMismatchError
		metric   *scierrors.UndefinedMetricError
		valid    *scierrors.ValidationError
	)
	switch {
	case scierrors.As(err, &shape):
		return shape, true
	case scierrors.As(err, &training):
		return training, true
	case scierrors.As(err, &dim):
		return dim, true
	case scierrors.As(err, &metric):
		return metric, true
	case scierrors.As(err, &valid):
		return valid, true
	}
	return nil, false
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ZerologProvider implements LoggerProvider on top of zerolog.
type ZerologProvider struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	logger *ZerologLogger
}

// NewZerologProvider creates a provider writing JSON lines to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	return &ZerologProvider{w: w, level: level, logger: NewZerologLogger(w, level)}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.logger
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.logger = &ZerologLogger{zl: p.logger.zl.Level(toZerologLevel(level))}
}

// InstallWarnHook routes errors.Warn through zl so warnings carry
// their structured fields.
func InstallWarnHook(zl zerolog.Logger) {
	scierrors.SetZerologWarnFunc(func(w error) {
		event := zl.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			event = event.EmbedObject(m)
		}
		event.Msg(w.Error())
	})
}
