package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

type implLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New creates a zap-backed Logger. format is "json" or "console".
func New(level, format string) Logger {
	var zapConfig zap.Config
	switch strings.ToLower(format) {
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	atom, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		atom = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = atom

	l, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	return &implLogger{
		sugar: l.Sugar(),
		level: atom,
	}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &implLogger{
		sugar: zap.NewNop().Sugar(),
		level: zap.NewAtomicLevelAt(zap.FatalLevel),
	}
}

// WithSessionID tags ctx so log lines emitted under it carry the session id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// SessionID returns the id set by WithSessionID, if any.
func SessionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (l *implLogger) with(ctx context.Context) *zap.SugaredLogger {
	if id := SessionID(ctx); id != "" {
		return l.sugar.With("session_id", id)
	}
	return l.sugar
}

func (l *implLogger) enabled(lvl zapcore.Level) bool {
	return l.level.Enabled(lvl)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled(zap.DebugLevel) {
		l.with(ctx).Debugf(msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled(zap.InfoLevel) {
		l.with(ctx).Infof(msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled(zap.WarnLevel) {
		l.with(ctx).Warnf(msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled(zap.ErrorLevel) {
		l.with(ctx).Errorf(msg, args...)
	}
}

// Sync flushes buffered entries. Errors from stdout/stderr sync are ignored.
func Sync(l Logger) {
	if impl, ok := l.(*implLogger); ok {
		_ = impl.sugar.Sync()
	}
}
