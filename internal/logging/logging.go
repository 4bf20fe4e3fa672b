package logging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerContextKey struct{}

// Level values accepted by Setup. They mirror zapcore levels.
const (
	LevelDebug int8 = -1
	LevelInfo  int8 = 0
	LevelWarn  int8 = 1
	LevelError int8 = 2
)

var (
	once sync.Once

	globalZap  *zap.Logger
	globalLogr *logr.Logger

	noop = logr.Discard()
)

// Setup initializes the global JSON logger writing to stderr.
// Only the first call has an effect; later calls return the same logger.
func Setup(level int8, version string) *logr.Logger {
	once.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.MessageKey = "message"

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(os.Stderr),
			zap.NewAtomicLevelAt(zapcore.Level(level)),
		).With([]zapcore.Field{zap.String("version", version)})

		globalZap = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
		l := zapr.NewLogger(globalZap)
		globalLogr = &l
	})
	if globalLogr == nil {
		return &noop
	}
	return globalLogr
}

// ParseLevel maps a config level name to a Setup level. Unknown names map to info.
func ParseLevel(name string) int8 {
	switch name {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// WithLogger returns a context carrying log.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger stored in ctx, the global logger, or a
// discarding logger when Setup has not run.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	}
	return Global()
}

// Global returns the global logger or a discarding logger.
func Global() *logr.Logger {
	if globalLogr != nil {
		return globalLogr
	}
	return &noop
}

// Sync flushes buffered entries. Errors from syncing a terminal or pipe are ignored.
func Sync() {
	if globalZap == nil {
		return
	}
	if err := globalZap.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

func isIgnorableSyncError(err error) bool {
	return errors.Is(err, syscall.ENOTTY) ||
		errors.Is(err, syscall.EINVAL) ||
		errors.Is(err, syscall.EBADF)
}
