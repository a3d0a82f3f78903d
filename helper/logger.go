package helper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	topic   = "raket-service-log"
	service = "raket"
)

var (
	// no-op until InitLogger runs so packages stay usable from tests
	logger     = zap.NewNop()
	InitLogger = sync.OnceFunc(func() {
		level := zap.InfoLevel
		if envLevel, ok := os.LookupEnv("LOG_LEVEL"); ok && envLevel != "" {
			if parsed, err := zapcore.ParseLevel(envLevel); err == nil {
				level = parsed
			}
		}
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		logger = zap.Must(zap.Config{
			Level:             zap.NewAtomicLevelAt(level),
			Development:       false,
			DisableCaller:     true,
			DisableStacktrace: true,
			Sampling:          nil,
			Encoding:          "json",
			EncoderConfig:     encoderCfg,
			OutputPaths: []string{
				"stderr",
			},
			ErrorOutputPaths: []string{
				"stderr",
			},
			InitialFields: map[string]interface{}{},
		}.Build())
	})
)

func GetLogger() *zap.Logger {
	return logger
}

func logContext(_ context.Context, context, scope string) *zap.Logger {
	defer func() {
		_ = logger.Sync()
	}()
	fields := []zap.Field{
		zap.String("topic", topic),
		zap.String("context", context),
		zap.String("service", service),
	}
	if scope != "" {
		fields = append(fields, zap.String("scope", scope))
	}
	return logger.With(fields...)
}

func caller() []zap.Field {
	var name string
	pc, file, line, _ := runtime.Caller(2)
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}
	return []zap.Field{
		zap.String("func", name),
		zap.String("file", fmt.Sprintf("%s:%d", file, line)),
		zap.Int("line", line),
	}
}

func Log(ctx context.Context, level zapcore.Level, message, context, scope string) {
	entry := logContext(ctx, context, scope)
	switch level {
	case zap.DebugLevel:
		entry.Debug(message)
	case zap.InfoLevel:
		entry.Info(message)
	case zap.WarnLevel:
		entry.Warn(message)
	case zap.ErrorLevel:
		entry.Error(message, caller()...)
	case zap.FatalLevel:
		entry.Fatal(message)
	case zap.PanicLevel:
		entry.Panic(message)
	}
}

func Capture(ctx context.Context, level zapcore.Level, err error, context, scope string) {
	entry := logContext(ctx, context, scope)
	switch level {
	case zap.DebugLevel:
		entry.Debug(err.Error())
	case zap.InfoLevel:
		entry.Info(err.Error())
	case zap.WarnLevel:
		entry.Warn(err.Error())
	case zap.ErrorLevel:
		// a missing row is reported by the caller as not found
		if errors.Is(err, pgx.ErrNoRows) {
			return
		}
		entry.Error(err.Error(), caller()...)
	case zap.FatalLevel:
		entry.Fatal(err.Error())
	case zap.PanicLevel:
		entry.Panic(err.Error())
	}
}
