// Package logging owns the process-wide zap logger.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const application = "coffee-service"

type ctxKey struct{}

// Init builds the logger for env, installs it as the zap global and returns
// a flush func that syncs it and restores the previous globals. Callers
// must defer the flush.
func Init(env string) (*zap.Logger, func(), error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(
		zap.String("application", application),
		zap.String("environment", env),
	)

	undo := zap.ReplaceGlobals(logger)
	flush := func() {
		// Sync fails on console sinks such as /dev/stderr; nothing to do about it.
		_ = logger.Sync()
		undo()
	}

	return logger, flush, nil
}

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or the global logger when none
// was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.L()
}
