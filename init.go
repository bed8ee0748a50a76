package main

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/tournevent/pickpoint/internal/config"
	"github.com/tournevent/pickpoint/internal/telemetry"
	"github.com/tournevent/pickpoint/pkg/pickpoint"
	"github.com/tournevent/pickpoint/pkg/pickpoint/rediscache"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
	return shutdown, err
}

// initClient builds the PickPoint client. With Redis enabled the session
// token is shared through Redis; an unreachable server only costs extra logins.
func initClient(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (*pickpoint.Client, func()) {
	var opts []pickpoint.Option
	closeFn := func() {}

	if cfg.RedisEnabled {
		cache := rediscache.New(cfg.RedisAddr)
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, session tokens will not be shared",
				zap.String("addr", cfg.RedisAddr),
				zap.Error(err),
			)
		}
		opts = append(opts, pickpoint.WithTokenCache(cache))
		closeFn = func() { _ = cache.Close() }
	}

	tracer := otel.Tracer(cfg.ServiceName)
	return pickpoint.New(cfg.PickPoint(), logger, tracer, opts...), closeFn
}
