package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/kickoffhq/kickoff-client/internal/config"
	"github.com/kickoffhq/kickoff-client/internal/credstore"
	"github.com/kickoffhq/kickoff-client/pkg/database"
	"github.com/kickoffhq/kickoff-client/pkg/observability"
)

type Infrastructure interface {
	CredStore() credstore.Store
	Redis() *database.Redis
	Logger() *zap.Logger
	MetricsHandler() http.Handler
	MeterProvider() *metric.MeterProvider

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	credStore      credstore.Store
	redis          *database.Redis
	logger         *zap.Logger
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	credStore, redis, err := newCredStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}
	i.credStore = credStore
	i.redis = redis

	meterProvider, metricsHandler, err := observability.InitTelemetry("kickoff-client")
	if err != nil {
		if i.redis != nil {
			_ = i.redis.Close()
		}
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.meterProvider = meterProvider
	i.metricsHandler = metricsHandler

	return i, nil
}

// newCredStore builds the configured credential backend. The redis backend
// keys credentials by device id so several machines can share one server
// without sharing sessions.
func newCredStore(cfg config.Config) (credstore.Store, *database.Redis, error) {
	switch cfg.Credentials.Backend {
	case "redis":
		redis, err := database.NewRedis(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		store, err := credstore.NewRedisStore(redis, deviceID(cfg))
		if err != nil {
			_ = redis.Close()
			return nil, nil, err
		}
		return store, redis, nil
	default:
		path, err := cfg.Credentials.CredentialsPath()
		if err != nil {
			return nil, nil, err
		}
		store, err := credstore.NewFileStore(path, cfg.Credentials.Secret)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

// deviceID prefers the configured value, then the hostname so credentials
// survive restarts, then a random id as the last resort.
func deviceID(cfg config.Config) string {
	if cfg.Credentials.DeviceID != "" {
		return cfg.Credentials.DeviceID
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return uuid.NewString()
}

func (i *infrastructure) CredStore() credstore.Store {
	return i.credStore
}

func (i *infrastructure) Redis() *database.Redis {
	return i.redis
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) MetricsHandler() http.Handler {
	return i.metricsHandler
}

func (i *infrastructure) MeterProvider() *metric.MeterProvider {
	return i.meterProvider
}

func (i *infrastructure) Shutdown(ctx context.Context) error {
	errs := make(chan error, 3)

	go func() {
		if i.redis != nil {
			errs <- i.redis.Close()
			return
		}
		errs <- nil
	}()
	go func() { errs <- i.logger.Sync() }()
	go func() { errs <- observability.Shutdown(ctx, i.meterProvider, i.logger) }()

	return errors.Join(<-errs, <-errs, <-errs)
}
