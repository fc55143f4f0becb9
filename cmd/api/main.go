// @title                       FitProof API
// @version                     1.0
// @description                 Gym workout sessions started from device QR codes, with per-set volume tracking.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/api"
	"github.com/mz310/FitProof/internal/api/handler"
	"github.com/mz310/FitProof/internal/api/middleware"
	"github.com/mz310/FitProof/internal/core/ports"
	"github.com/mz310/FitProof/internal/core/service"
	"github.com/mz310/FitProof/internal/infrastructure/config"
	"github.com/mz310/FitProof/internal/infrastructure/db/mongo"
	"github.com/mz310/FitProof/internal/infrastructure/db/redis"
	"github.com/mz310/FitProof/internal/infrastructure/db/sqldb"
	"github.com/mz310/FitProof/internal/infrastructure/events"
	"github.com/mz310/FitProof/internal/infrastructure/queue"
	"github.com/mz310/FitProof/internal/infrastructure/security"
	"github.com/mz310/FitProof/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "fitproof-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	if cfg.SeedDefaults {
		if err := service.SeedDefaults(ctx, store, hasher, log); err != nil {
			return err
		}
	}

	checks := map[string]handler.Check{"store": store.Ping}

	var (
		dedup   ports.IdempotencyStore
		limiter ports.RateLimiter
		backend = "memory"
	)
	rateCfg := cfg.RateLimit
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func(c *goredis.Client) { _ = c.Close() }(rdb)

		dedup = redis.NewIdempotencyStore(rdb, redis.DefaultIdempotencyTTL)
		limiter = redis.NewRateLimiter(rdb, redis.RateConfig{
			Capacity: rateCfg.Capacity,
			Refill:   rateCfg.Refill,
			Interval: rateCfg.Interval,
		})
		backend = "redis"
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else {
		limiter = middleware.NewMemoryLimiter(rateCfg.Capacity, rateCfg.Refill, rateCfg.Interval)
		log.Warn().Msg("REDIS_ADDR not set: idempotency keys disabled, rate limiting is per process")
	}

	publisher, err := events.New(ctx, events.Config{
		Driver:       cfg.Events.Driver,
		KafkaBrokers: cfg.Events.KafkaBrokers,
		AMQPURL:      cfg.Events.AMQPURL,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("closing event publisher")
		}
	}()

	// Session writes keep draining after the HTTP server stops accepting.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	serializer := queue.NewSerializer(cfg.SessionShards, log)
	serializer.Start(workerCtx)

	authSvc := service.NewAuthService(store.Users(), store.LoginEvents(), hasher, tokens, publisher, log)
	userSvc := service.NewUserService(store.Users(), hasher, log)
	sessionSvc := service.NewSessionService(store.Devices(), store.Sessions(), serializer, dedup, publisher, log)

	e := api.NewRouter(api.Deps{
		Auth:        authSvc,
		Users:       userSvc,
		Sessions:    sessionSvc,
		Tokens:      tokens,
		RateLimiter: limiter,
		Backend:     backend,
		Checks:      checks,
		Logger:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (ports.Store, error) {
	switch cfg.Driver {
	case config.StoreMongo:
		store, err := mongo.Open(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDB}, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorePostgres:
		db, err := sqldb.Open(ctx, sqldb.Config{Dialect: sqldb.DialectPostgres, DSN: cfg.PostgresDSN}, log)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		db, err := sqldb.Open(ctx, sqldb.Config{Dialect: sqldb.DialectSQLite, DSN: cfg.SQLitePath}, log)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}
