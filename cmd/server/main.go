package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/curvaqz/curvaqz/internal/cache"
	"github.com/curvaqz/curvaqz/internal/config"
	"github.com/curvaqz/curvaqz/internal/cookie"
	"github.com/curvaqz/curvaqz/internal/handler"
	"github.com/curvaqz/curvaqz/internal/logger"
	"github.com/curvaqz/curvaqz/internal/postgres"
	"github.com/curvaqz/curvaqz/internal/quizapi"
	"github.com/curvaqz/curvaqz/internal/redis"
	"github.com/curvaqz/curvaqz/internal/server"
	"github.com/curvaqz/curvaqz/internal/session"
	"github.com/curvaqz/curvaqz/internal/token"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pool, err := postgres.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, cfg.Postgres, log); err != nil {
		return err
	}

	checks := map[string]handler.HealthCheck{
		"postgres": postgres.Healthcheck(pool),
	}

	// The cache is a latency optimization, never a correctness dependency.
	// An unreachable or unconfigured redis degrades to direct upstream fetches.
	var kv cache.KeyValue
	if cfg.Redis.ConnectionURL != "" {
		redisClient, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, running without cache", logger.Error(err))
		} else {
			defer redisClient.Close()
			kv = cache.NewRedisStore(redisClient)
			checks["redis"] = redis.Healthcheck(redisClient)
		}
	} else {
		log.Info("no redis configured, running without cache")
	}

	cacheClient := cache.New(kv, cfg.Cache, log)

	apiClient, err := quizapi.New(cfg.QuizAPI, cacheClient)
	if err != nil {
		return err
	}

	store := postgres.NewStore(pool, log)
	issuer := token.NewIssuer(cfg.Token)
	cookies := cookie.New()
	gateway := session.NewGateway(store, issuer, cookies)

	h := handler.New(gateway, store, apiClient, checks, log)
	srv := server.New(cfg.Server, log)

	return srv.Start(ctx, h.Router())
}
