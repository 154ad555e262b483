package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/oakline/shopcart-backend/api/routes"
	"github.com/oakline/shopcart-backend/internal/cart"
	"github.com/oakline/shopcart-backend/internal/checkout"
	"github.com/oakline/shopcart-backend/pkg/blob"
	"github.com/oakline/shopcart-backend/pkg/config"
	"github.com/oakline/shopcart-backend/pkg/db"
	"github.com/oakline/shopcart-backend/pkg/logger"
	"github.com/oakline/shopcart-backend/pkg/metrics"
	"github.com/oakline/shopcart-backend/pkg/migrate"
	"github.com/oakline/shopcart-backend/pkg/orderapi"
	"github.com/oakline/shopcart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	blobs, cleanup, err := buildBlobStore(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cart storage", err)
		os.Exit(1)
	}
	defer cleanup()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(registry)

	cartService, err := cart.NewService(blobs, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderClient, err := orderapi.New(cfg.OrderAPI)
	if err != nil {
		logg.Error(context.Background(), "failed to create order api client", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartService, orderClient, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Persistence.Normalized(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, blobs, cartService, checkoutService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildBlobStore wires the persistence backend named in config and returns a
// cleanup that closes whatever clients it opened.
func buildBlobStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (blob.Store, func(), error) {
	noop := func() {}

	switch cfg.Persistence.Normalized() {
	case config.BackendMemory:
		return blob.NewMemory(), noop, nil

	case config.BackendFile:
		store, err := blob.NewFile(cfg.Persistence.FileDir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	case config.BackendRedis:
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		store, err := blob.NewRedis(redisClient)
		if err != nil {
			redisClient.Close()
			return nil, noop, err
		}
		cleanup := func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}
		return store, cleanup, nil

	case config.BackendDatabase:
		dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
		if err != nil {
			return nil, noop, err
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			dbClient.Close()
			return nil, noop, err
		}
		store, err := blob.NewDatabase(dbClient)
		if err != nil {
			dbClient.Close()
			return nil, noop, err
		}
		cleanup := func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}
		return store, cleanup, nil
	}

	return nil, noop, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
}
