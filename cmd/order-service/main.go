package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/order/handler"
	"storefront/internal/order/service"
	"storefront/internal/order/store"
	"storefront/internal/platform/config"
	"storefront/internal/platform/database"
	"storefront/internal/platform/health"
	"storefront/internal/platform/httpserver"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	"storefront/migrations"
	"storefront/pkg/platform/middleware/metadata"
	"storefront/pkg/platform/middleware/request"
)

const serviceName = "order-service"

func main() {
	cfg, err := config.LoadOrderService()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("order-service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.OrderService, log *slog.Logger) error {
	log.Info("initializing order-service",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"database", cfg.DatabaseURL != "",
	)

	healthHandler := health.New(serviceName, cfg.Environment)

	pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return err
	}
	defer pool.Close() //nolint:errcheck // process is exiting

	var orders service.OrderStore
	if pool != nil {
		if err := pool.Migrate(ctx, migrations.Orders()); err != nil {
			return err
		}
		orders = store.NewPostgres(pool.DB())
		healthHandler.RegisterCheck("database", pool.Health)
		log.Info("using postgres order store")
	} else {
		orders = store.NewInMemory()
		log.Warn("ORDER_DATABASE_URL not set, using in-memory order store")
	}

	svc := service.New(orders,
		service.WithLogger(log),
		service.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
	)

	trusted, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Service:        serviceName,
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		TrustedProxies: trusted,
		Gatherer:       prometheus.DefaultGatherer,
		Latency:        request.NewMetrics(prometheus.DefaultRegisterer, serviceName),
		Health:         healthHandler,
	})
	router.Get("/order-service/health_check", health.StatusText(serviceName, httpserver.Port(cfg.Addr)))
	handler.New(svc, log).Register(router)

	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), cfg.ShutdownTimeout, log)
}
