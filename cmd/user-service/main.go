package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	jwttoken "storefront/internal/jwt_token"
	"storefront/internal/platform/config"
	"storefront/internal/platform/database"
	"storefront/internal/platform/health"
	"storefront/internal/platform/httpserver"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	"storefront/internal/platform/tracer"
	"storefront/internal/user/adapters/orders"
	"storefront/internal/user/handler"
	"storefront/internal/user/service"
	"storefront/internal/user/store"
	"storefront/migrations"
	"storefront/pkg/platform/circuit"
	"storefront/pkg/platform/middleware/metadata"
	"storefront/pkg/platform/middleware/request"
)

const serviceName = "user-service"

func main() {
	cfg, err := config.LoadUserService()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("user-service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.UserService, log *slog.Logger) error {
	log.Info("initializing user-service",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"order_service_url", cfg.OrderServiceURL,
		"token_ttl", cfg.TTL,
		"database", cfg.DatabaseURL != "",
	)

	healthHandler := health.New(serviceName, cfg.Environment)

	pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return err
	}
	defer pool.Close() //nolint:errcheck // process is exiting

	var users service.UserStore
	if pool != nil {
		if err := pool.Migrate(ctx, migrations.Users()); err != nil {
			return err
		}
		users = store.NewPostgres(pool.DB())
		healthHandler.RegisterCheck("database", pool.Health)
		log.Info("using postgres user store")
	} else {
		users = store.NewInMemory()
		log.Warn("USER_DATABASE_URL not set, using in-memory user store")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := service.New(
		users,
		orders.New(cfg.OrderServiceURL, orders.WithTimeout(cfg.OrderClientTimeout)),
		jwttoken.NewCodec(cfg.Secret, cfg.TTL),
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithTracer(tracer.NewOTel()),
		service.WithBreaker(circuit.New("order-service")),
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
	router.Get("/user-service/health_check", health.StatusText(serviceName, httpserver.Port(cfg.Addr)))
	handler.New(svc, log, m).Register(router)

	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), cfg.ShutdownTimeout, log)
}
