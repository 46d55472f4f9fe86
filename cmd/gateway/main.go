package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/gateway"
	jwttoken "storefront/internal/jwt_token"
	"storefront/internal/platform/config"
	"storefront/internal/platform/health"
	"storefront/internal/platform/httpserver"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	"storefront/pkg/platform/middleware/metadata"
	"storefront/pkg/platform/middleware/request"
)

const serviceName = "gateway"

// main wires the edge validator in front of the prefix proxy and keeps the
// server lifecycle small. Business logic lives in the backend services.
func main() {
	cfg, err := config.LoadGateway()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("gateway stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Gateway, log *slog.Logger) error {
	log.Info("initializing gateway",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"user_service_url", cfg.UserServiceURL,
		"order_service_url", cfg.OrderServiceURL,
	)

	users, err := gateway.NewBackend("user-service", "/user-service", cfg.UserServiceURL)
	if err != nil {
		return err
	}
	orders, err := gateway.NewBackend("order-service", "/order-service", cfg.OrderServiceURL)
	if err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
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
		Health:         health.New(serviceName, cfg.Environment),
	})
	router.NotFound(gateway.NotFound)

	codec := jwttoken.NewCodec(cfg.Secret, cfg.TTL)
	if err := gateway.Register(router, gateway.Config{
		Backends:        []gateway.Backend{users, orders},
		OpenRoutes:      gateway.DefaultOpenRoutes,
		Verifier:        jwttoken.NewMiddlewareAdapter(codec),
		Logger:          log,
		Rejections:      m,
		UpstreamTimeout: cfg.RequestTimeout,
	}); err != nil {
		return err
	}

	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), cfg.ShutdownTimeout, log)
}
