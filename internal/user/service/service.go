package service

import (
	"log/slog"

	"storefront/internal/platform/metrics"
	"storefront/internal/platform/tracer"
	"storefront/pkg/platform/circuit"
)

// Service owns user accounts: signup, login and the aggregated user view.
type Service struct {
	users   UserStore
	orders  OrdersClient
	tokens  TokenIssuer
	breaker *circuit.Breaker
	tracer  tracer.Tracer
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithBreaker guards order lookups with b instead of the default breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

func New(users UserStore, orders OrdersClient, tokens TokenIssuer, opts ...Option) *Service {
	svc := &Service{
		users:  users,
		orders: orders,
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.NewNoop()
	}
	if svc.breaker == nil {
		svc.breaker = circuit.New("order-service")
	}
	return svc
}
