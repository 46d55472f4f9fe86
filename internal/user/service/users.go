package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/platform/tracer"
	"storefront/internal/sentinel"
	"storefront/internal/user/adapters/orders"
	"storefront/internal/user/models"
	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/requestcontext"
)

// ListUsers returns every registered user in registration order.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// GetUser loads a user and their orders. Order lookup is best effort: any
// failure yields the user with an empty, degraded order list instead of an error.
// A malformed userID is reported as not found.
func (s *Service) GetUser(ctx context.Context, rawUserID string) (*models.UserWithOrders, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGetUser, tracer.String(tracer.AttrUserID, rawUserID))
	var spanErr error
	defer func() { span.End(spanErr) }()

	userID, err := id.ParseUserID(rawUserID)
	if err != nil {
		spanErr = err
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		spanErr = err
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	result := s.lookupOrders(ctx, user.ID)
	span.SetAttributes(
		tracer.Bool(tracer.AttrDegraded, result.Degraded),
		tracer.Int(tracer.AttrOrderCount, len(result.Orders)),
	)
	if result.Degraded {
		span.SetAttributes(tracer.String(tracer.AttrDegradedReason, result.Reason))
	}
	return &models.UserWithOrders{User: user, Orders: result}, nil
}

func (s *Service) lookupOrders(ctx context.Context, userID id.UserID) models.OrdersResult {
	ctx, span := s.tracer.Start(ctx, tracer.SpanOrderLookup, tracer.String(tracer.AttrUserID, userID.String()))

	if !s.breaker.Allow() {
		span.AddEvent(tracer.EventCircuitOpen)
		span.End(nil)
		return s.degraded(ctx, userID, models.ReasonCircuitOpen, nil)
	}

	start := time.Now()
	list, err := s.orders.ListOrders(ctx, userID)
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveOrderLookupLatency(elapsed.Seconds())
	}
	span.SetAttributes(tracer.Duration(tracer.AttrLatency, elapsed))
	span.End(err)

	if err != nil {
		reason := degradedReason(err)
		// The caller walking away says nothing about order-service health.
		if reason != models.ReasonCanceled {
			if change := s.breaker.RecordFailure(); change.Opened {
				s.logger.WarnContext(ctx, "order-service circuit opened", "breaker", s.breaker.Name())
			}
		}
		return s.degraded(ctx, userID, reason, err)
	}

	if change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "order-service circuit closed", "breaker", s.breaker.Name())
	}
	return models.OrdersOK(list)
}

func (s *Service) degraded(ctx context.Context, userID id.UserID, reason string, err error) models.OrdersResult {
	if s.metrics != nil {
		s.metrics.IncrementOrderLookupDegraded(reason)
	}
	attrs := []any{
		"user_id", userID.String(),
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	s.logger.WarnContext(ctx, "order lookup degraded", attrs...)
	return models.OrdersDegraded(reason)
}

func degradedReason(err error) string {
	switch orders.Category(err) {
	case orders.ErrorTimeout:
		return models.ReasonTimeout
	case orders.ErrorCanceled:
		return models.ReasonCanceled
	case orders.ErrorBadStatus:
		return models.ReasonBadStatus
	case orders.ErrorBadData:
		return models.ReasonBadData
	default:
		return models.ReasonUnavailable
	}
}
