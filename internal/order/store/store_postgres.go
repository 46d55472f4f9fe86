package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront/internal/order/models"
	"storefront/internal/platform/database"
	"storefront/internal/sentinel"
	id "storefront/pkg/domain"
)

// PostgresStore persists orders in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const orderColumns = `order_id, user_id, product_id, qty, unit_price, total_price, created_at`

func (s *PostgresStore) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(order.ID), uuid.UUID(order.UserID), order.ProductID, order.Qty, order.UnitPrice, order.TotalPrice, createdAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("order already exists: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, orderID id.OrderID) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, uuid.UUID(orderID))
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		orderID, userID uuid.UUID
		order           models.Order
	)
	if err := row.Scan(&orderID, &userID, &order.ProductID, &order.Qty, &order.UnitPrice, &order.TotalPrice, &order.CreatedAt); err != nil {
		return nil, err
	}
	order.ID = id.OrderID(orderID)
	order.UserID = id.UserID(userID)
	order.CreatedAt = order.CreatedAt.UTC()
	return &order, nil
}
