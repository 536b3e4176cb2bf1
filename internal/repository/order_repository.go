package repository

import (
	"context"
	"fmt"

	"gitlab.com/napatw/pantry-bot/internal/database"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

// OrderRepository handles order database operations.
type OrderRepository struct {
	db database.PGXDB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db database.PGXDB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create adds a new order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, vendor_id, amount, delivery_fee, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, order.UserID, order.VendorID, order.Amount, order.DeliveryFee, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, vendor_id, amount, delivery_fee, status, created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &o.UserID, &o.VendorID, &o.Amount, &o.DeliveryFee,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// GetByUserID retrieves a user's most recent orders.
func (r *OrderRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, vendor_id, amount, delivery_fee, status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.VendorID, &o.Amount, &o.DeliveryFee,
			&o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}

// MarkPaid flips an order owned by the user to paid. Returns the number of
// updated rows.
func (r *OrderRepository) MarkPaid(ctx context.Context, id int, userID int64) (int, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = $4
	`, id, userID, models.OrderStatusPaid, models.OrderStatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return int(result.RowsAffected()), nil
}
