package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Adambhr/Socpanel/internal/domain"
)

// OrderRepository реализует domain.OrderRepository
type OrderRepository struct {
	db DBTX
}

// NewOrderRepository создает новый OrderRepository
func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `o.id, o.user_id, o.service_id, o.link, o.quantity, o.total_price,
	o.status, o.start_count, o.remains, o.provider_order_ref, o.created_at`

// GetByID получает заказ по ID
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+`
		 FROM orders o
		 WHERE o.id = $1`,
		id,
	).Scan(&order.ID, &order.UserID, &order.ServiceID, &order.Link, &order.Quantity,
		&order.TotalPrice, &order.Status, &order.StartCount, &order.Remains,
		&order.ProviderOrderRef, &order.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order %d: %w", id, err)
	}

	return order, nil
}

// GetByUserID получает заказы пользователя с названием услуги, новые первыми
func (r *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+`, COALESCE(s.name, '') AS service_name
		 FROM orders o
		 LEFT JOIN services s ON s.id = o.service_id
		 WHERE o.user_id = $1
		 ORDER BY o.created_at DESC, o.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get orders for user %d: %w", userID, err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(&order.ID, &order.UserID, &order.ServiceID, &order.Link, &order.Quantity,
			&order.TotalPrice, &order.Status, &order.StartCount, &order.Remains,
			&order.ProviderOrderRef, &order.CreatedAt, &order.ServiceName)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	return orders, nil
}

// GetAll получает все заказы с названием услуги и логином пользователя, новые первыми
func (r *OrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+`, COALESCE(s.name, '') AS service_name, COALESCE(u.login, '') AS user_login
		 FROM orders o
		 LEFT JOIN services s ON s.id = o.service_id
		 LEFT JOIN users u ON u.id = o.user_id
		 ORDER BY o.created_at DESC, o.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get all orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(&order.ID, &order.UserID, &order.ServiceID, &order.Link, &order.Quantity,
			&order.TotalPrice, &order.Status, &order.StartCount, &order.Remains,
			&order.ProviderOrderRef, &order.CreatedAt, &order.ServiceName, &order.UserLogin)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating all orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus обновляет статус заказа и поля прогресса
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, startCount, remains *int) error {
	result, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET status = $1,
		     start_count = COALESCE($2, start_count),
		     remains = COALESCE($3, remains)
		 WHERE id = $4`,
		status, startCount, remains, id,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update order %d status: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}
