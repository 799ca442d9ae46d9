package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Adambhr/Socpanel/internal/domain"
)

// OrderRepository определяет методы для работы с заказами.
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
	GetAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, startCount, remains *int) error
}

// ServiceProvider определяет чтение каталога, нужное процессору заказов.
type ServiceProvider interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

var priceUnit = decimal.NewFromInt(1000)

// OrderService реализует domain.OrderService
type OrderService struct {
	catalog     ServiceProvider
	accountRepo AccountRepository
	orderRepo   OrderRepository
}

// NewOrderService создает новый OrderService
func NewOrderService(catalog ServiceProvider, accountRepo AccountRepository, orderRepo OrderRepository) *OrderService {
	return &OrderService{
		catalog:     catalog,
		accountRepo: accountRepo,
		orderRepo:   orderRepo,
	}
}

// CreateOrder проверяет заказ по каталогу, считает цену и атомарно
// списывает сумму с созданием заказа и транзакции.
func (s *OrderService) CreateOrder(ctx context.Context, userID, serviceID int64, link string, quantity int) (int64, error) {
	service, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		if isSentinel(err, domain.ErrServiceNotFound) {
			return 0, domain.ErrServiceNotFound
		}
		return 0, fmt.Errorf("order service: failed to get service %d: %w", serviceID, err)
	}

	if !service.IsActive {
		return 0, domain.ErrServiceUnavailable
	}

	// Валидация количества по границам услуги
	if quantity < service.MinQuantity || quantity > service.MaxQuantity {
		return 0, domain.ErrQuantityOutOfRange
	}

	// Цена услуги задана за 1000 единиц; итог фиксируется в заказе
	totalPrice := service.Price.Mul(decimal.NewFromInt(int64(quantity))).Div(priceUnit)

	payload := domain.OrderPayload{
		ServiceID:  serviceID,
		Link:       link,
		Quantity:   quantity,
		TotalPrice: totalPrice,
	}

	orderID, err := s.accountRepo.DebitForOrder(ctx, userID, totalPrice, "order: "+service.Name, payload)
	if err != nil {
		// Не оборачиваем sentinel errors
		if isSentinel(err, domain.ErrInsufficientFunds, domain.ErrInvalidAmount) {
			return 0, err
		}
		return 0, fmt.Errorf("order service: failed to debit %s for user %d: %w", totalPrice, userID, err)
	}

	return orderID, nil
}

// GetUserOrders получает заказы пользователя, новые первыми
func (s *OrderService) GetUserOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("order service: failed to get orders for user %d: %w", userID, err)
	}

	return orders, nil
}

// GetAllOrders получает все заказы для администратора
func (s *OrderService) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("order service: failed to get all orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus обновляет статус заказа и поля прогресса.
// Проверяется только допустимость значения статуса, матрицы переходов нет.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus, startCount, remains *int) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status, startCount, remains); err != nil {
		if isSentinel(err, domain.ErrOrderNotFound) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("order service: failed to update order %d status: %w", orderID, err)
	}

	return nil
}

// RefundOrder вручную возвращает сумму заказа на счет пользователя.
// Автоматического возврата при отмене нет, возврат выполняет администратор.
func (s *OrderService) RefundOrder(ctx context.Context, orderID int64) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if isSentinel(err, domain.ErrOrderNotFound) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("order service: failed to get order %d: %w", orderID, err)
	}

	description := fmt.Sprintf("refund: order #%d", order.ID)
	if err := s.accountRepo.RefundForOrder(ctx, order, description); err != nil {
		if isSentinel(err, domain.ErrAlreadyRefunded) {
			return domain.ErrAlreadyRefunded
		}
		return fmt.Errorf("order service: failed to refund order %d: %w", orderID, err)
	}

	return nil
}
