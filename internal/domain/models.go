package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus представляет статус заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid проверяет, что статус является одним из известных значений
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// TransactionType представляет тип транзакции
type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "deposit"
	TransactionTypeOrder   TransactionType = "order"
	TransactionTypeRefund  TransactionType = "refund"
)

// User представляет пользователя системы
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"` // Не отправляем хеш в JSON
	CreatedAt    time.Time `json:"created_at"`
}

// Account представляет счет пользователя (создается лениво, 1:1 с пользователем)
type Account struct {
	ID          int64           `json:"-"`
	UserID      int64           `json:"-"`
	Balance     decimal.Decimal `json:"balance"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	TotalOrders int64           `json:"total_orders"`
	IsAdmin     bool            `json:"is_admin"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Transaction представляет операцию на счете (неизменяемая запись)
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"-"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OrderID     *int64          `json:"order_id,omitempty"` // Заполнен только для type=order/refund
	CreatedAt   time.Time       `json:"created_at"`
}

// Service представляет услугу из каталога
type Service struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"` // Цена за 1000 единиц
	MinQuantity       int             `json:"min_quantity"`
	MaxQuantity       int             `json:"max_quantity"`
	IsActive          bool            `json:"is_active"`
	DeliveryTime      string          `json:"delivery_time"`
	Quality           string          `json:"quality"`
	ProviderName      *string         `json:"provider_name,omitempty"`
	ProviderServiceID *string         `json:"provider_service_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Order представляет заказ пользователя
type Order struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"-"`
	ServiceID        int64           `json:"service_id"`
	Link             string          `json:"link"`
	Quantity         int             `json:"quantity"`
	TotalPrice       decimal.Decimal `json:"total_price"` // Фиксируется при создании и не пересчитывается
	Status           OrderStatus     `json:"status"`
	StartCount       *int            `json:"start_count,omitempty"`
	Remains          *int            `json:"remains,omitempty"`
	ProviderOrderRef *string         `json:"provider_order_ref,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`

	// Обогащенные поля для выдачи списков
	ServiceName string `json:"service_name,omitempty"`
	UserLogin   string `json:"user_login,omitempty"` // Только в административной выдаче
}

// OrderPayload описывает заказ, создаваемый внутри транзакции списания
type OrderPayload struct {
	ServiceID  int64
	Link       string
	Quantity   int
	TotalPrice decimal.Decimal
}

// AuditSnapshot содержит баланс счета и сумму его транзакций,
// прочитанные одним запросом на один момент времени
type AuditSnapshot struct {
	Balance         decimal.Decimal
	TransactionsSum decimal.Decimal
}
