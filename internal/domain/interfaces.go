package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	CreateUser(ctx context.Context, login, passwordHash string) (*User, error)
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

// AccountRepository определяет методы для работы со счетами
type AccountRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*Account, error)
	CreditWithLock(ctx context.Context, userID int64, amount decimal.Decimal, description string) error
	DebitForOrder(ctx context.Context, userID int64, amount decimal.Decimal, description string, payload OrderPayload) (int64, error)
	RefundForOrder(ctx context.Context, order *Order, description string) error
	SetAdmin(ctx context.Context, userID int64, isAdmin bool) error
	ListUserIDs(ctx context.Context) ([]int64, error)
	AuditSnapshot(ctx context.Context, userID int64) (*AuditSnapshot, error)
}

// TransactionRepository определяет методы для работы с транзакциями
type TransactionRepository interface {
	GetByUserID(ctx context.Context, userID int64) ([]*Transaction, error)
}

// OrderRepository определяет методы для работы с заказами
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]*Order, error)
	GetAll(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus, startCount, remains *int) error
}

// CatalogRepository определяет методы для работы с каталогом услуг
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*Service, error)
	GetActive(ctx context.Context) ([]*Service, error)
	GetActiveByCategory(ctx context.Context, category string) ([]*Service, error)
	GetAll(ctx context.Context) ([]*Service, error)
	Create(ctx context.Context, service *Service) (*Service, error)
	Update(ctx context.Context, service *Service) error
	Delete(ctx context.Context, id int64) error
}

// AuthService определяет методы аутентификации
type AuthService interface {
	Register(ctx context.Context, login, password string) (string, error)
	Login(ctx context.Context, login, password string) (string, error)
}

// LedgerService определяет методы работы со счетом пользователя
type LedgerService interface {
	GetAccount(ctx context.Context, userID int64) (*Account, error)
	AddBalance(ctx context.Context, userID int64, amount decimal.Decimal, description string) error
	GetTransactions(ctx context.Context, userID int64) ([]*Transaction, error)
}

// OrderService определяет методы работы с заказами
type OrderService interface {
	CreateOrder(ctx context.Context, userID, serviceID int64, link string, quantity int) (int64, error)
	GetUserOrders(ctx context.Context, userID int64) ([]*Order, error)
	GetAllOrders(ctx context.Context) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatus, startCount, remains *int) error
	RefundOrder(ctx context.Context, orderID int64) error
}

// CatalogService определяет методы работы с каталогом услуг
type CatalogService interface {
	GetService(ctx context.Context, id int64) (*Service, error)
	GetActiveServices(ctx context.Context) ([]*Service, error)
	GetServicesByCategory(ctx context.Context, category string) ([]*Service, error)
	GetAllServices(ctx context.Context) ([]*Service, error)
	AddService(ctx context.Context, service *Service) (*Service, error)
	UpdateService(ctx context.Context, service *Service) error
	DeleteService(ctx context.Context, id int64) error
}
