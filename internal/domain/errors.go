package domain

import "errors"

// Ошибки пользователей
var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// Ошибки каталога услуг
var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Ошибки заказов
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrQuantityOutOfRange = errors.New("quantity out of range")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrAlreadyRefunded    = errors.New("order already refunded")
)

// Ошибки счета и баланса
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Ошибки доступа
var (
	ErrNotAdmin = errors.New("admin rights required")
)
