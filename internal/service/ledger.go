package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Adambhr/Socpanel/internal/domain"
)

// AccountRepository определяет методы для работы со счетами.
type AccountRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*domain.Account, error)
	CreditWithLock(ctx context.Context, userID int64, amount decimal.Decimal, description string) error
	DebitForOrder(ctx context.Context, userID int64, amount decimal.Decimal, description string, payload domain.OrderPayload) (int64, error)
	RefundForOrder(ctx context.Context, order *domain.Order, description string) error
}

// TransactionRepository определяет методы для работы с транзакциями.
type TransactionRepository interface {
	GetByUserID(ctx context.Context, userID int64) ([]*domain.Transaction, error)
}

// LedgerService предоставляет операции со счетом пользователя.
type LedgerService struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
}

// NewLedgerService создает новый LedgerService
func NewLedgerService(accountRepo AccountRepository, transactionRepo TransactionRepository) *LedgerService {
	return &LedgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// GetAccount получает счет пользователя, лениво создавая его при первом обращении
func (s *LedgerService) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger service: failed to get account for user %d: %w", userID, err)
	}

	return account, nil
}

// AddBalance пополняет баланс пользователя
func (s *LedgerService) AddBalance(ctx context.Context, userID int64, amount decimal.Decimal, description string) error {
	// Валидация суммы
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	if err := s.accountRepo.CreditWithLock(ctx, userID, amount, description); err != nil {
		return fmt.Errorf("ledger service: failed to add balance %s for user %d: %w", amount, userID, err)
	}

	return nil
}

// GetTransactions получает историю транзакций пользователя
func (s *LedgerService) GetTransactions(ctx context.Context, userID int64) ([]*domain.Transaction, error) {
	transactions, err := s.transactionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger service: failed to get transactions for user %d: %w", userID, err)
	}

	return transactions, nil
}

// isSentinel сообщает, относится ли ошибка к известным доменным ошибкам,
// которые не нужно оборачивать при передаче наверх
func isSentinel(err error, sentinels ...error) bool {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
