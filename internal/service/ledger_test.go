package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Adambhr/Socpanel/internal/domain"
)

func TestLedgerService_GetAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		accountRepo := new(mockAccountRepository)
		svc := NewLedgerService(accountRepo, new(mockTransactionRepository))

		expected := &domain.Account{
			ID:      10,
			UserID:  1,
			Balance: decimal.NewFromInt(150),
		}
		accountRepo.On("GetOrCreate", ctx, int64(1)).Return(expected, nil)

		account, err := svc.GetAccount(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, expected, account)
	})

	t.Run("Repository error", func(t *testing.T) {
		accountRepo := new(mockAccountRepository)
		svc := NewLedgerService(accountRepo, new(mockTransactionRepository))

		accountRepo.On("GetOrCreate", ctx, int64(1)).Return(nil, errors.New("database error"))

		account, err := svc.GetAccount(ctx, 1)
		assert.Error(t, err)
		assert.Nil(t, account)
	})
}

func TestLedgerService_AddBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		accountRepo := new(mockAccountRepository)
		svc := NewLedgerService(accountRepo, new(mockTransactionRepository))

		amount := decimal.NewFromInt(500)
		accountRepo.On("CreditWithLock", ctx, int64(1), amount, "top up").Return(nil)

		err := svc.AddBalance(ctx, 1, amount, "top up")
		assert.NoError(t, err)

		accountRepo.AssertExpectations(t)
	})

	t.Run("Zero amount", func(t *testing.T) {
		accountRepo := new(mockAccountRepository)
		svc := NewLedgerService(accountRepo, new(mockTransactionRepository))

		err := svc.AddBalance(ctx, 1, decimal.Zero, "top up")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)

		accountRepo.AssertNotCalled(t, "CreditWithLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Negative amount", func(t *testing.T) {
		accountRepo := new(mockAccountRepository)
		svc := NewLedgerService(accountRepo, new(mockTransactionRepository))

		err := svc.AddBalance(ctx, 1, decimal.NewFromInt(-100), "top up")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)

		accountRepo.AssertNotCalled(t, "CreditWithLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Repository error", func(t *testing.T) {
		accountRepo := new(mockAccountRepository)
		svc := NewLedgerService(accountRepo, new(mockTransactionRepository))

		amount := decimal.NewFromInt(500)
		accountRepo.On("CreditWithLock", ctx, int64(1), amount, "top up").Return(errors.New("database error"))

		err := svc.AddBalance(ctx, 1, amount, "top up")
		assert.Error(t, err)
	})
}

func TestLedgerService_GetTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		transactionRepo := new(mockTransactionRepository)
		svc := NewLedgerService(new(mockAccountRepository), transactionRepo)

		expected := []*domain.Transaction{
			{ID: 2, UserID: 1, Type: domain.TransactionTypeOrder, Amount: decimal.NewFromInt(-100)},
			{ID: 1, UserID: 1, Type: domain.TransactionTypeDeposit, Amount: decimal.NewFromInt(500)},
		}
		transactionRepo.On("GetByUserID", ctx, int64(1)).Return(expected, nil)

		transactions, err := svc.GetTransactions(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, expected, transactions)
	})

	t.Run("Repository error", func(t *testing.T) {
		transactionRepo := new(mockTransactionRepository)
		svc := NewLedgerService(new(mockAccountRepository), transactionRepo)

		transactionRepo.On("GetByUserID", ctx, int64(1)).Return(nil, errors.New("database error"))

		transactions, err := svc.GetTransactions(ctx, 1)
		assert.Error(t, err)
		assert.Nil(t, transactions)
	})
}
