package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Adambhr/Socpanel/internal/domain"
)

// LedgerService определяет методы работы со счетом пользователя.
type LedgerService interface {
	GetAccount(ctx context.Context, userID int64) (*domain.Account, error)
	AddBalance(ctx context.Context, userID int64, amount decimal.Decimal, description string) error
	GetTransactions(ctx context.Context, userID int64) ([]*domain.Transaction, error)
}

type BalanceHandler struct {
	ledgerService LedgerService
	logger        *zap.Logger
}

func NewBalanceHandler(ledgerService LedgerService, logger *zap.Logger) *BalanceHandler {
	return &BalanceHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	account, err := h.ledgerService.GetAccount(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get account", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(account); err != nil {
		h.logger.Error("failed to encode account response", zap.Error(err))
	}
}

type depositRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (h *BalanceHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	err := h.ledgerService.AddBalance(r.Context(), userID, req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to add balance", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *BalanceHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transactions, err := h.ledgerService.GetTransactions(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get transactions", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if len(transactions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(transactions); err != nil {
		h.logger.Error("failed to encode transactions response", zap.Error(err))
	}
}
