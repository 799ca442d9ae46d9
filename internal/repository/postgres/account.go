package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/Adambhr/Socpanel/internal/domain"
)

// AccountRepository реализует domain.AccountRepository
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository создает новый AccountRepository
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_id, balance, total_spent, total_orders, is_admin, created_at`

// GetOrCreate возвращает счет пользователя, создавая его при первом обращении.
// Upsert по уникальному user_id: параллельные первые вызовы не создают двух счетов.
func (r *AccountRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Account, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to ensure account for user %d: %w", userID, err)
	}

	account := &domain.Account{}
	err = r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`,
		userID,
	).Scan(&account.ID, &account.UserID, &account.Balance, &account.TotalSpent,
		&account.TotalOrders, &account.IsAdmin, &account.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get account for user %d: %w", userID, err)
	}

	return account, nil
}

// CreditWithLock пополняет баланс и добавляет транзакцию deposit в одной транзакции БД
func (r *AccountRepository) CreditWithLock(ctx context.Context, userID int64, amount decimal.Decimal, description string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin credit transaction for user %d: %w", userID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	// Advisory lock по user_id сериализует операции над одним счетом
	if err := lockAccount(ctx, tx, userID); err != nil {
		return err
	}

	if err := ensureAccount(ctx, tx, userID); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE accounts SET balance = balance + $1 WHERE user_id = $2`,
		amount, userID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to credit balance for user %d: %w", userID, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (user_id, type, amount, description)
		 VALUES ($1, $2, $3, $4)`,
		userID, domain.TransactionTypeDeposit, amount, description,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert deposit transaction for user %d: %w", userID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit credit transaction: %w", err)
	}

	return nil
}

// DebitForOrder атомарно проверяет баланс, списывает сумму, создает заказ
// и транзакцию order. При недостатке средств вся операция откатывается.
func (r *AccountRepository) DebitForOrder(ctx context.Context, userID int64, amount decimal.Decimal, description string, payload domain.OrderPayload) (int64, error) {
	// Списание всегда на положительную сумму: нулевая цена в каталоге
	// не должна порождать нулевую транзакцию order
	if !amount.IsPositive() {
		return 0, domain.ErrInvalidAmount
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin debit transaction for user %d: %w", userID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	// Advisory lock предотвращает гонку при параллельных списаниях:
	// два заказа не могут одновременно пройти проверку по устаревшему балансу
	if err := lockAccount(ctx, tx, userID); err != nil {
		return 0, err
	}

	if err := ensureAccount(ctx, tx, userID); err != nil {
		return 0, err
	}

	// Перечитываем баланс под блокировкой
	var balance decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT balance FROM accounts WHERE user_id = $1`,
		userID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to get balance for user %d: %w", userID, err)
	}

	if balance.LessThan(amount) {
		return 0, domain.ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx,
		`UPDATE accounts
		 SET balance = balance - $1,
		     total_spent = total_spent + $1,
		     total_orders = total_orders + 1
		 WHERE user_id = $2`,
		amount, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to debit balance for user %d: %w", userID, err)
	}

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, service_id, link, quantity, total_price, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		userID, payload.ServiceID, payload.Link, payload.Quantity, payload.TotalPrice, domain.OrderStatusPending,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert order for user %d: %w", userID, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (user_id, type, amount, description, order_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, domain.TransactionTypeOrder, amount.Neg(), description, orderID,
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert order transaction for user %d: %w", userID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit debit transaction: %w", err)
	}

	return orderID, nil
}

// RefundForOrder возвращает сумму заказа на баланс и добавляет транзакцию refund.
// Повторный возврат по тому же заказу блокируется частичным уникальным индексом.
func (r *AccountRepository) RefundForOrder(ctx context.Context, order *domain.Order, description string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin refund transaction for order %d: %w", order.ID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	if err := lockAccount(ctx, tx, order.UserID); err != nil {
		return err
	}

	// Транзакцию refund вставляем до пополнения: конфликт уникальности
	// обнаруживается раньше, чем изменится баланс
	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (user_id, type, amount, description, order_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		order.UserID, domain.TransactionTypeRefund, order.TotalPrice, description, order.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyRefunded
		}
		return fmt.Errorf("repository: failed to insert refund transaction for order %d: %w", order.ID, err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE accounts SET balance = balance + $1 WHERE user_id = $2`,
		order.TotalPrice, order.UserID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to credit refund for order %d: %w", order.ID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit refund transaction: %w", err)
	}

	return nil
}

// SetAdmin устанавливает флаг администратора
func (r *AccountRepository) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (user_id, is_admin) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET is_admin = EXCLUDED.is_admin`,
		userID, isAdmin,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to set admin flag for user %d: %w", userID, err)
	}

	return nil
}

// ListUserIDs возвращает идентификаторы всех пользователей со счетами
func (r *AccountRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM accounts ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list account user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repository: failed to scan account user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating account user ids: %w", err)
	}

	return ids, nil
}

// AuditSnapshot читает баланс счета и сумму его транзакций одним запросом.
// Оба значения относятся к одному снимку данных: конкурентное пополнение
// или списание между двумя отдельными чтениями не даст ложного расхождения.
func (r *AccountRepository) AuditSnapshot(ctx context.Context, userID int64) (*domain.AuditSnapshot, error) {
	snapshot := &domain.AuditSnapshot{}

	err := r.db.QueryRow(ctx,
		`SELECT a.balance, COALESCE(SUM(t.amount), 0)
		 FROM accounts a
		 LEFT JOIN transactions t ON t.user_id = a.user_id
		 WHERE a.user_id = $1
		 GROUP BY a.balance`,
		userID,
	).Scan(&snapshot.Balance, &snapshot.TransactionsSum)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("repository: failed to read audit snapshot for user %d: %w", userID, err)
	}

	return snapshot, nil
}

// lockAccount берет advisory lock в рамках текущей транзакции БД
func lockAccount(ctx context.Context, tx pgx.Tx, userID int64) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return fmt.Errorf("repository: failed to acquire lock for user %d: %w", userID, err)
	}
	return nil
}

// ensureAccount создает счет, если его еще нет
func ensureAccount(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO accounts (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to ensure account for user %d: %w", userID, err)
	}
	return nil
}
