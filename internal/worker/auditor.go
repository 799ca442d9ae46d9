package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Adambhr/Socpanel/internal/domain"
)

// AccountSource определяет чтение счетов для аудита.
type AccountSource interface {
	ListUserIDs(ctx context.Context) ([]int64, error)
	AuditSnapshot(ctx context.Context, userID int64) (*domain.AuditSnapshot, error)
}

// AuditorConfig содержит настройки аудитора
type AuditorConfig struct {
	Workers      int
	QueueSize    int
	ScanInterval time.Duration
}

// Auditor представляет пул воркеров, сверяющих баланс каждого счета
// с суммой его транзакций. Расхождение означает нарушение инварианта
// журнала и попадает в лог с уровнем error.
type Auditor struct {
	workers      int
	queue        chan int64
	accountRepo  AccountSource
	logger       *zap.Logger
	wg           sync.WaitGroup
	scannerWG    sync.WaitGroup
	stop         chan struct{}
	scanInterval time.Duration
}

// NewAuditor создает новый Auditor
func NewAuditor(config AuditorConfig, accountRepo AccountSource, logger *zap.Logger) *Auditor {
	return &Auditor{
		workers:      config.Workers,
		queue:        make(chan int64, config.QueueSize),
		accountRepo:  accountRepo,
		logger:       logger,
		stop:         make(chan struct{}),
		scanInterval: config.ScanInterval,
	}
}

// Start запускает аудитор
func (a *Auditor) Start(ctx context.Context) {
	// Запускаем воркеры
	for i := 0; i < a.workers; i++ {
		a.wg.Add(1)
		go a.worker(ctx, i)
	}

	// Запускаем сканер счетов
	a.scannerWG.Add(1)
	go a.scanner(ctx)
}

// Stop останавливает аудитор. Сначала завершается сканер, и только
// после этого закрывается очередь: отправка в закрытый канал исключена.
func (a *Auditor) Stop() {
	close(a.stop)
	a.scannerWG.Wait()
	close(a.queue)
	a.wg.Wait()
}

// worker сверяет счета из очереди
func (a *Auditor) worker(ctx context.Context, id int) {
	defer a.wg.Done()

	a.logger.Info("audit worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("audit worker stopping", zap.Int("worker_id", id))
			return
		case userID, ok := <-a.queue:
			if !ok {
				return
			}
			a.auditAccount(ctx, userID)
		}
	}
}

// scanner периодически отправляет все счета в очередь
func (a *Auditor) scanner(ctx context.Context) {
	defer a.scannerWG.Done()

	ticker := time.NewTicker(a.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("audit scanner stopping")
			return
		case <-a.stop:
			return
		case <-ticker.C:
			a.scanAccounts(ctx)
		}
	}
}

// scanAccounts ставит все счета в очередь на сверку
func (a *Auditor) scanAccounts(ctx context.Context) {
	userIDs, err := a.accountRepo.ListUserIDs(ctx)
	if err != nil {
		a.logger.Error("failed to list accounts for audit", zap.Error(err))
		return
	}

	for _, userID := range userIDs {
		select {
		case a.queue <- userID:
			// Успешно добавлено в очередь
		case <-ctx.Done():
			return
		default:
			// Очередь заполнена, вернемся на следующем тике
			a.logger.Warn("audit queue is full, skipping account", zap.Int64("user_id", userID))
		}
	}
}

// auditAccount сверяет один счет. Баланс и сумма транзакций читаются
// одним запросом: параллельные пополнения и списания между двумя
// отдельными чтениями не дают ложного расхождения.
func (a *Auditor) auditAccount(ctx context.Context, userID int64) {
	snapshot, err := a.accountRepo.AuditSnapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Счет исчез между сканированием и сверкой
			return
		}
		a.logger.Error("failed to read audit snapshot", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	// Инвариант журнала: баланс равен сумме всех транзакций и неотрицателен
	if !snapshot.Balance.Equal(snapshot.TransactionsSum) {
		a.logger.Error("ledger divergence detected",
			zap.Int64("user_id", userID),
			zap.String("balance", snapshot.Balance.String()),
			zap.String("transactions_sum", snapshot.TransactionsSum.String()),
		)
		return
	}

	if snapshot.Balance.IsNegative() {
		a.logger.Error("negative balance detected",
			zap.Int64("user_id", userID),
			zap.String("balance", snapshot.Balance.String()),
		)
		return
	}

	a.logger.Debug("account audit passed", zap.Int64("user_id", userID))
}
