package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Adambhr/Socpanel/internal/config"
	"github.com/Adambhr/Socpanel/internal/domain"
	"github.com/Adambhr/Socpanel/internal/handlers"
	"github.com/Adambhr/Socpanel/internal/repository/cache"
	"github.com/Adambhr/Socpanel/internal/repository/postgres"
	"github.com/Adambhr/Socpanel/internal/service"
	"github.com/Adambhr/Socpanel/internal/utils/jwt"
	"github.com/Adambhr/Socpanel/internal/utils/password"
	"github.com/Adambhr/Socpanel/internal/worker"
)

// repositories содержит все репозитории приложения
type repositories struct {
	user        domain.UserRepository
	account     domain.AccountRepository
	transaction domain.TransactionRepository
	order       domain.OrderRepository
	catalog     domain.CatalogRepository
}

// services содержит все сервисы приложения
type services struct {
	auth    domain.AuthService
	ledger  domain.LedgerService
	catalog domain.CatalogService
	order   domain.OrderService
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	auth     *handlers.AuthHandler
	balance  *handlers.BalanceHandler
	orders   *handlers.OrdersHandler
	services *handlers.ServicesHandler
	health   *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	repos      *repositories
	services   *services
	handlers   *handlerSet
	jwtManager *jwt.Manager
	auditor    *worker.Auditor
}

// initDependencies создает все зависимости приложения
func initDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger) *dependencies {
	// Создание репозиториев
	accountRepo := postgres.NewAccountRepository(dbPool)
	transactionRepo := postgres.NewTransactionRepository(dbPool)
	repos := &repositories{
		user:        postgres.NewUserRepository(dbPool),
		account:     accountRepo,
		transaction: transactionRepo,
		order:       postgres.NewOrderRepository(dbPool),
		catalog:     postgres.NewCatalogRepository(dbPool),
	}

	// Создание утилит
	passwordHasher := password.NewBCryptHasher(password.DefaultCost)
	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.JWTTokenTTL)

	// Кеш каталога подключается только при настроенном Redis
	var catalogCache service.CatalogCache
	if redisClient != nil {
		catalogCache = cache.NewCatalogCache(redisClient, cfg.CacheTTL)
	}

	// Создание сервисов
	authServiceConfig := service.AuthServiceConfig{
		MinPasswordLength: cfg.MinPasswordLength,
		AdminLogins:       cfg.AdminLogins,
	}
	catalogService := service.NewCatalogService(repos.catalog, catalogCache, logger)
	svcs := &services{
		auth:    service.NewAuthService(repos.user, accountRepo, passwordHasher, jwtManager, authServiceConfig),
		ledger:  service.NewLedgerService(accountRepo, transactionRepo),
		catalog: catalogService,
		order:   service.NewOrderService(catalogService, accountRepo, repos.order),
	}

	// Создание handlers
	hdlrs := &handlerSet{
		auth:     handlers.NewAuthHandler(svcs.auth, logger),
		balance:  handlers.NewBalanceHandler(svcs.ledger, logger),
		orders:   handlers.NewOrdersHandler(svcs.order, logger),
		services: handlers.NewServicesHandler(svcs.catalog, logger),
		health:   handlers.NewHealthHandler(dbPool, logger),
	}

	// Создание аудитора журнала
	auditorConfig := worker.AuditorConfig{
		Workers:      cfg.AuditWorkers,
		QueueSize:    cfg.AuditQueueSize,
		ScanInterval: cfg.AuditScanInterval,
	}
	auditor := worker.NewAuditor(auditorConfig, accountRepo, logger)

	return &dependencies{
		repos:      repos,
		services:   svcs,
		handlers:   hdlrs,
		jwtManager: jwtManager,
		auditor:    auditor,
	}
}
