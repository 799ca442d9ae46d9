package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Adambhr/Socpanel/internal/config"
	"github.com/Adambhr/Socpanel/internal/worker"
)

// App представляет приложение
type App struct {
	config  *config.Config
	logger  *zap.Logger
	db      *pgxpool.Pool
	redis   *redis.Client
	router  *chi.Mux
	auditor *worker.Auditor
	server  *http.Server
}

// NewApp создает новое приложение
func NewApp() (*App, error) {
	ctx := context.Background()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализация логгера
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Инициализация базы данных и миграции
	dbPool, err := initDatabase(ctx, cfg.DatabaseURI, logger)
	if err != nil {
		return nil, err
	}

	// Кеш каталога опционален: без адреса Redis работаем напрямую с БД
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = initRedis(ctx, cfg.RedisAddr)
		if err != nil {
			dbPool.Close()
			return nil, err
		}
		logger.Info("connected to redis", zap.String("address", cfg.RedisAddr))
	}

	// Инициализация зависимостей
	deps := initDependencies(cfg, dbPool, redisClient, logger)

	// Настройка роутера
	router := setupRouter(deps, logger)

	// Создание HTTP сервера
	server := createServer(cfg.RunAddress, router)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      dbPool,
		redis:   redisClient,
		router:  router,
		auditor: deps.auditor,
		server:  server,
	}, nil
}

// Run запускает приложение
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск аудитора журнала
	a.auditor.Start(ctx)
	a.logger.Info("ledger auditor started")

	// Запуск HTTP сервера и ожидание сигнала завершения
	if err := a.runServer(ctx); err != nil {
		return err
	}

	// Graceful shutdown
	a.shutdown(cancel)

	return nil
}
