package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	RunAddress  string        // Адрес и порт запуска сервиса
	DatabaseURI string        // URI подключения к БД
	RedisAddr   string        // Адрес Redis; пустая строка отключает кеш каталога
	CacheTTL    time.Duration // Время жизни записей кеша каталога
	JWTSecret   string        // Секретный ключ для JWT
	JWTTokenTTL time.Duration // Время жизни JWT токена
	LogLevel    string        // Уровень логирования

	// Назначение прав администратора: только через этот список
	AdminLogins []string

	// Аудит журнала
	AuditWorkers      int           // Количество воркеров аудита
	AuditQueueSize    int           // Размер очереди счетов
	AuditScanInterval time.Duration // Интервал сверки счетов

	// Валидация
	MinPasswordLength int // Минимальная длина пароля
}

// Load загружает конфигурацию из переменных окружения и флагов
// Приоритет: env переменные > флаги > дефолтные значения
func Load() (*Config, error) {
	// .env, если он есть, подхватывается до чтения окружения
	_ = godotenv.Load()

	cfg := &Config{
		CacheTTL:          5 * time.Minute,
		JWTTokenTTL:       24 * time.Hour,
		LogLevel:          "info",
		AuditWorkers:      3,
		AuditQueueSize:    100,
		AuditScanInterval: time.Minute,
		MinPasswordLength: 6,
	}

	// Определяем флаги
	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address for catalog cache")
	flag.Parse()

	// Переменные окружения имеют приоритет над флагами
	if envRunAddr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = envRunAddr
	}

	if envDBURI, ok := os.LookupEnv("DATABASE_URI"); ok {
		cfg.DatabaseURI = envDBURI
	}

	if envRedisAddr, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.RedisAddr = envRedisAddr
	}

	if envCacheTTL, ok := os.LookupEnv("CACHE_TTL"); ok {
		if ttl, err := time.ParseDuration(envCacheTTL); err == nil && ttl > 0 {
			cfg.CacheTTL = ttl
		}
	}

	// JWT секрет (только из env, не из флагов для безопасности)
	if envJWTSecret, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.JWTSecret = envJWTSecret
	} else {
		cfg.JWTSecret = "default-secret-key-change-in-production"
	}

	// Уровень логирования
	if envLogLevel, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = envLogLevel
	}

	// Логины администраторов (только из env, назначается оператором)
	if envAdminLogins, ok := os.LookupEnv("ADMIN_LOGINS"); ok {
		for _, login := range strings.Split(envAdminLogins, ",") {
			if login = strings.TrimSpace(login); login != "" {
				cfg.AdminLogins = append(cfg.AdminLogins, login)
			}
		}
	}

	// Настройки аудита журнала из env
	if envAuditWorkers, ok := os.LookupEnv("AUDIT_WORKERS"); ok {
		if workers, err := strconv.Atoi(envAuditWorkers); err == nil && workers > 0 {
			cfg.AuditWorkers = workers
		}
	}

	if envAuditQueueSize, ok := os.LookupEnv("AUDIT_QUEUE_SIZE"); ok {
		if size, err := strconv.Atoi(envAuditQueueSize); err == nil && size > 0 {
			cfg.AuditQueueSize = size
		}
	}

	if envScanInterval, ok := os.LookupEnv("AUDIT_SCAN_INTERVAL"); ok {
		if interval, err := time.ParseDuration(envScanInterval); err == nil && interval > 0 {
			cfg.AuditScanInterval = interval
		}
	}

	// Валидация обязательных параметров
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI is required (use -d flag or DATABASE_URI env)")
	}

	return cfg, nil
}
