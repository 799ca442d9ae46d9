package service

import (
	"context"
	"fmt"

	"github.com/Adambhr/Socpanel/internal/domain"
	"github.com/Adambhr/Socpanel/internal/utils/jwt"
	"github.com/Adambhr/Socpanel/internal/utils/password"
)

// AdminSetter определяет назначение прав администратора на счете.
type AdminSetter interface {
	SetAdmin(ctx context.Context, userID int64, isAdmin bool) error
}

// AuthServiceConfig содержит настройки аутентификации
type AuthServiceConfig struct {
	MinPasswordLength int
	// AdminLogins — заданный оператором список логинов с правами администратора.
	// Права назначаются только через этот список, эндпоинта самоповышения нет.
	AdminLogins []string
}

// AuthService реализует domain.AuthService
type AuthService struct {
	userRepo       domain.UserRepository
	accounts       AdminSetter
	passwordHasher password.Hasher
	jwtManager     *jwt.Manager
	config         AuthServiceConfig
	adminLogins    map[string]struct{}
}

// NewAuthService создает новый AuthService
func NewAuthService(
	userRepo domain.UserRepository,
	accounts AdminSetter,
	passwordHasher password.Hasher,
	jwtManager *jwt.Manager,
	config AuthServiceConfig,
) *AuthService {
	adminLogins := make(map[string]struct{}, len(config.AdminLogins))
	for _, login := range config.AdminLogins {
		adminLogins[login] = struct{}{}
	}

	return &AuthService{
		userRepo:       userRepo,
		accounts:       accounts,
		passwordHasher: passwordHasher,
		jwtManager:     jwtManager,
		config:         config,
		adminLogins:    adminLogins,
	}
}

// Register регистрирует нового пользователя
func (s *AuthService) Register(ctx context.Context, login, userPassword string) (string, error) {
	// Валидация входных данных
	if login == "" || len(userPassword) < s.config.MinPasswordLength {
		return "", domain.ErrInvalidInput
	}

	// Хеширование пароля
	hash, err := s.passwordHasher.Hash(userPassword)
	if err != nil {
		return "", fmt.Errorf("auth service: failed to hash password for user %q: %w", login, err)
	}

	// Создание пользователя
	user, err := s.userRepo.CreateUser(ctx, login, hash)
	if err != nil {
		// Не оборачиваем sentinel error
		if isSentinel(err, domain.ErrUserExists) {
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("auth service: failed to register user %q: %w", login, err)
	}

	if err := s.applyAdminAllowList(ctx, user); err != nil {
		return "", err
	}

	// Генерация JWT токена
	token, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("auth service: failed to generate token for user %d: %w", user.ID, err)
	}

	return token, nil
}

// Login аутентифицирует пользователя
func (s *AuthService) Login(ctx context.Context, login, userPassword string) (string, error) {
	// Валидация входных данных
	if login == "" || userPassword == "" {
		return "", domain.ErrInvalidInput
	}

	// Получение пользователя по логину
	user, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		if isSentinel(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth service: failed to get user %q: %w", login, err)
	}

	// Проверка пароля
	if err := s.passwordHasher.Check(user.PasswordHash, userPassword); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	if err := s.applyAdminAllowList(ctx, user); err != nil {
		return "", err
	}

	// Генерация JWT токена
	token, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("auth service: failed to generate token for user %d: %w", user.ID, err)
	}

	return token, nil
}

// applyAdminAllowList назначает права администратора пользователям из списка
func (s *AuthService) applyAdminAllowList(ctx context.Context, user *domain.User) error {
	if _, ok := s.adminLogins[user.Login]; !ok {
		return nil
	}

	if err := s.accounts.SetAdmin(ctx, user.ID, true); err != nil {
		return fmt.Errorf("auth service: failed to grant admin to user %d: %w", user.ID, err)
	}

	return nil
}
