package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Adambhr/Socpanel/internal/domain"
	"github.com/Adambhr/Socpanel/internal/repository/cache"
)

// CatalogRepository определяет методы хранилища каталога услуг.
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	GetActive(ctx context.Context) ([]*domain.Service, error)
	GetActiveByCategory(ctx context.Context, category string) ([]*domain.Service, error)
	GetAll(ctx context.Context) ([]*domain.Service, error)
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	Update(ctx context.Context, service *domain.Service) error
	Delete(ctx context.Context, id int64) error
}

// CatalogCache определяет кеш чтений каталога.
type CatalogCache interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	SetService(ctx context.Context, service *domain.Service) error
	GetList(ctx context.Context, key string) ([]*domain.Service, error)
	SetList(ctx context.Context, key string, services []*domain.Service) error
	Invalidate(ctx context.Context) error
}

const (
	cacheKeyActive         = "active"
	cacheKeyCategoryPrefix = "category:"
)

// CatalogService реализует domain.CatalogService.
// Чтения идут через кеш, источником истины остается репозиторий.
type CatalogService struct {
	repo   CatalogRepository
	cache  CatalogCache // nil, если кеш не настроен
	logger *zap.Logger
}

// NewCatalogService создает новый CatalogService
func NewCatalogService(repo CatalogRepository, catalogCache CatalogCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		cache:  catalogCache,
		logger: logger,
	}
}

// GetService получает услугу по ID
func (s *CatalogService) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	if s.cache != nil {
		service, err := s.cache.GetService(ctx, id)
		if err == nil {
			return service, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// Ошибка кеша не должна ломать чтение, идем в БД
			s.logger.Warn("catalog cache read failed", zap.Int64("service_id", id), zap.Error(err))
		}
	}

	service, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isSentinel(err, domain.ErrServiceNotFound) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog service: failed to get service %d: %w", id, err)
	}

	if s.cache != nil {
		if err := s.cache.SetService(ctx, service); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Int64("service_id", id), zap.Error(err))
		}
	}

	return service, nil
}

// GetActiveServices получает все активные услуги
func (s *CatalogService) GetActiveServices(ctx context.Context) ([]*domain.Service, error) {
	return s.getListCached(ctx, cacheKeyActive, s.repo.GetActive)
}

// GetServicesByCategory получает активные услуги категории
func (s *CatalogService) GetServicesByCategory(ctx context.Context, category string) ([]*domain.Service, error) {
	return s.getListCached(ctx, cacheKeyCategoryPrefix+category, func(ctx context.Context) ([]*domain.Service, error) {
		return s.repo.GetActiveByCategory(ctx, category)
	})
}

// GetAllServices получает все услуги для администратора, мимо кеша
func (s *CatalogService) GetAllServices(ctx context.Context) ([]*domain.Service, error) {
	services, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog service: failed to get all services: %w", err)
	}

	return services, nil
}

// AddService добавляет услугу и сбрасывает кеш
func (s *CatalogService) AddService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	created, err := s.repo.Create(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("catalog service: failed to add service %q: %w", service.Name, err)
	}

	s.invalidateCache(ctx)

	return created, nil
}

// UpdateService обновляет услугу и сбрасывает кеш
func (s *CatalogService) UpdateService(ctx context.Context, service *domain.Service) error {
	if err := s.repo.Update(ctx, service); err != nil {
		if isSentinel(err, domain.ErrServiceNotFound) {
			return domain.ErrServiceNotFound
		}
		return fmt.Errorf("catalog service: failed to update service %d: %w", service.ID, err)
	}

	s.invalidateCache(ctx)

	return nil
}

// DeleteService удаляет услугу и сбрасывает кеш
func (s *CatalogService) DeleteService(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isSentinel(err, domain.ErrServiceNotFound) {
			return domain.ErrServiceNotFound
		}
		return fmt.Errorf("catalog service: failed to delete service %d: %w", id, err)
	}

	s.invalidateCache(ctx)

	return nil
}

func (s *CatalogService) getListCached(ctx context.Context, key string, fetch func(context.Context) ([]*domain.Service, error)) ([]*domain.Service, error) {
	if s.cache != nil {
		services, err := s.cache.GetList(ctx, key)
		if err == nil {
			return services, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	services, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog service: failed to get services %q: %w", key, err)
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, key, services); err != nil {
			s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return services, nil
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
