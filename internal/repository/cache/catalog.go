package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adambhr/Socpanel/internal/domain"
)

// ErrCacheMiss возвращается, когда значения нет в кеше
var ErrCacheMiss = errors.New("cache miss")

const (
	serviceKeyPrefix = "service:"
	listKeyPrefix    = "services:"
)

// CatalogCache кеширует чтения каталога услуг в Redis.
// Источником истины остается PostgreSQL, кеш прогревается при промахе.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache создает новый CatalogCache
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

// GetService получает услугу из кеша
func (c *CatalogCache) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("%s%d", serviceKeyPrefix, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache: failed to get service %d: %w", id, err)
	}

	service := &domain.Service{}
	if err := json.Unmarshal(data, service); err != nil {
		return nil, fmt.Errorf("cache: failed to unmarshal service %d: %w", id, err)
	}

	return service, nil
}

// SetService сохраняет услугу в кеш
func (c *CatalogCache) SetService(ctx context.Context, service *domain.Service) error {
	data, err := json.Marshal(service)
	if err != nil {
		return fmt.Errorf("cache: failed to marshal service %d: %w", service.ID, err)
	}

	key := fmt.Sprintf("%s%d", serviceKeyPrefix, service.ID)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to set service %d: %w", service.ID, err)
	}

	return nil
}

// GetList получает список услуг из кеша по ключу выборки
func (c *CatalogCache) GetList(ctx context.Context, key string) ([]*domain.Service, error) {
	data, err := c.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache: failed to get service list %q: %w", key, err)
	}

	var services []*domain.Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, fmt.Errorf("cache: failed to unmarshal service list %q: %w", key, err)
	}

	return services, nil
}

// SetList сохраняет список услуг в кеш
func (c *CatalogCache) SetList(ctx context.Context, key string, services []*domain.Service) error {
	data, err := json.Marshal(services)
	if err != nil {
		return fmt.Errorf("cache: failed to marshal service list %q: %w", key, err)
	}

	if err := c.client.Set(ctx, listKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to set service list %q: %w", key, err)
	}

	return nil
}

// Invalidate удаляет все закешированные данные каталога.
// Вызывается после любой административной правки каталога.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	for _, pattern := range []string{serviceKeyPrefix + "*", listKeyPrefix + "*"} {
		iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				return fmt.Errorf("cache: failed to delete key %q: %w", iter.Val(), err)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("cache: failed to scan keys %q: %w", pattern, err)
		}
	}

	return nil
}
