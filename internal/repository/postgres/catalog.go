package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Adambhr/Socpanel/internal/domain"
)

// CatalogRepository реализует domain.CatalogRepository
type CatalogRepository struct {
	db DBTX
}

// NewCatalogRepository создает новый CatalogRepository
func NewCatalogRepository(db DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const serviceColumns = `id, name, description, category, price, min_quantity, max_quantity,
	is_active, delivery_time, quality, provider_name, provider_service_id, created_at`

func scanService(row pgx.Row) (*domain.Service, error) {
	service := &domain.Service{}
	err := row.Scan(&service.ID, &service.Name, &service.Description, &service.Category,
		&service.Price, &service.MinQuantity, &service.MaxQuantity, &service.IsActive,
		&service.DeliveryTime, &service.Quality, &service.ProviderName,
		&service.ProviderServiceID, &service.CreatedAt)
	if err != nil {
		return nil, err
	}
	return service, nil
}

// GetByID получает услугу по ID
func (r *CatalogRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	service, err := scanService(r.db.QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("repository: failed to get service %d: %w", id, err)
	}

	return service, nil
}

// GetActive получает все активные услуги
func (r *CatalogRepository) GetActive(ctx context.Context) ([]*domain.Service, error) {
	return r.queryServices(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE is_active ORDER BY category, name`,
	)
}

// GetActiveByCategory получает активные услуги категории
func (r *CatalogRepository) GetActiveByCategory(ctx context.Context, category string) ([]*domain.Service, error) {
	return r.queryServices(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE is_active AND category = $1 ORDER BY name`,
		category,
	)
}

// GetAll получает все услуги, включая неактивные
func (r *CatalogRepository) GetAll(ctx context.Context) ([]*domain.Service, error) {
	return r.queryServices(ctx,
		`SELECT `+serviceColumns+` FROM services ORDER BY category, name`,
	)
}

// Create добавляет новую услугу
func (r *CatalogRepository) Create(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO services (name, description, category, price, min_quantity, max_quantity,
		                       is_active, delivery_time, quality, provider_name, provider_service_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		service.Name, service.Description, service.Category, service.Price,
		service.MinQuantity, service.MaxQuantity, service.IsActive,
		service.DeliveryTime, service.Quality, service.ProviderName, service.ProviderServiceID,
	).Scan(&service.ID, &service.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to create service %q: %w", service.Name, err)
	}

	return service, nil
}

// Update обновляет услугу
func (r *CatalogRepository) Update(ctx context.Context, service *domain.Service) error {
	result, err := r.db.Exec(ctx,
		`UPDATE services
		 SET name = $1, description = $2, category = $3, price = $4,
		     min_quantity = $5, max_quantity = $6, is_active = $7,
		     delivery_time = $8, quality = $9, provider_name = $10, provider_service_id = $11
		 WHERE id = $12`,
		service.Name, service.Description, service.Category, service.Price,
		service.MinQuantity, service.MaxQuantity, service.IsActive,
		service.DeliveryTime, service.Quality, service.ProviderName, service.ProviderServiceID,
		service.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update service %d: %w", service.ID, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrServiceNotFound
	}

	return nil
}

// Delete удаляет услугу
func (r *CatalogRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete service %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrServiceNotFound
	}

	return nil
}

func (r *CatalogRepository) queryServices(ctx context.Context, sql string, args ...any) ([]*domain.Service, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query services: %w", err)
	}
	defer rows.Close()

	var services []*domain.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan service: %w", err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating services: %w", err)
	}

	return services, nil
}
