package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Adambhr/Socpanel/internal/domain"
)

// CatalogService определяет методы работы с каталогом услуг.
type CatalogService interface {
	GetActiveServices(ctx context.Context) ([]*domain.Service, error)
	GetServicesByCategory(ctx context.Context, category string) ([]*domain.Service, error)
	GetAllServices(ctx context.Context) ([]*domain.Service, error)
	AddService(ctx context.Context, service *domain.Service) (*domain.Service, error)
	UpdateService(ctx context.Context, service *domain.Service) error
	DeleteService(ctx context.Context, id int64) error
}

type ServicesHandler struct {
	catalogService CatalogService
	logger         *zap.Logger
}

func NewServicesHandler(catalogService CatalogService, logger *zap.Logger) *ServicesHandler {
	return &ServicesHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// GetServices возвращает активные услуги, опционально по категории
func (h *ServicesHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	var services []*domain.Service
	var err error

	if category := r.URL.Query().Get("category"); category != "" {
		services, err = h.catalogService.GetServicesByCategory(r.Context(), category)
	} else {
		services, err = h.catalogService.GetActiveServices(r.Context())
	}

	if err != nil {
		h.logger.Error("failed to get services", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if len(services) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(services); err != nil {
		h.logger.Error("failed to encode services response", zap.Error(err))
	}
}

// GetAllServices возвращает все услуги, включая неактивные (для администратора)
func (h *ServicesHandler) GetAllServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.GetAllServices(r.Context())
	if err != nil {
		h.logger.Error("failed to get all services", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if len(services) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(services); err != nil {
		h.logger.Error("failed to encode all services response", zap.Error(err))
	}
}

type serviceRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	MinQuantity       int             `json:"min_quantity"`
	MaxQuantity       int             `json:"max_quantity"`
	IsActive          bool            `json:"is_active"`
	DeliveryTime      string          `json:"delivery_time"`
	Quality           string          `json:"quality"`
	ProviderName      *string         `json:"provider_name,omitempty"`
	ProviderServiceID *string         `json:"provider_service_id,omitempty"`
}

func (req *serviceRequest) validate() bool {
	return req.Name != "" &&
		req.Price.IsPositive() &&
		req.MinQuantity > 0 &&
		req.MaxQuantity >= req.MinQuantity
}

func (req *serviceRequest) toDomain() *domain.Service {
	return &domain.Service{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		MinQuantity:       req.MinQuantity,
		MaxQuantity:       req.MaxQuantity,
		IsActive:          req.IsActive,
		DeliveryTime:      req.DeliveryTime,
		Quality:           req.Quality,
		ProviderName:      req.ProviderName,
		ProviderServiceID: req.ProviderServiceID,
	}
}

// AddService добавляет услугу в каталог (для администратора)
func (h *ServicesHandler) AddService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.validate() {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	service, err := h.catalogService.AddService(r.Context(), req.toDomain())
	if err != nil {
		h.logger.Error("failed to add service", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(service); err != nil {
		h.logger.Error("failed to encode service response", zap.Error(err))
	}
}

// UpdateService обновляет услугу каталога (для администратора)
func (h *ServicesHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseInt(chi.URLParam(r, "serviceID"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.validate() {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	service := req.toDomain()
	service.ID = serviceID

	if err := h.catalogService.UpdateService(r.Context(), service); err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update service", zap.Int64("service_id", serviceID), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteService удаляет услугу из каталога (для администратора)
func (h *ServicesHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseInt(chi.URLParam(r, "serviceID"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.catalogService.DeleteService(r.Context(), serviceID); err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete service", zap.Int64("service_id", serviceID), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
