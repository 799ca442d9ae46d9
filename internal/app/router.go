package app

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Adambhr/Socpanel/internal/handlers"
)

// setupRouter создает и настраивает роутер
func setupRouter(deps *dependencies, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	setupMiddleware(r, logger)

	// Маршруты
	setupRoutes(r, deps, logger)

	return r
}

// setupMiddleware настраивает middleware для роутера
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, deps *dependencies, logger *zap.Logger) {
	// Health check эндпоинты
	r.Get("/health", deps.handlers.health.Health)
	r.Get("/ready", deps.handlers.health.Ready)

	// Публичные эндпоинты
	r.Post("/api/user/register", deps.handlers.auth.Register)
	r.Post("/api/user/login", deps.handlers.auth.Login)

	// Защищенные эндпоинты
	r.Group(func(r chi.Router) {
		r.Use(handlers.AuthMiddleware(deps.jwtManager))

		r.Get("/api/services", deps.handlers.services.GetServices)

		r.Post("/api/user/orders", deps.handlers.orders.CreateOrder)
		r.Get("/api/user/orders", deps.handlers.orders.GetUserOrders)
		r.Get("/api/user/balance", deps.handlers.balance.GetBalance)
		r.Post("/api/user/balance/deposit", deps.handlers.balance.Deposit)
		r.Get("/api/user/transactions", deps.handlers.balance.GetTransactions)

		// Административные эндпоинты
		r.Group(func(r chi.Router) {
			r.Use(handlers.AdminMiddleware(deps.services.ledger, logger))

			r.Get("/api/admin/orders", deps.handlers.orders.GetAllOrders)
			r.Patch("/api/admin/orders/{orderID}", deps.handlers.orders.UpdateOrderStatus)
			r.Post("/api/admin/orders/{orderID}/refund", deps.handlers.orders.RefundOrder)

			r.Get("/api/admin/services", deps.handlers.services.GetAllServices)
			r.Post("/api/admin/services", deps.handlers.services.AddService)
			r.Put("/api/admin/services/{serviceID}", deps.handlers.services.UpdateService)
			r.Delete("/api/admin/services/{serviceID}", deps.handlers.services.DeleteService)
		})
	})
}
