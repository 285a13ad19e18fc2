// Package routes wires repositories into services and services into the
// HTTP surface.
package routes

import (
	"log/slog"

	"github.com/Raghu0511/canteen-backend/internal/config"
	"github.com/Raghu0511/canteen-backend/internal/handlers"
	"github.com/Raghu0511/canteen-backend/internal/middleware"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/notify"
	"github.com/Raghu0511/canteen-backend/internal/repositories"
	"github.com/Raghu0511/canteen-backend/internal/repositories/cache"
	"github.com/Raghu0511/canteen-backend/internal/services/catalog"
	"github.com/Raghu0511/canteen-backend/internal/services/orders"
	"github.com/Raghu0511/canteen-backend/internal/services/placement"
	"github.com/Raghu0511/canteen-backend/internal/services/tokens"
	"github.com/Raghu0511/canteen-backend/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Services is the application layer shared by the server and the seed command.
type Services struct {
	Catalog   catalog.Service
	Wallet    wallet.Service
	Tokens    tokens.Service
	Orders    orders.Service
	Placement placement.Service
}

// NewServices builds every service on top of db. Cache entries use the
// configured Redis TTL.
func NewServices(db *gorm.DB, cacheService *cache.CacheService, events notify.Publisher, cfg *config.Config, log *slog.Logger) *Services {
	if events == nil {
		events = notify.NoopPublisher{}
	}
	txm := repositories.NewTxManager(db)

	catalogService := catalog.NewService(
		repositories.NewMenuRepository(db),
		cacheService,
		cfg.Redis.TTL,
		log.With(slog.String("component", "catalog")),
	)
	walletService := wallet.NewService(
		repositories.NewWalletRepository(db, txm),
		txm,
		cacheService,
		wallet.WalletConfig{ProfileTTL: cfg.Redis.TTL},
		&wallet.LogMetricsCollector{Log: log.With(slog.String("component", "wallet"))},
		log.With(slog.String("component", "wallet")),
	)
	tokenService := tokens.NewService(
		repositories.NewTokenRepository(db, txm),
		events,
		log.With(slog.String("component", "tokens")),
	)
	orderService := orders.NewService(
		repositories.NewOrderRepository(db, txm),
		txm,
		tokenService,
		walletService,
		events,
		log.With(slog.String("component", "orders")),
	)
	placementService := placement.NewService(placement.Deps{
		Tx:     txm,
		Menu:   catalogService,
		Wallet: walletService,
		Orders: orderService,
		Slots:  tokenService,
		Events: events,
		Log:    log.With(slog.String("component", "placement")),
	}, cfg.PlacementTimeout)

	return &Services{
		Catalog:   catalogService,
		Wallet:    walletService,
		Tokens:    tokenService,
		Orders:    orderService,
		Placement: placementService,
	}
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, svc *Services, health *handlers.HealthHandler, cfg *config.Config, log *slog.Logger) {
	orderHandler := handlers.NewOrderHandler(svc.Placement, svc.Orders)
	menuHandler := handlers.NewMenuHandler(svc.Catalog)
	walletHandler := handlers.NewWalletHandler(svc.Wallet)
	staffHandler := handlers.NewStaffHandler(svc.Catalog, svc.Tokens, svc.Orders, log)
	managerHandler := handlers.NewManagerHandler(svc.Wallet, log)

	app.Get("/", health.Root)
	app.Get("/health", health.Health)

	// Student endpoints
	api := app.Group("/api")
	api.Get("/menu", menuHandler.Menu)
	api.Post("/order", orderHandler.PlaceOrder)
	api.Get("/orders/:regNo", orderHandler.History)
	api.Get("/order/:orderId/status", orderHandler.Status)
	api.Get("/profile/:regNo", walletHandler.Profile)
	api.Post("/wallet/add", walletHandler.TopUp)
	api.Get("/wallet/:regNo/transactions", walletHandler.Transactions)

	auth := middleware.NewAuthMiddleware(cfg.JWTSecret, log)
	setupStaffRoutes(api, auth, staffHandler)
	setupManagerRoutes(api, auth, managerHandler)
}

func setupStaffRoutes(api fiber.Router, auth *middleware.AuthMiddleware, h *handlers.StaffHandler) {
	staff := api.Group("/staff", auth.Handler, middleware.RequireRole(models.RoleStaff))

	staff.Get("/menu", h.Menu)
	staff.Put("/menu/:itemId/availability", middleware.HasPermission(models.PermissionMenuWrite), h.SetAvailability)

	staff.Get("/tokens", h.Tokens)
	staff.Put("/tokens/:tokenId/status", middleware.HasPermission(models.PermissionTokenWrite), h.AdvanceToken)
	staff.Post("/tokens/:tokenId/release", middleware.HasPermission(models.PermissionTokenWrite), h.ReleaseToken)

	staff.Put("/orders/:orderId/status", middleware.HasPermission(models.PermissionOrderWrite), h.UpdateOrderStatus)
}

func setupManagerRoutes(api fiber.Router, auth *middleware.AuthMiddleware, h *handlers.ManagerHandler) {
	manager := api.Group("/manager", auth.Handler, middleware.RequireRole(models.RoleManager))

	manager.Post("/fetch-student", middleware.HasPermission(models.PermissionWalletRead), h.FetchStudent)
	manager.Post("/update-wallet", middleware.HasPermission(models.PermissionWalletWrite), h.UpdateWallet)
	manager.Get("/wallet/:regNo/reconcile", middleware.HasPermission(models.PermissionWalletRead), h.Reconcile)
}
