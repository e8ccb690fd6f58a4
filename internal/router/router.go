package router

import (
	"database/sql"

	"restaurant_ops_backend/internal/handlers"
	"restaurant_ops_backend/internal/middleware"
	"restaurant_ops_backend/internal/repositories"
	"restaurant_ops_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	settingsService := services.NewSettingsService(settingsRepo)
	menuService := services.NewMenuService(menuRepo, db)
	orderService := services.NewOrderService(orderRepo, menuRepo, settingsService, db)
	tableService := services.NewTableService(tableRepo, orderRepo, menuRepo, settingsService, db)
	reservationService := services.NewReservationService(reservationRepo, tableRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	menuHandler := handlers.NewMenuHandler(menuService)
	orderHandler := handlers.NewOrderHandler(orderService, tableService)
	tableHandler := handlers.NewTableHandler(tableService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupOrderRoutes(authenticated, orderHandler)
		SetupTableRoutes(authenticated, tableHandler)
		SetupMenuCategoryRoutes(authenticated, menuHandler)
		SetupMenuItemRoutes(authenticated, menuHandler)
		SetupReservationRoutes(authenticated, reservationHandler)
		SetupSettingsRoutes(authenticated, settingsHandler)
	}
}
