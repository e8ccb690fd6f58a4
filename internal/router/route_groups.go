package router

import (
	"restaurant_ops_backend/internal/handlers"
	"restaurant_ops_backend/internal/middleware"
	"restaurant_ops_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupOrderRoutes sets up the order routes. Customers may create and read
// their own orders; lifecycle transitions are staff actions.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)

		staffRoutes := orderRoutes.Group("")
		staffRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
		{
			staffRoutes.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
			staffRoutes.PATCH("/:id/cancel", orderHandler.CancelOrder)
		}
	}
}

// SetupTableRoutes sets up the dining table and coordinator routes.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	tableRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		tableRoutes.POST("", tableHandler.CreateTable)
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/:id", tableHandler.GetTableByID)
		tableRoutes.PUT("/:id", tableHandler.UpdateTable)
		tableRoutes.DELETE("/:id", tableHandler.DeactivateTable)

		tableRoutes.PATCH("/:id/status", tableHandler.SetTableStatus)
		tableRoutes.PATCH("/:id/assign-order", tableHandler.AssignOrder)
		tableRoutes.PATCH("/:id/add-items", tableHandler.AddItems)
		tableRoutes.PATCH("/:id/free", tableHandler.FreeTable)
	}
}

// SetupMenuCategoryRoutes sets up the menu category routes. Reads are open to
// any authenticated user; writes are admin-only.
func SetupMenuCategoryRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	categoryRoutes := authenticatedGroup.Group("/menu-categories")
	{
		categoryRoutes.GET("", menuHandler.GetCategories)
		categoryRoutes.GET("/:id", menuHandler.GetCategoryByID)

		adminRoutes := categoryRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.POST("", menuHandler.CreateCategory)
			adminRoutes.PUT("/:id", menuHandler.UpdateCategory)
			adminRoutes.DELETE("/:id", menuHandler.DeleteCategory)
		}
	}
}

// SetupMenuItemRoutes sets up the menu item routes.
func SetupMenuItemRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	itemRoutes := authenticatedGroup.Group("/menu-items")
	{
		itemRoutes.GET("", menuHandler.GetMenuItems)
		itemRoutes.GET("/:id", menuHandler.GetMenuItemByID)

		adminRoutes := itemRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.POST("", menuHandler.CreateMenuItem)
			adminRoutes.PUT("/:id", menuHandler.UpdateMenuItem)
			adminRoutes.DELETE("/:id", menuHandler.DeleteMenuItem)
		}
	}
}

// SetupReservationRoutes sets up the reservation routes.
func SetupReservationRoutes(authenticatedGroup *gin.RouterGroup, reservationHandler *handlers.ReservationHandler) {
	reservationRoutes := authenticatedGroup.Group("/reservations")
	{
		reservationRoutes.POST("", reservationHandler.CreateReservation)
		reservationRoutes.GET("", reservationHandler.GetReservations)
		reservationRoutes.GET("/:id", reservationHandler.GetReservationByID)

		staffRoutes := reservationRoutes.Group("")
		staffRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
		{
			staffRoutes.PATCH("/:id/seat", reservationHandler.SeatReservation)
			staffRoutes.PATCH("/:id/complete", reservationHandler.CompleteReservation)
			staffRoutes.PATCH("/:id/cancel", reservationHandler.CancelReservation)
			staffRoutes.PATCH("/:id/no-show", reservationHandler.MarkNoShow)
		}
	}
}

// SetupSettingsRoutes sets up the pricing settings routes. Reads are open to
// staff; section updates are admin-only.
func SetupSettingsRoutes(authenticatedGroup *gin.RouterGroup, settingsHandler *handlers.SettingsHandler) {
	settingsRoutes := authenticatedGroup.Group("/settings")
	settingsRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		settingsRoutes.GET("/pricing", settingsHandler.GetPricingSettings)

		adminRoutes := settingsRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.PUT("/pricing/tax", settingsHandler.UpdateTaxSettings)
			adminRoutes.PUT("/pricing/service-charge", settingsHandler.UpdateServiceChargeSettings)
			adminRoutes.PUT("/pricing/delivery", settingsHandler.UpdateDeliverySettings)
		}
	}
}
