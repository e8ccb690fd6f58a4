package handlers

import (
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service and the table coordinator.
type OrderHandler struct {
	orderService services.OrderService
	tableService services.TableService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService, ts services.TableService) *OrderHandler {
	return &OrderHandler{orderService: os, tableService: ts}
}

// CreateOrder handles order creation. For dine-in requests that carry a
// table_id it also seats the new order at that table; when seating fails the
// just-created order is cancelled so no unreachable pending order survives.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(currentUserID(c), req)
	if err != nil {
		utils.LogError(err, "CreateOrder: Error from orderService.CreateOrder")
		h.respondOrderError(c, err, "Failed to create order.")
		return
	}

	if req.TableID != nil && order.OrderType == models.OrderTypeDineIn {
		_, seated, assignErr := h.tableService.AssignOrderToTable(*req.TableID, order.ID)
		if assignErr != nil {
			utils.LogError(assignErr, "CreateOrder: table assignment failed, cancelling order "+order.OrderNumber)
			if _, cancelErr := h.orderService.CancelOrder(order.ID); cancelErr != nil {
				utils.LogError(cancelErr, "CreateOrder: failed to cancel order after assignment failure")
			}
			h.respondTableAssignError(c, assignErr)
			return
		}
		order = seated
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders lists orders with optional filters and pagination.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	orders, totalCount, err := h.orderService.GetOrders(filters)
	if err != nil {
		utils.LogError(err, "GetOrders: Error from orderService.GetOrders")
		respondStorageOrInternal(c, err, "Failed to retrieve orders.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        orders,
		"total_count": totalCount,
		"page":        filters.Page,
		"page_size":   filters.PageSize,
	})
}

// GetOrderByID retrieves a single order with its items.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		utils.LogError(err, "GetOrderByID: Error from orderService.GetOrderByID")
		h.respondOrderError(c, err, "Failed to retrieve order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus advances an order along its lifecycle.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateOrderStatus(orderID, req)
	if err != nil {
		utils.LogError(err, "UpdateOrderStatus: Error from orderService.UpdateOrderStatus")
		h.respondOrderError(c, err, "Failed to update order status.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels an order while cancellation is still allowed.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(orderID)
	if err != nil {
		utils.LogError(err, "CancelOrder: Error from orderService.CancelOrder")
		h.respondOrderError(c, err, "Failed to cancel order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// respondOrderError maps order-service errors onto the API envelope.
func (h *OrderHandler) respondOrderError(c *gin.Context, err error, publicMsg string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
	case errors.Is(err, services.ErrMenuItemNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
	case errors.Is(err, services.ErrMenuItemUnavailable):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Menu item is not available.", err.Error()))
	case errors.Is(err, services.ErrInvalidOrderStatus),
		errors.Is(err, services.ErrInvalidOrderType),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrMissingDeliveryAddress),
		errors.Is(err, services.ErrTableNotAllowed),
		errors.Is(err, services.ErrInvalidRateClass):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid order request.", err.Error()))
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrOrderFinalized),
		errors.Is(err, services.ErrCannotCancel):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Order state does not permit this operation.", err.Error()))
	default:
		respondStorageOrInternal(c, err, publicMsg)
	}
}

// respondTableAssignError maps coordinator errors raised during create-and-seat.
func (h *OrderHandler) respondTableAssignError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTableNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
	case errors.Is(err, services.ErrTableNotAvailable),
		errors.Is(err, services.ErrOrderAlreadySeated):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Table is not available for seating.", err.Error()))
	default:
		respondStorageOrInternal(c, err, "Failed to seat order at table.")
	}
}
