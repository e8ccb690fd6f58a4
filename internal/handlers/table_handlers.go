package handlers

import (
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"
	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler holds the table service.
type TableHandler struct {
	tableService services.TableService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

// CreateTable handles dining table creation.
func (h *TableHandler) CreateTable(c *gin.Context) {
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.CreateTable(req)
	if err != nil {
		utils.LogError(err, "CreateTable: Error from tableService.CreateTable")
		if errors.Is(err, repositories.ErrDuplicateKey) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Table number already exists.", err.Error()))
			return
		}
		respondStorageOrInternal(c, err, "Failed to create table.")
		return
	}
	c.JSON(http.StatusCreated, table)
}

// GetTables lists tables with optional filters.
func (h *TableHandler) GetTables(c *gin.Context) {
	var filters models.TableFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	tables, err := h.tableService.GetTables(filters)
	if err != nil {
		utils.LogError(err, "GetTables: Error from tableService.GetTables")
		respondStorageOrInternal(c, err, "Failed to retrieve tables.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tables})
}

// GetTableByID retrieves a single table.
func (h *TableHandler) GetTableByID(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	table, err := h.tableService.GetTableByID(tableID)
	if err != nil {
		utils.LogError(err, "GetTableByID: Error from tableService.GetTableByID")
		h.respondTableError(c, err, "Failed to retrieve table.")
		return
	}
	c.JSON(http.StatusOK, table)
}

// UpdateTable edits table configuration.
func (h *TableHandler) UpdateTable(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.UpdateTable(tableID, req)
	if err != nil {
		utils.LogError(err, "UpdateTable: Error from tableService.UpdateTable")
		if errors.Is(err, repositories.ErrDuplicateKey) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Table number already exists.", err.Error()))
			return
		}
		h.respondTableError(c, err, "Failed to update table.")
		return
	}
	c.JSON(http.StatusOK, table)
}

// DeactivateTable soft-deletes a table.
func (h *TableHandler) DeactivateTable(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tableService.DeactivateTable(tableID); err != nil {
		utils.LogError(err, "DeactivateTable: Error from tableService.DeactivateTable")
		h.respondTableError(c, err, "Failed to deactivate table.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table deactivated."})
}

// SetTableStatus handles the housekeeping transition (cleaning <-> available).
func (h *TableHandler) SetTableStatus(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.SetHousekeepingStatus(tableID, req)
	if err != nil {
		utils.LogError(err, "SetTableStatus: Error from tableService.SetHousekeepingStatus")
		h.respondTableError(c, err, "Failed to update table status.")
		return
	}
	c.JSON(http.StatusOK, table)
}

// AssignOrder seats an order at the table.
func (h *TableHandler) AssignOrder(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, order, err := h.tableService.AssignOrderToTable(tableID, req.OrderID)
	if err != nil {
		utils.LogError(err, "AssignOrder: Error from tableService.AssignOrderToTable")
		h.respondTableError(c, err, "Failed to assign order to table.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": table, "order": order})
}

// AddItems appends items to the occupied table's order.
func (h *TableHandler) AddItems(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, order, err := h.tableService.AddItemsToTableOrder(tableID, req)
	if err != nil {
		utils.LogError(err, "AddItems: Error from tableService.AddItemsToTableOrder")
		h.respondTableError(c, err, "Failed to add items to table order.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": table, "order": order})
}

// FreeTable returns the table to available and unlinks its order.
func (h *TableHandler) FreeTable(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	table, err := h.tableService.FreeTable(tableID)
	if err != nil {
		utils.LogError(err, "FreeTable: Error from tableService.FreeTable")
		h.respondTableError(c, err, "Failed to free table.")
		return
	}
	c.JSON(http.StatusOK, table)
}

// respondTableError maps table/coordinator errors onto the API envelope.
func (h *TableHandler) respondTableError(c *gin.Context, err error, publicMsg string) {
	switch {
	case errors.Is(err, services.ErrTableNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
	case errors.Is(err, services.ErrMenuItemNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
	case errors.Is(err, services.ErrInvalidTableStatus),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrOrderFinalized):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid table request.", err.Error()))
	case errors.Is(err, services.ErrTableNotAvailable),
		errors.Is(err, services.ErrTableNotOccupied),
		errors.Is(err, services.ErrTableOccupied),
		errors.Is(err, services.ErrOrderAlreadySeated),
		errors.Is(err, services.ErrMenuItemUnavailable):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Table state does not permit this operation.", err.Error()))
	default:
		respondStorageOrInternal(c, err, publicMsg)
	}
}
