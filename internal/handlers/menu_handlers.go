package handlers

import (
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// --- Category Handlers ---

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req services.CreateMenuCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	category, err := h.menuService.CreateCategory(req)
	if err != nil {
		utils.LogError(err, "CreateCategory: Error from menuService.CreateCategory")
		h.respondMenuError(c, err, "Failed to create menu category.")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *MenuHandler) GetCategories(c *gin.Context) {
	categories, err := h.menuService.GetCategories()
	if err != nil {
		utils.LogError(err, "GetCategories: Error from menuService.GetCategories")
		respondStorageOrInternal(c, err, "Failed to retrieve menu categories.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *MenuHandler) GetCategoryByID(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.menuService.GetCategoryByID(categoryID)
	if err != nil {
		utils.LogError(err, "GetCategoryByID: Error from menuService.GetCategoryByID")
		h.respondMenuError(c, err, "Failed to retrieve menu category.")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateMenuCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	category, err := h.menuService.UpdateCategory(categoryID, req)
	if err != nil {
		utils.LogError(err, "UpdateCategory: Error from menuService.UpdateCategory")
		h.respondMenuError(c, err, "Failed to update menu category.")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteCategory(categoryID); err != nil {
		utils.LogError(err, "DeleteCategory: Error from menuService.DeleteCategory")
		h.respondMenuError(c, err, "Failed to delete menu category.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu category deleted."})
}

// --- Item Handlers ---

func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req services.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.menuService.CreateMenuItem(req)
	if err != nil {
		utils.LogError(err, "CreateMenuItem: Error from menuService.CreateMenuItem")
		h.respondMenuError(c, err, "Failed to create menu item.")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	var filters models.MenuItemFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	items, err := h.menuService.GetMenuItems(filters)
	if err != nil {
		utils.LogError(err, "GetMenuItems: Error from menuService.GetMenuItems")
		respondStorageOrInternal(c, err, "Failed to retrieve menu items.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *MenuHandler) GetMenuItemByID(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.menuService.GetMenuItemByID(itemID)
	if err != nil {
		utils.LogError(err, "GetMenuItemByID: Error from menuService.GetMenuItemByID")
		h.respondMenuError(c, err, "Failed to retrieve menu item.")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.menuService.UpdateMenuItem(itemID, req)
	if err != nil {
		utils.LogError(err, "UpdateMenuItem: Error from menuService.UpdateMenuItem")
		h.respondMenuError(c, err, "Failed to update menu item.")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenuItem(itemID); err != nil {
		utils.LogError(err, "DeleteMenuItem: Error from menuService.DeleteMenuItem")
		h.respondMenuError(c, err, "Failed to delete menu item.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted."})
}

func (h *MenuHandler) respondMenuError(c *gin.Context, err error, publicMsg string) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrMenuItemNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu resource not found.", err.Error()))
	case errors.Is(err, services.ErrCategoryExists),
		errors.Is(err, services.ErrMenuItemExists),
		errors.Is(err, services.ErrCategoryInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Menu resource conflict.", err.Error()))
	case errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidRateClass):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid menu request.", err.Error()))
	default:
		respondStorageOrInternal(c, err, publicMsg)
	}
}
