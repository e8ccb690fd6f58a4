package services

import (
	"database/sql"
	"errors"
	"fmt"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// Menu errors.
var (
	ErrCategoryNotFound = errors.New("menu category not found")
	ErrCategoryInUse    = errors.New("menu category still has items")
	ErrCategoryExists   = errors.New("menu category name already exists")
	ErrMenuItemExists   = errors.New("menu item name already exists in this category")
	ErrInvalidPrice     = errors.New("menu item price must be non-negative")
)

// --- Data Transfer Objects (DTOs) ---

// CreateMenuCategoryRequest is used for creating a menu category.
type CreateMenuCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// CreateMenuItemRequest is used for creating a menu item.
type CreateMenuItemRequest struct {
	CategoryID   int64           `json:"category_id" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Description  *string         `json:"description"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	VatRateClass *string         `json:"vat_rate_class"`
	IsAvailable  *bool           `json:"is_available"`
}

// UpdateMenuItemRequest is used for updating a menu item. Nil fields keep
// the stored value.
type UpdateMenuItemRequest struct {
	CategoryID   *int64           `json:"category_id"`
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	VatRateClass *string          `json:"vat_rate_class"`
	IsAvailable  *bool            `json:"is_available"`
}

// --- MenuService Interface ---

type MenuService interface {
	CreateCategory(req CreateMenuCategoryRequest) (*models.MenuCategory, error)
	GetCategories() ([]models.MenuCategory, error)
	GetCategoryByID(categoryID int64) (*models.MenuCategory, error)
	UpdateCategory(categoryID int64, req CreateMenuCategoryRequest) (*models.MenuCategory, error)
	DeleteCategory(categoryID int64) error

	CreateMenuItem(req CreateMenuItemRequest) (*models.MenuItem, error)
	GetMenuItems(filters models.MenuItemFilters) ([]models.MenuItem, error)
	GetMenuItemByID(itemID int64) (*models.MenuItem, error)
	UpdateMenuItem(itemID int64, req UpdateMenuItemRequest) (*models.MenuItem, error)
	DeleteMenuItem(itemID int64) error
}

// --- menuService Implementation ---

type menuService struct {
	menuRepo repositories.MenuRepository
	db       *sql.DB
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(menuRepo repositories.MenuRepository, db *sql.DB) MenuService {
	return &menuService{menuRepo: menuRepo, db: db}
}

// --- Category Methods ---

func (s *menuService) CreateCategory(req CreateMenuCategoryRequest) (*models.MenuCategory, error) {
	category := models.MenuCategory{
		Name:        req.Name,
		Description: req.Description,
	}
	if _, err := s.menuRepo.CreateCategory(s.db, &category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %q", ErrCategoryExists, req.Name)
		}
		return nil, fmt.Errorf("failed to create menu category: %w", err)
	}
	return &category, nil
}

func (s *menuService) GetCategories() ([]models.MenuCategory, error) {
	categories, err := s.menuRepo.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to get menu categories: %w", err)
	}
	return categories, nil
}

func (s *menuService) GetCategoryByID(categoryID int64) (*models.MenuCategory, error) {
	category, err := s.menuRepo.GetCategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get menu category: %w", err)
	}
	return category, nil
}

func (s *menuService) UpdateCategory(categoryID int64, req CreateMenuCategoryRequest) (*models.MenuCategory, error) {
	category := models.MenuCategory{
		ID:          categoryID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.menuRepo.UpdateCategory(s.db, &category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %q", ErrCategoryExists, req.Name)
		}
		return nil, fmt.Errorf("failed to update menu category: %w", err)
	}
	return s.GetCategoryByID(categoryID)
}

func (s *menuService) DeleteCategory(categoryID int64) error {
	// Items hold a FK to their category; deleting a non-empty category would
	// orphan or cascade them, so refuse instead.
	items, err := s.menuRepo.GetMenuItems(models.MenuItemFilters{CategoryID: &categoryID})
	if err != nil {
		return fmt.Errorf("failed to check category items: %w", err)
	}
	if len(items) > 0 {
		return fmt.Errorf("%w: %d item(s) attached", ErrCategoryInUse, len(items))
	}

	if err := s.menuRepo.DeleteCategory(s.db, categoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete menu category: %w", err)
	}
	return nil
}

// --- Item Methods ---

func (s *menuService) CreateMenuItem(req CreateMenuItemRequest) (*models.MenuItem, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPrice, req.Price)
	}
	if _, err := s.GetCategoryByID(req.CategoryID); err != nil {
		return nil, err
	}

	rateClass := models.VatRateClassStandard
	if req.VatRateClass != nil {
		if !models.IsValidVatRateClass(*req.VatRateClass) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRateClass, *req.VatRateClass)
		}
		rateClass = models.VatRateClass(*req.VatRateClass)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item := models.MenuItem{
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		VatRateClass: rateClass,
		IsAvailable:  available,
	}
	if _, err := s.menuRepo.CreateMenuItem(s.db, &item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %q", ErrMenuItemExists, req.Name)
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return s.GetMenuItemByID(item.ID)
}

func (s *menuService) GetMenuItems(filters models.MenuItemFilters) ([]models.MenuItem, error) {
	items, err := s.menuRepo.GetMenuItems(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

func (s *menuService) GetMenuItemByID(itemID int64) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetMenuItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) UpdateMenuItem(itemID int64, req UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.GetMenuItemByID(itemID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.GetCategoryByID(*req.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: got %s", ErrInvalidPrice, req.Price)
		}
		item.Price = *req.Price
	}
	if req.VatRateClass != nil {
		if !models.IsValidVatRateClass(*req.VatRateClass) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRateClass, *req.VatRateClass)
		}
		item.VatRateClass = models.VatRateClass(*req.VatRateClass)
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.menuRepo.UpdateMenuItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %q", ErrMenuItemExists, item.Name)
		}
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return s.GetMenuItemByID(itemID)
}

func (s *menuService) DeleteMenuItem(itemID int64) error {
	if err := s.menuRepo.DeleteMenuItem(s.db, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}
