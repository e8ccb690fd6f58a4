package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuCategory represents a category for menu items (starters, mains, drinks...).
type MenuCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItem represents a dish or drink on the menu. The price here is the
// live catalog price; orders snapshot it into their items at creation time.
type MenuItem struct {
	ID           int64           `json:"id" db:"id"`
	CategoryID   int64           `json:"category_id" db:"category_id" binding:"required"`
	Name         string          `json:"name" db:"name" binding:"required"`
	Description  *string         `json:"description,omitempty" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	VatRateClass VatRateClass    `json:"vat_rate_class" db:"vat_rate_class"`
	IsAvailable  bool            `json:"is_available" db:"is_available"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`

	Category *MenuCategory `json:"category,omitempty"` // For joining with Category
}

// MenuItemFilters defines the available filters for querying menu items.
type MenuItemFilters struct {
	CategoryID    *int64  `form:"category_id"`
	AvailableOnly bool    `form:"available_only"`
	Search        *string `form:"search"`
}
