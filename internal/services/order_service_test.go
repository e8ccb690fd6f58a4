package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// stubMenuRepo serves a fixed catalog keyed by item ID.
type stubMenuRepo struct {
	items map[int64]models.MenuItem
}

func (s *stubMenuRepo) CreateCategory(executor repositories.SQLExecutor, category *models.MenuCategory) (int64, error) {
	return 0, nil
}
func (s *stubMenuRepo) GetCategories() ([]models.MenuCategory, error)           { return nil, nil }
func (s *stubMenuRepo) GetCategoryByID(categoryID int64) (*models.MenuCategory, error) {
	return nil, repositories.ErrNotFound
}
func (s *stubMenuRepo) UpdateCategory(executor repositories.SQLExecutor, category *models.MenuCategory) error {
	return nil
}
func (s *stubMenuRepo) DeleteCategory(executor repositories.SQLExecutor, categoryID int64) error {
	return nil
}
func (s *stubMenuRepo) CreateMenuItem(executor repositories.SQLExecutor, item *models.MenuItem) (int64, error) {
	return 0, nil
}
func (s *stubMenuRepo) GetMenuItems(filters models.MenuItemFilters) ([]models.MenuItem, error) {
	return nil, nil
}
func (s *stubMenuRepo) GetMenuItemByID(itemID int64) (*models.MenuItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &item, nil
}
func (s *stubMenuRepo) UpdateMenuItem(executor repositories.SQLExecutor, item *models.MenuItem) error {
	return nil
}
func (s *stubMenuRepo) DeleteMenuItem(executor repositories.SQLExecutor, itemID int64) error {
	return nil
}

func testMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{items: map[int64]models.MenuItem{
		1: {ID: 1, Name: "Margherita", Price: decimal.RequireFromString("8.50"), VatRateClass: models.VatRateClassStandard, IsAvailable: true},
		2: {ID: 2, Name: "Sparkling Water", Price: decimal.RequireFromString("2.00"), VatRateClass: models.VatRateClassZero, IsAvailable: true},
		3: {ID: 3, Name: "Seasonal Special", Price: decimal.RequireFromString("14.00"), VatRateClass: models.VatRateClassStandard, IsAvailable: false},
	}}
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2025, time.January, 14, 18, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^ORD-20250114-[0-9A-F]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number := generateOrderNumber(now)
		if !pattern.MatchString(number) {
			t.Fatalf("order number %q does not match expected format", number)
		}
		if seen[number] {
			t.Fatalf("duplicate order number generated: %q", number)
		}
		seen[number] = true
	}
}

func TestComputeItemsSubtotal(t *testing.T) {
	items := []models.OrderItem{
		{TotalPrice: decimal.RequireFromString("17.00")},
		{TotalPrice: decimal.RequireFromString("2.00")},
		{TotalPrice: decimal.RequireFromString("0.50")},
	}
	if got := computeItemsSubtotal(items); !got.Equal(decimal.RequireFromString("19.50")) {
		t.Errorf("computeItemsSubtotal = %s, want 19.50", got)
	}
	if got := computeItemsSubtotal(nil); !got.Equal(decimal.Zero) {
		t.Errorf("computeItemsSubtotal(nil) = %s, want 0", got)
	}
}

func TestResolveOrderItems(t *testing.T) {
	menuRepo := testMenuRepo()

	items, err := resolveOrderItems(menuRepo, []CreateOrderItemRequest{
		{MenuItemID: 1, Quantity: 2},
		{MenuItemID: 2, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("resolveOrderItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	if !items[0].UnitPrice.Equal(decimal.RequireFromString("8.50")) {
		t.Errorf("UnitPrice = %s, want snapshot of 8.50", items[0].UnitPrice)
	}
	if !items[0].TotalPrice.Equal(decimal.RequireFromString("17.00")) {
		t.Errorf("TotalPrice = %s, want 17.00", items[0].TotalPrice)
	}
	if items[1].VatRateClass != models.VatRateClassZero {
		t.Errorf("VatRateClass = %s, want zero band carried from menu item", items[1].VatRateClass)
	}
}

func TestResolveOrderItemsErrors(t *testing.T) {
	menuRepo := testMenuRepo()

	tests := []struct {
		name    string
		reqs    []CreateOrderItemRequest
		wantErr error
	}{
		{"unknown menu item", []CreateOrderItemRequest{{MenuItemID: 99, Quantity: 1}}, ErrMenuItemNotFound},
		{"unavailable menu item", []CreateOrderItemRequest{{MenuItemID: 3, Quantity: 1}}, ErrMenuItemUnavailable},
		{"zero quantity", []CreateOrderItemRequest{{MenuItemID: 1, Quantity: 0}}, ErrEmptyOrder},
		{"negative quantity", []CreateOrderItemRequest{{MenuItemID: 1, Quantity: -2}}, ErrEmptyOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := resolveOrderItems(menuRepo, tt.reqs); !errors.Is(err, tt.wantErr) {
				t.Errorf("resolveOrderItems error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
