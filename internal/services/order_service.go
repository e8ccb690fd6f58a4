package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"
	"restaurant_ops_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order errors.
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidOrderStatus     = errors.New("invalid order status")
	ErrInvalidOrderType       = errors.New("invalid order type")
	ErrInvalidTransition      = errors.New("order status transition not permitted")
	ErrOrderFinalized         = errors.New("order is finalized and can no longer change")
	ErrCannotCancel           = errors.New("order can no longer be cancelled")
	ErrEmptyOrder             = errors.New("order must contain at least one item")
	ErrMenuItemNotFound       = errors.New("menu item not found")
	ErrMenuItemUnavailable    = errors.New("menu item is not available")
	ErrMissingDeliveryAddress = errors.New("delivery orders require a delivery address")
	ErrTableNotAllowed        = errors.New("only dine-in orders may reference a table")
)

// --- Data Transfer Objects (DTOs) ---

// CreateOrderItemRequest is used for creating individual order items.
type CreateOrderItemRequest struct {
	MenuItemID int64  `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	Notes      string `json:"notes"`
}

// CreateOrderRequest is used for creating a new order.
// TableID is only consulted for dine-in orders; the actual table linkage
// goes through the order/table coordinator after the order exists.
type CreateOrderRequest struct {
	OrderType       string                   `json:"order_type" binding:"required"`
	DeliveryAddress *string                  `json:"delivery_address"`
	TableID         *int64                   `json:"table_id"`
	Notes           *string                  `json:"notes"`
	VatRateClass    *string                  `json:"vat_rate_class"` // optional VAT band override
	OrderItems      []CreateOrderItemRequest `json:"order_items" binding:"required,dive"`
}

// UpdateOrderStatusRequest is used for advancing the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- OrderService Interface ---

type OrderService interface {
	CreateOrder(customerID *int64, req CreateOrderRequest) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	CancelOrder(orderID int64) (*models.Order, error)
}

// --- orderService Implementation ---

type orderService struct {
	orderRepo    repositories.OrderRepository
	menuRepo     repositories.MenuRepository
	settingsServ SettingsService
	db           *sql.DB // For managing transactions
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	mr repositories.MenuRepository,
	ss SettingsService,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:    or,
		menuRepo:     mr,
		settingsServ: ss,
		db:           db,
	}
}

// generateOrderNumber produces a unique, human-readable order identifier,
// e.g. ORD-20250114-3FA2B1. Uniqueness is backed by a DB constraint; the
// uuid-derived suffix keeps collisions out of normal operation.
func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// computeItemsSubtotal sums unit price x quantity across the given items.
func computeItemsSubtotal(items []models.OrderItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	return subtotal
}

// resolveOrderItems validates each requested line against the menu and
// snapshots the current catalog price. Later menu price changes never
// retroactively affect an existing order. Shared with the order/table
// coordinator, which appends items to in-progress dine-in orders.
func resolveOrderItems(menuRepo repositories.MenuRepository, reqs []CreateOrderItemRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqs))
	for _, itemReq := range reqs {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for menu item %d must be positive", ErrEmptyOrder, itemReq.MenuItemID)
		}
		menuItem, err := menuRepo.GetMenuItemByID(itemReq.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: menu item %d", ErrMenuItemNotFound, itemReq.MenuItemID)
			}
			return nil, fmt.Errorf("failed to fetch menu item %d: %w", itemReq.MenuItemID, err)
		}
		if !menuItem.IsAvailable {
			return nil, fmt.Errorf("%w: %s (ID: %d)", ErrMenuItemUnavailable, menuItem.Name, menuItem.ID)
		}

		quantity := decimal.NewFromInt(int64(itemReq.Quantity))
		items = append(items, models.OrderItem{
			MenuItemID:   menuItem.ID,
			Quantity:     itemReq.Quantity,
			UnitPrice:    menuItem.Price,
			TotalPrice:   menuItem.Price.Mul(quantity),
			VatRateClass: menuItem.VatRateClass,
			Notes:        utils.NewNullString(itemReq.Notes),
		})
	}
	return items, nil
}

func (s *orderService) CreateOrder(customerID *int64, req CreateOrderRequest) (*models.Order, error) {
	if !models.IsValidOrderType(req.OrderType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderType, req.OrderType)
	}
	orderType := models.OrderType(req.OrderType)

	if len(req.OrderItems) == 0 {
		return nil, ErrEmptyOrder
	}
	if orderType == models.OrderTypeDelivery && (req.DeliveryAddress == nil || utils.IsEmpty(*req.DeliveryAddress)) {
		return nil, ErrMissingDeliveryAddress
	}
	if req.TableID != nil && orderType != models.OrderTypeDineIn {
		return nil, ErrTableNotAllowed
	}

	opts := PricingOptions{OrderType: orderType}
	if req.VatRateClass != nil {
		if !models.IsValidVatRateClass(*req.VatRateClass) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRateClass, *req.VatRateClass)
		}
		override := models.VatRateClass(*req.VatRateClass)
		opts.VatRateClassOverride = &override
	}

	itemsToCreate, err := resolveOrderItems(s.menuRepo, req.OrderItems)
	if err != nil {
		return nil, err
	}
	subtotal := computeItemsSubtotal(itemsToCreate)

	rules, err := s.settingsServ.GetPricingRules()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pricing rules: %w", err)
	}
	breakdown, err := CalculatePricing(subtotal, rules, opts)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := models.Order{
		OrderNumber:     generateOrderNumber(now),
		CustomerID:      customerID,
		OrderType:       orderType,
		Status:          models.OrderStatusPending,
		TableID:         nil, // table linkage goes through the coordinator
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Pricing:         breakdown.Rounded(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	createdOrderID, err := s.orderRepo.CreateOrder(tx, &order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}

	for _, item := range itemsToCreate {
		item.OrderID = createdOrderID
		if _, err := s.orderRepo.CreateOrderItem(tx, &item); err != nil {
			return nil, fmt.Errorf("failed to create order item (menu_item_id: %d): %w", item.MenuItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	return s.GetOrderByID(createdOrderID)
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}

	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		// Order header is valid on its own; log and return it without items.
		utils.LogError(err, fmt.Sprintf("failed to get order items for order ID %d", orderID))
	}
	order.OrderItems = items

	return order, nil
}

func (s *orderService) UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, req.Status)
	}
	newStatus := models.OrderStatus(req.Status)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Row lock so two concurrent staff actions cannot both pass the edge check.
	currentOrder, err := s.orderRepo.GetOrderByIDForUpdate(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order for status update: %w", err)
	}

	if models.IsTerminalOrderStatus(currentOrder.Status) {
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderFinalized, currentOrder.OrderNumber, currentOrder.Status)
	}

	if newStatus == models.OrderStatusCancelled {
		if !models.CanCancelOrderFrom(currentOrder.Status) {
			return nil, fmt.Errorf("%w: order %s is %s", ErrCannotCancel, currentOrder.OrderNumber, currentOrder.Status)
		}
	} else if !models.CanTransitionOrderStatus(currentOrder.Status, newStatus, currentOrder.OrderType) {
		return nil, fmt.Errorf("%w: %s -> %s for %s order", ErrInvalidTransition, currentOrder.Status, newStatus, currentOrder.OrderType)
	}

	if err := s.orderRepo.UpdateOrderStatus(tx, orderID, newStatus, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction for order status update: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) CancelOrder(orderID int64) (*models.Order, error) {
	return s.UpdateOrderStatus(orderID, UpdateOrderStatusRequest{Status: string(models.OrderStatusCancelled)})
}
