package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType defines how an order is fulfilled.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDineIn   OrderType = "dine-in"
)

// IsValidOrderType checks if the provided string is a valid OrderType.
func IsValidOrderType(orderType string) bool {
	switch OrderType(orderType) {
	case OrderTypeDelivery, OrderTypePickup, OrderTypeDineIn:
		return true
	default:
		return false
	}
}

// OrderStatus defines the type for order lifecycle statuses.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// IsValidOrderStatus checks if the provided status string is a valid OrderStatus.
func IsValidOrderStatus(status string) bool {
	switch OrderStatus(status) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminalOrderStatus reports whether no further mutation is permitted.
func IsTerminalOrderStatus(status OrderStatus) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// CanCancelOrderFrom reports whether the standard cancel operation is allowed
// from the given status. Once preparation has progressed past "preparing",
// cancellation must go through a manual staff override, not this API.
func CanCancelOrderFrom(status OrderStatus) bool {
	return status == OrderStatusPending || status == OrderStatusPreparing
}

// CanTransitionOrderStatus reports whether the order lifecycle permits the
// directed edge from -> to for the given fulfilment type. Cancellation edges
// are handled separately by CanCancelOrderFrom.
func CanTransitionOrderStatus(from, to OrderStatus, orderType OrderType) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return to == OrderStatusPreparing
	case OrderStatusPreparing:
		return to == OrderStatusReady
	case OrderStatusReady:
		if orderType == OrderTypeDelivery {
			return to == OrderStatusOutForDelivery
		}
		return to == OrderStatusDelivered
	case OrderStatusOutForDelivery:
		return to == OrderStatusDelivered
	default:
		// delivered and cancelled are terminal
		return false
	}
}

// Order represents a placed order with its items and computed pricing breakdown.
type Order struct {
	ID              int64       `json:"id" db:"id"`
	OrderNumber     string      `json:"order_number" db:"order_number"`
	CustomerID      *int64      `json:"customer_id,omitempty" db:"customer_id"`
	OrderType       OrderType   `json:"order_type" db:"order_type"`
	Status          OrderStatus `json:"status" db:"status"`
	TableID         *int64      `json:"table_id,omitempty" db:"table_id"`
	DeliveryAddress *string     `json:"delivery_address,omitempty" db:"delivery_address"`
	Notes           *string     `json:"notes,omitempty" db:"notes"`

	Pricing PricingBreakdown `json:"pricing"`

	OrderItems []OrderItem `json:"order_items,omitempty"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`

	Customer *User        `json:"customer,omitempty"` // For joining with User details
	Table    *DiningTable `json:"table,omitempty"`    // For joining with DiningTable details
}

// HasTable reports whether the order currently holds a table reference.
// Only dine-in orders may ever hold one.
func (o *Order) HasTable() bool {
	return o.TableID != nil
}

// OrderItem is a single line of an order. UnitPrice is the menu price
// snapshotted at order time; later menu price changes never affect it.
type OrderItem struct {
	ID           int64           `json:"id" db:"id"`
	OrderID      int64           `json:"order_id" db:"order_id"`
	MenuItemID   int64           `json:"menu_item_id" db:"menu_item_id"`
	Quantity     int             `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price" db:"total_price"`
	VatRateClass VatRateClass    `json:"vat_rate_class" db:"vat_rate_class"`
	Notes        *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`

	MenuItem *MenuItem `json:"menu_item,omitempty"` // For joining with MenuItem details
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	CustomerID *int64  `form:"customer_id"`
	TableID    *int64  `form:"table_id"`
	OrderType  *string `form:"order_type"`
	Status     *string `form:"status"`
	Date       *string `form:"date"` // Expected format YYYY-MM-DD
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}
