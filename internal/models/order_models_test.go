package models

import "testing"

func TestCanTransitionOrderStatus(t *testing.T) {
	tests := []struct {
		name      string
		from      OrderStatus
		to        OrderStatus
		orderType OrderType
		want      bool
	}{
		{"pending to confirmed", OrderStatusPending, OrderStatusConfirmed, OrderTypePickup, true},
		{"pending skips to preparing", OrderStatusPending, OrderStatusPreparing, OrderTypePickup, false},
		{"pending skips to delivered", OrderStatusPending, OrderStatusDelivered, OrderTypePickup, false},
		{"confirmed to preparing", OrderStatusConfirmed, OrderStatusPreparing, OrderTypeDineIn, true},
		{"confirmed back to pending", OrderStatusConfirmed, OrderStatusPending, OrderTypeDineIn, false},
		{"preparing to ready", OrderStatusPreparing, OrderStatusReady, OrderTypeDelivery, true},
		{"ready to out_for_delivery for delivery", OrderStatusReady, OrderStatusOutForDelivery, OrderTypeDelivery, true},
		{"ready straight to delivered for delivery", OrderStatusReady, OrderStatusDelivered, OrderTypeDelivery, false},
		{"ready to delivered for pickup", OrderStatusReady, OrderStatusDelivered, OrderTypePickup, true},
		{"ready to delivered for dine-in", OrderStatusReady, OrderStatusDelivered, OrderTypeDineIn, true},
		{"ready to out_for_delivery for dine-in", OrderStatusReady, OrderStatusOutForDelivery, OrderTypeDineIn, false},
		{"out_for_delivery to delivered", OrderStatusOutForDelivery, OrderStatusDelivered, OrderTypeDelivery, true},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusConfirmed, OrderTypeDelivery, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, OrderTypePickup, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransitionOrderStatus(tt.from, tt.to, tt.orderType); got != tt.want {
				t.Errorf("CanTransitionOrderStatus(%s, %s, %s) = %v, want %v", tt.from, tt.to, tt.orderType, got, tt.want)
			}
		})
	}
}

func TestCanCancelOrderFrom(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusConfirmed, false},
		{OrderStatusPreparing, true},
		{OrderStatusReady, false},
		{OrderStatusOutForDelivery, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := CanCancelOrderFrom(tt.status); got != tt.want {
				t.Errorf("CanCancelOrderFrom(%s) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestIsTerminalOrderStatus(t *testing.T) {
	terminal := map[OrderStatus]bool{
		OrderStatusDelivered: true,
		OrderStatusCancelled: true,
	}
	all := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusCancelled,
	}
	for _, status := range all {
		if got := IsTerminalOrderStatus(status); got != terminal[status] {
			t.Errorf("IsTerminalOrderStatus(%s) = %v, want %v", status, got, terminal[status])
		}
	}
}

func TestIsValidOrderTypeAndStatus(t *testing.T) {
	if !IsValidOrderType("dine-in") {
		t.Error(`IsValidOrderType("dine-in") = false`)
	}
	if IsValidOrderType("dinein") {
		t.Error(`IsValidOrderType("dinein") = true`)
	}
	if !IsValidOrderStatus("out_for_delivery") {
		t.Error(`IsValidOrderStatus("out_for_delivery") = false`)
	}
	if IsValidOrderStatus("shipped") {
		t.Error(`IsValidOrderStatus("shipped") = true`)
	}
}
