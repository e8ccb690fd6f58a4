package models

import "time"

// TableStatus defines the type for dining table occupancy statuses.
type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
	TableStatusCleaning  TableStatus = "cleaning"
)

// IsValidTableStatus checks if the provided status string is a valid TableStatus.
func IsValidTableStatus(status string) bool {
	switch TableStatus(status) {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved, TableStatusCleaning:
		return true
	default:
		return false
	}
}

// DiningTable represents a physical table in the restaurant.
// Invariant at every write: Status == occupied <=> CurrentOrderID != nil.
// Occupancy may only be mutated through the order/table coordinator;
// direct staff edits are limited to the cleaning <-> available housekeeping
// transition, which has no order implications.
type DiningTable struct {
	ID             int64       `json:"id" db:"id"`
	TableNumber    string      `json:"table_number" db:"table_number" binding:"required"`
	Capacity       int         `json:"capacity" db:"capacity"`
	Location       *string     `json:"location,omitempty" db:"location"`
	Status         TableStatus `json:"status" db:"status"`
	CurrentOrderID *int64      `json:"current_order_id,omitempty" db:"current_order_id"`
	IsActive       bool        `json:"is_active" db:"is_active"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// IsAvailable reports whether the table can receive a new order.
func (t *DiningTable) IsAvailable() bool {
	return t.IsActive && t.Status == TableStatusAvailable
}

// OccupyWith transitions the table to occupied, holding the given order.
// Returns false if the table is not available; the table is left unchanged.
func (t *DiningTable) OccupyWith(orderID int64) bool {
	if !t.IsAvailable() {
		return false
	}
	t.Status = TableStatusOccupied
	t.CurrentOrderID = &orderID
	return true
}

// Free returns the table to available and clears the order reference.
// Idempotent with respect to already-available tables.
func (t *DiningTable) Free() {
	t.Status = TableStatusAvailable
	t.CurrentOrderID = nil
}

// Reserve places a hold on an available table. Returns false otherwise.
func (t *DiningTable) Reserve() bool {
	if !t.IsAvailable() {
		return false
	}
	t.Status = TableStatusReserved
	return true
}

// ReleaseReservation returns a reserved table to available.
// Returns false if the table is not reserved.
func (t *DiningTable) ReleaseReservation() bool {
	if t.Status != TableStatusReserved {
		return false
	}
	t.Status = TableStatusAvailable
	return true
}

// CanSetHousekeepingStatus reports whether a direct staff status edit is
// permitted. Only cleaning <-> available bypasses the coordinator; every
// other transition has order implications.
func (t *DiningTable) CanSetHousekeepingStatus(to TableStatus) bool {
	switch {
	case t.Status == TableStatusAvailable && to == TableStatusCleaning:
		return true
	case t.Status == TableStatusCleaning && to == TableStatusAvailable:
		return true
	case t.Status == TableStatusOccupied && to == TableStatusCleaning:
		// Occupied tables go through the coordinator's free operation first.
		return false
	default:
		return false
	}
}

// TableFilters defines the available filters for querying dining tables.
type TableFilters struct {
	Status          *string `form:"status"`
	Location        *string `form:"location"`
	MinCapacity     *int    `form:"min_capacity"`
	IncludeInactive bool    `form:"include_inactive"`
}
