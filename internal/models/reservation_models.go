package models

import "time"

// ReservationStatus defines the type for reservation statuses.
type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusSeated    ReservationStatus = "seated"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusNoShow    ReservationStatus = "no-show"
)

// IsValidReservationStatus checks if the provided status string is a valid ReservationStatus.
func IsValidReservationStatus(status string) bool {
	switch ReservationStatus(status) {
	case ReservationStatusConfirmed,
		ReservationStatusSeated,
		ReservationStatusCompleted,
		ReservationStatusCancelled,
		ReservationStatusNoShow:
		return true
	default:
		return false
	}
}

// Reservation represents a time-windowed hold on a dining table.
type Reservation struct {
	ID         int64             `json:"id" db:"id"`
	TableID    int64             `json:"table_id" db:"table_id" binding:"required"`
	CustomerID *int64            `json:"customer_id,omitempty" db:"customer_id"`
	GuestName  string            `json:"guest_name" db:"guest_name" binding:"required"`
	PartySize  int               `json:"party_size" db:"party_size" binding:"required,gt=0"`
	StartTime  time.Time         `json:"start_time" db:"start_time" binding:"required"`
	EndTime    time.Time         `json:"end_time" db:"end_time" binding:"required"`
	Status     ReservationStatus `json:"status" db:"status"`
	Notes      *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`

	Table    *DiningTable `json:"table,omitempty"`    // For joining with DiningTable details
	Customer *User        `json:"customer,omitempty"` // For joining with User details
}

// ReservationFilters defines the available filters for querying reservations.
type ReservationFilters struct {
	TableID    *int64     `form:"table_id"`
	CustomerID *int64     `form:"customer_id"`
	Status     *string    `form:"status"`
	DateFrom   *time.Time `form:"date_from"`
	DateTo     *time.Time `form:"date_to"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}
