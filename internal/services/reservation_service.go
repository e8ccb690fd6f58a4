package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"
)

// Reservation errors.
var (
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrReservationOverlap    = errors.New("table already reserved for that time window")
	ErrInvalidTimeWindow     = errors.New("reservation end time must be after start time")
	ErrPartyTooLarge         = errors.New("party size exceeds table capacity")
	ErrReservationFinalized  = errors.New("reservation is finalized and can no longer change")
	ErrReservationNotSeated  = errors.New("reservation has not been seated")
	ErrReservationNotPending = errors.New("reservation is not awaiting arrival")
	ErrTableInactive         = errors.New("table is not active")
)

// holdWindow is how far ahead of the start time a confirmed reservation
// puts a physical hold (status "reserved") on its table. Reservations
// further out stay bookkeeping-only until the window opens.
const holdWindow = 2 * time.Hour

// --- Data Transfer Objects (DTOs) ---

// CreateReservationRequest is used for creating a reservation.
type CreateReservationRequest struct {
	TableID   int64     `json:"table_id" binding:"required"`
	GuestName string    `json:"guest_name" binding:"required"`
	PartySize int       `json:"party_size" binding:"required,gt=0"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Notes     *string   `json:"notes"`
}

// --- ReservationService Interface ---

type ReservationService interface {
	CreateReservation(customerID *int64, req CreateReservationRequest) (*models.Reservation, error)
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error)
	GetReservationByID(reservationID int64) (*models.Reservation, error)
	// SeatReservation marks the party as arrived and releases the table hold
	// so the order/table coordinator can occupy the table with their order.
	SeatReservation(reservationID int64) (*models.Reservation, error)
	CompleteReservation(reservationID int64) (*models.Reservation, error)
	CancelReservation(reservationID int64) (*models.Reservation, error)
	MarkNoShow(reservationID int64) (*models.Reservation, error)
}

// --- reservationService Implementation ---

type reservationService struct {
	reservationRepo repositories.ReservationRepository
	tableRepo       repositories.TableRepository
	db              *sql.DB // For managing transactions
}

// NewReservationService creates a new instance of ReservationService.
func NewReservationService(
	rr repositories.ReservationRepository,
	tr repositories.TableRepository,
	db *sql.DB,
) ReservationService {
	return &reservationService{
		reservationRepo: rr,
		tableRepo:       tr,
		db:              db,
	}
}

func (s *reservationService) CreateReservation(customerID *int64, req CreateReservationRequest) (*models.Reservation, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeWindow
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the table row so a concurrent reservation for the same window
	// cannot pass the overlap check at the same time.
	table, err := s.tableRepo.GetTableByIDForUpdate(tx, req.TableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to fetch table for reservation: %w", err)
	}
	if !table.IsActive {
		return nil, fmt.Errorf("%w: table %s", ErrTableInactive, table.TableNumber)
	}
	if req.PartySize > table.Capacity {
		return nil, fmt.Errorf("%w: party of %d, table %s seats %d", ErrPartyTooLarge, req.PartySize, table.TableNumber, table.Capacity)
	}

	overlap, err := s.reservationRepo.HasOverlap(req.TableID, req.StartTime, req.EndTime, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check reservation overlap: %w", err)
	}
	if overlap {
		return nil, fmt.Errorf("%w: table %s", ErrReservationOverlap, table.TableNumber)
	}

	now := time.Now()
	reservation := models.Reservation{
		TableID:    req.TableID,
		CustomerID: customerID,
		GuestName:  req.GuestName,
		PartySize:  req.PartySize,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     models.ReservationStatusConfirmed,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	reservationID, err := s.reservationRepo.CreateReservation(tx, &reservation)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	// Imminent reservations place a physical hold on the table.
	if req.StartTime.Before(now.Add(holdWindow)) && table.Reserve() {
		if err := s.tableRepo.UpdateTableState(tx, table.ID, table.Status, table.CurrentOrderID, now); err != nil {
			return nil, fmt.Errorf("failed to place table hold: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation transaction: %w", err)
	}
	return s.GetReservationByID(reservationID)
}

func (s *reservationService) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	reservations, totalCount, err := s.reservationRepo.GetReservations(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get reservations: %w", err)
	}
	return reservations, totalCount, nil
}

func (s *reservationService) GetReservationByID(reservationID int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetReservationByID(reservationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return reservation, nil
}

func (s *reservationService) SeatReservation(reservationID int64) (*models.Reservation, error) {
	return s.transition(reservationID, models.ReservationStatusSeated)
}

func (s *reservationService) CompleteReservation(reservationID int64) (*models.Reservation, error) {
	return s.transition(reservationID, models.ReservationStatusCompleted)
}

func (s *reservationService) CancelReservation(reservationID int64) (*models.Reservation, error) {
	return s.transition(reservationID, models.ReservationStatusCancelled)
}

func (s *reservationService) MarkNoShow(reservationID int64) (*models.Reservation, error) {
	return s.transition(reservationID, models.ReservationStatusNoShow)
}

// canTransitionReservation encodes the reservation lifecycle:
// confirmed -> seated | cancelled | no-show, seated -> completed.
func canTransitionReservation(from, to models.ReservationStatus) bool {
	switch from {
	case models.ReservationStatusConfirmed:
		return to == models.ReservationStatusSeated ||
			to == models.ReservationStatusCancelled ||
			to == models.ReservationStatusNoShow
	case models.ReservationStatusSeated:
		return to == models.ReservationStatusCompleted
	default:
		return false
	}
}

// transition moves a reservation to newStatus and releases the table hold
// when the reservation leaves the confirmed state. Seating releases the hold
// too: the occupancy that follows comes from the order assignment, never
// from the reservation itself.
func (s *reservationService) transition(reservationID int64, newStatus models.ReservationStatus) (*models.Reservation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	reservation, err := s.reservationRepo.GetReservationByID(reservationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}

	if !canTransitionReservation(reservation.Status, newStatus) {
		if reservation.Status == models.ReservationStatusConfirmed || reservation.Status == models.ReservationStatusSeated {
			if newStatus == models.ReservationStatusCompleted {
				return nil, fmt.Errorf("%w: reservation %d is %s", ErrReservationNotSeated, reservationID, reservation.Status)
			}
			return nil, fmt.Errorf("%w: reservation %d is %s", ErrReservationNotPending, reservationID, reservation.Status)
		}
		return nil, fmt.Errorf("%w: reservation %d is %s", ErrReservationFinalized, reservationID, reservation.Status)
	}

	now := time.Now()
	if err := s.reservationRepo.UpdateReservationStatus(tx, reservationID, newStatus, now); err != nil {
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	// Leaving the confirmed state ends the hold, if one was placed.
	if reservation.Status == models.ReservationStatusConfirmed {
		table, err := s.tableRepo.GetTableByIDForUpdate(tx, reservation.TableID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to fetch table for hold release: %w", err)
		}
		if err == nil && table.ReleaseReservation() {
			if err := s.tableRepo.UpdateTableState(tx, table.ID, table.Status, table.CurrentOrderID, now); err != nil {
				return nil, fmt.Errorf("failed to release table hold: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation transaction: %w", err)
	}
	return s.GetReservationByID(reservationID)
}
