package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_ops_backend/internal/models"
)

// ReservationRepository defines the interface for reservation database operations.
type ReservationRepository interface {
	CreateReservation(executor SQLExecutor, reservation *models.Reservation) (int64, error)
	GetReservationByID(reservationID int64) (*models.Reservation, error)
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error)
	UpdateReservationStatus(executor SQLExecutor, reservationID int64, newStatus models.ReservationStatus, updatedAt time.Time) error
	// HasOverlap reports whether an active (confirmed or seated) reservation
	// already occupies the table anywhere in the [start, end) window.
	HasOverlap(tableID int64, start, end time.Time, excludeReservationID *int64) (bool, error)
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) CreateReservation(executor SQLExecutor, reservation *models.Reservation) (int64, error) {
	query := `INSERT INTO reservations
	            (table_id, customer_id, guest_name, party_size, start_time, end_time, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	now := time.Now()
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = now
	}
	if reservation.UpdatedAt.IsZero() {
		reservation.UpdatedAt = now
	}

	err := executor.QueryRow(query,
		reservation.TableID, reservation.CustomerID, reservation.GuestName, reservation.PartySize,
		reservation.StartTime, reservation.EndTime, reservation.Status, reservation.Notes,
		reservation.CreatedAt, reservation.UpdatedAt,
	).Scan(&reservation.ID)
	if err != nil {
		return 0, wrapDBError("creating reservation", err)
	}
	return reservation.ID, nil
}

func (r *reservationRepository) GetReservationByID(reservationID int64) (*models.Reservation, error) {
	res := &models.Reservation{}
	query := `SELECT id, table_id, customer_id, guest_name, party_size, start_time, end_time, status, notes, created_at, updated_at
	          FROM reservations
	          WHERE id = $1`
	err := r.db.QueryRow(query, reservationID).Scan(
		&res.ID, &res.TableID, &res.CustomerID, &res.GuestName, &res.PartySize,
		&res.StartTime, &res.EndTime, &res.Status, &res.Notes, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(fmt.Sprintf("getting reservation by ID %d", reservationID), err)
	}
	return res, nil
}

func (r *reservationRepository) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	reservations := []models.Reservation{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            res.id, res.table_id, res.customer_id, res.guest_name, res.party_size,
            res.start_time, res.end_time, res.status, res.notes, res.created_at, res.updated_at,
            dt.table_number as table_number,
            COUNT(*) OVER() as total_count
        FROM reservations res
        JOIN dining_tables dt ON res.table_id = dt.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("res.table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
		argCounter++
	}
	if filters.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("res.customer_id = $%d", argCounter))
		args = append(args, *filters.CustomerID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("res.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("res.start_time >= $%d", argCounter))
		args = append(args, *filters.DateFrom)
		argCounter++
	}
	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("res.start_time <= $%d", argCounter))
		args = append(args, *filters.DateTo)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY res.start_time DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, wrapDBError("querying reservations", err)
	}
	defer rows.Close()

	for rows.Next() {
		var res models.Reservation
		var tableNumber sql.NullString

		err := rows.Scan(
			&res.ID, &res.TableID, &res.CustomerID, &res.GuestName, &res.PartySize,
			&res.StartTime, &res.EndTime, &res.Status, &res.Notes, &res.CreatedAt, &res.UpdatedAt,
			&tableNumber,
			&totalCount,
		)
		if err != nil {
			return nil, 0, wrapDBError("scanning reservation", err)
		}

		if tableNumber.Valid {
			res.Table = &models.DiningTable{ID: res.TableID, TableNumber: tableNumber.String}
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapDBError("iterating reservation rows", err)
	}
	return reservations, totalCount, nil
}

func (r *reservationRepository) UpdateReservationStatus(executor SQLExecutor, reservationID int64, newStatus models.ReservationStatus, updatedAt time.Time) error {
	query := `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, reservationID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating reservation status for ID %d", reservationID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for reservation status update ID %d", reservationID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) HasOverlap(tableID int64, start, end time.Time, excludeReservationID *int64) (bool, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT COUNT(*) FROM reservations
		WHERE table_id = $1
		  AND status IN ($2, $3)
		  AND start_time < $4
		  AND end_time > $5`)

	args := []interface{}{tableID, models.ReservationStatusConfirmed, models.ReservationStatusSeated, end, start}
	if excludeReservationID != nil {
		queryBuilder.WriteString(" AND id <> $6")
		args = append(args, *excludeReservationID)
	}

	var count int
	err := r.db.QueryRow(queryBuilder.String(), args...).Scan(&count)
	if err != nil {
		return false, wrapDBError(fmt.Sprintf("checking reservation overlap for table ID %d", tableID), err)
	}
	return count > 0, nil
}
