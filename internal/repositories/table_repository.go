package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_ops_backend/internal/models"
)

// TableRepository defines the interface for dining-table database operations.
type TableRepository interface {
	CreateTable(executor SQLExecutor, table *models.DiningTable) (int64, error)
	GetTableByID(tableID int64) (*models.DiningTable, error)
	// GetTableByIDForUpdate locks the row for the duration of the surrounding
	// transaction. The coordinator relies on this for its critical sections.
	GetTableByIDForUpdate(executor SQLExecutor, tableID int64) (*models.DiningTable, error)
	GetTables(filters models.TableFilters) ([]models.DiningTable, error)
	UpdateTable(executor SQLExecutor, table *models.DiningTable) error
	// UpdateTableState writes status and current order reference together so
	// the occupied <=> order-ref invariant can never be half-written.
	UpdateTableState(executor SQLExecutor, tableID int64, status models.TableStatus, currentOrderID *int64, updatedAt time.Time) error
	DeactivateTable(executor SQLExecutor, tableID int64) error
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

const tableColumns = `id, table_number, capacity, location, status, current_order_id, is_active, created_at, updated_at`

func scanTable(row interface{ Scan(dest ...interface{}) error }) (*models.DiningTable, error) {
	t := &models.DiningTable{}
	err := row.Scan(
		&t.ID, &t.TableNumber, &t.Capacity, &t.Location, &t.Status,
		&t.CurrentOrderID, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tableRepository) CreateTable(executor SQLExecutor, table *models.DiningTable) (int64, error) {
	query := `INSERT INTO dining_tables
	            (table_number, capacity, location, status, current_order_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	now := time.Now()
	if table.CreatedAt.IsZero() {
		table.CreatedAt = now
	}
	if table.UpdatedAt.IsZero() {
		table.UpdatedAt = now
	}
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}

	err := executor.QueryRow(query,
		table.TableNumber, table.Capacity, table.Location, table.Status,
		table.CurrentOrderID, table.IsActive, table.CreatedAt, table.UpdatedAt,
	).Scan(&table.ID)
	if err != nil {
		return 0, wrapDBError("creating dining table", err)
	}
	return table.ID, nil
}

func (r *tableRepository) GetTableByID(tableID int64) (*models.DiningTable, error) {
	query := fmt.Sprintf(`SELECT %s FROM dining_tables WHERE id = $1`, tableColumns)
	t, err := scanTable(r.db.QueryRow(query, tableID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(fmt.Sprintf("getting dining table by ID %d", tableID), err)
	}
	return t, nil
}

func (r *tableRepository) GetTableByIDForUpdate(executor SQLExecutor, tableID int64) (*models.DiningTable, error) {
	query := fmt.Sprintf(`SELECT %s FROM dining_tables WHERE id = $1 FOR UPDATE`, tableColumns)
	t, err := scanTable(executor.QueryRow(query, tableID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(fmt.Sprintf("locking dining table ID %d", tableID), err)
	}
	return t, nil
}

func (r *tableRepository) GetTables(filters models.TableFilters) ([]models.DiningTable, error) {
	tables := []models.DiningTable{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM dining_tables`, tableColumns))

	var conditions []string
	var args []interface{}
	argCounter := 1

	if !filters.IncludeInactive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.Location != nil && *filters.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location = $%d", argCounter))
		args = append(args, *filters.Location)
		argCounter++
	}
	if filters.MinCapacity != nil {
		conditions = append(conditions, fmt.Sprintf("capacity >= $%d", argCounter))
		args = append(args, *filters.MinCapacity)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY table_number")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, wrapDBError("querying dining tables", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, wrapDBError("scanning dining table", err)
		}
		tables = append(tables, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapDBError("iterating dining table rows", err)
	}
	return tables, nil
}

func (r *tableRepository) UpdateTable(executor SQLExecutor, table *models.DiningTable) error {
	query := `UPDATE dining_tables
	          SET table_number = $1, capacity = $2, location = $3, updated_at = $4
	          WHERE id = $5`
	result, err := executor.Exec(query, table.TableNumber, table.Capacity, table.Location, time.Now(), table.ID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating dining table ID %d", table.ID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for table update ID %d", table.ID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) UpdateTableState(executor SQLExecutor, tableID int64, status models.TableStatus, currentOrderID *int64, updatedAt time.Time) error {
	query := `UPDATE dining_tables SET status = $1, current_order_id = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, status, currentOrderID, updatedAt, tableID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating state of dining table ID %d", tableID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for table state update ID %d", tableID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) DeactivateTable(executor SQLExecutor, tableID int64) error {
	// Soft delete only; tables holding an order must be freed first, which the
	// service layer checks before calling.
	query := `UPDATE dining_tables SET is_active = FALSE, updated_at = $1 WHERE id = $2`
	result, err := executor.Exec(query, time.Now(), tableID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deactivating dining table ID %d", tableID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for table deactivation ID %d", tableID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
