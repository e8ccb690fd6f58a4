package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"
)

// Table errors.
var (
	ErrTableNotFound      = errors.New("table not found")
	ErrTableNotAvailable  = errors.New("table is not available")
	ErrTableNotOccupied   = errors.New("table has no in-progress order")
	ErrTableOccupied      = errors.New("table is occupied and cannot be removed")
	ErrInvalidTableStatus = errors.New("table status change not permitted")
	ErrOrderAlreadySeated = errors.New("order is already assigned to a table")
)

// --- Data Transfer Objects (DTOs) ---

// CreateTableRequest is used for creating a new dining table.
type CreateTableRequest struct {
	TableNumber string  `json:"table_number" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required,gt=0"`
	Location    *string `json:"location"`
}

// UpdateTableRequest is used for editing table configuration.
type UpdateTableRequest struct {
	TableNumber string  `json:"table_number" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required,gt=0"`
	Location    *string `json:"location"`
}

// UpdateTableStatusRequest is used for the staff housekeeping transition.
type UpdateTableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignOrderRequest is used for seating an order at a table.
type AssignOrderRequest struct {
	OrderID int64 `json:"order_id" binding:"required"`
}

// AddItemsRequest is used for appending items to an occupied table's order.
type AddItemsRequest struct {
	Items []CreateOrderItemRequest `json:"items" binding:"required,dive"`
}

// --- TableService Interface ---

// TableService manages dining tables and acts as the order/table coordinator:
// it is the only component permitted to mutate Order.TableID and
// DiningTable.CurrentOrderID together, so they can never diverge. Both sides
// of each coordinated write happen inside one database transaction with both
// rows locked (SELECT ... FOR UPDATE); partial application is impossible.
type TableService interface {
	CreateTable(req CreateTableRequest) (*models.DiningTable, error)
	GetTables(filters models.TableFilters) ([]models.DiningTable, error)
	GetTableByID(tableID int64) (*models.DiningTable, error)
	UpdateTable(tableID int64, req UpdateTableRequest) (*models.DiningTable, error)
	DeactivateTable(tableID int64) error
	SetHousekeepingStatus(tableID int64, req UpdateTableStatusRequest) (*models.DiningTable, error)

	AssignOrderToTable(tableID, orderID int64) (*models.DiningTable, *models.Order, error)
	AddItemsToTableOrder(tableID int64, req AddItemsRequest) (*models.DiningTable, *models.Order, error)
	FreeTable(tableID int64) (*models.DiningTable, error)
}

// --- tableService Implementation ---

type tableService struct {
	tableRepo    repositories.TableRepository
	orderRepo    repositories.OrderRepository
	menuRepo     repositories.MenuRepository
	settingsServ SettingsService
	db           *sql.DB // For managing transactions
}

// NewTableService creates a new instance of TableService.
func NewTableService(
	tr repositories.TableRepository,
	or repositories.OrderRepository,
	mr repositories.MenuRepository,
	ss SettingsService,
	db *sql.DB,
) TableService {
	return &tableService{
		tableRepo:    tr,
		orderRepo:    or,
		menuRepo:     mr,
		settingsServ: ss,
		db:           db,
	}
}

func (s *tableService) CreateTable(req CreateTableRequest) (*models.DiningTable, error) {
	table := models.DiningTable{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Location:    req.Location,
		Status:      models.TableStatusAvailable,
		IsActive:    true,
	}
	if _, err := s.tableRepo.CreateTable(s.db, &table); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &table, nil
}

func (s *tableService) GetTables(filters models.TableFilters) ([]models.DiningTable, error) {
	tables, err := s.tableRepo.GetTables(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) GetTableByID(tableID int64) (*models.DiningTable, error) {
	table, err := s.tableRepo.GetTableByID(tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table by ID: %w", err)
	}
	return table, nil
}

func (s *tableService) UpdateTable(tableID int64, req UpdateTableRequest) (*models.DiningTable, error) {
	table, err := s.GetTableByID(tableID)
	if err != nil {
		return nil, err
	}
	table.TableNumber = req.TableNumber
	table.Capacity = req.Capacity
	table.Location = req.Location

	if err := s.tableRepo.UpdateTable(s.db, table); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to update table: %w", err)
	}
	return s.GetTableByID(tableID)
}

func (s *tableService) DeactivateTable(tableID int64) error {
	table, err := s.GetTableByID(tableID)
	if err != nil {
		return err
	}
	// Never soft-delete a table that still holds an order.
	if table.CurrentOrderID != nil {
		return fmt.Errorf("%w: table %s holds order %d", ErrTableOccupied, table.TableNumber, *table.CurrentOrderID)
	}
	if err := s.tableRepo.DeactivateTable(s.db, tableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to deactivate table: %w", err)
	}
	return nil
}

// SetHousekeepingStatus covers the staff-initiated cleaning <-> available
// transition only. It has no order implications; every other status change
// must go through the coordinator operations below.
func (s *tableService) SetHousekeepingStatus(tableID int64, req UpdateTableStatusRequest) (*models.DiningTable, error) {
	if !models.IsValidTableStatus(req.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableStatus, req.Status)
	}
	newStatus := models.TableStatus(req.Status)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableByIDForUpdate(tx, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to fetch table for status update: %w", err)
	}

	if !table.CanSetHousekeepingStatus(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTableStatus, table.Status, newStatus)
	}

	if err := s.tableRepo.UpdateTableState(tx, tableID, newStatus, table.CurrentOrderID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update table status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table status update: %w", err)
	}
	return s.GetTableByID(tableID)
}

// AssignOrderToTable seats an order at a table: table becomes occupied and
// points at the order, the order points back and becomes dine-in. All four
// writes land in one transaction or none do.
func (s *tableService) AssignOrderToTable(tableID, orderID int64) (*models.DiningTable, *models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableByIDForUpdate(tx, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrTableNotFound
		}
		return nil, nil, fmt.Errorf("failed to fetch table for assignment: %w", err)
	}
	order, err := s.orderRepo.GetOrderByIDForUpdate(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("failed to fetch order for assignment: %w", err)
	}

	if models.IsTerminalOrderStatus(order.Status) {
		return nil, nil, fmt.Errorf("%w: order %s is %s", ErrOrderFinalized, order.OrderNumber, order.Status)
	}
	if order.HasTable() {
		return nil, nil, fmt.Errorf("%w: order %s is at table %d", ErrOrderAlreadySeated, order.OrderNumber, *order.TableID)
	}
	if !table.OccupyWith(orderID) {
		return nil, nil, fmt.Errorf("%w: table %s is %s", ErrTableNotAvailable, table.TableNumber, table.Status)
	}

	now := time.Now()
	if err := s.tableRepo.UpdateTableState(tx, tableID, table.Status, table.CurrentOrderID, now); err != nil {
		return nil, nil, fmt.Errorf("failed to occupy table: %w", err)
	}
	if err := s.orderRepo.UpdateOrderTableAssignment(tx, orderID, &tableID, models.OrderTypeDineIn, now); err != nil {
		return nil, nil, fmt.Errorf("failed to link order to table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit table assignment: %w", err)
	}
	return s.reloadTableAndOrder(tableID, orderID)
}

// AddItemsToTableOrder appends items to the occupied table's order and
// recomputes the full pricing breakdown over the combined item set, never
// just the delta, so incremental and full totals cannot drift apart.
func (s *tableService) AddItemsToTableOrder(tableID int64, req AddItemsRequest) (*models.DiningTable, *models.Order, error) {
	if len(req.Items) == 0 {
		return nil, nil, ErrEmptyOrder
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableByIDForUpdate(tx, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrTableNotFound
		}
		return nil, nil, fmt.Errorf("failed to fetch table for add-items: %w", err)
	}
	if table.Status != models.TableStatusOccupied || table.CurrentOrderID == nil {
		return nil, nil, fmt.Errorf("%w: table %s is %s", ErrTableNotOccupied, table.TableNumber, table.Status)
	}
	orderID := *table.CurrentOrderID

	order, err := s.orderRepo.GetOrderByIDForUpdate(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("failed to fetch order for add-items: %w", err)
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return nil, nil, fmt.Errorf("%w: order %s is %s", ErrOrderFinalized, order.OrderNumber, order.Status)
	}

	newItems, err := resolveOrderItems(s.menuRepo, req.Items)
	if err != nil {
		return nil, nil, err
	}

	// Existing rows are committed state; the order row lock keeps concurrent
	// add-items calls from interleaving with this read.
	existingItems, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch existing order items: %w", err)
	}

	for _, item := range newItems {
		item.OrderID = orderID
		if _, err := s.orderRepo.CreateOrderItem(tx, &item); err != nil {
			return nil, nil, fmt.Errorf("failed to append order item (menu_item_id: %d): %w", item.MenuItemID, err)
		}
	}

	subtotal := computeItemsSubtotal(existingItems).Add(computeItemsSubtotal(newItems))

	rules, err := s.settingsServ.GetPricingRules()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch pricing rules: %w", err)
	}
	breakdown, err := CalculatePricing(subtotal, rules, PricingOptions{OrderType: order.OrderType})
	if err != nil {
		return nil, nil, err
	}

	if err := s.orderRepo.UpdateOrderPricing(tx, orderID, breakdown.Rounded(), time.Now()); err != nil {
		return nil, nil, fmt.Errorf("failed to update order pricing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit add-items: %w", err)
	}
	return s.reloadTableAndOrder(tableID, orderID)
}

// FreeTable returns the table to available and clears both sides of the
// table/order reference. Idempotent for already-available tables. It never
// changes the order's status: freeing typically follows delivery, but that
// ordering is deliberately not enforced here.
func (s *tableService) FreeTable(tableID int64) (*models.DiningTable, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableByIDForUpdate(tx, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to fetch table for free: %w", err)
	}

	seatedOrderID := table.CurrentOrderID
	table.Free()

	now := time.Now()
	if err := s.tableRepo.UpdateTableState(tx, tableID, table.Status, nil, now); err != nil {
		return nil, fmt.Errorf("failed to free table: %w", err)
	}

	if seatedOrderID != nil {
		order, err := s.orderRepo.GetOrderByIDForUpdate(tx, *seatedOrderID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to fetch seated order for free: %w", err)
		}
		if err == nil {
			if err := s.orderRepo.UpdateOrderTableAssignment(tx, order.ID, nil, order.OrderType, now); err != nil {
				return nil, fmt.Errorf("failed to unlink order from table: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table free: %w", err)
	}
	return s.GetTableByID(tableID)
}

func (s *tableService) reloadTableAndOrder(tableID, orderID int64) (*models.DiningTable, *models.Order, error) {
	table, err := s.GetTableByID(tableID)
	if err != nil {
		return nil, nil, err
	}
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload order %d: %w", orderID, err)
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err == nil {
		order.OrderItems = items
	}
	return table, order, nil
}
