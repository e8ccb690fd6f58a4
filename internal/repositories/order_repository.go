package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_ops_backend/internal/models"
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order methods
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	// GetOrderByIDForUpdate locks the order row for the surrounding transaction,
	// guaranteeing the per-entity atomic read-modify-write the lifecycle needs.
	GetOrderByIDForUpdate(executor SQLExecutor, orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error) // orders, total count, error
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus models.OrderStatus, updatedAt time.Time) error
	UpdateOrderPricing(executor SQLExecutor, orderID int64, pricing models.PricingBreakdown, updatedAt time.Time) error
	// UpdateOrderTableAssignment writes the table reference and order type
	// together; only the coordinator calls it.
	UpdateOrderTableAssignment(executor SQLExecutor, orderID int64, tableID *int64, orderType models.OrderType, updatedAt time.Time) error

	// OrderItem methods
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, customer_id, order_type, status, table_id, delivery_address, notes,
	subtotal, net_amount, vat_amount, vat_rate_percent, service_charge, delivery_fee, total_amount, currency,
	created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...interface{}) error }) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.OrderType, &o.Status, &o.TableID, &o.DeliveryAddress, &o.Notes,
		&o.Pricing.Subtotal, &o.Pricing.NetAmount, &o.Pricing.VatAmount, &o.Pricing.VatRatePercent,
		&o.Pricing.ServiceCharge, &o.Pricing.DeliveryFee, &o.Pricing.TotalAmount, &o.Pricing.Currency,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// --- Order Methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (order_number, customer_id, order_type, status, table_id, delivery_address, notes,
	             subtotal, net_amount, vat_amount, vat_rate_percent, service_charge, delivery_fee,
	             total_amount, currency, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	          RETURNING id`

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	err := executor.QueryRow(query,
		order.OrderNumber, order.CustomerID, order.OrderType, order.Status, order.TableID,
		order.DeliveryAddress, order.Notes,
		order.Pricing.Subtotal, order.Pricing.NetAmount, order.Pricing.VatAmount, order.Pricing.VatRatePercent,
		order.Pricing.ServiceCharge, order.Pricing.DeliveryFee, order.Pricing.TotalAmount, order.Pricing.Currency,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return 0, wrapDBError("creating order", err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	o, err := scanOrder(r.db.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(fmt.Sprintf("getting order by ID %d", orderID), err)
	}
	return o, nil
}

func (r *orderRepository) GetOrderByIDForUpdate(executor SQLExecutor, orderID int64) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 FOR UPDATE`, orderColumns)
	o, err := scanOrder(executor.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(fmt.Sprintf("locking order ID %d", orderID), err)
	}
	return o, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            o.id, o.order_number, o.customer_id, o.order_type, o.status, o.table_id, o.delivery_address, o.notes,
            o.subtotal, o.net_amount, o.vat_amount, o.vat_rate_percent, o.service_charge, o.delivery_fee,
            o.total_amount, o.currency, o.created_at, o.updated_at,
            u.full_name as customer_name,
            dt.table_number as table_number,
            COUNT(*) OVER() as total_count
        FROM orders o
        LEFT JOIN users u ON o.customer_id = u.id
        LEFT JOIN dining_tables dt ON o.table_id = dt.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("o.customer_id = $%d", argCounter))
		args = append(args, *filters.CustomerID)
		argCounter++
	}
	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("o.table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
		argCounter++
	}
	if filters.OrderType != nil && *filters.OrderType != "" {
		conditions = append(conditions, fmt.Sprintf("o.order_type = $%d", argCounter))
		args = append(args, *filters.OrderType)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err == nil {
			startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
			endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
			conditions = append(conditions, fmt.Sprintf("o.created_at BETWEEN $%d AND $%d", argCounter, argCounter+1))
			args = append(args, startOfDay, endOfDay)
			argCounter += 2
		}
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC")

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
		return nil, 0, wrapDBError("querying orders", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var customerName, tableNumber sql.NullString

		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.OrderType, &o.Status, &o.TableID, &o.DeliveryAddress, &o.Notes,
			&o.Pricing.Subtotal, &o.Pricing.NetAmount, &o.Pricing.VatAmount, &o.Pricing.VatRatePercent,
			&o.Pricing.ServiceCharge, &o.Pricing.DeliveryFee, &o.Pricing.TotalAmount, &o.Pricing.Currency,
			&o.CreatedAt, &o.UpdatedAt,
			&customerName, &tableNumber,
			&totalCount,
		)
		if err != nil {
			return nil, 0, wrapDBError("scanning order", err)
		}

		if o.CustomerID != nil && customerName.Valid {
			name := customerName.String
			o.Customer = &models.User{ID: *o.CustomerID, FullName: &name}
		}
		if o.TableID != nil && tableNumber.Valid {
			o.Table = &models.DiningTable{ID: *o.TableID, TableNumber: tableNumber.String}
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapDBError("iterating order rows", err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus models.OrderStatus, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating order status for ID %d", orderID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for order status update ID %d", orderID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderPricing(executor SQLExecutor, orderID int64, pricing models.PricingBreakdown, updatedAt time.Time) error {
	query := `UPDATE orders
	          SET subtotal = $1, net_amount = $2, vat_amount = $3, vat_rate_percent = $4,
	              service_charge = $5, delivery_fee = $6, total_amount = $7, currency = $8, updated_at = $9
	          WHERE id = $10`
	result, err := executor.Exec(query,
		pricing.Subtotal, pricing.NetAmount, pricing.VatAmount, pricing.VatRatePercent,
		pricing.ServiceCharge, pricing.DeliveryFee, pricing.TotalAmount, pricing.Currency,
		updatedAt, orderID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating pricing for order ID %d", orderID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for order pricing update ID %d", orderID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderTableAssignment(executor SQLExecutor, orderID int64, tableID *int64, orderType models.OrderType, updatedAt time.Time) error {
	query := `UPDATE orders SET table_id = $1, order_type = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, tableID, orderType, updatedAt, orderID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating table assignment for order ID %d", orderID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for order table assignment ID %d", orderID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- OrderItem Methods ---

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items
	            (order_id, menu_item_id, quantity, unit_price, total_price, vat_rate_class, notes,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}

	err := executor.QueryRow(query,
		item.OrderID, item.MenuItemID, item.Quantity, item.UnitPrice, item.TotalPrice,
		item.VatRateClass, item.Notes, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return 0, wrapDBError("creating order item", err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `
		SELECT
		    oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.unit_price,
		    oi.total_price, oi.vat_rate_class, oi.notes, oi.created_at, oi.updated_at,
		    mi.name as item_name
		FROM order_items oi
		JOIN menu_items mi ON oi.menu_item_id = mi.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("querying order items for order ID %d", orderID), err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var itemName sql.NullString

		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.UnitPrice,
			&item.TotalPrice, &item.VatRateClass, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
			&itemName,
		)
		if err != nil {
			return nil, wrapDBError(fmt.Sprintf("scanning order item for order ID %d", orderID), err)
		}

		if itemName.Valid {
			item.MenuItem = &models.MenuItem{ID: item.MenuItemID, Name: itemName.String}
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapDBError(fmt.Sprintf("iterating order item rows for order ID %d", orderID), err)
	}
	return items, nil
}
