package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_ops_backend/internal/models"
)

// MenuRepository defines the interface for menu catalog database operations.
// Order creation consumes it only as a price/name lookup; the CRUD side is
// for admin configuration.
type MenuRepository interface {
	// Category methods
	CreateCategory(executor SQLExecutor, category *models.MenuCategory) (int64, error)
	GetCategories() ([]models.MenuCategory, error)
	GetCategoryByID(categoryID int64) (*models.MenuCategory, error)
	UpdateCategory(executor SQLExecutor, category *models.MenuCategory) error
	DeleteCategory(executor SQLExecutor, categoryID int64) error

	// Item methods
	CreateMenuItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetMenuItems(filters models.MenuItemFilters) ([]models.MenuItem, error)
	GetMenuItemByID(itemID int64) (*models.MenuItem, error)
	UpdateMenuItem(executor SQLExecutor, item *models.MenuItem) error
	DeleteMenuItem(executor SQLExecutor, itemID int64) error
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

// --- Category Methods ---

func (r *menuRepository) CreateCategory(executor SQLExecutor, category *models.MenuCategory) (int64, error) {
	query := `INSERT INTO menu_categories (name, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, category.Name, category.Description, now, now).Scan(&category.ID)
	if err != nil {
		return 0, wrapDBError("creating menu category", err)
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	return category.ID, nil
}

func (r *menuRepository) GetCategories() ([]models.MenuCategory, error) {
	categories := []models.MenuCategory{}
	query := `SELECT id, name, description, created_at, updated_at FROM menu_categories ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, wrapDBError("querying menu categories", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, wrapDBError("scanning menu category", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapDBError("iterating menu category rows", err)
	}
	return categories, nil
}

func (r *menuRepository) GetCategoryByID(categoryID int64) (*models.MenuCategory, error) {
	c := &models.MenuCategory{}
	query := `SELECT id, name, description, created_at, updated_at FROM menu_categories WHERE id = $1`
	err := r.db.QueryRow(query, categoryID).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(fmt.Sprintf("getting menu category by ID %d", categoryID), err)
	}
	return c, nil
}

func (r *menuRepository) UpdateCategory(executor SQLExecutor, category *models.MenuCategory) error {
	query := `UPDATE menu_categories SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, category.Name, category.Description, time.Now(), category.ID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating menu category ID %d", category.ID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for category update ID %d", category.ID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteCategory(executor SQLExecutor, categoryID int64) error {
	result, err := executor.Exec(`DELETE FROM menu_categories WHERE id = $1`, categoryID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting menu category ID %d", categoryID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for category delete ID %d", categoryID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Item Methods ---

func (r *menuRepository) CreateMenuItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items
	            (category_id, name, description, price, vat_rate_class, is_available, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		item.CategoryID, item.Name, item.Description, item.Price, item.VatRateClass,
		item.IsAvailable, now, now,
	).Scan(&item.ID)
	if err != nil {
		return 0, wrapDBError("creating menu item", err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return item.ID, nil
}

func (r *menuRepository) GetMenuItems(filters models.MenuItemFilters) ([]models.MenuItem, error) {
	items := []models.MenuItem{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT mi.id, mi.category_id, mi.name, mi.description, mi.price, mi.vat_rate_class,
		       mi.is_available, mi.created_at, mi.updated_at,
		       mc.name as category_name
		FROM menu_items mi
		JOIN menu_categories mc ON mi.category_id = mc.id
	`)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("mi.category_id = $%d", argCounter))
		args = append(args, *filters.CategoryID)
		argCounter++
	}
	if filters.AvailableOnly {
		conditions = append(conditions, "mi.is_available = TRUE")
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("mi.name ILIKE $%d", argCounter))
		args = append(args, "%"+*filters.Search+"%")
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY mc.name, mi.name")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, wrapDBError("querying menu items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		var categoryName string
		err := rows.Scan(
			&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price,
			&item.VatRateClass, &item.IsAvailable, &item.CreatedAt, &item.UpdatedAt,
			&categoryName,
		)
		if err != nil {
			return nil, wrapDBError("scanning menu item", err)
		}
		item.Category = &models.MenuCategory{ID: item.CategoryID, Name: categoryName}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapDBError("iterating menu item rows", err)
	}
	return items, nil
}

func (r *menuRepository) GetMenuItemByID(itemID int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `SELECT id, category_id, name, description, price, vat_rate_class, is_available, created_at, updated_at
	          FROM menu_items
	          WHERE id = $1`
	err := r.db.QueryRow(query, itemID).Scan(
		&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price,
		&item.VatRateClass, &item.IsAvailable, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(fmt.Sprintf("getting menu item by ID %d", itemID), err)
	}
	return item, nil
}

func (r *menuRepository) UpdateMenuItem(executor SQLExecutor, item *models.MenuItem) error {
	query := `UPDATE menu_items
	          SET category_id = $1, name = $2, description = $3, price = $4,
	              vat_rate_class = $5, is_available = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		item.CategoryID, item.Name, item.Description, item.Price,
		item.VatRateClass, item.IsAvailable, time.Now(), item.ID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating menu item ID %d", item.ID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for menu item update ID %d", item.ID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteMenuItem(executor SQLExecutor, itemID int64) error {
	result, err := executor.Exec(`DELETE FROM menu_items WHERE id = $1`, itemID)
	if err != nil {
		return wrapDBError(fmt.Sprintf("deleting menu item ID %d", itemID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(fmt.Sprintf("getting rows affected for menu item delete ID %d", itemID), err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
