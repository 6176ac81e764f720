package store

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// CreateItem inserts a new item
func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (name, total_price, quantity, unit_price, is_available, consumed, invoice_number, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *`

	return s.db.GetContext(ctx, item, query,
		item.Name, item.TotalPrice, item.Quantity, item.UnitPrice,
		item.IsAvailable, item.Consumed, item.InvoiceNumber, item.Message)
}

// GetItemByID retrieves an item by ID
func (s *Store) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := s.db.GetContext(ctx, &item, "SELECT * FROM items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemByName retrieves an item by exact name, ignoring case and
// surrounding whitespace
func (s *Store) GetItemByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM items WHERE LOWER(TRIM(name)) = LOWER(TRIM($1))", name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ItemNameExists reports whether an item with the exact trimmed name exists
func (s *Store) ItemNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM items WHERE TRIM(name) = TRIM($1))", name)
	return exists, err
}

// GetItems retrieves all items, newest first
func (s *Store) GetItems(ctx context.Context) ([]models.Item, error) {
	items := []models.Item{}
	err := s.db.SelectContext(ctx, &items, "SELECT * FROM items ORDER BY created_at DESC")
	return items, err
}

// SearchItems retrieves items whose name contains the given fragment,
// case-insensitively
func (s *Store) SearchItems(ctx context.Context, name string) ([]models.Item, error) {
	items := []models.Item{}
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM items WHERE name ILIKE '%' || $1 || '%' ORDER BY created_at DESC", name)
	return items, err
}

// FindItem retrieves an item by id or by exact name, whichever matches
func (s *Store) FindItem(ctx context.Context, id int64, name string) (*models.Item, error) {
	if id != 0 {
		item, err := s.GetItemByID(ctx, id)
		if err == nil || err != ErrNotFound {
			return item, err
		}
	}
	if name != "" {
		return s.GetItemByName(ctx, name)
	}
	return nil, ErrNotFound
}

// UpdateItem persists all mutable fields of an item
func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = $1, total_price = $2, quantity = $3, unit_price = $4,
		    is_available = $5, consumed = $6, invoice_number = $7, message = $8,
		    updated_at = NOW()
		WHERE id = $9
		RETURNING *`

	err := s.db.GetContext(ctx, item, query,
		item.Name, item.TotalPrice, item.Quantity, item.UnitPrice,
		item.IsAvailable, item.Consumed, item.InvoiceNumber, item.Message, item.ID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// DeleteItem removes an item and returns the deleted row
func (s *Store) DeleteItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := s.db.GetContext(ctx, &item, "DELETE FROM items WHERE id = $1 RETURNING *", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}
	return &item, nil
}

// GetConsumedItems retrieves all items flagged consumed
func (s *Store) GetConsumedItems(ctx context.Context) ([]models.Item, error) {
	items := []models.Item{}
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM items WHERE consumed = TRUE ORDER BY created_at DESC")
	return items, err
}
