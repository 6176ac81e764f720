package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("not found")

// InsufficientStockError is returned when a conditional decrement loses to
// the available quantity check
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: only %d available", e.Available)
}

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// WithdrawRequest carries the validated inputs of a stock withdrawal
type WithdrawRequest struct {
	Shop     string
	Room     int
	Quantity int
	Message  string
}

// WithdrawFormTx performs the withdrawal pipeline inside a single
// transaction: it locks the item row, re-checks the requested quantity
// against current stock, decrements stock and total price, recomputes the
// availability flag and unit price, and inserts the form snapshot. Either
// everything commits or nothing does. A losing racer gets
// InsufficientStockError with the amount still available.
func (s *Store) WithdrawFormTx(ctx context.Context, itemID int64, req WithdrawRequest) (*models.Form, *models.Item, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var item models.Item
	err = tx.GetContext(ctx, &item, "SELECT * FROM items WHERE id = $1 FOR UPDATE", itemID)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock item: %w", err)
	}

	if item.Quantity < req.Quantity {
		return nil, nil, &InsufficientStockError{Available: item.Quantity}
	}

	// The stored snapshot price is the rounded unit price; the line total is
	// derived from it so the two always reconcile.
	unitPrice := models.Round2(models.UnitPriceOf(item.TotalPrice, item.Quantity))
	lineTotal := models.Round2(unitPrice * float64(req.Quantity))

	newQty := item.Quantity - req.Quantity
	newTotal := models.RemainingTotal(item.TotalPrice, lineTotal, newQty)

	err = tx.GetContext(ctx, &item, `
		UPDATE items
		SET quantity = $1,
		    total_price = $2,
		    unit_price = $3,
		    is_available = $4,
		    updated_at = NOW()
		WHERE id = $5
		RETURNING *`,
		newQty, newTotal, models.Round2(models.UnitPriceOf(newTotal, newQty)), newQty > 0, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	form := &models.Form{
		Shop:        req.Shop,
		Room:        req.Room,
		Item:        item.Name,
		Price:       unitPrice,
		Quantity:    req.Quantity,
		TotalPrice:  lineTotal,
		IsAvailable: newQty > 0,
		Message:     req.Message,
		ItemID:      item.ID,
	}

	err = tx.GetContext(ctx, form, `
		INSERT INTO forms (shop, room, item, price, quantity, total_price, is_available, message, item_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *`,
		form.Shop, form.Room, form.Item, form.Price, form.Quantity,
		form.TotalPrice, form.IsAvailable, form.Message, form.ItemID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert form: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return form, &item, nil
}

// DeleteFormTx deletes a form and, when restock is set, adds its quantity
// and line total back to the source item in the same transaction. A form
// whose item has since been deleted is still removed; no stock comes back.
func (s *Store) DeleteFormTx(ctx context.Context, formID int64, restock bool) (*models.Form, *models.Item, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var form models.Form
	err = tx.GetContext(ctx, &form, "DELETE FROM forms WHERE id = $1 RETURNING *", formID)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to delete form: %w", err)
	}

	var item *models.Item
	if restock && form.ItemID != 0 {
		var restored models.Item
		err = tx.GetContext(ctx, &restored, `
			UPDATE items
			SET quantity = quantity + $1,
			    total_price = GREATEST(total_price + $2, 0),
			    unit_price = CASE WHEN quantity + $1 > 0
			        THEN GREATEST(total_price + $2, 0) / (quantity + $1)
			        ELSE GREATEST(total_price + $2, 0) END,
			    is_available = quantity + $1 > 0,
			    updated_at = NOW()
			WHERE id = $3
			RETURNING *`,
			form.Quantity, form.TotalPrice, form.ItemID)
		if err != nil && err != sql.ErrNoRows {
			return nil, nil, fmt.Errorf("failed to restore stock: %w", err)
		}
		if err == nil {
			item = &restored
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &form, item, nil
}
