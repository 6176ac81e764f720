package store

import (
	"context"
	"database/sql"

	"inventory-service/internal/models"
)

// GetForms retrieves all forms, newest first
func (s *Store) GetForms(ctx context.Context) ([]models.Form, error) {
	forms := []models.Form{}
	err := s.db.SelectContext(ctx, &forms, "SELECT * FROM forms ORDER BY created_at DESC")
	return forms, err
}

// GetFormByID retrieves a form by ID
func (s *Store) GetFormByID(ctx context.Context, id int64) (*models.Form, error) {
	var form models.Form
	err := s.db.GetContext(ctx, &form, "SELECT * FROM forms WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// UpdateForm persists all mutable fields of a form
func (s *Store) UpdateForm(ctx context.Context, form *models.Form) error {
	query := `
		UPDATE forms
		SET shop = $1, room = $2, item = $3, price = $4, quantity = $5,
		    total_price = $6, is_available = $7, message = $8, item_id = $9,
		    updated_at = NOW()
		WHERE id = $10
		RETURNING *`

	err := s.db.GetContext(ctx, form, query,
		form.Shop, form.Room, form.Item, form.Price, form.Quantity,
		form.TotalPrice, form.IsAvailable, form.Message, form.ItemID, form.ID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}
