package store

import (
	"context"
	"database/sql"

	"inventory-service/internal/models"
)

// CreateFirm inserts a new firm record
func (s *Store) CreateFirm(ctx context.Context, firm *models.Firm) error {
	query := `
		INSERT INTO firms (name, quantity, price_per_unit, total_price, vender)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`

	return s.db.GetContext(ctx, firm, query,
		firm.Name, firm.Quantity, firm.PricePerUnit, firm.TotalPrice, firm.Vender)
}

// GetFirms retrieves all firms, newest first
func (s *Store) GetFirms(ctx context.Context) ([]models.Firm, error) {
	firms := []models.Firm{}
	err := s.db.SelectContext(ctx, &firms, "SELECT * FROM firms ORDER BY created_at DESC")
	return firms, err
}

// FindFirm retrieves a firm by id or by exact name, whichever matches
func (s *Store) FindFirm(ctx context.Context, id int64, name string) (*models.Firm, error) {
	var firm models.Firm
	var err error
	if id != 0 {
		err = s.db.GetContext(ctx, &firm, "SELECT * FROM firms WHERE id = $1", id)
		if err == nil {
			return &firm, nil
		}
		if err != sql.ErrNoRows {
			return nil, err
		}
	}
	if name != "" {
		err = s.db.GetContext(ctx, &firm, "SELECT * FROM firms WHERE TRIM(name) = TRIM($1)", name)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return &firm, nil
	}
	return nil, ErrNotFound
}

// UpdateFirm persists all mutable fields of a firm
func (s *Store) UpdateFirm(ctx context.Context, firm *models.Firm) error {
	query := `
		UPDATE firms
		SET name = $1, quantity = $2, price_per_unit = $3, total_price = $4,
		    vender = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING *`

	err := s.db.GetContext(ctx, firm, query,
		firm.Name, firm.Quantity, firm.PricePerUnit, firm.TotalPrice,
		firm.Vender, firm.ID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// DeleteFirm removes a firm and returns the deleted row
func (s *Store) DeleteFirm(ctx context.Context, id int64) (*models.Firm, error) {
	var firm models.Firm
	err := s.db.GetContext(ctx, &firm, "DELETE FROM firms WHERE id = $1 RETURNING *", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &firm, nil
}
