package store

import (
	"context"
	"database/sql"

	"inventory-service/internal/models"
)

// ConsumedRecordExists reports whether a ledger record exists for the item
func (s *Store) ConsumedRecordExists(ctx context.Context, itemID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM consumed_records WHERE item_id = $1)", itemID)
	return exists, err
}

// CreateConsumedRecord inserts a new ledger record. The conflict clause
// keeps concurrent syncs from inserting twice for the same item.
func (s *Store) CreateConsumedRecord(ctx context.Context, record *models.ConsumedRecord) (bool, error) {
	query := `
		INSERT INTO consumed_records (item_id, item_name, price, quantity, invoice_number, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (item_id) DO NOTHING
		RETURNING *`

	err := s.db.GetContext(ctx, record, query,
		record.ItemID, record.ItemName, record.Price, record.Quantity,
		record.InvoiceNumber, record.Message)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetConsumedRecords retrieves all ledger records, newest first
func (s *Store) GetConsumedRecords(ctx context.Context) ([]models.ConsumedRecord, error) {
	records := []models.ConsumedRecord{}
	err := s.db.SelectContext(ctx, &records,
		"SELECT * FROM consumed_records ORDER BY created_at DESC")
	return records, err
}
