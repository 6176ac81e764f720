package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-service/internal/broker"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService maintains the consumed-items ledger: a derived collection
// mirroring items flagged consumed, at most one record per item. Records
// are snapshots; a later change to the item never rewrites its record.
type LedgerService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store *store.Store, eventPublisher *broker.EventPublisher) *LedgerService {
	return &LedgerService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// SyncConsumed records a ledger entry for every consumed item that lacks
// one and returns only the newly created records. Running it twice with no
// intervening item changes creates nothing on the second run. Zero items
// flagged consumed is reported as NotFound.
func (s *LedgerService) SyncConsumed(ctx context.Context) ([]models.ConsumedRecord, error) {
	ctx, span := util.StartSpan(ctx, "LedgerService.SyncConsumed")
	defer span.End()

	util.ConsumedSyncRunsTotal.Inc()

	items, err := s.store.GetConsumedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consumed items: %w", err)
	}
	if len(items) == 0 {
		return nil, notFoundf("No consumed items found")
	}

	records := make([]models.ConsumedRecord, 0)
	for _, item := range items {
		record, created, err := s.recordItem(ctx, &item)
		if err != nil {
			return nil, err
		}
		if created {
			records = append(records, *record)
		}
	}

	s.logger.Info("Consumed ledger sync completed",
		zap.Int("flagged", len(items)),
		zap.Int("recorded", len(records)))

	return records, nil
}

// ListRecords returns all ledger records, newest first
func (s *LedgerService) ListRecords(ctx context.Context) ([]models.ConsumedRecord, error) {
	return s.store.GetConsumedRecords(ctx)
}

// RecordConsumedItem records a single item into the ledger if it is still
// flagged consumed and has no record yet. Used by the background worker.
func (s *LedgerService) RecordConsumedItem(ctx context.Context, itemID int64) error {
	item, err := s.store.GetItemByID(ctx, itemID)
	if errors.Is(err, store.ErrNotFound) {
		// Item vanished between the event and now; nothing to record.
		return nil
	}
	if err != nil {
		return err
	}
	if !item.Consumed {
		return nil
	}

	_, _, err = s.recordItem(ctx, item)
	return err
}

func (s *LedgerService) recordItem(ctx context.Context, item *models.Item) (*models.ConsumedRecord, bool, error) {
	exists, err := s.store.ConsumedRecordExists(ctx, item.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check ledger for item %d: %w", item.ID, err)
	}
	if exists {
		return nil, false, nil
	}

	record := &models.ConsumedRecord{
		ItemID:        item.ID,
		ItemName:      item.Name,
		Price:         item.TotalPrice,
		Quantity:      item.Quantity,
		InvoiceNumber: item.InvoiceNumber,
		Message:       item.Message,
	}

	created, err := s.store.CreateConsumedRecord(ctx, record)
	if err != nil {
		return nil, false, fmt.Errorf("failed to record consumed item %d: %w", item.ID, err)
	}
	if !created {
		// A concurrent sync beat us to it.
		return nil, false, nil
	}

	util.ConsumedRecordsCreatedTotal.Inc()
	s.logger.Info("Consumed item recorded",
		zap.Int64("item_id", item.ID),
		zap.String("name", item.Name))

	event := &models.ConsumedRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeConsumedRecorded,
			Timestamp: time.Now(),
		},
		RecordID: record.ID,
		ItemID:   item.ID,
		ItemName: item.Name,
	}
	if err := s.eventPublisher.PublishConsumedRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish ConsumedRecorded event", zap.Error(err))
	}

	return record, true, nil
}
