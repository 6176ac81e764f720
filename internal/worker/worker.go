package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"inventory-service/internal/broker"
	"inventory-service/internal/models"
	"inventory-service/internal/redisclient"
	"inventory-service/internal/service"
)

// CacheWorker keeps the Redis stock snapshot cache converged with the
// database by consuming item and stock events
type CacheWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewCacheWorker creates a new cache worker
func NewCacheWorker(consumer *broker.Consumer, redis *redisclient.Client) *CacheWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnItemEvent(func(ctx context.Context, event *models.ItemEvent) error {
		if event.EventType == models.EventTypeItemDeleted {
			return redis.DropStock(ctx, event.ItemID)
		}
		return redis.SetStock(ctx, event.ItemID, event.Quantity)
	})

	eventHandler.OnStockWithdrawn(func(ctx context.Context, event *models.StockWithdrawnEvent) error {
		return redis.SetStock(ctx, event.ItemID, event.Remaining)
	})

	eventHandler.OnStockRestored(func(ctx context.Context, event *models.StockRestoredEvent) error {
		return redis.SetStock(ctx, event.ItemID, event.Remaining)
	})

	return &CacheWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the cache worker
func (w *CacheWorker) Start(ctx context.Context) error {
	log.Println("Starting cache worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the cache worker
func (w *CacheWorker) Stop() error {
	log.Println("Stopping cache worker...")
	return w.consumer.Close()
}

// LedgerWorker records consumed items into the ledger: immediately when an
// ItemConsumed event arrives, and on a timer as a catch-all full sync
type LedgerWorker struct {
	consumer      *broker.Consumer
	eventHandler  *broker.EventHandler
	ledgerService *service.LedgerService
	syncInterval  time.Duration
}

// NewLedgerWorker creates a new ledger worker
func NewLedgerWorker(consumer *broker.Consumer, ledgerService *service.LedgerService, syncInterval time.Duration) *LedgerWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnItemConsumed(func(ctx context.Context, event *models.ItemConsumedEvent) error {
		return ledgerService.RecordConsumedItem(ctx, event.ItemID)
	})

	return &LedgerWorker{
		consumer:      consumer,
		eventHandler:  eventHandler,
		ledgerService: ledgerService,
		syncInterval:  syncInterval,
	}
}

// Start starts the ledger worker: the event consumer plus the periodic
// full sync
func (w *LedgerWorker) Start(ctx context.Context) error {
	log.Println("Starting ledger worker...")

	go w.runPeriodicSync(ctx)

	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

func (w *LedgerWorker) runPeriodicSync(ctx context.Context) {
	if w.syncInterval <= 0 {
		return
	}

	ticker := time.NewTicker(w.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			records, err := w.ledgerService.SyncConsumed(ctx)
			var notFound *service.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			if err != nil {
				log.Printf("Periodic consumed sync failed: %v", err)
				continue
			}
			if len(records) > 0 {
				log.Printf("Periodic consumed sync recorded %d items", len(records))
			}
		}
	}
}

// Stop stops the ledger worker
func (w *LedgerWorker) Stop() error {
	log.Println("Stopping ledger worker...")
	return w.consumer.Close()
}
