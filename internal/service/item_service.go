package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-service/internal/broker"
	"inventory-service/internal/models"
	"inventory-service/internal/redisclient"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemService handles item lifecycle and the stock snapshot cache
type ItemService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewItemService creates a new item service
func NewItemService(store *store.Store, redis *redisclient.Client, eventPublisher *broker.EventPublisher) *ItemService {
	return &ItemService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateItemRequest represents a request to create an item. UnitPrice is
// accepted for wire compatibility but always recomputed server-side.
type CreateItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	Price         float64 `json:"price"`
	UnitPrice     float64 `json:"unitPrice"`
	Quantity      int     `json:"quantity"`
	InvoiceNumber string  `json:"invoiceNumber"`
	Message       string  `json:"message"`
	Consumed      bool    `json:"consumed"`
	IsAvailable   *bool   `json:"isAvailable"`
}

// UpdateItemRequest represents a sparse item update, keyed by id or name
type UpdateItemRequest struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	NewName          *string  `json:"newName"`
	NewPrice         *float64 `json:"newPrice"`
	NewQuantity      *int     `json:"newQuantity"`
	NewInvoiceNumber *string  `json:"newInvoiceNumber"`
	NewMessage       *string  `json:"newMessage"`
	NewConsumed      *bool    `json:"newConsumed"`
	NewIsAvailable   *bool    `json:"newIsAvailable"`
}

// CreateItem creates a new item, rejecting duplicate names
func (s *ItemService) CreateItem(ctx context.Context, req *CreateItemRequest) (*models.Item, error) {
	ctx, span := util.StartSpan(ctx, "ItemService.CreateItem")
	defer span.End()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationf("Item name is required")
	}
	if req.Price < 0 || req.Quantity < 0 {
		return nil, validationf("Price and quantity must not be negative")
	}

	exists, err := s.store.ItemNameExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate name: %w", err)
	}
	if exists {
		return nil, &ConflictError{Message: fmt.Sprintf("Item %q already exists", name)}
	}

	item := &models.Item{
		Name:          name,
		TotalPrice:    models.Round2(req.Price),
		Quantity:      req.Quantity,
		UnitPrice:     models.Round2(models.UnitPriceOf(req.Price, req.Quantity)),
		IsAvailable:   req.Quantity > 0,
		Consumed:      req.Consumed,
		InvoiceNumber: req.InvoiceNumber,
		Message:       req.Message,
	}
	// A caller may hide an in-stock item, but a drained item is never available.
	if req.IsAvailable != nil && req.Quantity > 0 {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	util.ItemsCreatedTotal.Inc()
	s.logger.Info("Item created",
		zap.Int64("item_id", item.ID),
		zap.String("name", item.Name))

	s.publishItemEvent(ctx, models.EventTypeItemCreated, item)
	if item.Consumed {
		s.publishItemConsumed(ctx, item)
	}

	return item, nil
}

// ListItems returns all items, newest first
func (s *ItemService) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.store.GetItems(ctx)
}

// SearchItems returns items whose name contains the fragment
func (s *ItemService) SearchItems(ctx context.Context, name string) ([]models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("Item name is required")
	}
	return s.store.SearchItems(ctx, name)
}

// FindItem returns a single item by id or name
func (s *ItemService) FindItem(ctx context.Context, id int64, name string) (*models.Item, error) {
	if id == 0 && strings.TrimSpace(name) == "" {
		return nil, validationf("Item id or name is required")
	}
	item, err := s.store.FindItem(ctx, id, strings.TrimSpace(name))
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("Item not found")
	}
	return item, err
}

// UpdateItem applies a sparse update to an item found by id or name
func (s *ItemService) UpdateItem(ctx context.Context, req *UpdateItemRequest) (*models.Item, error) {
	ctx, span := util.StartSpan(ctx, "ItemService.UpdateItem")
	defer span.End()

	item, err := s.FindItem(ctx, req.ID, req.Name)
	if err != nil {
		return nil, err
	}

	if req.NewName == nil && req.NewPrice == nil && req.NewQuantity == nil &&
		req.NewInvoiceNumber == nil && req.NewMessage == nil &&
		req.NewConsumed == nil && req.NewIsAvailable == nil {
		return nil, validationf("No fields provided to update")
	}

	wasConsumed := item.Consumed

	if req.NewName != nil {
		newName := strings.TrimSpace(*req.NewName)
		if newName == "" {
			return nil, validationf("Item name must not be empty")
		}
		item.Name = newName
	}
	if req.NewPrice != nil {
		if *req.NewPrice < 0 {
			return nil, validationf("Price must not be negative")
		}
		item.TotalPrice = models.Round2(*req.NewPrice)
	}
	if req.NewQuantity != nil {
		if *req.NewQuantity < 0 {
			return nil, validationf("Quantity must not be negative")
		}
		item.Quantity = *req.NewQuantity
	}
	if req.NewInvoiceNumber != nil {
		item.InvoiceNumber = *req.NewInvoiceNumber
	}
	if req.NewMessage != nil {
		item.Message = *req.NewMessage
	}
	if req.NewConsumed != nil {
		item.Consumed = *req.NewConsumed
	}

	item.UnitPrice = models.Round2(models.UnitPriceOf(item.TotalPrice, item.Quantity))
	item.IsAvailable = item.Quantity > 0
	if req.NewIsAvailable != nil && item.Quantity > 0 {
		item.IsAvailable = *req.NewIsAvailable
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundf("Item not found")
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.Info("Item updated", zap.Int64("item_id", item.ID))

	s.publishItemEvent(ctx, models.EventTypeItemUpdated, item)
	if !wasConsumed && item.Consumed {
		s.publishItemConsumed(ctx, item)
	}

	return item, nil
}

// DeleteItem removes an item found by id or name
func (s *ItemService) DeleteItem(ctx context.Context, id int64, name string) (*models.Item, error) {
	ctx, span := util.StartSpan(ctx, "ItemService.DeleteItem")
	defer span.End()

	item, err := s.FindItem(ctx, id, name)
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteItem(ctx, item.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("Item not found")
	}
	if err != nil {
		return nil, err
	}

	util.ItemsDeletedTotal.Inc()
	s.logger.Info("Item deleted", zap.Int64("item_id", deleted.ID))

	s.publishItemEvent(ctx, models.EventTypeItemDeleted, deleted)

	return deleted, nil
}

// GetStock returns the current stock level for an item, serving from the
// snapshot cache when it is warm and falling back to the database
func (s *ItemService) GetStock(ctx context.Context, id int64, name string) (*models.Item, int, error) {
	item, err := s.FindItem(ctx, id, name)
	if err != nil {
		return nil, 0, err
	}

	qty, ok, err := s.redis.GetStock(ctx, item.ID)
	if err != nil {
		s.logger.Warn("Stock cache lookup failed", zap.Error(err))
	}
	if ok {
		return item, qty, nil
	}

	util.StockCacheMisses.Inc()
	if err := s.redis.SetStock(ctx, item.ID, item.Quantity); err != nil {
		s.logger.Warn("Failed to warm stock cache",
			zap.Int64("item_id", item.ID),
			zap.Error(err))
	}
	return item, item.Quantity, nil
}

// SyncStockCache seeds the stock snapshot cache from the database
func (s *ItemService) SyncStockCache(ctx context.Context) error {
	s.logger.Info("Starting stock cache sync")

	items, err := s.store.GetItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}

	for _, item := range items {
		if err := s.redis.SetStock(ctx, item.ID, item.Quantity); err != nil {
			s.logger.Error("Failed to seed stock snapshot",
				zap.Int64("item_id", item.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("Stock cache sync completed", zap.Int("count", len(items)))
	return nil
}

func (s *ItemService) publishItemEvent(ctx context.Context, eventType string, item *models.Item) {
	event := &models.ItemEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: eventType,
			Timestamp: time.Now(),
		},
		ItemID:      item.ID,
		Name:        item.Name,
		Quantity:    item.Quantity,
		TotalPrice:  item.TotalPrice,
		IsAvailable: item.IsAvailable,
	}

	if err := s.eventPublisher.PublishItemEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish item event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

func (s *ItemService) publishItemConsumed(ctx context.Context, item *models.Item) {
	event := &models.ItemConsumedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeItemConsumed,
			Timestamp: time.Now(),
		},
		ItemID: item.ID,
		Name:   item.Name,
	}

	if err := s.eventPublisher.PublishItemConsumed(ctx, event); err != nil {
		s.logger.Error("Failed to publish ItemConsumed event", zap.Error(err))
	}
}
