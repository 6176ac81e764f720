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

// FormService handles the withdrawal pipeline and form records
type FormService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewFormService creates a new form service
func NewFormService(store *store.Store, redis *redisclient.Client, eventPublisher *broker.EventPublisher) *FormService {
	return &FormService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// SubmitFormRequest represents a withdrawal request
type SubmitFormRequest struct {
	Shop     string `json:"shop"`
	Room     int    `json:"room"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Message  string `json:"message"`
}

// UpdateFormRequest represents a sparse form update
type UpdateFormRequest struct {
	FormID      int64   `json:"formId"`
	NewShop     *string `json:"newShop"`
	NewRoom     *int    `json:"newRoom"`
	NewItem     *string `json:"newItem"`
	NewQuantity *int    `json:"newQuantity"`
	NewMessage  *string `json:"newMessage"`
}

// normalizeQuantity applies the withdrawal quantity rules: an omitted or
// zero quantity means one unit, a negative quantity is rejected.
func normalizeQuantity(quantity int) (int, error) {
	if quantity == 0 {
		return 1, nil
	}
	if quantity < 0 {
		return 0, validationf("Invalid quantity")
	}
	return quantity, nil
}

// SubmitForm runs the withdrawal pipeline: resolve the item by name, check
// availability and stock, then decrement stock and insert the form snapshot
// in one transaction
func (s *FormService) SubmitForm(ctx context.Context, req *SubmitFormRequest) (*models.Form, error) {
	ctx, span := util.StartSpan(ctx, "FormService.SubmitForm")
	defer span.End()

	start := time.Now()
	defer func() {
		util.WithdrawalLatency.Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(req.Shop) == "" {
		util.WithdrawalsFailedTotal.WithLabelValues("validation").Inc()
		return nil, validationf("Shop name is required")
	}
	if strings.TrimSpace(req.Item) == "" {
		util.WithdrawalsFailedTotal.WithLabelValues("validation").Inc()
		return nil, validationf("Item name is required")
	}

	item, err := s.store.GetItemByName(ctx, req.Item)
	if errors.Is(err, store.ErrNotFound) {
		util.WithdrawalsFailedTotal.WithLabelValues("item_not_found").Inc()
		return nil, notFoundf("Item not found. Recheck item name.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}

	if !item.IsAvailable {
		util.WithdrawalsFailedTotal.WithLabelValues("unavailable").Inc()
		return nil, &UnavailableError{Message: "Selected item is not available"}
	}

	qty, err := normalizeQuantity(req.Quantity)
	if err != nil {
		util.WithdrawalsFailedTotal.WithLabelValues("invalid_quantity").Inc()
		return nil, err
	}

	if qty > item.Quantity {
		util.WithdrawalsFailedTotal.WithLabelValues("insufficient_stock").Inc()
		return nil, &InsufficientStockError{Available: item.Quantity}
	}

	form, updated, err := s.store.WithdrawFormTx(ctx, item.ID, store.WithdrawRequest{
		Shop:     strings.TrimSpace(req.Shop),
		Room:     req.Room,
		Quantity: qty,
		Message:  req.Message,
	})
	if err != nil {
		var insufficient *store.InsufficientStockError
		if errors.As(err, &insufficient) {
			// Lost a race: someone drained the stock between the check and the lock.
			util.WithdrawalsFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, &InsufficientStockError{Available: insufficient.Available}
		}
		if errors.Is(err, store.ErrNotFound) {
			util.WithdrawalsFailedTotal.WithLabelValues("item_not_found").Inc()
			return nil, notFoundf("Item not found. Recheck item name.")
		}
		util.WithdrawalsFailedTotal.WithLabelValues("storage").Inc()
		return nil, fmt.Errorf("withdrawal failed: %w", err)
	}

	util.WithdrawalsTotal.Inc()
	s.logger.Info("Stock withdrawn",
		zap.Int64("form_id", form.ID),
		zap.Int64("item_id", updated.ID),
		zap.Int("quantity", qty),
		zap.Int("remaining", updated.Quantity))

	if ok, err := s.redis.WithdrawStock(ctx, updated.ID, qty); err != nil {
		s.logger.Warn("Failed to update stock snapshot", zap.Error(err))
	} else if !ok {
		util.StockCacheMisses.Inc()
	}

	event := &models.StockWithdrawnEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockWithdrawn,
			Timestamp: time.Now(),
		},
		FormID:    form.ID,
		ItemID:    updated.ID,
		ItemName:  updated.Name,
		Shop:      form.Shop,
		Quantity:  form.Quantity,
		UnitPrice: form.Price,
		LineTotal: form.TotalPrice,
		Remaining: updated.Quantity,
	}
	if err := s.eventPublisher.PublishStockWithdrawn(ctx, event); err != nil {
		s.logger.Error("Failed to publish StockWithdrawn event", zap.Error(err))
	}

	return form, nil
}

// ListForms returns all forms, newest first
func (s *FormService) ListForms(ctx context.Context) ([]models.Form, error) {
	return s.store.GetForms(ctx)
}

// UpdateForm applies a sparse update to a form. A new item re-resolves the
// snapshot price from the item's current state; the total is recomputed
// from the final price and quantity.
func (s *FormService) UpdateForm(ctx context.Context, req *UpdateFormRequest) (*models.Form, error) {
	ctx, span := util.StartSpan(ctx, "FormService.UpdateForm")
	defer span.End()

	if req.FormID == 0 {
		return nil, validationf("Form id is required")
	}

	form, err := s.store.GetFormByID(ctx, req.FormID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("Form not found")
	}
	if err != nil {
		return nil, err
	}

	if req.NewShop != nil {
		form.Shop = *req.NewShop
	}
	if req.NewRoom != nil {
		form.Room = *req.NewRoom
	}
	if req.NewMessage != nil {
		form.Message = *req.NewMessage
	}

	if req.NewItem != nil {
		item, err := s.store.GetItemByName(ctx, *req.NewItem)
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundf("Item not found")
		}
		if err != nil {
			return nil, err
		}
		form.Item = item.Name
		form.Price = models.Round2(models.UnitPriceOf(item.TotalPrice, item.Quantity))
		form.IsAvailable = item.IsAvailable
		form.ItemID = item.ID
	}

	if req.NewQuantity != nil {
		qty, err := normalizeQuantity(*req.NewQuantity)
		if err != nil {
			return nil, err
		}
		form.Quantity = qty
	}

	form.TotalPrice = models.Round2(form.Price * float64(form.Quantity))

	if err := s.store.UpdateForm(ctx, form); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundf("Form not found")
		}
		return nil, fmt.Errorf("failed to update form: %w", err)
	}

	s.logger.Info("Form updated", zap.Int64("form_id", form.ID))
	return form, nil
}

// DeleteForm removes a form. Restocking is strictly opt-in: when restock is
// set the form's quantity and line total go back to the source item in the
// same transaction, otherwise the item is left untouched.
func (s *FormService) DeleteForm(ctx context.Context, formID int64, restock bool) (*models.Form, error) {
	ctx, span := util.StartSpan(ctx, "FormService.DeleteForm")
	defer span.End()

	if formID == 0 {
		return nil, validationf("Form id is required")
	}

	form, item, err := s.store.DeleteFormTx(ctx, formID, restock)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("Form not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete form: %w", err)
	}

	s.logger.Info("Form deleted",
		zap.Int64("form_id", form.ID),
		zap.Bool("restocked", item != nil))

	if item != nil {
		util.StockRestoredTotal.Inc()
		if err := s.redis.SetStock(ctx, item.ID, item.Quantity); err != nil {
			s.logger.Warn("Failed to refresh stock snapshot", zap.Error(err))
		}

		event := &models.StockRestoredEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeStockRestored,
				Timestamp: time.Now(),
			},
			FormID:    form.ID,
			ItemID:    item.ID,
			Quantity:  form.Quantity,
			Remaining: item.Quantity,
		}
		if err := s.eventPublisher.PublishStockRestored(ctx, event); err != nil {
			s.logger.Error("Failed to publish StockRestored event", zap.Error(err))
		}
	}

	return form, nil
}
