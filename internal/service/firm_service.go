package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// FirmService handles vendor purchase records. Firms have no coupling to
// items or forms.
type FirmService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewFirmService creates a new firm service
func NewFirmService(store *store.Store) *FirmService {
	return &FirmService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateFirmRequest represents a request to create a firm record
type CreateFirmRequest struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
	TotalPrice   float64 `json:"totalPrice"`
	Vender       string  `json:"vender"`
}

// UpdateFirmRequest represents a sparse firm update, keyed by id or name
type UpdateFirmRequest struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	NewName         *string  `json:"newName"`
	NewQuantity     *int     `json:"newQuantity"`
	NewPricePerUnit *float64 `json:"newPricePerUnit"`
	NewTotalPrice   *float64 `json:"newTotalPrice"`
	NewVender       *string  `json:"newVender"`
}

// CreateFirm creates a new vendor purchase record
func (s *FirmService) CreateFirm(ctx context.Context, req *CreateFirmRequest) (*models.Firm, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, validationf("Firm name is required")
	}
	if strings.TrimSpace(req.Vender) == "" {
		return nil, validationf("Vender name is required")
	}

	firm := &models.Firm{
		Name:         strings.TrimSpace(req.Name),
		Quantity:     req.Quantity,
		PricePerUnit: models.Round2(req.PricePerUnit),
		TotalPrice:   models.Round2(req.TotalPrice),
		Vender:       strings.TrimSpace(req.Vender),
	}

	if err := s.store.CreateFirm(ctx, firm); err != nil {
		return nil, fmt.Errorf("failed to create firm: %w", err)
	}

	s.logger.Info("Firm created",
		zap.Int64("firm_id", firm.ID),
		zap.String("name", firm.Name))
	return firm, nil
}

// ListFirms returns all firms, newest first
func (s *FirmService) ListFirms(ctx context.Context) ([]models.Firm, error) {
	return s.store.GetFirms(ctx)
}

// FindFirm returns a single firm by id or name
func (s *FirmService) FindFirm(ctx context.Context, id int64, name string) (*models.Firm, error) {
	if id == 0 && strings.TrimSpace(name) == "" {
		return nil, validationf("Firm id or name is required")
	}
	firm, err := s.store.FindFirm(ctx, id, strings.TrimSpace(name))
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("Firm not found")
	}
	return firm, err
}

// UpdateFirm applies a sparse update to a firm found by id or name
func (s *FirmService) UpdateFirm(ctx context.Context, req *UpdateFirmRequest) (*models.Firm, error) {
	firm, err := s.FindFirm(ctx, req.ID, req.Name)
	if err != nil {
		return nil, err
	}

	if req.NewName == nil && req.NewQuantity == nil && req.NewPricePerUnit == nil &&
		req.NewTotalPrice == nil && req.NewVender == nil {
		return nil, validationf("No fields provided to update")
	}

	if req.NewName != nil {
		newName := strings.TrimSpace(*req.NewName)
		if newName == "" {
			return nil, validationf("Firm name must not be empty")
		}
		firm.Name = newName
	}
	if req.NewQuantity != nil {
		firm.Quantity = *req.NewQuantity
	}
	if req.NewPricePerUnit != nil {
		firm.PricePerUnit = models.Round2(*req.NewPricePerUnit)
	}
	if req.NewTotalPrice != nil {
		firm.TotalPrice = models.Round2(*req.NewTotalPrice)
	}
	if req.NewVender != nil {
		firm.Vender = strings.TrimSpace(*req.NewVender)
	}

	if err := s.store.UpdateFirm(ctx, firm); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundf("Firm not found")
		}
		return nil, fmt.Errorf("failed to update firm: %w", err)
	}

	s.logger.Info("Firm updated", zap.Int64("firm_id", firm.ID))
	return firm, nil
}

// DeleteFirm removes a firm found by id or name
func (s *FirmService) DeleteFirm(ctx context.Context, id int64, name string) (*models.Firm, error) {
	firm, err := s.FindFirm(ctx, id, name)
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteFirm(ctx, firm.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("Firm not found")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Firm deleted", zap.Int64("firm_id", deleted.ID))
	return deleted, nil
}
