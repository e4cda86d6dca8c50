package services

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
)

// InventoryService tracks supplies through append-only movements; current
// stock is always derived, never edited in place.
type InventoryService struct {
	supplyRepo core.SupplyRepo
	mylog      logger.Logger
}

func NewInventoryService(supplyRepo core.SupplyRepo, mylog logger.Logger) *InventoryService {
	return &InventoryService{supplyRepo: supplyRepo, mylog: mylog}
}

func (s *InventoryService) List(ctx context.Context) ([]models.Supply, error) {
	return s.supplyRepo.List(ctx)
}

func (s *InventoryService) Create(ctx context.Context, supply models.Supply) (models.Supply, error) {
	if err := validateSupply(supply); err != nil {
		return models.Supply{}, err
	}
	created, err := s.supplyRepo.Create(ctx, supply)
	if err != nil {
		s.mylog.Action("create_supply").Error("failed to create supply", err)
		return models.Supply{}, err
	}
	s.mylog.Action("create_supply").With("supply_id", created.ID).Info("supply created")
	return created, nil
}

func (s *InventoryService) Update(ctx context.Context, supply models.Supply) (models.Supply, error) {
	if err := validateSupply(supply); err != nil {
		return models.Supply{}, err
	}
	return s.supplyRepo.Update(ctx, supply)
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	return s.supplyRepo.Delete(ctx, id)
}

func (s *InventoryService) RecordMovement(ctx context.Context, m models.SupplyMovement) (models.SupplyMovement, error) {
	mylog := s.mylog.Action("record_supply_movement").With("supply_id", m.SupplyID)

	if m.Kind != "in" && m.Kind != "out" {
		return models.SupplyMovement{}, fmt.Errorf("%w: movement kind must be \"in\" or \"out\"", core.ErrValidation)
	}
	if m.Quantity <= 0 {
		return models.SupplyMovement{}, fmt.Errorf("%w: movement quantity must be positive", core.ErrValidation)
	}

	movement, err := s.supplyRepo.RecordMovement(ctx, m)
	if err != nil {
		mylog.Error("failed to record movement", err)
		return models.SupplyMovement{}, err
	}

	mylog.With("movement_id", movement.ID, "kind", movement.Kind).Info("supply movement recorded")
	return movement, nil
}

func (s *InventoryService) Stock(ctx context.Context) ([]models.SupplyStock, error) {
	return s.supplyRepo.Stock(ctx)
}

func validateSupply(s models.Supply) error {
	if s.Name == "" {
		return fmt.Errorf("%w: supply name is required", core.ErrValidation)
	}
	if s.Unit == "" {
		return fmt.Errorf("%w: supply unit is required", core.ErrValidation)
	}
	if s.Stock < 0 {
		return fmt.Errorf("%w: base stock cannot be negative", core.ErrValidation)
	}
	return nil
}
