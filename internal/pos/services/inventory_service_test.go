package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type fakeSupplyRepo struct {
	supplies  []models.Supply
	movements []models.SupplyMovement
}

func (f *fakeSupplyRepo) List(_ context.Context) ([]models.Supply, error) { return f.supplies, nil }

func (f *fakeSupplyRepo) Create(_ context.Context, s models.Supply) (models.Supply, error) {
	s.ID = int64(len(f.supplies) + 1)
	f.supplies = append(f.supplies, s)
	return s, nil
}

func (f *fakeSupplyRepo) Update(_ context.Context, s models.Supply) (models.Supply, error) {
	return s, nil
}

func (f *fakeSupplyRepo) Delete(_ context.Context, _ int64) error { return nil }

func (f *fakeSupplyRepo) RecordMovement(_ context.Context, m models.SupplyMovement) (models.SupplyMovement, error) {
	m.ID = int64(len(f.movements) + 1)
	f.movements = append(f.movements, m)
	return m, nil
}

func (f *fakeSupplyRepo) Stock(_ context.Context) ([]models.SupplyStock, error) { return nil, nil }

func TestRecordMovementValidatesKind(t *testing.T) {
	repo := &fakeSupplyRepo{}
	svc := NewInventoryService(repo, testLogger())

	_, err := svc.RecordMovement(context.Background(), models.SupplyMovement{
		SupplyID: 1, Kind: "sideways", Quantity: 5,
	})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.RecordMovement(context.Background(), models.SupplyMovement{
		SupplyID: 1, Kind: "in", Quantity: 0,
	})
	assert.ErrorIs(t, err, core.ErrValidation)

	movement, err := svc.RecordMovement(context.Background(), models.SupplyMovement{
		SupplyID: 1, Kind: "out", Quantity: 2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "out", movement.Kind)
	assert.Len(t, repo.movements, 1)
}

func TestCreateSupplyValidation(t *testing.T) {
	svc := NewInventoryService(&fakeSupplyRepo{}, testLogger())

	_, err := svc.Create(context.Background(), models.Supply{Unit: "kg"})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Create(context.Background(), models.Supply{Name: "Flour"})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Create(context.Background(), models.Supply{Name: "Flour", Unit: "kg", Stock: -1})
	assert.ErrorIs(t, err, core.ErrValidation)

	supply, err := svc.Create(context.Background(), models.Supply{Name: "Flour", Unit: "kg", Stock: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), supply.ID)
}
