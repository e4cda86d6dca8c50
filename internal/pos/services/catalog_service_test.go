package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type fakeMenuRepo struct {
	categories  []models.MenuCategory
	items       []models.MenuItem
	ingredients []models.MenuItemIngredient
}

func (f *fakeMenuRepo) ListCategories(_ context.Context) ([]models.MenuCategory, error) {
	return f.categories, nil
}

func (f *fakeMenuRepo) CreateCategory(_ context.Context, c models.MenuCategory) (models.MenuCategory, error) {
	c.ID = int64(len(f.categories) + 1)
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeMenuRepo) UpdateCategory(_ context.Context, c models.MenuCategory) (models.MenuCategory, error) {
	return c, nil
}

func (f *fakeMenuRepo) DeleteCategory(_ context.Context, _ int64) error { return nil }

func (f *fakeMenuRepo) ListItems(_ context.Context) ([]models.MenuItem, error) {
	return f.items, nil
}

func (f *fakeMenuRepo) GetItem(_ context.Context, id int64) (models.MenuItem, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.MenuItem{}, core.ErrNotFound
}

func (f *fakeMenuRepo) CreateItem(_ context.Context, i models.MenuItem) (models.MenuItem, error) {
	i.ID = int64(len(f.items) + 1)
	f.items = append(f.items, i)
	return i, nil
}

func (f *fakeMenuRepo) UpdateItem(_ context.Context, i models.MenuItem) (models.MenuItem, error) {
	return i, nil
}

func (f *fakeMenuRepo) DeleteItem(_ context.Context, _ int64) error { return nil }

func (f *fakeMenuRepo) ListIngredients(_ context.Context, itemID int64) ([]models.MenuItemIngredient, error) {
	out := []models.MenuItemIngredient{}
	for _, ing := range f.ingredients {
		if ing.ItemID == itemID {
			out = append(out, ing)
		}
	}
	return out, nil
}

func (f *fakeMenuRepo) AddIngredient(_ context.Context, ing models.MenuItemIngredient) (models.MenuItemIngredient, error) {
	for _, existing := range f.ingredients {
		if existing.ItemID == ing.ItemID && existing.SupplyID == ing.SupplyID {
			return models.MenuItemIngredient{}, fmt.Errorf("%w: item %d already uses supply %d",
				core.ErrConflict, ing.ItemID, ing.SupplyID)
		}
	}
	ing.ID = int64(len(f.ingredients) + 1)
	f.ingredients = append(f.ingredients, ing)
	return ing, nil
}

func (f *fakeMenuRepo) RemoveIngredient(_ context.Context, id int64) error {
	for i, ing := range f.ingredients {
		if ing.ID == id {
			f.ingredients = append(f.ingredients[:i], f.ingredients[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func TestAddIngredientValidation(t *testing.T) {
	repo := &fakeMenuRepo{}
	svc := NewMenuService(repo, testLogger())

	cases := []struct {
		name string
		ing  models.MenuItemIngredient
	}{
		{"missing item", models.MenuItemIngredient{SupplyID: 2, Quantity: 1}},
		{"missing supply", models.MenuItemIngredient{ItemID: 1, Quantity: 1}},
		{"zero quantity", models.MenuItemIngredient{ItemID: 1, SupplyID: 2}},
		{"negative quantity", models.MenuItemIngredient{ItemID: 1, SupplyID: 2, Quantity: -0.5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddIngredient(context.Background(), tc.ing)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
	assert.Empty(t, repo.ingredients)
}

func TestAddIngredientDuplicateSupplyConflicts(t *testing.T) {
	repo := &fakeMenuRepo{}
	svc := NewMenuService(repo, testLogger())

	ing, err := svc.AddIngredient(context.Background(), models.MenuItemIngredient{
		ItemID: 1, SupplyID: 2, Quantity: 0.25,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ing.ID)

	_, err = svc.AddIngredient(context.Background(), models.MenuItemIngredient{
		ItemID: 1, SupplyID: 2, Quantity: 0.5,
	})
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestIngredientListAndRemove(t *testing.T) {
	repo := &fakeMenuRepo{}
	svc := NewMenuService(repo, testLogger())

	_, err := svc.AddIngredient(context.Background(), models.MenuItemIngredient{ItemID: 1, SupplyID: 2, Quantity: 0.25})
	require.NoError(t, err)
	second, err := svc.AddIngredient(context.Background(), models.MenuItemIngredient{ItemID: 1, SupplyID: 3, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddIngredient(context.Background(), models.MenuItemIngredient{ItemID: 9, SupplyID: 2, Quantity: 2})
	require.NoError(t, err)

	listed, err := svc.ListIngredients(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	require.NoError(t, svc.RemoveIngredient(context.Background(), second.ID))

	listed, err = svc.ListIngredients(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	err = svc.RemoveIngredient(context.Background(), second.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
