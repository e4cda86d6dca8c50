package services

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
)

// MenuService manages categories and items. Deleting a category removes its
// items with it.
type MenuService struct {
	menuRepo core.MenuRepo
	mylog    logger.Logger
}

func NewMenuService(menuRepo core.MenuRepo, mylog logger.Logger) *MenuService {
	return &MenuService{menuRepo: menuRepo, mylog: mylog}
}

func (s *MenuService) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	return s.menuRepo.ListCategories(ctx)
}

func (s *MenuService) CreateCategory(ctx context.Context, c models.MenuCategory) (models.MenuCategory, error) {
	if c.Name == "" {
		return models.MenuCategory{}, fmt.Errorf("%w: category name is required", core.ErrValidation)
	}
	category, err := s.menuRepo.CreateCategory(ctx, c)
	if err != nil {
		s.mylog.Action("create_category").Error("failed to create category", err)
		return models.MenuCategory{}, err
	}
	s.mylog.Action("create_category").With("category_id", category.ID).Info("category created")
	return category, nil
}

func (s *MenuService) UpdateCategory(ctx context.Context, c models.MenuCategory) (models.MenuCategory, error) {
	if c.Name == "" {
		return models.MenuCategory{}, fmt.Errorf("%w: category name is required", core.ErrValidation)
	}
	return s.menuRepo.UpdateCategory(ctx, c)
}

func (s *MenuService) DeleteCategory(ctx context.Context, id int64) error {
	return s.menuRepo.DeleteCategory(ctx, id)
}

func (s *MenuService) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.menuRepo.ListItems(ctx)
}

func (s *MenuService) GetItem(ctx context.Context, id int64) (models.MenuItem, error) {
	return s.menuRepo.GetItem(ctx, id)
}

func (s *MenuService) CreateItem(ctx context.Context, i models.MenuItem) (models.MenuItem, error) {
	if err := validateMenuItem(i); err != nil {
		return models.MenuItem{}, err
	}
	item, err := s.menuRepo.CreateItem(ctx, i)
	if err != nil {
		s.mylog.Action("create_menu_item").Error("failed to create menu item", err)
		return models.MenuItem{}, err
	}
	s.mylog.Action("create_menu_item").With("item_id", item.ID).Info("menu item created")
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, i models.MenuItem) (models.MenuItem, error) {
	if err := validateMenuItem(i); err != nil {
		return models.MenuItem{}, err
	}
	return s.menuRepo.UpdateItem(ctx, i)
}

func (s *MenuService) DeleteItem(ctx context.Context, id int64) error {
	return s.menuRepo.DeleteItem(ctx, id)
}

func (s *MenuService) ListIngredients(ctx context.Context, itemID int64) ([]models.MenuItemIngredient, error) {
	return s.menuRepo.ListIngredients(ctx, itemID)
}

func (s *MenuService) AddIngredient(ctx context.Context, ing models.MenuItemIngredient) (models.MenuItemIngredient, error) {
	mylog := s.mylog.Action("add_ingredient").With("item_id", ing.ItemID, "supply_id", ing.SupplyID)

	if ing.ItemID == 0 {
		return models.MenuItemIngredient{}, fmt.Errorf("%w: item reference is required", core.ErrValidation)
	}
	if ing.SupplyID == 0 {
		return models.MenuItemIngredient{}, fmt.Errorf("%w: supply reference is required", core.ErrValidation)
	}
	if ing.Quantity <= 0 {
		return models.MenuItemIngredient{}, fmt.Errorf("%w: required quantity must be positive", core.ErrValidation)
	}

	ingredient, err := s.menuRepo.AddIngredient(ctx, ing)
	if err != nil {
		mylog.Error("failed to add ingredient", err)
		return models.MenuItemIngredient{}, err
	}

	mylog.With("ingredient_id", ingredient.ID).Info("ingredient added")
	return ingredient, nil
}

func (s *MenuService) RemoveIngredient(ctx context.Context, id int64) error {
	return s.menuRepo.RemoveIngredient(ctx, id)
}

func validateMenuItem(i models.MenuItem) error {
	if i.Name == "" {
		return fmt.Errorf("%w: item name is required", core.ErrValidation)
	}
	if i.Price < 0 {
		return fmt.Errorf("%w: item price cannot be negative", core.ErrValidation)
	}
	if i.CategoryID == 0 {
		return fmt.Errorf("%w: category reference is required", core.ErrValidation)
	}
	return nil
}
