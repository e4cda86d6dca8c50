package db

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type MenuRepo struct {
	db *DB
}

func NewMenuRepo(db *DB) *MenuRepo {
	return &MenuRepo{db: db}
}

func (r *MenuRepo) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, description FROM menu_categories ORDER BY id`)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	categories := []models.MenuCategory{}
	for rows.Next() {
		var c models.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, storageErr("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate categories", err)
	}

	return categories, nil
}

func (r *MenuRepo) CreateCategory(ctx context.Context, c models.MenuCategory) (models.MenuCategory, error) {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO menu_categories (name, description) VALUES ($1, $2) RETURNING id
	`, c.Name, c.Description).Scan(&c.ID)
	if err != nil {
		return models.MenuCategory{}, storageErr("insert category", err)
	}
	return c, nil
}

func (r *MenuRepo) UpdateCategory(ctx context.Context, c models.MenuCategory) (models.MenuCategory, error) {
	cmdTag, err := r.db.Pool.Exec(ctx, `
		UPDATE menu_categories SET name = $1, description = $2 WHERE id = $3
	`, c.Name, c.Description, c.ID)
	if err != nil {
		return models.MenuCategory{}, storageErr("update category", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.MenuCategory{}, fmt.Errorf("%w: category %d", core.ErrNotFound, c.ID)
	}
	return c, nil
}

func (r *MenuRepo) DeleteCategory(ctx context.Context, id int64) error {
	// Items under the category go with it, matching the original behavior.
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return storageErr("begin delete category", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE category_id = $1`, id); err != nil {
		return storageErr("delete category items", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM menu_categories WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete category", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %d", core.ErrNotFound, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit delete category", err)
	}
	return nil
}

const itemColumns = `i.id, i.category_id, COALESCE(c.name, ''), i.name, i.description, i.price, i.status, i.image`

func scanItem(row interface{ Scan(...any) error }) (models.MenuItem, error) {
	var i models.MenuItem
	err := row.Scan(&i.ID, &i.CategoryID, &i.CategoryName, &i.Name, &i.Description, &i.Price, &i.Status, &i.Image)
	return i, err
}

func (r *MenuRepo) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM menu_items i
		LEFT JOIN menu_categories c ON c.id = i.category_id
		ORDER BY i.id
	`)
	if err != nil {
		return nil, storageErr("list items", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, storageErr("scan item", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate items", err)
	}

	return items, nil
}

func (r *MenuRepo) GetItem(ctx context.Context, id int64) (models.MenuItem, error) {
	i, err := scanItem(r.db.Pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM menu_items i
		LEFT JOIN menu_categories c ON c.id = i.category_id
		WHERE i.id = $1
	`, id))
	if err != nil {
		if isNoRows(err) {
			return models.MenuItem{}, fmt.Errorf("%w: menu item %d", core.ErrNotFound, id)
		}
		return models.MenuItem{}, storageErr("select item", err)
	}
	return i, nil
}

func (r *MenuRepo) CreateItem(ctx context.Context, i models.MenuItem) (models.MenuItem, error) {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO menu_items (category_id, name, description, price, status, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, i.CategoryID, i.Name, i.Description, i.Price, i.Status, i.Image).Scan(&i.ID)
	if err != nil {
		return models.MenuItem{}, storageErr("insert item", err)
	}
	return r.GetItem(ctx, i.ID)
}

func (r *MenuRepo) UpdateItem(ctx context.Context, i models.MenuItem) (models.MenuItem, error) {
	cmdTag, err := r.db.Pool.Exec(ctx, `
		UPDATE menu_items
		SET category_id = $1, name = $2, description = $3, price = $4, status = $5, image = $6
		WHERE id = $7
	`, i.CategoryID, i.Name, i.Description, i.Price, i.Status, i.Image, i.ID)
	if err != nil {
		return models.MenuItem{}, storageErr("update item", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.MenuItem{}, fmt.Errorf("%w: menu item %d", core.ErrNotFound, i.ID)
	}
	return r.GetItem(ctx, i.ID)
}

// DeleteItem removes the item; its recipe rows go with it via the cascade.
func (r *MenuRepo) DeleteItem(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete item", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: menu item %d", core.ErrNotFound, id)
	}
	return nil
}

func (r *MenuRepo) ListIngredients(ctx context.Context, itemID int64) ([]models.MenuItemIngredient, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT mi.id, mi.item_id, mi.supply_id, COALESCE(s.name, ''), COALESCE(s.unit, ''), mi.quantity
		FROM menu_item_ingredients mi
		LEFT JOIN supplies s ON s.id = mi.supply_id
		WHERE mi.item_id = $1
		ORDER BY mi.id
	`, itemID)
	if err != nil {
		return nil, storageErr("list ingredients", err)
	}
	defer rows.Close()

	ingredients := []models.MenuItemIngredient{}
	for rows.Next() {
		var ing models.MenuItemIngredient
		if err := rows.Scan(&ing.ID, &ing.ItemID, &ing.SupplyID, &ing.SupplyName, &ing.Unit, &ing.Quantity); err != nil {
			return nil, storageErr("scan ingredient", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate ingredients", err)
	}

	return ingredients, nil
}

func (r *MenuRepo) AddIngredient(ctx context.Context, ing models.MenuItemIngredient) (models.MenuItemIngredient, error) {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO menu_item_ingredients (item_id, supply_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id,
			(SELECT COALESCE(name, '') FROM supplies WHERE id = $2),
			(SELECT COALESCE(unit, '') FROM supplies WHERE id = $2)
	`, ing.ItemID, ing.SupplyID, ing.Quantity).Scan(&ing.ID, &ing.SupplyName, &ing.Unit)
	if err != nil {
		if isUniqueViolation(err) {
			return models.MenuItemIngredient{}, fmt.Errorf("%w: item %d already uses supply %d",
				core.ErrConflict, ing.ItemID, ing.SupplyID)
		}
		return models.MenuItemIngredient{}, storageErr("insert ingredient", err)
	}
	return ing, nil
}

func (r *MenuRepo) RemoveIngredient(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Pool.Exec(ctx, `DELETE FROM menu_item_ingredients WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete ingredient", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ingredient %d", core.ErrNotFound, id)
	}
	return nil
}
