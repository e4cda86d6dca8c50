package db

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type SupplyRepo struct {
	db *DB
}

func NewSupplyRepo(db *DB) *SupplyRepo {
	return &SupplyRepo{db: db}
}

func (r *SupplyRepo) List(ctx context.Context) ([]models.Supply, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, description, stock, unit, status FROM supplies ORDER BY id
	`)
	if err != nil {
		return nil, storageErr("list supplies", err)
	}
	defer rows.Close()

	supplies := []models.Supply{}
	for rows.Next() {
		var s models.Supply
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Stock, &s.Unit, &s.Status); err != nil {
			return nil, storageErr("scan supply", err)
		}
		supplies = append(supplies, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate supplies", err)
	}

	return supplies, nil
}

func (r *SupplyRepo) Create(ctx context.Context, s models.Supply) (models.Supply, error) {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO supplies (name, description, stock, unit, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, s.Name, s.Description, s.Stock, s.Unit, s.Status).Scan(&s.ID)
	if err != nil {
		return models.Supply{}, storageErr("insert supply", err)
	}
	return s, nil
}

func (r *SupplyRepo) Update(ctx context.Context, s models.Supply) (models.Supply, error) {
	cmdTag, err := r.db.Pool.Exec(ctx, `
		UPDATE supplies
		SET name = $1, description = $2, stock = COALESCE($3, stock), unit = $4, status = $5
		WHERE id = $6
	`, s.Name, s.Description, s.Stock, s.Unit, s.Status, s.ID)
	if err != nil {
		return models.Supply{}, storageErr("update supply", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.Supply{}, fmt.Errorf("%w: supply %d", core.ErrNotFound, s.ID)
	}
	return s, nil
}

func (r *SupplyRepo) Delete(ctx context.Context, id int64) error {
	// Movements referencing the supply go with it, as the original did.
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return storageErr("begin delete supply", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM supply_movements WHERE supply_id = $1`, id); err != nil {
		return storageErr("delete supply movements", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM supplies WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete supply", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supply %d", core.ErrNotFound, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit delete supply", err)
	}
	return nil
}

func (r *SupplyRepo) RecordMovement(ctx context.Context, m models.SupplyMovement) (models.SupplyMovement, error) {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO supply_movements (supply_id, kind, quantity, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, recorded_at
	`, m.SupplyID, m.Kind, m.Quantity, m.Note).Scan(&m.ID, &m.RecordedAt)
	if err != nil {
		return models.SupplyMovement{}, storageErr("insert supply movement", err)
	}
	return m, nil
}

// Stock derives current stock from the base stock plus signed movements and
// carries last-movement metadata for the inventory view.
func (r *SupplyRepo) Stock(ctx context.Context) ([]models.SupplyStock, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT s.id, s.name, s.description, s.stock, s.unit, s.status,
		       COALESCE(SUM(CASE WHEN m.kind = 'in' THEN m.quantity
		                         WHEN m.kind = 'out' THEN -m.quantity
		                         ELSE 0 END), 0) AS movements_total,
		       (SELECT m2.recorded_at FROM supply_movements m2
		        WHERE m2.supply_id = s.id ORDER BY m2.recorded_at DESC LIMIT 1),
		       COALESCE((SELECT m3.kind FROM supply_movements m3
		        WHERE m3.supply_id = s.id ORDER BY m3.recorded_at DESC LIMIT 1), '')
		FROM supplies s
		LEFT JOIN supply_movements m ON m.supply_id = s.id
		GROUP BY s.id, s.name, s.description, s.stock, s.unit, s.status
		ORDER BY s.id
	`)
	if err != nil {
		return nil, storageErr("stock projection", err)
	}
	defer rows.Close()

	stock := []models.SupplyStock{}
	for rows.Next() {
		var s models.SupplyStock
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Stock, &s.Unit, &s.Status,
			&s.MovementsTotal, &s.LastMovementAt, &s.LastMovementKind); err != nil {
			return nil, storageErr("scan stock row", err)
		}
		s.CurrentStock = s.Stock + s.MovementsTotal
		stock = append(stock, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate stock rows", err)
	}

	return stock, nil
}
