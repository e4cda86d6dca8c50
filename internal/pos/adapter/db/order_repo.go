package db

import (
	"context"
	"fmt"
	"strings"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type OrderRepo struct {
	db *DB
}

func NewOrderRepo(db *DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserts the order header, its lines and the initial status log entry
// in one transaction. No partial order is ever visible.
func (r *OrderRepo) Create(ctx context.Context, p core.CreateOrderParams, total float64) (models.OrderWithLines, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return models.OrderWithLines{}, storageErr("begin create order", err)
	}
	defer tx.Rollback(ctx)

	var out models.OrderWithLines
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (status, kind, total, note, customer_id, staff_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, core.StatusPending, p.Kind, total, p.Note, p.CustomerID, p.StaffID).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return models.OrderWithLines{}, storageErr("insert order", err)
	}
	out.Status = core.StatusPending
	out.Kind = p.Kind
	out.Total = total
	out.Note = p.Note
	out.CustomerID = p.CustomerID
	out.StaffID = p.StaffID

	for _, line := range p.Lines {
		subtotal := float64(line.Quantity) * line.UnitPrice
		var l models.OrderLine
		err = tx.QueryRow(ctx, `
			INSERT INTO order_lines (order_id, item_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, (SELECT name FROM menu_items WHERE id = $2)
		`, out.ID, line.ItemID, line.Quantity, line.UnitPrice, subtotal).
			Scan(&l.ID, &l.ItemName)
		if err != nil {
			return models.OrderWithLines{}, storageErr("insert order line", err)
		}
		l.OrderID = out.ID
		l.ItemID = line.ItemID
		l.Quantity = line.Quantity
		l.UnitPrice = line.UnitPrice
		l.Subtotal = subtotal
		out.Lines = append(out.Lines, l)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, note)
		VALUES ($1, $2, $3, '')
	`, out.ID, core.StatusPending, p.StaffID)
	if err != nil {
		return models.OrderWithLines{}, storageErr("insert status log", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.OrderWithLines{}, storageErr("commit create order", err)
	}

	return out, nil
}

// SetStatus updates the order row and appends to the status log atomically.
// Missing orders surface as ErrNotFound.
func (r *OrderRepo) SetStatus(ctx context.Context, id int64, status string, changedBy int64) (models.OrderWithLines, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return models.OrderWithLines{}, storageErr("begin set status", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return models.OrderWithLines{}, storageErr("update order status", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.OrderWithLines{}, fmt.Errorf("%w: order %d", core.ErrNotFound, id)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, note)
		VALUES ($1, $2, $3, '')
	`, id, status, changedBy)
	if err != nil {
		return models.OrderWithLines{}, storageErr("insert status log", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.OrderWithLines{}, storageErr("commit set status", err)
	}

	return r.GetWithLines(ctx, id)
}

func (r *OrderRepo) GetWithLines(ctx context.Context, id int64) (models.OrderWithLines, error) {
	var out models.OrderWithLines
	err := r.db.Pool.QueryRow(ctx, `
		SELECT o.id, o.created_at, o.status, o.kind, o.total, o.note,
		       o.customer_id, COALESCE(c.first_name || ' ' || c.last_name, ''), o.staff_id
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id).Scan(&out.ID, &out.CreatedAt, &out.Status, &out.Kind, &out.Total,
		&out.Note, &out.CustomerID, &out.CustomerName, &out.StaffID)
	if err != nil {
		if isNoRows(err) {
			return models.OrderWithLines{}, fmt.Errorf("%w: order %d", core.ErrNotFound, id)
		}
		return models.OrderWithLines{}, storageErr("select order", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT l.id, l.order_id, l.item_id, COALESCE(m.name, ''), l.quantity, l.unit_price, l.subtotal
		FROM order_lines l
		LEFT JOIN menu_items m ON m.id = l.item_id
		WHERE l.order_id = $1
		ORDER BY l.id
	`, id)
	if err != nil {
		return models.OrderWithLines{}, storageErr("select order lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.ItemName, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return models.OrderWithLines{}, storageErr("scan order line", err)
		}
		out.Lines = append(out.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return models.OrderWithLines{}, storageErr("iterate order lines", err)
	}

	return out, nil
}

func (r *OrderRepo) List(ctx context.Context, f core.ListOrdersFilter) ([]models.Order, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT o.id, o.created_at, o.status, o.kind, o.total, o.note,
		       o.customer_id, COALESCE(c.first_name || ' ' || c.last_name, ''), o.staff_id
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
	`)

	args := []any{}
	if len(f.Statuses) > 0 {
		sb.WriteString(` WHERE o.status = ANY($1)`)
		args = append(args, f.Statuses)
	}
	if f.Ascending {
		sb.WriteString(` ORDER BY o.created_at ASC`)
	} else {
		sb.WriteString(` ORDER BY o.created_at DESC`)
	}

	rows, err := r.db.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CreatedAt, &o.Status, &o.Kind, &o.Total,
			&o.Note, &o.CustomerID, &o.CustomerName, &o.StaffID); err != nil {
			return nil, storageErr("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate orders", err)
	}

	return orders, nil
}
