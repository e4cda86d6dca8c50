package db

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type InvoiceRepo struct {
	db *DB
}

func NewInvoiceRepo(db *DB) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// issueInvoiceTx creates an invoice inside the caller's transaction. With an
// order reference it snapshots the order's current lines; without one (walk-up
// sale) the amount paid is the subtotal and no lines are recorded. The unique
// constraint on invoices.order_id backstops the existence check under races.
func issueInvoiceTx(ctx context.Context, tx pgx.Tx, orderID *int64, amount, taxRate float64, paymentMethod string) (models.InvoiceWithLines, error) {
	var out models.InvoiceWithLines

	subtotal := amount
	if orderID != nil {
		var orderTotal float64
		err := tx.QueryRow(ctx, `SELECT total FROM orders WHERE id = $1`, *orderID).Scan(&orderTotal)
		if err != nil {
			if isNoRows(err) {
				return models.InvoiceWithLines{}, fmt.Errorf("%w: order %d", core.ErrNotFound, *orderID)
			}
			return models.InvoiceWithLines{}, storageErr("select order", err)
		}
		subtotal = orderTotal

		var existing int64
		err = tx.QueryRow(ctx, `SELECT id FROM invoices WHERE order_id = $1`, *orderID).Scan(&existing)
		if err == nil {
			return models.InvoiceWithLines{}, fmt.Errorf("%w: order %d already has invoice %d", core.ErrConflict, *orderID, existing)
		}
		if !isNoRows(err) {
			return models.InvoiceWithLines{}, storageErr("check existing invoice", err)
		}
	}

	tax := round2(subtotal * taxRate)
	total := subtotal + tax

	if paymentMethod == "" {
		paymentMethod = core.PaymentCash
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO invoices (order_id, subtotal, tax, total, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, issued_at
	`, orderID, subtotal, tax, total, paymentMethod, core.InvoiceIssued).
		Scan(&out.ID, &out.IssuedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.InvoiceWithLines{}, fmt.Errorf("%w: order already has an invoice", core.ErrConflict)
		}
		return models.InvoiceWithLines{}, storageErr("insert invoice", err)
	}
	out.OrderID = orderID
	out.Subtotal = subtotal
	out.Tax = tax
	out.Total = total
	out.PaymentMethod = paymentMethod
	out.Status = core.InvoiceIssued

	if orderID != nil {
		rows, err := tx.Query(ctx, `
			SELECT COALESCE(m.name, ''), l.quantity, l.unit_price, l.subtotal
			FROM order_lines l
			LEFT JOIN menu_items m ON m.id = l.item_id
			WHERE l.order_id = $1
			ORDER BY l.id
		`, *orderID)
		if err != nil {
			return models.InvoiceWithLines{}, storageErr("snapshot order lines", err)
		}

		type snap struct {
			name      string
			quantity  int
			unitPrice float64
			subtotal  float64
		}
		var snaps []snap
		for rows.Next() {
			var s snap
			if err := rows.Scan(&s.name, &s.quantity, &s.unitPrice, &s.subtotal); err != nil {
				rows.Close()
				return models.InvoiceWithLines{}, storageErr("scan order line", err)
			}
			snaps = append(snaps, s)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return models.InvoiceWithLines{}, storageErr("iterate order lines", err)
		}

		for _, s := range snaps {
			var l models.InvoiceLine
			err = tx.QueryRow(ctx, `
				INSERT INTO invoice_lines (invoice_id, item_name, quantity, unit_price, subtotal)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, out.ID, s.name, s.quantity, s.unitPrice, s.subtotal).Scan(&l.ID)
			if err != nil {
				return models.InvoiceWithLines{}, storageErr("insert invoice line", err)
			}
			l.InvoiceID = out.ID
			l.ItemName = s.name
			l.Quantity = s.quantity
			l.UnitPrice = s.unitPrice
			l.Subtotal = s.subtotal
			out.Lines = append(out.Lines, l)
		}
	}

	return out, nil
}

func (r *InvoiceRepo) Issue(ctx context.Context, orderID int64, taxRate float64, paymentMethod string) (models.InvoiceWithLines, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return models.InvoiceWithLines{}, storageErr("begin issue invoice", err)
	}
	defer tx.Rollback(ctx)

	out, err := issueInvoiceTx(ctx, tx, &orderID, 0, taxRate, paymentMethod)
	if err != nil {
		return models.InvoiceWithLines{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return models.InvoiceWithLines{}, fmt.Errorf("%w: order already has an invoice", core.ErrConflict)
		}
		return models.InvoiceWithLines{}, storageErr("commit issue invoice", err)
	}

	return out, nil
}

func (r *InvoiceRepo) Get(ctx context.Context, id int64) (models.InvoiceWithLines, error) {
	var out models.InvoiceWithLines
	err := r.db.Pool.QueryRow(ctx, `
		SELECT f.id, f.order_id, f.issued_at, f.subtotal, f.tax, f.total,
		       f.payment_method, f.status,
		       COALESCE(c.first_name || ' ' || c.last_name, '')
		FROM invoices f
		LEFT JOIN orders o ON o.id = f.order_id
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE f.id = $1
	`, id).Scan(&out.ID, &out.OrderID, &out.IssuedAt, &out.Subtotal, &out.Tax,
		&out.Total, &out.PaymentMethod, &out.Status, &out.CustomerName)
	if err != nil {
		if isNoRows(err) {
			return models.InvoiceWithLines{}, fmt.Errorf("%w: invoice %d", core.ErrNotFound, id)
		}
		return models.InvoiceWithLines{}, storageErr("select invoice", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, invoice_id, item_name, quantity, unit_price, subtotal
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return models.InvoiceWithLines{}, storageErr("select invoice lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ItemName, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return models.InvoiceWithLines{}, storageErr("scan invoice line", err)
		}
		out.Lines = append(out.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return models.InvoiceWithLines{}, storageErr("iterate invoice lines", err)
	}

	return out, nil
}

func (r *InvoiceRepo) List(ctx context.Context) ([]models.Invoice, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT f.id, f.order_id, f.issued_at, f.subtotal, f.tax, f.total,
		       f.payment_method, f.status,
		       COALESCE(c.first_name || ' ' || c.last_name, '')
		FROM invoices f
		LEFT JOIN orders o ON o.id = f.order_id
		LEFT JOIN customers c ON c.id = o.customer_id
		ORDER BY f.id DESC
	`)
	if err != nil {
		return nil, storageErr("list invoices", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.OrderID, &inv.IssuedAt, &inv.Subtotal, &inv.Tax,
			&inv.Total, &inv.PaymentMethod, &inv.Status, &inv.CustomerName); err != nil {
			return nil, storageErr("scan invoice", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate invoices", err)
	}

	return invoices, nil
}
