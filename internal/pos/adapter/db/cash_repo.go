package db

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type CashRepo struct {
	db *DB
}

func NewCashRepo(db *DB) *CashRepo {
	return &CashRepo{db: db}
}

// Open inserts the session row and its opening movement together. The partial
// unique index on open sessions resolves concurrent opens; the loser gets a
// unique violation which surfaces as ErrConflict.
func (r *CashRepo) Open(ctx context.Context, openingFloat float64, openedBy int64) (models.CashSession, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return models.CashSession{}, storageErr("begin open session", err)
	}
	defer tx.Rollback(ctx)

	var s models.CashSession
	err = tx.QueryRow(ctx, `
		INSERT INTO cash_sessions (opening_float, status, opened_by)
		VALUES ($1, $2, $3)
		RETURNING id, opened_at
	`, openingFloat, core.SessionOpen, openedBy).Scan(&s.ID, &s.OpenedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.CashSession{}, fmt.Errorf("%w: a cash session is already open", core.ErrConflict)
		}
		return models.CashSession{}, storageErr("insert session", err)
	}
	s.OpeningFloat = openingFloat
	s.Status = core.SessionOpen
	s.OpenedBy = openedBy

	_, err = tx.Exec(ctx, `
		INSERT INTO cash_movements (session_id, kind, amount, description)
		VALUES ($1, $2, $3, 'opening float')
	`, s.ID, core.MovementOpen, openingFloat)
	if err != nil {
		return models.CashSession{}, storageErr("insert open movement", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return models.CashSession{}, fmt.Errorf("%w: a cash session is already open", core.ErrConflict)
		}
		return models.CashSession{}, storageErr("commit open session", err)
	}

	return s, nil
}

// RecordSale re-checks the session status under a row lock so a sale can
// never land in a session that a concurrent Close just finished.
func (r *CashRepo) RecordSale(ctx context.Context, p core.RecordSaleParams) (models.CashMovement, *models.Invoice, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return models.CashMovement{}, nil, storageErr("begin record sale", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx, `
		SELECT status FROM cash_sessions WHERE id = $1 FOR UPDATE
	`, p.SessionID).Scan(&status)
	if err != nil {
		if isNoRows(err) {
			return models.CashMovement{}, nil, fmt.Errorf("%w: cash session %d", core.ErrNotFound, p.SessionID)
		}
		return models.CashMovement{}, nil, storageErr("lock session", err)
	}
	if status != core.SessionOpen {
		return models.CashMovement{}, nil, fmt.Errorf("%w: cash session %d is closed", core.ErrConflict, p.SessionID)
	}

	var m models.CashMovement
	err = tx.QueryRow(ctx, `
		INSERT INTO cash_movements (session_id, kind, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, recorded_at
	`, p.SessionID, core.MovementSale, p.Amount, p.Description).Scan(&m.ID, &m.RecordedAt)
	if err != nil {
		return models.CashMovement{}, nil, storageErr("insert sale movement", err)
	}
	m.SessionID = p.SessionID
	m.Kind = core.MovementSale
	m.Amount = p.Amount
	m.Description = p.Description

	var invoice *models.Invoice
	if p.WithInvoice {
		issued, err := issueInvoiceTx(ctx, tx, p.OrderID, p.Amount, p.TaxRate, p.PaymentMethod)
		if err != nil {
			return models.CashMovement{}, nil, err
		}
		invoice = &issued.Invoice
	}

	if err := tx.Commit(ctx); err != nil {
		return models.CashMovement{}, nil, storageErr("commit record sale", err)
	}

	return m, invoice, nil
}

// Close finds the session (the open one when no id is given), sums its sale
// movements for the current accounting day and writes the closing state plus
// the close movement in one transaction.
func (r *CashRepo) Close(ctx context.Context, sessionID *int64) (models.CashSessionClose, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return models.CashSessionClose{}, storageErr("begin close session", err)
	}
	defer tx.Rollback(ctx)

	var s models.CashSession
	if sessionID == nil {
		err = tx.QueryRow(ctx, `
			SELECT id, opened_at, opening_float, status, opened_by
			FROM cash_sessions WHERE status = $1
			FOR UPDATE
		`, core.SessionOpen).Scan(&s.ID, &s.OpenedAt, &s.OpeningFloat, &s.Status, &s.OpenedBy)
		if err != nil {
			if isNoRows(err) {
				return models.CashSessionClose{}, fmt.Errorf("%w: no open cash session", core.ErrConflict)
			}
			return models.CashSessionClose{}, storageErr("lock open session", err)
		}
	} else {
		err = tx.QueryRow(ctx, `
			SELECT id, opened_at, opening_float, status, opened_by
			FROM cash_sessions WHERE id = $1
			FOR UPDATE
		`, *sessionID).Scan(&s.ID, &s.OpenedAt, &s.OpeningFloat, &s.Status, &s.OpenedBy)
		if err != nil {
			if isNoRows(err) {
				return models.CashSessionClose{}, fmt.Errorf("%w: cash session %d", core.ErrNotFound, *sessionID)
			}
			return models.CashSessionClose{}, storageErr("lock session", err)
		}
		if s.Status != core.SessionOpen {
			return models.CashSessionClose{}, fmt.Errorf("%w: cash session %d already closed", core.ErrConflict, s.ID)
		}
	}

	var totalSales float64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM cash_movements
		WHERE session_id = $1 AND kind = $2 AND recorded_at::DATE = CURRENT_DATE
	`, s.ID, core.MovementSale).Scan(&totalSales)
	if err != nil {
		return models.CashSessionClose{}, storageErr("sum sales", err)
	}

	closingTotal := s.OpeningFloat + totalSales

	err = tx.QueryRow(ctx, `
		UPDATE cash_sessions
		SET status = $1, closed_at = now(), closing_total = $2
		WHERE id = $3
		RETURNING closed_at
	`, core.SessionClosed, closingTotal, s.ID).Scan(&s.ClosedAt)
	if err != nil {
		return models.CashSessionClose{}, storageErr("update session", err)
	}
	s.Status = core.SessionClosed
	s.ClosingTotal = &closingTotal

	_, err = tx.Exec(ctx, `
		INSERT INTO cash_movements (session_id, kind, amount, description)
		VALUES ($1, $2, $3, 'closing total')
	`, s.ID, core.MovementClose, closingTotal)
	if err != nil {
		return models.CashSessionClose{}, storageErr("insert close movement", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.CashSessionClose{}, storageErr("commit close session", err)
	}

	return models.CashSessionClose{
		Session:      s,
		TotalSales:   totalSales,
		ClosingTotal: closingTotal,
	}, nil
}

func (r *CashRepo) OpenMovements(ctx context.Context) ([]models.CashMovement, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT m.id, m.session_id, m.kind, m.amount, m.description, m.recorded_at
		FROM cash_movements m
		JOIN cash_sessions s ON s.id = m.session_id
		WHERE s.status = $1
		ORDER BY m.recorded_at DESC
	`, core.SessionOpen)
	if err != nil {
		return nil, storageErr("list open movements", err)
	}
	defer rows.Close()

	movements := []models.CashMovement{}
	for rows.Next() {
		var m models.CashMovement
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Kind, &m.Amount, &m.Description, &m.RecordedAt); err != nil {
			return nil, storageErr("scan movement", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate movements", err)
	}

	return movements, nil
}
