package db

import (
	"context"
	"fmt"
	"time"

	"restopos/internal/pos/core"
)

// ResetCodeRepo persists password-reset codes so any server instance can
// honor a code issued by another. Expiry is checked on read; a sweeper prunes
// stale rows.
type ResetCodeRepo struct {
	db *DB
}

func NewResetCodeRepo(db *DB) *ResetCodeRepo {
	return &ResetCodeRepo{db: db}
}

func (r *ResetCodeRepo) Store(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	// One live code per user; a new request replaces the previous one.
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return storageErr("begin store reset code", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reset_codes WHERE user_id = $1`, userID); err != nil {
		return storageErr("clear previous reset codes", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO reset_codes (user_id, code, expires_at)
		VALUES ($1, $2, $3)
	`, userID, code, expiresAt); err != nil {
		return storageErr("insert reset code", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit store reset code", err)
	}
	return nil
}

// Consume returns the owning user and deletes the code. Expired or unknown
// codes surface as ErrNotFound.
func (r *ResetCodeRepo) Consume(ctx context.Context, code string, now time.Time) (int64, error) {
	var userID int64
	err := r.db.Pool.QueryRow(ctx, `
		DELETE FROM reset_codes
		WHERE code = $1 AND expires_at > $2
		RETURNING user_id
	`, code, now).Scan(&userID)
	if err != nil {
		if isNoRows(err) {
			return 0, fmt.Errorf("%w: reset code invalid or expired", core.ErrNotFound)
		}
		return 0, storageErr("consume reset code", err)
	}
	return userID, nil
}

func (r *ResetCodeRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmdTag, err := r.db.Pool.Exec(ctx, `DELETE FROM reset_codes WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, storageErr("delete expired reset codes", err)
	}
	return cmdTag.RowsAffected(), nil
}
