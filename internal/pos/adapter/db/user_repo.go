package db

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, phone, status, role, created_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Phone, &u.Status, &u.Role, &u.CreatedAt)
	return u, err
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storageErr("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate users", err)
	}

	return users, nil
}

func (r *UserRepo) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return models.User{}, fmt.Errorf("%w: user %d", core.ErrNotFound, id)
		}
		return models.User{}, storageErr("select user", err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if isNoRows(err) {
			return models.User{}, fmt.Errorf("%w: user %s", core.ErrNotFound, email)
		}
		return models.User{}, storageErr("select user by email", err)
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, phone, status, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Phone, u.Status, u.Role).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: email %s already registered", core.ErrConflict, u.Email)
		}
		return models.User{}, storageErr("insert user", err)
	}
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	cmdTag, err := r.db.Pool.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, phone = $4, status = $5, role = $6
		WHERE id = $7
	`, u.FirstName, u.LastName, u.Email, u.Phone, u.Status, u.Role, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: email %s already registered", core.ErrConflict, u.Email)
		}
		return models.User{}, storageErr("update user", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.User{}, fmt.Errorf("%w: user %d", core.ErrNotFound, u.ID)
	}
	return r.Get(ctx, u.ID)
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete user", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", core.ErrNotFound, id)
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	cmdTag, err := r.db.Pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return storageErr("update password", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", core.ErrNotFound, id)
	}
	return nil
}
