package db

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type CustomerRepo struct {
	db *DB
}

func NewCustomerRepo(db *DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

const customerColumns = `id, first_name, last_name, phone, address, email, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Address, &c.Email, &c.CreatedAt)
	return c, err
}

func (r *CustomerRepo) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, storageErr("scan customer", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate customers", err)
	}

	return customers, nil
}

func (r *CustomerRepo) Get(ctx context.Context, id int64) (models.Customer, error) {
	c, err := scanCustomer(r.db.Pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return models.Customer{}, fmt.Errorf("%w: customer %d", core.ErrNotFound, id)
		}
		return models.Customer{}, storageErr("select customer", err)
	}
	return c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO customers (first_name, last_name, phone, address, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.FirstName, c.LastName, c.Phone, c.Address, c.Email).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return models.Customer{}, storageErr("insert customer", err)
	}
	return c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c models.Customer) (models.Customer, error) {
	cmdTag, err := r.db.Pool.Exec(ctx, `
		UPDATE customers
		SET first_name = $1, last_name = $2, phone = $3, address = $4, email = $5
		WHERE id = $6
	`, c.FirstName, c.LastName, c.Phone, c.Address, c.Email, c.ID)
	if err != nil {
		return models.Customer{}, storageErr("update customer", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.Customer{}, fmt.Errorf("%w: customer %d", core.ErrNotFound, c.ID)
	}
	return r.Get(ctx, c.ID)
}

func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete customer", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %d", core.ErrNotFound, id)
	}
	return nil
}
