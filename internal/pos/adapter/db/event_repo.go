package db

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type EventRepo struct {
	db *DB
}

func NewEventRepo(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) List(ctx context.Context) ([]models.Event, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, description, event_date, status, created_at
		FROM events ORDER BY event_date DESC
	`)
	if err != nil {
		return nil, storageErr("list events", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.EventDate, &e.Status, &e.CreatedAt); err != nil {
			return nil, storageErr("scan event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate events", err)
	}

	return events, nil
}

func (r *EventRepo) Create(ctx context.Context, e models.Event) (models.Event, error) {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO events (name, description, event_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, e.Name, e.Description, e.EventDate, e.Status).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return models.Event{}, storageErr("insert event", err)
	}
	return e, nil
}

// Delete returns the removed event so the deletion can be broadcast.
func (r *EventRepo) Delete(ctx context.Context, id int64) (models.Event, error) {
	var e models.Event
	err := r.db.Pool.QueryRow(ctx, `
		DELETE FROM events WHERE id = $1
		RETURNING id, name, description, event_date, status, created_at
	`, id).Scan(&e.ID, &e.Name, &e.Description, &e.EventDate, &e.Status, &e.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return models.Event{}, fmt.Errorf("%w: event %d", core.ErrNotFound, id)
		}
		return models.Event{}, storageErr("delete event", err)
	}
	return e, nil
}
