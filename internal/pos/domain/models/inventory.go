package models

import "time"

type Supply struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Stock       float64 `json:"stock"`
	Unit        string  `json:"unit"`
	Status      string  `json:"status"`
}

// SupplyMovement is an append-only inventory entry, kind "in" or "out".
type SupplyMovement struct {
	ID         int64     `json:"id"`
	SupplyID   int64     `json:"supply_id"`
	Kind       string    `json:"kind"`
	Quantity   float64   `json:"quantity"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// SupplyStock is the derived projection: base stock plus signed movements.
type SupplyStock struct {
	Supply
	MovementsTotal   float64    `json:"movements_total"`
	CurrentStock     float64    `json:"current_stock"`
	LastMovementAt   *time.Time `json:"last_movement_at,omitempty"`
	LastMovementKind string     `json:"last_movement_kind,omitempty"`
}
