package models

import "time"

type CashSession struct {
	ID           int64      `json:"id"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	OpeningFloat float64    `json:"opening_float"`
	ClosingTotal *float64   `json:"closing_total,omitempty"`
	Status       string     `json:"status"`
	OpenedBy     int64      `json:"opened_by"`
}

// CashMovement entries are append-only. Corrections are made by recording an
// inverse movement, never by editing.
type CashMovement struct {
	ID          int64     `json:"id"`
	SessionID   int64     `json:"session_id"`
	Kind        string    `json:"kind"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type CashSessionClose struct {
	Session      CashSession `json:"session"`
	TotalSales   float64     `json:"total_sales"`
	ClosingTotal float64     `json:"closing_total"`
}
