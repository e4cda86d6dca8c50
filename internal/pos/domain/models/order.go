package models

import "time"

type Order struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Status       string    `json:"status"`
	Kind         string    `json:"kind"`
	Total        float64   `json:"total"`
	Note         string    `json:"note,omitempty"`
	CustomerID   *int64    `json:"customer_id,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	StaffID      int64     `json:"staff_id"`
}

type OrderLine struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ItemID    int64   `json:"item_id"`
	ItemName  string  `json:"item_name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type OrderWithLines struct {
	Order
	Lines []OrderLine `json:"lines"`
}
