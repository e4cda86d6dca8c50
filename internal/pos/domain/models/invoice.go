package models

import "time"

// Invoice is immutable once issued. OrderID is nil for walk-up sales that
// never had an order.
type Invoice struct {
	ID            int64     `json:"id"`
	OrderID       *int64    `json:"order_id,omitempty"`
	IssuedAt      time.Time `json:"issued_at"`
	Subtotal      float64   `json:"subtotal"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customer_name,omitempty"`
}

// InvoiceLine is a snapshot of an order line at issue time; later order
// mutations do not touch it.
type InvoiceLine struct {
	ID        int64   `json:"id"`
	InvoiceID int64   `json:"invoice_id"`
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type InvoiceWithLines struct {
	Invoice
	Lines []InvoiceLine `json:"lines"`
}
