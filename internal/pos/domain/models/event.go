package models

import "time"

type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	EventDate   time.Time `json:"event_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalOrders   int64   `json:"total_orders"`
	ActiveEvents  int64   `json:"active_events"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

type SalesPoint struct {
	Bucket  time.Time `json:"bucket"`
	Revenue float64   `json:"revenue"`
	Orders  int64     `json:"orders"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ProductSales struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

type PaymentSlice struct {
	Method string  `json:"method"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

type RecentOrder struct {
	OrderID       int64     `json:"order_id"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Total         float64   `json:"total"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method,omitempty"`
}
