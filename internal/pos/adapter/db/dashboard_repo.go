package db

import (
	"context"
	"time"

	"restopos/internal/pos/domain/models"
)

type DashboardRepo struct {
	db *DB
}

func NewDashboardRepo(db *DB) *DashboardRepo {
	return &DashboardRepo{db: db}
}

func (r *DashboardRepo) Stats(ctx context.Context, since time.Time) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(f.total), 0),
			COUNT(DISTINCT o.id),
			(SELECT COUNT(*) FROM events
			 WHERE status = 'active' AND event_date >= CURRENT_DATE),
			CASE WHEN COUNT(DISTINCT o.id) > 0
			     THEN COALESCE(SUM(f.total), 0) / COUNT(DISTINCT o.id)
			     ELSE 0 END
		FROM orders o
		LEFT JOIN invoices f ON f.order_id = o.id
		WHERE o.created_at >= $1
	`, since).Scan(&stats.TotalRevenue, &stats.TotalOrders, &stats.ActiveEvents, &stats.AvgOrderValue)
	if err != nil {
		return models.DashboardStats{}, storageErr("dashboard stats", err)
	}
	return stats, nil
}

// SalesChart groups invoiced revenue per hour, day, or month depending on
// the selected range.
func (r *DashboardRepo) SalesChart(ctx context.Context, since time.Time, bucket string) ([]models.SalesPoint, error) {
	trunc := "day"
	switch bucket {
	case "hour", "month":
		trunc = bucket
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT DATE_TRUNC($1, o.created_at) AS bucket,
		       COALESCE(SUM(f.total), 0),
		       COUNT(DISTINCT o.id)
		FROM orders o
		LEFT JOIN invoices f ON f.order_id = o.id
		WHERE o.created_at >= $2
		GROUP BY bucket
		ORDER BY bucket
	`, trunc, since)
	if err != nil {
		return nil, storageErr("sales chart", err)
	}
	defer rows.Close()

	points := []models.SalesPoint{}
	for rows.Next() {
		var p models.SalesPoint
		if err := rows.Scan(&p.Bucket, &p.Revenue, &p.Orders); err != nil {
			return nil, storageErr("scan sales point", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate sales points", err)
	}

	return points, nil
}

func (r *DashboardRepo) OrdersChart(ctx context.Context, since time.Time) ([]models.StatusCount, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM orders
		WHERE created_at >= $1
		GROUP BY status
		ORDER BY status
	`, since)
	if err != nil {
		return nil, storageErr("orders chart", err)
	}
	defer rows.Close()

	counts := []models.StatusCount{}
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, storageErr("scan status count", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate status counts", err)
	}

	return counts, nil
}

// ProductsChart returns the ten best selling items by units sold.
func (r *DashboardRepo) ProductsChart(ctx context.Context, since time.Time) ([]models.ProductSales, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT mi.name, SUM(ol.quantity)
		FROM order_lines ol
		JOIN menu_items mi ON mi.id = ol.item_id
		JOIN orders o ON o.id = ol.order_id
		WHERE o.created_at >= $1
		GROUP BY mi.name
		ORDER BY SUM(ol.quantity) DESC
		LIMIT 10
	`, since)
	if err != nil {
		return nil, storageErr("products chart", err)
	}
	defer rows.Close()

	sales := []models.ProductSales{}
	for rows.Next() {
		var p models.ProductSales
		if err := rows.Scan(&p.Name, &p.Quantity); err != nil {
			return nil, storageErr("scan product sales", err)
		}
		sales = append(sales, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate product sales", err)
	}

	return sales, nil
}

func (r *DashboardRepo) PaymentsChart(ctx context.Context, since time.Time) ([]models.PaymentSlice, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT payment_method, COUNT(*), COALESCE(SUM(total), 0)
		FROM invoices
		WHERE issued_at >= $1
		GROUP BY payment_method
		ORDER BY payment_method
	`, since)
	if err != nil {
		return nil, storageErr("payments chart", err)
	}
	defer rows.Close()

	slices := []models.PaymentSlice{}
	for rows.Next() {
		var s models.PaymentSlice
		if err := rows.Scan(&s.Method, &s.Count, &s.Total); err != nil {
			return nil, storageErr("scan payment slice", err)
		}
		slices = append(slices, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate payment slices", err)
	}

	return slices, nil
}

// RecentOrders lists the ten newest orders with the customer name and the
// invoice total and payment method when one exists.
func (r *DashboardRepo) RecentOrders(ctx context.Context) ([]models.RecentOrder, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT o.id,
		       COALESCE(TRIM(c.first_name || ' ' || c.last_name), ''),
		       o.created_at,
		       COALESCE(f.total, o.total),
		       o.status,
		       COALESCE(f.payment_method, '')
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		LEFT JOIN invoices f ON f.order_id = o.id
		ORDER BY o.created_at DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, storageErr("recent orders", err)
	}
	defer rows.Close()

	orders := []models.RecentOrder{}
	for rows.Next() {
		var o models.RecentOrder
		if err := rows.Scan(&o.OrderID, &o.CustomerName, &o.CreatedAt, &o.Total, &o.Status, &o.PaymentMethod); err != nil {
			return nil, storageErr("scan recent order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate recent orders", err)
	}

	return orders, nil
}
