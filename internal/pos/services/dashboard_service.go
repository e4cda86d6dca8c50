package services

import (
	"context"
	"fmt"
	"time"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
)

// Dashboard ranges.
const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
)

type DashboardService struct {
	dashRepo core.DashboardRepo
	mylog    logger.Logger
}

func NewDashboardService(dashRepo core.DashboardRepo, mylog logger.Logger) *DashboardService {
	return &DashboardService{dashRepo: dashRepo, mylog: mylog}
}

type DashboardView struct {
	Stats         models.DashboardStats `json:"stats"`
	Chart         []models.SalesPoint   `json:"chart"`
	OrdersChart   []models.StatusCount  `json:"orders_chart"`
	ProductsChart []models.ProductSales `json:"products_chart"`
	PaymentsChart []models.PaymentSlice `json:"payments_chart"`
	RecentOrders  []models.RecentOrder  `json:"recent_orders"`
}

func (s *DashboardService) View(ctx context.Context, rng string) (DashboardView, error) {
	since, bucket, err := rangeWindow(rng, time.Now())
	if err != nil {
		return DashboardView{}, err
	}

	var view DashboardView
	view.Stats, err = s.dashRepo.Stats(ctx, since)
	if err != nil {
		s.mylog.Action("dashboard_stats").Error("failed to load dashboard stats", err)
		return DashboardView{}, err
	}
	view.Chart, err = s.dashRepo.SalesChart(ctx, since, bucket)
	if err != nil {
		s.mylog.Action("dashboard_chart").Error("failed to load sales chart", err)
		return DashboardView{}, err
	}
	view.OrdersChart, err = s.dashRepo.OrdersChart(ctx, since)
	if err != nil {
		s.mylog.Action("dashboard_orders_chart").Error("failed to load orders chart", err)
		return DashboardView{}, err
	}
	view.ProductsChart, err = s.dashRepo.ProductsChart(ctx, since)
	if err != nil {
		s.mylog.Action("dashboard_products_chart").Error("failed to load products chart", err)
		return DashboardView{}, err
	}
	view.PaymentsChart, err = s.dashRepo.PaymentsChart(ctx, since)
	if err != nil {
		s.mylog.Action("dashboard_payments_chart").Error("failed to load payments chart", err)
		return DashboardView{}, err
	}
	view.RecentOrders, err = s.dashRepo.RecentOrders(ctx)
	if err != nil {
		s.mylog.Action("dashboard_recent_orders").Error("failed to load recent orders", err)
		return DashboardView{}, err
	}

	return view, nil
}

// rangeWindow maps a named range onto a start time and a chart bucket. Today
// charts by hour, week and month by day, year by month.
func rangeWindow(rng string, now time.Time) (time.Time, string, error) {
	switch rng {
	case "", RangeToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, "hour", nil
	case RangeWeek:
		return now.AddDate(0, 0, -7), "day", nil
	case RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, "day", nil
	case RangeYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return start, "month", nil
	default:
		return time.Time{}, "", fmt.Errorf("%w: unknown range %q", core.ErrValidation, rng)
	}
}
