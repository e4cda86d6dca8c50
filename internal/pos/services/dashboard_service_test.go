package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

func TestRangeWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	since, bucket, err := rangeWindow(RangeToday, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, "hour", bucket)

	// Empty range defaults to today.
	since, bucket, err = rangeWindow("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, "hour", bucket)

	since, bucket, err = rangeWindow(RangeWeek, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), since)
	assert.Equal(t, "day", bucket)

	since, bucket, err = rangeWindow(RangeMonth, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, "day", bucket)

	since, bucket, err = rangeWindow(RangeYear, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, "month", bucket)

	_, _, err = rangeWindow("quarter", now)
	assert.ErrorIs(t, err, core.ErrValidation)
}

type fakeDashboardRepo struct {
	lastSince  time.Time
	lastBucket string
}

func (f *fakeDashboardRepo) Stats(_ context.Context, since time.Time) (models.DashboardStats, error) {
	f.lastSince = since
	return models.DashboardStats{TotalRevenue: 120, TotalOrders: 4, AvgOrderValue: 30}, nil
}

func (f *fakeDashboardRepo) SalesChart(_ context.Context, _ time.Time, bucket string) ([]models.SalesPoint, error) {
	f.lastBucket = bucket
	return []models.SalesPoint{{Revenue: 120, Orders: 4}}, nil
}

func (f *fakeDashboardRepo) OrdersChart(_ context.Context, _ time.Time) ([]models.StatusCount, error) {
	return []models.StatusCount{{Status: "delivered", Count: 3}, {Status: "pending", Count: 1}}, nil
}

func (f *fakeDashboardRepo) ProductsChart(_ context.Context, _ time.Time) ([]models.ProductSales, error) {
	return []models.ProductSales{{Name: "Pepperoni", Quantity: 9}}, nil
}

func (f *fakeDashboardRepo) PaymentsChart(_ context.Context, _ time.Time) ([]models.PaymentSlice, error) {
	return []models.PaymentSlice{{Method: "cash", Count: 3, Total: 90}, {Method: "card", Count: 1, Total: 30}}, nil
}

func (f *fakeDashboardRepo) RecentOrders(_ context.Context) ([]models.RecentOrder, error) {
	return []models.RecentOrder{{OrderID: 4, Status: "delivered", Total: 30}}, nil
}

func TestViewAggregatesAllCharts(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := NewDashboardService(repo, testLogger())

	view, err := svc.View(context.Background(), RangeYear)
	require.NoError(t, err)

	assert.Equal(t, "month", repo.lastBucket)
	assert.Equal(t, time.January, repo.lastSince.Month())
	assert.Equal(t, 1, repo.lastSince.Day())

	assert.Equal(t, int64(4), view.Stats.TotalOrders)
	assert.Len(t, view.Chart, 1)
	assert.Len(t, view.OrdersChart, 2)
	assert.Equal(t, "Pepperoni", view.ProductsChart[0].Name)
	assert.Len(t, view.PaymentsChart, 2)
	require.Len(t, view.RecentOrders, 1)
	assert.Equal(t, int64(4), view.RecentOrders[0].OrderID)
}

func TestViewRejectsUnknownRange(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardRepo{}, testLogger())

	_, err := svc.View(context.Background(), "decade")
	assert.ErrorIs(t, err, core.ErrValidation)
}
