package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
)

type fakeOrderRepo struct {
	created      []models.OrderWithLines
	lastTotal    float64
	lastFilter   core.ListOrdersFilter
	statusOrders map[int64]string
	failWith     error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{statusOrders: make(map[int64]string)}
}

func (f *fakeOrderRepo) Create(_ context.Context, p core.CreateOrderParams, total float64) (models.OrderWithLines, error) {
	if f.failWith != nil {
		return models.OrderWithLines{}, f.failWith
	}
	f.lastTotal = total
	order := models.OrderWithLines{
		Order: models.Order{
			ID:     int64(len(f.created) + 1),
			Kind:   p.Kind,
			Status: core.StatusPending,
			Total:  total,
		},
	}
	f.created = append(f.created, order)
	return order, nil
}

func (f *fakeOrderRepo) SetStatus(_ context.Context, id int64, status string, _ int64) (models.OrderWithLines, error) {
	if _, ok := f.statusOrders[id]; !ok {
		return models.OrderWithLines{}, core.ErrNotFound
	}
	f.statusOrders[id] = status
	return models.OrderWithLines{Order: models.Order{ID: id, Status: status}}, nil
}

func (f *fakeOrderRepo) GetWithLines(_ context.Context, id int64) (models.OrderWithLines, error) {
	status, ok := f.statusOrders[id]
	if !ok {
		return models.OrderWithLines{}, core.ErrNotFound
	}
	return models.OrderWithLines{Order: models.Order{ID: id, Status: status}}, nil
}

func (f *fakeOrderRepo) List(_ context.Context, filter core.ListOrdersFilter) ([]models.Order, error) {
	f.lastFilter = filter
	return nil, nil
}

type recordingNotifier struct {
	events   []string
	payloads []any
	failWith error
}

func (n *recordingNotifier) Publish(_ context.Context, event string, payload any) error {
	if n.failWith != nil {
		return n.failWith
	}
	n.events = append(n.events, event)
	n.payloads = append(n.payloads, payload)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func testLogger() logger.Logger { return logger.New("test") }

func validOrderParams() core.CreateOrderParams {
	return core.CreateOrderParams{
		StaffID: 7,
		Kind:    core.KindTable,
		Lines: []core.OrderLineParams{
			{ItemID: 1, Quantity: 2, UnitPrice: 10},
			{ItemID: 2, Quantity: 1, UnitPrice: 10},
		},
	}
}

func TestCreateOrderComputesTotal(t *testing.T) {
	repo := newFakeOrderRepo()
	notifier := &recordingNotifier{}
	svc := NewOrderService(repo, notifier, testLogger())

	order, err := svc.Create(context.Background(), validOrderParams())
	require.NoError(t, err)

	assert.Equal(t, 30.0, order.Total)
	assert.Equal(t, 30.0, repo.lastTotal)
	assert.Equal(t, []string{core.EventOrderCreated}, notifier.events)
}

func TestCreateOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*core.CreateOrderParams)
	}{
		{"unknown kind", func(p *core.CreateOrderParams) { p.Kind = "drive-through" }},
		{"missing staff", func(p *core.CreateOrderParams) { p.StaffID = 0 }},
		{"no lines", func(p *core.CreateOrderParams) { p.Lines = nil }},
		{"zero quantity", func(p *core.CreateOrderParams) { p.Lines[0].Quantity = 0 }},
		{"excess quantity", func(p *core.CreateOrderParams) { p.Lines[0].Quantity = core.MaxLineQuantity + 1 }},
		{"negative price", func(p *core.CreateOrderParams) { p.Lines[0].UnitPrice = -1 }},
		{"missing item", func(p *core.CreateOrderParams) { p.Lines[0].ItemID = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeOrderRepo()
			svc := NewOrderService(repo, &recordingNotifier{}, testLogger())

			p := validOrderParams()
			tc.mutate(&p)

			_, err := svc.Create(context.Background(), p)
			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Empty(t, repo.created)
		})
	}
}

func TestCreateOrderTooManyLines(t *testing.T) {
	p := validOrderParams()
	p.Lines = nil
	for i := 0; i < core.MaxOrderLines+1; i++ {
		p.Lines = append(p.Lines, core.OrderLineParams{ItemID: int64(i + 1), Quantity: 1, UnitPrice: 1})
	}

	svc := NewOrderService(newFakeOrderRepo(), &recordingNotifier{}, testLogger())
	_, err := svc.Create(context.Background(), p)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCreateOrderSurvivesPublishFailure(t *testing.T) {
	repo := newFakeOrderRepo()
	notifier := &recordingNotifier{failWith: errors.New("broker down")}
	svc := NewOrderService(repo, notifier, testLogger())

	order, err := svc.Create(context.Background(), validOrderParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)
}

func TestSetStatusAcceptsAnyAllowedStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.statusOrders[5] = core.StatusDelivered
	notifier := &recordingNotifier{}
	svc := NewOrderService(repo, notifier, testLogger())

	// Delivered back to pending is allowed; the status log keeps the history.
	order, err := svc.SetStatus(context.Background(), 5, core.StatusPending, 1)
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, order.Status)
	assert.Equal(t, []string{core.EventOrderUpdated}, notifier.events)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.statusOrders[5] = core.StatusDelivered
	svc := NewOrderService(repo, &recordingNotifier{}, testLogger())

	_, err := svc.SetStatus(context.Background(), 5, "bogus", 1)
	assert.ErrorIs(t, err, core.ErrInvalidState)
	assert.Equal(t, core.StatusDelivered, repo.statusOrders[5])
}

func TestSetStatusMissingOrder(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), &recordingNotifier{}, testLogger())

	_, err := svc.SetStatus(context.Background(), 99, core.StatusReady, 1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestQueueFilters(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, &recordingNotifier{}, testLogger())

	_, err := svc.KitchenQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.KitchenQueueStatuses, repo.lastFilter.Statuses)
	assert.True(t, repo.lastFilter.Ascending)

	_, err = svc.ServerQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.ServerQueueStatuses, repo.lastFilter.Statuses)
	assert.True(t, repo.lastFilter.Ascending)

	_, err = svc.List(context.Background(), []string{core.StatusDelivered})
	require.NoError(t, err)
	assert.False(t, repo.lastFilter.Ascending)
}
