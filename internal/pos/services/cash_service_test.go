package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
)

type fakeCashRepo struct {
	session    *models.CashSession
	sales      []core.RecordSaleParams
	lastParams core.RecordSaleParams
	openErr    error
	saleErr    error
}

func (f *fakeCashRepo) Open(_ context.Context, openingFloat float64, openedBy int64) (models.CashSession, error) {
	if f.openErr != nil {
		return models.CashSession{}, f.openErr
	}
	if f.session != nil && f.session.Status == core.SessionOpen {
		return models.CashSession{}, fmt.Errorf("%w: a cash session is already open", core.ErrConflict)
	}
	f.session = &models.CashSession{
		ID:           1,
		OpeningFloat: openingFloat,
		OpenedBy:     openedBy,
		Status:       core.SessionOpen,
		OpenedAt:     time.Now(),
	}
	return *f.session, nil
}

func (f *fakeCashRepo) RecordSale(_ context.Context, p core.RecordSaleParams) (models.CashMovement, *models.Invoice, error) {
	if f.saleErr != nil {
		return models.CashMovement{}, nil, f.saleErr
	}
	f.sales = append(f.sales, p)
	f.lastParams = p
	return models.CashMovement{
		ID:        int64(len(f.sales)),
		SessionID: p.SessionID,
		Kind:      core.MovementSale,
		Amount:    p.Amount,
	}, nil, nil
}

func (f *fakeCashRepo) Close(_ context.Context, _ *int64) (models.CashSessionClose, error) {
	if f.session == nil || f.session.Status != core.SessionOpen {
		return models.CashSessionClose{}, fmt.Errorf("%w: no open cash session", core.ErrConflict)
	}
	total := 0.0
	for _, sale := range f.sales {
		total += sale.Amount
	}
	f.session.Status = core.SessionClosed
	return models.CashSessionClose{
		Session:      *f.session,
		TotalSales:   total,
		ClosingTotal: f.session.OpeningFloat + total,
	}, nil
}

func (f *fakeCashRepo) OpenMovements(_ context.Context) ([]models.CashMovement, error) {
	return nil, nil
}

func TestOpenSessionRejectsNonPositiveFloat(t *testing.T) {
	svc := NewCashService(&fakeCashRepo{}, &recordingNotifier{}, 0, testLogger())

	_, err := svc.Open(context.Background(), 0, 1)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Open(context.Background(), -50, 1)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestOpenSessionSecondOpenConflicts(t *testing.T) {
	repo := &fakeCashRepo{}
	notifier := &recordingNotifier{}
	svc := NewCashService(repo, notifier, 0, testLogger())

	_, err := svc.Open(context.Background(), 100, 1)
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), 200, 2)
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, []string{core.EventSessionOpened}, notifier.events)
}

func TestRecordSaleValidation(t *testing.T) {
	repo := &fakeCashRepo{}
	svc := NewCashService(repo, &recordingNotifier{}, 0, testLogger())

	// Tendered below amount.
	_, _, err := svc.RecordSale(context.Background(), SaleRequest{
		SessionID: 1, Amount: 50, Tendered: 40, Change: 0,
	})
	assert.ErrorIs(t, err, core.ErrValidation)

	// Change that does not reconcile.
	_, _, err = svc.RecordSale(context.Background(), SaleRequest{
		SessionID: 1, Amount: 50, Tendered: 60, Change: 5,
	})
	assert.ErrorIs(t, err, core.ErrValidation)

	// Non-positive amount.
	_, _, err = svc.RecordSale(context.Background(), SaleRequest{
		SessionID: 1, Amount: 0, Tendered: 0, Change: 0,
	})
	assert.ErrorIs(t, err, core.ErrValidation)

	assert.Empty(t, repo.sales)
}

func TestRecordSaleDefaultsToCash(t *testing.T) {
	repo := &fakeCashRepo{}
	svc := NewCashService(repo, &recordingNotifier{}, 0.12, testLogger())

	movement, _, err := svc.RecordSale(context.Background(), SaleRequest{
		SessionID: 1, Amount: 45, Tendered: 50, Change: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 45.0, movement.Amount)
	assert.Equal(t, core.PaymentCash, repo.lastParams.PaymentMethod)
	assert.Equal(t, 0.12, repo.lastParams.TaxRate)
}

func TestRecordSaleUnknownPaymentMethod(t *testing.T) {
	svc := NewCashService(&fakeCashRepo{}, &recordingNotifier{}, 0, testLogger())

	_, _, err := svc.RecordSale(context.Background(), SaleRequest{
		SessionID: 1, Amount: 10, Tendered: 10, Change: 0, PaymentMethod: "barter",
	})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCloseReconcilesDrawer(t *testing.T) {
	repo := &fakeCashRepo{}
	notifier := &recordingNotifier{}
	svc := NewCashService(repo, notifier, 0, testLogger())

	_, err := svc.Open(context.Background(), 100, 1)
	require.NoError(t, err)

	_, _, err = svc.RecordSale(context.Background(), SaleRequest{SessionID: 1, Amount: 30, Tendered: 30})
	require.NoError(t, err)
	_, _, err = svc.RecordSale(context.Background(), SaleRequest{SessionID: 1, Amount: 15, Tendered: 20, Change: 5})
	require.NoError(t, err)

	result, err := svc.Close(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 45.0, result.TotalSales)
	assert.Equal(t, 145.0, result.ClosingTotal)
	assert.Equal(t, core.SessionClosed, result.Session.Status)
	assert.Contains(t, notifier.events, core.EventSessionClosed)
}

func TestCloseWithoutOpenSession(t *testing.T) {
	svc := NewCashService(&fakeCashRepo{}, &recordingNotifier{}, 0, testLogger())

	_, err := svc.Close(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrConflict)
}
