package services

import (
	"context"
	"fmt"
	"math"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
	"restopos/internal/xpkg/metrics"
)

// CashService runs the register: at most one open session at a time, every
// sale recorded as a movement, and a close that reconciles the drawer.
type CashService struct {
	cashRepo core.CashRepo
	notifier core.Notifier
	taxRate  float64
	mylog    logger.Logger
}

func NewCashService(cashRepo core.CashRepo, notifier core.Notifier, taxRate float64, mylog logger.Logger) *CashService {
	return &CashService{
		cashRepo: cashRepo,
		notifier: notifier,
		taxRate:  taxRate,
		mylog:    mylog,
	}
}

func (s *CashService) notify(ctx context.Context, event string, payload any) {
	if err := s.notifier.Publish(ctx, event, payload); err != nil {
		s.mylog.Action("publish_failed").Error("failed to publish notification", err)
	}
}

func (s *CashService) Open(ctx context.Context, openingFloat float64, openedBy int64) (models.CashSession, error) {
	mylog := s.mylog.Action("open_cash_session")

	if openingFloat <= 0 {
		mylog.Warn("rejected non-positive opening float")
		return models.CashSession{}, fmt.Errorf("%w: opening float must be positive", core.ErrValidation)
	}

	session, err := s.cashRepo.Open(ctx, openingFloat, openedBy)
	if err != nil {
		mylog.Error("failed to open cash session", err)
		return models.CashSession{}, err
	}

	metrics.CashSessionsOpened.Inc()
	s.notify(ctx, core.EventSessionOpened, session)

	mylog.With("session_id", session.ID, "opening_float", session.OpeningFloat).Info("cash session opened")
	return session, nil
}

// SaleRequest is the register input for one sale. OrderID links the sale to a
// kitchen order; a nil OrderID is a walk-up sale.
type SaleRequest struct {
	SessionID     int64
	Amount        float64
	Tendered      float64
	Change        float64
	Description   string
	OrderID       *int64
	PaymentMethod string
	WithInvoice   bool
}

func (s *CashService) RecordSale(ctx context.Context, req SaleRequest) (models.CashMovement, *models.Invoice, error) {
	mylog := s.mylog.Action("record_sale").With("session_id", req.SessionID)

	if req.Amount <= 0 {
		return models.CashMovement{}, nil, fmt.Errorf("%w: sale amount must be positive", core.ErrValidation)
	}
	if req.Tendered < req.Amount {
		mylog.Warn("rejected sale: tendered below amount")
		return models.CashMovement{}, nil, fmt.Errorf("%w: tendered %.2f is below amount %.2f",
			core.ErrValidation, req.Tendered, req.Amount)
	}
	if math.Abs(req.Change-(req.Tendered-req.Amount)) > 0.005 {
		return models.CashMovement{}, nil, fmt.Errorf("%w: change %.2f does not match tendered minus amount",
			core.ErrValidation, req.Change)
	}

	method := req.PaymentMethod
	if method == "" {
		method = core.PaymentCash
	}
	if !core.AllowedPaymentMethods[method] {
		return models.CashMovement{}, nil, fmt.Errorf("%w: unknown payment method %q", core.ErrValidation, method)
	}

	movement, invoice, err := s.cashRepo.RecordSale(ctx, core.RecordSaleParams{
		SessionID:     req.SessionID,
		Amount:        req.Amount,
		Tendered:      req.Tendered,
		Change:        req.Change,
		Description:   req.Description,
		OrderID:       req.OrderID,
		PaymentMethod: method,
		TaxRate:       s.taxRate,
		WithInvoice:   req.WithInvoice,
	})
	if err != nil {
		mylog.Error("failed to record sale", err)
		return models.CashMovement{}, nil, err
	}

	metrics.SalesRecorded.Inc()
	mylog.With("movement_id", movement.ID, "amount", movement.Amount).Info("sale recorded")
	return movement, invoice, nil
}

// Close settles the open session, or the given one when sessionID is set.
// The closing total is the opening float plus today's sales.
func (s *CashService) Close(ctx context.Context, sessionID *int64) (models.CashSessionClose, error) {
	mylog := s.mylog.Action("close_cash_session")

	result, err := s.cashRepo.Close(ctx, sessionID)
	if err != nil {
		mylog.Error("failed to close cash session", err)
		return models.CashSessionClose{}, err
	}

	metrics.CashSessionsClosed.Inc()
	s.notify(ctx, core.EventSessionClosed, result)

	mylog.With(
		"session_id", result.Session.ID,
		"total_sales", result.TotalSales,
		"closing_total", result.ClosingTotal,
	).Info("cash session closed")
	return result, nil
}

func (s *CashService) OpenMovements(ctx context.Context) ([]models.CashMovement, error) {
	return s.cashRepo.OpenMovements(ctx)
}
