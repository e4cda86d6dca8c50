package services

import (
	"context"
	"fmt"
	"strconv"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
	"restopos/internal/xpkg/metrics"
)

// InvoiceService issues one immutable invoice per order and serves lookups.
type InvoiceService struct {
	invoiceRepo core.InvoiceRepo
	taxRate     float64
	mylog       logger.Logger
}

func NewInvoiceService(invoiceRepo core.InvoiceRepo, taxRate float64, mylog logger.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		taxRate:     taxRate,
		mylog:       mylog,
	}
}

// IssueResult carries the stored invoice plus display amounts. Subtotal and
// tax are fixed to two decimals; total keeps its natural representation.
type IssueResult struct {
	Invoice  models.InvoiceWithLines `json:"invoice"`
	Subtotal string                  `json:"subtotal"`
	Tax      string                  `json:"tax"`
	Total    string                  `json:"total"`
}

func (s *InvoiceService) Issue(ctx context.Context, orderID int64, paymentMethod string) (IssueResult, error) {
	mylog := s.mylog.Action("issue_invoice").With("order_id", orderID)

	method := paymentMethod
	if method == "" {
		method = core.PaymentCash
	}
	if !core.AllowedPaymentMethods[method] {
		return IssueResult{}, fmt.Errorf("%w: unknown payment method %q", core.ErrValidation, method)
	}

	invoice, err := s.invoiceRepo.Issue(ctx, orderID, s.taxRate, method)
	if err != nil {
		mylog.Error("failed to issue invoice", err)
		return IssueResult{}, err
	}

	metrics.InvoicesIssued.Inc()
	mylog.With("invoice_id", invoice.Invoice.ID, "total", invoice.Invoice.Total).Info("invoice issued")
	return displayResult(invoice), nil
}

func (s *InvoiceService) Get(ctx context.Context, id int64) (IssueResult, error) {
	invoice, err := s.invoiceRepo.Get(ctx, id)
	if err != nil {
		return IssueResult{}, err
	}
	return displayResult(invoice), nil
}

func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	return s.invoiceRepo.List(ctx)
}

func displayResult(invoice models.InvoiceWithLines) IssueResult {
	return IssueResult{
		Invoice:  invoice,
		Subtotal: strconv.FormatFloat(invoice.Invoice.Subtotal, 'f', 2, 64),
		Tax:      strconv.FormatFloat(invoice.Invoice.Tax, 'f', 2, 64),
		Total:    strconv.FormatFloat(invoice.Invoice.Total, 'f', -1, 64),
	}
}
