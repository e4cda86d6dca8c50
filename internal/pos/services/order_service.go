package services

import (
	"context"
	"fmt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
	"restopos/internal/xpkg/metrics"
)

// OrderService owns the order ledger: creation, the status lifecycle and the
// queue projections.
type OrderService struct {
	orderRepo core.OrderRepo
	notifier  core.Notifier
	mylog     logger.Logger
}

func NewOrderService(orderRepo core.OrderRepo, notifier core.Notifier, mylog logger.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		mylog:     mylog,
	}
}

// notify publishes after commit and never fails the operation.
func (s *OrderService) notify(ctx context.Context, event string, payload any) {
	if err := s.notifier.Publish(ctx, event, payload); err != nil {
		s.mylog.Action("publish_failed").Error("failed to publish notification", err)
	}
}

func (s *OrderService) Create(ctx context.Context, p core.CreateOrderParams) (models.OrderWithLines, error) {
	mylog := s.mylog.Action("create_order")

	if err := validateOrderParams(p); err != nil {
		mylog.Warn("rejected order request: " + err.Error())
		return models.OrderWithLines{}, err
	}

	total := 0.0
	for _, line := range p.Lines {
		total += float64(line.Quantity) * line.UnitPrice
	}

	order, err := s.orderRepo.Create(ctx, p, total)
	if err != nil {
		mylog.Error("failed to save order", err)
		return models.OrderWithLines{}, err
	}

	metrics.OrdersCreated.Inc()
	s.notify(ctx, core.EventOrderCreated, order)

	mylog.With("order_id", order.ID, "total", order.Total).Info("order created")
	return order, nil
}

// SetStatus accepts any member of the allowed status set, including the
// current one. Values outside the set are rejected without touching the row.
func (s *OrderService) SetStatus(ctx context.Context, id int64, status string, actor int64) (models.OrderWithLines, error) {
	mylog := s.mylog.Action("set_order_status").With("order_id", id, "status", status)

	if !core.AllowedStatuses[status] {
		mylog.Warn("rejected unknown status")
		return models.OrderWithLines{}, fmt.Errorf("%w: unknown status %q", core.ErrInvalidState, status)
	}

	order, err := s.orderRepo.SetStatus(ctx, id, status, actor)
	if err != nil {
		mylog.Error("failed to update order status", err)
		return models.OrderWithLines{}, err
	}

	metrics.StatusTransitions.WithLabelValues(status).Inc()
	s.notify(ctx, core.EventOrderUpdated, order)

	mylog.Info("order status updated")
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (models.OrderWithLines, error) {
	return s.orderRepo.GetWithLines(ctx, id)
}

// List returns the general listing, newest first, optionally restricted to a
// status set.
func (s *OrderService) List(ctx context.Context, statuses []string) ([]models.Order, error) {
	return s.orderRepo.List(ctx, core.ListOrdersFilter{Statuses: statuses})
}

// KitchenQueue is the chef view: pending and in-preparation orders, oldest
// work first.
func (s *OrderService) KitchenQueue(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.List(ctx, core.ListOrdersFilter{
		Statuses:  core.KitchenQueueStatuses,
		Ascending: true,
	})
}

// ServerQueue is the waiter view: everything not yet delivered, oldest first.
func (s *OrderService) ServerQueue(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.List(ctx, core.ListOrdersFilter{
		Statuses:  core.ServerQueueStatuses,
		Ascending: true,
	})
}

func validateOrderParams(p core.CreateOrderParams) error {
	if !core.AllowedKinds[p.Kind] {
		return fmt.Errorf("%w: unknown order kind %q", core.ErrValidation, p.Kind)
	}
	if p.StaffID == 0 {
		return fmt.Errorf("%w: staff reference is required", core.ErrValidation)
	}
	if len(p.Lines) == 0 {
		return fmt.Errorf("%w: order needs at least one line", core.ErrValidation)
	}
	if len(p.Lines) > core.MaxOrderLines {
		return fmt.Errorf("%w: too many lines: %d, max %d", core.ErrValidation, len(p.Lines), core.MaxOrderLines)
	}
	if len(p.Note) > core.MaxNoteLen {
		return fmt.Errorf("%w: note too long: %d, max %d", core.ErrValidation, len(p.Note), core.MaxNoteLen)
	}

	for i, line := range p.Lines {
		if line.ItemID == 0 {
			return fmt.Errorf("%w: line %d: item reference is required", core.ErrValidation, i+1)
		}
		if line.Quantity < core.MinLineQuantity || line.Quantity > core.MaxLineQuantity {
			return fmt.Errorf("%w: line %d: quantity %d must be in range [%d, %d]",
				core.ErrValidation, i+1, line.Quantity, core.MinLineQuantity, core.MaxLineQuantity)
		}
		if line.UnitPrice < 0 {
			return fmt.Errorf("%w: line %d: unit price cannot be negative", core.ErrValidation, i+1)
		}
	}

	return nil
}
