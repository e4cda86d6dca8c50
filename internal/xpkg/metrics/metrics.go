package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restopos/internal/xpkg/logger"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restopos_orders_created_total",
		Help: "Number of orders created",
	})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restopos_order_status_transitions_total",
		Help: "Number of order status transitions",
	}, []string{"status"})

	InvoicesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restopos_invoices_issued_total",
		Help: "Number of invoices issued",
	})

	CashSessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restopos_cash_sessions_opened_total",
		Help: "Number of cash sessions opened",
	})

	CashSessionsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restopos_cash_sessions_closed_total",
		Help: "Number of cash sessions closed",
	})

	SalesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restopos_cash_sales_recorded_total",
		Help: "Number of sale movements recorded",
	})
)

// Serve exposes /metrics on its own listener so scrapes never share the API
// port. It blocks until ctx is cancelled, then shuts the listener down.
// Errors other than a clean close are logged, not fatal.
func Serve(ctx context.Context, port int, mylog logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			mylog.Action("metrics_server_shutdown_failed").Error("failed to stop metrics server cleanly", err)
		}
	}()

	mylog.Action("metrics_server_started").With("port", port).Info("metrics server is running")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		mylog.Action("metrics_server_failed").Error("metrics server stopped", err)
	}
}
