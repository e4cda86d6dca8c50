package app

import (
	"context"
	"flag"
	"time"

	apihttp "restopos/internal/app/api/http"
	"restopos/internal/app/api/http/handle"
	"restopos/internal/pos/adapter/brokermessage"
	"restopos/internal/pos/adapter/db"
	"restopos/internal/pos/adapter/ws"
	"restopos/internal/pos/services"
	"restopos/internal/xpkg/config"
	"restopos/internal/xpkg/logger"
	"restopos/internal/xpkg/metrics"
)

// Run wires the whole service together and blocks until ctx is cancelled or
// the server fails.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restopos", flag.ContinueOnError)
	configPath := fs.String("config-path", ".env", "path to the env file")
	port := fs.Int("port", 0, "override the listen port")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mylog := logger.New("restopos")

	cfg, err := config.Load(*configPath)
	if err != nil {
		mylog.Action("config_load_failed").Error("failed to load configuration", err)
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	database, err := db.Start(ctx, cfg.DB)
	if err != nil {
		mylog.Action("db_connection_failed").Error("failed to connect to database", err)
		return err
	}
	defer database.Close()
	mylog.Action("db_connected").Info("database connection established")

	if err := database.InitSchema(ctx); err != nil {
		mylog.Action("db_migration_failed").Error("failed to initialize schema", err)
		return err
	}

	broker, err := brokermessage.New(cfg.RMQ, mylog)
	if err != nil {
		mylog.Action("broker_connection_failed").Error("failed to connect to message broker", err)
		return err
	}
	defer broker.Close()
	mylog.Action("broker_connected").Info("message broker connection established")

	gateway := ws.NewGateway(mylog)
	deliveries, err := broker.Consume(ctx)
	if err != nil {
		mylog.Action("broker_consume_failed").Error("failed to start notification consumer", err)
		return err
	}
	go gateway.Run(ctx, deliveries)
	defer gateway.Stop()

	orderRepo := db.NewOrderRepo(database)
	cashRepo := db.NewCashRepo(database)
	invoiceRepo := db.NewInvoiceRepo(database)
	userRepo := db.NewUserRepo(database)
	resetRepo := db.NewResetCodeRepo(database)
	customerRepo := db.NewCustomerRepo(database)
	menuRepo := db.NewMenuRepo(database)
	supplyRepo := db.NewSupplyRepo(database)
	eventRepo := db.NewEventRepo(database)
	dashRepo := db.NewDashboardRepo(database)

	taxRate := cfg.Invoice.TaxRate
	tokenTTL := time.Duration(cfg.JWT.ExpirationHours) * time.Hour
	codeTTL := time.Duration(cfg.Reset.CodeTTLMinutes) * time.Minute

	authService := services.NewAuthService(
		userRepo, resetRepo, services.NewLogMailer(mylog),
		cfg.JWT.Secret, tokenTTL, codeTTL, mylog,
	)
	go authService.RunSweeper(ctx, codeTTL)

	handlers := apihttp.Handlers{
		Auth:      handle.NewAuthHandler(authService, mylog),
		Users:     handle.NewUserHandler(services.NewUserService(userRepo, mylog), mylog),
		Customers: handle.NewCustomerHandler(services.NewCustomerService(customerRepo, mylog), mylog),
		Menu:      handle.NewMenuHandler(services.NewMenuService(menuRepo, mylog), mylog),
		Inventory: handle.NewInventoryHandler(services.NewInventoryService(supplyRepo, mylog), mylog),
		Orders:    handle.NewOrderHandler(services.NewOrderService(orderRepo, broker, mylog), mylog),
		Cash:      handle.NewCashHandler(services.NewCashService(cashRepo, broker, taxRate, mylog), mylog),
		Invoices:  handle.NewInvoiceHandler(services.NewInvoiceService(invoiceRepo, taxRate, mylog), mylog),
		Events:    handle.NewEventHandler(services.NewEventService(eventRepo, broker, mylog), mylog),
		Dashboard: handle.NewDashboardHandler(services.NewDashboardService(dashRepo, mylog), mylog),
	}

	go metrics.Serve(ctx, cfg.Server.MetricsPort, mylog)

	server := apihttp.NewServer(cfg, handlers, gateway, mylog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			mylog.Action("shutdown_failed").Error("failed to stop http server cleanly", err)
			return err
		}
		mylog.Action("shutdown_complete").Info("service stopped")
		return nil
	case err := <-errCh:
		if err != nil {
			mylog.Action("server_failed").Error("http server stopped with error", err)
		}
		return err
	}
}
