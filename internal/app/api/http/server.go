package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"restopos/internal/app/api/http/handle"
	"restopos/internal/pos/adapter/ws"
	"restopos/internal/pos/core"
	"restopos/internal/xpkg/config"
	"restopos/internal/xpkg/logger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *handle.AuthHandler
	Users     *handle.UserHandler
	Customers *handle.CustomerHandler
	Menu      *handle.MenuHandler
	Inventory *handle.InventoryHandler
	Orders    *handle.OrderHandler
	Cash      *handle.CashHandler
	Invoices  *handle.InvoiceHandler
	Events    *handle.EventHandler
	Dashboard *handle.DashboardHandler
}

type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	srv     *http.Server
	gateway *ws.Gateway
	h       Handlers
	mylog   logger.Logger
}

func NewServer(cfg *config.Config, h Handlers, gateway *ws.Gateway, mylog logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		cfg:     cfg,
		engine:  gin.New(),
		gateway: gateway,
		h:       h,
		mylog:   mylog,
	}
}

// Run configures the routes and blocks until the listener stops.
func (s *Server) Run() error {
	s.configure()

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.engine,
	}

	s.mylog.Action("server_started").With("port", s.cfg.Server.Port).Info("server is running")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.mylog.Action("server_stopping").Info("shutting down http server")
	return s.srv.Shutdown(ctx)
}

func (s *Server) configure() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(RequestID())
	s.engine.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/ws", func(c *gin.Context) {
		s.gateway.Handle(c.Writer, c.Request)
	})

	secret := s.cfg.JWT.Secret
	api := s.engine.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/login", s.h.Auth.Login)
		auth.POST("/reset/request", s.h.Auth.RequestReset)
		auth.POST("/reset/confirm", s.h.Auth.ConfirmReset)
		auth.PUT("/password", Auth(secret), s.h.Auth.ChangePassword)
	}

	users := api.Group("/users", Auth(secret, core.RoleAdmin))
	{
		users.GET("", s.h.Users.List)
		users.GET("/:id", s.h.Users.Get)
		users.POST("", s.h.Users.Create)
		users.PUT("/:id", s.h.Users.Update)
		users.DELETE("/:id", s.h.Users.Delete)
	}

	customers := api.Group("/customers", Auth(secret))
	{
		customers.GET("", s.h.Customers.List)
		customers.GET("/:id", s.h.Customers.Get)
		customers.POST("", s.h.Customers.Create)
		customers.PUT("/:id", s.h.Customers.Update)
		customers.DELETE("/:id", s.h.Customers.Delete)
	}

	menu := api.Group("/menu")
	{
		menu.GET("/categories", Auth(secret), s.h.Menu.ListCategories)
		menu.POST("/categories", Auth(secret, core.RoleAdmin), s.h.Menu.CreateCategory)
		menu.PUT("/categories/:id", Auth(secret, core.RoleAdmin), s.h.Menu.UpdateCategory)
		menu.DELETE("/categories/:id", Auth(secret, core.RoleAdmin), s.h.Menu.DeleteCategory)

		menu.GET("/items", Auth(secret), s.h.Menu.ListItems)
		menu.GET("/items/:id", Auth(secret), s.h.Menu.GetItem)
		menu.POST("/items", Auth(secret, core.RoleAdmin), s.h.Menu.CreateItem)
		menu.PUT("/items/:id", Auth(secret, core.RoleAdmin), s.h.Menu.UpdateItem)
		menu.DELETE("/items/:id", Auth(secret, core.RoleAdmin), s.h.Menu.DeleteItem)

		menu.GET("/items/:id/ingredients", Auth(secret), s.h.Menu.ListIngredients)
		menu.POST("/items/:id/ingredients", Auth(secret, core.RoleAdmin), s.h.Menu.AddIngredient)
		menu.DELETE("/ingredients/:id", Auth(secret, core.RoleAdmin), s.h.Menu.RemoveIngredient)
	}

	inventory := api.Group("/inventory", Auth(secret, core.RoleAdmin, core.RoleKitchen))
	{
		inventory.GET("", s.h.Inventory.List)
		inventory.POST("", s.h.Inventory.Create)
		inventory.PUT("/:id", s.h.Inventory.Update)
		inventory.DELETE("/:id", s.h.Inventory.Delete)
		inventory.POST("/:id/movements", s.h.Inventory.RecordMovement)
		inventory.GET("/stock", s.h.Inventory.Stock)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", Auth(secret, core.RoleWaiter), s.h.Orders.Create)
		orders.GET("", Auth(secret), s.h.Orders.List)
		orders.GET("/:id", Auth(secret), s.h.Orders.Get)
		orders.PATCH("/:id/status", Auth(secret, core.RoleWaiter, core.RoleKitchen), s.h.Orders.SetStatus)
		orders.GET("/queue/kitchen", Auth(secret, core.RoleKitchen), s.h.Orders.KitchenQueue)
		orders.GET("/queue/server", Auth(secret, core.RoleWaiter), s.h.Orders.ServerQueue)
	}

	cash := api.Group("/cash", Auth(secret, core.RoleCashier))
	{
		cash.POST("/sessions", s.h.Cash.Open)
		cash.POST("/sessions/close", s.h.Cash.Close)
		cash.POST("/sales", s.h.Cash.RecordSale)
		cash.GET("/movements", s.h.Cash.Movements)
	}

	invoices := api.Group("/invoices", Auth(secret, core.RoleCashier))
	{
		invoices.POST("", s.h.Invoices.Issue)
		invoices.GET("", s.h.Invoices.List)
		invoices.GET("/:id", s.h.Invoices.Get)
	}

	events := api.Group("/events")
	{
		events.GET("", Auth(secret), s.h.Events.List)
		events.POST("", Auth(secret, core.RoleAdmin), s.h.Events.Create)
		events.DELETE("/:id", Auth(secret, core.RoleAdmin), s.h.Events.Delete)
	}

	api.GET("/dashboard", Auth(secret, core.RoleAdmin), s.h.Dashboard.View)
}
