package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restopos/internal/pos/core"
	"restopos/internal/pos/services"
	"restopos/internal/xpkg/logger"
)

type OrderHandler struct {
	orders *services.OrderService
	mylog  logger.Logger
}

func NewOrderHandler(orders *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, mylog: mylog}
}

type orderLineRequest struct {
	ItemID    int64   `json:"item_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type createOrderRequest struct {
	CustomerID *int64             `json:"customer_id"`
	Kind       string             `json:"kind"`
	Note       string             `json:"note"`
	Lines      []orderLineRequest `json:"lines"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	lines := make([]core.OrderLineParams, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, core.OrderLineParams{
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	order, err := h.orders.Create(c.Request.Context(), core.CreateOrderParams{
		CustomerID: req.CustomerID,
		StaffID:    actorID(c),
		Kind:       req.Kind,
		Note:       req.Note,
		Lines:      lines,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		badRequest(c, "status is required")
		return
	}

	order, err := h.orders.SetStatus(c.Request.Context(), id, req.Status, actorID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), c.QueryArray("status"))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) KitchenQueue(c *gin.Context) {
	orders, err := h.orders.KitchenQueue(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ServerQueue(c *gin.Context) {
	orders, err := h.orders.ServerQueue(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
