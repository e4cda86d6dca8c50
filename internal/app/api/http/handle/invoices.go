package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restopos/internal/pos/services"
	"restopos/internal/xpkg/logger"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
	mylog    logger.Logger
}

func NewInvoiceHandler(invoices *services.InvoiceService, mylog logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, mylog: mylog}
}

type issueInvoiceRequest struct {
	OrderID       int64  `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
}

func (h *InvoiceHandler) Issue(c *gin.Context) {
	var req issueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID <= 0 {
		badRequest(c, "order_id is required")
		return
	}

	result, err := h.invoices.Issue(c.Request.Context(), req.OrderID, req.PaymentMethod)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoices.List(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}
