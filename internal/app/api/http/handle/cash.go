package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restopos/internal/pos/services"
	"restopos/internal/xpkg/logger"
)

type CashHandler struct {
	cash  *services.CashService
	mylog logger.Logger
}

func NewCashHandler(cash *services.CashService, mylog logger.Logger) *CashHandler {
	return &CashHandler{cash: cash, mylog: mylog}
}

type openSessionRequest struct {
	OpeningFloat float64 `json:"opening_float"`
}

func (h *CashHandler) Open(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	session, err := h.cash.Open(c.Request.Context(), req.OpeningFloat, actorID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type recordSaleRequest struct {
	SessionID     int64   `json:"session_id"`
	Amount        float64 `json:"amount"`
	Tendered      float64 `json:"tendered_amount"`
	Change        float64 `json:"change_amount"`
	Description   string  `json:"description"`
	OrderID       *int64  `json:"order_id"`
	PaymentMethod string  `json:"payment_method"`
	WithInvoice   bool    `json:"with_invoice"`
}

func (h *CashHandler) RecordSale(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	movement, invoice, err := h.cash.RecordSale(c.Request.Context(), services.SaleRequest{
		SessionID:     req.SessionID,
		Amount:        req.Amount,
		Tendered:      req.Tendered,
		Change:        req.Change,
		Description:   req.Description,
		OrderID:       req.OrderID,
		PaymentMethod: req.PaymentMethod,
		WithInvoice:   req.WithInvoice,
	})
	if err != nil {
		Fail(c, err)
		return
	}

	resp := gin.H{"movement": movement}
	if invoice != nil {
		resp["invoice"] = invoice
	}
	c.JSON(http.StatusCreated, resp)
}

type closeSessionRequest struct {
	SessionID *int64 `json:"session_id"`
}

func (h *CashHandler) Close(c *gin.Context) {
	var req closeSessionRequest
	// Body is optional; without it the open session is closed.
	_ = c.ShouldBindJSON(&req)

	result, err := h.cash.Close(c.Request.Context(), req.SessionID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CashHandler) Movements(c *gin.Context) {
	movements, err := h.cash.OpenMovements(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}
