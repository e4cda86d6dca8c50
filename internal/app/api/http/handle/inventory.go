package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restopos/internal/pos/domain/models"
	"restopos/internal/pos/services"
	"restopos/internal/xpkg/logger"
)

type InventoryHandler struct {
	inventory *services.InventoryService
	mylog     logger.Logger
}

func NewInventoryHandler(inventory *services.InventoryService, mylog logger.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, mylog: mylog}
}

func (h *InventoryHandler) List(c *gin.Context) {
	supplies, err := h.inventory.List(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, supplies)
}

type supplyRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Stock       float64 `json:"stock"`
	Unit        string  `json:"unit"`
	Status      string  `json:"status"`
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req supplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	supply, err := h.inventory.Create(c.Request.Context(), models.Supply{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		Unit:        req.Unit,
		Status:      req.Status,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, supply)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req supplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	supply, err := h.inventory.Update(c.Request.Context(), models.Supply{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		Unit:        req.Unit,
		Status:      req.Status,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, supply)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.inventory.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supply deleted"})
}

type movementRequest struct {
	Kind     string  `json:"kind"`
	Quantity float64 `json:"quantity"`
	Note     string  `json:"note"`
}

func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	movement, err := h.inventory.RecordMovement(c.Request.Context(), models.SupplyMovement{
		SupplyID: id,
		Kind:     req.Kind,
		Quantity: req.Quantity,
		Note:     req.Note,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func (h *InventoryHandler) Stock(c *gin.Context) {
	stock, err := h.inventory.Stock(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stock)
}
