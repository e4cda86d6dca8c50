package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restopos/internal/pos/domain/models"
	"restopos/internal/pos/services"
	"restopos/internal/xpkg/logger"
)

type EventHandler struct {
	events *services.EventService
	mylog  logger.Logger
}

func NewEventHandler(events *services.EventService, mylog logger.Logger) *EventHandler {
	return &EventHandler{events: events, mylog: mylog}
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

type eventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	Status      string    `json:"status"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	event, err := h.events.Create(c.Request.Context(), models.Event{
		Name:        req.Name,
		Description: req.Description,
		EventDate:   req.EventDate,
		Status:      req.Status,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

type DashboardHandler struct {
	dashboard *services.DashboardService
	mylog     logger.Logger
}

func NewDashboardHandler(dashboard *services.DashboardService, mylog logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, mylog: mylog}
}

func (h *DashboardHandler) View(c *gin.Context) {
	view, err := h.dashboard.View(c.Request.Context(), c.Query("range"))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
