package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restopos/internal/pos/domain/models"
	"restopos/internal/pos/services"
	"restopos/internal/xpkg/logger"
)

type MenuHandler struct {
	menu  *services.MenuService
	mylog logger.Logger
}

func NewMenuHandler(menu *services.MenuService, mylog logger.Logger) *MenuHandler {
	return &MenuHandler{menu: menu, mylog: mylog}
}

func (h *MenuHandler) ListCategories(c *gin.Context) {
	categories, err := h.menu.ListCategories(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	category, err := h.menu.CreateCategory(c.Request.Context(), models.MenuCategory{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	category, err := h.menu.UpdateCategory(c.Request.Context(), models.MenuCategory{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes the category and its items in one shot.
func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.menu.DeleteCategory(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func (h *MenuHandler) ListItems(c *gin.Context) {
	items, err := h.menu.ListItems(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.menu.GetItem(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type menuItemRequest struct {
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	Image       string  `json:"image"`
}

func (h *MenuHandler) CreateItem(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	item, err := h.menu.CreateItem(c.Request.Context(), models.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Status:      req.Status,
		Image:       req.Image,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	item, err := h.menu.UpdateItem(c.Request.Context(), models.MenuItem{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Status:      req.Status,
		Image:       req.Image,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) ListIngredients(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ingredients, err := h.menu.ListIngredients(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

type ingredientRequest struct {
	SupplyID int64   `json:"supply_id"`
	Quantity float64 `json:"quantity"`
}

func (h *MenuHandler) AddIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ingredient, err := h.menu.AddIngredient(c.Request.Context(), models.MenuItemIngredient{
		ItemID:   id,
		SupplyID: req.SupplyID,
		Quantity: req.Quantity,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

func (h *MenuHandler) RemoveIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.menu.RemoveIngredient(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ingredient removed"})
}

func (h *MenuHandler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.menu.DeleteItem(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}
