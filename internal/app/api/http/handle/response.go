package handle

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restopos/internal/pos/core"
)

// Fail maps domain errors onto HTTP statuses. Storage failures never leak
// their detail to the client.
func Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pathID reads the :id parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// actorID reads the authenticated user id set by the auth middleware.
func actorID(c *gin.Context) int64 {
	id, _ := c.Get("userID")
	actor, _ := id.(int64)
	return actor
}
