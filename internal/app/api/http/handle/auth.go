package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"restopos/internal/pos/core"
	"restopos/internal/pos/services"
	"restopos/internal/xpkg/logger"
)

type AuthHandler struct {
	auth  *services.AuthService
	mylog logger.Logger
}

func NewAuthHandler(auth *services.AuthService, mylog logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, mylog: mylog}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login always answers 401 on failure so callers cannot enumerate accounts.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) || errors.Is(err, core.ErrValidation) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), actorID(c), req.CurrentPassword, req.NewPassword); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

type resetRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		badRequest(c, "email is required")
		return
	}

	if err := h.auth.RequestReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Do not reveal whether the account exists.
			c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a code was sent"})
			return
		}
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a code was sent"})
}

type resetConfirmRequest struct {
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		badRequest(c, "code is required")
		return
	}

	if err := h.auth.ConfirmReset(c.Request.Context(), req.Code, req.NewPassword); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}
