package handlers

import (
	"log/slog"
	"net/http"

	"hotdesk/internal/models"

	"github.com/gin-gonic/gin"
)

// Login - POST /api/auth/login
// Вход по идентификатору из справочника пользователей, без пароля
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.services.Users.Lookup(c.Request.Context(), req.UserID)
	if err != nil {
		slog.Error("Failed to look up user", "user_id", req.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		UserID: user.UserID,
		Email:  user.Email,
	})
}
