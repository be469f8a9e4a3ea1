package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResetStore - POST /api/reset
// Сбросить хранилище бронирований в пустое состояние
func (h *Handlers) ResetStore(c *gin.Context) {
	err := h.services.Reset.ResetStore(c.Request.Context())
	if err != nil {
		slog.Error("Failed to reset store", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset store"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Store reset successfully"})
}
