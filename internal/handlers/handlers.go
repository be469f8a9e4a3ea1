package handlers

import (
	"net/http"

	"hotdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		services: services,
	}
}

// HealthCheck - GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// currentUserID достаёт идентификатор пользователя, проставленный Identity middleware
func currentUserID(c *gin.Context) string {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
