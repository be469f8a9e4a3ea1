package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"hotdesk/internal/engine"

	"github.com/gin-gonic/gin"
)

// GetSchedule - GET /api/schedule
// Окно бронирования: рабочие дни на две недели вперед
func (h *Handlers) GetSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Availability.Schedule())
}

// ListSeats - GET /api/seats?date=YYYY-MM-DD
// Карта рассадки на дату
func (h *Handlers) ListSeats(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	userID := currentUserID(c)

	// Try the Valkey tier first, raw JSON to avoid re-marshaling
	if raw, ok := h.services.Availability.SeatsRaw(c.Request.Context(), date, userID); ok {
		slog.Debug("Cache hit for seat map", "date", date)
		c.Data(http.StatusOK, "application/json", raw)
		return
	}

	response, err := h.services.Availability.Seats(c.Request.Context(), date, userID)
	if err != nil {
		var dateErr *engine.InvalidDateError
		if errors.As(err, &dateErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Failed to build seat map", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build seat map"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetTimeslots - GET /api/seats/timeslots?seat_id=A1&date=YYYY-MM-DD
// Открытые слоты для конкретного места
func (h *Handlers) GetTimeslots(c *gin.Context) {
	seatID := c.Query("seat_id")
	date := c.Query("date")
	if seatID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seat_id and date query parameters are required"})
		return
	}

	response, err := h.services.Availability.Timeslots(c.Request.Context(), seatID, date)
	if err != nil {
		var dateErr *engine.InvalidDateError
		switch {
		case errors.As(err, &dateErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.Error("Failed to resolve timeslots", "seat_id", seatID, "date", date, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve timeslots"})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}
