package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"hotdesk/internal/engine"
	"hotdesk/internal/middleware"
	"hotdesk/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateBooking - POST /api/bookings
// Создать бронирование места на дату и слот
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)

	rec, err := h.services.Bookings.Create(c.Request.Context(), userID, &req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	middleware.CountBookingCreated()
	slog.Info("Booking created",
		"booking_id", rec.ID,
		"user_id", userID,
		"seat_id", rec.SeatID,
		"date", rec.Date,
		"time_slot", rec.Slot)

	c.JSON(http.StatusCreated, models.CreateBookingResponse{Booking: *rec})
}

// ListBookings - GET /api/bookings
// Активные бронирования текущего пользователя
func (h *Handlers) ListBookings(c *gin.Context) {
	userID := currentUserID(c)

	bookings, err := h.services.Bookings.List(c.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to list bookings", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, models.ListBookingsResponse{Bookings: bookings})
}

// CancelBooking - PATCH /api/bookings/cancel
// Отменить собственное активное бронирование
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)

	if err := h.services.Bookings.Cancel(c.Request.Context(), userID, &req); err != nil {
		var notFound *engine.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Failed to cancel booking", "booking_id", req.BookingID, "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	middleware.CountBookingCancelled()
	c.JSON(http.StatusOK, gin.H{"status": "cancelled", "booking_id": req.BookingID})
}

// ApplyBatch - POST /api/bookings/batch
// Применить пакет изменений; частичные сбои не откатывают применённое
func (h *Handlers) ApplyBatch(c *gin.Context) {
	var req models.BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)

	response, err := h.services.Bookings.ApplyBatch(c.Request.Context(), userID, &req)
	if err != nil {
		slog.Error("Failed to apply batch", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply batch"})
		return
	}

	status := http.StatusOK
	if len(response.Failures) > 0 && len(response.Applied) == 0 {
		status = http.StatusConflict
	}
	c.JSON(status, response)
}

func writeBookingError(c *gin.Context, err error) {
	var dateErr *engine.InvalidDateError
	switch {
	case engine.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &dateErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Failed to create booking", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
	}
}
