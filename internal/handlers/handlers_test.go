package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotdesk/internal/middleware"
	"hotdesk/internal/models"
	"hotdesk/internal/service"
	"hotdesk/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday inside the booking window used by all handler tests.
func testClock() time.Time {
	return time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	memStore := store.NewMemoryStore()
	for _, u := range []models.User{
		{UserID: "U001", Email: "u001@example.com"},
		{UserID: "U002", Email: "u002@example.com"},
		{UserID: "U003", Email: "u003@example.com"},
	} {
		require.NoError(t, memStore.UpsertUser(context.Background(), u))
	}

	layout, err := models.ParseLayout("A:8,B:8,C:8")
	require.NoError(t, err)

	services := service.NewServices(service.Deps{
		Store:       memStore,
		Users:       memStore,
		Layout:      layout,
		WindowWeeks: 2,
		Clock:       testClock,
	})

	h := NewHandlers(services)

	r := gin.New()
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Login)
		}

		authed := api.Group("")
		authed.Use(middleware.Identity(services.Users))
		{
			authed.GET("/schedule", h.GetSchedule)

			seats := authed.Group("/seats")
			{
				seats.GET("", h.ListSeats)
				seats.GET("/timeslots", h.GetTimeslots)
			}

			bookings := authed.Group("/bookings")
			{
				bookings.POST("", h.CreateBooking)
				bookings.GET("", h.ListBookings)
				bookings.PATCH("/cancel", h.CancelBooking)
				bookings.POST("/batch", h.ApplyBatch)
			}

			authed.POST("/reset", h.ResetStore)
		}
	}

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBooking(t *testing.T, r *gin.Engine, userID, seatID, date string, slot models.TimeSlot) models.BookingRecord {
	t.Helper()
	w := doJSON(t, r, "POST", "/api/bookings", userID, models.CreateBookingRequest{
		SeatID:   seatID,
		Date:     date,
		TimeSlot: slot,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.CreateBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Booking
}

func TestHealthCheck(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "POST", "/api/auth/login", "", models.LoginRequest{UserID: "U001"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "U001", resp.UserID)
	assert.Equal(t, "u001@example.com", resp.Email)
}

func TestLoginUnknownUser(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "POST", "/api/auth/login", "", models.LoginRequest{UserID: "ghost"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentityRequired(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "GET", "/api/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "GET", "/api/bookings", "nobody", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetSchedule(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "GET", "/api/schedule", "U001", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Two weeks of weekdays starting from today (Wednesday 2025-10-15).
	assert.Len(t, resp.Days, 10)
	assert.Equal(t, "2025-10-15", resp.Days[0])
	assert.NotContains(t, resp.Days, "2025-10-18")
	assert.NotContains(t, resp.Days, "2025-10-19")
}

func TestCreateBooking(t *testing.T) {
	r := setupRouter(t)

	rec := createBooking(t, r, "U001", "A1", "2025-10-15", models.SlotAM)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "U001", rec.UserID)
	assert.Equal(t, "A1", rec.SeatID)
	assert.Equal(t, models.StatusActive, rec.Status)
	assert.Equal(t, "A", rec.Table)
}

func TestCreateBookingConflicts(t *testing.T) {
	r := setupRouter(t)

	createBooking(t, r, "U001", "A1", "2025-10-15", models.SlotAM)

	// Same slot, different user
	w := doJSON(t, r, "POST", "/api/bookings", "U002", models.CreateBookingRequest{
		SeatID: "A1", Date: "2025-10-15", TimeSlot: models.SlotAM,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Complementary half stays open for others
	createBooking(t, r, "U002", "A1", "2025-10-15", models.SlotPM)

	// One booking per user per day
	w = doJSON(t, r, "POST", "/api/bookings", "U001", models.CreateBookingRequest{
		SeatID: "B3", Date: "2025-10-15", TimeSlot: models.SlotPM,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBookingBadDates(t *testing.T) {
	r := setupRouter(t)

	cases := []string{
		"15-10-2025", // wrong format
		"2025-10-18", // Saturday
		"2025-12-01", // beyond the window
		"2025-10-14", // yesterday
	}
	for _, date := range cases {
		w := doJSON(t, r, "POST", "/api/bookings", "U001", models.CreateBookingRequest{
			SeatID: "A1", Date: date, TimeSlot: models.SlotAM,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "date %s", date)
	}
}

func TestCreateBookingUnknownSeat(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "POST", "/api/bookings", "U001", models.CreateBookingRequest{
		SeatID: "Z9", Date: "2025-10-15", TimeSlot: models.SlotAM,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListBookings(t *testing.T) {
	r := setupRouter(t)

	createBooking(t, r, "U001", "A1", "2025-10-16", models.SlotFullDay)
	createBooking(t, r, "U001", "B2", "2025-10-15", models.SlotAM)
	createBooking(t, r, "U002", "C3", "2025-10-15", models.SlotPM)

	w := doJSON(t, r, "GET", "/api/bookings", "U001", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ListBookingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 2)
	// Sorted by date then seat
	assert.Equal(t, "B2", resp.Bookings[0].SeatID)
	assert.Equal(t, "A1", resp.Bookings[1].SeatID)
}

func TestCancelBooking(t *testing.T) {
	r := setupRouter(t)

	rec := createBooking(t, r, "U001", "A1", "2025-10-15", models.SlotFullDay)

	w := doJSON(t, r, "PATCH", "/api/bookings/cancel", "U001", models.CancelBookingRequest{BookingID: rec.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	// Seat is free again
	createBooking(t, r, "U002", "A1", "2025-10-15", models.SlotFullDay)

	// Cancelling again is a 404, the booking is no longer active
	w = doJSON(t, r, "PATCH", "/api/bookings/cancel", "U001", models.CancelBookingRequest{BookingID: rec.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelForeignBooking(t *testing.T) {
	r := setupRouter(t)

	rec := createBooking(t, r, "U001", "A1", "2025-10-15", models.SlotAM)

	w := doJSON(t, r, "PATCH", "/api/bookings/cancel", "U002", models.CancelBookingRequest{BookingID: rec.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Still active for the owner
	w = doJSON(t, r, "GET", "/api/bookings", "U001", nil)
	var resp models.ListBookingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Bookings, 1)
}

func TestListSeats(t *testing.T) {
	r := setupRouter(t)

	createBooking(t, r, "U002", "C3", "2025-10-15", models.SlotFullDay)

	w := doJSON(t, r, "GET", "/api/seats?date=2025-10-15", "U001", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ListSeatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-10-15", resp.Date)
	assert.Len(t, resp.Seats, 24)

	byID := map[string]models.SeatAvailabilityItem{}
	for _, s := range resp.Seats {
		byID[s.SeatID] = s
	}
	assert.False(t, byID["C3"].Bookable)
	assert.Empty(t, byID["C3"].OpenSlots)
	assert.True(t, byID["A1"].Bookable)
	assert.ElementsMatch(t, []models.TimeSlot{models.SlotAM, models.SlotPM, models.SlotFullDay}, byID["A1"].OpenSlots)

	// The owner sees their own fully booked seat flagged
	w = doJSON(t, r, "GET", "/api/seats?date=2025-10-15", "U002", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, s := range resp.Seats {
		if s.SeatID == "C3" {
			assert.True(t, s.OwnedByMe)
		}
	}
}

func TestListSeatsValidation(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "GET", "/api/seats", "U001", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "GET", "/api/seats?date=not-a-date", "U001", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTimeslots(t *testing.T) {
	r := setupRouter(t)

	createBooking(t, r, "U002", "A1", "2025-10-15", models.SlotAM)

	w := doJSON(t, r, "GET", "/api/seats/timeslots?seat_id=A1&date=2025-10-15", "U001", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.TimeslotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []models.TimeSlot{models.SlotPM}, resp.OpenSlots)
}

func TestApplyBatch(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "POST", "/api/bookings/batch", "U001", models.BatchUpdateRequest{
		Modifications: map[string]map[string]bool{
			"A1": {"2025-10-15": true, "2025-10-16": true},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BatchUpdateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Applied, 2)
	assert.Empty(t, resp.Failures)

	listW := doJSON(t, r, "GET", "/api/bookings", "U001", nil)
	var list models.ListBookingsResponse
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &list))
	assert.Len(t, list.Bookings, 2)
	for _, b := range list.Bookings {
		assert.Equal(t, models.SlotFullDay, b.Slot)
	}
}

func TestApplyBatchMove(t *testing.T) {
	r := setupRouter(t)

	createBooking(t, r, "U001", "B2", "2025-10-16", models.SlotFullDay)

	// Booking another seat for the same day releases the old one implicitly.
	w := doJSON(t, r, "POST", "/api/bookings/batch", "U001", models.BatchUpdateRequest{
		Modifications: map[string]map[string]bool{
			"A1": {"2025-10-16": true},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	listW := doJSON(t, r, "GET", "/api/bookings", "U001", nil)
	var list models.ListBookingsResponse
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &list))
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, "A1", list.Bookings[0].SeatID)
}

func TestApplyBatchPartialFailure(t *testing.T) {
	r := setupRouter(t)

	createBooking(t, r, "U002", "A1", "2025-10-15", models.SlotFullDay)

	w := doJSON(t, r, "POST", "/api/bookings/batch", "U001", models.BatchUpdateRequest{
		Modifications: map[string]map[string]bool{
			"A1": {"2025-10-15": true, "2025-10-16": true},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BatchUpdateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Applied, 1)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "2025-10-15", resp.Failures[0].Date)
}

func TestResetStore(t *testing.T) {
	r := setupRouter(t)

	for i := 1; i <= 3; i++ {
		createBooking(t, r, "U001", fmt.Sprintf("A%d", i), fmt.Sprintf("2025-10-%d", 14+i), models.SlotFullDay)
	}

	w := doJSON(t, r, "POST", "/api/reset", "U001", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	listW := doJSON(t, r, "GET", "/api/bookings", "U001", nil)
	var list models.ListBookingsResponse
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &list))
	assert.Empty(t, list.Bookings)
}
