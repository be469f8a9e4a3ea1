package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"hotdesk/internal/models"
)

// TestClient provides methods for testing the API
type TestClient struct {
	BaseURL    string
	UserID     string
	HTTPClient *http.Client
}

// NewTestClient creates a new test client acting as the given user
func NewTestClient(baseURL, userID string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		UserID:  userID,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// makeRequest makes an HTTP request and returns the response
func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", c.UserID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// HealthCheck verifies the API is up
func (c *TestClient) HealthCheck(t *testing.T) {
	resp := c.makeRequest(t, "GET", "/health", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
}

// Login logs the client's user in
func (c *TestClient) Login(t *testing.T) *models.LoginResponse {
	resp := c.makeRequest(t, "POST", "/api/auth/login", models.LoginRequest{UserID: c.UserID})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var loginResp models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	return &loginResp
}

// GetSchedule returns the booking window
func (c *TestClient) GetSchedule(t *testing.T) *models.ScheduleResponse {
	resp := c.makeRequest(t, "GET", "/api/schedule", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var schedule models.ScheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		t.Fatalf("Failed to decode schedule response: %v", err)
	}
	return &schedule
}

// ListSeats returns the seat map for a date
func (c *TestClient) ListSeats(t *testing.T, date string) *models.ListSeatsResponse {
	resp := c.makeRequest(t, "GET", "/api/seats?date="+date, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var seats models.ListSeatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&seats); err != nil {
		t.Fatalf("Failed to decode seats response: %v", err)
	}
	return &seats
}

// GetTimeslots returns the open slots for a seat and date
func (c *TestClient) GetTimeslots(t *testing.T, seatID, date string) *models.TimeslotsResponse {
	resp := c.makeRequest(t, "GET", "/api/seats/timeslots?seat_id="+seatID+"&date="+date, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var slots models.TimeslotsResponse
	if err := json.NewDecoder(resp.Body).Decode(&slots); err != nil {
		t.Fatalf("Failed to decode timeslots response: %v", err)
	}
	return &slots
}

// CreateBooking creates a new booking and returns the response status plus
// the created record on success
func (c *TestClient) CreateBooking(t *testing.T, seatID, date string, slot models.TimeSlot) (int, *models.BookingRecord) {
	resp := c.makeRequest(t, "POST", "/api/bookings", models.CreateBookingRequest{
		SeatID:   seatID,
		Date:     date,
		TimeSlot: slot,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return resp.StatusCode, nil
	}

	var createResp models.CreateBookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&createResp); err != nil {
		t.Fatalf("Failed to decode booking response: %v", err)
	}
	return resp.StatusCode, &createResp.Booking
}

// ListBookings lists the client's active bookings
func (c *TestClient) ListBookings(t *testing.T) []models.BookingRecord {
	resp := c.makeRequest(t, "GET", "/api/bookings", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var listResp models.ListBookingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		t.Fatalf("Failed to decode bookings response: %v", err)
	}
	return listResp.Bookings
}

// CancelBooking cancels a booking and returns the status code
func (c *TestClient) CancelBooking(t *testing.T, bookingID string) int {
	resp := c.makeRequest(t, "PATCH", "/api/bookings/cancel", models.CancelBookingRequest{
		BookingID: bookingID,
	})
	defer resp.Body.Close()
	return resp.StatusCode
}

// ApplyBatch applies a modification batch
func (c *TestClient) ApplyBatch(t *testing.T, mods map[string]map[string]bool) *models.BatchUpdateResponse {
	resp := c.makeRequest(t, "POST", "/api/bookings/batch", models.BatchUpdateRequest{
		Modifications: mods,
	})
	defer resp.Body.Close()

	var batchResp models.BatchUpdateResponse
	if err := json.NewDecoder(resp.Body).Decode(&batchResp); err != nil {
		t.Fatalf("Failed to decode batch response: %v", err)
	}
	return &batchResp
}

// ResetStore empties the reservation store
func (c *TestClient) ResetStore(t *testing.T) {
	resp := c.makeRequest(t, "POST", "/api/reset", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
}
