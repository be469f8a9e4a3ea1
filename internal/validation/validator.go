package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"hotdesk/internal/models"
)

// SmokeValidator прогоняет основной сценарий бронирования против живого сервера
type SmokeValidator struct {
	baseURL string
	userID  string
}

// NewSmokeValidator создает новый валидатор
func NewSmokeValidator(baseURL, userID string) *SmokeValidator {
	return &SmokeValidator{baseURL: baseURL, userID: userID}
}

// ValidateAll проверяет все endpoints
func (v *SmokeValidator) ValidateAll() error {
	log.Println("Начинаю проверку API...")

	if err := v.validateAuth(); err != nil {
		return fmt.Errorf("Auth validation failed: %w", err)
	}

	days, err := v.validateSchedule()
	if err != nil {
		return fmt.Errorf("Schedule validation failed: %w", err)
	}

	if err := v.validateSeats(days[0]); err != nil {
		return fmt.Errorf("Seats validation failed: %w", err)
	}

	if err := v.validateBookings(days[0]); err != nil {
		return fmt.Errorf("Bookings validation failed: %w", err)
	}

	log.Println("✅ Все endpoints прошли проверку успешно!")
	return nil
}

func (v *SmokeValidator) validateAuth() error {
	log.Println("Проверяю Auth endpoints...")

	resp, err := v.makeRequest("POST", "/api/auth/login", models.LoginRequest{UserID: v.userID})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST /api/auth/login: expected 200, got %d", resp.StatusCode)
	}

	var loginResp models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("POST /api/auth/login: failed to decode response: %w", err)
	}
	if loginResp.UserID != v.userID {
		return fmt.Errorf("POST /api/auth/login: expected user %s, got %s", v.userID, loginResp.UserID)
	}

	log.Println("✅ Auth endpoints валидны")
	return nil
}

func (v *SmokeValidator) validateSchedule() ([]string, error) {
	log.Println("Проверяю Schedule endpoint...")

	resp, err := v.makeRequest("GET", "/api/schedule", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /api/schedule: expected 200, got %d", resp.StatusCode)
	}

	var schedule models.ScheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return nil, fmt.Errorf("GET /api/schedule: failed to decode response: %w", err)
	}
	if len(schedule.Days) == 0 {
		return nil, fmt.Errorf("GET /api/schedule: expected non-empty window")
	}

	log.Println("✅ Schedule endpoint валиден")
	return schedule.Days, nil
}

func (v *SmokeValidator) validateSeats(date string) error {
	log.Println("Проверяю Seats endpoints...")

	resp, err := v.makeRequest("GET", "/api/seats?date="+date, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/seats: expected 200, got %d", resp.StatusCode)
	}

	var seats models.ListSeatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&seats); err != nil {
		return fmt.Errorf("GET /api/seats: failed to decode response: %w", err)
	}
	resp.Body.Close()

	if len(seats.Seats) == 0 {
		return fmt.Errorf("GET /api/seats: expected non-empty seat map")
	}

	seatID := seats.Seats[0].SeatID

	// GET /api/seats/timeslots
	resp, err = v.makeRequest("GET", "/api/seats/timeslots?seat_id="+seatID+"&date="+date, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/seats/timeslots: expected 200, got %d", resp.StatusCode)
	}

	log.Println("✅ Seats endpoints валидны")
	return nil
}

func (v *SmokeValidator) validateBookings(date string) error {
	log.Println("Проверяю Bookings endpoints...")

	// Найдем свободное место на дату
	resp, err := v.makeRequest("GET", "/api/seats?date="+date, nil)
	if err != nil {
		return err
	}

	var seats models.ListSeatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&seats); err != nil {
		return fmt.Errorf("GET /api/seats: failed to decode response: %w", err)
	}
	resp.Body.Close()

	var seatID string
	for _, s := range seats.Seats {
		if s.Bookable && !s.OwnedByMe {
			seatID = s.SeatID
			break
		}
	}
	if seatID == "" {
		return fmt.Errorf("no bookable seat available on %s", date)
	}

	// POST /api/bookings
	resp, err = v.makeRequest("POST", "/api/bookings", models.CreateBookingRequest{
		SeatID:   seatID,
		Date:     date,
		TimeSlot: models.SlotAM,
	})
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST /api/bookings: expected 201, got %d", resp.StatusCode)
	}

	var createResp models.CreateBookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&createResp); err != nil {
		return fmt.Errorf("POST /api/bookings: failed to decode response: %w", err)
	}
	resp.Body.Close()

	if createResp.Booking.ID == "" {
		return fmt.Errorf("POST /api/bookings: expected non-empty booking id")
	}

	// GET /api/bookings
	resp, err = v.makeRequest("GET", "/api/bookings", nil)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/bookings: expected 200, got %d", resp.StatusCode)
	}

	var listResp models.ListBookingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return fmt.Errorf("GET /api/bookings: failed to decode response: %w", err)
	}
	resp.Body.Close()

	if len(listResp.Bookings) == 0 {
		return fmt.Errorf("GET /api/bookings: expected non-empty list")
	}

	// PATCH /api/bookings/cancel
	resp, err = v.makeRequest("PATCH", "/api/bookings/cancel", models.CancelBookingRequest{
		BookingID: createResp.Booking.ID,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("PATCH /api/bookings/cancel: expected 200, got %d", resp.StatusCode)
	}

	log.Println("✅ Bookings endpoints валидны")
	return nil
}

func (v *SmokeValidator) makeRequest(method, path string, body interface{}) (*http.Response, error) {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		req, err = http.NewRequest(method, v.baseURL+path, bytes.NewBuffer(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, v.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
	}
	req.Header.Set("X-User-ID", v.userID)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	return resp, nil
}

// RunValidation запускает проверку API
func RunValidation() {
	baseURL := "http://localhost:8080"
	userID := "U001"

	validator := NewSmokeValidator(baseURL, userID)
	if err := validator.ValidateAll(); err != nil {
		log.Fatalf("❌ Проверка не пройдена: %v", err)
	}
}
