package integration

import (
	"net/http"
	"os"
	"testing"
	"time"

	"hotdesk/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8080"
)

// BaseURL returns the API address under test
func BaseURL() string {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		return url
	}
	return DefaultBaseURL
}

// RequireServer skips the test when no live server is reachable
func RequireServer(t *testing.T) {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(BaseURL() + "/health")
	if err != nil {
		t.Skipf("No API server at %s, skipping integration test", BaseURL())
	}
	resp.Body.Close()
}

// FindBookableSeat finds a seat open for all three slots
func FindBookableSeat(seats []models.SeatAvailabilityItem) *models.SeatAvailabilityItem {
	for _, seat := range seats {
		if seat.Bookable && !seat.OwnedByMe && len(seat.OpenSlots) == 3 {
			return &seat
		}
	}
	return nil
}

// AssertBookingExists checks if a booking exists in the list
func AssertBookingExists(t *testing.T, bookings []models.BookingRecord, bookingID string) {
	for _, booking := range bookings {
		if booking.ID == bookingID {
			return
		}
	}
	t.Fatalf("Booking with ID %s not found in bookings list, %+v", bookingID, bookings)
}

// AssertSeatOpenSlots verifies the open slots for a seat in the map
func AssertSeatOpenSlots(t *testing.T, seats []models.SeatAvailabilityItem, seatID string, expected int) {
	for _, seat := range seats {
		if seat.SeatID == seatID {
			if len(seat.OpenSlots) != expected {
				t.Fatalf("Seat %s has %d open slots, expected %d", seatID, len(seat.OpenSlots), expected)
			}
			return
		}
	}
	t.Fatalf("Seat with ID %s not found in seats list", seatID)
}

// LogTestStep logs a test step for better debugging
func LogTestStep(t *testing.T, step string, args ...interface{}) {
	t.Logf("🔹 "+step, args...)
}

// LogTestResult logs a test result
func LogTestResult(t *testing.T, result string, args ...interface{}) {
	t.Logf("✅ "+result, args...)
}
