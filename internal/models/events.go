package models

import "time"

// NATS subject names
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventBatchApplied     = "batch.applied"
)

// BookingCreatedEvent published after a successful create
type BookingCreatedEvent struct {
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	SeatID    string    `json:"seat_id"`
	Date      string    `json:"date"`
	TimeSlot  TimeSlot  `json:"time_slot"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCancelledEvent published after a successful cancel
type BookingCancelledEvent struct {
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	SeatID    string    `json:"seat_id"`
	Date      string    `json:"date"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// BatchAppliedEvent published once per processed modification batch
type BatchAppliedEvent struct {
	UserID    string    `json:"user_id"`
	Applied   int       `json:"applied"`
	Failed    int       `json:"failed"`
	Dates     []string  `json:"dates"`
	Timestamp time.Time `json:"timestamp"`
}
