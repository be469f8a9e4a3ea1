package models

import (
	"fmt"
	"time"
)

// TimeSlot is the granularity of a desk booking.
type TimeSlot string

const (
	SlotAM      TimeSlot = "AM"
	SlotPM      TimeSlot = "PM"
	SlotFullDay TimeSlot = "FULL_DAY"
)

// Valid reports whether s is one of the three known slots.
func (s TimeSlot) Valid() bool {
	return s == SlotAM || s == SlotPM || s == SlotFullDay
}

// Overlaps reports whether two slots on the same seat and date collide.
// Two slots overlap iff either is FULL_DAY, or both are the identical slot.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	if s == SlotFullDay || other == SlotFullDay {
		return true
	}
	return s == other
}

// BookingStatus is the engine-level lifecycle state of a booking. The
// backing store has no status column; cancellation there is physical
// deletion.
type BookingStatus string

const (
	StatusActive    BookingStatus = "ACTIVE"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
)

// Reservation is the wire-level record exchanged with the reservation
// store. Field names carry over from the legacy schema: table_id holds the
// full seat identifier (e.g. "A1"), not a separate table key.
type Reservation struct {
	ReservationID string    `json:"reservation_id" db:"reservation_id"`
	UserID        string    `json:"user_id" db:"user_id"`
	TableID       string    `json:"table_id" db:"table_id"`
	Date          string    `json:"date" db:"date"`
	SlotType      TimeSlot  `json:"slot_type" db:"slot_type"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// BookingRecord is the in-memory, engine-facing view of a reservation.
// It is a superset of the wire record: status and modification metadata
// exist only in the cache, never in the store.
type BookingRecord struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	SeatID     string        `json:"seat_id"`
	Date       string        `json:"date"`
	Slot       TimeSlot      `json:"time_slot"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	ModifiedAt *time.Time    `json:"modified_at,omitempty"`
	ModifiedBy string        `json:"modified_by,omitempty"`
	Table      string        `json:"table_number"`
}

// Active reports whether the record still counts for conflict checks.
func (b BookingRecord) Active() bool {
	return b.Status == StatusActive
}

// RecordFromReservation maps a wire record into the engine view. Records
// dated before today load as COMPLETED so they never block availability.
func RecordFromReservation(r Reservation, today string) BookingRecord {
	status := StatusActive
	if r.Date < today {
		status = StatusCompleted
	}
	table := ""
	if r.TableID != "" {
		table = r.TableID[:1]
	}
	return BookingRecord{
		ID:        r.ReservationID,
		UserID:    r.UserID,
		SeatID:    r.TableID,
		Date:      r.Date,
		Slot:      r.SlotType,
		Status:    status,
		CreatedAt: r.CreatedAt,
		Table:     table,
	}
}

// ToReservation maps an engine record back to the wire shape.
func (b BookingRecord) ToReservation() Reservation {
	return Reservation{
		ReservationID: b.ID,
		UserID:        b.UserID,
		TableID:       b.SeatID,
		Date:          b.Date,
		SlotType:      b.Slot,
		CreatedAt:     b.CreatedAt,
	}
}

// User is a directory entry. Authentication is a bare ID lookup.
type User struct {
	UserID string `json:"user_id" db:"user_id"`
	Email  string `json:"email" db:"email"`
}

// ParseDate validates the YYYY-MM-DD date strings used throughout the API.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}
