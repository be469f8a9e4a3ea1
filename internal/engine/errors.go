package engine

import (
	"errors"
	"fmt"

	"hotdesk/internal/models"
)

// UserAlreadyBookedError - user already holds a seat for the day.
// Recoverable inside a modification batch via the implicit release path;
// surfaced to the user otherwise.
type UserAlreadyBookedError struct {
	UserID string
	SeatID string
	Date   string
}

func (e *UserAlreadyBookedError) Error() string {
	return fmt.Sprintf("you already have a booking on seat %s for %s", e.SeatID, e.Date)
}

// SeatConflictError - seat/timeslot already taken. Never auto-retried.
type SeatConflictError struct {
	SeatID string
	Date   string
	Slot   models.TimeSlot
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("Seat %s is already booked for %s (%s)", e.SeatID, e.Date, e.Slot)
}

// NotFoundError - cancel target missing or not owned by the caller.
type NotFoundError struct {
	BookingID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %s not found", e.BookingID)
}

// PersistenceError - store read/write failed; the cache is left as the
// best-effort pre-failure snapshot.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// InvalidDateError - requested date is malformed, a weekend, or outside the
// rolling booking window.
type InvalidDateError struct {
	Date   string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("date %s is not bookable: %s", e.Date, e.Reason)
}

// ConfigurationError - required external data missing at boot. Fatal for
// the session.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Detail)
}

// IsConflict reports whether err is one of the validator rejections that
// should surface to the user as a 409.
func IsConflict(err error) bool {
	var userErr *UserAlreadyBookedError
	var seatErr *SeatConflictError
	return errors.As(err, &userErr) || errors.As(err, &seatErr)
}
