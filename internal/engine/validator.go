package engine

import (
	"context"
	"fmt"
	"time"

	"hotdesk/internal/models"
	"hotdesk/internal/schedule"

	"github.com/google/uuid"
)

// Validator decides whether a proposed booking may be created, and creates
// it through the cache when it may. Checks run in order; the first failure
// wins.
type Validator struct {
	cache       *BookingCache
	layout      *models.Layout
	clock       Clock
	windowWeeks int
}

func NewValidator(cache *BookingCache, layout *models.Layout, clock Clock, windowWeeks int) *Validator {
	if clock == nil {
		clock = time.Now
	}
	return &Validator{cache: cache, layout: layout, clock: clock, windowWeeks: windowWeeks}
}

// Validate runs the conflict checks for (userID, seatID, date, slot)
// without mutating anything.
func (v *Validator) Validate(ctx context.Context, userID, seatID, date string, slot models.TimeSlot) error {
	if err := v.cache.EnsureLoaded(ctx); err != nil {
		return err
	}
	return v.validateLoaded(userID, seatID, date, slot)
}

func (v *Validator) validateLoaded(userID, seatID, date string, slot models.TimeSlot) error {
	// Double-booking-per-day rule: one seat per user per day, any seat.
	if existing := v.cache.ActiveByUserDate(userID, date); existing != nil {
		return &UserAlreadyBookedError{UserID: userID, SeatID: existing.SeatID, Date: date}
	}

	// Seat/timeslot exclusivity.
	for _, rec := range v.cache.ActiveBySeatDate(seatID, date) {
		if rec.Slot.Overlaps(slot) {
			return &SeatConflictError{SeatID: seatID, Date: date, Slot: rec.Slot}
		}
	}

	return nil
}

// CheckRequest rejects malformed or out-of-window requests before the
// conflict checks run. Validator rejections are values, never panics.
func (v *Validator) CheckRequest(seatID, date string, slot models.TimeSlot) error {
	if !slot.Valid() {
		return &InvalidDateError{Date: date, Reason: fmt.Sprintf("unknown time slot %q", slot)}
	}
	if !v.layout.Contains(seatID) {
		return &SeatConflictError{SeatID: seatID, Date: date, Slot: slot}
	}
	if _, err := models.ParseDate(date); err != nil {
		return &InvalidDateError{Date: date, Reason: "expected YYYY-MM-DD"}
	}
	if !schedule.Contains(v.clock(), v.windowWeeks, date) {
		return &InvalidDateError{Date: date, Reason: "outside the booking window"}
	}
	return nil
}

// Create validates the proposed booking and, on acceptance, builds the
// record and adds it to the cache (which writes through to the store).
func (v *Validator) Create(ctx context.Context, userID, seatID, date string, slot models.TimeSlot) (*models.BookingRecord, error) {
	if err := v.CheckRequest(seatID, date, slot); err != nil {
		return nil, err
	}
	if err := v.Validate(ctx, userID, seatID, date, slot); err != nil {
		return nil, err
	}

	rec := models.BookingRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		SeatID:    seatID,
		Date:      date,
		Slot:      slot,
		Status:    models.StatusActive,
		CreatedAt: v.clock(),
		Table:     seatID[:1],
	}
	if err := v.cache.Add(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
