package engine

import (
	"context"

	"hotdesk/internal/models"
)

// Resolver computes seat and timeslot availability from the booking cache.
type Resolver struct {
	cache  *BookingCache
	layout *models.Layout
}

func NewResolver(cache *BookingCache, layout *models.Layout) *Resolver {
	return &Resolver{cache: cache, layout: layout}
}

// OpenTimeslots returns the still-open slots for a seat and date. The
// result is always one of four sets: nothing, {PM}, {AM}, or
// {AM, PM, FULL_DAY}. FULL_DAY is only offered when the seat has no
// bookings at all for the date.
func (r *Resolver) OpenTimeslots(ctx context.Context, seatID, date string) ([]models.TimeSlot, error) {
	if err := r.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return r.openTimeslots(seatID, date), nil
}

func (r *Resolver) openTimeslots(seatID, date string) []models.TimeSlot {
	amTaken, pmTaken := false, false
	for _, rec := range r.cache.ActiveBySeatDate(seatID, date) {
		switch rec.Slot {
		case models.SlotFullDay:
			return nil
		case models.SlotAM:
			amTaken = true
		case models.SlotPM:
			pmTaken = true
		}
	}

	switch {
	case amTaken && pmTaken:
		return nil
	case amTaken:
		return []models.TimeSlot{models.SlotPM}
	case pmTaken:
		return []models.TimeSlot{models.SlotAM}
	default:
		return []models.TimeSlot{models.SlotAM, models.SlotPM, models.SlotFullDay}
	}
}

// SeatAvailability describes one seat on the map for a given date.
type SeatAvailability struct {
	SeatID    string
	Table     string
	OpenSlots []models.TimeSlot
	OwnedByMe bool
}

// Bookable reports whether the seat should be clickable for the querying
// user: some slot is open, or the user already holds a booking there and
// needs to manage it.
func (s SeatAvailability) Bookable() bool {
	return len(s.OpenSlots) > 0 || s.OwnedByMe
}

// AvailableSeats computes the map state of every seat in the layout for a
// date, from the perspective of userID.
func (r *Resolver) AvailableSeats(ctx context.Context, date, userID string) ([]SeatAvailability, error) {
	if err := r.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	seats := r.layout.SeatIDs()
	out := make([]SeatAvailability, 0, len(seats))
	for _, seatID := range seats {
		ownedByMe := false
		for _, rec := range r.cache.ActiveBySeatDate(seatID, date) {
			if rec.UserID == userID {
				ownedByMe = true
				break
			}
		}
		out = append(out, SeatAvailability{
			SeatID:    seatID,
			Table:     seatID[:1],
			OpenSlots: r.openTimeslots(seatID, date),
			OwnedByMe: ownedByMe,
		})
	}
	return out, nil
}
