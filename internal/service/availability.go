package service

import (
	"context"

	"hotdesk/internal/cache"
	"hotdesk/internal/engine"
	"hotdesk/internal/logger"
	"hotdesk/internal/models"
	"hotdesk/internal/schedule"
)

type AvailabilityService struct {
	resolver     *engine.Resolver
	valkeyClient *cache.ValkeyClient
	clock        engine.Clock
	windowWeeks  int
}

func NewAvailabilityService(resolver *engine.Resolver, valkeyClient *cache.ValkeyClient, clock engine.Clock, windowWeeks int) *AvailabilityService {
	return &AvailabilityService{
		resolver:     resolver,
		valkeyClient: valkeyClient,
		clock:        clock,
		windowWeeks:  windowWeeks,
	}
}

// Schedule returns the rolling weekday booking window.
func (s *AvailabilityService) Schedule() *models.ScheduleResponse {
	return &models.ScheduleResponse{Days: schedule.Window(s.clock(), s.windowWeeks)}
}

// SeatsRaw returns the cached seat-map JSON for (date, user) when present.
func (s *AvailabilityService) SeatsRaw(ctx context.Context, date, userID string) ([]byte, bool) {
	if s.valkeyClient == nil {
		return nil, false
	}
	raw, err := s.valkeyClient.GetSeatMapRaw(ctx, date, userID)
	if err != nil {
		return nil, false
	}
	return raw, true
}

// Seats computes the seat map for a date from the engine and stores it in
// the Valkey tier for subsequent requests.
func (s *AvailabilityService) Seats(ctx context.Context, date, userID string) (*models.ListSeatsResponse, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, &engine.InvalidDateError{Date: date, Reason: "expected YYYY-MM-DD"}
	}

	seats, err := s.resolver.AvailableSeats(ctx, date, userID)
	if err != nil {
		return nil, err
	}

	resp := &models.ListSeatsResponse{Date: date, Seats: make([]models.SeatAvailabilityItem, len(seats))}
	for i, seat := range seats {
		resp.Seats[i] = models.SeatAvailabilityItem{
			SeatID:    seat.SeatID,
			Table:     seat.Table,
			OpenSlots: seat.OpenSlots,
			Bookable:  seat.Bookable(),
			OwnedByMe: seat.OwnedByMe,
		}
	}

	if s.valkeyClient != nil {
		s.valkeyClient.SetSeatMap(ctx, date, userID, resp)
		logger.WithContext(ctx).Debug("Seat map cached", "date", date)
	}

	return resp, nil
}

// Timeslots returns the open slots for one seat and date.
func (s *AvailabilityService) Timeslots(ctx context.Context, seatID, date string) (*models.TimeslotsResponse, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, &engine.InvalidDateError{Date: date, Reason: "expected YYYY-MM-DD"}
	}

	slots, err := s.resolver.OpenTimeslots(ctx, seatID, date)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []models.TimeSlot{}
	}
	return &models.TimeslotsResponse{SeatID: seatID, Date: date, OpenSlots: slots}, nil
}
