package service

import (
	"context"
	"sort"
	"time"

	"hotdesk/internal/cache"
	"hotdesk/internal/engine"
	"hotdesk/internal/logger"
	"hotdesk/internal/messaging"
	"hotdesk/internal/models"
)

type BookingService struct {
	cache        *engine.BookingCache
	validator    *engine.Validator
	batch        *engine.BatchProcessor
	natsClient   *messaging.NATSClient
	valkeyClient *cache.ValkeyClient
}

func NewBookingService(bookingCache *engine.BookingCache, validator *engine.Validator, batch *engine.BatchProcessor, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient) *BookingService {
	return &BookingService{
		cache:        bookingCache,
		validator:    validator,
		batch:        batch,
		natsClient:   natsClient,
		valkeyClient: valkeyClient,
	}
}

func (s *BookingService) Create(ctx context.Context, userID string, req *models.CreateBookingRequest) (*models.BookingRecord, error) {
	rec, err := s.validator.Create(ctx, userID, req.SeatID, req.Date, req.TimeSlot)
	if err != nil {
		return nil, err
	}

	s.invalidateDates(ctx, rec.Date)

	event := models.BookingCreatedEvent{
		BookingID: rec.ID,
		UserID:    rec.UserID,
		SeatID:    rec.SeatID,
		Date:      rec.Date,
		TimeSlot:  rec.Slot,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventBookingCreated, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish booking created event",
			"error", err,
			"booking_id", rec.ID,
			"event_type", models.EventBookingCreated)
	}

	return rec, nil
}

func (s *BookingService) List(ctx context.Context, userID string) ([]models.BookingRecord, error) {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	bookings := s.cache.ActiveByUser(userID)
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date < bookings[j].Date
		}
		return bookings[i].SeatID < bookings[j].SeatID
	})
	return bookings, nil
}

func (s *BookingService) Cancel(ctx context.Context, userID string, req *models.CancelBookingRequest) error {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return err
	}

	// Capture the record before the cancel flips it, for the event payload.
	target := s.cache.Records(func(r models.BookingRecord) bool {
		return r.ID == req.BookingID
	})

	if err := s.cache.Cancel(ctx, req.BookingID, userID); err != nil {
		return err
	}

	event := models.BookingCancelledEvent{
		BookingID: req.BookingID,
		UserID:    userID,
		Reason:    "User cancellation",
		Timestamp: time.Now(),
	}
	if len(target) > 0 {
		event.SeatID = target[0].SeatID
		event.Date = target[0].Date
		s.invalidateDates(ctx, target[0].Date)
	}

	if err := s.natsClient.Publish(models.EventBookingCancelled, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish booking cancelled event",
			"error", err,
			"booking_id", req.BookingID,
			"event_type", models.EventBookingCancelled)
	}

	return nil
}

func (s *BookingService) ApplyBatch(ctx context.Context, userID string, req *models.BatchUpdateRequest) (*models.BatchUpdateResponse, error) {
	result, err := s.batch.Apply(ctx, userID, req.Modifications)
	if err != nil {
		return nil, err
	}

	dates := map[string]bool{}
	for _, op := range result.Applied {
		dates[op.Date] = true
	}
	touched := make([]string, 0, len(dates))
	for d := range dates {
		touched = append(touched, d)
	}
	sort.Strings(touched)
	s.invalidateDates(ctx, touched...)

	event := models.BatchAppliedEvent{
		UserID:    userID,
		Applied:   len(result.Applied),
		Failed:    len(result.Failures),
		Dates:     touched,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventBatchApplied, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish batch applied event",
			"error", err,
			"user_id", userID,
			"event_type", models.EventBatchApplied)
	}

	return &models.BatchUpdateResponse{
		Applied:  result.Applied,
		Failures: result.Failures,
	}, nil
}

func (s *BookingService) invalidateDates(ctx context.Context, dates ...string) {
	if s.valkeyClient == nil || len(dates) == 0 {
		return
	}
	s.valkeyClient.InvalidateSeatMap(ctx, dates...)
}
