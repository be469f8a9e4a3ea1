package engine

import (
	"context"
	"errors"
	"sort"

	"hotdesk/internal/logger"
	"hotdesk/internal/models"
)

// BatchProcessor applies per-seat, per-date booking intents submitted
// together from the map UI's save action. Booking a seat for a day
// implicitly releases any other seat the user holds that day.
//
// Entries run strictly sequentially against the shared cache; there is no
// concurrent application and no rollback of prior pairs when a later pair
// fails. Failures are collected per (seat, date) pair.
type BatchProcessor struct {
	cache     *BookingCache
	validator *Validator
}

func NewBatchProcessor(cache *BookingCache, validator *Validator) *BatchProcessor {
	return &BatchProcessor{cache: cache, validator: validator}
}

// BatchResult reports what a batch actually did.
type BatchResult struct {
	Applied  []models.BatchOperation
	Failures []models.BatchFailure
}

// Apply processes the intents seat-by-seat, date-by-date. Keys are sorted
// for deterministic processing; callers must not rely on any particular
// order.
func (p *BatchProcessor) Apply(ctx context.Context, userID string, intents map[string]map[string]bool) (*BatchResult, error) {
	if err := p.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	result := &BatchResult{}

	seatIDs := make([]string, 0, len(intents))
	for seatID := range intents {
		seatIDs = append(seatIDs, seatID)
	}
	sort.Strings(seatIDs)

	for _, seatID := range seatIDs {
		dates := make([]string, 0, len(intents[seatID]))
		for date := range intents[seatID] {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		for _, date := range dates {
			if intents[seatID][date] {
				p.book(ctx, userID, seatID, date, result)
			} else {
				p.unbook(ctx, userID, seatID, date, result)
			}
		}
	}

	return result, nil
}

// book realizes a shouldBook=true intent: release the user's booking on any
// other seat for the date, then create a FULL_DAY booking on this seat
// unless one already exists.
func (p *BatchProcessor) book(ctx context.Context, userID, seatID, date string, result *BatchResult) {
	// Re-read current state: earlier pairs in this batch may have moved it.
	if existing := p.cache.ActiveByUserDate(userID, date); existing != nil {
		if existing.SeatID == seatID {
			return // already booked here, nothing to do
		}
		// Intentional self-conflict resolution, not a rule violation.
		if err := p.cache.Cancel(ctx, existing.ID, userID); err != nil {
			p.fail(seatID, date, err, result)
			return
		}
		result.Applied = append(result.Applied, models.BatchOperation{
			Action: "cancel", SeatID: existing.SeatID, Date: date,
		})
	}

	if _, err := p.validator.Create(ctx, userID, seatID, date, models.SlotFullDay); err != nil {
		p.fail(seatID, date, err, result)
		return
	}
	result.Applied = append(result.Applied, models.BatchOperation{
		Action: "create", SeatID: seatID, Date: date,
	})
}

// unbook realizes a shouldBook=false intent: cancel the user's ACTIVE
// booking on this seat and date. An absent booking is a no-op, not an
// error - the desired state already holds.
func (p *BatchProcessor) unbook(ctx context.Context, userID, seatID, date string, result *BatchResult) {
	recs := p.cache.Records(func(r models.BookingRecord) bool {
		return r.Active() && r.SeatID == seatID && r.Date == date && r.UserID == userID
	})
	if len(recs) == 0 {
		return
	}

	if err := p.cache.Cancel(ctx, recs[0].ID, userID); err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return
		}
		p.fail(seatID, date, err, result)
		return
	}
	result.Applied = append(result.Applied, models.BatchOperation{
		Action: "cancel", SeatID: seatID, Date: date,
	})
}

func (p *BatchProcessor) fail(seatID, date string, err error, result *BatchResult) {
	logger.Get().Warn("Batch pair failed", "seat_id", seatID, "date", date, "error", err)
	result.Failures = append(result.Failures, models.BatchFailure{
		SeatID: seatID,
		Date:   date,
		Error:  err.Error(),
	})
}
