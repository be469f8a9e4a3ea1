// Package engine implements the booking availability and conflict core:
// the in-memory booking cache, the availability resolver, the conflict
// validator and the modification batch processor.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"hotdesk/internal/logger"
	"hotdesk/internal/models"
	"hotdesk/internal/store"
)

// Clock returns "now"; injected so tests control the rolling window.
type Clock func() time.Time

// BookingCache mirrors the reservation store in memory and mediates every
// write to it. It is constructed once and passed by reference to the
// resolver, validator and batch processor - there is no package-level
// singleton. A single mutex serializes all operations, so one in-flight
// mutation at a time per cache instance is enforced by construction.
type BookingCache struct {
	mu      sync.Mutex
	store   store.Store
	clock   Clock
	records []models.BookingRecord
	version store.Version
	loaded  bool
}

func NewBookingCache(st store.Store, clock Clock) *BookingCache {
	if clock == nil {
		clock = time.Now
	}
	return &BookingCache{store: st, clock: clock}
}

func (c *BookingCache) today() string {
	return c.clock().Format("2006-01-02")
}

// EnsureLoaded performs the initial bulk load. Idempotent: concurrent
// callers serialize on the mutex and all but the first see loaded state.
// Reads never re-fetch once loaded; use ForceRefresh to invalidate.
func (c *BookingCache) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}
	return c.reloadLocked(ctx)
}

// ForceRefresh discards the cached set wholesale and reloads it.
func (c *BookingCache) ForceRefresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reloadLocked(ctx)
}

func (c *BookingCache) reloadLocked(ctx context.Context) error {
	recs, version, err := c.store.LoadAll(ctx)
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}

	today := c.today()
	records := make([]models.BookingRecord, 0, len(recs))
	for _, r := range recs {
		records = append(records, models.RecordFromReservation(r, today))
	}
	c.records = records
	c.version = version
	c.loaded = true
	return nil
}

// Add appends the record and writes it through to the store. On store
// failure the in-memory append is rolled back and the cache marked stale.
func (c *BookingCache) Add(ctx context.Context, rec models.BookingRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx); err != nil {
		return err
	}

	c.records = append(c.records, rec)

	version, err := c.store.Upsert(ctx, rec.ToReservation(), c.version)
	if err != nil {
		c.records = c.records[:len(c.records)-1]
		c.invalidateLocked(err)
		return &PersistenceError{Op: "upsert", Err: err}
	}
	c.version = version
	return nil
}

// Cancel soft-deletes the ACTIVE record with the given id, owned by
// actingUserID, and issues the store delete. The record stays in the cache
// with status CANCELLED; the store deletes it physically.
func (c *BookingCache) Cancel(ctx context.Context, bookingID, actingUserID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx); err != nil {
		return err
	}

	idx := -1
	for i := range c.records {
		if c.records[i].ID == bookingID && c.records[i].Active() && c.records[i].UserID == actingUserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &NotFoundError{BookingID: bookingID}
	}

	prev := c.records[idx]
	now := c.clock()
	c.records[idx].Status = models.StatusCancelled
	c.records[idx].ModifiedAt = &now
	c.records[idx].ModifiedBy = actingUserID

	version, err := c.store.Delete(ctx, bookingID, c.version)
	if err != nil {
		c.records[idx] = prev
		c.invalidateLocked(err)
		return &PersistenceError{Op: "delete", Err: err}
	}
	c.version = version
	return nil
}

// ensureLoadedLocked is the EnsureLoaded body for callers already holding
// the mutex.
func (c *BookingCache) ensureLoadedLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	return c.reloadLocked(ctx)
}

// invalidateLocked marks the cache stale after a failed write so the next
// read refreshes. Version conflicts mean another writer won the race.
func (c *BookingCache) invalidateLocked(cause error) {
	c.loaded = false
	if errors.Is(cause, store.ErrVersionConflict) {
		logger.Get().Warn("Booking cache stale, concurrent writer detected", "error", cause)
	}
}

// Records returns a copy of every cached record matching pred. Purely
// in-memory; never touches the store.
func (c *BookingCache) Records(pred func(models.BookingRecord) bool) []models.BookingRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []models.BookingRecord
	for _, r := range c.records {
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// ActiveBySeatDate returns ACTIVE bookings for one seat and date.
func (c *BookingCache) ActiveBySeatDate(seatID, date string) []models.BookingRecord {
	return c.Records(func(r models.BookingRecord) bool {
		return r.Active() && r.SeatID == seatID && r.Date == date
	})
}

// ActiveByUserDate returns the user's ACTIVE booking for a date, nil when
// none exists. The one-booking-per-day invariant means there is at most one.
func (c *BookingCache) ActiveByUserDate(userID, date string) *models.BookingRecord {
	recs := c.Records(func(r models.BookingRecord) bool {
		return r.Active() && r.UserID == userID && r.Date == date
	})
	if len(recs) == 0 {
		return nil
	}
	return &recs[0]
}

// ActiveByUser returns all of the user's ACTIVE bookings.
func (c *BookingCache) ActiveByUser(userID string) []models.BookingRecord {
	return c.Records(func(r models.BookingRecord) bool {
		return r.Active() && r.UserID == userID
	})
}
