package engine

import (
	"context"
	"testing"
	"time"

	"hotdesk/internal/models"
	"hotdesk/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock pins "now" to Wednesday 2025-10-15 so the booking window and
// the COMPLETED cutoff are deterministic.
func fixedClock() time.Time {
	return time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
}

type fixture struct {
	store     *store.MemoryStore
	cache     *BookingCache
	resolver  *Resolver
	validator *Validator
	batch     *BatchProcessor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	layout, err := models.ParseLayout("A:8,B:8,C:8")
	require.NoError(t, err)

	st := store.NewMemoryStore()
	cache := NewBookingCache(st, fixedClock)
	validator := NewValidator(cache, layout, fixedClock, 2)

	return &fixture{
		store:     st,
		cache:     cache,
		resolver:  NewResolver(cache, layout),
		validator: validator,
		batch:     NewBatchProcessor(cache, validator),
	}
}

func (f *fixture) mustCreate(t *testing.T, userID, seatID, date string, slot models.TimeSlot) *models.BookingRecord {
	t.Helper()
	rec, err := f.validator.Create(context.Background(), userID, seatID, date, slot)
	require.NoError(t, err)
	return rec
}

func (f *fixture) storeVersion(t *testing.T) store.Version {
	t.Helper()
	_, v, err := f.store.LoadAll(context.Background())
	require.NoError(t, err)
	return v
}

func TestCacheLoadsOnceAndRefreshesOnDemand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.EnsureLoaded(ctx))
	assert.Empty(t, f.cache.Records(nil))

	// A record written behind the cache's back is invisible until refresh.
	_, err := f.store.Upsert(ctx, models.Reservation{
		ReservationID: "r1", UserID: "U001", TableID: "A1",
		Date: "2025-10-15", SlotType: models.SlotAM, CreatedAt: fixedClock(),
	}, f.storeVersion(t))
	require.NoError(t, err)

	require.NoError(t, f.cache.EnsureLoaded(ctx))
	assert.Empty(t, f.cache.Records(nil), "EnsureLoaded must not re-fetch")

	require.NoError(t, f.cache.ForceRefresh(ctx))
	assert.Len(t, f.cache.Records(nil), 1)
}

func TestCacheLoadMarksPastDatesCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Upsert(ctx, models.Reservation{
		ReservationID: "old", UserID: "U001", TableID: "A1",
		Date: "2025-10-10", SlotType: models.SlotFullDay, CreatedAt: fixedClock(),
	}, 0)
	require.NoError(t, err)

	require.NoError(t, f.cache.EnsureLoaded(ctx))
	recs := f.cache.Records(nil)
	require.Len(t, recs, 1)
	assert.Equal(t, models.StatusCompleted, recs[0].Status)
	assert.Nil(t, f.cache.ActiveByUserDate("U001", "2025-10-10"))
}

func TestCancelUnknownBookingLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustCreate(t, "U001", "A1", "2025-10-15", models.SlotAM)
	before := f.storeVersion(t)

	err := f.cache.Cancel(ctx, "no-such-id", "U001")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	assert.Equal(t, before, f.storeVersion(t), "no store write may be issued")
	assert.Len(t, f.cache.ActiveByUser("U001"), 1)
}

func TestCancelIsIdempotentViaNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := f.mustCreate(t, "U001", "A1", "2025-10-15", models.SlotAM)
	require.NoError(t, f.cache.Cancel(ctx, rec.ID, "U001"))

	before := f.storeVersion(t)
	err := f.cache.Cancel(ctx, rec.ID, "U001")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, before, f.storeVersion(t))
}

func TestCancelRejectsForeignOwner(t *testing.T) {
	f := newFixture(t)

	rec := f.mustCreate(t, "U001", "A1", "2025-10-15", models.SlotAM)

	err := f.cache.Cancel(context.Background(), rec.ID, "U002")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Len(t, f.cache.ActiveByUser("U001"), 1)
}

func TestCancelSoftDeletesWithMetadata(t *testing.T) {
	f := newFixture(t)

	rec := f.mustCreate(t, "U001", "A1", "2025-10-15", models.SlotAM)
	require.NoError(t, f.cache.Cancel(context.Background(), rec.ID, "U001"))

	recs := f.cache.Records(func(r models.BookingRecord) bool { return r.ID == rec.ID })
	require.Len(t, recs, 1, "cancelled records stay in the cache")
	assert.Equal(t, models.StatusCancelled, recs[0].Status)
	assert.Equal(t, "U001", recs[0].ModifiedBy)
	assert.NotNil(t, recs[0].ModifiedAt)

	// The store deletes physically.
	stored, _, err := f.store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestAddRollsBackOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.EnsureLoaded(ctx))

	// Move the store version out from under the cache to force a conflict.
	_, err := f.store.Upsert(ctx, models.Reservation{
		ReservationID: "racer", UserID: "U099", TableID: "C8",
		Date: "2025-10-16", SlotType: models.SlotAM, CreatedAt: fixedClock(),
	}, 0)
	require.NoError(t, err)

	addErr := f.cache.Add(ctx, models.BookingRecord{
		ID: "mine", UserID: "U001", SeatID: "A1", Date: "2025-10-15",
		Slot: models.SlotAM, Status: models.StatusActive, CreatedAt: fixedClock(), Table: "A",
	})
	var persistErr *PersistenceError
	require.ErrorAs(t, addErr, &persistErr)

	// The failed append is rolled back; the next read sees the racer's write.
	require.NoError(t, f.cache.EnsureLoaded(ctx))
	recs := f.cache.Records(nil)
	require.Len(t, recs, 1)
	assert.Equal(t, "racer", recs[0].ID)
}
