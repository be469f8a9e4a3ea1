package engine

import (
	"context"
	"testing"

	"hotdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchBookCreatesFullDay(t *testing.T) {
	f := newFixture(t)

	result, err := f.batch.Apply(context.Background(), "U001", map[string]map[string]bool{
		"A1": {"2025-10-15": true},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Applied, 1)
	assert.Equal(t, models.BatchOperation{Action: "create", SeatID: "A1", Date: "2025-10-15"}, result.Applied[0])

	rec := f.cache.ActiveByUserDate("U001", "2025-10-15")
	require.NotNil(t, rec)
	assert.Equal(t, models.SlotFullDay, rec.Slot)
}

func TestBatchImplicitReleaseMovesSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// U001 already holds B2 full-day for the 16th.
	f.mustCreate(t, "U001", "B2", "2025-10-16", models.SlotFullDay)

	result, err := f.batch.Apply(ctx, "U001", map[string]map[string]bool{
		"A1": {"2025-10-16": true},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	assert.Equal(t, []models.BatchOperation{
		{Action: "cancel", SeatID: "B2", Date: "2025-10-16"},
		{Action: "create", SeatID: "A1", Date: "2025-10-16"},
	}, result.Applied)

	active := f.cache.ActiveByUser("U001")
	require.Len(t, active, 1, "exactly one active booking after the move")
	assert.Equal(t, "A1", active[0].SeatID)
	assert.Equal(t, "2025-10-16", active[0].Date)
}

func TestBatchBookIsIdempotentOnOwnSeat(t *testing.T) {
	f := newFixture(t)

	f.mustCreate(t, "U001", "A1", "2025-10-15", models.SlotFullDay)

	result, err := f.batch.Apply(context.Background(), "U001", map[string]map[string]bool{
		"A1": {"2025-10-15": true},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Empty(t, result.Failures)
	assert.Len(t, f.cache.ActiveByUser("U001"), 1)
}

func TestBatchRoundTripRestoresAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := openSlots(t, f, "A1", "2025-10-15")

	_, err := f.batch.Apply(ctx, "U001", map[string]map[string]bool{"A1": {"2025-10-15": true}})
	require.NoError(t, err)
	assert.Empty(t, openSlots(t, f, "A1", "2025-10-15"))

	_, err = f.batch.Apply(ctx, "U001", map[string]map[string]bool{"A1": {"2025-10-15": false}})
	require.NoError(t, err)

	assert.Nil(t, f.cache.ActiveByUserDate("U001", "2025-10-15"))
	assert.Equal(t, before, openSlots(t, f, "A1", "2025-10-15"))
}

func TestBatchUnbookAbsentBookingIsNoOp(t *testing.T) {
	f := newFixture(t)

	result, err := f.batch.Apply(context.Background(), "U001", map[string]map[string]bool{
		"A1": {"2025-10-15": false},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Empty(t, result.Failures)
}

func TestBatchPartialFailureContinues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A2 is fully taken by someone else; the batch pair for it must fail
	// without aborting the rest of the batch.
	f.mustCreate(t, "U099", "A2", "2025-10-15", models.SlotFullDay)

	result, err := f.batch.Apply(ctx, "U001", map[string]map[string]bool{
		"A2": {"2025-10-15": true},
		"A3": {"2025-10-16": true},
	})
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "A2", result.Failures[0].SeatID)
	assert.Contains(t, result.Failures[0].Error, "already booked")

	require.Len(t, result.Applied, 1)
	assert.Equal(t, "A3", result.Applied[0].SeatID)

	// No rollback of prior successes is attempted.
	assert.NotNil(t, f.cache.ActiveByUserDate("U001", "2025-10-16"))
}

func TestBatchMultipleDatesPerSeat(t *testing.T) {
	f := newFixture(t)

	result, err := f.batch.Apply(context.Background(), "U001", map[string]map[string]bool{
		"A1": {"2025-10-15": true, "2025-10-16": true, "2025-10-17": true},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	assert.Len(t, result.Applied, 3)
	assert.Len(t, f.cache.ActiveByUser("U001"), 3)
}
