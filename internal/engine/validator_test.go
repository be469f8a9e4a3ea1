package engine

import (
	"context"
	"testing"

	"hotdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatConflictSameSlotRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustCreate(t, "U001", "A1", "2025-10-15", models.SlotAM)

	_, err := f.validator.Create(ctx, "U002", "A1", "2025-10-15", models.SlotAM)
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Seat A1 is already booked for 2025-10-15 (AM)", err.Error())

	// The other half of the day is still open to U002.
	rec, err := f.validator.Create(ctx, "U002", "A1", "2025-10-15", models.SlotPM)
	require.NoError(t, err)
	assert.Equal(t, models.SlotPM, rec.Slot)
}

func TestFullDayConflictsWithAnyHalf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustCreate(t, "U001", "A1", "2025-10-15", models.SlotPM)

	_, err := f.validator.Create(ctx, "U002", "A1", "2025-10-15", models.SlotFullDay)
	var conflict *SeatConflictError
	assert.ErrorAs(t, err, &conflict)

	f.mustCreate(t, "U003", "A2", "2025-10-15", models.SlotFullDay)
	_, err = f.validator.Create(ctx, "U004", "A2", "2025-10-15", models.SlotAM)
	assert.ErrorAs(t, err, &conflict)
}

func TestUserPerDayRuleCheckedFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustCreate(t, "U001", "A1", "2025-10-15", models.SlotAM)
	// A1/AM is also taken, but the user-per-day rule wins the ordering.
	_, err := f.validator.Create(ctx, "U001", "A1", "2025-10-15", models.SlotAM)
	var already *UserAlreadyBookedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, "A1", already.SeatID)

	// Same user, different seat, same day: still the per-day rule.
	_, err = f.validator.Create(ctx, "U001", "B5", "2025-10-15", models.SlotPM)
	assert.ErrorAs(t, err, &already)
}

func TestUserPerDayInvariantHolds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dates := []string{"2025-10-15", "2025-10-16", "2025-10-17"}
	f.mustCreate(t, "U001", "A1", dates[0], models.SlotFullDay)
	f.mustCreate(t, "U001", "B1", dates[1], models.SlotAM)
	_, _ = f.validator.Create(ctx, "U001", "C1", dates[0], models.SlotPM) // rejected

	byDate := map[string]int{}
	for _, rec := range f.cache.ActiveByUser("U001") {
		byDate[rec.Date]++
	}
	for date, n := range byDate {
		assert.LessOrEqual(t, n, 1, "more than one active booking on %s", date)
	}
}

func TestCheckRequestRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var invalidDate *InvalidDateError

	_, err := f.validator.Create(ctx, "U001", "A1", "15/10/2025", models.SlotAM)
	assert.ErrorAs(t, err, &invalidDate)

	_, err = f.validator.Create(ctx, "U001", "A1", "2025-10-18", models.SlotAM) // Saturday
	assert.ErrorAs(t, err, &invalidDate)

	_, err = f.validator.Create(ctx, "U001", "A1", "2026-03-02", models.SlotAM) // beyond window
	assert.ErrorAs(t, err, &invalidDate)

	_, err = f.validator.Create(ctx, "U001", "A1", "2025-10-15", models.TimeSlot("EVENING"))
	assert.ErrorAs(t, err, &invalidDate)

	var conflict *SeatConflictError
	_, err = f.validator.Create(ctx, "U001", "Z9", "2025-10-15", models.SlotAM) // not in layout
	assert.ErrorAs(t, err, &conflict)
}

func TestConflictErrorsAreValuesNotPanics(t *testing.T) {
	f := newFixture(t)

	f.mustCreate(t, "U001", "A1", "2025-10-15", models.SlotAM)

	err := f.validator.Validate(context.Background(), "U002", "A1", "2025-10-15", models.SlotAM)
	assert.True(t, IsConflict(err))

	err = f.validator.Validate(context.Background(), "U002", "A2", "2025-10-15", models.SlotAM)
	assert.NoError(t, err)
	assert.False(t, IsConflict(err))
}
