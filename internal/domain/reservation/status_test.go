package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

func TestLifecycle(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	r := &models.Reservation{Status: string(InitialStatus())}

	assert.True(t, httperr.IsKind(Complete(r, now), httperr.KindInvalidState), "pending cannot complete")

	assert.True(t, httperr.IsKind(Confirm(r, "  "), httperr.KindValidation))
	require.NoError(t, Confirm(r, "mp-991"))
	assert.Equal(t, string(StatusConfirmed), r.Status)
	assert.Equal(t, "mp-991", r.PaymentReference)

	assert.True(t, httperr.IsKind(Confirm(r, "again"), httperr.KindInvalidState))

	require.NoError(t, Complete(r, now))
	assert.Equal(t, &now, r.CompletedAt)

	assert.True(t, httperr.IsKind(Cancel(r, now), httperr.KindInvalidState), "completed is terminal")
}

func TestCancelFromActiveStatuses(t *testing.T) {
	now := time.Now()
	for _, st := range []Status{StatusPending, StatusConfirmed} {
		r := &models.Reservation{Status: string(st)}
		require.NoError(t, Cancel(r, now))
		assert.Equal(t, string(StatusCancelled), r.Status)
		assert.NotNil(t, r.CancelledAt)

		assert.Error(t, Cancel(r, now), "cancelled is terminal")
	}
}

func TestStartsAtUsesProviderLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	r := &models.Reservation{
		Date:        time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		StartMinute: int(scheduling.ClockOf(10, 30)),
		DurationMin: 90,
	}

	start := StartsAt(r, loc)
	assert.Equal(t, 10, start.Hour())
	assert.Equal(t, 30, start.Minute())
	assert.Equal(t, 9, start.Day())
	assert.Equal(t, start.Add(90*time.Minute), EndsAt(r, loc))
	assert.Equal(t, scheduling.Interval{Start: 630, End: 720}, IntervalOf(r))
}

func TestBlackoutsOn(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	weekday := int(time.Monday)
	other := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	blackouts := []models.Blackout{
		{Weekday: &weekday, StartMinute: 720, EndMinute: 780},
		{Date: &monday, StartMinute: 0, EndMinute: 600},
		{Date: &other, StartMinute: 0, EndMinute: 1440},
	}

	got := BlackoutsOn(blackouts, monday)
	assert.ElementsMatch(t, []scheduling.Interval{
		{Start: 720, End: 780},
		{Start: 0, End: 600},
	}, got)

	assert.Len(t, BlackoutsOn(blackouts, monday.AddDate(0, 0, 7)), 1)
}

func TestProfilePolicies(t *testing.T) {
	p := &models.ProviderProfile{
		WorkStartHour:         9,
		WorkEndHour:           17,
		SlotGranularityMin:    30,
		FreeTravelRadiusMiles: 2,
		DefaultDistanceMiles:  &defaultDistance,
		TravelFeeTiers:        []models.TravelFeeTier{{UpToMiles: 10, FeeCents: 1200}},
		MinNoticeHours:        3,
		MaxLookaheadDays:      14,
		CancellationPolicy:    "moderate",
	}

	assert.Len(t, scheduling.GenerateSlots(Window(p)), 16)
	assert.Equal(t, int64(1200), scheduling.TravelFee(TravelPolicy(p), nil))
	assert.Equal(t, 48, CancellationPolicy(p).NoticeHours)
	assert.Equal(t, 3*time.Hour, MinNotice(p))
	assert.Equal(t, 14*24*time.Hour, MaxLookahead(p))
}

var defaultDistance = 5.0

func TestProfileZeroOverrides(t *testing.T) {
	zero := 0
	fresh := models.NewProviderProfile(7, "America/Chicago")
	assert.Equal(t, 9, fresh.WorkStartHour)
	assert.Equal(t, "flexible", fresh.CancellationPolicy)
	assert.Nil(t, fresh.LateFeePercent)

	policy := CancellationPolicy(&fresh)
	assert.Equal(t, 24, policy.NoticeHours)
	assert.Equal(t, 50, policy.LateFeePercent)

	fresh.LateFeePercent = &zero
	assert.Equal(t, 0, CancellationPolicy(&fresh).LateFeePercent)

	assert.Equal(t, int64(0), scheduling.TravelFee(TravelPolicy(&fresh), nil), "no tiers and no per-mile fee")

	fresh.FreeTravelRadiusMiles = 1
	fresh.PerMileFeeCents = 100
	assert.Equal(t, int64(400), scheduling.TravelFee(TravelPolicy(&fresh), nil), "nil stand-in uses 5 miles")
	fresh.DefaultDistanceMiles = new(float64)
	assert.Equal(t, int64(0), scheduling.TravelFee(TravelPolicy(&fresh), nil))
}
