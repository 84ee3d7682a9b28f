package reservation

import (
	"context"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/timezone"
)

// BusyInterval is what other booking clients need to know about an active
// reservation.
type BusyInterval struct {
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ListBusyIntervals struct {
	deps Deps
}

func NewListBusyIntervals(d Deps) *ListBusyIntervals {
	return &ListBusyIntervals{deps: d.withDefaults()}
}

func (uc *ListBusyIntervals) Execute(
	ctx context.Context,
	providerID uint,
	date string,
) ([]BusyInterval, error) {

	profile, err := uc.deps.Repo.GetProfile(ctx, providerID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(date, timezone.Location(profile.Timezone))
	if err != nil {
		return nil, httperr.ErrValidation("date", "invalid_date")
	}

	busy, err := busyIntervals(ctx, uc.deps, providerID, day)
	if err != nil {
		return nil, err
	}

	out := make([]BusyInterval, 0, len(busy))
	for _, b := range busy {
		out = append(out, BusyInterval{StartTime: b.Start.String(), DurationMinutes: b.Duration()})
	}
	return out, nil
}
