package reservation

import (
	"context"

	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

type AvailabilityInput struct {
	ProviderID        uint
	ServiceOfferingID uint
	Date              string
	OnlyAvailable     bool
}

type AvailabilityResult struct {
	Date        string                        `json:"date"`
	Timezone    string                        `json:"timezone"`
	DurationMin int                           `json:"duration_min"`
	Slots       []scheduling.SlotAvailability `json:"slots"`
}

type GetAvailability struct {
	deps Deps
}

func NewGetAvailability(d Deps) *GetAvailability {
	return &GetAvailability{deps: d.withDefaults()}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityResult, error) {

	cal, err := loadCalendar(ctx, uc.deps.Repo, in.ProviderID, in.ServiceOfferingID)
	if err != nil {
		return nil, err
	}

	day, err := cal.parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	busy, err := busyIntervals(ctx, uc.deps, in.ProviderID, day)
	if err != nil {
		return nil, err
	}

	slots := scheduling.FilterAvailability(cal.input(day, busy, uc.deps.Now()), cal.slots())
	if in.OnlyAvailable {
		slots = scheduling.AvailableOnly(slots)
	}

	return &AvailabilityResult{
		Date:        day.Format("2006-01-02"),
		Timezone:    cal.loc.String(),
		DurationMin: cal.offering.DurationMin,
		Slots:       slots,
	}, nil
}
