package reservation

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
	"github.com/BruksfildServices01/beauty-booking/internal/timezone"
)

// calendar is the provider context every booking decision is made in.
type calendar struct {
	profile  *models.ProviderProfile
	offering *models.ServiceOffering
	loc      *time.Location
}

func loadCalendar(
	ctx context.Context,
	repo domain.Repository,
	providerID uint,
	offeringID uint,
) (*calendar, error) {

	profile, err := repo.GetProfile(ctx, providerID)
	if err != nil {
		return nil, err
	}

	offering, err := repo.GetOffering(ctx, providerID, offeringID)
	if err != nil {
		return nil, err
	}
	if !offering.Active {
		return nil, httperr.ErrPolicy("service_offering_inactive")
	}

	return &calendar{
		profile:  profile,
		offering: offering,
		loc:      timezone.Location(profile.Timezone),
	}, nil
}

func (c *calendar) parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, httperr.ErrValidation("date", "date_required")
	}
	day, err := timezone.ParseDate(value, c.loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("date", "invalid_date")
	}
	return day, nil
}

func (c *calendar) input(day time.Time, busy []scheduling.Interval, now time.Time) scheduling.AvailabilityInput {
	return scheduling.AvailabilityInput{
		Date:         day,
		Window:       domain.Window(c.profile),
		DurationMin:  c.offering.DurationMin,
		Busy:         busy,
		Blackouts:    domain.BlackoutsOn(c.profile.Blackouts, day),
		Now:          now.In(c.loc),
		MinNotice:    domain.MinNotice(c.profile),
		MaxLookahead: domain.MaxLookahead(c.profile),
	}
}

func (c *calendar) slots() []scheduling.Clock {
	return scheduling.GenerateSlots(domain.Window(c.profile))
}
