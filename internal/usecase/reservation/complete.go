package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/audit"
	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/events"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/timezone"
)

type CompleteReservation struct {
	deps Deps
}

func NewCompleteReservation(d Deps) *CompleteReservation {
	return &CompleteReservation{deps: d.withDefaults()}
}

// Execute marks a confirmed reservation whose appointment has ended as
// completed. providerID scopes the lookup for provider requests; zero is
// used by background jobs.
func (uc *CompleteReservation) Execute(
	ctx context.Context,
	providerID uint,
	reservationID uint,
) (*models.Reservation, error) {

	res, err := uc.deps.Repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if providerID != 0 && res.ProviderID != providerID {
		return nil, httperr.ErrNotFound("reservation_not_found")
	}

	profile, err := uc.deps.Repo.GetProfile(ctx, res.ProviderID)
	if err != nil {
		return nil, err
	}

	if err := uc.complete(ctx, res, timezone.Location(profile.Timezone), actor(providerID)); err != nil {
		return nil, err
	}
	return res, nil
}

func (uc *CompleteReservation) complete(
	ctx context.Context,
	res *models.Reservation,
	loc *time.Location,
	actorID *uint,
) error {

	now := uc.deps.Now().In(loc)
	if now.Before(domain.EndsAt(res, loc)) {
		return httperr.ErrPolicy("appointment_not_finished")
	}

	if err := domain.Complete(res, now); err != nil {
		return err
	}
	if err := uc.deps.Repo.UpdateReservation(ctx, res); err != nil {
		return err
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ProviderID: res.ProviderID,
		ActorID:    actorID,
		Action:     "reservation_completed",
		Entity:     "reservation",
		EntityID:   &res.ID,
	})
	publish(ctx, uc.deps, events.ReservationCompleted, res.ProviderID, res)
	return nil
}

// SweepCompleted completes every confirmed reservation that has already
// ended. It backs up the per-reservation completion tasks.
type SweepCompleted struct {
	complete *CompleteReservation
}

func NewSweepCompleted(d Deps) *SweepCompleted {
	return &SweepCompleted{complete: NewCompleteReservation(d)}
}

func (uc *SweepCompleted) Execute(ctx context.Context) (int, error) {
	deps := uc.complete.deps

	// A day of slack covers providers ahead of UTC.
	until := deps.Now().UTC().AddDate(0, 0, 1)
	candidates, err := deps.Repo.ListConfirmedUntil(ctx, until)
	if err != nil {
		return 0, err
	}

	locs := map[uint]*time.Location{}
	done := 0

	for i := range candidates {
		res := &candidates[i]

		loc, ok := locs[res.ProviderID]
		if !ok {
			profile, err := deps.Repo.GetProfile(ctx, res.ProviderID)
			if err != nil {
				deps.Log.Warn("sweep: provider profile", zap.Uint("provider_id", res.ProviderID), zap.Error(err))
				continue
			}
			loc = timezone.Location(profile.Timezone)
			locs[res.ProviderID] = loc
		}

		if deps.Now().Before(domain.EndsAt(res, loc)) {
			continue
		}

		if err := uc.complete.complete(ctx, res, loc, nil); err != nil {
			deps.Log.Warn("sweep: complete", zap.Uint("reservation_id", res.ID), zap.Error(err))
			continue
		}
		done++
	}

	return done, nil
}
