package reservation

import (
	"context"

	"github.com/BruksfildServices01/beauty-booking/internal/audit"
	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/events"
)

// ReleaseHold cancels unpaid reservations after a failed payment so the
// customer can book the same slot again. Nothing was charged, so no refund
// is evaluated.
type ReleaseHold struct {
	deps Deps
}

func NewReleaseHold(d Deps) *ReleaseHold {
	return &ReleaseHold{deps: d.withDefaults()}
}

func (uc *ReleaseHold) Execute(ctx context.Context, reservationIDs []uint) error {
	now := uc.deps.Now()

	for _, id := range reservationIDs {
		res, err := uc.deps.Repo.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if domain.Status(res.Status) != domain.StatusPending {
			continue
		}

		if err := domain.Cancel(res, now); err != nil {
			return err
		}
		if err := uc.deps.Repo.UpdateReservation(ctx, res); err != nil {
			return err
		}

		invalidateDay(ctx, uc.deps, res.ProviderID, res.Date)

		uc.deps.Audit.Dispatch(audit.Event{
			ProviderID: res.ProviderID,
			ActorID:    actor(res.CustomerID),
			Action:     "reservation_hold_released",
			Entity:     "reservation",
			EntityID:   &res.ID,
		})
		publish(ctx, uc.deps, events.ReservationCancelled, res.ProviderID, map[string]any{
			"reservation":       res,
			"refund_percentage": 0,
			"reason":            "payment_failed",
		})
	}
	return nil
}
