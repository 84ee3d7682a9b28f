package reservation

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/audit"
	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/events"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/timezone"
)

type AttachPaymentInput struct {
	ReservationID    uint
	PaymentReference string
	// IncludeSeries confirms every pending occurrence of the reservation's
	// series with the same payment.
	IncludeSeries bool
	ActorID       uint
	ActorRole     string
}

type AttachPayment struct {
	deps Deps
}

func NewAttachPayment(d Deps) *AttachPayment {
	return &AttachPayment{deps: d.withDefaults()}
}

// Execute verifies the payment with the gateway and moves the reservations
// from pending to confirmed. Gateway failures come back as payment errors
// with the collaborator's message.
func (uc *AttachPayment) Execute(
	ctx context.Context,
	in AttachPaymentInput,
) ([]models.Reservation, error) {

	res, err := uc.deps.Repo.GetReservation(ctx, in.ReservationID)
	if err != nil {
		return nil, err
	}
	if !ownedBy(res, in.ActorID, in.ActorRole) {
		return nil, httperr.ErrNotFound("reservation_not_found")
	}
	if err := domain.CanConfirm(domain.Status(res.Status)); err != nil {
		return nil, err
	}

	targets := []models.Reservation{*res}
	if in.IncludeSeries && res.SeriesID != nil {
		all, err := uc.deps.Repo.ListBySeries(ctx, *res.SeriesID)
		if err != nil {
			return nil, err
		}
		targets = targets[:0]
		for _, r := range all {
			if domain.Status(r.Status) == domain.StatusPending {
				targets = append(targets, r)
			}
		}
	}

	var expected int64
	for _, r := range targets {
		expected += r.TotalPriceCents
	}

	if err := uc.deps.Payments.Verify(ctx, in.PaymentReference, expected); err != nil {
		uc.deps.Log.Info("payment verification failed",
			zap.Uint("reservation_id", res.ID),
			zap.String("gateway", uc.deps.Payments.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	profile, err := uc.deps.Repo.GetProfile(ctx, res.ProviderID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(profile.Timezone)

	confirmed := make([]models.Reservation, 0, len(targets))
	for i := range targets {
		r := &targets[i]
		if err := domain.Confirm(r, in.PaymentReference); err != nil {
			return nil, err
		}
		if err := uc.deps.Repo.UpdateReservation(ctx, r); err != nil {
			return nil, err
		}

		invalidateDay(ctx, uc.deps, r.ProviderID, r.Date)

		if err := uc.deps.Scheduler.ScheduleCompletion(ctx, r.ID, domain.EndsAt(r, loc)); err != nil {
			uc.deps.Log.Warn("completion not scheduled", zap.Uint("reservation_id", r.ID), zap.Error(err))
		}

		uc.deps.Audit.Dispatch(audit.Event{
			ProviderID: r.ProviderID,
			ActorID:    actor(in.ActorID),
			Action:     "reservation_confirmed",
			Entity:     "reservation",
			EntityID:   &r.ID,
			Metadata:   map[string]any{"payment_reference": r.PaymentReference},
		})
		publish(ctx, uc.deps, events.ReservationConfirmed, r.ProviderID, r)

		confirmed = append(confirmed, *r)
	}

	return confirmed, nil
}
