package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/audit"
	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/events"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/payments"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/receipts"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
	"github.com/BruksfildServices01/beauty-booking/internal/timezone"
)

const (
	RefundNotApplicable = "not_applicable"
	RefundIssued        = "refunded"
	RefundPending       = "pending"
)

type CancelReservationInput struct {
	ReservationID uint
	ActorID       uint
	ActorRole     string
	// CancelledAt is honored for system callers only (ActorID 0). It must
	// fall between the reservation's creation and now. Customers and
	// providers always cancel at the current time.
	CancelledAt *time.Time
}

type CancelReservationResult struct {
	Reservation       *models.Reservation    `json:"reservation"`
	RefundPercentage  int                    `json:"refund_percentage"`
	RefundTier        scheduling.RefundTier  `json:"refund_tier"`
	RefundAmountCents int64                  `json:"refund_amount_cents"`
	RefundStatus      string                 `json:"refund_status"`
	Refund            *payments.RefundResult `json:"refund,omitempty"`
}

type refundRequest struct {
	ReservationID    uint   `json:"reservation_id"`
	PaymentReference string `json:"payment_reference"`
	AmountCents      int64  `json:"amount_cents"`
	Percent          int    `json:"refund_percentage"`
	Status           string `json:"status"`
}

type CancelReservation struct {
	deps Deps
}

func NewCancelReservation(d Deps) *CancelReservation {
	return &CancelReservation{deps: d.withDefaults()}
}

// Execute cancels one reservation, never the whole series, and hands the
// refund decision to the payment gateway. A failed refund does not undo the
// cancellation; it is published as pending for the payments team to retry.
func (uc *CancelReservation) Execute(
	ctx context.Context,
	in CancelReservationInput,
) (*CancelReservationResult, error) {

	res, err := uc.deps.Repo.GetReservation(ctx, in.ReservationID)
	if err != nil {
		return nil, err
	}
	if !ownedBy(res, in.ActorID, in.ActorRole) {
		return nil, httperr.ErrNotFound("reservation_not_found")
	}

	profile, err := uc.deps.Repo.GetProfile(ctx, res.ProviderID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(profile.Timezone)

	now := uc.deps.Now().In(loc)
	cancelledAt := now
	if in.CancelledAt != nil && in.ActorID == 0 {
		if in.CancelledAt.After(now) {
			return nil, httperr.ErrValidation("cancelled_at", "cancelled_at_in_future")
		}
		if in.CancelledAt.Before(res.CreatedAt) {
			return nil, httperr.ErrValidation("cancelled_at", "cancelled_at_before_booking")
		}
		cancelledAt = in.CancelledAt.In(loc)
	}

	wasPaid := domain.Status(res.Status) == domain.StatusConfirmed && res.PaymentReference != ""

	decision := scheduling.EvaluateRefund(domain.StartsAt(res, loc), cancelledAt, domain.CancellationPolicy(profile))

	if err := domain.Cancel(res, cancelledAt); err != nil {
		return nil, err
	}
	if err := uc.deps.Repo.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	invalidateDay(ctx, uc.deps, res.ProviderID, res.Date)

	out := &CancelReservationResult{
		Reservation:      res,
		RefundPercentage: decision.Percent,
		RefundTier:       decision.Tier,
		RefundStatus:     RefundNotApplicable,
	}

	if wasPaid {
		out.RefundAmountCents = scheduling.RefundAmount(res.TotalPriceCents, decision.Percent)
	}

	if out.RefundAmountCents > 0 {
		uc.refund(ctx, res, out)
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ProviderID: res.ProviderID,
		ActorID:    actor(in.ActorID),
		Action:     "reservation_cancelled",
		Entity:     "reservation",
		EntityID:   &res.ID,
		Metadata: map[string]any{
			"refund_percentage":   out.RefundPercentage,
			"refund_tier":         out.RefundTier,
			"refund_amount_cents": out.RefundAmountCents,
		},
	})
	publish(ctx, uc.deps, events.ReservationCancelled, res.ProviderID, out)

	receipt := receiptFor(res, receipts.KindCancellation, uc.deps.Now())
	receipt.RefundPercent = &out.RefundPercentage
	receipt.RefundCents = &out.RefundAmountCents
	receipt.RefundTier = string(out.RefundTier)
	if _, err := uc.deps.Receipts.Store(ctx, receipt); err != nil {
		uc.deps.Log.Warn("cancellation receipt not stored", zap.Uint("reservation_id", res.ID), zap.Error(err))
	}

	return out, nil
}

func (uc *CancelReservation) refund(ctx context.Context, res *models.Reservation, out *CancelReservationResult) {
	result, err := uc.deps.Payments.Refund(ctx, res.PaymentReference, out.RefundAmountCents)
	if err != nil {
		uc.deps.Log.Error("refund failed",
			zap.Uint("reservation_id", res.ID),
			zap.String("gateway", uc.deps.Payments.Name()),
			zap.Int64("amount_cents", out.RefundAmountCents),
			zap.Error(err),
		)
		out.RefundStatus = RefundPending
	} else {
		out.Refund = result
		out.RefundStatus = RefundIssued
	}

	publish(ctx, uc.deps, events.RefundRequested, res.ProviderID, refundRequest{
		ReservationID:    res.ID,
		PaymentReference: res.PaymentReference,
		AmountCents:      out.RefundAmountCents,
		Percent:          out.RefundPercentage,
		Status:           out.RefundStatus,
	})
}
