package reservation

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(r *models.Reservation, paymentReference string) error {
	if err := CanConfirm(Status(r.Status)); err != nil {
		return err
	}

	paymentReference = strings.TrimSpace(paymentReference)
	if paymentReference == "" {
		return httperr.ErrValidation("payment_reference", "payment_reference_required")
	}

	r.Status = string(StatusConfirmed)
	r.PaymentReference = paymentReference
	return nil
}

func Cancel(r *models.Reservation, now time.Time) error {
	if err := CanCancel(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusCancelled)
	r.CancelledAt = &now
	return nil
}

func Complete(r *models.Reservation, now time.Time) error {
	if err := CanComplete(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusCompleted)
	r.CompletedAt = &now
	return nil
}

// ===============================
// Calendar helpers
// ===============================

func IntervalOf(r *models.Reservation) scheduling.Interval {
	return scheduling.NewInterval(scheduling.Clock(r.StartMinute), r.DurationMin)
}

// StartsAt places the reservation on the provider's clock.
func StartsAt(r *models.Reservation, loc *time.Location) time.Time {
	y, m, d := r.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return scheduling.Clock(r.StartMinute).On(day)
}

func EndsAt(r *models.Reservation, loc *time.Location) time.Time {
	return StartsAt(r, loc).Add(time.Duration(r.DurationMin) * time.Minute)
}
