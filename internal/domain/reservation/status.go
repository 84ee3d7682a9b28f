package reservation

import "github.com/BruksfildServices01/beauty-booking/internal/httperr"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ActiveStatuses are the statuses that occupy the provider's calendar.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Validations
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrInvalidState("reservation_not_pending")
	}
	return nil
}

func CanCancel(current Status) error {
	if !current.IsActive() {
		return httperr.ErrInvalidState("reservation_not_cancellable")
	}
	return nil
}

// CanComplete only accepts paid reservations.
func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrInvalidState("reservation_not_confirmed")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
