package handlers

import (
	"context"
	"time"

	"github.com/BruksfildServices01/beauty-booking/internal/dto"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/beauty-booking/internal/usecase/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/workflow"
)

// The handlers depend on these views of the use cases so the HTTP layer
// can be exercised without a database.

type reservationCreator interface {
	Execute(ctx context.Context, in reservation.CreateReservationInput) (*reservation.CreateReservationResult, error)
}

type paymentAttacher interface {
	Execute(ctx context.Context, in reservation.AttachPaymentInput) ([]models.Reservation, error)
}

type reservationCanceller interface {
	Execute(ctx context.Context, in reservation.CancelReservationInput) (*reservation.CancelReservationResult, error)
}

type reservationCompleter interface {
	Execute(ctx context.Context, providerID, reservationID uint) (*models.Reservation, error)
}

type dayLister interface {
	Execute(ctx context.Context, providerID uint, date time.Time) ([]dto.ReservationListDTO, error)
}

type monthLister interface {
	Execute(ctx context.Context, providerID uint, year int, month time.Month) ([]dto.ReservationListDTO, error)
}

type availabilityGetter interface {
	Execute(ctx context.Context, in reservation.AvailabilityInput) (*reservation.AvailabilityResult, error)
}

type busyLister interface {
	Execute(ctx context.Context, providerID uint, date string) ([]reservation.BusyInterval, error)
}

type quoter interface {
	Execute(ctx context.Context, in reservation.QuoteInput) (*reservation.QuoteResult, error)
}

type bookingFlow interface {
	Start(ctx context.Context, in booking.StartInput) (*booking.View, error)
	Get(ctx context.Context, id string, customerID uint) (*booking.View, error)
	SelectDate(ctx context.Context, id string, customerID uint, date string) (*booking.View, error)
	SelectTime(ctx context.Context, id string, customerID uint, hhmm string) (*booking.View, error)
	SubmitDetails(ctx context.Context, id string, customerID uint, d workflow.Details) (*booking.View, error)
	Back(ctx context.Context, id string, customerID uint) (*booking.View, error)
	PaymentSucceeded(ctx context.Context, id string, customerID uint, reference string) (*booking.View, error)
	PaymentFailed(ctx context.Context, id string, customerID uint, message string) (*booking.View, error)
}
