package reservation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/beauty-booking/internal/models"
)

type Repository interface {
	// -------- Provider --------
	GetProfile(
		ctx context.Context,
		providerID uint,
	) (*models.ProviderProfile, error)

	GetOffering(
		ctx context.Context,
		providerID uint,
		offeringID uint,
	) (*models.ServiceOffering, error)

	// -------- Reservation (create / conflict) --------

	// CreateReservation inserts r unless it overlaps an active reservation
	// of the same provider and date, in which case it returns a slot
	// conflict error. The check and the insert are atomic.
	CreateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	CreateSeries(
		ctx context.Context,
		s *models.RecurringSeries,
	) error

	SetSeriesAnchor(
		ctx context.Context,
		seriesID string,
		reservationID uint,
	) error

	// DeleteSeries removes a series none of whose occurrences was booked.
	DeleteSeries(
		ctx context.Context,
		seriesID string,
	) error

	// -------- Reservation (state change) --------
	GetReservation(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	UpdateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	ListBySeries(
		ctx context.Context,
		seriesID string,
	) ([]models.Reservation, error)

	// -------- Availability --------
	ListActiveForDay(
		ctx context.Context,
		providerID uint,
		date time.Time,
	) ([]models.Reservation, error)

	// -------- Listings --------
	ListForPeriod(
		ctx context.Context,
		providerID uint,
		from time.Time,
		to time.Time,
	) ([]models.Reservation, error)

	ListConfirmedUntil(
		ctx context.Context,
		date time.Time,
	) ([]models.Reservation, error)
}
