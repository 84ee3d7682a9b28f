package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Provider
// --------------------------------------------------

func (r *ReservationGormRepository) GetProfile(
	ctx context.Context,
	providerID uint,
) (*models.ProviderProfile, error) {

	var p models.ProviderProfile
	if err := r.db.WithContext(ctx).
		Preload("TravelFeeTiers").
		Preload("Blackouts").
		Where("provider_id = ?", providerID).
		First(&p).Error; err != nil {
		return nil, notFound(err, "provider_not_found")
	}
	return &p, nil
}

func (r *ReservationGormRepository) GetOffering(
	ctx context.Context,
	providerID uint,
	offeringID uint,
) (*models.ServiceOffering, error) {

	var o models.ServiceOffering
	if err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", offeringID, providerID).
		First(&o).Error; err != nil {
		return nil, notFound(err, "service_offering_not_found")
	}
	return &o, nil
}

// --------------------------------------------------
// Reservation (create / conflict)
// --------------------------------------------------

// CreateReservation serializes writers of one provider/date with a
// transaction-scoped advisory lock, re-checks overlaps under that lock and
// inserts. The reservations_no_overlap constraint backs the check up.
func (r *ReservationGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {

	res.Date = dateOnly(res.Date)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(?, ?)",
			int32(res.ProviderID),
			dayKey(res.Date),
		).Error; err != nil {
			return err
		}

		var conflicts []models.Reservation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"provider_id = ? AND date = ? AND status IN ? AND start_minute < ? AND start_minute + duration_min > ?",
				res.ProviderID,
				res.Date,
				domain.ActiveStatuses,
				res.EndMinute(),
				res.StartMinute,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrSlotConflict()
		}

		return tx.Omit(clause.Associations).Create(res).Error
	})

	if httperr.IsExclusionConflict(err) {
		return httperr.ErrSlotConflict()
	}
	return err
}

func (r *ReservationGormRepository) CreateSeries(
	ctx context.Context,
	s *models.RecurringSeries,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ReservationGormRepository) SetSeriesAnchor(
	ctx context.Context,
	seriesID string,
	reservationID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.RecurringSeries{}).
		Where("id = ?", seriesID).
		Update("anchor_reservation_id", reservationID).Error
}

func (r *ReservationGormRepository) DeleteSeries(
	ctx context.Context,
	seriesID string,
) error {
	return r.db.WithContext(ctx).
		Where("id = ?", seriesID).
		Delete(&models.RecurringSeries{}).Error
}

// --------------------------------------------------
// Reservation (state change)
// --------------------------------------------------

func (r *ReservationGormRepository) GetReservation(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, notFound(err, "reservation_not_found")
	}
	return &res, nil
}

func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(res).Error
}

func (r *ReservationGormRepository) ListBySeries(
	ctx context.Context,
	seriesID string,
) ([]models.Reservation, error) {

	var out []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("series_id = ?", seriesID).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ReservationGormRepository) ListActiveForDay(
	ctx context.Context,
	providerID uint,
	date time.Time,
) ([]models.Reservation, error) {

	var out []models.Reservation
	if err := r.db.WithContext(ctx).
		Select("id", "start_minute", "duration_min", "status").
		Where(
			"provider_id = ? AND date = ? AND status IN ?",
			providerID, dateOnly(date), domain.ActiveStatuses,
		).
		Order("start_minute ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *ReservationGormRepository) ListForPeriod(
	ctx context.Context,
	providerID uint,
	from time.Time,
	to time.Time,
) ([]models.Reservation, error) {

	var out []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("ServiceOffering").
		Where(
			"provider_id = ? AND date >= ? AND date < ?",
			providerID, dateOnly(from), dateOnly(to),
		).
		Order("date ASC, start_minute ASC").
		Find(&out).Error

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReservationGormRepository) ListConfirmedUntil(
	ctx context.Context,
	date time.Time,
) ([]models.Reservation, error) {

	var out []models.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND date <= ?", string(domain.StatusConfirmed), dateOnly(date)).
		Order("date ASC, start_minute ASC").
		Find(&out).Error

	if err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

// dateOnly keeps the calendar day and drops the zone so the date column
// compares on the day the caller meant.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) int32 {
	y, m, d := t.Date()
	return int32(y*10000 + int(m)*100 + d)
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
