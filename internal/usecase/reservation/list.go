package reservation

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/dto"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/timezone"
)

type ListReservationsByDate struct {
	repo domain.Repository
}

func NewListReservationsByDate(repo domain.Repository) *ListReservationsByDate {
	return &ListReservationsByDate{repo: repo}
}

func (uc *ListReservationsByDate) Execute(
	ctx context.Context,
	providerID uint,
	date time.Time,
) ([]dto.ReservationListDTO, error) {

	profile, err := uc.repo.GetProfile(ctx, providerID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(profile.Timezone)

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	rows, err := uc.repo.ListForPeriod(ctx, providerID, start, end)
	if err != nil {
		return nil, err
	}
	return toListDTO(rows, loc), nil
}

type ListReservationsByMonth struct {
	repo domain.Repository
}

func NewListReservationsByMonth(repo domain.Repository) *ListReservationsByMonth {
	return &ListReservationsByMonth{repo: repo}
}

func (uc *ListReservationsByMonth) Execute(
	ctx context.Context,
	providerID uint,
	year int,
	month time.Month,
) ([]dto.ReservationListDTO, error) {

	profile, err := uc.repo.GetProfile(ctx, providerID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(profile.Timezone)

	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	rows, err := uc.repo.ListForPeriod(ctx, providerID, start, end)
	if err != nil {
		return nil, err
	}
	return toListDTO(rows, loc), nil
}

func toListDTO(rows []models.Reservation, loc *time.Location) []dto.ReservationListDTO {
	out := make([]dto.ReservationListDTO, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, dto.ReservationListDTO{
			ID:              r.ID,
			StartTime:       domain.StartsAt(r, loc),
			EndTime:         domain.EndsAt(r, loc),
			Status:          r.Status,
			CustomerID:      r.CustomerID,
			ServiceName:     r.ServiceOffering.Name,
			Address:         r.Address,
			TotalPriceCents: r.TotalPriceCents,
			SeriesID:        r.SeriesID,
		})
	}
	return out
}
