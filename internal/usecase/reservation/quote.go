package reservation

import (
	"context"

	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

type QuoteInput struct {
	ProviderID        uint
	ServiceOfferingID uint
	DistanceMiles     *float64
	Recurring         bool
	OccurrenceCount   int
}

type QuoteResult struct {
	PerOccurrence    scheduling.PriceBreakdown `json:"per_occurrence"`
	Occurrences      int                       `json:"occurrences"`
	SeriesTotalCents int64                     `json:"series_total_cents"`
}

type GetQuote struct {
	repo domain.Repository
}

func NewGetQuote(repo domain.Repository) *GetQuote {
	return &GetQuote{repo: repo}
}

func (uc *GetQuote) Execute(ctx context.Context, in QuoteInput) (*QuoteResult, error) {
	if in.DistanceMiles != nil && *in.DistanceMiles < 0 {
		return nil, httperr.ErrValidation("distance_miles", "")
	}

	occurrences := 1
	if in.Recurring {
		if !scheduling.ValidateOccurrenceCount(in.OccurrenceCount) {
			return nil, httperr.ErrValidation("occurrence_count", "")
		}
		occurrences = in.OccurrenceCount
	}

	cal, err := loadCalendar(ctx, uc.repo, in.ProviderID, in.ServiceOfferingID)
	if err != nil {
		return nil, err
	}

	q := priceFor(cal, in.DistanceMiles, in.Recurring)

	return &QuoteResult{
		PerOccurrence:    q,
		Occurrences:      occurrences,
		SeriesTotalCents: q.TotalCents * int64(occurrences),
	}, nil
}

func priceFor(cal *calendar, distance *float64, recurring bool) scheduling.PriceBreakdown {
	return scheduling.Quote(scheduling.PriceInput{
		BaseCents:     cal.offering.PriceCents,
		Travel:        domain.TravelPolicy(cal.profile),
		DistanceMiles: distance,
		Recurring:     recurring,
	})
}
