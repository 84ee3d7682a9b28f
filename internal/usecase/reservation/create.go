package reservation

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/audit"
	domain "github.com/BruksfildServices01/beauty-booking/internal/domain/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/events"
	"github.com/BruksfildServices01/beauty-booking/internal/infra/receipts"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateReservationInput struct {
	ProviderID        uint
	ServiceOfferingID uint
	CustomerID        uint

	Date      string
	StartTime string
	Address   string
	Notes     string

	IsRecurring     bool
	Frequency       scheduling.Frequency
	OccurrenceCount int
	DistanceMiles   *float64
}

type OccurrenceStatus string

const (
	OccurrenceBooked          OccurrenceStatus = "booked"
	OccurrenceConflict        OccurrenceStatus = "conflict"
	OccurrencePolicyViolation OccurrenceStatus = "policy_violation"
	// OccurrenceFailed is an infrastructure failure for that date. The
	// other occurrences are still attempted.
	OccurrenceFailed OccurrenceStatus = "failed"
)

type OccurrenceOutcome struct {
	Date          string           `json:"date"`
	Status        OccurrenceStatus `json:"status"`
	Reason        string           `json:"reason,omitempty"`
	ReservationID *uint            `json:"reservation_id,omitempty"`
}

type CreateReservationResult struct {
	ReservationID   uint                `json:"reservation_id"`
	TotalPriceCents int64               `json:"total_price_cents"`
	TravelFeeCents  int64               `json:"travel_fee_cents"`
	SeriesID        *string             `json:"series_id,omitempty"`
	Occurrences     []OccurrenceOutcome `json:"occurrences"`
}

// Booked lists the ids of the reservations that were created.
func (r *CreateReservationResult) Booked() []uint {
	var ids []uint
	for _, o := range r.Occurrences {
		if o.ReservationID != nil {
			ids = append(ids, *o.ReservationID)
		}
	}
	return ids
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	deps Deps
}

func NewCreateReservation(d Deps) *CreateReservation {
	return &CreateReservation{deps: d.withDefaults()}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute books a single reservation or every occurrence of a series. A
// single booking fails with the typed error of its first problem. A series
// books what it can and reports the rest per occurrence; it never shifts an
// occurrence to another time.
func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateReservationInput,
) (*CreateReservationResult, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Provider context
	// --------------------------------------------------
	cal, err := loadCalendar(ctx, uc.deps.Repo, in.ProviderID, in.ServiceOfferingID)
	if err != nil {
		return nil, err
	}

	anchor, err := cal.parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	start, err := scheduling.ParseClock(in.StartTime)
	if err != nil {
		return nil, httperr.ErrValidation("start_time", "invalid_time")
	}
	if !slices.Contains(cal.slots(), start) {
		return nil, httperr.ErrPolicy("not_a_bookable_slot")
	}

	// --------------------------------------------------
	// Occurrences + price snapshot
	// --------------------------------------------------
	dates := []time.Time{anchor}
	if in.IsRecurring {
		dates, err = scheduling.ExpandOccurrences(anchor, in.Frequency, in.OccurrenceCount)
		if err != nil {
			return nil, httperr.ErrValidation("frequency", "")
		}
	}

	price := priceFor(cal, in.DistanceMiles, in.IsRecurring)

	result := &CreateReservationResult{
		TotalPriceCents: price.TotalCents,
		TravelFeeCents:  price.TravelFeeCents,
	}

	var series *models.RecurringSeries
	if in.IsRecurring {
		series = &models.RecurringSeries{
			ID:              uuid.NewString(),
			ProviderID:      in.ProviderID,
			Frequency:       string(in.Frequency),
			OccurrenceCount: in.OccurrenceCount,
			DiscountPercent: scheduling.RecurringDiscountPercent,
		}
		if err := uc.deps.Repo.CreateSeries(ctx, series); err != nil {
			return nil, err
		}
		result.SeriesID = &series.ID
	}

	// --------------------------------------------------
	// Book each occurrence atomically
	// --------------------------------------------------
	now := uc.deps.Now()

	var failure error
	for _, day := range dates {
		outcome, res, err := uc.bookOne(ctx, cal, in, day, start, price, series, now)
		if err != nil {
			if !in.IsRecurring {
				return nil, err
			}
			uc.deps.Log.Error("series occurrence failed",
				zap.String("series_id", series.ID),
				zap.String("date", outcome.Date),
				zap.Error(err),
			)
			outcome.Status = OccurrenceFailed
			outcome.Reason = "internal_error"
			failure = err
		}

		if !in.IsRecurring && res == nil {
			return nil, outcomeError(outcome)
		}

		result.Occurrences = append(result.Occurrences, outcome)

		if res != nil && result.ReservationID == 0 {
			result.ReservationID = res.ID
			if series != nil {
				if err := uc.deps.Repo.SetSeriesAnchor(ctx, series.ID, res.ID); err != nil {
					uc.deps.Log.Error("set series anchor", zap.String("series_id", series.ID), zap.Error(err))
				}
			}
		}
	}

	// --------------------------------------------------
	// A series with no booked occurrence leaves nothing behind
	// --------------------------------------------------
	if series != nil && result.ReservationID == 0 {
		if err := uc.deps.Repo.DeleteSeries(ctx, series.ID); err != nil {
			uc.deps.Log.Error("delete empty series", zap.String("series_id", series.ID), zap.Error(err))
		}
		result.SeriesID = nil
		if failure != nil {
			return nil, failure
		}
	}

	return result, nil
}

// bookOne returns a nil reservation when the occurrence was not booked.
// Only infrastructure failures come back as errors.
func (uc *CreateReservation) bookOne(
	ctx context.Context,
	cal *calendar,
	in CreateReservationInput,
	day time.Time,
	start scheduling.Clock,
	price scheduling.PriceBreakdown,
	series *models.RecurringSeries,
	now time.Time,
) (OccurrenceOutcome, *models.Reservation, error) {

	outcome := OccurrenceOutcome{Date: day.Format("2006-01-02")}

	// The cache may lag other writers; the server-side check reads fresh.
	busy, err := freshBusyIntervals(ctx, uc.deps.Repo, in.ProviderID, day)
	if err != nil {
		return outcome, nil, err
	}

	check := scheduling.Evaluate(cal.input(day, busy, now), start)
	switch {
	case check.Reason.IsPolicy():
		outcome.Status = OccurrencePolicyViolation
		outcome.Reason = string(check.Reason)
		return outcome, nil, nil
	case check.Reason == scheduling.ReasonConflict:
		outcome.Status = OccurrenceConflict
		outcome.Reason = string(check.Reason)
		return outcome, nil, nil
	}

	res := &models.Reservation{
		ProviderID:        in.ProviderID,
		ServiceOfferingID: cal.offering.ID,
		CustomerID:        in.CustomerID,
		Date:              day,
		StartMinute:       int(start),
		DurationMin:       cal.offering.DurationMin,
		Status:            string(domain.InitialStatus()),
		TotalPriceCents:   price.TotalCents,
		TravelFeeCents:    price.TravelFeeCents,
		Address:           strings.TrimSpace(in.Address),
		Notes:             in.Notes,
	}
	if series != nil {
		res.SeriesID = &series.ID
	}

	if err := uc.deps.Repo.CreateReservation(ctx, res); err != nil {
		if httperr.IsKind(err, httperr.KindSlotConflict) {
			uc.deps.Audit.Dispatch(audit.Event{
				ProviderID: in.ProviderID,
				ActorID:    actor(in.CustomerID),
				Action:     "reservation_conflict",
				Entity:     "reservation",
				Metadata: map[string]any{
					"date":  outcome.Date,
					"start": start.String(),
				},
			})
			outcome.Status = OccurrenceConflict
			outcome.Reason = string(scheduling.ReasonConflict)
			return outcome, nil, nil
		}
		return outcome, nil, err
	}

	invalidateDay(ctx, uc.deps, in.ProviderID, day)
	uc.afterCreate(ctx, res)

	outcome.Status = OccurrenceBooked
	outcome.ReservationID = &res.ID
	return outcome, res, nil
}

func (uc *CreateReservation) afterCreate(ctx context.Context, res *models.Reservation) {
	uc.deps.Audit.Dispatch(audit.Event{
		ProviderID: res.ProviderID,
		ActorID:    actor(res.CustomerID),
		Action:     "reservation_created",
		Entity:     "reservation",
		EntityID:   &res.ID,
	})

	publish(ctx, uc.deps, events.ReservationCreated, res.ProviderID, res)

	if _, err := uc.deps.Receipts.Store(ctx, receiptFor(res, receipts.KindBooking, uc.deps.Now())); err != nil {
		uc.deps.Log.Warn("booking receipt not stored", zap.Uint("reservation_id", res.ID), zap.Error(err))
	}
}

// ======================================================
// HELPERS
// ======================================================

func validateCreate(in CreateReservationInput) error {
	if in.Date == "" {
		return httperr.ErrValidation("date", "date_required")
	}
	if in.StartTime == "" {
		return httperr.ErrValidation("start_time", "time_required")
	}
	if strings.TrimSpace(in.Address) == "" {
		return httperr.ErrValidation("address", "address_required")
	}
	if in.DistanceMiles != nil && *in.DistanceMiles < 0 {
		return httperr.ErrValidation("distance_miles", "")
	}
	if in.IsRecurring {
		if !in.Frequency.Valid() {
			return httperr.ErrValidation("frequency", "")
		}
		if !scheduling.ValidateOccurrenceCount(in.OccurrenceCount) {
			return httperr.ErrValidation("occurrence_count", "")
		}
	}
	return nil
}

func outcomeError(o OccurrenceOutcome) error {
	if o.Status == OccurrencePolicyViolation {
		return httperr.ErrPolicy(o.Reason)
	}
	return httperr.ErrSlotConflict()
}

func actor(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func receiptFor(res *models.Reservation, kind string, now time.Time) receipts.Receipt {
	r := receipts.Receipt{
		Kind:           kind,
		ReservationID:  res.ID,
		ProviderID:     res.ProviderID,
		CustomerID:     res.CustomerID,
		Date:           res.Date.Format("2006-01-02"),
		StartTime:      scheduling.Clock(res.StartMinute).String(),
		DurationMin:    res.DurationMin,
		TotalCents:     res.TotalPriceCents,
		TravelFeeCents: res.TravelFeeCents,
		IssuedAt:       now.UTC(),
	}
	if res.SeriesID != nil {
		r.SeriesID = *res.SeriesID
	}
	return r
}
