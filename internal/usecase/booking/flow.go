package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
	"github.com/BruksfildServices01/beauty-booking/internal/usecase/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/workflow"
)

// ======================================================
// COLLABORATORS
// ======================================================

type SessionStore interface {
	Get(ctx context.Context, id string) (*workflow.Session, error)
	Save(ctx context.Context, sess *workflow.Session) error
	Delete(ctx context.Context, id string) error
}

type Availability interface {
	Execute(ctx context.Context, in reservation.AvailabilityInput) (*reservation.AvailabilityResult, error)
}

type Quoter interface {
	Execute(ctx context.Context, in reservation.QuoteInput) (*reservation.QuoteResult, error)
}

type Creator interface {
	Execute(ctx context.Context, in reservation.CreateReservationInput) (*reservation.CreateReservationResult, error)
}

type PaymentAttacher interface {
	Execute(ctx context.Context, in reservation.AttachPaymentInput) ([]models.Reservation, error)
}

type HoldReleaser interface {
	Execute(ctx context.Context, reservationIDs []uint) error
}

type Deps struct {
	Store        SessionStore
	Availability Availability
	Quote        Quoter
	Create       Creator
	Attach       PaymentAttacher
	Release      HoldReleaser
	Log          *zap.Logger
	Now          func() time.Time
}

// ======================================================
// OUTPUT
// ======================================================

// View is what the client renders for the current step.
type View struct {
	Session      *workflow.Session              `json:"session"`
	Availability *reservation.AvailabilityResult `json:"availability,omitempty"`
	Quote        *reservation.QuoteResult        `json:"quote,omitempty"`
	Occurrences  []reservation.OccurrenceOutcome `json:"occurrences,omitempty"`
}

// ======================================================
// FLOW
// ======================================================

// Flow drives the booking wizard. Every call loads the session, applies
// one transition and stores the result, including a failed transition's
// error overlay.
type Flow struct {
	deps Deps
}

func NewFlow(d Deps) *Flow {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Flow{deps: d}
}

type StartInput struct {
	ProviderID        uint
	ServiceOfferingID uint
	CustomerID        uint
}

func (f *Flow) Start(ctx context.Context, in StartInput) (*View, error) {
	if in.ProviderID == 0 {
		return nil, httperr.ErrValidation("provider_id", "")
	}
	if in.ServiceOfferingID == 0 {
		return nil, httperr.ErrValidation("service_offering_id", "")
	}

	// loads the offering, so inactive offerings are refused up front
	quote, err := f.deps.Quote.Execute(ctx, reservation.QuoteInput{
		ProviderID:        in.ProviderID,
		ServiceOfferingID: in.ServiceOfferingID,
	})
	if err != nil {
		return nil, err
	}

	sess := workflow.NewSession(uuid.NewString(), in.ProviderID, in.ServiceOfferingID, in.CustomerID, f.deps.Now())
	if err := f.deps.Store.Save(ctx, sess); err != nil {
		return nil, err
	}

	f.deps.Log.Info("booking session started",
		zap.String("session_id", sess.ID),
		zap.Uint("provider_id", in.ProviderID),
		zap.Uint("customer_id", in.CustomerID),
	)
	return &View{Session: sess, Quote: quote}, nil
}

func (f *Flow) Get(ctx context.Context, id string, customerID uint) (*View, error) {
	sess, err := f.load(ctx, id, customerID)
	if err != nil {
		return nil, err
	}
	return f.view(ctx, sess), nil
}

// SelectDate moves to time selection and returns the day's slots.
func (f *Flow) SelectDate(ctx context.Context, id string, customerID uint, date string) (*View, error) {
	sess, err := f.load(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	var day *time.Time
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, f.reject(ctx, sess, httperr.ErrValidation("date", "invalid_date"))
		}
		day = &parsed
	}

	if err := sess.SelectDate(day); err != nil {
		return nil, f.save(ctx, sess, err)
	}

	avail, err := f.availability(ctx, sess)
	if err != nil {
		return nil, f.reject(ctx, sess, err)
	}

	if err := f.save(ctx, sess, nil); err != nil {
		return nil, err
	}
	return &View{Session: sess, Availability: avail}, nil
}

// SelectTime accepts only a start the calendar offers right now.
func (f *Flow) SelectTime(ctx context.Context, id string, customerID uint, hhmm string) (*View, error) {
	sess, err := f.load(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	var chosen *scheduling.Clock
	if hhmm != "" {
		c, err := scheduling.ParseClock(hhmm)
		if err != nil {
			return nil, f.reject(ctx, sess, httperr.ErrValidation("time", "invalid_time"))
		}
		chosen = &c
	}

	if chosen != nil && sess.Step() == workflow.StepSelectingTime {
		avail, err := f.availability(ctx, sess)
		if err != nil {
			return nil, f.reject(ctx, sess, err)
		}
		if err := slotError(avail, *chosen); err != nil {
			return nil, f.reject(ctx, sess, err)
		}
	}

	if err := sess.SelectTime(chosen); err != nil {
		return nil, f.save(ctx, sess, err)
	}
	if err := f.save(ctx, sess, nil); err != nil {
		return nil, err
	}
	return f.view(ctx, sess), nil
}

// SubmitDetails holds pending reservations for the draft. A series that
// could not book a single occurrence is a slot conflict.
func (f *Flow) SubmitDetails(ctx context.Context, id string, customerID uint, d workflow.Details) (*View, error) {
	sess, err := f.load(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	var outcomes []reservation.OccurrenceOutcome

	reserve := func(draft workflow.Draft) (workflow.Booking, error) {
		res, err := f.deps.Create.Execute(ctx, reservation.CreateReservationInput{
			ProviderID:        sess.ProviderID,
			ServiceOfferingID: sess.ServiceOfferingID,
			CustomerID:        sess.CustomerID,
			Date:              draft.Date.Format("2006-01-02"),
			StartTime:         draft.Time.String(),
			Address:           draft.Address,
			Notes:             draft.Notes,
			IsRecurring:       draft.Recurring,
			Frequency:         draft.Frequency,
			OccurrenceCount:   draft.OccurrenceCount,
			DistanceMiles:     draft.DistanceMiles,
		})
		if err != nil {
			return workflow.Booking{}, err
		}

		outcomes = res.Occurrences
		booked := res.Booked()
		if len(booked) == 0 {
			return workflow.Booking{}, httperr.ErrSlotConflict()
		}

		b := workflow.Booking{
			ReservationIDs: booked,
			TotalCents:     res.TotalPriceCents * int64(len(booked)),
			TravelFeeCents: res.TravelFeeCents,
		}
		if res.SeriesID != nil {
			b.SeriesID = *res.SeriesID
		}
		return b, nil
	}

	if err := sess.SubmitDetails(d, reserve); err != nil {
		return nil, f.save(ctx, sess, err)
	}
	if err := f.save(ctx, sess, nil); err != nil {
		return nil, err
	}

	v := f.view(ctx, sess)
	v.Occurrences = outcomes
	return v, nil
}

func (f *Flow) Back(ctx context.Context, id string, customerID uint) (*View, error) {
	sess, err := f.load(ctx, id, customerID)
	if err != nil {
		return nil, err
	}
	if err := sess.Back(); err != nil {
		return nil, f.save(ctx, sess, err)
	}
	if err := f.save(ctx, sess, nil); err != nil {
		return nil, err
	}
	return f.view(ctx, sess), nil
}

// PaymentSucceeded confirms the held reservations with the payment
// reference. A reference the gateway rejects is handled as a failed
// payment.
func (f *Flow) PaymentSucceeded(ctx context.Context, id string, customerID uint, reference string) (*View, error) {
	sess, err := f.load(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	booking, held := sess.Booking()
	if !held || sess.Step() != workflow.StepAwaitingPayment || strings.TrimSpace(reference) == "" {
		return nil, f.save(ctx, sess, sess.PaymentSucceeded(reference))
	}

	_, err = f.deps.Attach.Execute(ctx, reservation.AttachPaymentInput{
		ReservationID:    booking.ReservationIDs[0],
		PaymentReference: reference,
		IncludeSeries:    booking.SeriesID != "",
		ActorID:          sess.CustomerID,
		ActorRole:        reservation.RoleCustomer,
	})
	if err != nil {
		var be httperr.BusinessError
		if errors.As(err, &be) && be.Kind == httperr.KindPayment {
			if ferr := f.fail(ctx, sess, booking, be.Message); ferr != nil {
				return nil, ferr
			}
			return nil, err
		}
		return nil, f.reject(ctx, sess, err)
	}

	if err := sess.PaymentSucceeded(reference); err != nil {
		return nil, f.save(ctx, sess, err)
	}
	if err := f.save(ctx, sess, nil); err != nil {
		return nil, err
	}

	f.deps.Log.Info("booking finalized",
		zap.String("session_id", sess.ID),
		zap.Uints("reservation_ids", booking.ReservationIDs),
	)
	return f.view(ctx, sess), nil
}

// PaymentFailed releases the held reservations and returns to the details
// step with the message shown as given.
func (f *Flow) PaymentFailed(ctx context.Context, id string, customerID uint, message string) (*View, error) {
	sess, err := f.load(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	booking, held := sess.Booking()
	if !held || sess.Step() != workflow.StepAwaitingPayment {
		return nil, f.save(ctx, sess, sess.PaymentFailed(message))
	}

	if err := f.fail(ctx, sess, booking, message); err != nil {
		return nil, err
	}
	return f.view(ctx, sess), nil
}

// ======================================================
// HELPERS
// ======================================================

func (f *Flow) load(ctx context.Context, id string, customerID uint) (*workflow.Session, error) {
	sess, err := f.deps.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customerID != 0 && sess.CustomerID != customerID {
		return nil, httperr.ErrNotFound("booking_session_not_found")
	}
	return sess, nil
}

// save stores the session and hands back cause, or the store error when
// there is no cause.
func (f *Flow) save(ctx context.Context, sess *workflow.Session, cause error) error {
	sess.UpdatedAt = f.deps.Now()
	if err := f.deps.Store.Save(ctx, sess); err != nil {
		f.deps.Log.Error("booking session not saved", zap.String("session_id", sess.ID), zap.Error(err))
		if cause == nil {
			return err
		}
	}
	return cause
}

func (f *Flow) reject(ctx context.Context, sess *workflow.Session, err error) error {
	return f.save(ctx, sess, sess.Reject(err))
}

func (f *Flow) fail(ctx context.Context, sess *workflow.Session, booking workflow.Booking, message string) error {
	if err := f.deps.Release.Execute(ctx, booking.ReservationIDs); err != nil {
		f.deps.Log.Error("hold not released",
			zap.String("session_id", sess.ID),
			zap.Uints("reservation_ids", booking.ReservationIDs),
			zap.Error(err),
		)
		return f.reject(ctx, sess, err)
	}
	if err := sess.PaymentFailed(message); err != nil {
		return f.save(ctx, sess, err)
	}
	return f.save(ctx, sess, nil)
}

func (f *Flow) availability(ctx context.Context, sess *workflow.Session) (*reservation.AvailabilityResult, error) {
	return f.deps.Availability.Execute(ctx, reservation.AvailabilityInput{
		ProviderID:        sess.ProviderID,
		ServiceOfferingID: sess.ServiceOfferingID,
		Date:              sess.Draft.Date.Format("2006-01-02"),
	})
}

// view adds what the current step shows: the day's slots while picking a
// time and the running price once details are being entered.
func (f *Flow) view(ctx context.Context, sess *workflow.Session) *View {
	v := &View{Session: sess}

	switch sess.Step() {
	case workflow.StepSelectingTime:
		avail, err := f.availability(ctx, sess)
		if err != nil {
			f.deps.Log.Warn("availability for view", zap.String("session_id", sess.ID), zap.Error(err))
		}
		v.Availability = avail

	case workflow.StepEnteringDetails, workflow.StepAwaitingPayment, workflow.StepFinalized:
		in := reservation.QuoteInput{
			ProviderID:        sess.ProviderID,
			ServiceOfferingID: sess.ServiceOfferingID,
			DistanceMiles:     sess.Draft.DistanceMiles,
		}
		if sess.Draft.Recurring && scheduling.ValidateOccurrenceCount(sess.Draft.OccurrenceCount) {
			in.Recurring = true
			in.OccurrenceCount = sess.Draft.OccurrenceCount
		}
		quote, err := f.deps.Quote.Execute(ctx, in)
		if err != nil {
			f.deps.Log.Warn("quote for view", zap.String("session_id", sess.ID), zap.Error(err))
		}
		v.Quote = quote
	}
	return v
}

func slotError(avail *reservation.AvailabilityResult, start scheduling.Clock) error {
	for _, s := range avail.Slots {
		if s.Start != start {
			continue
		}
		switch {
		case s.Available:
			return nil
		case s.Reason == scheduling.ReasonConflict:
			return httperr.ErrSlotConflict()
		default:
			return httperr.ErrPolicy(string(s.Reason))
		}
	}
	return httperr.ErrPolicy("not_a_bookable_slot")
}
