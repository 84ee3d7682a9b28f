package workflow

import (
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

// Failure is the error overlay shown on top of the current step.
type Failure struct {
	Kind    httperr.Kind `json:"kind"`
	Code    string       `json:"code"`
	Field   string       `json:"field,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Session is one customer's pass through the wizard for a single provider
// and service offering. It is not safe for concurrent use; callers load,
// apply one transition and store it back.
type Session struct {
	ID                string
	ProviderID        uint
	ServiceOfferingID uint
	CustomerID        uint

	State     State
	Draft     Draft
	LastError *Failure

	UpdatedAt time.Time
}

// ReserveFunc turns a validated draft into pending reservations.
type ReserveFunc func(d Draft) (Booking, error)

func NewSession(id string, providerID, offeringID, customerID uint, now time.Time) *Session {
	return &Session{
		ID:                id,
		ProviderID:        providerID,
		ServiceOfferingID: offeringID,
		CustomerID:        customerID,
		State:             SelectingDate{},
		UpdatedAt:         now,
	}
}

func (s *Session) Step() Step {
	return s.State.Step()
}

// ======================================================
// Transitions
// ======================================================

// SelectDate is accepted while picking a date or a time. Picking a
// different day drops the previously selected time.
func (s *Session) SelectDate(date *time.Time) error {
	switch s.State.(type) {
	case SelectingDate, SelectingTime:
	default:
		return s.fail(httperr.ErrInvalidState("cannot_select_date"))
	}

	if date == nil || date.IsZero() {
		return s.fail(httperr.ErrValidation("date", "date_required"))
	}

	day := dayOf(*date)
	if s.Draft.Date == nil || !s.Draft.Date.Equal(day) {
		s.Draft.Time = nil
	}
	s.Draft.Date = &day

	return s.move(SelectingTime{Date: day})
}

func (s *Session) SelectTime(t *scheduling.Clock) error {
	st, ok := s.State.(SelectingTime)
	if !ok {
		return s.fail(httperr.ErrInvalidState("cannot_select_time"))
	}

	if t == nil {
		return s.fail(httperr.ErrValidation("time", "time_required"))
	}
	if *t < 0 || *t >= scheduling.MinutesPerDay {
		return s.fail(httperr.ErrValidation("time", "invalid_time"))
	}

	chosen := *t
	s.Draft.Time = &chosen

	return s.move(EnteringDetails{Date: st.Date, Time: chosen})
}

// SubmitDetails stores the entered details, validates them and asks
// reserve for pending reservations. The entered values stay in the draft
// whatever the outcome. A slot conflict sends the customer back to pick
// another time.
func (s *Session) SubmitDetails(d Details, reserve ReserveFunc) error {
	st, ok := s.State.(EnteringDetails)
	if !ok {
		return s.fail(httperr.ErrInvalidState("cannot_submit_details"))
	}

	s.Draft.Address = d.Address
	s.Draft.Notes = d.Notes
	s.Draft.Recurring = d.Recurring
	s.Draft.Frequency = d.Frequency
	s.Draft.OccurrenceCount = d.OccurrenceCount
	s.Draft.DistanceMiles = d.DistanceMiles

	if err := ValidateDetails(d); err != nil {
		return s.fail(err)
	}

	booking, err := reserve(s.Draft)
	if err != nil {
		if httperr.IsKind(err, httperr.KindSlotConflict) {
			s.Draft.Time = nil
			s.State = SelectingTime{Date: st.Date}
		}
		return s.fail(err)
	}

	return s.move(AwaitingPayment{Booking: booking})
}

// Back moves one step towards the start. Once reservations are held the
// wizard can only go forward or fail the payment.
func (s *Session) Back() error {
	switch st := s.State.(type) {
	case SelectingTime:
		return s.move(SelectingDate{})
	case EnteringDetails:
		return s.move(SelectingTime{Date: st.Date})
	default:
		return s.fail(httperr.ErrInvalidState("cannot_go_back"))
	}
}

func (s *Session) PaymentSucceeded(reference string) error {
	st, ok := s.State.(AwaitingPayment)
	if !ok {
		return s.fail(httperr.ErrInvalidState("not_awaiting_payment"))
	}

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return s.fail(httperr.ErrValidation("payment_reference", "payment_reference_required"))
	}

	return s.move(Finalized{Booking: st.Booking, PaymentReference: reference})
}

// PaymentFailed returns to the details step with the collaborator's message
// shown verbatim.
func (s *Session) PaymentFailed(message string) error {
	if _, ok := s.State.(AwaitingPayment); !ok {
		return s.fail(httperr.ErrInvalidState("not_awaiting_payment"))
	}
	if s.Draft.Date == nil || s.Draft.Time == nil {
		return s.fail(httperr.ErrInvalidState("incomplete_draft"))
	}

	s.State = EnteringDetails{Date: *s.Draft.Date, Time: *s.Draft.Time}
	s.LastError = failureOf(httperr.ErrPayment(message))
	return nil
}

// Reject records an error raised outside the state machine, such as a
// time the calendar no longer offers, without changing the step.
func (s *Session) Reject(err error) error {
	return s.fail(err)
}

// Booking returns the held or finalized booking, if any.
func (s *Session) Booking() (Booking, bool) {
	switch st := s.State.(type) {
	case AwaitingPayment:
		return st.Booking, true
	case Finalized:
		return st.Booking, true
	}
	return Booking{}, false
}

// ======================================================
// Validation
// ======================================================

func ValidateDetails(d Details) error {
	if strings.TrimSpace(d.Address) == "" {
		return httperr.ErrValidation("address", "address_required")
	}
	if d.DistanceMiles != nil && *d.DistanceMiles < 0 {
		return httperr.ErrValidation("distance_miles", "")
	}
	if !d.Recurring {
		return nil
	}
	if !d.Frequency.Valid() {
		return httperr.ErrValidation("frequency", "")
	}
	if !scheduling.ValidateOccurrenceCount(d.OccurrenceCount) {
		return httperr.ErrValidation("occurrence_count", "")
	}
	return nil
}

// ======================================================
// Helpers
// ======================================================

func (s *Session) move(next State) error {
	s.State = next
	s.LastError = nil
	return nil
}

func (s *Session) fail(err error) error {
	s.LastError = failureOf(err)
	return err
}

func failureOf(err error) *Failure {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return &Failure{Kind: be.Kind, Code: be.Code, Field: be.Field, Message: be.Message}
	}
	return &Failure{Kind: "internal", Code: "internal_error", Message: "Something went wrong, please try again."}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
