package workflow

import (
	"time"

	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

type Step string

const (
	StepSelectingDate   Step = "selecting_date"
	StepSelectingTime   Step = "selecting_time"
	StepEnteringDetails Step = "entering_details"
	StepAwaitingPayment Step = "awaiting_payment"
	StepFinalized       Step = "finalized"
)

// State is one step of the booking wizard. Only the types in this package
// implement it.
type State interface {
	Step() Step
	isState()
}

type SelectingDate struct{}

type SelectingTime struct {
	Date time.Time
}

type EnteringDetails struct {
	Date time.Time
	Time scheduling.Clock
}

type AwaitingPayment struct {
	Booking Booking
}

type Finalized struct {
	Booking          Booking
	PaymentReference string
}

func (SelectingDate) Step() Step   { return StepSelectingDate }
func (SelectingTime) Step() Step   { return StepSelectingTime }
func (EnteringDetails) Step() Step { return StepEnteringDetails }
func (AwaitingPayment) Step() Step { return StepAwaitingPayment }
func (Finalized) Step() Step       { return StepFinalized }

func (SelectingDate) isState()   {}
func (SelectingTime) isState()   {}
func (EnteringDetails) isState() {}
func (AwaitingPayment) isState() {}
func (Finalized) isState()       {}

// Booking is what the reservation service handed back for the draft.
type Booking struct {
	ReservationIDs []uint `json:"reservation_ids"`
	SeriesID       string `json:"series_id,omitempty"`
	TotalCents     int64  `json:"total_cents"`
	TravelFeeCents int64  `json:"travel_fee_cents"`
}

// Draft holds every value the customer entered so far. Transitions never
// clear it except for the time when a different date is picked.
type Draft struct {
	Date            *time.Time           `json:"date,omitempty"`
	Time            *scheduling.Clock    `json:"time,omitempty"`
	Address         string               `json:"address"`
	Notes           string               `json:"notes"`
	Recurring       bool                 `json:"recurring"`
	Frequency       scheduling.Frequency `json:"frequency,omitempty"`
	OccurrenceCount int                  `json:"occurrence_count,omitempty"`
	DistanceMiles   *float64             `json:"distance_miles,omitempty"`
}

type Details struct {
	Address         string
	Notes           string
	Recurring       bool
	Frequency       scheduling.Frequency
	OccurrenceCount int
	DistanceMiles   *float64
}
