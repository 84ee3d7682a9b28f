package workflow

import (
	"encoding/json"
	"fmt"
	"time"
)

type sessionJSON struct {
	ID                string    `json:"id"`
	ProviderID        uint      `json:"provider_id"`
	ServiceOfferingID uint      `json:"service_offering_id"`
	CustomerID        uint      `json:"customer_id"`
	Step              Step      `json:"step"`
	Draft             Draft     `json:"draft"`
	Booking           *Booking  `json:"booking,omitempty"`
	PaymentReference  string    `json:"payment_reference,omitempty"`
	LastError         *Failure  `json:"error,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (s Session) MarshalJSON() ([]byte, error) {
	out := sessionJSON{
		ID:                s.ID,
		ProviderID:        s.ProviderID,
		ServiceOfferingID: s.ServiceOfferingID,
		CustomerID:        s.CustomerID,
		Step:              s.State.Step(),
		Draft:             s.Draft,
		LastError:         s.LastError,
		UpdatedAt:         s.UpdatedAt,
	}

	switch st := s.State.(type) {
	case AwaitingPayment:
		out.Booking = &st.Booking
	case Finalized:
		out.Booking = &st.Booking
		out.PaymentReference = st.PaymentReference
	}

	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the state from the step and the draft, rejecting
// combinations no transition can produce.
func (s *Session) UnmarshalJSON(b []byte) error {
	var in sessionJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	var state State
	switch in.Step {
	case StepSelectingDate:
		state = SelectingDate{}
	case StepSelectingTime:
		if in.Draft.Date == nil {
			return fmt.Errorf("session %s: %s without a date", in.ID, in.Step)
		}
		state = SelectingTime{Date: *in.Draft.Date}
	case StepEnteringDetails:
		if in.Draft.Date == nil || in.Draft.Time == nil {
			return fmt.Errorf("session %s: %s without date and time", in.ID, in.Step)
		}
		state = EnteringDetails{Date: *in.Draft.Date, Time: *in.Draft.Time}
	case StepAwaitingPayment:
		if in.Booking == nil {
			return fmt.Errorf("session %s: %s without a booking", in.ID, in.Step)
		}
		state = AwaitingPayment{Booking: *in.Booking}
	case StepFinalized:
		if in.Booking == nil {
			return fmt.Errorf("session %s: %s without a booking", in.ID, in.Step)
		}
		state = Finalized{Booking: *in.Booking, PaymentReference: in.PaymentReference}
	default:
		return fmt.Errorf("session %s: unknown step %q", in.ID, in.Step)
	}

	*s = Session{
		ID:                in.ID,
		ProviderID:        in.ProviderID,
		ServiceOfferingID: in.ServiceOfferingID,
		CustomerID:        in.CustomerID,
		State:             state,
		Draft:             in.Draft,
		LastError:         in.LastError,
		UpdatedAt:         in.UpdatedAt,
	}
	return nil
}
