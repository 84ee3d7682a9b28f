package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ReservationCreated   = "reservation.created"
	ReservationConfirmed = "reservation.confirmed"
	ReservationCancelled = "reservation.cancelled"
	ReservationCompleted = "reservation.completed"
	RefundRequested      = "refund.requested"
)

// Event is the envelope published for every reservation lifecycle change.
// The routing key is Type.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ProviderID uint      `json:"provider_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func New(eventType string, providerID uint, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ProviderID: providerID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
