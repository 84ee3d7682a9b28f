package models

import "time"

// Reservation snapshots the offering's duration and the quoted price at
// creation. Later edits to the offering or the provider profile never touch
// these columns.
type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProviderID        uint            `gorm:"not null;index:idx_reservations_provider_date,priority:1" json:"provider_id"`
	ServiceOfferingID uint            `gorm:"not null" json:"service_offering_id"`
	ServiceOffering   ServiceOffering `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	CustomerID        uint            `gorm:"index" json:"customer_id"`

	Date        time.Time `gorm:"type:date;not null;index:idx_reservations_provider_date,priority:2" json:"date"`
	StartMinute int       `gorm:"not null" json:"start_minute"`
	DurationMin int       `gorm:"not null" json:"duration_min"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	TotalPriceCents int64 `gorm:"not null" json:"total_price_cents"`
	TravelFeeCents  int64 `gorm:"not null" json:"travel_fee_cents"`

	SeriesID *string `gorm:"size:36;index" json:"series_id,omitempty"`

	Address          string `gorm:"size:255;not null" json:"address"`
	Notes            string `gorm:"size:255" json:"notes"`
	PaymentReference string `gorm:"size:100" json:"payment_reference,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Reservation) EndMinute() int {
	return r.StartMinute + r.DurationMin
}
