package models

import "time"

type RecurringSeries struct {
	ID                  string `gorm:"primaryKey;size:36" json:"id"`
	ProviderID          uint   `gorm:"not null;index" json:"provider_id"`
	AnchorReservationID *uint  `json:"anchor_reservation_id"`
	Frequency           string `gorm:"size:20;not null" json:"frequency"`
	OccurrenceCount     int    `gorm:"not null" json:"occurrence_count"`
	DiscountPercent     int    `gorm:"not null" json:"discount_percent"`

	CreatedAt time.Time `json:"created_at"`
}

func (RecurringSeries) TableName() string {
	return "recurring_series"
}
