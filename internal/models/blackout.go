package models

import "time"

// Blackout removes [StartMinute, EndMinute) from the provider's day. A
// Weekday blackout repeats every week (lunch); a Date blackout applies once.
type Blackout struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"not null;index" json:"provider_id"`

	Weekday *int       `json:"weekday,omitempty"`
	Date    *time.Time `gorm:"type:date" json:"date,omitempty"`

	StartMinute int    `gorm:"not null" json:"start_minute"`
	EndMinute   int    `gorm:"not null" json:"end_minute"`
	Reason      string `gorm:"size:100" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppliesOn reports whether the blackout covers the given calendar day.
func (b *Blackout) AppliesOn(day time.Time) bool {
	if b.Date != nil {
		y1, m1, d1 := b.Date.Date()
		y2, m2, d2 := day.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	if b.Weekday != nil {
		return *b.Weekday == int(day.Weekday())
	}
	return false
}
