package models

import "time"

// ProviderProfile is the provider's calendar, travel and cancellation
// settings. One row per provider.
type ProviderProfile struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ProviderID uint   `gorm:"uniqueIndex;not null" json:"provider_id"`
	Timezone   string `gorm:"size:50;not null" json:"timezone"`

	WorkStartHour      int `gorm:"not null" json:"work_start_hour"`
	WorkEndHour        int `gorm:"not null" json:"work_end_hour"`
	SlotGranularityMin int `gorm:"not null" json:"slot_granularity_min"`

	FreeTravelRadiusMiles float64 `gorm:"not null" json:"free_travel_radius_miles"`
	PerMileFeeCents       int64   `gorm:"not null" json:"per_mile_fee_cents"`
	// nil falls back to scheduling.DefaultDistanceMiles.
	DefaultDistanceMiles *float64 `json:"default_distance_miles"`

	MaxLookaheadDays int `gorm:"not null" json:"max_lookahead_days"`
	MinNoticeHours   int `gorm:"not null" json:"min_notice_hours"`

	// The overrides are nil until the provider sets them; nil keeps the
	// preset of CancellationPolicy.
	CancellationPolicy      string `gorm:"size:20;not null" json:"cancellation_policy"`
	CancellationNoticeHours *int   `json:"cancellation_notice_hours"`
	LateFeePercent          *int   `json:"late_fee_percent"`

	TravelFeeTiers []TravelFeeTier `gorm:"foreignKey:ProviderID;references:ProviderID" json:"travel_fee_tiers"`
	Blackouts      []Blackout      `gorm:"foreignKey:ProviderID;references:ProviderID" json:"blackouts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProviderProfile returns the settings a provider starts with. Defaults
// live here and not in column defaults so that zero stays a storable value.
func NewProviderProfile(providerID uint, timezone string) ProviderProfile {
	return ProviderProfile{
		ProviderID:         providerID,
		Timezone:           timezone,
		WorkStartHour:      9,
		WorkEndHour:        19,
		SlotGranularityMin: 30,
		MaxLookaheadDays:   60,
		MinNoticeHours:     2,
		CancellationPolicy: "flexible",
	}
}

type TravelFeeTier struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ProviderID uint    `gorm:"not null;index" json:"provider_id"`
	UpToMiles  float64 `gorm:"not null" json:"up_to_miles"`
	FeeCents   int64   `gorm:"not null" json:"fee_cents"`
}
