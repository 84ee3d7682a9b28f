package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-booking/internal/audit"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
	"github.com/BruksfildServices01/beauty-booking/internal/timezone"
	"github.com/BruksfildServices01/beauty-booking/internal/validators"
)

// ProviderProfileHandler edits the calendar, travel and cancellation
// settings the booking engine reads.
type ProviderProfileHandler struct {
	db              *gorm.DB
	audit           *audit.Dispatcher
	defaultTimezone string
}

func NewProviderProfileHandler(db *gorm.DB, dispatcher *audit.Dispatcher, defaultTimezone string) *ProviderProfileHandler {
	return &ProviderProfileHandler{db: db, audit: dispatcher, defaultTimezone: defaultTimezone}
}

type UpdateProfileRequest struct {
	Timezone           *string `json:"timezone"`
	WorkStartHour      *int    `json:"work_start_hour" binding:"omitempty,min=0,max=23"`
	WorkEndHour        *int    `json:"work_end_hour" binding:"omitempty,min=1,max=24"`
	SlotGranularityMin *int    `json:"slot_granularity_min" binding:"omitempty,min=5,max=240"`

	FreeTravelRadiusMiles *float64 `json:"free_travel_radius_miles" binding:"omitempty,min=0"`
	PerMileFeeCents       *int64   `json:"per_mile_fee_cents" binding:"omitempty,min=0"`
	DefaultDistanceMiles  *float64 `json:"default_distance_miles" binding:"omitempty,min=0"`

	MaxLookaheadDays *int `json:"max_lookahead_days" binding:"omitempty,min=1,max=365"`
	MinNoticeHours   *int `json:"min_notice_hours" binding:"omitempty,min=0,max=168"`

	CancellationPolicy      *string `json:"cancellation_policy" binding:"omitempty,policy_class"`
	CancellationNoticeHours *int    `json:"cancellation_notice_hours" binding:"omitempty,min=0,max=720"`
	LateFeePercent          *int    `json:"late_fee_percent" binding:"omitempty,min=0,max=100"`
}

type TravelTierConfig struct {
	UpToMiles float64 `json:"up_to_miles" binding:"required,gt=0"`
	FeeCents  int64   `json:"fee_cents" binding:"min=0"`
}

type TravelTiersRequest struct {
	Tiers []TravelTierConfig `json:"tiers" binding:"dive"`
}

type BlackoutConfig struct {
	Weekday *int   `json:"weekday" binding:"omitempty,min=0,max=6"`
	Date    string `json:"date" binding:"omitempty,isodate"`
	Start   string `json:"start" binding:"required,hhmm"`
	End     string `json:"end" binding:"required,hhmm"`
	Reason  string `json:"reason" binding:"max=100"`
}

type BlackoutsRequest struct {
	Blackouts []BlackoutConfig `json:"blackouts" binding:"dive"`
}

// ======================================================
// PROFILE
// ======================================================

func (h *ProviderProfileHandler) Get(c *gin.Context) {
	profile, err := h.load(userID(c))
	if err != nil {
		httperr.Internal(c, "failed_to_get_profile", "Could not load the profile.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProviderProfileHandler) Update(c *gin.Context) {
	providerID := userID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	profile, err := h.load(providerID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_profile", "Could not load the profile.")
		return
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.FromError(c, httperr.ErrValidation("timezone", "invalid_timezone"))
			return
		}
		profile.Timezone = *req.Timezone
	}
	setInt(&profile.WorkStartHour, req.WorkStartHour)
	setInt(&profile.WorkEndHour, req.WorkEndHour)
	setInt(&profile.SlotGranularityMin, req.SlotGranularityMin)
	setInt(&profile.MaxLookaheadDays, req.MaxLookaheadDays)
	setInt(&profile.MinNoticeHours, req.MinNoticeHours)
	if req.CancellationNoticeHours != nil {
		profile.CancellationNoticeHours = req.CancellationNoticeHours
	}
	if req.LateFeePercent != nil {
		profile.LateFeePercent = req.LateFeePercent
	}

	if req.FreeTravelRadiusMiles != nil {
		profile.FreeTravelRadiusMiles = *req.FreeTravelRadiusMiles
	}
	if req.PerMileFeeCents != nil {
		profile.PerMileFeeCents = *req.PerMileFeeCents
	}
	if req.DefaultDistanceMiles != nil {
		profile.DefaultDistanceMiles = req.DefaultDistanceMiles
	}
	if req.CancellationPolicy != nil {
		profile.CancellationPolicy = *req.CancellationPolicy
	}

	window := scheduling.WorkingWindow{
		StartHour:      profile.WorkStartHour,
		EndHour:        profile.WorkEndHour,
		GranularityMin: profile.SlotGranularityMin,
	}
	if !window.Valid() {
		httperr.FromError(c, httperr.ErrValidation("work_end_hour", "invalid_working_hours"))
		return
	}

	if err := h.db.Omit("TravelFeeTiers", "Blackouts").Save(profile).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Could not save the profile.")
		return
	}

	h.record(providerID, "provider_profile_updated")
	c.JSON(http.StatusOK, profile)
}

// ======================================================
// TRAVEL TIERS
// ======================================================

func (h *ProviderProfileHandler) ReplaceTravelTiers(c *gin.Context) {
	providerID := userID(c)

	var req TravelTiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	tiers := make([]models.TravelFeeTier, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		tiers = append(tiers, models.TravelFeeTier{
			ProviderID: providerID,
			UpToMiles:  t.UpToMiles,
			FeeCents:   t.FeeCents,
		})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", providerID).Delete(&models.TravelFeeTier{}).Error; err != nil {
			return err
		}
		if len(tiers) == 0 {
			return nil
		}
		return tx.Create(&tiers).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_travel_tiers", "Could not save the travel fees.")
		return
	}

	h.record(providerID, "travel_tiers_updated")
	c.JSON(http.StatusOK, tiers)
}

// ======================================================
// BLACKOUTS
// ======================================================

func (h *ProviderProfileHandler) ReplaceBlackouts(c *gin.Context) {
	providerID := userID(c)

	var req BlackoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	blackouts := make([]models.Blackout, 0, len(req.Blackouts))
	for _, b := range req.Blackouts {
		row, err := blackoutFrom(providerID, b)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		blackouts = append(blackouts, row)
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", providerID).Delete(&models.Blackout{}).Error; err != nil {
			return err
		}
		if len(blackouts) == 0 {
			return nil
		}
		return tx.Create(&blackouts).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_blackouts", "Could not save the blocked times.")
		return
	}

	h.record(providerID, "blackouts_updated")
	c.JSON(http.StatusOK, blackouts)
}

// ======================================================
// HELPERS
// ======================================================

func (h *ProviderProfileHandler) load(providerID uint) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	err := h.db.
		Preload("TravelFeeTiers").
		Preload("Blackouts").
		Where(models.ProviderProfile{ProviderID: providerID}).
		Attrs(models.NewProviderProfile(providerID, h.defaultTimezone)).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (h *ProviderProfileHandler) record(providerID uint, action string) {
	h.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		ActorID:    &providerID,
		Action:     action,
		Entity:     "provider_profile",
	})
}

// blackoutFrom accepts either a weekday or a date, never both.
func blackoutFrom(providerID uint, b BlackoutConfig) (models.Blackout, error) {
	if (b.Weekday == nil) == (b.Date == "") {
		return models.Blackout{}, httperr.ErrValidation("weekday", "weekday_or_date_required")
	}

	start, _ := scheduling.ParseClock(b.Start)
	end, _ := scheduling.ParseClock(b.End)
	if end <= start {
		return models.Blackout{}, httperr.ErrValidation("end", "end_before_start")
	}

	row := models.Blackout{
		ProviderID:  providerID,
		Weekday:     b.Weekday,
		StartMinute: int(start),
		EndMinute:   int(end),
		Reason:      b.Reason,
	}
	if b.Date != "" {
		d, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			return models.Blackout{}, httperr.ErrValidation("date", "invalid_date")
		}
		row.Date = &d
	}
	return row, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
