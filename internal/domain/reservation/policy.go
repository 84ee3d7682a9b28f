package reservation

import (
	"time"

	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

// Window builds the slot generator input from the provider profile.
func Window(p *models.ProviderProfile) scheduling.WorkingWindow {
	return scheduling.WorkingWindow{
		StartHour:      p.WorkStartHour,
		EndHour:        p.WorkEndHour,
		GranularityMin: p.SlotGranularityMin,
	}
}

func TravelPolicy(p *models.ProviderProfile) scheduling.TravelPolicy {
	tiers := make([]scheduling.TravelTier, 0, len(p.TravelFeeTiers))
	for _, t := range p.TravelFeeTiers {
		tiers = append(tiers, scheduling.TravelTier{UpToMiles: t.UpToMiles, FeeCents: t.FeeCents})
	}

	return scheduling.TravelPolicy{
		FreeRadiusMiles:      p.FreeTravelRadiusMiles,
		Tiers:                tiers,
		PerMileFeeCents:      p.PerMileFeeCents,
		DefaultDistanceMiles: p.DefaultDistanceMiles,
	}
}

func CancellationPolicy(p *models.ProviderProfile) scheduling.CancellationPolicy {
	return scheduling.PolicyFor(
		scheduling.PolicyClass(p.CancellationPolicy),
		p.CancellationNoticeHours,
		p.LateFeePercent,
	)
}

func MinNotice(p *models.ProviderProfile) time.Duration {
	return time.Duration(p.MinNoticeHours) * time.Hour
}

func MaxLookahead(p *models.ProviderProfile) time.Duration {
	return time.Duration(p.MaxLookaheadDays) * 24 * time.Hour
}

// BlackoutsOn returns the blackout intervals that apply to day.
func BlackoutsOn(blackouts []models.Blackout, day time.Time) []scheduling.Interval {
	var out []scheduling.Interval
	for i := range blackouts {
		b := &blackouts[i]
		if b.AppliesOn(day) {
			out = append(out, scheduling.Interval{
				Start: scheduling.Clock(b.StartMinute),
				End:   scheduling.Clock(b.EndMinute),
			})
		}
	}
	return out
}
