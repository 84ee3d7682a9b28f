package scheduling

import (
	"math"
	"sort"
)

// RecurringDiscountPercent is applied to the base price of every occurrence
// of a recurring series.
const RecurringDiscountPercent = 10

// DefaultDistanceMiles stands in for the customer distance when it is unknown.
const DefaultDistanceMiles = 5.0

// TravelTier charges FeeCents for distances below UpToMiles.
type TravelTier struct {
	UpToMiles float64 `json:"up_to_miles"`
	FeeCents  int64   `json:"fee_cents"`
}

// TravelPolicy is the provider's fixed distance-tier table.
type TravelPolicy struct {
	FreeRadiusMiles      float64
	Tiers                []TravelTier
	PerMileFeeCents      int64
	// DefaultDistanceMiles is the provider's stand-in distance; nil uses
	// the package default.
	DefaultDistanceMiles *float64
}

type PriceInput struct {
	BaseCents     int64
	Travel        TravelPolicy
	DistanceMiles *float64
	Recurring     bool
}

type PriceBreakdown struct {
	BaseCents      int64 `json:"base_cents"`
	TravelFeeCents int64 `json:"travel_fee_cents"`
	DiscountCents  int64 `json:"discount_cents"`
	TotalCents     int64 `json:"total_cents"`
}

// TravelFee looks the distance up in the tier table. Distances at or beyond
// the last tier pay the last tier fee plus the per-mile fee for every
// started mile past it.
func TravelFee(p TravelPolicy, distance *float64) int64 {
	miles := DefaultDistanceMiles
	if p.DefaultDistanceMiles != nil && *p.DefaultDistanceMiles >= 0 {
		miles = *p.DefaultDistanceMiles
	}
	if distance != nil && *distance >= 0 {
		miles = *distance
	}

	if miles < p.FreeRadiusMiles {
		return 0
	}

	tiers := append([]TravelTier(nil), p.Tiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].UpToMiles < tiers[j].UpToMiles })

	for _, t := range tiers {
		if miles < t.UpToMiles {
			return t.FeeCents
		}
	}

	var last TravelTier
	if len(tiers) > 0 {
		last = tiers[len(tiers)-1]
	} else {
		last.UpToMiles = p.FreeRadiusMiles
	}

	extra := int64(math.Ceil(miles - last.UpToMiles))
	if extra < 0 {
		extra = 0
	}
	return last.FeeCents + extra*p.PerMileFeeCents
}

// RecurringDiscount is round-half-up(base * 10%) in integer cents.
func RecurringDiscount(baseCents int64) int64 {
	if baseCents <= 0 {
		return 0
	}
	return (baseCents*RecurringDiscountPercent + 50) / 100
}

// Calculate returns base + travel - discount for one occurrence.
func Calculate(baseCents, travelFeeCents int64, recurring bool) int64 {
	total := baseCents + travelFeeCents
	if recurring {
		total -= RecurringDiscount(baseCents)
	}
	return total
}

func Quote(in PriceInput) PriceBreakdown {
	travel := TravelFee(in.Travel, in.DistanceMiles)

	var discount int64
	if in.Recurring {
		discount = RecurringDiscount(in.BaseCents)
	}

	return PriceBreakdown{
		BaseCents:      in.BaseCents,
		TravelFeeCents: travel,
		DiscountCents:  discount,
		TotalCents:     Calculate(in.BaseCents, travel, in.Recurring),
	}
}
