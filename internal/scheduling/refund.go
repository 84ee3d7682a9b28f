package scheduling

import "time"

type PolicyClass string

const (
	PolicyFlexible PolicyClass = "flexible"
	PolicyModerate PolicyClass = "moderate"
	PolicyStrict   PolicyClass = "strict"
)

func (c PolicyClass) Valid() bool {
	switch c {
	case PolicyFlexible, PolicyModerate, PolicyStrict:
		return true
	}
	return false
}

// CancellationPolicy grants a full refund with at least NoticeHours of
// notice, 100-LateFeePercent with at least half of it, nothing below.
type CancellationPolicy struct {
	Class          PolicyClass `json:"class"`
	NoticeHours    int         `json:"notice_hours"`
	LateFeePercent int         `json:"late_fee_percent"`
}

var policyPresets = map[PolicyClass]CancellationPolicy{
	PolicyFlexible: {Class: PolicyFlexible, NoticeHours: 24, LateFeePercent: 50},
	PolicyModerate: {Class: PolicyModerate, NoticeHours: 48, LateFeePercent: 50},
	PolicyStrict:   {Class: PolicyStrict, NoticeHours: 72, LateFeePercent: 100},
}

// PolicyFor returns the preset of class with the provider's overrides
// applied. A nil override keeps the preset value and zero is a real value;
// unknown classes fall back to flexible.
func PolicyFor(class PolicyClass, noticeHours, lateFeePercent *int) CancellationPolicy {
	p, ok := policyPresets[class]
	if !ok {
		p = policyPresets[PolicyFlexible]
	}
	if noticeHours != nil {
		p.NoticeHours = max(*noticeHours, 0)
	}
	if lateFeePercent != nil {
		p.LateFeePercent = min(max(*lateFeePercent, 0), 100)
	}
	return p
}

type RefundTier string

const (
	RefundFull    RefundTier = "full"
	RefundPartial RefundTier = "partial"
	RefundNone    RefundTier = "none"
	RefundNoShow  RefundTier = "no_show"
)

type RefundDecision struct {
	Percent int           `json:"refund_percentage"`
	Tier    RefundTier    `json:"tier"`
	Notice  time.Duration `json:"-"`
}

// EvaluateRefund decides the refund for a cancellation at cancelledAt of an
// appointment starting at start. Cancelling at or after the start counts as
// a no-show.
func EvaluateRefund(start, cancelledAt time.Time, p CancellationPolicy) RefundDecision {
	notice := start.Sub(cancelledAt)

	if notice <= 0 {
		return RefundDecision{Percent: 0, Tier: RefundNoShow, Notice: notice}
	}

	full := time.Duration(p.NoticeHours) * time.Hour
	partial := full / 2

	switch {
	case notice >= full:
		return RefundDecision{Percent: 100, Tier: RefundFull, Notice: notice}
	case notice >= partial:
		pct := max(100-p.LateFeePercent, 0)
		tier := RefundPartial
		if pct == 0 {
			tier = RefundNone
		}
		return RefundDecision{Percent: pct, Tier: tier, Notice: notice}
	default:
		return RefundDecision{Percent: 0, Tier: RefundNone, Notice: notice}
	}
}

// RefundAmount rounds down to whole cents.
func RefundAmount(totalCents int64, percent int) int64 {
	if percent <= 0 || totalCents <= 0 {
		return 0
	}
	return totalCents * int64(min(percent, 100)) / 100
}
