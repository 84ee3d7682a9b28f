package scheduling

import "time"

type Reason string

const (
	ReasonNone                Reason = ""
	ReasonTooSoon             Reason = "too_soon"
	ReasonTooFar              Reason = "too_far"
	ReasonExceedsWorkingHours Reason = "exceeds_working_hours"
	ReasonBlackout            Reason = "blackout"
	ReasonConflict            Reason = "conflict"
)

// IsPolicy reports whether the reason comes from provider rules rather than
// from another reservation.
func (r Reason) IsPolicy() bool {
	return r != ReasonNone && r != ReasonConflict
}

type AvailabilityInput struct {
	// Date is midnight of the target day in the provider's location.
	Date        time.Time
	Window      WorkingWindow
	DurationMin int

	// Busy holds the pending/confirmed reservations of that provider and day.
	Busy      []Interval
	Blackouts []Interval

	Now          time.Time
	MinNotice    time.Duration
	MaxLookahead time.Duration
}

type SlotAvailability struct {
	Start     Clock  `json:"start"`
	End       Clock  `json:"end"`
	Available bool   `json:"available"`
	Reason    Reason `json:"reason,omitempty"`
}

// FilterAvailability marks every candidate slot as available or not.
func FilterAvailability(in AvailabilityInput, slots []Clock) []SlotAvailability {
	out := make([]SlotAvailability, 0, len(slots))
	for _, s := range slots {
		out = append(out, Evaluate(in, s))
	}
	return out
}

// Evaluate checks a single start time against notice, look-ahead, working
// hours, blackouts and existing reservations, in that order.
func Evaluate(in AvailabilityInput, start Clock) SlotAvailability {
	slot := NewInterval(start, in.DurationMin)
	res := SlotAvailability{Start: slot.Start, End: slot.End}

	res.Reason = reasonFor(in, slot)
	res.Available = res.Reason == ReasonNone
	return res
}

func reasonFor(in AvailabilityInput, slot Interval) Reason {
	startAt := slot.Start.On(in.Date)

	if startAt.Before(in.Now.Add(in.MinNotice)) {
		return ReasonTooSoon
	}
	if in.MaxLookahead > 0 && startAt.After(in.Now.Add(in.MaxLookahead)) {
		return ReasonTooFar
	}
	if in.Window.Valid() && (slot.Start < in.Window.Start() || slot.End > in.Window.End()) {
		return ReasonExceedsWorkingHours
	}
	for _, b := range in.Blackouts {
		if slot.Overlaps(b) {
			return ReasonBlackout
		}
	}
	for _, b := range in.Busy {
		if slot.Overlaps(b) {
			return ReasonConflict
		}
	}
	return ReasonNone
}

// AvailableOnly drops unavailable slots, keeping order.
func AvailableOnly(slots []SlotAvailability) []SlotAvailability {
	out := make([]SlotAvailability, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}
