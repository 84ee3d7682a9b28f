package scheduling

import (
	"fmt"
	"time"
)

const MinutesPerDay = 24 * 60

// Clock is a time of day expressed in minutes after midnight.
type Clock int

func ClockOf(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

func ParseClock(hm string) (Clock, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", hm, err)
	}
	return ClockOf(t.Hour(), t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On places the clock on the calendar day of date, in date's location.
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(c)/60, int(c)%60, 0, 0, date.Location())
}

// Interval is a closed-open range of minutes within one day: [Start, End).
type Interval struct {
	Start Clock
	End   Clock
}

func NewInterval(start Clock, durationMin int) Interval {
	return Interval{Start: start, End: start + Clock(durationMin)}
}

// Overlaps treats both intervals as closed-open, so back-to-back ranges
// (a.End == b.Start) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
