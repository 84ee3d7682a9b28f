package scheduling

import (
	"fmt"
	"slices"
	"time"
)

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// AllowedOccurrenceCounts are the series lengths a customer may pick.
var AllowedOccurrenceCounts = []int{2, 4, 6, 8, 12}

func ValidateOccurrenceCount(n int) bool {
	return slices.Contains(AllowedOccurrenceCounts, n)
}

// ExpandOccurrences returns count dates starting at anchor. Monthly steps
// keep the anchor's day of month, clamped to the length of shorter months,
// so Jan 31 expands to Feb 28 and then Mar 31.
func ExpandOccurrences(anchor time.Time, freq Frequency, count int) ([]time.Time, error) {
	if count < 1 {
		return nil, fmt.Errorf("occurrence count must be positive, got %d", count)
	}
	if !freq.Valid() {
		return nil, fmt.Errorf("unknown frequency %q", freq)
	}

	y, m, d := anchor.Date()
	loc := anchor.Location()

	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		switch freq {
		case FrequencyWeekly:
			dates = append(dates, time.Date(y, m, d+7*i, 0, 0, 0, 0, loc))
		case FrequencyBiweekly:
			dates = append(dates, time.Date(y, m, d+14*i, 0, 0, 0, 0, loc))
		case FrequencyMonthly:
			dates = append(dates, addMonthsClamped(y, m, d, i, loc))
		}
	}
	return dates, nil
}

func addMonthsClamped(y int, m time.Month, d, months int, loc *time.Location) time.Time {
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, loc)
	day := min(d, daysIn(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
