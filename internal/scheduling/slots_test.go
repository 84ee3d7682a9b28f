package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlotsCountAndBounds(t *testing.T) {
	cases := []struct {
		name  string
		w     WorkingWindow
		count int
	}{
		{"half hours 9 to 19", WorkingWindow{StartHour: 9, EndHour: 19, GranularityMin: 30}, 20},
		{"hourly", WorkingWindow{StartHour: 8, EndHour: 12, GranularityMin: 60}, 4},
		{"non dividing granularity", WorkingWindow{StartHour: 9, EndHour: 10, GranularityMin: 25}, 3},
		{"granularity larger than window", WorkingWindow{StartHour: 9, EndHour: 10, GranularityMin: 90}, 1},
		{"full day", WorkingWindow{StartHour: 0, EndHour: 24, GranularityMin: 45}, 32},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots := GenerateSlots(tc.w)

			assert.Len(t, slots, tc.count)
			assert.Equal(t, tc.w.Start(), slots[0])
			for i, s := range slots {
				assert.Less(t, s, tc.w.End(), "slot %d must start before the window end", i)
				if i > 0 {
					assert.Equal(t, Clock(tc.w.GranularityMin), s-slots[i-1])
				}
			}
		})
	}
}

func TestGenerateSlotsPropertyCeilCount(t *testing.T) {
	for h0 := 0; h0 < 24; h0 += 3 {
		for h1 := h0 + 1; h1 <= 24; h1 += 2 {
			for _, g := range []int{5, 15, 20, 30, 35, 45, 60, 120} {
				w := WorkingWindow{StartHour: h0, EndHour: h1, GranularityMin: g}
				want := ((h1-h0)*60 + g - 1) / g

				slots := GenerateSlots(w)
				assert.Len(t, slots, want, "window %+v", w)
				assert.Less(t, slots[len(slots)-1], w.End())
			}
		}
	}
}

func TestGenerateSlotsInvalidWindow(t *testing.T) {
	assert.Empty(t, GenerateSlots(WorkingWindow{StartHour: 9, EndHour: 9, GranularityMin: 30}))
	assert.Empty(t, GenerateSlots(WorkingWindow{StartHour: 10, EndHour: 9, GranularityMin: 30}))
	assert.Empty(t, GenerateSlots(WorkingWindow{StartHour: 9, EndHour: 17, GranularityMin: 0}))
	assert.Empty(t, GenerateSlots(WorkingWindow{StartHour: 9, EndHour: 25, GranularityMin: 30}))
}

func TestGenerateSlotsIsRestartable(t *testing.T) {
	w := WorkingWindow{StartHour: 9, EndHour: 12, GranularityMin: 30}
	first := GenerateSlots(w)
	first[0] = 0
	assert.Equal(t, ClockOf(9, 0), GenerateSlots(w)[0])
}

func TestClockFormatting(t *testing.T) {
	c, err := ParseClock("09:30")
	assert.NoError(t, err)
	assert.Equal(t, ClockOf(9, 30), c)
	assert.Equal(t, "09:30", c.String())

	_, err = ParseClock("9h30")
	assert.Error(t, err)

	b, err := ClockOf(18, 5).MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "18:05", string(b))
}
