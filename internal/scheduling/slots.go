package scheduling

// WorkingWindow is a provider's bookable day: [StartHour, EndHour) split
// every GranularityMin minutes.
type WorkingWindow struct {
	StartHour      int
	EndHour        int
	GranularityMin int
}

func (w WorkingWindow) Valid() bool {
	return w.GranularityMin > 0 &&
		w.StartHour >= 0 && w.EndHour <= 24 &&
		w.EndHour > w.StartHour
}

func (w WorkingWindow) Start() Clock { return ClockOf(w.StartHour, 0) }
func (w WorkingWindow) End() Clock   { return ClockOf(w.EndHour, 0) }

// GenerateSlots lists candidate start times from the window start, stepping
// by the granularity and stopping before the window end. A granularity that
// does not divide the window truncates the last step.
func GenerateSlots(w WorkingWindow) []Clock {
	if !w.Valid() {
		return nil
	}

	start, end := w.Start(), w.End()
	step := Clock(w.GranularityMin)

	slots := make([]Clock, 0, int((end-start+step-1)/step))
	for cur := start; cur < end; cur += step {
		slots = append(slots, cur)
	}
	return slots
}
