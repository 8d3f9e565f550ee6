package session

// SpacingTracker measures the time between consecutive keypresses.
type SpacingTracker struct {
	clock   Clock
	tracer  Tracer
	spacing Series

	last    float64
	hasLast bool
}

// NewSpacingTracker returns a tracker with no previous keypress.
func NewSpacingTracker(clock Clock, tracer Tracer) *SpacingTracker {
	return &SpacingTracker{clock: clock, tracer: tracer}
}

// Record registers a keypress at t. The first keypress only seeds the
// tracker; every later one appends the gap to the previous keypress.
func (s *SpacingTracker) Record(t float64) {
	if s.hasLast {
		diff := RoundTo(abs(s.last-t), 2)
		if s.spacing.Append(diff) {
			trace(s.tracer, "push", diff, s.spacing.Len())
		}
	}
	s.last = t
	s.hasLast = true
	trace(s.tracer, "set", t, s.spacing.Len())
	trace(s.tracer, "recorded", 0, s.spacing.Len())
}

// Last returns the timestamp of the previous keypress, if any.
func (s *SpacingTracker) Last() (float64, bool) {
	return s.last, s.hasLast
}

// Spacing returns the spacing series.
func (s *SpacingTracker) Spacing() *Series {
	return &s.spacing
}

// Reset empties the series and seeds the previous keypress with the current
// clock reading, so the first keypress after a reset is measured from it.
func (s *SpacingTracker) Reset() {
	s.spacing.reset()
	s.last = s.clock()
	s.hasLast = true
}

// Restart empties the series and forgets the previous keypress.
func (s *SpacingTracker) Restart() {
	s.spacing.reset()
	s.last = 0
	s.hasLast = false
}
