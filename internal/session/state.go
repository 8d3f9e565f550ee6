package session

// Options configures a State.
type Options struct {
	// Clock defaults to MonotonicClock.
	Clock Clock
	// Keys defaults to DefaultKeySet.
	Keys KeySet
	// Tracer receives timing trace points; nil disables tracing.
	Tracer Tracer
}

// State owns all telemetry of the test in progress.
type State struct {
	clock  Clock
	tracer Tracer

	entry     TextBuffer
	corrected TextBuffer
	hold      *KeyHoldTracker
	spacing   *SpacingTracker
	metrics   *Metrics
	guard     *OverflowGuard

	lastKeypress float64
	burstStart   float64
	bailout      bool
}

// New returns a State ready for a test.
func New(opts Options) *State {
	if opts.Clock == nil {
		opts.Clock = MonotonicClock()
	}
	if opts.Keys.Len() == 0 {
		opts.Keys = DefaultKeySet()
	}
	s := &State{
		clock:   opts.Clock,
		tracer:  opts.Tracer,
		hold:    NewKeyHoldTracker(opts.Keys, opts.Tracer),
		spacing: NewSpacingTracker(opts.Clock, opts.Tracer),
		metrics: NewMetrics(),
	}
	s.guard = NewOverflowGuard(opts.Tracer, s.spacing.Spacing(), s.hold.Durations())
	return s
}

// Now reads the session clock.
func (s *State) Now() float64 {
	return s.clock()
}

// Entry returns the buffer of typed text as it currently stands.
func (s *State) Entry() *TextBuffer { return &s.entry }

// Corrected returns the buffer of everything typed, corrections included.
func (s *State) Corrected() *TextBuffer { return &s.corrected }

// Hold returns the key hold tracker.
func (s *State) Hold() *KeyHoldTracker { return s.hold }

// Spacing returns the keypress spacing tracker.
func (s *State) Spacing() *SpacingTracker { return s.spacing }

// Metrics returns the per-second and history metrics.
func (s *State) Metrics() *Metrics { return s.metrics }

// DeclareOverflow freezes both timing series until the next reset.
func (s *State) DeclareOverflow() {
	s.guard.Declare()
}

// TimingsOverflowed reports whether the timing series were frozen.
func (s *State) TimingsOverflowed() bool {
	return s.guard.Tripped()
}

// TouchKeypress stamps the time of the latest keypress.
func (s *State) TouchKeypress() {
	s.lastKeypress = s.clock()
}

// LastKeypress returns the time stamped by TouchKeypress.
func (s *State) LastKeypress() float64 {
	return s.lastKeypress
}

// SetBurstStart sets the start time of the word being typed.
func (s *State) SetBurstStart(t float64) {
	s.burstStart = t
}

// BurstStart returns the start time of the word being typed.
func (s *State) BurstStart() float64 {
	return s.burstStart
}

// SetBailout marks the test as abandoned.
func (s *State) SetBailout(v bool) {
	s.bailout = v
}

// Bailout reports whether the test was abandoned.
func (s *State) Bailout() bool {
	return s.bailout
}

// ResetTimings clears the timing trackers at test start and seeds the
// spacing tracker with the current time.
func (s *State) ResetTimings() {
	s.hold.Reset()
	s.spacing.Reset()
	trace(s.tracer, "reset", 0, 0)
}

// Restart returns every component to its initial state so the next test can
// reuse this State.
func (s *State) Restart() {
	s.entry.Reset()
	s.corrected.Reset()
	s.hold.Reset()
	s.spacing.Restart()
	s.metrics.Reset()
	s.lastKeypress = 0
	s.burstStart = 0
	s.bailout = false
}

// Snapshot is a detached copy of a State.
type Snapshot struct {
	Entry     []string
	Corrected []string

	Seconds     []Second
	Accuracy    Accuracy
	MissedWords map[string]int
	WPM         []float64
	Raw         []float64
	Burst       []float64

	Spacing           []float64
	Durations         []float64
	TimingsOverflowed bool
	Overlap           float64

	Bailout bool
}

// Snapshot copies the current session data.
func (s *State) Snapshot() Snapshot {
	spacing, _ := s.spacing.Spacing().Samples()
	durations, _ := s.hold.Durations().Samples()
	return Snapshot{
		Entry:             s.entry.History(),
		Corrected:         s.corrected.History(),
		Seconds:           s.metrics.Seconds(),
		Accuracy:          s.metrics.Accuracy(),
		MissedWords:       s.metrics.MissedWords(),
		WPM:               s.metrics.WPMHistory(),
		Raw:               s.metrics.RawHistory(),
		Burst:             s.metrics.BurstHistory(),
		Spacing:           spacing,
		Durations:         durations,
		TimingsOverflowed: s.guard.Tripped(),
		Overlap:           s.hold.Overlap(),
		Bailout:           s.bailout,
	}
}
