package session

// SeriesState tells whether a Series still collects samples.
type SeriesState int

const (
	// Active series append samples.
	Active SeriesState = iota
	// Overflowed series drop samples until reset.
	Overflowed
)

func (s SeriesState) String() string {
	switch s {
	case Active:
		return "active"
	case Overflowed:
		return "overflowed"
	default:
		return "unknown"
	}
}

// Series is an append-only list of timing samples in milliseconds that can
// be switched irreversibly into the Overflowed state.
type Series struct {
	state   SeriesState
	samples []float64
}

// State reports whether the series is active or overflowed.
func (s *Series) State() SeriesState {
	return s.state
}

// Overflowed reports whether the series has been declared too long.
func (s *Series) Overflowed() bool {
	return s.state == Overflowed
}

// Append adds a sample. It returns false when the series is overflowed.
func (s *Series) Append(v float64) bool {
	switch s.state {
	case Active:
		s.samples = append(s.samples, v)
		return true
	case Overflowed:
		return false
	default:
		return false
	}
}

// Len returns the number of retained samples; zero once overflowed.
func (s *Series) Len() int {
	return len(s.samples)
}

// Samples returns a copy of the retained samples. The second result is false
// when the series is overflowed.
func (s *Series) Samples() ([]float64, bool) {
	if s.state == Overflowed {
		return nil, false
	}
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out, true
}

func (s *Series) overflow() {
	s.state = Overflowed
	s.samples = nil
}

func (s *Series) reset() {
	s.state = Active
	s.samples = nil
}

// OverflowGuard switches a group of series into the Overflowed state
// together.
type OverflowGuard struct {
	series []*Series
	tracer Tracer
}

// NewOverflowGuard returns a guard over the given series.
func NewOverflowGuard(tracer Tracer, series ...*Series) *OverflowGuard {
	return &OverflowGuard{series: series, tracer: tracer}
}

// Declare overflows every guarded series, including any a leaf reset revived
// since the last call. The overflow trace is emitted only when no series was
// overflowed before.
func (g *OverflowGuard) Declare() {
	tripped := g.Tripped()
	for _, s := range g.series {
		s.overflow()
	}
	if !tripped {
		trace(g.tracer, "overflow", 0, 0)
	}
}

// Tripped reports whether the guarded series are overflowed.
func (g *OverflowGuard) Tripped() bool {
	for _, s := range g.series {
		if s.Overflowed() {
			return true
		}
	}
	return false
}
