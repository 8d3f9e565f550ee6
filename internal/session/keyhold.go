package session

// KeyHoldTracker pairs key-down and key-up events per physical key into hold
// durations, and accumulates the time during which two or more tracked keys
// were held at once.
type KeyHoldTracker struct {
	keys      KeySet
	pending   map[string]float64
	durations Series
	tracer    Tracer

	overlapTotal float64
	overlapStart float64
	overlapOpen  bool
}

// NewKeyHoldTracker returns a tracker limited to keys.
func NewKeyHoldTracker(keys KeySet, tracer Tracer) *KeyHoldTracker {
	return &KeyHoldTracker{
		keys:    keys,
		pending: map[string]float64{},
		tracer:  tracer,
	}
}

// KeyDown marks code as pressed at t. Repeated presses without a release and
// untracked codes are ignored.
func (h *KeyHoldTracker) KeyDown(code string, t float64) {
	if !h.keys.Has(code) {
		return
	}
	if _, down := h.pending[code]; down {
		return
	}
	h.pending[code] = t
	h.updateOverlap(t)
}

// KeyUp records the hold duration of code released at t. Releases of keys
// that are not pending are ignored.
func (h *KeyHoldTracker) KeyUp(code string, t float64) {
	if !h.keys.Has(code) {
		return
	}
	pressedAt, down := h.pending[code]
	if !down {
		return
	}
	d := RoundTo(abs(t-pressedAt), 2)
	if h.durations.Append(d) {
		trace(h.tracer, "hold", d, h.durations.Len())
	}
	delete(h.pending, code)
	h.updateOverlap(t)
}

func (h *KeyHoldTracker) updateOverlap(t float64) {
	if len(h.pending) > 1 {
		if !h.overlapOpen {
			h.overlapOpen = true
			h.overlapStart = t
		}
		return
	}
	if h.overlapOpen {
		if span := t - h.overlapStart; span > 0 {
			h.overlapTotal += span
		}
		h.overlapOpen = false
		h.overlapStart = 0
	}
}

// Pending returns the number of keys currently held.
func (h *KeyHoldTracker) Pending() int {
	return len(h.pending)
}

// Overlap returns the accumulated multi-key hold time in milliseconds. An
// overlap window that is still open is not included.
func (h *KeyHoldTracker) Overlap() float64 {
	return h.overlapTotal
}

// Durations returns the hold-duration series.
func (h *KeyHoldTracker) Durations() *Series {
	return &h.durations
}

// Reset forgets pending keys and overlap and empties the duration series.
func (h *KeyHoldTracker) Reset() {
	h.pending = map[string]float64{}
	h.overlapTotal = 0
	h.overlapStart = 0
	h.overlapOpen = false
	h.durations.reset()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
