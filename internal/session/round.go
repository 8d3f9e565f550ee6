package session

import (
	"math"
	"time"
)

// Clock returns a monotonic timestamp in milliseconds.
type Clock func() float64

// MonotonicClock returns a Clock measuring milliseconds since its creation.
func MonotonicClock() Clock {
	base := time.Now()
	return func() float64 {
		return float64(time.Since(base).Nanoseconds()) / 1e6
	}
}

// RoundTo rounds x to the given number of decimal places.
func RoundTo(x float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(x*p) / p
}

// Tracer receives debug trace points from the timing trackers.
type Tracer interface {
	Trace(event string, value float64, length int)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(event string, value float64, length int)

// Trace implements Tracer.
func (f TracerFunc) Trace(event string, value float64, length int) {
	f(event, value, length)
}

func trace(t Tracer, event string, value float64, length int) {
	if t == nil {
		return
	}
	t.Trace(event, value, length)
}
