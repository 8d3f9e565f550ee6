// Package stats turns session telemetry into results and renders reports.
package stats

import (
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, raw WPM, and accuracy from keystroke counts.
func SessionMetrics(correct, incorrect int, durationMs float64) (wpm, raw, accuracy float64) {
	if durationMs <= 0 {
		return 0, 0, 0
	}
	minutes := durationMs / 60000.0
	wpm = (float64(correct) / 5.0) / minutes
	raw = (float64(correct+incorrect) / 5.0) / minutes
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	return wpm, raw, accuracy
}

// MeanStdDev returns the mean and population standard deviation of values.
func MeanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		d := v - mean
		stddev += d * d
	}
	stddev = math.Sqrt(stddev / float64(len(values)))
	return mean, stddev
}

// Consistency maps the coefficient of variation of values onto 0-100, where
// 100 means perfectly even speed.
func Consistency(values []float64) float64 {
	mean, sd := MeanStdDev(values)
	if mean == 0 {
		return 0
	}
	return kogasa(sd / mean)
}

func kogasa(cov float64) float64 {
	return 100 * (1 - math.Tanh(cov+math.Pow(cov, 3)/3+math.Pow(cov, 5)/5))
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := minMax(values)
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	top := float64(len(sparkChars) - 1)
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * top))
		b.WriteByte(sparkChars[clamp(idx, 0, len(sparkChars)-1)])
	}
	return b.String()
}

func minMax(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
