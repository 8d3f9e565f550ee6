// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang     string
	Words    int
	CapsPct  float64
	PunctPct float64
	PunctSet string

	// FocusMissed biases word selection toward recently missed words.
	FocusMissed  bool
	MissedWindow int
	MissedFactor float64

	Telemetry TelemetryConfig
}

// TelemetryConfig controls in-session keystroke timing collection.
type TelemetryConfig struct {
	// Debug emits timing trace points to the log.
	Debug bool
	// MaxTimingSamples freezes timing collection once a series reaches it.
	// Zero disables the limit.
	MaxTimingSamples int
	// TrackedKeys overrides the default tracked key codes when non-empty.
	TrackedKeys []string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
	TopWords    int
}

// SessionRecord captures a completed typing test for storage.
type SessionRecord struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	Lang         string
	Words        int
	WordListPath string

	WPM         float64
	Raw         float64
	Accuracy    float64
	Consistency float64
	Correct     int
	Incorrect   int
	DurationMs  int64
	AFKSeconds  int

	SpacingMean       float64
	SpacingStdDev     float64
	HoldMean          float64
	HoldStdDev        float64
	OverlapMs         float64
	TimingsOverflowed bool

	Seconds     []SecondRecord
	MissedWords []WordCount
}

// SecondRecord stores one per-second keypress bucket.
type SecondRecord struct {
	Index  int
	Count  int
	Errors int
	Words  []int
	AFK    bool
}

// WordCount pairs a word with an occurrence count.
type WordCount struct {
	Word  string
	Count int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID         string
	EndedAt           time.Time
	WPM               float64
	Raw               float64
	Accuracy          float64
	Consistency       float64
	Correct           int
	Incorrect         int
	DurationMs        int64
	SpacingMean       float64
	HoldMean          float64
	OverlapMs         float64
	TimingsOverflowed bool
}
