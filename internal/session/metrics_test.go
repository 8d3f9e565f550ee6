package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsPerSecondBuckets(t *testing.T) {
	m := NewMetrics()

	current := m.Current()
	assert.True(t, current.AFK, "a fresh second is idle until proven otherwise")

	m.RecordKeypress()
	m.RecordKeypress()
	m.RecordError()
	m.MarkNotAFK()
	m.RecordWordTouch(0)
	m.RecordWordTouch(0)
	m.RecordWordTouch(1)
	m.FinalizeSecond()
	m.FinalizeSecond()

	seconds := m.Seconds()
	require.Len(t, seconds, 2)
	assert.Equal(t, Second{Count: 2, Errors: 1, Words: []int{0, 1}, AFK: false}, seconds[0])
	assert.Equal(t, Second{AFK: true}, seconds[1])
	assert.Equal(t, Second{AFK: true}, m.Current())
}

func TestMetricsSecondsAreCopies(t *testing.T) {
	m := NewMetrics()
	m.RecordWordTouch(3)
	m.FinalizeSecond()

	seconds := m.Seconds()
	seconds[0].Words[0] = 99
	assert.Equal(t, []int{3}, m.Seconds()[0].Words)
}

func TestMetricsAccuracy(t *testing.T) {
	m := NewMetrics()
	m.RecordAccuracy(true)
	m.RecordAccuracy(true)
	m.RecordAccuracy(false)
	assert.Equal(t, Accuracy{Correct: 2, Incorrect: 1}, m.Accuracy())
}

func TestMetricsMissedWords(t *testing.T) {
	m := NewMetrics()
	m.RecordMissedWord("the")
	m.RecordMissedWord("the")
	m.RecordMissedWord("cat")
	assert.Equal(t, map[string]int{"the": 2, "cat": 1}, m.MissedWords())
}

func TestMetricsPushBurstOverwritesRepeatedWord(t *testing.T) {
	m := NewMetrics()
	for i, v := range []float64{60, 70, 75, 80} {
		m.PushBurst(v, i)
	}
	m.PushBurst(80, 3)
	m.PushBurst(95, 3)
	assert.Equal(t, []float64{60, 70, 75, 95}, m.BurstHistory())

	m.PushBurst(50, 4)
	assert.Equal(t, []float64{60, 70, 75, 95, 50}, m.BurstHistory())
}

func TestMetricsPushBurstOutOfRangeAppends(t *testing.T) {
	m := NewMetrics()
	m.PushBurst(10, 5)
	m.PushBurst(20, -1)
	assert.Equal(t, []float64{10, 20}, m.BurstHistory())
}

func TestMetricsHistories(t *testing.T) {
	m := NewMetrics()
	m.PushWPM(40)
	m.PushWPM(42.5)
	m.PushRaw(50)
	assert.Equal(t, []float64{40, 42.5}, m.WPMHistory())
	assert.Equal(t, []float64{50}, m.RawHistory())
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordKeypress()
	m.MarkNotAFK()
	m.FinalizeSecond()
	m.RecordAccuracy(false)
	m.RecordMissedWord("x")
	m.PushWPM(1)
	m.PushRaw(1)
	m.PushBurst(1, 0)
	m.Reset()

	assert.Empty(t, m.Seconds())
	assert.Equal(t, Second{AFK: true}, m.Current())
	assert.Equal(t, Accuracy{}, m.Accuracy())
	assert.Empty(t, m.MissedWords())
	assert.Empty(t, m.WPMHistory())
	assert.Empty(t, m.RawHistory())
	assert.Empty(t, m.BurstHistory())
}
