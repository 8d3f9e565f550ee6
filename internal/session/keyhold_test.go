package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyHoldRolloverScenario(t *testing.T) {
	h := NewKeyHoldTracker(DefaultKeySet(), nil)

	h.KeyDown("KeyA", 100)
	h.KeyDown("KeyS", 110)
	h.KeyUp("KeyA", 160)
	h.KeyUp("KeyS", 170)

	got, ok := h.Durations().Samples()
	require.True(t, ok)
	assert.Equal(t, []float64{60, 60}, got)
	assert.Equal(t, 50.0, h.Overlap())
	assert.Equal(t, 0, h.Pending())
}

func TestKeyHoldRoundsDuration(t *testing.T) {
	h := NewKeyHoldTracker(DefaultKeySet(), nil)
	h.KeyDown("KeyQ", 10.001)
	h.KeyUp("KeyQ", 95.4567)

	got, _ := h.Durations().Samples()
	assert.Equal(t, []float64{85.46}, got)
}

func TestKeyHoldIgnoresMalformedInput(t *testing.T) {
	h := NewKeyHoldTracker(DefaultKeySet(), nil)

	h.KeyUp("KeyA", 10)
	assert.Equal(t, 0, h.Durations().Len(), "release without press")

	h.KeyDown("KeyA", 20)
	h.KeyDown("KeyA", 40)
	h.KeyUp("KeyA", 50)
	got, _ := h.Durations().Samples()
	assert.Equal(t, []float64{30}, got, "second press of a held key is ignored")

	h.KeyUp("KeyA", 60)
	assert.Equal(t, 1, h.Durations().Len(), "second release is ignored")
}

func TestKeyHoldIgnoresUntrackedKeys(t *testing.T) {
	h := NewKeyHoldTracker(DefaultKeySet(), nil)

	h.KeyDown("ShiftLeft", 0)
	h.KeyDown("KeyA", 10)
	h.KeyUp("KeyA", 30)
	h.KeyUp("ShiftLeft", 40)

	got, _ := h.Durations().Samples()
	assert.Equal(t, []float64{20}, got)
	assert.Zero(t, h.Overlap(), "modifier chords do not count as overlap")
}

func TestKeyHoldOverlapNeverDecreases(t *testing.T) {
	h := NewKeyHoldTracker(DefaultKeySet(), nil)
	events := []struct {
		down bool
		code string
		t    float64
	}{
		{true, "KeyA", 0},
		{true, "KeyB", 5},
		{true, "KeyC", 8},
		{false, "KeyA", 20},
		{false, "KeyB", 30},
		{true, "KeyD", 31},
		{false, "KeyC", 29},
		{false, "KeyD", 50},
	}
	prev := 0.0
	for _, ev := range events {
		if ev.down {
			h.KeyDown(ev.code, ev.t)
		} else {
			h.KeyUp(ev.code, ev.t)
		}
		require.GreaterOrEqual(t, h.Overlap(), prev)
		prev = h.Overlap()
	}
	assert.Equal(t, 25.0, h.Overlap())
}

func TestKeyHoldOverflowStillReleasesKeys(t *testing.T) {
	h := NewKeyHoldTracker(DefaultKeySet(), nil)
	h.KeyDown("KeyA", 0)
	h.Durations().overflow()
	h.KeyUp("KeyA", 10)

	assert.Equal(t, 0, h.Pending())
	_, ok := h.Durations().Samples()
	assert.False(t, ok)
}

func TestKeyHoldReset(t *testing.T) {
	h := NewKeyHoldTracker(DefaultKeySet(), nil)
	h.KeyDown("KeyA", 0)
	h.KeyDown("KeyB", 1)
	h.KeyUp("KeyA", 10)
	h.KeyDown("KeyC", 11)
	h.Reset()

	assert.Equal(t, 0, h.Pending())
	assert.Zero(t, h.Overlap())
	assert.Equal(t, Active, h.Durations().State())
	assert.Equal(t, 0, h.Durations().Len())
}

func TestKeyHoldTracesDurations(t *testing.T) {
	var events []string
	tracer := TracerFunc(func(event string, value float64, length int) {
		events = append(events, event)
		assert.Equal(t, 40.0, value)
		assert.Equal(t, 1, length)
	})
	h := NewKeyHoldTracker(DefaultKeySet(), tracer)
	h.KeyDown("Space", 0)
	h.KeyUp("Space", 40)
	assert.Equal(t, []string{"hold"}, events)
}

func TestKeyCodeForRune(t *testing.T) {
	cases := map[rune]string{
		'a': "KeyA", 'Z': "KeyZ", '7': "Digit7", '?': "Slash", ' ': "Space", '"': "Quote",
	}
	for r, want := range cases {
		got, ok := KeyCodeForRune(r)
		require.True(t, ok, "rune %q", r)
		assert.Equal(t, want, got)
		assert.True(t, DefaultKeySet().Has(got))
	}
	_, ok := KeyCodeForRune('é')
	assert.False(t, ok)
}

func TestDefaultKeySet(t *testing.T) {
	ks := DefaultKeySet()
	assert.Equal(t, 48, ks.Len())
	assert.Equal(t, "Backquote", ks.Codes()[0])
	assert.Equal(t, "Space", ks.Codes()[47])
	assert.False(t, ks.Has("ControlLeft"))

	dup := NewKeySet("KeyA", "KeyA", "", "KeyB")
	assert.Equal(t, []string{"KeyA", "KeyB"}, dup.Codes())
}
