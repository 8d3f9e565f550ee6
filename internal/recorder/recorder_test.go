package recorder

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keytrace/internal/session"
)

type manualClock struct{ now float64 }

func (c *manualClock) read() float64 { return c.now }

func newTestRecorder(t *testing.T, opts Options) (*Recorder, *manualClock) {
	t.Helper()
	clock := &manualClock{}
	opts.Clock = clock.read
	return New(opts), clock
}

func typeWord(r *Recorder, clock *manualClock, typed, target string, wordIndex int, step float64) {
	targetRunes := []rune(target)
	for i, ch := range typed {
		clock.now += step
		expected := ' '
		if i < len(targetRunes) {
			expected = targetRunes[i]
		}
		r.Input(ch, expected, wordIndex)
	}
	clock.now += step
	r.CommitWord(target, wordIndex)
}

func TestRecorderTypesWords(t *testing.T) {
	r, clock := newTestRecorder(t, Options{})
	r.Start()

	typeWord(r, clock, "the", "the", 0, 100)
	typeWord(r, clock, "cst", "cat", 1, 100)

	snap := r.Finish().Snapshot
	assert.Equal(t, []string{"the", "cst"}, snap.Entry)
	assert.Equal(t, []string{"the", "cst"}, snap.Corrected)
	assert.Equal(t, map[string]int{"cat": 1}, snap.MissedWords)
	assert.Equal(t, session.Accuracy{Correct: 6, Incorrect: 2}, snap.Accuracy)
	require.Len(t, snap.Burst, 2)
	assert.Equal(t, 120.0, snap.Burst[0], "4 chars in 400ms")
	assert.Equal(t, 120.0, snap.Burst[1])

	assert.Len(t, snap.Spacing, 8)
	for _, gap := range snap.Spacing {
		assert.Equal(t, 100.0, gap)
	}
}

func TestRecorderBackspaceKeepsCorrections(t *testing.T) {
	r, clock := newTestRecorder(t, Options{})
	r.Start()

	clock.now = 10
	r.Input('x', 'a', 0)
	assert.False(t, r.Backspace())
	clock.now = 20
	r.Input('a', 'a', 0)
	clock.now = 30
	r.CommitWord("a", 0)

	snap := r.Finish().Snapshot
	assert.Equal(t, []string{"a"}, snap.Entry)
	assert.Equal(t, []string{"xa"}, snap.Corrected)
	assert.Empty(t, snap.MissedWords)
}

func TestRecorderRetryOverwritesBurst(t *testing.T) {
	r, clock := newTestRecorder(t, Options{})
	r.Start()
	typeWord(r, clock, "ab", "ab", 0, 100)
	typeWord(r, clock, "cx", "cd", 1, 100)

	assert.True(t, r.Backspace(), "reopen previous word")
	assert.Equal(t, "cx", r.State().Entry().Current())
	r.Backspace()
	clock.now += 50
	r.Input('d', 'd', 1)
	clock.now += 50
	r.CommitWord("cd", 1)

	snap := r.Finish().Snapshot
	assert.Len(t, snap.Burst, 2)
	assert.Equal(t, []string{"ab", "cd"}, snap.Entry)
	assert.Equal(t, map[string]int{"cd": 1}, snap.MissedWords)
}

func TestRecorderTick(t *testing.T) {
	r, clock := newTestRecorder(t, Options{})
	r.Start()
	for i := 0; i < 5; i++ {
		clock.now += 200
		r.Input('a', 'a', 0)
	}
	r.Tick()
	clock.now = 2000
	r.Tick()

	snap := r.Finish().Snapshot
	assert.Equal(t, []float64{60, 30}, snap.WPM)
	assert.Equal(t, []float64{60, 0}, snap.Raw)
	require.Len(t, snap.Seconds, 2)
	assert.Equal(t, session.Second{Count: 5, Words: []int{0}, AFK: false}, snap.Seconds[0])
	assert.True(t, snap.Seconds[1].AFK)
}

func TestRecorderKeyEvents(t *testing.T) {
	r, clock := newTestRecorder(t, Options{})
	r.Start()
	clock.now = 100
	r.KeyDown("KeyA")
	clock.now = 110
	r.KeyDown("KeyS")
	clock.now = 160
	r.KeyUp("KeyA")
	clock.now = 170
	r.KeyUp("KeyS")

	snap := r.Finish().Snapshot
	assert.Equal(t, []float64{60, 60}, snap.Durations)
	assert.Equal(t, 50.0, snap.Overlap)
}

func TestRecorderOverflowLimit(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	r, clock := newTestRecorder(t, Options{MaxTimingSamples: 3, Logger: logger})
	r.Start()
	for i := 0; i < 10; i++ {
		clock.now += 10
		r.Input('a', 'a', 0)
	}

	snap := r.Finish().Snapshot
	assert.True(t, snap.TimingsOverflowed)
	assert.Nil(t, snap.Spacing)
	assert.Equal(t, 10, snap.Accuracy.Correct, "overflow only freezes timings")
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("collection frozen")))
}

func TestRecorderDebugTraces(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, clock := newTestRecorder(t, Options{Debug: true, Logger: logger})
	r.Start()
	clock.now = 50
	r.Input('a', 'a', 0)

	assert.Contains(t, logs.String(), "event=push")
	assert.Contains(t, logs.String(), "event=reset")
}

func TestRecorderRestart(t *testing.T) {
	r, clock := newTestRecorder(t, Options{})
	typeWord(r, clock, "ab", "ab", 0, 100)
	assert.True(t, r.Started(), "first keypress starts the test")
	r.Abandon()
	r.Restart()

	assert.False(t, r.Started())
	assert.Zero(t, r.Elapsed())
	snap := r.State().Snapshot()
	assert.Empty(t, snap.Entry)
	assert.False(t, snap.Bailout)
}

func TestRecorderEndWordSkipsSeparator(t *testing.T) {
	r, clock := newTestRecorder(t, Options{})
	r.Start()
	for _, ch := range "go" {
		clock.now += 100
		r.Input(ch, ch, 0)
	}
	assert.False(t, r.EndWord("go", 0))

	snap := r.Finish().Snapshot
	assert.Equal(t, []string{"go"}, snap.Entry)
	assert.Equal(t, []float64{120}, snap.Burst, "2 chars in 200ms")
	assert.Equal(t, session.Accuracy{Correct: 2}, snap.Accuracy)
	assert.Len(t, snap.Spacing, 2)
	assert.Empty(t, snap.MissedWords)
}

func TestRecorderReopenKeepsCorrectionsAligned(t *testing.T) {
	r, clock := newTestRecorder(t, Options{})
	r.Start()
	typeWord(r, clock, "go", "go", 0, 100)

	clock.now += 100
	r.Input('p', 'o', 1)
	assert.False(t, r.Backspace())
	assert.True(t, r.Backspace(), "reopen previous word")
	assert.Equal(t, "go", r.State().Corrected().Current())
	clock.now += 100
	r.CommitWord("go", 0)

	snap := r.Finish().Snapshot
	assert.Equal(t, []string{"go"}, snap.Entry)
	assert.Equal(t, []string{"go"}, snap.Corrected)
	assert.Equal(t, len(snap.Entry), r.State().Corrected().HistoryLen())
}

func TestRecorderImplicitStartKeepsPendingKeys(t *testing.T) {
	r, clock := newTestRecorder(t, Options{})
	clock.now = 100
	r.KeyDown("KeyG")
	clock.now = 110
	r.Input('g', 'g', 0)
	clock.now = 160
	r.KeyUp("KeyG")

	assert.True(t, r.Started())
	snap := r.Finish().Snapshot
	assert.Equal(t, []float64{60}, snap.Durations)
	assert.Equal(t, []float64{0}, snap.Spacing, "spacing measured from the implicit start")
}
