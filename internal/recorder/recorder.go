// Package recorder drives a session.State from typing events: it stamps
// events with the session clock, applies the timing overflow limit, closes
// per-second buckets and derives per-word burst speeds.
package recorder

import (
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/verte-zerg/keytrace/internal/session"
)

// DefaultMaxTimingSamples is the timing series length at which collection
// is frozen.
const DefaultMaxTimingSamples = 10000

// Options configures a Recorder.
type Options struct {
	Clock            session.Clock
	Keys             session.KeySet
	MaxTimingSamples int
	Debug            bool
	Logger           *slog.Logger
}

// Result is the data of a finished test.
type Result struct {
	Snapshot   session.Snapshot
	DurationMs float64
}

// Recorder feeds typing events into a session.State.
type Recorder struct {
	state      *session.State
	clock      session.Clock
	logger     *slog.Logger
	maxSamples int

	started   bool
	startedAt float64
}

// New returns a Recorder with a fresh session.
func New(opts Options) *Recorder {
	if opts.Clock == nil {
		opts.Clock = session.MonotonicClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var tracer session.Tracer
	if opts.Debug {
		tracer = slogTracer{logger: opts.Logger}
	}
	return &Recorder{
		state: session.New(session.Options{
			Clock:  opts.Clock,
			Keys:   opts.Keys,
			Tracer: tracer,
		}),
		clock:      opts.Clock,
		logger:     opts.Logger,
		maxSamples: opts.MaxTimingSamples,
	}
}

// State exposes the underlying session.
func (r *Recorder) State() *session.State {
	return r.state
}

// Started reports whether Start was called since the last restart.
func (r *Recorder) Started() bool {
	return r.started
}

// Start begins a test at the current clock reading.
func (r *Recorder) Start() {
	r.state.ResetTimings()
	r.begin()
}

func (r *Recorder) begin() {
	now := r.clock()
	r.state.SetBurstStart(now)
	r.started = true
	r.startedAt = now
	r.logger.Debug("test started", "at", now)
}

// Elapsed returns milliseconds since Start.
func (r *Recorder) Elapsed() float64 {
	if !r.started {
		return 0
	}
	return r.clock() - r.startedAt
}

// KeyDown records a physical key press.
func (r *Recorder) KeyDown(code string) {
	r.state.Hold().KeyDown(code, r.clock())
}

// KeyUp records a physical key release.
func (r *Recorder) KeyUp(code string) {
	r.state.Hold().KeyUp(code, r.clock())
	r.enforceLimit()
}

// Input records a typed character against the expected one for the word at
// wordIndex. It reports whether the character was correct.
func (r *Recorder) Input(typed, expected rune, wordIndex int) bool {
	correct := typed == expected
	r.keypress(wordIndex, correct)
	r.state.Entry().AppendCurrent(string(typed))
	r.state.Corrected().AppendCurrent(string(typed))
	return correct
}

// Backspace deletes the last typed character of the current word. On an
// empty word it reopens the previous one and reports true.
func (r *Recorder) Backspace() bool {
	entry := r.state.Entry()
	if _, ok := entry.TrimCurrent(); ok {
		return false
	}
	if entry.HistoryLen() == 0 {
		return false
	}
	entry.SetCurrent(entry.PopLast())
	r.state.Corrected().SetCurrent(r.state.Corrected().PopLast())
	return true
}

// CommitWord records the word separator for the word at wordIndex and moves
// both buffers to the next word. It reports whether the word was missed.
func (r *Recorder) CommitWord(target string, wordIndex int) bool {
	typed := r.state.Entry().Current()
	missed := typed != target
	r.keypress(wordIndex, !missed)
	r.closeWord(target, wordIndex, utf8.RuneCountInString(typed)+1)
	return missed
}

// EndWord moves to the next word without a separator keystroke, as when the
// final word of a test is typed out. It reports whether the word was missed.
func (r *Recorder) EndWord(target string, wordIndex int) bool {
	missed := r.state.Entry().Current() != target
	r.closeWord(target, wordIndex, utf8.RuneCountInString(r.state.Entry().Current()))
	return missed
}

func (r *Recorder) closeWord(target string, wordIndex, chars int) {
	if r.state.Entry().Current() != target {
		r.state.Metrics().RecordMissedWord(target)
	}
	now := r.clock()
	r.state.Metrics().PushBurst(burstSpeed(chars, now-r.state.BurstStart()), wordIndex)
	r.state.SetBurstStart(now)

	r.state.Entry().Commit()
	r.state.Corrected().Commit()
}

// Tick closes the current second: it appends the running wpm and the raw
// speed of the closing second, then finalizes the bucket.
func (r *Recorder) Tick() {
	m := r.state.Metrics()
	minutes := r.Elapsed() / 60000
	wpm := 0.0
	if minutes > 0 {
		wpm = session.RoundTo(float64(m.Accuracy().Correct)/5/minutes, 2)
	}
	m.PushWPM(wpm)
	m.PushRaw(session.RoundTo(float64(m.Current().Count)*60/5, 2))
	m.FinalizeSecond()
}

// DeclareOverflow freezes timing collection for the rest of the test.
func (r *Recorder) DeclareOverflow() {
	if r.state.TimingsOverflowed() {
		return
	}
	r.state.DeclareOverflow()
	r.logger.Warn("keystroke timings too long, collection frozen", "limit", r.maxSamples)
}

// Finish returns the data of the test.
func (r *Recorder) Finish() Result {
	res := Result{
		Snapshot:   r.state.Snapshot(),
		DurationMs: r.Elapsed(),
	}
	r.logger.Info("test finished",
		"duration_ms", session.RoundTo(res.DurationMs, 2),
		"words", len(res.Snapshot.Entry),
		"timings_overflowed", res.Snapshot.TimingsOverflowed,
	)
	return res
}

// Abandon marks the test as bailed out.
func (r *Recorder) Abandon() {
	r.state.SetBailout(true)
}

// Restart prepares the recorder for a new test.
func (r *Recorder) Restart() {
	r.state.Restart()
	r.started = false
	r.startedAt = 0
}

func (r *Recorder) keypress(wordIndex int, correct bool) {
	if !r.started {
		// Keys pressed before the first character belong to this test.
		r.state.Spacing().Reset()
		r.begin()
	}
	now := r.clock()
	r.state.Spacing().Record(now)
	r.state.TouchKeypress()

	m := r.state.Metrics()
	m.RecordKeypress()
	m.MarkNotAFK()
	m.RecordWordTouch(wordIndex)
	m.RecordAccuracy(correct)
	if !correct {
		m.RecordError()
	}
	r.enforceLimit()
}

func (r *Recorder) enforceLimit() {
	if r.maxSamples <= 0 || r.state.TimingsOverflowed() {
		return
	}
	if r.state.Spacing().Spacing().Len() >= r.maxSamples || r.state.Hold().Durations().Len() >= r.maxSamples {
		r.DeclareOverflow()
	}
}

func burstSpeed(chars int, elapsedMs float64) float64 {
	if elapsedMs <= 0 {
		return 0
	}
	return session.RoundTo(float64(chars)/5/(elapsedMs/60000), 2)
}

type slogTracer struct {
	logger *slog.Logger
}

func (t slogTracer) Trace(event string, value float64, length int) {
	t.logger.Debug("timing trace", "event", event, "value", value, "length", length)
}
