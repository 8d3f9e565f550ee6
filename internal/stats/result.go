package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/keytrace/internal/model"
	"github.com/verte-zerg/keytrace/internal/recorder"
	"github.com/verte-zerg/keytrace/internal/session"
)

// Timing summarizes a keystroke timing series in milliseconds.
type Timing struct {
	Mean    float64
	StdDev  float64
	Samples int
}

// Result holds the computed outcome of one test.
type Result struct {
	WPM         float64
	Raw         float64
	Accuracy    float64
	Consistency float64
	Correct     int
	Incorrect   int
	DurationMs  float64
	Words       int
	AFKSeconds  int
	Bailout     bool

	Spacing           Timing
	Hold              Timing
	OverlapMs         float64
	OverlapShare      float64
	TimingsOverflowed bool

	MissedWords []model.WordCount
	WPMHistory  []float64
	RawHistory  []float64
	Burst       []float64
	Seconds     []session.Second
}

// Compute derives the result of a finished test.
func Compute(res recorder.Result) Result {
	snap := res.Snapshot
	wpm, raw, acc := SessionMetrics(snap.Accuracy.Correct, snap.Accuracy.Incorrect, res.DurationMs)
	out := Result{
		WPM:               session.RoundTo(wpm, 2),
		Raw:               session.RoundTo(raw, 2),
		Accuracy:          acc,
		Consistency:       session.RoundTo(Consistency(snap.Raw), 2),
		Correct:           snap.Accuracy.Correct,
		Incorrect:         snap.Accuracy.Incorrect,
		DurationMs:        res.DurationMs,
		Words:             len(snap.Entry),
		Bailout:           snap.Bailout,
		TimingsOverflowed: snap.TimingsOverflowed,
		OverlapMs:         session.RoundTo(snap.Overlap, 2),
		MissedWords:       TopWords(snap.MissedWords, 0),
		WPMHistory:        snap.WPM,
		RawHistory:        snap.Raw,
		Burst:             snap.Burst,
		Seconds:           snap.Seconds,
	}
	for _, s := range snap.Seconds {
		if s.AFK {
			out.AFKSeconds++
		}
	}
	if !snap.TimingsOverflowed {
		out.Spacing = summarize(snap.Spacing)
		out.Hold = summarize(snap.Durations)
	}
	if res.DurationMs > 0 {
		out.OverlapShare = snap.Overlap / res.DurationMs
	}
	return out
}

func summarize(samples []float64) Timing {
	mean, sd := MeanStdDev(samples)
	return Timing{
		Mean:    session.RoundTo(mean, 2),
		StdDev:  session.RoundTo(sd, 2),
		Samples: len(samples),
	}
}

// Record converts a result into a storable session record with a new id.
func (r Result) Record(startedAt time.Time, lang string, words int, wordListPath string) model.SessionRecord {
	seconds := make([]model.SecondRecord, len(r.Seconds))
	for i, s := range r.Seconds {
		seconds[i] = model.SecondRecord{
			Index:  i,
			Count:  s.Count,
			Errors: s.Errors,
			Words:  append([]int(nil), s.Words...),
			AFK:    s.AFK,
		}
	}
	return model.SessionRecord{
		ID:                uuid.NewString(),
		StartedAt:         startedAt,
		EndedAt:           startedAt.Add(time.Duration(r.DurationMs * float64(time.Millisecond))),
		Lang:              lang,
		Words:             words,
		WordListPath:      wordListPath,
		WPM:               r.WPM,
		Raw:               r.Raw,
		Accuracy:          r.Accuracy,
		Consistency:       r.Consistency,
		Correct:           r.Correct,
		Incorrect:         r.Incorrect,
		DurationMs:        int64(r.DurationMs),
		AFKSeconds:        r.AFKSeconds,
		SpacingMean:       r.Spacing.Mean,
		SpacingStdDev:     r.Spacing.StdDev,
		HoldMean:          r.Hold.Mean,
		HoldStdDev:        r.Hold.StdDev,
		OverlapMs:         r.OverlapMs,
		TimingsOverflowed: r.TimingsOverflowed,
		Seconds:           seconds,
		MissedWords:       r.MissedWords,
	}
}
