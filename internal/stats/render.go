package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/keytrace/internal/model"
)

// RenderResult prints the outcome of a single test.
func RenderResult(w io.Writer, r Result) error {
	lines := []string{
		fmt.Sprintf("WPM: %.2f  Raw: %.2f  Accuracy: %.2f%%", r.WPM, r.Raw, r.Accuracy*100),
		fmt.Sprintf("Consistency: %.2f%%  Time: %.1fs  Keystrokes: %d/%d", r.Consistency, r.DurationMs/1000, r.Correct, r.Incorrect),
	}
	if r.AFKSeconds > 0 {
		lines = append(lines, fmt.Sprintf("AFK: %ds", r.AFKSeconds))
	}
	if r.TimingsOverflowed {
		lines = append(lines, "Keystroke timings: collection stopped (too long)")
	} else {
		lines = append(lines,
			fmt.Sprintf("Key spacing: %.2f ms (sd %.2f, n=%d)", r.Spacing.Mean, r.Spacing.StdDev, r.Spacing.Samples))
		if r.Hold.Samples > 0 {
			lines = append(lines,
				fmt.Sprintf("Key hold: %.2f ms (sd %.2f, n=%d)  Overlap: %.0f ms (%.1f%%)",
					r.Hold.Mean, r.Hold.StdDev, r.Hold.Samples, r.OverlapMs, r.OverlapShare*100))
		}
	}
	if r.Bailout {
		lines = append(lines, "Test abandoned")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalRaw, totalAcc, totalCons float64
	var keystrokes int64
	var duration int64
	bestWPM := 0.0
	for _, s := range sessions {
		totalWPM += s.WPM
		totalRaw += s.Raw
		totalAcc += s.Accuracy
		totalCons += s.Consistency
		keystrokes += int64(s.Correct + s.Incorrect)
		duration += s.DurationMs
		if s.WPM > bestWPM {
			bestWPM = s.WPM
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Typing time: %s", (time.Duration(duration) * time.Millisecond).Round(time.Second)),
		fmt.Sprintf("Keystrokes: %s", humanize.Comma(keystrokes)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg Raw: %.2f", totalRaw/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		fmt.Sprintf("Avg Consistency: %.2f%%", totalCons/count),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessionTable prints recent sessions with their age relative to now.
func RenderSessionTable(w io.Writer, sessions []model.SessionAggregate, now time.Time) error {
	if len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	table := newTextTable(left("When"), right("WPM"), right("Raw"), right("Accuracy"), right("Spacing (ms)"), right("Hold (ms)"))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		spacing, hold := fmt.Sprintf("%.1f", s.SpacingMean), fmt.Sprintf("%.1f", s.HoldMean)
		if s.TimingsOverflowed {
			spacing, hold = "-", "-"
		}
		table.addRow(
			humanize.RelTime(s.EndedAt, now, "ago", "from now"),
			fmt.Sprintf("%.2f", s.WPM),
			fmt.Sprintf("%.2f", s.Raw),
			fmt.Sprintf("%.2f%%", s.Accuracy*100),
			spacing,
			hold,
		)
	}
	return table.write(w)
}

// RenderCurves prints learning curves for WPM and accuracy.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, defaultChartHeight)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = s.WPM
		accs[i] = s.Accuracy * 100
	}
	width := 0
	if totalWidth > 0 {
		width = ChartWidthFor(totalWidth)
	}
	return RenderCharts(w, "Learning Curves", []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	}, width, height)
}

// RenderSpeedCharts prints the per-second speed histories of one test.
func RenderSpeedCharts(w io.Writer, r Result, totalWidth, height int) error {
	width := 0
	if totalWidth > 0 {
		width = ChartWidthFor(totalWidth)
	}
	return RenderCharts(w, "Speed", []Series{
		{Name: "WPM", Values: r.WPMHistory},
		{Name: "Raw", Values: r.RawHistory},
		{Name: "Burst", Values: r.Burst},
	}, width, height)
}

// RenderMissedWords prints the most frequently missed words.
func RenderMissedWords(w io.Writer, words []model.WordCount) error {
	if len(words) == 0 {
		_, err := fmt.Fprintln(w, "No missed words.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Missed Words"); err != nil {
		return err
	}
	table := newTextTable(left("Word"), right("Misses"))
	for _, wc := range words {
		table.addRow(wc.Word, humanize.Comma(int64(wc.Count)))
	}
	return table.write(w)
}
