package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/keytrace/internal/model"
	"github.com/verte-zerg/keytrace/internal/stats"
)

const chartHeight = 8

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true)
	activeTabStyle = tabStyle.
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveTabStyle = tabStyle.
				Foreground(lipgloss.Color("#B0B0B0")).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle      = tabStyle.BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	return strings.TrimRight(renderCards(sessions, width)+"\n\n"+renderCurves(sessions, window, width), "\n")
}

func renderCards(sessions []model.SessionAggregate, width int) string {
	var wpm, acc, cons, spacing, best float64
	var keystrokes int64
	timed := 0
	for _, s := range sessions {
		wpm += s.WPM
		acc += s.Accuracy
		cons += s.Consistency
		best = max(best, s.WPM)
		keystrokes += int64(s.Correct + s.Incorrect)
		if !s.TimingsOverflowed {
			spacing += s.SpacingMean
			timed++
		}
	}
	n := float64(len(sessions))
	spacingValue := "-"
	if timed > 0 {
		spacingValue = fmt.Sprintf("%.0f ms", spacing/float64(timed))
	}
	cards := []string{
		card("Sessions", humanize.Comma(int64(len(sessions)))),
		card("Avg WPM", fmt.Sprintf("%.1f", wpm/n)),
		card("Best WPM", fmt.Sprintf("%.1f", best)),
		card("Avg Acc", fmt.Sprintf("%.1f%%", acc/n*100)),
		card("Consistency", fmt.Sprintf("%.1f%%", cons/n)),
		card("Key spacing", spacingValue),
		card("Keystrokes", humanize.Comma(keystrokes)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...),
	)
}

func card(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderCurves(sessions []model.SessionAggregate, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, sessions, window, width, chartHeight); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// renderDetail shows one stored session with its per-second keystroke counts.
func renderDetail(s model.SessionAggregate, seconds []model.SecondRecord, width int) string {
	duration := (time.Duration(s.DurationMs) * time.Millisecond).Round(time.Second)
	lines := []string{
		fmt.Sprintf("Session %s (%s)", s.EndedAt.Local().Format("2006-01-02 15:04"), duration),
		fmt.Sprintf("WPM %.1f  Raw %.1f  Accuracy %.1f%%  Consistency %.1f%%", s.WPM, s.Raw, s.Accuracy*100, s.Consistency),
	}
	if s.TimingsOverflowed {
		lines = append(lines, "Keystroke timings: collection stopped (too long)")
	} else {
		lines = append(lines, fmt.Sprintf("Key spacing %.1f ms  Key hold %.1f ms  Overlap %.0f ms", s.SpacingMean, s.HoldMean, s.OverlapMs))
	}

	keys := make([]float64, len(seconds))
	errs := make([]float64, len(seconds))
	afk := 0
	for i, sec := range seconds {
		keys[i] = float64(sec.Count)
		errs[i] = float64(sec.Errors)
		if sec.AFK {
			afk++
		}
	}
	lines = append(lines, fmt.Sprintf("AFK seconds: %d of %d", afk, len(seconds)), "")

	var buf bytes.Buffer
	err := stats.RenderCharts(&buf, "Keystrokes per second", []stats.Series{
		{Name: "Keys", Values: keys},
		{Name: "Errors", Values: errs},
	}, stats.ChartWidthFor(width), chartHeight)
	if err != nil {
		lines = append(lines, fmt.Sprintf("Failed to render charts: %v", err))
	} else if len(seconds) == 0 {
		lines = append(lines, "No per-second data.")
	} else {
		lines = append(lines, strings.TrimRight(buf.String(), "\n"))
	}
	return strings.Join(lines, "\n")
}

func newTable(columns []table.Column) table.Model {
	t := table.New(table.WithColumns(columns), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1, 0, 0)
	styles.Cell = styles.Cell.Padding(0, 1, 0, 0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "WPM", Width: 7},
		{Title: "Raw", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Consistency", Width: 11},
		{Title: "Spacing (ms)", Width: 12},
		{Title: "Hold (ms)", Width: 9},
	}
}

// sessionRows lists sessions newest first; sessions are stored oldest first.
func sessionRows(sessions []model.SessionAggregate, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		spacing, hold := "-", "-"
		if !s.TimingsOverflowed {
			spacing, hold = fmt.Sprintf("%.1f", s.SpacingMean), fmt.Sprintf("%.1f", s.HoldMean)
		}
		rows = append(rows, table.Row{
			humanize.RelTime(s.EndedAt, now, "ago", "from now"),
			fmt.Sprintf("%.1f", s.WPM),
			fmt.Sprintf("%.1f", s.Raw),
			fmt.Sprintf("%.1f%%", s.Accuracy*100),
			fmt.Sprintf("%.1f%%", s.Consistency),
			spacing,
			hold,
		})
	}
	return rows
}

func wordColumns() []table.Column {
	return []table.Column{
		{Title: "Word", Width: 24},
		{Title: "Misses", Width: 8},
	}
}

func wordRows(words []model.WordCount) []table.Row {
	rows := make([]table.Row, len(words))
	for i, wc := range words {
		rows[i] = table.Row{wc.Word, strconv.Itoa(wc.Count)}
	}
	return rows
}
