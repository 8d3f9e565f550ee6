package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series is a named data series for charting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultChartHeight  = 6
	minChartWidth       = 10
	chartIndent         = "  "
	terminalWidthBackup = 80
)

var barLevels = []rune(" ▁▂▃▄▅▆▇█")

// ChartWidthFor returns the chart width that fits in totalWidth columns.
func ChartWidthFor(totalWidth int) int {
	w := totalWidth - len(chartIndent)
	if w < minChartWidth {
		return minChartWidth
	}
	return w
}

// RenderCharts prints each series as a bar chart under a shared title.
// A width of zero sizes the charts to the terminal.
func RenderCharts(w io.Writer, title string, series []Series, width, height int) error {
	if width <= 0 {
		width = ChartWidthFor(terminalWidth())
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	wrote := false
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		if !wrote {
			if _, err := fmt.Fprintln(w, title); err != nil {
				return err
			}
			wrote = true
		}
		lo, hi := minMax(s.Values)
		if _, err := fmt.Fprintf(w, "%s (min %.1f, max %.1f)\n", s.Name, lo, hi); err != nil {
			return err
		}
		for _, line := range BarChart(s.Values, width, height) {
			if _, err := fmt.Fprintln(w, chartIndent+line); err != nil {
				return err
			}
		}
	}
	if wrote {
		_, err := fmt.Fprintln(w, "")
		return err
	}
	return nil
}

// BarChart renders values as columns of block characters scaled so the
// largest value fills height rows. Values are averaged down to width columns.
func BarChart(values []float64, width, height int) []string {
	if len(values) == 0 || height <= 0 {
		return nil
	}
	cols := resample(values, width)
	_, hi := minMax(cols)
	steps := len(barLevels) - 1
	levels := make([]int, len(cols))
	for i, v := range cols {
		if hi > 0 && v > 0 {
			levels[i] = int(math.Round(v / hi * float64(height*steps)))
		}
	}
	lines := make([]string, height)
	for row := 0; row < height; row++ {
		floor := (height - 1 - row) * steps
		var b strings.Builder
		for _, lvl := range levels {
			b.WriteRune(barLevels[clamp(lvl-floor, 0, steps)])
		}
		lines[row] = b.String()
	}
	return lines
}

func resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return terminalWidthBackup
}
