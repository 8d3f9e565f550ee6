package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestBarChartSingleRow(t *testing.T) {
	lines := BarChart([]float64{0, 4, 8}, 10, 1)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0] != " ▄█" {
		t.Fatalf("unexpected chart %q", lines[0])
	}
}

func TestBarChartStacksRows(t *testing.T) {
	lines := BarChart([]float64{8, 16}, 10, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != " █" || lines[1] != "██" {
		t.Fatalf("unexpected chart %q", lines)
	}
}

func TestBarChartResamples(t *testing.T) {
	lines := BarChart([]float64{1, 1, 1, 1, 1, 1}, 3, 1)
	if got := []rune(lines[0]); len(got) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(got))
	}
}

func TestRenderChartsSkipsEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCharts(&buf, "Speed", []Series{{Name: "wpm"}}, 20, 2); err != nil {
		t.Fatalf("RenderCharts failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	if err := RenderCharts(&buf, "Speed", []Series{{Name: "wpm", Values: []float64{10, 20}}}, 20, 2); err != nil {
		t.Fatalf("RenderCharts failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Speed") || !strings.Contains(out, "wpm (min 10.0, max 20.0)") {
		t.Fatalf("missing chart header: %q", out)
	}
}

func TestChartWidthFor(t *testing.T) {
	if got := ChartWidthFor(80); got != 78 {
		t.Fatalf("expected 78, got %d", got)
	}
	if got := ChartWidthFor(0); got != minChartWidth {
		t.Fatalf("expected min width %d, got %d", minChartWidth, got)
	}
}
