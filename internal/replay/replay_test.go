package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keytrace/internal/recorder"
)

const rolloverJSONL = `# two overlapping keys then a word
{"t": 0, "type": "start"}
{"t": 100, "type": "down", "key": "KeyA"}
{"t": 100, "type": "input", "text": "a", "expected": "a"}
{"t": 110, "type": "down", "key": "KeyS"}
{"t": 110, "type": "input", "text": "s", "expected": "s"}
{"t": 160, "type": "up", "key": "KeyA"}
{"t": 170, "type": "up", "key": "KeyS"}

{"t": 200, "type": "commit", "text": "as"}
{"t": 1000, "type": "tick"}
`

const rolloverYAML = `
- {t: 0, type: start}
- {t: 100, type: down, key: KeyA}
- {t: 100, type: input, text: a, expected: a}
- {t: 110, type: down, key: KeyS}
- {t: 110, type: input, text: s, expected: s}
- {t: 160, type: up, key: KeyA}
- {t: 170, type: up, key: KeyS}
- {t: 200, type: commit, text: as}
- {t: 1000, type: tick}
`

func TestReadFormatsAgree(t *testing.T) {
	fromJSON, err := Read(strings.NewReader(rolloverJSONL), FormatJSONLines)
	require.NoError(t, err)
	fromYAML, err := Read(strings.NewReader(rolloverYAML), FormatYAML)
	require.NoError(t, err)

	require.Len(t, fromJSON, 9)
	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, Event{T: 110, Type: TypeDown, Key: "KeyS"}, fromJSON[3])
}

func TestRunRollover(t *testing.T) {
	events, err := Read(strings.NewReader(rolloverJSONL), FormatJSONLines)
	require.NoError(t, err)

	res := Run(events, recorder.Options{})
	snap := res.Snapshot
	assert.Equal(t, []float64{60, 60}, snap.Durations)
	assert.Equal(t, 50.0, snap.Overlap)
	assert.Equal(t, []float64{100, 10, 90}, snap.Spacing)
	assert.Equal(t, []string{"as"}, snap.Entry)
	assert.Equal(t, []float64{36}, snap.WPM)
	assert.Equal(t, []float64{36}, snap.Raw)
	assert.Equal(t, 1000.0, res.DurationMs)
}

func TestRunOverflowEvent(t *testing.T) {
	events := []Event{
		{T: 0, Type: TypeStart},
		{T: 10, Type: TypeInput, Text: "a"},
		{T: 20, Type: TypeOverflow},
		{T: 30, Type: TypeInput, Text: "b"},
		{T: 40, Type: TypeAbandon},
	}
	snap := Run(events, recorder.Options{}).Snapshot
	assert.True(t, snap.TimingsOverflowed)
	assert.Nil(t, snap.Spacing)
	assert.True(t, snap.Bailout)
	assert.Equal(t, 2, snap.Accuracy.Correct)
}

func TestReadRejectsBadEvents(t *testing.T) {
	cases := map[string]string{
		"unknown type":   `{"t": 1, "type": "wiggle"}`,
		"missing key":    `{"t": 1, "type": "down"}`,
		"long input":     `{"t": 1, "type": "input", "text": "ab"}`,
		"malformed json": `{"t": 1,`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(body), FormatJSONLines)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestReadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "run.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(rolloverYAML), 0o644))
	events, err := ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, events, 9)

	_, err = ReadFile(filepath.Join(dir, "run.csv"))
	require.Error(t, err)
}

func TestRunEndEventClosesLastWord(t *testing.T) {
	events := []Event{
		{T: 0, Type: TypeStart},
		{T: 100, Type: TypeInput, Text: "o", Expected: "o"},
		{T: 200, Type: TypeInput, Text: "k", Expected: "k"},
		{T: 200, Type: TypeEnd, Text: "ok"},
	}
	snap := Run(events, recorder.Options{}).Snapshot
	assert.Equal(t, []string{"ok"}, snap.Entry)
	assert.Equal(t, []float64{120}, snap.Burst, "2 chars in 200ms")
	assert.Len(t, snap.Spacing, 2)
}
