// Package replay reads recorded raw keyboard event logs and plays them back
// through a recorder, using the logged timestamps as the session clock.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/keytrace/internal/recorder"
)

// Event types.
const (
	TypeStart     = "start"
	TypeDown      = "down"
	TypeUp        = "up"
	TypeInput     = "input"
	TypeBackspace = "backspace"
	TypeCommit    = "commit"
	TypeEnd       = "end"
	TypeTick      = "tick"
	TypeOverflow  = "overflow"
	TypeAbandon   = "abandon"
)

// Event is one logged input event. T is in milliseconds on a monotonic clock.
type Event struct {
	T        float64 `json:"t" yaml:"t"`
	Type     string  `json:"type" yaml:"type"`
	Key      string  `json:"key,omitempty" yaml:"key,omitempty"`
	Text     string  `json:"text,omitempty" yaml:"text,omitempty"`
	Expected string  `json:"expected,omitempty" yaml:"expected,omitempty"`
	Word     int     `json:"word,omitempty" yaml:"word,omitempty"`
}

// Format is an event log encoding.
type Format int

const (
	// FormatJSONLines holds one JSON event per line.
	FormatJSONLines Format = iota
	// FormatYAML holds a YAML sequence of events.
	FormatYAML
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json", ".ndjson":
		return FormatJSONLines, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported event log extension %q", filepath.Ext(path))
	}
}

// ReadFile parses the event log at path.
func ReadFile(path string) ([]Event, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only event log.
			_ = cerr
		}
	}()
	return Read(file, format)
}

// Read parses an event log.
func Read(r io.Reader, format Format) ([]Event, error) {
	var events []Event
	switch format {
	case FormatJSONLines:
		scanner := bufio.NewScanner(r)
		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(text), &ev); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if err := validate(ev); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			events = append(events, ev)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&events); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml events: %w", err)
		}
		for i, ev := range events {
			if err := validate(ev); err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
		}
	default:
		return nil, fmt.Errorf("unknown event log format %d", format)
	}
	return events, nil
}

func validate(ev Event) error {
	switch ev.Type {
	case TypeStart, TypeBackspace, TypeTick, TypeOverflow, TypeAbandon:
		return nil
	case TypeDown, TypeUp:
		if ev.Key == "" {
			return fmt.Errorf("%s event without key", ev.Type)
		}
		return nil
	case TypeInput:
		if utf8.RuneCountInString(ev.Text) != 1 {
			return fmt.Errorf("input event needs exactly one character, got %q", ev.Text)
		}
		if utf8.RuneCountInString(ev.Expected) > 1 {
			return fmt.Errorf("input event expects at most one character, got %q", ev.Expected)
		}
		return nil
	case TypeCommit, TypeEnd:
		return nil
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
}

// Run plays events through a new recorder. opts.Clock is replaced by the
// event timestamps.
func Run(events []Event, opts recorder.Options) recorder.Result {
	var now float64
	opts.Clock = func() float64 { return now }
	rec := recorder.New(opts)
	for _, ev := range events {
		now = ev.T
		apply(rec, ev)
	}
	return rec.Finish()
}

func apply(rec *recorder.Recorder, ev Event) {
	switch ev.Type {
	case TypeStart:
		rec.Start()
	case TypeDown:
		rec.KeyDown(ev.Key)
	case TypeUp:
		rec.KeyUp(ev.Key)
	case TypeInput:
		typed, _ := utf8.DecodeRuneInString(ev.Text)
		expected := typed
		if ev.Expected != "" {
			expected, _ = utf8.DecodeRuneInString(ev.Expected)
		}
		rec.Input(typed, expected, ev.Word)
	case TypeBackspace:
		rec.Backspace()
	case TypeCommit:
		rec.CommitWord(ev.Text, ev.Word)
	case TypeEnd:
		rec.EndWord(ev.Text, ev.Word)
	case TypeTick:
		rec.Tick()
	case TypeOverflow:
		rec.DeclareOverflow()
	case TypeAbandon:
		rec.Abandon()
	}
}
