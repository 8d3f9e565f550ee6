package statsui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keytrace/internal/model"
)

const dateLayout = "2006-01-02"

// settingsField binds one text input to a StatsConfig field.
type settingsField struct {
	input textinput.Model
	show  func(model.StatsConfig) string
	apply func(*model.StatsConfig, string) error
}

// settingsForm edits the report filters in place of the body.
type settingsForm struct {
	fields []settingsField
	focus  int
	err    string
}

func newSettingsForm() settingsForm {
	return settingsForm{fields: []settingsField{
		{
			input: newInput("Lang: "),
			show:  func(c model.StatsConfig) string { return c.Lang },
			apply: func(c *model.StatsConfig, v string) error {
				c.Lang = v
				return nil
			},
		},
		{
			input: newInput("Since (YYYY-MM-DD): "),
			show: func(c model.StatsConfig) string {
				if c.Since == nil {
					return ""
				}
				return c.Since.Format(dateLayout)
			},
			apply: func(c *model.StatsConfig, v string) error {
				if v == "" {
					return nil
				}
				since, err := time.ParseInLocation(dateLayout, v, time.Local)
				if err != nil {
					return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
				}
				c.Since = &since
				return nil
			},
		},
		countField("Last: ", "last value", 0,
			func(c model.StatsConfig) int { return c.Last },
			func(c *model.StatsConfig, n int) { c.Last = n }),
		countField("Curve window: ", "curve window", 1,
			func(c model.StatsConfig) int { return c.CurveWindow },
			func(c *model.StatsConfig, n int) { c.CurveWindow = n }),
		countField("Top words: ", "top words", 0,
			func(c model.StatsConfig) int { return c.TopWords },
			func(c *model.StatsConfig, n int) { c.TopWords = n }),
	}}
}

// countField edits an integer setting. A blank value means zero, which is
// only accepted when minimum is zero; zero is shown blank.
func countField(prompt, name string, minimum int, get func(model.StatsConfig) int, set func(*model.StatsConfig, int)) settingsField {
	return settingsField{
		input: newInput(prompt),
		show: func(c model.StatsConfig) string {
			if n := get(c); n > 0 || minimum > 0 {
				return strconv.Itoa(n)
			}
			return ""
		},
		apply: func(c *model.StatsConfig, v string) error {
			n := 0
			if v != "" {
				parsed, err := strconv.Atoi(v)
				if err != nil {
					return fmt.Errorf("invalid %s (use integer >= %d)", name, minimum)
				}
				n = parsed
			}
			if n < minimum {
				return fmt.Errorf("invalid %s (use integer >= %d)", name, minimum)
			}
			set(c, n)
			return nil
		},
	}
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// open loads cfg into the inputs and focuses the first one.
func (f *settingsForm) open(cfg model.StatsConfig) tea.Cmd {
	f.err = ""
	for i := range f.fields {
		f.fields[i].input.SetValue(f.fields[i].show(cfg))
	}
	return f.focusField(0)
}

func (f *settingsForm) focusField(idx int) tea.Cmd {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	f.focus = (idx%n + n) % n
	var cmd tea.Cmd
	for i := range f.fields {
		if i == f.focus {
			cmd = f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	return cmd
}

// submit parses every input into a fresh config.
func (f *settingsForm) submit() (model.StatsConfig, error) {
	var cfg model.StatsConfig
	for _, field := range f.fields {
		if err := field.apply(&cfg, strings.TrimSpace(field.input.Value())); err != nil {
			f.err = err.Error()
			return model.StatsConfig{}, err
		}
	}
	f.err = ""
	return cfg, nil
}

func (f *settingsForm) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return f.focusField(f.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return f.focusField(f.focus - 1)
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *settingsForm) resize(width int) {
	for i := range f.fields {
		f.fields[i].input.Width = max(10, width-lipgloss.Width(f.fields[i].input.Prompt)-2)
	}
}

func (f *settingsForm) view() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, field := range f.fields {
		lines = append(lines, field.input.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}
