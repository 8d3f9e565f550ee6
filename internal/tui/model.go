// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keytrace/internal/generator"
	"github.com/verte-zerg/keytrace/internal/model"
	"github.com/verte-zerg/keytrace/internal/recorder"
	statsPkg "github.com/verte-zerg/keytrace/internal/stats"
	"github.com/verte-zerg/keytrace/internal/store"
)

// maxExtraRunes caps how far a word can be overtyped.
const maxExtraRunes = 10

type phase int

const (
	phaseTyping phase = iota
	phaseResult
)

type tickMsg struct {
	gen int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config       model.Config
	store        *store.Store
	gen          *generator.Generator
	rec          *recorder.Recorder
	logger       *slog.Logger
	words        []string
	wordListPath string
	missed       map[string]int

	width  int
	height int

	target    []string
	phase     phase
	startedAt time.Time
	tickGen   int
	result    statsPkg.Result

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	extraStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B1E20"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4A017"))
)

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, st *store.Store, gen *generator.Generator, rec *recorder.Recorder, words []string, wordListPath string, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		config:       cfg,
		store:        st,
		gen:          gen,
		rec:          rec,
		logger:       logger,
		words:        words,
		wordListPath: wordListPath,
		missed:       map[string]int{},
	}
	m.loadFooterStats()
	if cfg.FocusMissed {
		m.loadMissedWords()
	}
	m.resetSession()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if msg.gen != m.tickGen || m.phase != phaseTyping || !m.rec.Started() {
			return m, nil
		}
		m.rec.Tick()
		return m, m.tickCmd()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.phase == phaseResult {
			return m.updateResult(msg)
		}
		return m.updateTyping(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyTab:
		m.resetSession()
		return m, nil
	case tea.KeyEsc:
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	wasStarted := m.rec.Started()
	switch msg.Type {
	case tea.KeyEsc:
		if !wasStarted {
			return m, tea.Quit
		}
		m.rec.Abandon()
		m.finishSession()
		return m, nil
	case tea.KeyTab:
		m.resetSession()
		return m, nil
	case tea.KeyBackspace, tea.KeyDelete:
		if wasStarted {
			m.rec.Backspace()
		}
		return m, nil
	case tea.KeySpace:
		m.handleRunes([]rune{' '})
	case tea.KeyRunes:
		m.handleRunes(msg.Runes)
	default:
		return m, nil
	}
	if !wasStarted && m.rec.Started() && m.phase == phaseTyping {
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *Model) tickCmd() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.phase == phaseResult {
		return m.viewResult()
	}
	if len(m.target) == 0 {
		return ""
	}
	entry := m.rec.State().Entry()
	glyphs := buildStyledWords(m.target, entry.History(), entry.Current())
	if m.width == 0 || m.height == 0 {
		return renderGlyphs(glyphs)
	}
	contentWidth := m.contentWidth()
	wrapped := wrapGlyphs(glyphs, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	return m.withFooter(content, m.renderFooter())
}

func (m *Model) viewResult() string {
	var b strings.Builder
	if err := statsPkg.RenderResult(&b, m.result); err != nil {
		m.logger.Error("render result", "err", err)
	}
	chartWidth := 0
	if m.width > 0 {
		chartWidth = m.contentWidth()
	}
	if err := statsPkg.RenderSpeedCharts(&b, m.result, chartWidth, 4); err != nil {
		m.logger.Error("render speed charts", "err", err)
	}
	if len(m.result.MissedWords) > 0 {
		top := m.result.MissedWords
		if len(top) > 5 {
			top = top[:5]
		}
		if err := statsPkg.RenderMissedWords(&b, top); err != nil {
			m.logger.Error("render missed words", "err", err)
		}
	}
	content := strings.TrimRight(b.String(), "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return m.withFooter(content, footerStyle.Render("enter next test  esc quit"))
}

func (m *Model) withFooter(content, footer string) string {
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		return 1
	}
	return w
}

func (m *Model) wordIndex() int {
	return m.rec.State().Entry().HistoryLen()
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if m.phase != phaseTyping {
			return
		}
		if r == ' ' {
			m.handleSpace()
			continue
		}
		m.handleRune(r)
	}
}

func (m *Model) handleRune(r rune) {
	idx := m.wordIndex()
	if idx >= len(m.target) {
		return
	}
	target := []rune(m.target[idx])
	current := []rune(m.rec.State().Entry().Current())
	if len(current) >= len(target)+maxExtraRunes {
		return
	}
	if !m.rec.Started() {
		m.startedAt = time.Now()
	}
	var expected rune
	if len(current) < len(target) {
		expected = target[len(current)]
	}
	m.rec.Input(r, expected, idx)
	if idx == len(m.target)-1 && m.rec.State().Entry().Current() == m.target[idx] {
		m.rec.EndWord(m.target[idx], idx)
		m.finishSession()
	}
}

func (m *Model) handleSpace() {
	idx := m.wordIndex()
	if idx >= len(m.target) || m.rec.State().Entry().Current() == "" {
		return
	}
	m.rec.CommitWord(m.target[idx], idx)
	if idx == len(m.target)-1 {
		m.finishSession()
	}
}

func (m *Model) loadFooterStats() {
	ctx := context.Background()
	sessions, err := m.store.ListSessions(ctx, model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		m.logger.Error("failed to load session stats", "err", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true

	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allIncorrect += s.Incorrect
		m.allDuration += s.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) loadMissedWords() {
	ctx := context.Background()
	sessions, err := m.store.ListSessions(ctx, model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		m.logger.Error("failed to load sessions for missed words", "err", err)
		return
	}
	if w := m.config.MissedWindow; w > 0 && len(sessions) > w {
		sessions = sessions[len(sessions)-w:]
	}
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	words, err := m.store.ListMissedWords(ctx, ids)
	if err != nil {
		m.logger.Error("failed to load missed words", "err", err)
		return
	}
	for _, wc := range words {
		m.missed[wc.Word] = wc.Count
	}
	if len(m.missed) == 0 {
		m.logger.Info("no missed words yet; using normal generator")
	}
}

func (m *Model) recomputeAllTime() {
	wpm, _, acc := statsPkg.SessionMetrics(m.allCorrect, m.allIncorrect, float64(m.allDuration))
	m.allWPM = wpm
	m.allAcc = acc
}

func (m *Model) renderFooter() string {
	if len(m.target) == 0 {
		return ""
	}
	progress := int(float64(m.wordIndex()) / float64(len(m.target)) * 100)
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if wpm := m.rec.State().Metrics().WPMHistory(); len(wpm) > 0 {
		segments = append(segments, fmt.Sprintf("Now %.1f WPM", wpm[len(wpm)-1]))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.rec.State().TimingsOverflowed() {
		footer += "  " + warnStyle.Render("timings frozen")
	}
	return footer
}

func (m *Model) resetSession() {
	m.rec.Restart()
	m.tickGen++
	m.phase = phaseTyping
	m.startedAt = time.Time{}
	m.result = statsPkg.Result{}
	m.target = m.generateWords()
}

func (m *Model) generateWords() []string {
	if m.config.FocusMissed && len(m.missed) > 0 {
		return m.gen.Weighted(m.words, m.config.Words, m.missed, m.config.MissedFactor)
	}
	return m.gen.Words(m.words, m.config.Words)
}

func (m *Model) finishSession() {
	if !m.rec.Started() {
		return
	}
	m.tickGen++
	res := m.rec.Finish()
	m.result = statsPkg.Compute(res)
	m.phase = phaseResult
	if m.result.Bailout {
		m.logger.Info("test abandoned; not saved")
		return
	}

	rec := m.result.Record(m.startedAt, m.config.Lang, len(m.target), m.wordListPath)
	ctx := context.Background()
	if err := m.store.InsertSession(ctx, rec); err != nil {
		m.logger.Error("failed to save session", "err", err)
	}
	m.lastWPM = m.result.WPM
	m.lastAcc = m.result.Accuracy
	m.hasLast = true
	m.allCorrect += m.result.Correct
	m.allIncorrect += m.result.Incorrect
	m.allDuration += rec.DurationMs
	m.recomputeAllTime()

	for _, wc := range m.result.MissedWords {
		m.missed[wc.Word] += wc.Count
	}
}
