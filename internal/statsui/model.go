// Package statsui provides the Bubble Tea session history browser.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keytrace/internal/model"
	"github.com/verte-zerg/keytrace/internal/stats"
	"github.com/verte-zerg/keytrace/internal/store"
)

const (
	tabOverview = iota
	tabSessions
	tabMissedWords
)

var tabNames = []string{"Overview", "Sessions", "Missed Words"}

type mode int

const (
	modeBrowse mode = iota
	modeSettings
	modeSearch
	modeDetail
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig
	now   func() time.Time

	report stats.Report
	errMsg string

	mode      mode
	activeTab int
	width     int
	height    int

	overview     viewport.Model
	sessionTable table.Model
	wordTable    table.Model
	search       textinput.Model
	settings     settingsForm
	detail       viewport.Model
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store:        st,
		cfg:          cfg,
		now:          time.Now,
		overview:     viewport.New(0, 0),
		detail:       viewport.New(0, 0),
		sessionTable: newTable(sessionColumns()),
		wordTable:    newTable(wordColumns()),
		search:       newInput("Search: "),
		settings:     newSettingsForm(),
	}
	m.refreshReport()
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
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.renderContents()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSettings:
			return m, m.updateSettings(msg)
		case modeSearch:
			return m, m.updateSearch(msg)
		case modeDetail:
			return m, m.updateDetail(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.selectTab(m.activeTab - 1)
		return m, tea.ClearScreen
	case "right", "l":
		m.selectTab(m.activeTab + 1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.CurveWindow = stepWindow(m.cfg.CurveWindow, 1)
		m.renderContents()
		return m, nil
	case "-":
		m.cfg.CurveWindow = stepWindow(m.cfg.CurveWindow, -1)
		m.renderContents()
		return m, nil
	case "/":
		if m.activeTab == tabMissedWords {
			m.mode = modeSearch
			return m, m.search.Focus()
		}
		return m, m.openSettings()
	case "s":
		return m, m.openSettings()
	case "enter":
		if m.activeTab == tabSessions {
			m.openDetail()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabSessions:
		m.sessionTable, cmd = m.sessionTable.Update(msg)
	case tabMissedWords:
		m.wordTable, cmd = m.wordTable.Update(msg)
	default:
		m.overview, cmd = m.overview.Update(msg)
	}
	return m, cmd
}

func (m *Model) openSettings() tea.Cmd {
	m.mode = modeSettings
	return m.settings.open(m.cfg)
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		return nil
	case tea.KeyEnter:
		cfg, err := m.settings.submit()
		if err != nil {
			return nil
		}
		m.mode = modeBrowse
		m.cfg = cfg
		m.refreshReport()
		m.resize()
		return nil
	}
	return m.settings.update(msg)
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		m.applySearch()
		fallthrough
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch()
	return cmd
}

// selectedSession maps the table cursor back onto the oldest-first report.
func (m *Model) selectedSession() (model.SessionAggregate, bool) {
	n := len(m.report.Sessions)
	idx := m.sessionTable.Cursor()
	if idx < 0 || idx >= n {
		return model.SessionAggregate{}, false
	}
	return m.report.Sessions[n-1-idx], true
}

func (m *Model) openDetail() {
	s, ok := m.selectedSession()
	if !ok {
		return
	}
	seconds, err := m.store.ListSeconds(context.Background(), s.SessionID)
	if err != nil {
		m.errMsg = fmt.Sprintf("load session: %v", err)
		return
	}
	m.detail.SetContent(renderDetail(s, seconds, m.contentWidth()))
	m.detail.GotoTop()
	m.mode = modeDetail
}

func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter", "q":
		m.mode = modeBrowse
		return nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	return strings.Join([]string{
		fitBlock(m.renderHeader(), m.width, headerHeight),
		fitBlock(m.renderBody(), m.width, bodyHeight),
		fitBlock(m.renderFooter(), m.width, footerHeight),
	}, "\n")
}

func (m *Model) layoutHeights() (header, body, footer int) {
	header = max(1, lipgloss.Height(activeTabStyle.Render("X"))) + 1
	footer = 1
	if m.mode != modeSettings && m.errMsg != "" {
		footer++
	}
	body = max(1, m.height-header-footer)
	return header, body, footer
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, body, _ := m.layoutHeights()
	m.overview.Width, m.overview.Height = m.width, body
	m.detail.Width, m.detail.Height = m.width, body
	m.sessionTable.SetWidth(m.width)
	m.sessionTable.SetHeight(max(1, body-2))
	m.wordTable.SetWidth(m.width)
	m.wordTable.SetHeight(max(1, body-3))
	m.search.Width = max(10, m.width-lipgloss.Width(m.search.Prompt)-2)
	m.settings.resize(m.width)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m *Model) selectTab(idx int) {
	n := len(tabNames)
	m.activeTab = (idx%n + n) % n
	m.sessionTable.Blur()
	m.wordTable.Blur()
	switch m.activeTab {
	case tabSessions:
		m.sessionTable.Focus()
	case tabMissedWords:
		m.wordTable.Focus()
	}
}

func (m *Model) renderHeader() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		style := inactiveTabStyle
		if i == m.activeTab {
			style = activeTabStyle
		}
		tabs[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + mutedStyle.Render(truncateLine(m.filterSummary(), m.width))
}

func (m *Model) filterSummary() string {
	lang, since, last := "any", "any", "all"
	if m.cfg.Lang != "" {
		lang = m.cfg.Lang
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Settings: lang=%s  since=%s  last=%s  window=%d", lang, since, last, m.cfg.CurveWindow)
}

func (m *Model) renderBody() string {
	switch {
	case m.mode == modeSettings:
		return m.settings.view()
	case m.mode == modeDetail:
		return m.detail.View()
	case m.activeTab == tabSessions:
		if len(m.report.Sessions) == 0 {
			return "No sessions found."
		}
		return tableStyle.Render(m.sessionTable.View())
	case m.activeTab == tabMissedWords:
		if len(m.report.MissedWords) == 0 {
			return "No missed words."
		}
		return m.search.View() + "\n" + tableStyle.Render(m.wordTable.View())
	default:
		return m.overview.View()
	}
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.mode == modeSettings:
		return mutedStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	case m.mode == modeSearch:
		return mutedStyle.Render("enter: keep filter  esc: clear")
	case m.mode == modeDetail:
		help = "Scroll: up/down  Back: esc  Quit: ctrl+c"
	case m.activeTab == tabSessions:
		help = "Nav: left/right  Select: up/down  Details: enter  Settings: s  Quit: q"
	case m.activeTab == tabMissedWords:
		help = "Nav: left/right  Scroll: up/down  Search: /  Settings: s  Quit: q"
	default:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	}
	if m.errMsg != "" {
		return mutedStyle.Render(help) + "\n" + errorStyle.Render(m.errMsg)
	}
	return mutedStyle.Render(help)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.renderContents()
}

func (m *Model) renderContents() {
	if m.errMsg != "" {
		return
	}
	m.overview.SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, m.contentWidth()))
	m.sessionTable.SetRows(sessionRows(m.report.Sessions, m.now()))
	m.applySearch()
}

func (m *Model) applySearch() {
	m.wordTable.SetRows(wordRows(filterWords(m.report.MissedWords, m.search.Value())))
	m.wordTable.GotoTop()
}

// stepWindow moves the curve window to the next multiple of five in dir,
// never going below one.
func stepWindow(n, dir int) int {
	if dir > 0 {
		return (n/5 + 1) * 5
	}
	if n <= 5 {
		return 1
	}
	return (n - 1) / 5 * 5
}
