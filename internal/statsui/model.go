// Package statsui provides the Bubble Tea history interface.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/stats"
	"github.com/verte-zerg/gazegrid/internal/store"
)

const (
	tabOverview = iota
	tabSegments
	tabSessions
)

const rankedSegments = 3

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	history stats.History
	errMsg  string

	tabs      []string
	activeTab int
	viewport  viewport.Model
	tables    map[int]*tableView

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableView struct {
	table  table.Model
	layout tableLayout
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a history UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Segments", "Sessions"},
		tables: map[int]*tableView{
			tabSegments: {table: newTable(segmentColumns())},
			tabSessions: {table: newTable(sessionColumns())},
		},
		viewport: viewport.New(0, 0),
	}
	m.initInputs()
	m.refreshHistory()
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
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startFilter()
		case "r":
			m.refreshHistory()
			return m, nil
		case "g", "home":
			if tv, ok := m.tables[m.activeTab]; ok {
				tv.table.GotoTop()
			} else {
				m.viewport.GotoTop()
			}
			return m, nil
		case "G", "end":
			if tv, ok := m.tables[m.activeTab]; ok {
				tv.table.GotoBottom()
			} else {
				m.viewport.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if tv, ok := m.tables[m.activeTab]; ok {
				tv.table, cmd = tv.table.Update(msg)
				return m, cmd
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if m.cfg.Since != nil {
		m.filterInputs[0].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	for _, tv := range m.tables {
		tv.resize(m.width, bodyHeight)
	}
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	for tab, tv := range m.tables {
		if tab == m.activeTab {
			tv.table.Focus()
		} else {
			tv.table.Blur()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	layout := "none"
	if m.history.Rows > 0 {
		layout = fmt.Sprintf("%dx%d", m.history.Rows, m.history.Cols)
	}
	summary := fmt.Sprintf("Settings: since=%s  last=%s  grid=%s", since, last, layout)
	if m.history.Skipped > 0 {
		summary += fmt.Sprintf("  (%d sessions with another grid not aggregated)", m.history.Skipped)
	}
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if tv, ok := m.tables[m.activeTab]; ok {
		if len(m.history.Sessions) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(tv.table.View()), m.width, height)
	}
	return fitLines(m.viewport.View(), m.width, height)
}

func (m *Model) refreshHistory() {
	history, err := stats.BuildHistory(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.viewport.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.history = history
	m.tables[tabSegments].setRows(segmentRows(history.Segments))
	m.tables[tabSessions].setRows(sessionRows(history.Sessions))
	if m.width > 0 && m.height > 0 {
		_, bodyHeight, _ := m.layoutHeights()
		for _, tv := range m.tables {
			tv.resize(m.width, bodyHeight)
		}
	}
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		m.viewport.SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewport.SetContent(renderOverview(m.history, width))
}

func renderOverview(h stats.History, width int) string {
	if len(h.Sessions) == 0 {
		return "No sessions found."
	}
	parts := []string{renderSummaryCards(h.Sessions, width)}
	g, err := grid.New(h.Cols, h.Rows, h.Rows, h.Cols)
	if err == nil {
		totals := stats.AggregateTotals(h.Segments)
		heat := stats.HeatmapLines(g, stats.DurationMap(totals), true)
		parts = append(parts,
			cardTitleStyle.Render("Heatmap")+"\n"+strings.Join(heat, "\n"),
			fmt.Sprintf("Hottest: %s", joinSegments(stats.TopSegments(totals, rankedSegments))),
			fmt.Sprintf("Neglected: %s", joinSegments(stats.NeglectedSegments(g, totals, rankedSegments))),
		)
		if unvisited := stats.Unvisited(g, totals); len(unvisited) > 0 {
			parts = append(parts, fmt.Sprintf("Never looked at: %s", joinSegments(unvisited)))
		}
	}
	return strings.TrimRight(strings.Join(parts, "\n\n"), "\n")
}

func renderSummaryCards(sessions []model.SessionAggregate, width int) string {
	var totalMs, longestMs int64
	samples := 0
	for _, s := range sessions {
		totalMs += s.SpanMs
		samples += s.SampleCount
		if s.SpanMs > longestMs {
			longestMs = s.SpanMs
		}
	}
	count := int64(len(sessions))
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", len(sessions))),
		metricCard("Samples", fmt.Sprintf("%d", samples)),
		metricCard("Tracked", formatSeconds(totalMs)),
		metricCard("Avg Session", formatSeconds(totalMs/count)),
		metricCard("Longest", formatSeconds(longestMs)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func formatSeconds(ms int64) string {
	return fmt.Sprintf("%.1fs", (time.Duration(ms) * time.Millisecond).Seconds())
}

func joinSegments(ids []model.SegmentID) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ", ")
}

func segmentColumns() []table.Column {
	return []table.Column{
		{Title: "Segment", Width: 7},
		{Title: "Total Time (s)", Width: 14},
		{Title: "Samples", Width: 8},
		{Title: "Sessions", Width: 8},
		{Title: "Share", Width: 7},
	}
}

func segmentRows(aggs []model.SegmentAggregate) []table.Row {
	var totalMs int64
	for _, agg := range aggs {
		totalMs += agg.DurationMs
	}
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		share := 0.0
		if totalMs > 0 {
			share = float64(agg.DurationMs) / float64(totalMs) * 100
		}
		rows = append(rows, table.Row{
			strconv.Itoa(int(agg.Segment)),
			fmt.Sprintf("%.2f", float64(agg.DurationMs)/1000),
			strconv.Itoa(agg.Samples),
			strconv.Itoa(agg.Sessions),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return rows
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Session", Width: 8},
		{Title: "Ended", Width: 16},
		{Title: "Grid", Width: 5},
		{Title: "Samples", Width: 8},
		{Title: "Span (s)", Width: 9},
	}
}

// Newest first.
func sessionRows(sessions []model.SessionAggregate) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, table.Row{
			strconv.FormatInt(s.SessionID, 10),
			shortUUID(s.UUID),
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%dx%d", s.Rows, s.Cols),
			strconv.Itoa(s.SampleCount),
			fmt.Sprintf("%.2f", float64(s.SpanMs)/1000),
		})
	}
	return rows
}

func shortUUID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func (tv *tableView) setRows(rows []table.Row) {
	tv.table.SetRows(rows)
	tv.layout.rowCount = len(rows)
	tv.layout.width = 0
}

func (tv *tableView) resize(width, bodyHeight int) {
	viewportHeight := maxInt(1, bodyHeight-1)
	if tv.layout.width == width && tv.layout.height == viewportHeight {
		return
	}
	tv.layout.width = width
	tv.layout.height = viewportHeight
	tv.table.SetWidth(width)
	tv.table.SetHeight(viewportHeight)
	tv.fitHeight(bodyHeight)
}

// fitHeight corrects the table height for header and border lines.
func (tv *tableView) fitHeight(bodyHeight int) {
	target := maxInt(1, bodyHeight)
	for i := 0; i < 2; i++ {
		viewHeight := lipgloss.Height(tv.table.View())
		if viewHeight == target {
			return
		}
		height := maxInt(1, tv.table.Height()+target-viewHeight)
		tv.table.SetHeight(height)
		tv.layout.height = height
	}
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshHistory()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	cfg, err := parseFilter(m.filterInputs[0].Value(), m.filterInputs[1].Value())
	if err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

func parseFilter(sinceInput, lastInput string) (model.StatsConfig, error) {
	var cfg model.StatsConfig
	sinceInput = strings.TrimSpace(sinceInput)
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	lastInput = strings.TrimSpace(lastInput)
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return model.StatsConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}
	return cfg, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
