// Package tui provides the Bubble Tea live tracking interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/gazegrid/internal/capture"
	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/log"
	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/session"
	"github.com/verte-zerg/gazegrid/internal/stats"
	"github.com/verte-zerg/gazegrid/internal/store"
)

// Model implements the Bubble Tea live tracking UI.
type Model struct {
	grid  grid.Grid
	cmds  chan<- capture.Command
	store *store.Store

	width  int
	height int

	running      bool
	face         bool
	current      model.SegmentID
	lastDuration time.Duration
	totals       map[model.SegmentID]time.Duration
	samples      int

	report      *session.Report
	reportTable table.Model
	errMsg      string

	hasLast     bool
	lastSpanMs  int64
	lastSamples int

	allSessions int
	allSpanMs   int64
}

var (
	cellStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Foreground(lipgloss.Color("#B0B0B0"))
	currentCellStyle = cellStyle.Copy().
				BorderForeground(lipgloss.Color("#C89A3A")).
				Foreground(lipgloss.Color("#F0F0F0")).
				Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a live tracking model. Commands for the capture loop
// are sent on cmds; st may be nil when sessions are not saved.
func NewModel(g grid.Grid, cmds chan<- capture.Command, st *store.Store) *Model {
	m := &Model{
		grid:   g,
		cmds:   cmds,
		store:  st,
		totals: map[model.SegmentID]time.Duration{},
	}
	m.loadFooterStats()
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
	case SampleMsg:
		m.applySample(capture.Update(msg))
		return m, nil
	case ReportMsg:
		m.applyReport(msg.Report)
		return m, nil
	case ErrorMsg:
		m.errMsg = msg.Err.Error()
		if msg.Fatal {
			m.running = false
			return m, tea.Quit
		}
		if msg.Aborted {
			m.running = false
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter", "s":
			if m.running {
				return m, nil
			}
			m.beginSession()
			return m, m.send(capture.CommandStart)
		case "x":
			if !m.running {
				return m, nil
			}
			return m, m.send(capture.CommandStop)
		}
		if m.report != nil {
			var cmd tea.Cmd
			m.reportTable, cmd = m.reportTable.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{m.renderStatus(), m.renderHeatmap()}
	if m.report != nil && !m.running {
		sections = append(sections, m.renderReport())
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) send(c capture.Command) tea.Cmd {
	cmds := m.cmds
	return func() tea.Msg {
		cmds <- c
		return nil
	}
}

func (m *Model) beginSession() {
	m.running = true
	m.face = false
	m.current = 0
	m.lastDuration = 0
	m.samples = 0
	m.totals = map[model.SegmentID]time.Duration{}
	m.report = nil
	m.errMsg = ""
}

func (m *Model) applySample(u capture.Update) {
	if !m.running {
		return
	}
	m.face = u.Face
	m.samples = u.SampleCount
	if !u.Face {
		return
	}
	m.current = u.Event.Segment
	m.lastDuration = u.Event.Duration
	if u.Totals != nil {
		m.totals = u.Totals
	}
}

func (m *Model) applyReport(r session.Report) {
	m.running = false
	m.totals = r.Durations()
	m.samples = r.SampleCount()
	if r.SampleCount() == 0 {
		m.report = nil
		return
	}
	m.report = &r
	m.reportTable = buildReportTable(r)
	m.hasLast = true
	m.lastSpanMs = r.Span().Milliseconds()
	m.lastSamples = r.SampleCount()
	if m.store != nil {
		m.allSessions++
		m.allSpanMs += r.Span().Milliseconds()
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		log.Warn("failed to load session stats", "err", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.hasLast = true
	m.lastSpanMs = last.SpanMs
	m.lastSamples = last.SampleCount
	for _, s := range sessions {
		m.allSessions++
		m.allSpanMs += s.SpanMs
	}
}

func (m *Model) renderStatus() string {
	switch {
	case m.running && !m.face:
		return statusStyle.Render("Tracking · no face detected")
	case m.running && m.current != 0:
		return statusStyle.Render(fmt.Sprintf("Tracking · Segment: %d · Duration: %.2fs · Samples: %d",
			m.current, m.lastDuration.Seconds(), m.samples))
	case m.running:
		return statusStyle.Render("Tracking · waiting for first sample")
	default:
		return mutedStyle.Render("Idle · press enter to start")
	}
}

func (m *Model) renderHeatmap() string {
	cells := stats.HeatmapCells(m.grid, m.totals)
	rows := make([]string, 0, len(cells))
	for _, row := range cells {
		parts := make([]string, 0, len(row))
		for _, cell := range row {
			text := fmt.Sprintf("%2d %s\n%5.1f%%", cell.Segment, strings.Repeat(string(cell.Shade()), 2), cell.Share*100)
			style := cellStyle
			if m.running && m.face && cell.Segment == m.current {
				style = currentCellStyle
			}
			parts = append(parts, style.Render(text))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderReport() string {
	title := statusStyle.Render(fmt.Sprintf("Session finished · %d samples over %.2fs",
		m.report.SampleCount(), m.report.Span().Seconds()))
	return title + "\n" + m.reportTable.View()
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.running {
		segments = append(segments, "x stop")
	} else {
		segments = append(segments, "enter start")
	}
	segments = append(segments, "q quit")
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1fs · %d samples", float64(m.lastSpanMs)/1000, m.lastSamples))
	}
	if m.allSessions > 0 {
		segments = append(segments, fmt.Sprintf("All-time %d sessions · %.1fs", m.allSessions, float64(m.allSpanMs)/1000))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func buildReportTable(r session.Report) table.Model {
	columns := []table.Column{
		{Title: "Segment", Width: 7},
		{Title: "Total Time (s)", Width: 14},
		{Title: "Samples", Width: 8},
		{Title: "Share", Width: 7},
	}
	totals := r.Segments()
	rows := make([]table.Row, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", t.Segment),
			fmt.Sprintf("%.2f", t.Duration.Seconds()),
			fmt.Sprintf("%d", t.Samples),
			fmt.Sprintf("%.1f%%", r.Share(t.Segment)*100),
		})
	}
	height := len(rows)
	if height > 10 {
		height = 10
	}
	if height < 1 {
		height = 1
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Bold(true)
	t.SetStyles(styles)
	return t
}
