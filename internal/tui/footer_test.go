package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/gazegrid/internal/capture"
	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/session"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		hasLast:     true,
		lastSpanMs:  12400,
		lastSamples: 42,
		allSessions: 3,
		allSpanMs:   60000,
	}
	out := m.renderFooter()
	if !containsAll(out, []string{"enter start", "q quit", "Last 12.4s", "42 samples", "All-time 3 sessions", "60.0s"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	m.running = true
	if !strings.Contains(m.renderFooter(), "x stop") {
		t.Fatalf("running footer should offer stop")
	}
}

func newTestModel(t *testing.T) (*Model, chan capture.Command) {
	t.Helper()
	g, err := grid.New(200, 200, 2, 2)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	cmds := make(chan capture.Command, 4)
	return NewModel(g, cmds, nil), cmds
}

func runCmd(cmd tea.Cmd) {
	if cmd != nil {
		cmd()
	}
}

func TestStartStopKeys(t *testing.T) {
	m, cmds := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(cmd)
	if !m.running {
		t.Fatalf("enter should start tracking")
	}
	if got := <-cmds; got != capture.CommandStart {
		t.Fatalf("expected start command, got %v", got)
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if cmd != nil {
		t.Fatalf("start while running must be ignored")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	runCmd(cmd)
	if got := <-cmds; got != capture.CommandStop {
		t.Fatalf("expected stop command, got %v", got)
	}
}

func TestSampleHighlightsSegment(t *testing.T) {
	m, _ := newTestModel(t)
	m.beginSession()
	m.Update(SampleMsg{
		Face:        true,
		Event:       model.GazeEvent{Segment: 3, Duration: 1500 * time.Millisecond},
		Totals:      map[model.SegmentID]time.Duration{3: 1500 * time.Millisecond},
		SampleCount: 2,
	})
	status := m.renderStatus()
	if !containsAll(status, []string{"Segment: 3", "Duration: 1.50s", "Samples: 2"}) {
		t.Fatalf("unexpected status %q", status)
	}
	if !strings.Contains(m.renderHeatmap(), "100.0%") {
		t.Fatalf("heatmap should show the share of segment 3")
	}
	m.Update(SampleMsg{SampleCount: 2})
	if !strings.Contains(m.renderStatus(), "no face") {
		t.Fatalf("expected no-face status")
	}
}

func TestReportEndsSession(t *testing.T) {
	m, _ := newTestModel(t)
	m.beginSession()

	sess := session.New(m.grid)
	if err := sess.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	base := time.Unix(0, 0)
	if _, err := sess.Record(model.Position{X: 10, Y: 10}, base); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := sess.Record(model.Position{X: 150, Y: 150}, base.Add(2*time.Second)); err != nil {
		t.Fatalf("record: %v", err)
	}
	report, err := sess.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}

	m.Update(ReportMsg{Report: report})
	if m.running || m.report == nil {
		t.Fatalf("report should end the session")
	}
	if !containsAll(m.View(), []string{"Session finished", "Total Time (s)", "2.00"}) {
		t.Fatalf("view missing report:\n%s", m.View())
	}
	if !m.hasLast || m.lastSamples != 2 {
		t.Fatalf("footer stats not updated")
	}
}

func TestFatalErrorQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(ErrorMsg{Err: errors.New("camera gone"), Fatal: true})
	if cmd == nil {
		t.Fatalf("fatal error should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	if !strings.Contains(m.View(), "camera gone") {
		t.Fatalf("error should be shown")
	}
}

func TestFailedStartAllowsRetry(t *testing.T) {
	m, cmds := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(cmd)
	if got := <-cmds; got != capture.CommandStart {
		t.Fatalf("expected start command, got %v", got)
	}

	failure := fmt.Errorf("%w: %w", capture.ErrDetectorUnavailable, errors.New("model missing"))
	msg := errorMsg(failure)
	if !msg.Aborted || msg.Fatal {
		t.Fatalf("detector failure should abort the session only, got %+v", msg)
	}
	m.Update(msg)
	if m.running {
		t.Fatalf("model still running after failed start")
	}
	if !strings.Contains(m.View(), "acquire detector: model missing") {
		t.Fatalf("error should be shown:\n%s", m.View())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter after failed start should retry")
	}
	runCmd(cmd)
	if got := <-cmds; got != capture.CommandStart {
		t.Fatalf("expected second start command, got %v", got)
	}
}

func TestSaveErrorKeepsSessionRunning(t *testing.T) {
	m, _ := newTestModel(t)
	m.beginSession()
	msg := errorMsg(errors.New("save session: disk full"))
	if msg.Aborted {
		t.Fatalf("save errors do not abort")
	}
	m.Update(msg)
	if !m.running {
		t.Fatalf("save error arrives before the report and must not end the session")
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
