package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
)

func mustGrid(t *testing.T, w, h, rows, cols int) grid.Grid {
	t.Helper()
	g, err := grid.New(w, h, rows, cols)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func TestRenderReportTable(t *testing.T) {
	totals := []model.SegmentTotal{
		{Segment: 1, Duration: 2 * time.Second, Samples: 2},
		{Segment: 4, Duration: 6 * time.Second, Samples: 3},
	}
	var buf bytes.Buffer
	if err := RenderReportTable(&buf, totals); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "Segment Total Time (s)") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "2.00") || !strings.HasSuffix(lines[1], "25.0%") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if !strings.Contains(lines[2], "6.00") || !strings.HasSuffix(lines[2], "75.0%") {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestRenderReportTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReportTable(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No gaze samples") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	sessions := []model.SessionAggregate{
		{SessionID: 1, SampleCount: 10, SpanMs: 4000},
		{SessionID: 2, SampleCount: 5, SpanMs: 2000},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Samples: 15", "Tracked: 6.00 s", "Avg Session: 3.00 s", "Longest Session: 4.00 s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderLayout(t *testing.T) {
	g := mustGrid(t, 100, 100, 2, 2)
	var buf bytes.Buffer
	if err := RenderLayout(&buf, g); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected title, header and 4 rows, got %d", len(lines))
	}
	if got := strings.Fields(lines[5]); strings.Join(got, " ") != "4 1 1 50 50 50 50" {
		t.Fatalf("unexpected last row %q", lines[5])
	}
}

func TestAggregateTotals(t *testing.T) {
	totals := AggregateTotals([]model.SegmentAggregate{{Segment: 3, DurationMs: 1500, Samples: 4, Sessions: 2}})
	if len(totals) != 1 || totals[0].Duration != 1500*time.Millisecond || totals[0].Samples != 4 {
		t.Fatalf("unexpected totals %+v", totals)
	}
	if TotalDuration(totals) != 1500*time.Millisecond {
		t.Fatalf("unexpected total duration")
	}
}

func TestTopSegments(t *testing.T) {
	totals := []model.SegmentTotal{
		{Segment: 2, Duration: time.Second},
		{Segment: 1, Duration: 3 * time.Second},
		{Segment: 3, Duration: time.Second},
		{Segment: 4, Duration: 0},
	}
	top := TopSegments(totals, 3)
	if len(top) != 3 || top[0] != 1 || top[1] != 2 || top[2] != 3 {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopSegments(totals, 10); len(got) != 3 {
		t.Fatalf("unvisited segments must not rank: %v", got)
	}
}

func TestNeglectedSegments(t *testing.T) {
	g := mustGrid(t, 100, 100, 2, 2)
	totals := []model.SegmentTotal{
		{Segment: 1, Duration: 3 * time.Second, Samples: 3},
		{Segment: 3, Duration: time.Second, Samples: 1},
	}
	got := NeglectedSegments(g, totals, 3)
	want := []model.SegmentID{2, 4, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if unvisited := Unvisited(g, totals); len(unvisited) != 2 || unvisited[0] != 2 || unvisited[1] != 4 {
		t.Fatalf("unexpected unvisited %v", unvisited)
	}
}
