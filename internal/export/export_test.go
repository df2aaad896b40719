package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/session"
)

func finishedReport(t *testing.T) session.Report {
	t.Helper()
	g, err := grid.New(200, 200, 2, 2)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	sess := session.New(g, session.WithEvents())
	if err := sess.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	samples := []model.GazeSample{
		{Position: model.Position{X: 10, Y: 10}, At: base},
		{Position: model.Position{X: 150, Y: 10}, At: base.Add(1500 * time.Millisecond)},
	}
	for _, s := range samples {
		if _, err := sess.Record(s.Position, s.At); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	report, err := sess.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	return report
}

func TestWriteReport(t *testing.T) {
	doc := FromReport(finishedReport(t), "sim")
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"total_seconds": 1.5`, `"rows": 2`, `"sample_count": 2`, `"source": "sim"`, `"attributed": 2`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %s:\n%s", want, out)
		}
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if back.SpanSeconds != 1.5 || len(back.Segments) != 2 || back.Segments[1].Segment != 2 {
		t.Fatalf("unexpected document %+v", back)
	}
	if len(back.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(back.Events))
	}
}

func TestFromStored(t *testing.T) {
	stats := model.SessionStats{UUID: "abc", Rows: 4, Cols: 4, Width: 1920, Height: 1080, SampleCount: 3, SpanMs: 2500}
	doc := FromStored(stats, []model.SegmentStats{{Segment: 7, DurationMs: 2500, Samples: 3}})
	if doc.Session != "abc" || doc.SpanSeconds != 2.5 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if len(doc.Segments) != 1 || doc.Segments[0].TotalSeconds != 2.5 {
		t.Fatalf("unexpected segments %+v", doc.Segments)
	}
	if doc.Events != nil {
		t.Fatalf("stored sessions carry no events")
	}
}

func TestStoredRoundTrip(t *testing.T) {
	stats := model.SessionStats{
		UUID:        "3f1c",
		StartedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		EndedAt:     time.Date(2024, 1, 1, 12, 0, 3, 0, time.UTC),
		Width:       1920,
		Height:      1080,
		Rows:        2,
		Cols:        3,
		Attribution: "previous",
		Source:      "camera",
		SampleCount: 9,
		SpanMs:      3001,
	}
	stored := []model.SegmentStats{
		{Segment: 2, DurationMs: 1700, Samples: 4},
		{Segment: 5, DurationMs: 1301, Samples: 5},
	}
	var buf bytes.Buffer
	if err := Write(&buf, FromStored(stats, stored)); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	gotStats, gotSegments, err := ToStored(doc)
	if err != nil {
		t.Fatalf("to stored: %v", err)
	}
	if !gotStats.StartedAt.Equal(stats.StartedAt) || !gotStats.EndedAt.Equal(stats.EndedAt) {
		t.Fatalf("times changed: %+v", gotStats)
	}
	gotStats.StartedAt, gotStats.EndedAt = stats.StartedAt, stats.EndedAt
	if gotStats != stats {
		t.Fatalf("stats changed:\n got %+v\nwant %+v", gotStats, stats)
	}
	if len(gotSegments) != 2 || gotSegments[0] != stored[0] || gotSegments[1] != stored[1] {
		t.Fatalf("segments changed: %+v", gotSegments)
	}
}

func TestToStoredRequiresSession(t *testing.T) {
	if _, _, err := ToStored(FromReport(finishedReport(t), "sim")); err == nil {
		t.Fatalf("expected error for document without session id")
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read(strings.NewReader("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
