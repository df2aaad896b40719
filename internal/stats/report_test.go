package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/store"
)

func TestBuildHistory(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "gazegrid.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	layouts := [][2]int{{2, 2}, {4, 4}, {4, 4}, {4, 4}}
	var ids []int64
	for i, layout := range layouts {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		stats := model.SessionStats{
			StartedAt:   start,
			EndedAt:     start.Add(10 * time.Second),
			Width:       1920,
			Height:      1080,
			Rows:        layout[0],
			Cols:        layout[1],
			Attribution: "current",
			Source:      "sim",
			SampleCount: 4,
			SpanMs:      10000,
		}
		segments := []model.SegmentStats{
			{Segment: 1, DurationMs: 4000, Samples: 2},
			{Segment: 2, DurationMs: 6000, Samples: 2},
		}
		id, err := st.InsertSession(ctx, stats, segments)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	history, err := BuildHistory(ctx, st, model.StatsConfig{Last: 3})
	if err != nil {
		t.Fatalf("build history: %v", err)
	}
	if len(history.Sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(history.Sessions))
	}
	if history.Sessions[0].SessionID != ids[1] {
		t.Fatalf("unexpected session ids: %+v", history.Sessions)
	}
	if history.Rows != 4 || history.Cols != 4 || history.Skipped != 0 {
		t.Fatalf("unexpected layout %dx%d skipped=%d", history.Rows, history.Cols, history.Skipped)
	}
	if len(history.Segments) != 2 || history.Segments[1].DurationMs != 18000 || history.Segments[1].Sessions != 3 {
		t.Fatalf("unexpected aggregates %+v", history.Segments)
	}

	all, err := BuildHistory(ctx, st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build history: %v", err)
	}
	if all.Skipped != 1 {
		t.Fatalf("expected the 2x2 session to be skipped, got %d", all.Skipped)
	}
}

func TestBuildHistoryEmpty(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "gazegrid.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	history, err := BuildHistory(context.Background(), st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build history: %v", err)
	}
	if len(history.Sessions) != 0 || history.Segments != nil {
		t.Fatalf("expected empty history, got %+v", history)
	}
}
