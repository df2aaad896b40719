package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/gazegrid/internal/model"
)

func TestHeatmapCells(t *testing.T) {
	g := mustGrid(t, 100, 100, 2, 2)
	cells := HeatmapCells(g, map[model.SegmentID]time.Duration{
		1:  3 * time.Second,
		4:  time.Second,
		99: time.Hour,
	})
	if len(cells) != 2 || len(cells[0]) != 2 {
		t.Fatalf("unexpected shape %dx%d", len(cells), len(cells[0]))
	}
	if cells[0][0].Segment != 1 || cells[1][1].Segment != 4 {
		t.Fatalf("cells out of order: %+v", cells)
	}
	if cells[0][0].Share != 0.75 || cells[1][1].Share != 0.25 {
		t.Fatalf("unexpected shares %v %v", cells[0][0].Share, cells[1][1].Share)
	}
	if cells[0][0].Shade() != '@' {
		t.Fatalf("hottest cell should be darkest, got %q", cells[0][0].Shade())
	}
	if cells[0][1].Shade() != ' ' {
		t.Fatalf("unvisited cell should be blank, got %q", cells[0][1].Shade())
	}
}

func TestRenderHeatmapPlain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	g := mustGrid(t, 100, 100, 1, 2)
	var buf bytes.Buffer
	err := RenderHeatmap(&buf, g, map[model.SegmentID]time.Duration{2: time.Second}, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("NO_COLOR must disable escapes: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "100.0%") {
		t.Fatalf("missing share: %q", buf.String())
	}
}

func TestHeatmapLinesColor(t *testing.T) {
	g := mustGrid(t, 100, 100, 1, 1)
	lines := HeatmapLines(g, map[model.SegmentID]time.Duration{1: time.Second}, true)
	if len(lines) != 1 || !strings.HasSuffix(lines[0], colorReset) {
		t.Fatalf("expected coloured line, got %q", lines)
	}
}
