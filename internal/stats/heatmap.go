package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
)

const (
	shadeChars = " .:-=+*#%@"
	colorReset = "\x1b[0m"
)

// Cool to hot, indexed by shade level.
var heatPalette = []string{
	"\x1b[90m",
	"\x1b[34m",
	"\x1b[36m",
	"\x1b[32m",
	"\x1b[33m",
	"\x1b[31m",
}

// HeatCell is one rendered grid cell.
type HeatCell struct {
	Segment model.SegmentID
	Share   float64
	// Level is 0 for an unvisited cell and rises to 1 for the hottest one.
	Level float64
}

// Shade returns the density character for the cell.
func (c HeatCell) Shade() byte {
	return shadeChars[levelIndex(c.Level, len(shadeChars))]
}

// HeatmapCells lays out per-segment attention as rows of cells.
func HeatmapCells(g grid.Grid, durations map[model.SegmentID]time.Duration) [][]HeatCell {
	var total, hottest time.Duration
	for id, d := range durations {
		if !g.Contains(id) {
			continue
		}
		total += d
		if d > hottest {
			hottest = d
		}
	}
	rows := make([][]HeatCell, g.Rows())
	for r := 0; r < g.Rows(); r++ {
		rows[r] = make([]HeatCell, g.Cols())
		for c := 0; c < g.Cols(); c++ {
			id := model.SegmentID(r*g.Cols() + c + 1)
			d := durations[id]
			cell := HeatCell{Segment: id, Share: share(d, total)}
			if hottest > 0 {
				cell.Level = float64(d) / float64(hottest)
			}
			rows[r][c] = cell
		}
	}
	return rows
}

// HeatmapLines renders the grid as text, one line per grid row.
func HeatmapLines(g grid.Grid, durations map[model.SegmentID]time.Duration, useColor bool) []string {
	cells := HeatmapCells(g, durations)
	lines := make([]string, 0, len(cells))
	for _, row := range cells {
		var b strings.Builder
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			text := fmt.Sprintf("%3d %s%s %5.1f%%", cell.Segment, string(cell.Shade()), string(cell.Shade()), cell.Share*100)
			if useColor {
				b.WriteString(heatPalette[levelIndex(cell.Level, len(heatPalette))])
				b.WriteString(text)
				b.WriteString(colorReset)
				continue
			}
			b.WriteString(text)
		}
		lines = append(lines, b.String())
	}
	return lines
}

// RenderHeatmap prints the heatmap, colouring it when w is a terminal.
func RenderHeatmap(w io.Writer, g grid.Grid, durations map[model.SegmentID]time.Duration, forceColor bool) error {
	if _, err := fmt.Fprintln(w, "Heatmap"); err != nil {
		return err
	}
	if err := writeLines(w, HeatmapLines(g, durations, shouldUseColor(w, forceColor))); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func levelIndex(level float64, n int) int {
	if level <= 0 {
		return 0
	}
	idx := 1 + int(math.Round(level*float64(n-2)))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
