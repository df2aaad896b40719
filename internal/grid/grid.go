// Package grid partitions a screen into equal row-major segments.
package grid

import (
	"errors"
	"fmt"
	"image"

	"github.com/verte-zerg/gazegrid/internal/model"
)

// ErrInvalidGrid reports grid dimensions that cannot be classified against.
var ErrInvalidGrid = errors.New("invalid grid")

// Grid is an immutable rows x cols partition of a width x height screen.
// Cell sizes use integer division, so the last column and row absorb any
// remainder pixels.
type Grid struct {
	width  int
	height int
	rows   int
	cols   int
}

// New validates the dimensions and returns a Grid.
func New(width, height, rows, cols int) (Grid, error) {
	if rows <= 0 || cols <= 0 {
		return Grid{}, fmt.Errorf("%w: rows and cols must be > 0 (got %dx%d)", ErrInvalidGrid, rows, cols)
	}
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("%w: screen size must be > 0 (got %dx%d)", ErrInvalidGrid, width, height)
	}
	if width < cols || height < rows {
		return Grid{}, fmt.Errorf("%w: screen %dx%d is smaller than %d rows x %d cols", ErrInvalidGrid, width, height, rows, cols)
	}
	return Grid{width: width, height: height, rows: rows, cols: cols}, nil
}

// Width returns the screen width in pixels.
func (g Grid) Width() int { return g.width }

// Height returns the screen height in pixels.
func (g Grid) Height() int { return g.height }

// Rows returns the number of grid rows.
func (g Grid) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g Grid) Cols() int { return g.cols }

// CellWidth returns width / cols.
func (g Grid) CellWidth() int { return g.width / g.cols }

// CellHeight returns height / rows.
func (g Grid) CellHeight() int { return g.height / g.rows }

// Segments returns the number of segments.
func (g Grid) Segments() int { return g.rows * g.cols }

// Classify maps a pixel position to its segment. Positions outside the
// screen clamp to the nearest edge segment.
func (g Grid) Classify(x, y int) model.SegmentID {
	row := clamp(y/g.CellHeight(), 0, g.rows-1)
	col := clamp(x/g.CellWidth(), 0, g.cols-1)
	return model.SegmentID(row*g.cols + col + 1)
}

// Classify is the function form of Grid.Classify.
func Classify(g Grid, x, y int) model.SegmentID {
	return g.Classify(x, y)
}

// RowCol returns the zero-based row and column of a segment.
func (g Grid) RowCol(id model.SegmentID) (row, col int, ok bool) {
	if !g.Contains(id) {
		return 0, 0, false
	}
	idx := int(id) - 1
	return idx / g.cols, idx % g.cols, true
}

// Contains reports whether id is a segment of g.
func (g Grid) Contains(id model.SegmentID) bool {
	return id >= 1 && int(id) <= g.Segments()
}

// Bounds returns the pixel rectangle covered by a segment.
func (g Grid) Bounds(id model.SegmentID) (image.Rectangle, bool) {
	row, col, ok := g.RowCol(id)
	if !ok {
		return image.Rectangle{}, false
	}
	cw, ch := g.CellWidth(), g.CellHeight()
	minX, minY := col*cw, row*ch
	maxX, maxY := minX+cw, minY+ch
	if col == g.cols-1 {
		maxX = g.width
	}
	if row == g.rows-1 {
		maxY = g.height
	}
	return image.Rect(minX, minY, maxX, maxY), true
}

// String implements fmt.Stringer.
func (g Grid) String() string {
	return fmt.Sprintf("%dx%d over %dx%d", g.rows, g.cols, g.width, g.height)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
