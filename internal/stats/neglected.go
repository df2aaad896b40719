package stats

import (
	"sort"

	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
)

// NeglectedSegments returns up to n segments of g with the least attention.
// Segments never looked at count as zero and come first.
func NeglectedSegments(g grid.Grid, totals []model.SegmentTotal, n int) []model.SegmentID {
	durations := DurationMap(totals)
	candidates := make([]model.SegmentTotal, 0, g.Segments())
	for id := model.SegmentID(1); int(id) <= g.Segments(); id++ {
		candidates = append(candidates, model.SegmentTotal{Segment: id, Duration: durations[id]})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Duration < candidates[j].Duration
	})
	if n <= 0 || n > len(candidates) {
		n = len(candidates)
	}
	out := make([]model.SegmentID, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, candidates[i].Segment)
	}
	return out
}

// Unvisited lists the segments of g that received no attention at all.
func Unvisited(g grid.Grid, totals []model.SegmentTotal) []model.SegmentID {
	seen := make(map[model.SegmentID]bool, len(totals))
	for _, t := range totals {
		if t.Duration > 0 || t.Samples > 0 {
			seen[t.Segment] = true
		}
	}
	var out []model.SegmentID
	for id := model.SegmentID(1); int(id) <= g.Segments(); id++ {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
