package stats

import (
	"sort"

	"github.com/verte-zerg/gazegrid/internal/model"
)

// TopSegments returns up to n visited segments with the most attention.
func TopSegments(totals []model.SegmentTotal, n int) []model.SegmentID {
	if n <= 0 || len(totals) == 0 {
		return nil
	}
	items := make([]model.SegmentTotal, 0, len(totals))
	for _, t := range totals {
		if t.Duration > 0 || t.Samples > 0 {
			items = append(items, t)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Duration == items[j].Duration {
			return items[i].Segment < items[j].Segment
		}
		return items[i].Duration > items[j].Duration
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]model.SegmentID, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].Segment)
	}
	return out
}
