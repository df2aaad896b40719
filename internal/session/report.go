package session

import (
	"sort"
	"time"

	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
)

// Report is the read-only summary of a stopped session.
type Report struct {
	grid        grid.Grid
	attribution Attribution
	totals      map[model.SegmentID]model.SegmentTotal
	sampleCount int
	span        time.Duration
	startedAt   time.Time
	endedAt     time.Time
	events      []model.GazeEvent
}

// Grid returns the grid the session was classified against.
func (r Report) Grid() grid.Grid { return r.grid }

// Attribution returns the attribution policy the session used.
func (r Report) Attribution() Attribution { return r.attribution }

// SampleCount returns the number of recorded samples.
func (r Report) SampleCount() int { return r.sampleCount }

// Span returns the time between the first and last sample.
func (r Report) Span() time.Duration { return r.span }

// StartedAt returns the first sample time, zero for an empty session.
func (r Report) StartedAt() time.Time { return r.startedAt }

// EndedAt returns the last sample time, zero for an empty session.
func (r Report) EndedAt() time.Time { return r.endedAt }

// Duration returns the total time credited to a segment.
func (r Report) Duration(id model.SegmentID) time.Duration {
	return r.totals[id].Duration
}

// Samples returns how many samples landed in a segment.
func (r Report) Samples(id model.SegmentID) int {
	return r.totals[id].Samples
}

// Visited reports whether any sample touched the segment.
func (r Report) Visited(id model.SegmentID) bool {
	_, ok := r.totals[id]
	return ok
}

// Total returns the sum of all segment durations. It equals Span.
func (r Report) Total() time.Duration {
	var total time.Duration
	for _, t := range r.totals {
		total += t.Duration
	}
	return total
}

// Share returns the fraction of the total credited to a segment.
func (r Report) Share(id model.SegmentID) float64 {
	total := r.Total()
	if total <= 0 {
		return 0
	}
	return float64(r.totals[id].Duration) / float64(total)
}

// Segments lists visited segments ordered by segment id.
func (r Report) Segments() []model.SegmentTotal {
	out := make([]model.SegmentTotal, 0, len(r.totals))
	for _, t := range r.totals {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Segment < out[j].Segment
	})
	return out
}

// Durations returns a copy of the per-segment durations.
func (r Report) Durations() map[model.SegmentID]time.Duration {
	out := make(map[model.SegmentID]time.Duration, len(r.totals))
	for id, t := range r.totals {
		out[id] = t.Duration
	}
	return out
}

// Events returns the retained events, if the session kept them.
func (r Report) Events() []model.GazeEvent {
	if len(r.events) == 0 {
		return nil
	}
	return append([]model.GazeEvent(nil), r.events...)
}
