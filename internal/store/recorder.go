package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/session"
)

// Recorder persists finished session reports.
type Recorder struct {
	Store  *Store
	Source string

	// LastID and LastUUID identify the most recently saved session.
	LastID   int64
	LastUUID string
}

// SaveReport stores a report. Reports without samples are skipped.
func (r *Recorder) SaveReport(ctx context.Context, report session.Report) error {
	if report.SampleCount() == 0 {
		return nil
	}
	stats, segments := StatsFromReport(report, r.Source)
	stats.UUID = uuid.New().String()
	id, err := r.Store.InsertSession(ctx, stats, segments)
	if err != nil {
		return err
	}
	r.LastID = id
	r.LastUUID = stats.UUID
	return nil
}

// StatsFromReport converts a report into its stored representation.
// Segment durations are apportioned in whole milliseconds so that they
// still sum to the stored span.
func StatsFromReport(report session.Report, source string) (model.SessionStats, []model.SegmentStats) {
	g := report.Grid()
	totals := report.Segments()
	spanMs := report.Span().Round(time.Millisecond).Milliseconds()
	stats := model.SessionStats{
		StartedAt:   report.StartedAt(),
		EndedAt:     report.EndedAt(),
		Width:       g.Width(),
		Height:      g.Height(),
		Rows:        g.Rows(),
		Cols:        g.Cols(),
		Attribution: report.Attribution().String(),
		Source:      source,
		SampleCount: report.SampleCount(),
		SpanMs:      spanMs,
	}
	ms := apportionMillis(totals, spanMs)
	segments := make([]model.SegmentStats, 0, len(totals))
	for i, t := range totals {
		segments = append(segments, model.SegmentStats{
			Segment:    t.Segment,
			DurationMs: ms[i],
			Samples:    t.Samples,
		})
	}
	return stats, segments
}

// apportionMillis floors every duration to milliseconds and hands the
// leftover milliseconds to the largest remainders, lowest segment first on
// ties. The result sums to spanMs whenever the durations sum to the span.
func apportionMillis(totals []model.SegmentTotal, spanMs int64) []int64 {
	out := make([]int64, len(totals))
	rems := make([]int, len(totals))
	var sum int64
	for i, t := range totals {
		out[i] = t.Duration.Milliseconds()
		sum += out[i]
		rems[i] = i
	}
	sort.SliceStable(rems, func(a, b int) bool {
		return totals[rems[a]].Duration%time.Millisecond > totals[rems[b]].Duration%time.Millisecond
	})
	for _, i := range rems {
		if sum >= spanMs {
			break
		}
		if totals[i].Duration%time.Millisecond == 0 {
			break
		}
		out[i]++
		sum++
	}
	return out
}

// SegmentTotals converts stored segments back into report totals.
func SegmentTotals(segments []model.SegmentStats) []model.SegmentTotal {
	out := make([]model.SegmentTotal, 0, len(segments))
	for _, seg := range segments {
		out = append(out, model.SegmentTotal{
			Segment:  seg.Segment,
			Duration: time.Duration(seg.DurationMs) * time.Millisecond,
			Samples:  seg.Samples,
		})
	}
	return out
}
