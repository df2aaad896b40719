// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
)

// TotalDuration sums the durations of the given totals.
func TotalDuration(totals []model.SegmentTotal) time.Duration {
	var sum time.Duration
	for _, t := range totals {
		sum += t.Duration
	}
	return sum
}

// AggregateTotals converts cross-session aggregates into segment totals.
func AggregateTotals(aggs []model.SegmentAggregate) []model.SegmentTotal {
	out := make([]model.SegmentTotal, 0, len(aggs))
	for _, agg := range aggs {
		out = append(out, model.SegmentTotal{
			Segment:  agg.Segment,
			Duration: time.Duration(agg.DurationMs) * time.Millisecond,
			Samples:  agg.Samples,
		})
	}
	return out
}

// DurationMap indexes totals by segment.
func DurationMap(totals []model.SegmentTotal) map[model.SegmentID]time.Duration {
	out := make(map[model.SegmentID]time.Duration, len(totals))
	for _, t := range totals {
		out[t.Segment] += t.Duration
	}
	return out
}

func share(part, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}

// RenderReportTable prints the per-segment totals of one session.
func RenderReportTable(w io.Writer, totals []model.SegmentTotal) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, "No gaze samples recorded.")
		return err
	}
	total := TotalDuration(totals)
	headers := []string{"Segment", "Total Time (s)", "Samples", "Share"}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.Segment),
			seconds(t.Duration),
			fmt.Sprintf("%d", t.Samples),
			fmt.Sprintf("%.1f%%", share(t.Duration, total)*100),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}))
}

// RenderSessionHeader prints the identifying lines of a stored session.
func RenderSessionHeader(w io.Writer, s model.SessionStats) error {
	lines := []string{
		fmt.Sprintf("Session: %s", s.UUID),
		fmt.Sprintf("Started: %s", s.StartedAt.Local().Format(time.DateTime)),
		fmt.Sprintf("Ended: %s", s.EndedAt.Local().Format(time.DateTime)),
		fmt.Sprintf("Grid: %dx%d over %dx%d px", s.Rows, s.Cols, s.Width, s.Height),
		fmt.Sprintf("Source: %s, attribution: %s", s.Source, s.Attribution),
		fmt.Sprintf("Samples: %d over %s s", s.SampleCount, seconds(time.Duration(s.SpanMs)*time.Millisecond)),
		"",
	}
	return writeLines(w, lines)
}

// RenderSummary prints a summary of stored sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalMs, longestMs int64
	samples := 0
	for _, s := range sessions {
		totalMs += s.SpanMs
		samples += s.SampleCount
		if s.SpanMs > longestMs {
			longestMs = s.SpanMs
		}
	}
	count := int64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Samples: %d", samples),
		fmt.Sprintf("Tracked: %s s", seconds(time.Duration(totalMs)*time.Millisecond)),
		fmt.Sprintf("Avg Session: %s s", seconds(time.Duration(totalMs/count)*time.Millisecond)),
		fmt.Sprintf("Longest Session: %s s", seconds(time.Duration(longestMs)*time.Millisecond)),
		"",
	}
	return writeLines(w, lines)
}

// RenderSegmentTable prints cross-session per-segment aggregates.
func RenderSegmentTable(w io.Writer, aggs []model.SegmentAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No segment stats found.")
		return err
	}
	var totalMs int64
	for _, agg := range aggs {
		totalMs += agg.DurationMs
	}
	headers := []string{"Segment", "Total Time (s)", "Samples", "Sessions", "Share"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		d := time.Duration(agg.DurationMs) * time.Millisecond
		rows = append(rows, []string{
			fmt.Sprintf("%d", agg.Segment),
			seconds(d),
			fmt.Sprintf("%d", agg.Samples),
			fmt.Sprintf("%d", agg.Sessions),
			fmt.Sprintf("%.1f%%", share(d, time.Duration(totalMs)*time.Millisecond)*100),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}))
}

// RenderLayout prints the pixel bounds of every segment of a grid.
func RenderLayout(w io.Writer, g grid.Grid) error {
	if _, err := fmt.Fprintf(w, "Screen Divisions (%s)\n", g); err != nil {
		return err
	}
	headers := []string{"Segment", "Row", "Col", "X", "Y", "Width", "Height"}
	rows := make([][]string, 0, g.Segments())
	for id := model.SegmentID(1); int(id) <= g.Segments(); id++ {
		row, col, _ := g.RowCol(id)
		r, _ := g.Bounds(id)
		rows = append(rows, []string{
			fmt.Sprintf("%d", id),
			fmt.Sprintf("%d", row),
			fmt.Sprintf("%d", col),
			fmt.Sprintf("%d", r.Min.X),
			fmt.Sprintf("%d", r.Min.Y),
			fmt.Sprintf("%d", r.Dx()),
			fmt.Sprintf("%d", r.Dy()),
		})
	}
	right := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	return writeLines(w, formatTable(headers, rows, right))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
