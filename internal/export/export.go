// Package export writes gaze sessions as JSON documents.
package export

import (
	"errors"
	"io"
	"math"
	"time"

	"github.com/goccy/go-json"

	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/session"
)

// Document is the exported form of a session.
type Document struct {
	Session     string    `json:"session"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	Grid        Grid      `json:"grid"`
	Attribution string    `json:"attribution,omitempty"`
	Source      string    `json:"source,omitempty"`
	SampleCount int       `json:"sample_count"`
	SpanSeconds float64   `json:"span_seconds"`
	Segments    []Segment `json:"segments"`
	Events      []Event   `json:"events,omitempty"`
}

// Grid describes the screen division.
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Rows   int `json:"rows"`
	Cols   int `json:"cols"`
}

// Segment is one row of the final report.
type Segment struct {
	Segment      model.SegmentID `json:"segment"`
	TotalSeconds float64         `json:"total_seconds"`
	Samples      int             `json:"samples"`
}

// Event is one retained gaze event.
type Event struct {
	Segment         model.SegmentID `json:"segment"`
	Attributed      model.SegmentID `json:"attributed"`
	DurationSeconds float64         `json:"duration_seconds"`
	X               int             `json:"x"`
	Y               int             `json:"y"`
	At              time.Time       `json:"at"`
}

// FromReport builds a document from a finished in-memory session.
func FromReport(report session.Report, source string) Document {
	g := report.Grid()
	doc := Document{
		StartedAt:   report.StartedAt(),
		EndedAt:     report.EndedAt(),
		Grid:        Grid{Width: g.Width(), Height: g.Height(), Rows: g.Rows(), Cols: g.Cols()},
		Attribution: report.Attribution().String(),
		Source:      source,
		SampleCount: report.SampleCount(),
		SpanSeconds: report.Span().Seconds(),
		Segments:    segments(report.Segments()),
	}
	for _, ev := range report.Events() {
		doc.Events = append(doc.Events, Event{
			Segment:         ev.Segment,
			Attributed:      ev.Attributed,
			DurationSeconds: ev.Duration.Seconds(),
			X:               ev.Position.X,
			Y:               ev.Position.Y,
			At:              ev.At,
		})
	}
	return doc
}

// FromStored builds a document from a persisted session.
func FromStored(stats model.SessionStats, stored []model.SegmentStats) Document {
	totals := make([]model.SegmentTotal, 0, len(stored))
	for _, seg := range stored {
		totals = append(totals, model.SegmentTotal{
			Segment:  seg.Segment,
			Duration: time.Duration(seg.DurationMs) * time.Millisecond,
			Samples:  seg.Samples,
		})
	}
	return Document{
		Session:     stats.UUID,
		StartedAt:   stats.StartedAt,
		EndedAt:     stats.EndedAt,
		Grid:        Grid{Width: stats.Width, Height: stats.Height, Rows: stats.Rows, Cols: stats.Cols},
		Attribution: stats.Attribution,
		Source:      stats.Source,
		SampleCount: stats.SampleCount,
		SpanSeconds: (time.Duration(stats.SpanMs) * time.Millisecond).Seconds(),
		Segments:    segments(totals),
	}
}

// ToStored converts a document back into its stored representation.
// Documents without a session uuid are rejected.
func ToStored(doc Document) (model.SessionStats, []model.SegmentStats, error) {
	if doc.Session == "" {
		return model.SessionStats{}, nil, errors.New("document has no session id")
	}
	stats := model.SessionStats{
		UUID:        doc.Session,
		StartedAt:   doc.StartedAt,
		EndedAt:     doc.EndedAt,
		Width:       doc.Grid.Width,
		Height:      doc.Grid.Height,
		Rows:        doc.Grid.Rows,
		Cols:        doc.Grid.Cols,
		Attribution: doc.Attribution,
		Source:      doc.Source,
		SampleCount: doc.SampleCount,
		SpanMs:      millis(doc.SpanSeconds),
	}
	stored := make([]model.SegmentStats, 0, len(doc.Segments))
	for _, seg := range doc.Segments {
		stored = append(stored, model.SegmentStats{
			Segment:    seg.Segment,
			DurationMs: millis(seg.TotalSeconds),
			Samples:    seg.Samples,
		})
	}
	return stats, stored, nil
}

func millis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}

func segments(totals []model.SegmentTotal) []Segment {
	out := make([]Segment, 0, len(totals))
	for _, t := range totals {
		out = append(out, Segment{
			Segment:      t.Segment,
			TotalSeconds: t.Duration.Seconds(),
			Samples:      t.Samples,
		})
	}
	return out
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Read decodes a document written by Write.
func Read(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
