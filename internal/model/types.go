// Package model defines shared data structures.
package model

import "time"

// SegmentID identifies one cell of the screen grid, 1-based and row-major.
type SegmentID int

// Position is an eye position in screen pixels.
type Position struct {
	X int
	Y int
}

// GazeSample is one timestamped eye position.
type GazeSample struct {
	Position Position
	At       time.Time
}

// GazeEvent is the contribution of a single sample to the session totals.
// Segment is where the sample landed; Attributed is the segment credited
// with Duration.
type GazeEvent struct {
	Segment    SegmentID
	Attributed SegmentID
	Duration   time.Duration
	Position   Position
	At         time.Time
}

// SegmentTotal is the accumulated attention on one segment.
type SegmentTotal struct {
	Segment  SegmentID
	Duration time.Duration
	Samples  int
}

// Config defines tracking settings.
type Config struct {
	Width       int
	Height      int
	Rows        int
	Cols        int
	CameraID    int
	ModelPath   string
	Eye         string
	Mirror      bool
	Confidence  float64
	Source      string
	Attribution string
	KeepEvents  bool
	Save        bool
}

// StatsConfig defines filters for history output.
type StatsConfig struct {
	Since *time.Time
	Last  int
}

// SessionStats captures a completed gaze session.
type SessionStats struct {
	UUID        string
	StartedAt   time.Time
	EndedAt     time.Time
	Width       int
	Height      int
	Rows        int
	Cols        int
	Attribution string
	Source      string
	SampleCount int
	SpanMs      int64
}

// SegmentStats stores per-segment totals for a session.
type SegmentStats struct {
	Segment    SegmentID
	DurationMs int64
	Samples    int
}

// SegmentAggregate aggregates segment totals across sessions.
type SegmentAggregate struct {
	Segment    SegmentID
	DurationMs int64
	Samples    int
	Sessions   int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID   int64
	UUID        string
	EndedAt     time.Time
	Rows        int
	Cols        int
	SampleCount int
	SpanMs      int64
}
