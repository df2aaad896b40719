// Package session accumulates gaze samples into per-segment dwell totals.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
)

// State is the lifecycle position of a Session.
type State int

const (
	// Idle sessions have not been started.
	Idle State = iota
	// Running sessions accept samples.
	Running
	// Stopped sessions have produced their report.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Attribution selects which segment is credited with the interval between
// two consecutive samples.
type Attribution int

const (
	// AttributeCurrent credits the segment of the sample that ends the interval.
	AttributeCurrent Attribution = iota
	// AttributePrevious credits the segment of the sample that starts it.
	AttributePrevious
)

func (a Attribution) String() string {
	if a == AttributePrevious {
		return "previous"
	}
	return "current"
}

// ParseAttribution parses "current" or "previous".
func ParseAttribution(s string) (Attribution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "current":
		return AttributeCurrent, nil
	case "previous":
		return AttributePrevious, nil
	default:
		return AttributeCurrent, fmt.Errorf("unknown attribution %q (use current or previous)", s)
	}
}

// Listener observes every recorded event.
type Listener func(model.GazeEvent)

// Option configures a Session.
type Option func(*Session)

// WithAttribution sets the interval attribution policy.
func WithAttribution(a Attribution) Option {
	return func(s *Session) { s.attribution = a }
}

// WithEvents retains every recorded event for the report.
func WithEvents() Option {
	return func(s *Session) { s.keepEvents = true }
}

// WithListener registers a listener called after each successful Record.
func WithListener(l Listener) Option {
	return func(s *Session) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

type segmentTotal struct {
	duration time.Duration
	samples  int
}

// Session is a stateful gaze accumulator. It is safe for concurrent use,
// but samples must still arrive in non-decreasing time order.
type Session struct {
	mu sync.Mutex

	grid        grid.Grid
	attribution Attribution
	keepEvents  bool
	listeners   []Listener

	state     State
	totals    map[model.SegmentID]*segmentTotal
	first     time.Time
	last      time.Time
	lastSeg   model.SegmentID
	hasSample bool
	samples   int
	events    []model.GazeEvent
}

// New returns an idle session over g.
func New(g grid.Grid, opts ...Option) *Session {
	s := &Session{
		grid:   g,
		totals: map[model.SegmentID]*segmentTotal{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start moves an idle session to running.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return stateError("start", s.state)
	}
	s.state = Running
	return nil
}

// Record classifies pos and adds the time elapsed since the previous sample
// to the attributed segment. A sample older than its predecessor is
// rejected with a *ClockRegressionError and leaves the session unchanged.
func (s *Session) Record(pos model.Position, at time.Time) (model.GazeEvent, error) {
	s.mu.Lock()
	if s.state != Running {
		state := s.state
		s.mu.Unlock()
		return model.GazeEvent{}, stateError("record", state)
	}

	segment := s.grid.Classify(pos.X, pos.Y)
	var duration time.Duration
	if s.hasSample {
		duration = at.Sub(s.last)
		if duration < 0 {
			prev := s.last
			s.mu.Unlock()
			return model.GazeEvent{}, &ClockRegressionError{Prev: prev, At: at}
		}
	}

	attributed := segment
	if s.attribution == AttributePrevious && s.hasSample {
		attributed = s.lastSeg
	}
	s.entry(attributed).duration += duration
	s.entry(segment).samples++

	if !s.hasSample {
		s.first = at
		s.hasSample = true
	}
	s.last = at
	s.lastSeg = segment
	s.samples++

	event := model.GazeEvent{
		Segment:    segment,
		Attributed: attributed,
		Duration:   duration,
		Position:   pos,
		At:         at,
	}
	if s.keepEvents {
		s.events = append(s.events, event)
	}
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(event)
	}
	return event, nil
}

// Stop finalizes a running session into a Report. The session accepts no
// further samples afterwards.
func (s *Session) Stop() (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return Report{}, stateError("stop", s.state)
	}
	s.state = Stopped

	totals := make(map[model.SegmentID]model.SegmentTotal, len(s.totals))
	for id, entry := range s.totals {
		totals[id] = model.SegmentTotal{Segment: id, Duration: entry.duration, Samples: entry.samples}
	}
	var span time.Duration
	if s.samples >= 2 {
		span = s.last.Sub(s.first)
	}
	report := Report{
		grid:        s.grid,
		attribution: s.attribution,
		totals:      totals,
		sampleCount: s.samples,
		span:        span,
		startedAt:   s.first,
		endedAt:     s.last,
	}
	if len(s.events) > 0 {
		report.events = append([]model.GazeEvent(nil), s.events...)
	}
	return report, nil
}

// Snapshot returns a copy of the running per-segment durations.
func (s *Session) Snapshot() map[model.SegmentID]time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[model.SegmentID]time.Duration, len(s.totals))
	for id, entry := range s.totals {
		out[id] = entry.duration
	}
	return out
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SampleCount returns the number of accepted samples.
func (s *Session) SampleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.samples
}

// Grid returns the grid samples are classified against.
func (s *Session) Grid() grid.Grid {
	return s.grid
}

func (s *Session) entry(id model.SegmentID) *segmentTotal {
	entry, ok := s.totals[id]
	if !ok {
		entry = &segmentTotal{}
		s.totals[id] = entry
	}
	return entry
}
