// Package capture drives a gaze session from a frame source and a landmark
// detector, one frame at a time.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/session"
)

// ErrDetectorUnavailable is reported through Display.ShowError when a
// session cannot start because no detector could be acquired. The loop is
// idle again afterwards.
var ErrDetectorUnavailable = errors.New("acquire detector")

// Frame is one acquired video frame. Frames are closed by the loop.
type Frame interface {
	Close() error
}

// FrameSource produces frames on demand. Read blocks until a frame is
// available; an error is fatal to the loop.
type FrameSource interface {
	Read(ctx context.Context) (Frame, error)
	Close() error
}

// Detector locates the tracked eye in a frame. ok is false when no face was
// found, which is not an error.
type Detector interface {
	Detect(f Frame) (pos model.Position, ok bool, err error)
	Close() error
}

// DetectorFactory acquires a detector for one session.
type DetectorFactory func() (Detector, error)

// Update is the live feedback for one processed frame.
type Update struct {
	Face        bool
	Event       model.GazeEvent
	Totals      map[model.SegmentID]time.Duration
	SampleCount int
}

// Display receives live feedback and final reports.
type Display interface {
	ShowSample(u Update)
	ShowReport(r session.Report)
	ShowError(err error)
}

// Sink persists finished reports.
type Sink interface {
	SaveReport(ctx context.Context, r session.Report) error
}

// Command controls the loop.
type Command int

const (
	// CommandStart begins a new session when the loop is idle.
	CommandStart Command = iota + 1
	// CommandStop finalizes the running session.
	CommandStop
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}
