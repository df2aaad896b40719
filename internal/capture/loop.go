package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/log"
	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/session"
)

// Config wires a Loop to its collaborators.
type Config struct {
	Grid      grid.Grid
	Source    FrameSource
	Detectors DetectorFactory
	Display   Display
	// Sink is optional.
	Sink Sink
	// Now defaults to time.Now.
	Now            func() time.Time
	SessionOptions []session.Option
}

// Loop runs capture sessions sequentially.
type Loop struct {
	cfg    Config
	logger *slog.Logger
}

// New returns a Loop for cfg.
func New(cfg Config) *Loop {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Loop{cfg: cfg, logger: log.With("component", "capture")}
}

// Run waits for commands and runs one session per start/stop pair. It
// returns when cmds is closed (nil), when ctx is done (ctx.Err()), or when
// the frame source fails. A running session is always finalized first.
func (l *Loop) Run(ctx context.Context, cmds <-chan Command) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-cmds:
			if !ok {
				return nil
			}
			if cmd != CommandStart {
				l.logger.Debug("ignoring command while idle", "command", cmd)
				continue
			}
			quit, err := l.runSession(ctx, cmds)
			if err != nil {
				return err
			}
			if quit {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
		}
	}
}

func (l *Loop) runSession(ctx context.Context, cmds <-chan Command) (quit bool, err error) {
	det, err := l.cfg.Detectors()
	if err != nil {
		l.logger.Error("failed to acquire detector", "err", err)
		l.cfg.Display.ShowError(fmt.Errorf("%w: %w", ErrDetectorUnavailable, err))
		return false, nil
	}
	defer func() {
		if cerr := det.Close(); cerr != nil {
			l.logger.Warn("failed to release detector", "err", cerr)
		}
	}()

	opts := make([]session.Option, 0, len(l.cfg.SessionOptions)+1)
	opts = append(opts, l.cfg.SessionOptions...)
	opts = append(opts, session.WithListener(l.logEvent))
	sess := session.New(l.cfg.Grid, opts...)
	if err := sess.Start(); err != nil {
		return true, err
	}
	l.logger.Info("session started", "grid", l.cfg.Grid.String())

	for {
		select {
		case <-ctx.Done():
			return true, l.finish(sess)
		case cmd, ok := <-cmds:
			if !ok {
				return true, l.finish(sess)
			}
			if cmd == CommandStop {
				return false, l.finish(sess)
			}
		default:
		}

		frame, rerr := l.cfg.Source.Read(ctx)
		if rerr != nil {
			if ctx.Err() != nil {
				return true, l.finish(sess)
			}
			if ferr := l.finish(sess); ferr != nil {
				return true, errors.Join(fmt.Errorf("capture: read frame: %w", rerr), ferr)
			}
			return true, fmt.Errorf("capture: read frame: %w", rerr)
		}
		if err := l.process(sess, det, frame); err != nil {
			return true, err
		}
	}
}

func (l *Loop) process(sess *session.Session, det Detector, frame Frame) error {
	defer func() {
		if cerr := frame.Close(); cerr != nil {
			l.logger.Warn("failed to release frame", "err", cerr)
		}
	}()

	pos, ok, err := det.Detect(frame)
	if err != nil {
		l.logger.Warn("detection failed", "err", err)
		return nil
	}
	if !ok {
		l.cfg.Display.ShowSample(Update{SampleCount: sess.SampleCount()})
		return nil
	}

	ev, err := sess.Record(pos, l.cfg.Now())
	if errors.Is(err, session.ErrClockRegression) {
		l.logger.Warn("sample rejected", "err", err)
		return nil
	}
	if err != nil {
		return err
	}
	l.cfg.Display.ShowSample(Update{
		Face:        true,
		Event:       ev,
		Totals:      sess.Snapshot(),
		SampleCount: sess.SampleCount(),
	})
	return nil
}

func (l *Loop) logEvent(ev model.GazeEvent) {
	l.logger.Debug("gaze sample", "segment", int(ev.Segment), "attributed", int(ev.Attributed),
		"duration", ev.Duration, "x", ev.Position.X, "y", ev.Position.Y)
}

func (l *Loop) finish(sess *session.Session) error {
	report, err := sess.Stop()
	if err != nil {
		return err
	}
	l.logger.Info("session stopped", "samples", report.SampleCount(), "span", report.Span())
	if l.cfg.Sink != nil {
		if err := l.cfg.Sink.SaveReport(context.Background(), report); err != nil {
			l.logger.Error("failed to save session", "err", err)
			l.cfg.Display.ShowError(fmt.Errorf("save session: %w", err))
		}
	}
	l.cfg.Display.ShowReport(report)
	return nil
}
