// Package generator builds synthetic gaze streams.
package generator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/verte-zerg/gazegrid/internal/capture"
	"github.com/verte-zerg/gazegrid/internal/model"
)

const (
	defaultSaccadePct = 0.08
	defaultBlinkPct   = 0.03
	defaultJitter     = 12
	defaultInterval   = 33 * time.Millisecond
)

// Generator produces a random walk of fixations and saccades over a screen.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand

	width  int
	height int
	x, y   int

	saccadePct float64
	blinkPct   float64
	jitter     int
	interval   time.Duration
}

// Option tunes a Generator.
type Option func(*Generator)

// WithSaccadePct sets the per-sample probability of jumping to a new point.
func WithSaccadePct(p float64) Option {
	return func(g *Generator) { g.saccadePct = p }
}

// WithBlinkPct sets the per-frame probability of reporting no face.
func WithBlinkPct(p float64) Option {
	return func(g *Generator) { g.blinkPct = p }
}

// WithJitter sets the fixation jitter in pixels.
func WithJitter(px int) Option {
	return func(g *Generator) { g.jitter = px }
}

// WithInterval sets the delay between frames returned by Read.
func WithInterval(d time.Duration) Option {
	return func(g *Generator) { g.interval = d }
}

// New returns a Generator seeded with the current time.
func New(width, height int, opts ...Option) *Generator {
	return NewWithSeed(time.Now().UnixNano(), width, height, opts...)
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64, width, height int, opts ...Option) *Generator {
	g := &Generator{
		rnd:        rand.New(rand.NewSource(seed)),
		width:      width,
		height:     height,
		saccadePct: defaultSaccadePct,
		blinkPct:   defaultBlinkPct,
		jitter:     defaultJitter,
		interval:   defaultInterval,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.x = g.rnd.Intn(maxInt(width, 1))
	g.y = g.rnd.Intn(maxInt(height, 1))
	return g
}

// Next returns the next eye position; ok is false while the subject blinks.
// Jitter may push a position slightly off screen, like a real detector.
func (g *Generator) Next() (pos model.Position, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.blinkPct > 0 && g.rnd.Float64() < g.blinkPct {
		return model.Position{}, false
	}
	if g.saccadePct > 0 && g.rnd.Float64() < g.saccadePct {
		g.x = g.rnd.Intn(maxInt(g.width, 1))
		g.y = g.rnd.Intn(maxInt(g.height, 1))
	}
	return model.Position{
		X: g.x + applyJitter(g.rnd, g.jitter),
		Y: g.y + applyJitter(g.rnd, g.jitter),
	}, true
}

// Generate returns count consecutive samples spaced step apart, skipping blinks.
func (g *Generator) Generate(count int, start time.Time, step time.Duration) []model.GazeSample {
	result := make([]model.GazeSample, 0, count)
	at := start
	for len(result) < count {
		at = at.Add(step)
		pos, ok := g.Next()
		if !ok {
			continue
		}
		result = append(result, model.GazeSample{Position: pos, At: at})
	}
	return result
}

// Frame carries one synthetic observation.
type Frame struct {
	Position model.Position
	Face     bool
}

// Close implements capture.Frame.
func (Frame) Close() error { return nil }

// Read waits one frame interval and returns the next observation.
func (g *Generator) Read(ctx context.Context) (capture.Frame, error) {
	if g.interval > 0 {
		timer := time.NewTimer(g.interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	pos, ok := g.Next()
	return Frame{Position: pos, Face: ok}, nil
}

// Close implements capture.FrameSource.
func (g *Generator) Close() error { return nil }

// Detector reads positions straight out of synthetic frames.
type Detector struct{}

// Detect implements capture.Detector.
func (Detector) Detect(f capture.Frame) (model.Position, bool, error) {
	frame, ok := f.(Frame)
	if !ok {
		return model.Position{}, false, nil
	}
	return frame.Position, frame.Face, nil
}

// Close implements capture.Detector.
func (Detector) Close() error { return nil }

// DetectorFactory returns a capture.DetectorFactory for synthetic frames.
func DetectorFactory() capture.DetectorFactory {
	return func() (capture.Detector, error) {
		return Detector{}, nil
	}
}

func applyJitter(rnd *rand.Rand, px int) int {
	if px <= 0 {
		return 0
	}
	return rnd.Intn(2*px+1) - px
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
