package generator

import (
	"context"
	"testing"
	"time"
)

func TestGeneratorIsDeterministic(t *testing.T) {
	a := NewWithSeed(7, 1920, 1080)
	b := NewWithSeed(7, 1920, 1080)
	for i := 0; i < 50; i++ {
		pa, oka := a.Next()
		pb, okb := b.Next()
		if pa != pb || oka != okb {
			t.Fatalf("sample %d differs: %+v/%v vs %+v/%v", i, pa, oka, pb, okb)
		}
	}
}

func TestGeneratorStaysNearScreen(t *testing.T) {
	g := NewWithSeed(1, 640, 480, WithJitter(5), WithSaccadePct(0.5))
	for i := 0; i < 500; i++ {
		pos, ok := g.Next()
		if !ok {
			continue
		}
		if pos.X < -5 || pos.X > 640+5 || pos.Y < -5 || pos.Y > 480+5 {
			t.Fatalf("position %+v too far off screen", pos)
		}
	}
}

func TestGenerateSkipsBlinks(t *testing.T) {
	g := NewWithSeed(3, 100, 100, WithBlinkPct(0.5))
	start := time.Unix(0, 0)
	samples := g.Generate(20, start, 10*time.Millisecond)
	if len(samples) != 20 {
		t.Fatalf("expected 20 samples, got %d", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if !samples[i].At.After(samples[i-1].At) {
			t.Fatalf("timestamps must increase: %v then %v", samples[i-1].At, samples[i].At)
		}
	}
}

func TestReadAndDetect(t *testing.T) {
	g := NewWithSeed(5, 100, 100, WithInterval(0), WithBlinkPct(0))
	frame, err := g.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	det, err := DetectorFactory()()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	pos, ok, err := det.Detect(frame)
	if err != nil || !ok {
		t.Fatalf("expected a face, got ok=%v err=%v", ok, err)
	}
	if pos != frame.(Frame).Position {
		t.Fatalf("detector must return the frame position")
	}
}

func TestReadHonoursCancel(t *testing.T) {
	g := NewWithSeed(5, 100, 100, WithInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Read(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
