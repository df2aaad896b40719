package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/gazegrid/internal/config"
	"github.com/verte-zerg/gazegrid/internal/export"
	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/store"
)

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Grid.Rows == nil || *cfg.Grid.Rows != defaultRows {
		t.Fatalf("unexpected rows %v", cfg.Grid.Rows)
	}
	if cfg.Capture.Source == nil || *cfg.Capture.Source != defaultSource {
		t.Fatalf("unexpected source %v", cfg.Capture.Source)
	}
	if cfg.Session.Save == nil || !*cfg.Session.Save {
		t.Fatalf("unexpected save %v", cfg.Session.Save)
	}
}

func validTrackConfig() model.Config {
	return model.Config{
		Width:       1920,
		Height:      1080,
		Rows:        4,
		Cols:        4,
		Eye:         "left",
		Confidence:  0.5,
		Source:      sourceSim,
		Attribution: "current",
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validTrackConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := map[string]func(*model.Config){
		"width":       func(c *model.Config) { c.Width = 0 },
		"rows":        func(c *model.Config) { c.Rows = -1 },
		"confidence":  func(c *model.Config) { c.Confidence = 1.5 },
		"source":      func(c *model.Config) { c.Source = "webcam" },
		"eye":         func(c *model.Config) { c.Eye = "nose" },
		"attribution": func(c *model.Config) { c.Attribution = "next" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validTrackConfig()
			mutate(&cfg)
			if err := validateConfig(cfg); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestReplaySkipsRegressions(t *testing.T) {
	g, err := grid.New(100, 100, 2, 2)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	base := time.Unix(0, 0)
	samples := []model.GazeSample{
		{Position: model.Position{X: 10, Y: 10}, At: base},
		{Position: model.Position{X: 60, Y: 10}, At: base.Add(2 * time.Second)},
		{Position: model.Position{X: 60, Y: 60}, At: base.Add(time.Second)},
		{Position: model.Position{X: 60, Y: 60}, At: base.Add(5 * time.Second)},
	}
	opts, err := sessionOptions("current", false)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	report, err := replay(g, samples, opts)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if report.SampleCount() != 3 {
		t.Fatalf("expected 3 samples, got %d", report.SampleCount())
	}
	if report.Duration(2) != 2*time.Second || report.Duration(4) != 3*time.Second {
		t.Fatalf("unexpected durations %v", report.Durations())
	}

	var buf bytes.Buffer
	if err := printReport(&buf, report); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Time (s)") || !strings.Contains(buf.String(), "Heatmap") {
		t.Fatalf("unexpected report output:\n%s", buf.String())
	}
}

func TestSessionOptionsRejectsUnknownAttribution(t *testing.T) {
	if _, err := sessionOptions("sideways", false); err == nil {
		t.Fatalf("expected error")
	}
	opts, err := sessionOptions("previous", true)
	if err != nil || len(opts) != 2 {
		t.Fatalf("expected two options, got %d (%v)", len(opts), err)
	}
}

func replayReport(t *testing.T) (grid.Grid, []model.GazeSample) {
	t.Helper()
	g, err := grid.New(100, 100, 2, 2)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	return g, []model.GazeSample{
		{Position: model.Position{X: 10, Y: 10}, At: base},
		{Position: model.Position{X: 60, Y: 60}, At: base.Add(1500 * time.Millisecond)},
	}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "gazegrid.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSaveReplayCarriesSessionID(t *testing.T) {
	g, samples := replayReport(t)
	report, err := replay(g, samples, nil)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	doc, err := saveReplay(context.Background(), nil, report)
	if err != nil || doc.Session != "" {
		t.Fatalf("unsaved replay should have no session id, got %q (%v)", doc.Session, err)
	}

	st := openTestStore(t)
	doc, err = saveReplay(context.Background(), st, report)
	if err != nil {
		t.Fatalf("save replay: %v", err)
	}
	if doc.Session == "" {
		t.Fatalf("expected stored session id in export")
	}
	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil || len(sessions) != 1 {
		t.Fatalf("expected one stored session, got %d (%v)", len(sessions), err)
	}
	if sessions[0].UUID != doc.Session {
		t.Fatalf("export id %q does not match stored %q", doc.Session, sessions[0].UUID)
	}
}

func TestImportDocument(t *testing.T) {
	src := openTestStore(t)
	g, samples := replayReport(t)
	report, err := replay(g, samples, nil)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	saved, err := saveReplay(context.Background(), src, report)
	if err != nil {
		t.Fatalf("save replay: %v", err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, saved); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := export.Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	dst := openTestStore(t)
	id, err := importDocument(context.Background(), dst, doc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	stats, segments, err := dst.GetSession(context.Background(), id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if stats.UUID != saved.Session || stats.SpanMs != 1500 || stats.Source != sourceReplay {
		t.Fatalf("unexpected imported stats: %+v", stats)
	}
	if len(segments) != 2 || segments[1].Segment != 4 || segments[1].DurationMs != 1500 {
		t.Fatalf("unexpected imported segments: %+v", segments)
	}

	if _, err := importDocument(context.Background(), dst, doc); err == nil {
		t.Fatalf("expected duplicate import to fail")
	}

	doc.Session = "other"
	doc.Segments = append(doc.Segments, export.Segment{Segment: 9, TotalSeconds: 1})
	if _, err := importDocument(context.Background(), dst, doc); err == nil {
		t.Fatalf("expected segment outside the grid to be rejected")
	}
}
