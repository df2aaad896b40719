// Package main provides the CLI entrypoint for gazegrid.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/gazegrid/internal/capture"
	"github.com/verte-zerg/gazegrid/internal/config"
	"github.com/verte-zerg/gazegrid/internal/export"
	"github.com/verte-zerg/gazegrid/internal/generator"
	"github.com/verte-zerg/gazegrid/internal/grid"
	"github.com/verte-zerg/gazegrid/internal/log"
	"github.com/verte-zerg/gazegrid/internal/model"
	"github.com/verte-zerg/gazegrid/internal/session"
	"github.com/verte-zerg/gazegrid/internal/stats"
	"github.com/verte-zerg/gazegrid/internal/statsui"
	"github.com/verte-zerg/gazegrid/internal/store"
	"github.com/verte-zerg/gazegrid/internal/trace"
	"github.com/verte-zerg/gazegrid/internal/tui"
	"github.com/verte-zerg/gazegrid/internal/vision"
)

const (
	defaultWidth       = 1920
	defaultHeight      = 1080
	defaultRows        = 4
	defaultCols        = 4
	defaultCamera      = 0
	defaultConfidence  = 0.5
	defaultEye         = "left"
	defaultMirror      = true
	defaultSource      = sourceCamera
	defaultAttribution = "current"
	defaultLogLevel    = "info"
)

const (
	sourceCamera = "camera"
	sourceSim    = "sim"
	sourceReplay = "replay"
)

var (
	gridWidth        int
	gridHeight       int
	gridRows         int
	gridCols         int
	trackAttribution string
	trackEvents      bool
	logLevel         string

	trackCamera     int
	trackModel      string
	trackEye        string
	trackMirror     bool
	trackConfidence float64
	trackSource     string
	trackNoSave     bool

	replaySave bool
	replayJSON bool

	showJSON bool

	statsSince string
	statsLast  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gazegrid",
		Short:         "Track which screen segment you look at",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrackCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&gridWidth, "width", defaultWidth, "screen width in pixels")
	pf.IntVar(&gridHeight, "height", defaultHeight, "screen height in pixels")
	pf.IntVar(&gridRows, "rows", defaultRows, "grid rows")
	pf.IntVar(&gridCols, "cols", defaultCols, "grid columns")
	pf.StringVar(&trackAttribution, "attribution", defaultAttribution, "credit elapsed time to the current or previous sample's segment (current|previous)")
	pf.BoolVar(&trackEvents, "events", false, "keep per-sample events in the report")
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug|info|warn|error)")

	rootCmd.Flags().IntVar(&trackCamera, "camera", defaultCamera, "camera device id")
	rootCmd.Flags().StringVar(&trackModel, "model", "", "path to the YuNet face detection model")
	rootCmd.Flags().StringVar(&trackEye, "eye", defaultEye, "tracked eye (left|right|mid)")
	rootCmd.Flags().BoolVar(&trackMirror, "mirror", defaultMirror, "mirror camera frames horizontally")
	rootCmd.Flags().Float64Var(&trackConfidence, "confidence", defaultConfidence, "minimum face detection score (0-1)")
	rootCmd.Flags().StringVar(&trackSource, "source", defaultSource, "gaze source (camera|sim)")
	rootCmd.Flags().BoolVar(&trackNoSave, "no-save", false, "do not store finished sessions")

	rootCmd.AddCommand(newGridCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "width", &gridWidth, fileCfg.Grid.Width)
	applyIntConfig(cmd, "height", &gridHeight, fileCfg.Grid.Height)
	applyIntConfig(cmd, "rows", &gridRows, fileCfg.Grid.Rows)
	applyIntConfig(cmd, "cols", &gridCols, fileCfg.Grid.Cols)
	applyStringConfig(cmd, "attribution", &trackAttribution, fileCfg.Session.Attribution)
	applyBoolConfig(cmd, "events", &trackEvents, fileCfg.Session.Events)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	return fileCfg, nil
}

func runTrackCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "camera", &trackCamera, fileCfg.Capture.Camera)
	applyStringConfig(cmd, "model", &trackModel, fileCfg.Capture.Model)
	applyStringConfig(cmd, "eye", &trackEye, fileCfg.Capture.Eye)
	applyBoolConfig(cmd, "mirror", &trackMirror, fileCfg.Capture.Mirror)
	applyFloatConfig(cmd, "confidence", &trackConfidence, fileCfg.Capture.Confidence)
	applyStringConfig(cmd, "source", &trackSource, fileCfg.Capture.Source)
	save := !trackNoSave
	if fileCfg.Session.Save != nil && !cmd.Flags().Changed("no-save") {
		save = *fileCfg.Session.Save
	}

	cfg := model.Config{
		Width:       gridWidth,
		Height:      gridHeight,
		Rows:        gridRows,
		Cols:        gridCols,
		CameraID:    trackCamera,
		ModelPath:   trackModel,
		Eye:         trackEye,
		Mirror:      trackMirror,
		Confidence:  trackConfidence,
		Source:      strings.ToLower(strings.TrimSpace(trackSource)),
		Attribution: trackAttribution,
		KeepEvents:  trackEvents,
		Save:        save,
	}
	if cfg.ModelPath == "" {
		cfg.ModelPath = config.DefaultModelPath()
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	closeLog, err := initFileLogging(fileCfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	g, err := grid.New(cfg.Width, cfg.Height, cfg.Rows, cfg.Cols)
	if err != nil {
		return err
	}
	opts, err := sessionOptions(cfg.Attribution, cfg.KeepEvents)
	if err != nil {
		return err
	}

	var st *store.Store
	if cfg.Save {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				log.Warn("failed to close db", "err", cerr)
			}
		}()
	}

	source, detectors, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := source.Close(); cerr != nil {
			log.Warn("failed to close frame source", "err", cerr)
		}
	}()

	cmds := make(chan capture.Command, 4)
	program := tea.NewProgram(tui.NewModel(g, cmds, st), tea.WithAltScreen())
	display := &reportKeeper{Display: tui.ProgramDisplay{Program: program}}

	loopCfg := capture.Config{
		Grid:           g,
		Source:         source,
		Detectors:      detectors,
		Display:        display,
		SessionOptions: opts,
	}
	if st != nil {
		loopCfg.Sink = &store.Recorder{Store: st, Source: cfg.Source}
	}
	loop := capture.New(loopCfg)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		err := loop.Run(ctx, cmds)
		if err != nil && !errors.Is(err, context.Canceled) {
			program.Send(tui.ErrorMsg{Err: err, Fatal: true})
		}
		done <- err
	}()

	_, runErr := program.Run()
	cancel()
	loopErr := <-done

	if report := display.Last(); report != nil {
		if err := printReport(cmd.OutOrStdout(), *report); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	if loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		return loopErr
	}
	return nil
}

func openSource(cfg model.Config) (capture.FrameSource, capture.DetectorFactory, error) {
	switch cfg.Source {
	case sourceSim:
		return generator.New(cfg.Width, cfg.Height), generator.DetectorFactory(), nil
	case sourceCamera:
		if _, err := os.Stat(cfg.ModelPath); err != nil {
			return nil, nil, fmt.Errorf("face detection model not found at %s (set --model or capture.model)", cfg.ModelPath)
		}
		eye, err := vision.ParseEye(cfg.Eye)
		if err != nil {
			return nil, nil, err
		}
		camera, err := vision.OpenCamera(vision.CameraConfig{DeviceID: cfg.CameraID, Mirror: cfg.Mirror})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open camera: %w", err)
		}
		detCfg := vision.DefaultDetectorConfig()
		detCfg.ModelPath = cfg.ModelPath
		detCfg.ConfidenceThresh = cfg.Confidence
		detCfg.Eye = eye
		detCfg.ScreenWidth = cfg.Width
		detCfg.ScreenHeight = cfg.Height
		return camera, vision.Factory(detCfg), nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q (use camera or sim)", cfg.Source)
	}
}

func sessionOptions(attribution string, keepEvents bool) ([]session.Option, error) {
	attr, err := session.ParseAttribution(attribution)
	if err != nil {
		return nil, err
	}
	opts := []session.Option{session.WithAttribution(attr)}
	if keepEvents {
		opts = append(opts, session.WithEvents())
	}
	return opts, nil
}

// initFileLogging routes logs to a file while a TUI owns the terminal.
func initFileLogging(path *string) (func(), error) {
	logPath := config.DefaultLogPath()
	if path != nil && *path != "" {
		logPath = *path
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.Init(logLevel, f)
	return func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for log file.
			_ = cerr
		}
	}, nil
}

// reportKeeper remembers the last non-empty report so it can be printed
// once the TUI has released the terminal.
type reportKeeper struct {
	capture.Display

	mu   sync.Mutex
	last *session.Report
}

func (k *reportKeeper) ShowReport(r session.Report) {
	if r.SampleCount() > 0 {
		k.mu.Lock()
		k.last = &r
		k.mu.Unlock()
	}
	k.Display.ShowReport(r)
}

func (k *reportKeeper) Last() *session.Report {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.last
}

func printReport(w io.Writer, report session.Report) error {
	if err := stats.RenderReportTable(w, report.Segments()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return stats.RenderHeatmap(w, report.Grid(), report.Durations(), false)
}

func newGridCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grid",
		Short: "Print the screen segment layout",
		Args:  cobra.NoArgs,
		RunE:  runGridCmd,
	}
}

func runGridCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	g, err := grid.New(gridWidth, gridHeight, gridRows, gridCols)
	if err != nil {
		return err
	}
	if err := stats.RenderLayout(cmd.OutOrStdout(), g); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Build a session report from a recorded gaze trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
	cmd.Flags().BoolVar(&replaySave, "save", false, "store the session")
	cmd.Flags().BoolVar(&replayJSON, "json", false, "print the report as JSON")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	log.Init(logLevel, nil)

	g, err := grid.New(gridWidth, gridHeight, gridRows, gridCols)
	if err != nil {
		return err
	}
	opts, err := sessionOptions(trackAttribution, trackEvents)
	if err != nil {
		return err
	}
	samples, err := trace.Load(args[0], time.Now())
	if err != nil {
		return fmt.Errorf("failed to load trace: %w", err)
	}
	report, err := replay(g, samples, opts)
	if err != nil {
		return err
	}

	var st *store.Store
	if replaySave {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				log.Warn("failed to close db", "err", cerr)
			}
		}()
	}
	doc, err := saveReplay(cmd.Context(), st, report)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if replayJSON {
		return export.Write(out, doc)
	}
	if err := printReport(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// saveReplay stores report when st is set and returns its export document,
// carrying the stored session uuid.
func saveReplay(ctx context.Context, st *store.Store, report session.Report) (export.Document, error) {
	doc := export.FromReport(report, sourceReplay)
	if st == nil {
		return doc, nil
	}
	recorder := &store.Recorder{Store: st, Source: sourceReplay}
	if err := recorder.SaveReport(ctx, report); err != nil {
		return export.Document{}, fmt.Errorf("failed to save session: %w", err)
	}
	log.Info("session saved", "id", recorder.LastID, "uuid", recorder.LastUUID)
	doc.Session = recorder.LastUUID
	return doc, nil
}

// replay feeds samples through a fresh session. Samples that go back in
// time are skipped, as the live loop does.
func replay(g grid.Grid, samples []model.GazeSample, opts []session.Option) (session.Report, error) {
	sess := session.New(g, opts...)
	if err := sess.Start(); err != nil {
		return session.Report{}, err
	}
	for _, s := range samples {
		_, err := sess.Record(s.Position, s.At)
		if errors.Is(err, session.ErrClockRegression) {
			log.Warn("sample rejected", "err", err)
			continue
		}
		if err != nil {
			return session.Report{}, err
		}
	}
	return sess.Stop()
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a stored session",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
	cmd.Flags().BoolVar(&showJSON, "json", false, "print the session as JSON")
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session id %q", args[0])
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sessionStats, segments, err := st.GetSession(cmd.Context(), id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if showJSON {
		return export.Write(out, export.FromStored(sessionStats, segments))
	}
	totals := store.SegmentTotals(segments)
	if err := stats.RenderSessionHeader(out, sessionStats); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderReportTable(out, totals); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	g, err := grid.New(sessionStats.Width, sessionStats.Height, sessionStats.Rows, sessionStats.Cols)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return stats.RenderHeatmap(out, g, stats.DurationMap(totals), false)
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Store a session exported with --json",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close export: %v\n", cerr)
		}
	}()
	doc, err := export.Read(f)
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	id, err := importDocument(cmd.Context(), st, doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported session %s as #%d\n", doc.Session, id)
	return err
}

// importDocument validates an exported session and stores it under its
// original uuid.
func importDocument(ctx context.Context, st *store.Store, doc export.Document) (int64, error) {
	sessionStats, segments, err := export.ToStored(doc)
	if err != nil {
		return 0, err
	}
	g, err := grid.New(sessionStats.Width, sessionStats.Height, sessionStats.Rows, sessionStats.Cols)
	if err != nil {
		return 0, fmt.Errorf("invalid grid in export: %w", err)
	}
	for _, seg := range segments {
		if !g.Contains(seg.Segment) {
			return 0, fmt.Errorf("segment %d outside %s grid", seg.Segment, g)
		}
	}
	if _, err := session.ParseAttribution(sessionStats.Attribution); err != nil {
		return 0, err
	}
	id, err := st.InsertSession(ctx, sessionStats, segments)
	if err != nil {
		return 0, fmt.Errorf("failed to import session %s: %w", sessionStats.UUID, err)
	}
	return id, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stored session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ui := statsui.NewModel(st, model.StatsConfig{Since: sinceTime, Last: statsLast})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# gazegrid configuration
# Uncomment a value to enable it. CLI flags override config values.

[grid]
# width = %d              # Screen width in pixels
# height = %d             # Screen height in pixels
# rows = %d                 # Grid rows
# cols = %d                 # Grid columns

[capture]
# source = %q         # Gaze source: camera or sim
# camera = %d               # Camera device id
# model = %q
# eye = %q              # Tracked eye: left, right or mid
# mirror = %t            # Mirror camera frames horizontally
# confidence = %.2f       # Minimum face detection score (0-1)

[session]
# attribution = %q   # Credit elapsed time to the current or previous segment
# events = false          # Keep per-sample events in reports
# save = true             # Store finished sessions

[log]
# level = %q            # debug, info, warn or error
# file = %q
`,
		defaultWidth,
		defaultHeight,
		defaultRows,
		defaultCols,
		defaultSource,
		defaultCamera,
		config.DefaultModelPath(),
		defaultEye,
		defaultMirror,
		defaultConfidence,
		defaultAttribution,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("--width and --height must be > 0")
	}
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return fmt.Errorf("--rows and --cols must be > 0")
	}
	if cfg.Confidence < 0 || cfg.Confidence > 1 {
		return fmt.Errorf("--confidence must be between 0 and 1")
	}
	if cfg.Source != sourceCamera && cfg.Source != sourceSim {
		return fmt.Errorf("--source must be camera or sim")
	}
	if _, err := vision.ParseEye(cfg.Eye); err != nil {
		return fmt.Errorf("--eye: %w", err)
	}
	if _, err := session.ParseAttribution(cfg.Attribution); err != nil {
		return fmt.Errorf("--attribution: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
