package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/particles/internal/bench"
	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/export"
	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/gui"
	"github.com/san-kum/particles/internal/logging"
	"github.com/san-kum/particles/internal/storage"
	"github.com/san-kum/particles/internal/tui"
	"github.com/san-kum/particles/internal/viz"
)

var (
	configFile string
	preset     string
	themeName  string
	seed       int64
	fps        int
	logFile    string
	verbose    bool
	dataDir    string

	// Snapshot and bench
	outFile     string
	snapFrames  int
	benchFrames int
	runs        int
	workers     int
	width       float64
	height      float64
	noSave      bool
	writeFile   string

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "particles",
		Short: "ambient particle field for the terminal and desktop",
		Long: `Renders a field of drifting particles that are pulled toward the pointer
and linked by faint lines when they come close. Runs without arguments in the
terminal (Bubble Tea); see the subcommands for other hosts.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&themeName, "theme", "dark", "color theme (dark, light)")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	pf.StringVar(&logFile, "log-file", "", "write JSON logs to this file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal with a status panel (default)",
		RunE:  runTUI,
	}

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "run full-screen in the terminal via tcell",
		RunE:  runTerm,
	}

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run in a desktop window",
		RunE:  runWindow,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render headless and write the last frame as SVG",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "particles.svg", "output file")
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 120, "frames to simulate after the first")
	snapshotCmd.Flags().Float64Var(&width, "width", 0, "viewport width in px (default: window width)")
	snapshotCmd.Flags().Float64Var(&height, "height", 0, "viewport height in px (default: window height)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark headless frames and save the run",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 600, "frames per run")
	benchCmd.Flags().IntVar(&runs, "runs", 4, "independent runs")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = all)")
	benchCmd.Flags().Float64Var(&width, "width", 0, "viewport width in px (default: window width)")
	benchCmd.Flags().Float64Var(&height, "height", 0, "viewport height in px (default: window height)")
	benchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved bench runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "chart a saved bench run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list config presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as YAML",
		RunE:  printConfig,
	}
	configCmd.Flags().StringVar(&writeFile, "write", "", "also save it to this file")

	rootCmd.AddCommand(tuiCmd, termCmd, windowCmd, snapshotCmd, benchCmd, listCmd, showCmd, presetsCmd, configCmd)
	return rootCmd
}

// setup resolves the effective config (defaults, file, preset, flags, in
// that order) and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if preset != "" {
		if err := config.Apply(cfg, preset); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("theme") {
		t, err := field.ParseTheme(themeName)
		if err != nil {
			return err
		}
		cfg.Theme = t
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = logging.New(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return err
	}
	logger.Debug("config resolved",
		zap.String("command", cmd.Name()),
		zap.String("config", configFile),
		zap.String("preset", preset),
		zap.Stringer("theme", cfg.Theme))
	return nil
}

func runSeed() int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

func vizOptions() viz.Options {
	return viz.Options{
		Theme:      cfg.Theme,
		FPS:        cfg.FPS,
		Seed:       runSeed(),
		CellWidth:  cfg.Terminal.CellWidth,
		CellHeight: cfg.Terminal.CellHeight,
		AlphaGain:  cfg.Terminal.AlphaGain,
		Field:      cfg.Field,
		Logger:     logger,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// watchTheme forwards the theme of every reloaded config file. It returns a
// nil channel when no config file is in use.
func watchTheme(ctx context.Context) <-chan field.Theme {
	if configFile == "" {
		return nil
	}
	w, err := config.NewWatcher(configFile, logger)
	if err != nil {
		logger.Warn("config hot reload disabled", zap.Error(err))
		return nil
	}
	themes := make(chan field.Theme)
	go func() {
		err := w.Run(ctx, func(c *config.Config) {
			select {
			case themes <- c.Theme:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logger.Warn("config watcher stopped", zap.Error(err))
		}
	}()
	return themes
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	return viz.Run(ctx, vizOptions(), watchTheme(ctx))
}

func runTerm(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	app, err := tui.New(screen, vizOptions())
	if err != nil {
		return err
	}
	return app.Run(ctx, watchTheme(ctx))
}

func runWindow(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	return gui.Run(gui.Options{
		Options: vizOptions(),
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Title:   cfg.Window.Title,
	}, watchTheme(ctx))
}

func viewport() (float64, float64) {
	w, h := width, height
	if w <= 0 {
		w = float64(cfg.Window.Width)
	}
	if h <= 0 {
		h = float64(cfg.Window.Height)
	}
	return w, h
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	w, h := viewport()
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	s := runSeed()
	err = export.WriteSnapshot(f, export.SnapshotOptions{
		Width:  w,
		Height: h,
		Frames: snapFrames,
		Seed:   s,
		Theme:  cfg.Theme,
		Field:  cfg.Field,
	})
	if err != nil {
		return err
	}
	logger.Info("snapshot written", zap.String("path", outFile), zap.Int64("seed", s))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%.0fx%.0f, seed %d)\n", outFile, w, h, s)
	return f.Close()
}

func runBench(cmd *cobra.Command, args []string) error {
	w, h := viewport()
	seedStart := runSeed()
	ens, err := bench.NewEnsemble(bench.Config{
		Field:     cfg.Field,
		Width:     w,
		Height:    h,
		Frames:    benchFrames,
		Runs:      runs,
		SeedStart: seedStart,
		Workers:   workers,
	}, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	summary := bench.Summarize(results)

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSEED\tFRAMES\tMEAN\tP95\tRATING")
	for _, res := range results {
		r := res.Steps.Rating()
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.4fms\t%.4fms\t%s %s\n",
			res.Run, res.Seed, res.Steps.Samples(),
			res.Steps.Value(), res.Steps.Percentile(95), r.Symbol(), r)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d frames in %s, mean step %.4fms, p95 %.4fms, %.1f lines/frame\n\n",
		runs*benchFrames, elapsed.Round(time.Millisecond),
		summary["mean_step_ms"], summary["p95_step_ms"], summary["lines_per_frame"])
	plotSteps(out, bench.Records(results), benchFrames)

	if noSave {
		return nil
	}
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(storage.RunMetadata{
		Preset:    preset,
		Seed:      seedStart,
		Runs:      runs,
		Frames:    benchFrames,
		Particles: cfg.Field.Count,
		Width:     w,
		Height:    h,
		Metrics:   summary,
	}, bench.Records(results))
	if err != nil {
		return err
	}
	logger.Info("bench run saved", zap.String("id", id), zap.String("dir", cfg.DataDir))
	fmt.Fprintf(out, "\nsaved run %s\n", id)
	return nil
}

// plotSteps charts the step time of every frame averaged over runs.
func plotSteps(out io.Writer, records []storage.FrameRecord, perRun int) {
	if perRun < 2 || len(records) == 0 {
		return
	}
	sums := make([]float64, perRun)
	counts := make([]float64, perRun)
	for _, rec := range records {
		if rec.Frame < perRun {
			sums[rec.Frame] += rec.StepMs
			counts[rec.Frame]++
		}
	}
	for i := range sums {
		if counts[i] > 0 {
			sums[i] /= counts[i]
		}
	}
	fmt.Fprintln(out, asciigraph.Plot(sums,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("step ms per frame")))
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tRUNS\tFRAMES\tPARTICLES\tMEAN\tP95")
	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.4fms\t%.4fms\n",
			run.ID,
			p,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Runs,
			run.Frames,
			run.Particles,
			run.Metrics["mean_step_ms"],
			run.Metrics["p95_step_ms"],
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "viewport: %.0fx%.0f, %d particles, seed %d\n", meta.Width, meta.Height, meta.Particles, meta.Seed)
	fmt.Fprintf(out, "frames: %d x %d runs\n\n", meta.Frames, meta.Runs)

	plotSteps(out, records, meta.Frames)

	lines := make([]float64, 0, meta.Frames)
	for _, rec := range records {
		if rec.Run == 0 {
			lines = append(lines, float64(rec.Lines))
		}
	}
	if len(lines) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(lines,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("connections per frame (run 0)")))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(out, "%-10s %s, %d particles, link %.0fpx, pull %.2f within %.0fpx\n",
			name, p.Theme, p.Field.Count, p.Field.ConnectionDist, p.Field.Pull, p.Field.PointerRadius)
	}
	return nil
}

func printConfig(cmd *cobra.Command, args []string) error {
	doc, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), doc)
	if writeFile != "" {
		return config.Save(writeFile, cfg)
	}
	return nil
}
