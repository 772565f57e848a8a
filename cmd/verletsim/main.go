package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/verletsim/internal/analysis"
	"github.com/san-kum/verletsim/internal/automation"
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/export"
	"github.com/san-kum/verletsim/internal/gui"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/optim"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/spawn"
	"github.com/san-kum/verletsim/internal/storage"
	"github.com/san-kum/verletsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	frames      int
	sampleEvery int
	seed        int64
	subSteps    int

	watch bool

	numRuns int

	frameIdx int
	outFile  string
	svgSize  int
	dumpAll  bool

	sweepSteps []int

	tuneParams []string
	tuneMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "verletsim",
		Short: "verlet particle sandbox",
		RunE:  runPicker,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".verletsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "record object positions every n frames (0 disables)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	runCmd.Flags().IntVar(&subSteps, "substeps", config.DefaultSubSteps, "sub-steps per frame")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload --config on change")
	liveCmd.Flags().IntVar(&subSteps, "substeps", config.DefaultSubSteps, "sub-steps per frame")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gui.Run(cfg, presetName())
			return nil
		},
	}
	guiCmd.Flags().IntVar(&subSteps, "substeps", config.DefaultSubSteps, "sub-steps per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot object count and kinetic energy",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and settling analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the energy series (or frames) as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&dumpAll, "frames", false, "export recorded object positions instead")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a recorded frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "recorded frame (negative counts from the end)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSUBSTEPS\tMAX\tDELAY\tGRAVITY")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%.3fs\t(%.0f, %.0f)\n",
					name, cfg.SubSteps, cfg.Spawn.MaxObjects, cfg.Spawn.Delay, cfg.Gravity.X, cfg.Gravity.Y)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the selected configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run several seeds in parallel and report throughput",
		Args:  cobra.NoArgs,
		RunE:  benchRuns,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 4, "number of seeds")
	benchCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")
	benchCmd.Flags().Int64Var(&seed, "seed", 0, "first seed")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare stability across sub-step counts",
		Args:  cobra.NoArgs,
		RunE:  sweepSubSteps,
	}
	sweepCmd.Flags().IntSliceVar(&sweepSteps, "steps", []int{1, 2, 4, 8, 16}, "sub-step counts")
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters minimizing a metric",
		Args:  cobra.NoArgs,
		RunE:  tuneParameters,
	}
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "max_penetration", "metric to minimize")
	tuneCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd,
		exportJSONCmd, exportSVGCmd, presetsCmd, initCmd, benchCmd, sweepCmd, scenarioCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func presetName() string {
	if preset == "" && configFile == "" {
		return "default"
	}
	return preset
}

// loadConfig resolves preset, then config file, then flags. Later sources win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("substeps") {
		cfg.SubSteps = subSteps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("sample") {
		cfg.Run.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSimulator(cfg *config.Config) *sim.Simulator {
	solver := cfg.NewSolver()
	s := sim.New(solver, cfg.NewSpawner(spawn.NewFrameClock()))
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewPenetration())
	s.AddMetric(metrics.NewContainment(solver.GetConstraint()))
	return s
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := newSimulator(cfg)
	fmt.Printf("running %d frames (%d sub-steps, seed %d)...\n", cfg.Run.Frames, cfg.SubSteps, cfg.Seed)
	start := time.Now()

	result, err := s.Run(ctx, sim.RunConfig{
		Frames:        cfg.Run.Frames,
		SampleEvery:   cfg.Run.SampleEvery,
		ValidateState: true,
	})
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		fmt.Printf("stopped early: %v\n", err)
	}
	elapsed := time.Since(start)

	runID, saveErr := st.Save(storage.RunMetadata{Preset: presetName(), Seed: cfg.Seed, Config: cfg}, result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	fmt.Printf("objects: %d\n", s.Solver().GetObjectsCount())
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return err
}

func runPicker(cmd *cobra.Command, args []string) error {
	if preset == "" && configFile == "" {
		res, err := tea.NewProgram(viz.NewPicker()).Run()
		if err != nil {
			return err
		}
		choice := res.(viz.Picker).Choice
		if choice == "" {
			return nil
		}
		preset = choice
	}
	return runLive(cmd, args)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(cfg, presetName()))

	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch requires --config")
		}
		w, err := viz.WatchConfig(configFile, p.Send)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tOBJECTS\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Objects,
			run.Seed,
		)
	}
	return w.Flush()
}

func loadSeries(runID string) (*storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(series) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(series))

	counts := make([]float64, len(series))
	kinetic := make([]float64, len(series))
	for i, s := range series {
		counts[i] = float64(s.Count)
		kinetic[i] = s.Kinetic
	}

	for _, p := range []struct {
		data    []float64
		caption string
	}{
		{counts, "objects"},
		{kinetic, "kinetic energy"},
	} {
		fmt.Println(asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	rate := float64(config.DefaultFrameRate)
	if meta.Config != nil && meta.Config.FrameRate > 0 {
		rate = float64(meta.Config.FrameRate)
	}

	kinetic := make([]float64, len(series))
	for i, s := range series {
		kinetic[i] = s.Kinetic
	}

	ps := analysis.PowerSpectrum(kinetic)
	if len(ps) < 4 {
		return fmt.Errorf("not enough samples for analysis")
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)
	fmt.Println(asciigraph.Plot(ps[:len(ps)/4],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (kinetic energy)"),
	))
	fmt.Println()

	freq := analysis.DominantFrequency(ps, rate)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	if ts := analysis.SettlingTime(series, 0.1); ts >= 0 {
		fmt.Printf("settled (<10%% of peak) at: %.2f s\n", ts)
	} else {
		fmt.Println("not settled")
	}
	for name, val := range meta.Metrics {
		fmt.Printf("%s: %.6f\n", name, val)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	name := "series.csv"
	if dumpAll {
		name = "frames.csv"
	}
	if _, err := st.Load(args[0]); err != nil {
		return err
	}
	data, err := os.ReadFile(st.Path(args[0], name))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	recorded, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, *meta, series, recorded)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	recorded, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(recorded) == 0 {
		return fmt.Errorf("run %s has no recorded frames", args[0])
	}

	idx := frameIdx
	if idx < 0 {
		idx += len(recorded)
	}
	if idx < 0 || idx >= len(recorded) {
		return fmt.Errorf("frame %d out of range (%d recorded)", frameIdx, len(recorded))
	}

	cfg := meta.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	svg := export.SnapshotSVG(recorded[idx], cfg.Constraint.Center.Vec(), cfg.Constraint.Radius, svgSize, svgSize)

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (frame %d, t=%.2fs)\n", outFile, recorded[idx].Index, recorded[idx].Time)
	return nil
}

func benchRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	factory := func(s int64) (*sim.Simulator, error) {
		c := *cfg
		c.Seed = s
		return newSimulator(&c), nil
	}

	fmt.Printf("benchmarking %d runs of %d frames\n\n", numRuns, cfg.Run.Frames)
	start := time.Now()
	results, err := sim.NewEnsemble(factory, numRuns, cfg.Seed).Run(context.Background(), sim.RunConfig{Frames: cfg.Run.Frames})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tOBJECTS\tKINETIC\tPENETRATION")
	total := 0
	for i, r := range results {
		last := r.Series[len(r.Series)-1]
		fmt.Fprintf(w, "%d\t%d\t%d\t%.0f\t%.4f\n",
			cfg.Seed+int64(i), r.FramesRun, last.Count, last.Kinetic, r.Metrics["max_penetration"])
		total += r.FramesRun
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d frames in %v (%s frames/sec)\n", total, elapsed,
		strconv.FormatFloat(float64(total)/elapsed.Seconds(), 'f', 0, 64))
	return nil
}

func sweepSubSteps(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	points, err := analysis.SubStepSweep(context.Background(), cfg, sweepSteps, cfg.Run.Frames)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBSTEPS\tPENETRATION\tCONTAINMENT\tKINETIC")
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.0f\n", p.SubSteps, p.Penetration, p.Containment, p.Kinetic)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(context.Background(), sc, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tRUN ID\tFRAMES\tPENETRATION")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.4f\n",
			i+1, r.Step.Preset, r.RunID, r.Result.FramesRun, r.Result.Metrics["max_penetration"])
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

func parseTuneParams(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || list == "" {
			return nil, nil, fmt.Errorf("invalid --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("--param %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tuneParameters(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", optim.ParamNames())
	}
	names, ranges, err := parseTuneParams(tuneParams)
	if err != nil {
		return err
	}

	build := func(p map[string]float64) (*sim.Simulator, error) {
		c, err := optim.Apply(cfg, p)
		if err != nil {
			return nil, err
		}
		return newSimulator(c), nil
	}

	params, best, err := optim.NewGridSearch(names, ranges).Search(
		context.Background(), build, sim.RunConfig{Frames: cfg.Run.Frames}, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", tuneMetric, best)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, params[name])
	}
	return nil
}
