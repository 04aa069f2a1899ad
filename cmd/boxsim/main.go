package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/export"
	"github.com/san-kum/boxsim/internal/gui"
	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/storage"
	"github.com/san-kum/boxsim/internal/viz"
	"github.com/san-kum/boxsim/internal/world"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	dt         float64
	duration   float64
	seed       int64
	width      float64
	height     float64
	runs       int
	outFile    string
	force      bool
	frameIndex int
	svgScale   float64
	trails     bool

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "boxsim",
		Short: "square-body physics sandbox",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, args)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".boxsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeds to run in parallel, starting at --seed")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "run a scene in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addSceneFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render one frame of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index, negative counts from the end")
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 4, "pixels per world unit")
	exportSVGCmd.Flags().BoolVar(&trails, "trails", false, "draw body paths")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene at several step sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)

	initCmd := &cobra.Command{
		Use:   "init [path] [scene]",
		Short: "write a scene file to edit",
		Args:  cobra.RangeArgs(0, 2),
		RunE:  initScene,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, benchCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	simCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true}

	n := max(runs, 1)
	worlds := make([]*world.World, 0, n)
	seeds := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		c := cfg.Clone()
		c.Seed = cfg.Seed + int64(i)
		w, report, err := config.Build(c)
		if err != nil {
			return err
		}
		logReport(c, report)
		worlds = append(worlds, w)
		seeds = append(seeds, c.Seed)
	}

	var results []*sim.Result
	start := time.Now()
	if len(worlds) == 1 {
		s := sim.New(worlds[0])
		s.SetLogger(logger.With("scene", cfg.Name))
		for _, m := range metrics.Defaults() {
			s.AddMetric(m)
		}
		res, err := s.Run(ctx, simCfg)
		if err != nil {
			return err
		}
		results = []*sim.Result{res}
	} else {
		results, err = sim.NewEnsemble(worlds, metrics.Defaults).Run(ctx, simCfg)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	for i, res := range results {
		for _, e := range res.Errors {
			logger.Warn("run error", "seed", seeds[i], "err", e)
		}

		info := storage.RunInfo{
			Scene:    cfg.Name,
			Seed:     seeds[i],
			Dt:       cfg.Dt,
			Duration: cfg.Duration,
			Width:    cfg.Width,
			Height:   cfg.Height,
		}
		runID, err := st.Save(info, res)
		if err != nil {
			return err
		}

		printSummary(runID, info, res)
	}

	logger.Info("done", "runs", len(results), "elapsed", elapsed)
	return nil
}

func printSummary(runID string, info storage.RunInfo, res *sim.Result) {
	row := func(label, value string) {
		fmt.Println(viz.LabelStyle.Render(fmt.Sprintf("%-16s", label)) + viz.ValueStyle.Render(value))
	}

	fmt.Println(viz.Separator(40))
	fmt.Println(viz.TitleStyle.Render(runID))
	row("scene", info.Scene)
	row("seed", fmt.Sprintf("%d", info.Seed))
	row("steps", fmt.Sprintf("%d", res.StepsTaken))
	row("bodies left", fmt.Sprintf("%d", len(res.Final().Bodies)))
	row("culled", fmt.Sprintf("%d", len(res.Removed)))
	for _, name := range sortedKeys(res.Metrics) {
		row(name, fmt.Sprintf("%.4f", res.Metrics[name]))
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	w, report, err := config.Build(cfg)
	if err != nil {
		return err
	}
	logReport(cfg, report)

	return viz.Run(w, cfg.Name, cfg.Dt, cfg.Seed)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	w, report, err := config.Build(cfg)
	if err != nil {
		return err
	}
	logReport(cfg, report)

	gui.Run(w, cfg.Name, logger)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	saved, err := st.List()
	if err != nil {
		return err
	}

	if len(saved) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tSEED\tBODIES\tCULLED")

	for _, run := range saved {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Seed,
			run.Bodies,
			run.Removed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", len(frames))

	series := frameSeries(frames)
	for _, s := range series {
		fmt.Println(viz.Chart(s.values, s.caption, 80, 10))
		fmt.Println()
	}

	// normalised overlay so curves with different units share one axis
	overlay := make([][]float64, len(series))
	captions := make([]string, len(series))
	for i, s := range series {
		overlay[i] = normalize(s.values)
		captions[i] = s.caption
	}
	fmt.Println(viz.MultiChart(overlay, "normalised: "+strings.Join(captions, ", "), 80, 10))

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	if _, err := st.Load(runID); err != nil {
		return err
	}

	out, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()

	return st.CopyFrames(out, runID)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	out, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()

	return storage.ExportJSON(out, meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	idx := frameIndex
	if idx < 0 {
		idx += len(frames)
	}
	svg, err := export.FrameToSVG(frames, idx, export.Options{
		Width:  meta.Width,
		Height: meta.Height,
		Scale:  svgScale,
		Trails: trails,
	})
	if err != nil {
		return err
	}

	out, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()

	_, err = fmt.Fprintln(out, svg)
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tBODIES\tSCATTER\tFORCES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		scatter := 0
		if p.Scatter != nil {
			scatter = p.Scatter.Count
		}
		forces := make([]string, len(p.Forces))
		for i, f := range p.Forces {
			forces[i] = f.Name
		}
		fmt.Fprintf(w, "%s\t%.0fx%.0f\t%d\t%d\t%s\n",
			name, p.Width, p.Height, len(p.Bodies), scatter, strings.Join(forces, ","))
	}
	return w.Flush()
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	dts := []float64{0.001, 0.01, 0.02}

	fmt.Printf("benchmarking %s\n\n", cfg.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tBODIES\tCOLLISIONS\tTIME\tSTEPS/SEC")

	for _, step := range dts {
		wd, _, err := config.Build(cfg)
		if err != nil {
			return err
		}
		bodies := wd.Len()

		start := time.Now()
		res, err := sim.New(wd).Run(context.Background(), sim.Config{Dt: step, Duration: cfg.Duration})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%.4fs\t%d\t%d\t%d\t%v\t%.0f\n",
			step, res.StepsTaken, bodies, res.Collisions, elapsed, float64(res.StepsTaken)/elapsed.Seconds())
	}

	return w.Flush()
}

func initScene(cmd *cobra.Command, args []string) error {
	path := "scene.yaml"
	if len(args) > 0 {
		path = args[0]
	}

	cfg := config.DefaultConfig()
	if len(args) > 1 {
		cfg = config.GetPreset(args[1])
		if cfg == nil {
			return fmt.Errorf("unknown scene: %s (available: %v)", args[1], config.ListPresets())
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	logger.Info("scene written", "path", path, "scene", cfg.Name)
	return nil
}
