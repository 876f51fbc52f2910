package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/san-kum/springnet/internal/analysis"
	"github.com/san-kum/springnet/internal/automation"
	"github.com/san-kum/springnet/internal/config"
	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/experiment"
	"github.com/san-kum/springnet/internal/export"
	"github.com/san-kum/springnet/internal/optim"
	"github.com/san-kum/springnet/internal/physics"
	"github.com/san-kum/springnet/internal/sim"
	"github.com/san-kum/springnet/internal/storage"
	"github.com/san-kum/springnet/internal/viz"
)

// resolveConfig builds the run configuration: defaults, then preset, then
// config file, then any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command, topology string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		name := topology
		if name == "" {
			name = cfg.Topology
		}
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if topology != "" {
		cfg.Topology = topology
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.Shape.N = n
	}
	if flags.Changed("radius") {
		cfg.Shape.Radius = radius
	}
	if flags.Changed("cols") {
		cfg.Shape.Cols = cols
	}
	if flags.Changed("rows") {
		cfg.Shape.Rows = rows
	}
	if flags.Changed("levels") {
		cfg.Shape.Levels = levels
	}
	if flags.Changed("spacing") {
		cfg.Shape.Spacing = spacing
	}

	base := dynamo.DefaultParams()
	if cfg.Topology == "cloth" {
		base = physics.ClothParams
	}
	if flags.Changed("k") {
		cfg.SetPhysics(base, func(p *dynamo.Params) { p.SpringConstant = springK })
	}
	if flags.Changed("friction") {
		cfg.SetPhysics(base, func(p *dynamo.Params) { p.Friction = friction })
	}
	if flags.Changed("gravity") {
		cfg.SetPhysics(base, func(p *dynamo.Params) { p.Gravity = gravity })
	}

	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("jitter") {
		cfg.Jitter = jitter
	}
	if flags.Changed("frame-ms") {
		cfg.FrameMillis = frameMillis
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func isGraphFile(arg string) bool {
	return strings.EqualFold(filepath.Ext(arg), ".csv")
}

// buildGraph builds a topology by name, or reads a graph CSV when source
// names a file.
func buildGraph(cfg *config.Config, source string) (*dynamo.Graph, error) {
	if isGraphFile(source) {
		g := dynamo.New(cfg.GraphOptions()...)
		if err := storage.LoadGraph(source, g); err != nil {
			return nil, err
		}
		return g, nil
	}
	return experiment.NewRegistry().BuildConfig(cfg)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func settleGraph(ctx context.Context, g *dynamo.Graph, steps int) (*sim.Result, error) {
	s := sim.New(g)
	cfg := sim.DefaultConfig()
	cfg.MaxSteps = steps
	return s.Run(ctx, cfg)
}

func runPicker(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	return viz.RunPicker(reg.ListTopologies(), config.DefaultConfig(), reg.BuildConfig, viz.Options{FilePath: "graph.csv"})
}

func runSettle(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry, registry.DefaultMetrics()); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := exp.Graph()
	fmt.Printf("settling %s (%d vertices, %d edges)...\n", cfg.Topology, g.NumVertices(), g.NumEdges())
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if result.Settled {
		fmt.Printf("settled at step %d\n", result.SettleStep)
	} else {
		fmt.Printf("not settled after %d steps\n", result.StepsTaken)
	}
	fmt.Printf("potential: %.6f\n", g.PotentialEnergy())
	fmt.Printf("kinetic: %.6f\n", g.KineticEnergy())
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.NewRunMetadata(cfg, g, result), g, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func generateDataset(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Seed, cfg.Jitter = seed, jitter
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	for _, e := range experiment.Dataset() {
		g, err := registry.Build(e.Topology, e.Shape, cfg.GraphOptions()...)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, e.Name+".csv")
		if err := storage.SaveGraph(path, g); err != nil {
			return err
		}
		fmt.Printf("  %-8s %4d vertices %5d edges  %s\n", e.Name, g.NumVertices(), g.NumEdges(), path)
	}
	return nil
}

func optimizeParams(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	search := optim.NewCoordinateDescent()
	search.Rounds = rounds
	search.MaxSteps = maxSteps
	start := time.Now()

	if gridSize > 0 {
		b := search.Bounds
		grid := optim.NewGridSearch(
			optim.Linspace(b[0].Min, b[0].Max, gridSize),
			optim.Linspace(b[1].Min, b[1].Max, gridSize),
			optim.Linspace(b[2].Min, b[2].Max, gridSize),
			maxSteps,
			search.Factory,
		)
		fmt.Printf("grid search over %d combinations...\n", gridSize*gridSize*gridSize)
		best, score, err := grid.Search(ctx)
		if err != nil {
			return err
		}
		printParams(best, score, time.Since(start))
		return nil
	}

	fmt.Printf("coordinate descent, %d rounds...\n", rounds)
	res, err := search.Search(ctx)
	if err != nil {
		return err
	}
	printParams(res.Params, res.Score, time.Since(start))
	fmt.Printf("evaluations: %d\n", res.Evaluations)
	return nil
}

func printParams(p dynamo.Params, score float64, elapsed time.Duration) {
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("spring_constant: %.4f\n", p.SpringConstant)
	fmt.Printf("friction: %.4f\n", p.Friction)
	fmt.Printf("gravity: %.4f\n", p.Gravity)
	fmt.Printf("score: %.4f\n", score)
}

func runLive(cmd *cobra.Command, args []string) error {
	source := firstArg(args)
	topology := source
	if isGraphFile(source) {
		topology = ""
	}
	cfg, err := resolveConfig(cmd, topology)
	if err != nil {
		return err
	}

	opts := viz.Options{
		Title:       cfg.Topology,
		FilePath:    graphFile,
		FrameMillis: cfg.FrameMillis,
	}
	if isGraphFile(source) {
		opts.Title = filepath.Base(source)
		opts.FilePath = source
	}

	g, err := buildGraph(cfg, source)
	if err != nil {
		return err
	}
	opts.Rebuild = func() *dynamo.Graph {
		fresh, err := buildGraph(cfg, source)
		if err != nil {
			klog.Warningf("rebuild %s: %v", source, err)
			return dynamo.New(cfg.GraphOptions()...)
		}
		return fresh
	}
	return viz.Run(g, opts)
}

func saveGraph(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	g, err := experiment.NewRegistry().BuildConfig(cfg)
	if err != nil {
		return err
	}
	if settle {
		ctx, cancel := signalContext()
		defer cancel()
		if _, err := settleGraph(ctx, g, cfg.MaxSteps); err != nil {
			return err
		}
	}
	if err := storage.SaveGraph(args[1], g); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d vertices, %d edges\n", args[1], g.NumVertices(), g.NumEdges())
	return nil
}

func loadGraph(cmd *cobra.Command, args []string) error {
	g := dynamo.New()
	err := storage.LoadGraph(args[0], g)
	if errors.Is(err, storage.ErrNoChange) {
		fmt.Printf("%s: nothing loaded\n", args[0])
		klog.V(1).Infof("load %s: %v", args[0], err)
		return nil
	}
	if err != nil {
		return err
	}

	pinned := 0
	for _, v := range g.Vertices() {
		if v.Pinned {
			pinned++
		}
	}
	fmt.Printf("file: %s\n", args[0])
	fmt.Printf("vertices: %d (%d pinned)\n", g.NumVertices(), pinned)
	fmt.Printf("edges: %d\n", g.NumEdges())

	if !settle {
		return nil
	}
	ctx, cancel := signalContext()
	defer cancel()
	result, err := settleGraph(ctx, g, maxSteps)
	if err != nil {
		return err
	}
	fmt.Printf("settled: %v (step %d)\n", result.Settled, result.SettleStep)
	fmt.Printf("potential: %.6f\n", g.PotentialEnergy())
	return nil
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
	fmt.Fprintln(w, "ID\tTOPOLOGY\tTIME\tVERTICES\tEDGES\tSTEPS\tSETTLED\tSCORE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\t%.4f\n",
			run.ID,
			run.Topology,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Vertices,
			run.Edges,
			run.Steps,
			run.Settled,
			run.Metrics["potential_score"],
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

	pe, ke, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(pe) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("topology: %s\n", meta.Topology)
	fmt.Printf("samples: %d\n\n", len(pe))

	graph := asciigraph.PlotMany([][]float64{pe, ke},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("potential (red) / kinetic (green)"),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
	)
	fmt.Println(graph)
	fmt.Println()
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	pe, ke, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(ke) < 4 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("oscillation analysis: %s\n", meta.ID)
	fmt.Printf("topology: %s\n\n", meta.Topology)

	// zero-padded to a power of two
	size := 1
	for size < len(ke) {
		size *= 2
	}
	padded := make([]float64, size)
	copy(padded, ke)

	ps := analysis.PowerSpectrum(padded)
	plotData := ps[:max(len(ps)/4, 2)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (kinetic energy)"),
	)
	fmt.Println(graph)
	fmt.Println()

	period := analysis.DominantPeriod(ke)
	if period > 0 {
		seconds := period * float64(dynamo.TickMillis) / 1000
		fmt.Printf("dominant period: %.1f steps (%.2fs of simulated time)\n", period, seconds)
	} else {
		fmt.Println("no dominant oscillation")
	}

	fmt.Println("\nenergy portrait (potential vs kinetic):")
	fmt.Println(analysis.PortraitToASCII(analysis.EnergyPortrait(pe, ke), 60, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	pe, ke, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, &sim.Result{Potential: pe, Kinetic: ke})
}

func sweepRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	if _, err := registry.BuildConfig(cfg); err != nil {
		return err
	}
	build := func() *dynamo.Graph {
		g, _ := registry.BuildConfig(cfg)
		return g
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping %s over [%g, %g] on %s...\n", sweepParam, sweepMin, sweepMax, cfg.Topology)
	points, err := analysis.Sweep(ctx, build, sweepParam, sweepMin, sweepMax, sweepSteps, cfg.MaxSteps)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(sweepParam)+"\tSCORE\tSETTLED\tSTEP")
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.4f\t%v\t%d\n", p.Param, p.Score, p.Settled, p.SettleStep)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(analysis.SweepToASCII(points, 60, 15))
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	source, out := args[0], args[1]
	topology := source
	if isGraphFile(source) {
		topology = ""
	}
	cfg, err := resolveConfig(cmd, topology)
	if err != nil {
		return err
	}
	g, err := buildGraph(cfg, source)
	if err != nil {
		return err
	}
	if settle {
		ctx, cancel := signalContext()
		defer cancel()
		if _, err := settleGraph(ctx, g, cfg.MaxSteps); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, []byte(export.GraphToSVG(g)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTOPOLOGY\tVERTICES\tSTEPS\tSETTLED\tSCORE")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%v\t%.4f\n",
			i+1,
			r.Config.Topology,
			r.Graph.NumVertices(),
			r.Result.StepsTaken,
			r.Result.Settled,
			r.Result.Metrics["potential_score"],
		)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("settling %d jittered copies of %s...\n", trials, cfg.Topology)
	start := time.Now()
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:   cfg,
		Trials: trials,
		Seed:   cfg.Seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	settled, unsettled, mean := automation.MonteCarloStats(results)
	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("settled: %d\n", settled)
	fmt.Printf("unsettled: %d\n", unsettled)
	fmt.Printf("mean score: %.4f\n", mean)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	topologies := experiment.NewRegistry().ListTopologies()
	if len(args) > 0 {
		topologies = args
	}
	for _, t := range topologies {
		presets := config.ListPresets(t)
		if len(presets) == 0 {
			fmt.Printf("no presets for topology: %s\n", t)
			continue
		}
		fmt.Printf("presets for %s:\n", t)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}
