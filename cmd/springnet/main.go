package main

import (
	"flag"
	"os"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	// Config file
	configFile string
	// Preset name
	preset string
	// Shape overrides
	n       int
	radius  float64
	cols    int
	rows    int
	levels  int
	spacing float64
	// Physics overrides
	springK  float64
	friction float64
	gravity  float64
	// Run control
	maxSteps int
	seed     int64
	jitter   string
	noSave   bool
	// Frame length for live view
	frameMillis int
	graphFile   string
	settle      bool
	outDir      string
	rounds      int
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	gridSize    int
	trials      int
)

// main registers commands and flags, opens the start menu when no subcommand
// is given, and exits with status 1 if the command fails.
func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	rootCmd := &cobra.Command{
		Use:   "springnet",
		Short: "2-D mass-spring network simulator",
		RunE:  runPicker,
	}
	rootCmd.PersistentFlags().AddGoFlagSet(fset)
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springnet", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [topology]",
		Short: "settle a network and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSettle,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "write the standard graph dataset as CSV files",
		Args:  cobra.NoArgs,
		RunE:  generateDataset,
	}
	generateCmd.Flags().StringVar(&outDir, "out", "data", "output directory")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "jitter seed")
	generateCmd.Flags().StringVar(&jitter, "jitter", "none", "jitter source (none, rand, noise)")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "tune spring constant, friction and gravity on the 6-level pyramid",
		Args:  cobra.NoArgs,
		RunE:  optimizeParams,
	}
	optimizeCmd.Flags().IntVar(&rounds, "rounds", 40, "coordinate descent rounds")
	optimizeCmd.Flags().IntVar(&maxSteps, "max-steps", 9600, "step cap per evaluation")
	optimizeCmd.Flags().IntVar(&gridSize, "grid", 0, "grid search with this many values per parameter instead")

	liveCmd := &cobra.Command{
		Use:   "live [topology|file.csv]",
		Short: "run a network with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameMillis, "frame-ms", 16, "frame length in milliseconds")
	liveCmd.Flags().StringVar(&graphFile, "file", "graph.csv", "graph file used by save and load keys")

	saveCmd := &cobra.Command{
		Use:   "save [topology] [file]",
		Short: "build a topology and write it as CSV",
		Args:  cobra.ExactArgs(2),
		RunE:  saveGraph,
	}
	addConfigFlags(saveCmd)
	saveCmd.Flags().BoolVar(&settle, "settle", false, "settle before writing")

	loadCmd := &cobra.Command{
		Use:   "load [file]",
		Short: "read a graph CSV and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE:  loadGraph,
	}
	loadCmd.Flags().BoolVar(&settle, "settle", false, "settle the loaded graph")
	loadCmd.Flags().IntVar(&maxSteps, "max-steps", 9600, "step cap when settling")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "oscillation analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and energy history as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [topology]",
		Short: "potential score across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepRun,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "spring_constant", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.01, "lowest value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.1, "highest value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")

	svgCmd := &cobra.Command{
		Use:   "svg [topology|file.csv] [out.svg]",
		Short: "write an SVG snapshot of a network",
		Args:  cobra.ExactArgs(2),
		RunE:  writeSVG,
	}
	addConfigFlags(svgCmd)
	svgCmd.Flags().BoolVar(&settle, "settle", false, "settle before drawing")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of settle runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [topology]",
		Short: "settle many randomly jittered copies of a topology",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")

	presetsCmd := &cobra.Command{
		Use:   "presets [topology]",
		Short: "list available presets for a topology",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, generateCmd, optimizeCmd, liveCmd, saveCmd, loadCmd, listCmd, plotCmd, analyzeCmd, exportCmd, sweepCmd, svgCmd, scenarioCmd, monteCarloCmd, presetsCmd)

	err := rootCmd.Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&n, "n", 6, "vertex count (wheel, complete)")
	cmd.Flags().Float64Var(&radius, "radius", 100, "radius (wheel, complete)")
	cmd.Flags().IntVar(&cols, "cols", 50, "columns (cloth)")
	cmd.Flags().IntVar(&rows, "rows", 50, "rows (cloth)")
	cmd.Flags().IntVar(&levels, "levels", 6, "levels (pyramid)")
	cmd.Flags().Float64Var(&spacing, "spacing", 50, "spacing (cloth, pyramid)")
	cmd.Flags().Float64Var(&springK, "k", 0.02, "spring constant")
	cmd.Flags().Float64Var(&friction, "friction", 0.02, "friction")
	cmd.Flags().Float64Var(&gravity, "gravity", 0.02, "gravity")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 9600, "step cap")
	cmd.Flags().Int64Var(&seed, "seed", 0, "jitter seed")
	cmd.Flags().StringVar(&jitter, "jitter", "none", "jitter source (none, rand, noise)")
}
