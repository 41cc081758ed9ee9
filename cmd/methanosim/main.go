package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/celbio/methanosim/internal/config"
	"github.com/celbio/methanosim/internal/metrics"
	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/reactor"
	"github.com/celbio/methanosim/internal/sim"
	"github.com/celbio/methanosim/internal/store"
	"github.com/celbio/methanosim/internal/sweep"
	"github.com/celbio/methanosim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	// parameter overrides
	ch4ppm      float64
	o2pct       float64
	tempC       float64
	conductance float64
	ch4Transfer float64
	o2Transfer  float64
	osmolarity  float64
	vmaxRef     float64
	kmRef       float64
	expression  float64
	scaling     float64
	denat       bool
	photo       bool

	// solver settings
	integrator string
	horizon    float64
	samples    int
	tolerance  float64

	// sweep settings
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	workers     int
	gridPoints  int
	outFile     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "methanosim",
		Short: "cytosolic methane oxidation simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".methanosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset scenario")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation",
		RunE:  runSimulation,
	}
	addParameterFlags(runCmd)
	addSolverFlags(runCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report sensitivity",
		RunE:  runSweep,
	}
	addParameterFlags(sweepCmd)
	addSolverFlags(sweepCmd)
	addSweepFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&outFile, "out", "", "write sweep results to a CSV file")

	heatmapCmd := &cobra.Command{
		Use:   "heatmap",
		Short: "sweep every registered parameter and render a sensitivity heatmap",
		RunE:  runHeatmap,
	}
	addParameterFlags(heatmapCmd)
	addSolverFlags(heatmapCmd)
	heatmapCmd.Flags().IntVar(&gridPoints, "points", 15, "grid points per parameter")
	heatmapCmd.Flags().IntVar(&workers, "workers", 0, "sweep workers (0 = GOMAXPROCS)")
	heatmapCmd.Flags().StringVar(&outFile, "out", "", "write the normalized heatmap to a CSV file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "sweep with live progress view",
		RunE:  runLiveSweep,
	}
	addParameterFlags(liveCmd)
	addSolverFlags(liveCmd)
	addSweepFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list sweepable parameters and their default ranges",
		Run: func(cmd *cobra.Command, args []string) {
			base := params.Default()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tUNIT\tDEFAULT\tSWEEP MIN\tSWEEP MAX")
			for _, f := range params.Fields() {
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\n", f.Name, f.Unit, f.Get(base), f.Min, f.Max)
			}
			w.Flush()
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addParameterFlags(compareCmd)
	addSolverFlags(compareCmd)

	rootCmd.AddCommand(runCmd, sweepCmd, heatmapCmd, liveCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, paramsCmd, compareCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParameterFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&ch4ppm, "ch4", 1.8, "atmospheric methane (ppm)")
	cmd.Flags().Float64Var(&o2pct, "o2", 21, "atmospheric oxygen (%)")
	cmd.Flags().Float64Var(&tempC, "temp", 25, "temperature (°C)")
	cmd.Flags().Float64Var(&conductance, "conductance", 0.2, "stomatal/membrane conductance (mol/m²/s)")
	cmd.Flags().Float64Var(&ch4Transfer, "ch4-transfer", 0.01, "CH4 mass-transfer coefficient (1/s)")
	cmd.Flags().Float64Var(&o2Transfer, "o2-transfer", 0.01, "O2 mass-transfer coefficient (1/s)")
	cmd.Flags().Float64Var(&osmolarity, "osmolarity", 1.0, "cytosolic osmolarity (%)")
	cmd.Flags().Float64Var(&vmaxRef, "vmax", 0.01, "reference Vmax (mmol/L/s)")
	cmd.Flags().Float64Var(&kmRef, "km", 0.001, "reference Km (mmol/L)")
	cmd.Flags().Float64Var(&expression, "expression", 1.0, "enzyme expression (%)")
	cmd.Flags().Float64Var(&scaling, "scaling", 1.0, "biomass scaling factor")
	cmd.Flags().BoolVar(&denat, "denaturation", false, "enable thermal denaturation penalty")
	cmd.Flags().BoolVar(&photo, "photosynthesis", false, "enable photosynthetic O2 production")
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", "rk45", "integrator")
	cmd.Flags().Float64Var(&horizon, "time", 600, "horizon (s)")
	cmd.Flags().IntVar(&samples, "samples", 400, "trajectory samples")
	cmd.Flags().Float64Var(&tolerance, "tol", 1e-8, "adaptive error tolerance")
}

func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sweepParam, "param", "km_ref", "parameter to sweep")
	cmd.Flags().Float64Var(&sweepMin, "min", 1e-6, "sweep minimum")
	cmd.Flags().Float64Var(&sweepMax, "max", 0.1, "sweep maximum")
	cmd.Flags().IntVar(&sweepPoints, "points", 25, "sweep grid points")
	cmd.Flags().IntVar(&workers, "workers", 0, "sweep workers (0 = GOMAXPROCS)")
}

// resolveConfig layers preset, then config file, then changed CLI flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
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

	flagSetters := map[string]func(){
		"ch4":            func() { cfg.Parameters.CH4PPM = ch4ppm },
		"o2":             func() { cfg.Parameters.O2Percent = o2pct },
		"temp":           func() { cfg.Parameters.TemperatureC = tempC },
		"conductance":    func() { cfg.Parameters.Conductance = conductance },
		"ch4-transfer":   func() { cfg.Parameters.CH4Transfer = ch4Transfer },
		"o2-transfer":    func() { cfg.Parameters.O2Transfer = o2Transfer },
		"osmolarity":     func() { cfg.Parameters.OsmolarityPct = osmolarity },
		"vmax":           func() { cfg.Parameters.VmaxRef = vmaxRef },
		"km":             func() { cfg.Parameters.KmRef = kmRef },
		"expression":     func() { cfg.Parameters.ExpressionPct = expression },
		"scaling":        func() { cfg.Parameters.Scaling = scaling },
		"denaturation":   func() { cfg.Parameters.Denaturation = denat },
		"photosynthesis": func() { cfg.Parameters.Photosynthesis = photo },
		"integrator":     func() { cfg.Solver.Integrator = integrator },
		"time":           func() { cfg.Solver.Horizon = horizon },
		"samples":        func() { cfg.Solver.Samples = samples },
		"tol":            func() { cfg.Solver.Tolerance = tolerance },
		"param":          func() { cfg.Sweep.Parameter = sweepParam },
		"min":            func() { cfg.Sweep.Min = sweepMin },
		"max":            func() { cfg.Sweep.Max = sweepMax },
		"points":         func() { cfg.Sweep.Points = sweepPoints },
		"workers":        func() { cfg.Sweep.Workers = workers },
	}
	for name, set := range flagSetters {
		if cmd.Flags().Changed(name) {
			set()
		}
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	integ, err := sim.GetIntegrator(cfg.Solver.Integrator)
	if err != nil {
		return err
	}

	fmt.Println("running simulation...")
	start := time.Now()

	tr, err := sim.New(integ).Simulate(context.Background(), cfg.Parameters, cfg.SimConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	derived := metrics.FromTrajectory(cfg.Parameters, tr)

	runID, err := st.Save(store.RunMetadata{
		Integrator: cfg.Solver.Integrator,
		Horizon:    cfg.Solver.Horizon,
		Samples:    cfg.Solver.Samples,
		Tolerance:  cfg.Solver.Tolerance,
		Parameters: cfg.Parameters,
		Metrics:    derived,
	}, tr)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n\n", tr.Len())
	printDerived(derived)
	return nil
}

func printDerived(d metrics.Derived) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "final rate\t%.6g mmol/L/s\n", d.FinalRate)
	fmt.Fprintf(w, "mean late rate\t%.6g mmol/L/s\n", d.MeanLateRate)
	fmt.Fprintf(w, "CH4 uptake\t%.6g mmol/L\n", d.CH4Uptake)
	fmt.Fprintf(w, "O2 uptake\t%.6g mmol/L\n", d.O2Uptake)
	fmt.Fprintf(w, "peak methanol\t%.6g mmol/L\n", d.PeakMethanol)
	fmt.Fprintf(w, "late variance\t%.3g\n", d.LateVariance)
	fmt.Fprintf(w, "steady state\t%v\n", d.SteadyState)
	w.Flush()
}

func buildAnalyzer(cfg *config.Config) (*sweep.Analyzer, error) {
	an, err := sweep.New(cfg.Solver.Integrator, cfg.SimConfig())
	if err != nil {
		return nil, err
	}
	an.SetWorkers(cfg.Sweep.Workers)
	return an, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	an, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}

	values := sweep.Range(cfg.Sweep.Min, cfg.Sweep.Max, cfg.Sweep.Points)

	fmt.Printf("sweeping %s over %d points...\n", cfg.Sweep.Parameter, len(values))
	start := time.Now()
	res, err := an.Sweep(context.Background(), cfg.Parameters, cfg.Sweep.Parameter, values)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	fmt.Print(viz.SweepPlot(res, 80, 12))
	fmt.Println()

	if outFile != "" {
		if err := writeCSV(outFile, func(f *os.File) error {
			return store.WriteSweepCSV(f, res)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL RATE\tSTEADY\tERROR\n", cfg.Sweep.Parameter)
	for _, p := range res.Points {
		errMsg := ""
		if p.Err != nil {
			errMsg = p.Err.Error()
		}
		fmt.Fprintf(w, "%.6g\t%.6g\t%v\t%s\n", p.Value, p.Metrics.FinalRate, p.Metrics.SteadyState, errMsg)
	}
	return w.Flush()
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	an, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %d parameters × %d points...\n", len(params.Fields()), gridPoints)
	start := time.Now()
	hm, err := an.SweepAll(context.Background(), cfg.Parameters, params.Fields(), gridPoints)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	fmt.Print(viz.HeatmapView(hm))

	if outFile != "" {
		if err := writeCSV(outFile, func(f *os.File) error {
			return store.WriteHeatmapCSV(f, hm)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
	}
	return nil
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runLiveSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	an, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}

	values := sweep.Range(cfg.Sweep.Min, cfg.Sweep.Max, cfg.Sweep.Points)
	msgs := make(chan tea.Msg, len(values)+1)

	an.OnPoint = func(param string, index, total int, pt sweep.Point) {
		msgs <- viz.PointMsg{
			Param:  param,
			Index:  index,
			Total:  total,
			Value:  pt.Value,
			Rate:   pt.Metrics.FinalRate,
			Failed: pt.Err != nil,
		}
	}

	go func() {
		_, err := an.Sweep(context.Background(), cfg.Parameters, cfg.Sweep.Parameter, values)
		msgs <- viz.DoneMsg{Err: err}
	}()

	p := tea.NewProgram(viz.NewSweepModel(cfg.Sweep.Parameter, len(values), msgs))
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tINTEG\tHORIZON\tTEMP\tCH4\tFINAL RATE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\t%.1f°C\t%.2gppm\t%.6g\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Horizon,
			run.Parameters.TemperatureC,
			run.Parameters.CH4PPM,
			run.Metrics.FinalRate,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("horizon: %.0fs, samples: %d\n\n", meta.Horizon, tr.Len())
	fmt.Print(viz.TrajectoryPlot(tr, 80, 10))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return store.WriteTrajectoryCSV(os.Stdout, tr)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, meta, tr)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	simCfg := cfg.SimConfig()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL CH4\tFINAL RATE\tSTEADY\tTIME")
	for _, name := range args {
		integ, err := sim.GetIntegrator(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		tr, err := sim.New(integ).Simulate(context.Background(), cfg.Parameters, simCfg)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		d := metrics.FromTrajectory(cfg.Parameters, tr)
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%v\t%v\n",
			name, tr.Final()[reactor.SpeciesCH4], d.FinalRate, d.SteadyState, elapsed)
	}
	return w.Flush()
}
