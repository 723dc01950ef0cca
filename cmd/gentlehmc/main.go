package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/chemketoo/gentleHMC/internal/analysis"
	"github.com/chemketoo/gentleHMC/internal/automation"
	"github.com/chemketoo/gentleHMC/internal/config"
	"github.com/chemketoo/gentleHMC/internal/experiment"
	"github.com/chemketoo/gentleHMC/internal/export"
	"github.com/chemketoo/gentleHMC/internal/hmc"
	"github.com/chemketoo/gentleHMC/internal/optim"
	"github.com/chemketoo/gentleHMC/internal/storage"
	"github.com/chemketoo/gentleHMC/internal/target"
	"github.com/chemketoo/gentleHMC/internal/viz"
)

var (
	dataDir     string
	stepSize    float64
	steps       int
	samples     int
	seed        int64
	chains      int
	shapeA      float64
	shapeB      float64
	shapeR      float64
	initX       float64
	initY       float64
	record      bool
	forceReject bool
	configFile  string
	preset      string
	// exact draws
	numDraws int
	// svg export
	svgOut string
	// tuning
	targetRate float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gentlehmc",
		Short: "leapfrog HMC sampling lab for 2-D target densities",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gentlehmc", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [target]",
		Short: "run an HMC chain",
		Args:  cobra.ExactArgs(1),
		RunE:  runChain,
	}
	addChainFlags(runCmd)
	runCmd.Flags().IntVar(&chains, "chains", 1, "number of independent chains")
	runCmd.Flags().BoolVar(&record, "record", false, "record leapfrog trajectories")
	runCmd.Flags().BoolVar(&forceReject, "force-reject", false, "always take the reject branch (test hook)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	exactCmd := &cobra.Command{
		Use:   "exact [target]",
		Short: "draw exact i.i.d. samples from the target",
		Args:  cobra.ExactArgs(1),
		RunE:  exactDraws,
	}
	exactCmd.Flags().IntVar(&numDraws, "n", 2000, "number of draws")
	exactCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	addShapeFlags(exactCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "trace plots of a saved chain",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	scatterCmd := &cobra.Command{
		Use:   "scatter [run_id]",
		Short: "sample scatter of a saved chain",
		Args:  cobra.ExactArgs(1),
		RunE:  scatterRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export chain samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export chain samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export sample scatter to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "chain.svg", "output file")

	liveCmd := &cobra.Command{
		Use:   "live [target]",
		Short: "run a chain with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addChainFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [target] [eps1] [eps2] ...",
		Short: "compare step sizes on the same target",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareStepSizes,
	}
	compareCmd.Flags().IntVar(&steps, "steps", 39, "leapfrog steps per proposal")
	compareCmd.Flags().IntVar(&samples, "samples", 1000, "chain length")
	compareCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	addShapeFlags(compareCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune [target]",
		Short: "grid-search step size toward a target acceptance rate",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneStepSize,
	}
	tuneCmd.Flags().Float64Var(&targetRate, "rate", 0.8, "target acceptance rate")
	tuneCmd.Flags().IntVar(&samples, "samples", 500, "chain length per candidate")
	tuneCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	addShapeFlags(tuneCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario of chains",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [target]",
		Short: "list available presets for a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for target: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, exactCmd, listCmd, plotCmd, scatterCmd, exportCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, liveCmd, compareCmd, tuneCmd,
		batchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addShapeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&shapeA, "a", config.DefaultA, "banana scale parameter")
	cmd.Flags().Float64Var(&shapeB, "b", config.DefaultB, "banana curvature parameter")
	cmd.Flags().Float64Var(&shapeR, "r", config.DefaultR, "correlation, in (-1, 1)")
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&stepSize, "eps", config.DefaultStepSize, "leapfrog step size")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "leapfrog steps per proposal")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "chain length")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&initX, "x", 0, "initial x")
	cmd.Flags().Float64Var(&initY, "y", 0, "initial y")
	addShapeFlags(cmd)
}

func shapeParams() map[string]float64 {
	return map[string]float64{"a": shapeA, "b": shapeB, "r": shapeR}
}

func runChain(cmd *cobra.Command, args []string) error {
	targetName := args[0]

	if preset != "" {
		cfg := config.GetPreset(targetName, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(targetName))
		}
		stepSize = cfg.StepSize
		steps = cfg.Steps
		samples = cfg.Samples
		shapeA = cfg.Shape.A
		shapeB = cfg.Shape.B
		shapeR = cfg.Shape.R
		initX = cfg.Init.X
		initY = cfg.Init.Y
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// CLI flags override config values.
		if !cmd.Flags().Changed("eps") {
			stepSize = cfg.StepSize
		}
		if !cmd.Flags().Changed("steps") {
			steps = cfg.Steps
		}
		if !cmd.Flags().Changed("samples") {
			samples = cfg.Samples
		}
		if !cmd.Flags().Changed("chains") {
			chains = cfg.Chains
		}
		if !cmd.Flags().Changed("a") {
			shapeA = cfg.Shape.A
		}
		if !cmd.Flags().Changed("b") {
			shapeB = cfg.Shape.B
		}
		if !cmd.Flags().Changed("r") {
			shapeR = cfg.Shape.R
		}
		if !cmd.Flags().Changed("x") {
			initX = cfg.Init.X
		}
		if !cmd.Flags().Changed("y") {
			initY = cfg.Init.Y
		}
		if !cmd.Flags().Changed("record") {
			record = cfg.Record.Trajectories
		}
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
	}

	registry := experiment.NewRegistry()
	tgt, err := registry.GetTarget(targetName, shapeParams())
	if err != nil {
		return err
	}

	hmcCfg := hmc.Config{
		StepSize:           stepSize,
		Steps:              steps,
		Samples:            samples,
		Seed:               seed,
		ForceReject:        forceReject,
		RecordTrajectories: record,
	}

	if chains > 1 {
		return runEnsemble(tgt, targetName, hmcCfg)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Target:             targetName,
		InitState:          []float64{initX, initY},
		StepSize:           stepSize,
		Steps:              steps,
		Samples:            samples,
		Seed:               seed,
		ForceReject:        forceReject,
		RecordTrajectories: record,
		Shape:              shapeParams(),
	})
	if err := exp.Setup(tgt, registry.DefaultMetrics()); err != nil {
		return err
	}

	fmt.Printf("running %s chain...\n", targetName)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(targetName, hmcCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Printf("accept rate: %.3f\n", result.AcceptanceRate())
	fmt.Printf("divergences: %d\n", result.Divergences)

	printChainDiagnostics(result)

	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runEnsemble(tgt hmc.Target, targetName string, cfg hmc.Config) error {
	ens := hmc.NewEnsemble(tgt, chains, cfg.Seed)

	fmt.Printf("running %d %s chains...\n", chains, targetName)
	start := time.Now()

	results, err := ens.Run(context.Background(), hmc.State{initX, initY}, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN\tSEED\tACCEPT\tDIVERG\tMEAN_X\tMEAN_Y")
	for i, result := range results {
		mx := analysis.Component(result.Samples, 0)
		my := analysis.Component(result.Samples, 1)
		fmt.Fprintf(w, "%d\t%d\t%.3f\t%d\t%.4f\t%.4f\n",
			i, cfg.Seed+int64(i), result.AcceptanceRate(), result.Divergences,
			mean(mx), mean(my))
	}
	return w.Flush()
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

func printChainDiagnostics(result *hmc.Result) {
	maxLag := len(result.Samples) / 4
	if maxLag > 200 {
		maxLag = 200
	}
	for coord, name := range []string{"x", "y"} {
		series := analysis.Component(result.Samples, coord)
		tau := analysis.IntegratedTime(series, maxLag)
		ess := analysis.EffectiveSamples(len(series), tau)
		fmt.Printf("%s: tau=%.1f ess=%.0f\n", name, tau, ess)
	}
}

func exactDraws(cmd *cobra.Command, args []string) error {
	targetName := args[0]

	registry := experiment.NewRegistry()
	tgt, err := registry.GetTarget(targetName, shapeParams())
	if err != nil {
		return err
	}

	sampler, ok := tgt.(target.ExactSampler)
	if !ok {
		return fmt.Errorf("target %s has no exact sampler", targetName)
	}

	rng := rand.New(rand.NewSource(seed))
	draws := sampler.Sample(rng, numDraws)

	canvas := viz.NewCanvas(70, 22)
	bounds := viz.FitBounds(draws)
	viz.PlotSamples(canvas, bounds, draws)
	fmt.Print(canvas.String())

	mx := mean(analysis.Component(draws, 0))
	my := mean(analysis.Component(draws, 1))
	fmt.Printf("\nempirical mean: (%.4f, %.4f)\n", mx, my)

	if bn, ok := tgt.(*target.Banana); ok {
		m := bn.Mean()
		cov := bn.Covariance()
		fmt.Printf("analytic mean:  (%.4f, %.4f)\n", m[0], m[1])
		fmt.Printf("analytic cov:   [[%.4f %.4f] [%.4f %.4f]]\n",
			cov[0][0], cov[0][1], cov[1][0], cov[1][1])
	}

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
	fmt.Fprintln(w, "ID\tTARGET\tTIME\tEPS\tSTEPS\tSAMPLES\tACCEPT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%d\t%d\t%.3f\n",
			run.ID,
			run.Target,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepSize,
			run.Steps,
			run.Samples,
			run.AcceptRate,
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

	chain, _, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(chain) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("target: %s\n", meta.Target)
	fmt.Printf("samples: %d\n\n", len(chain))

	captions := []string{"x trace", "y trace"}
	for coord := 0; coord < len(chain[0]) && coord < len(captions); coord++ {
		data := make([]float64, len(chain))
		for i := range chain {
			if coord < len(chain[i]) {
				data[i] = chain[i][coord]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[coord]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func scatterRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	chain, _, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(chain) == 0 {
		return fmt.Errorf("no data to plot")
	}

	points := make([]hmc.State, len(chain))
	for i, s := range chain {
		points[i] = s
	}

	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Target)

	canvas := viz.NewCanvas(70, 22)
	bounds := viz.FitBounds(points)
	viz.PlotSamples(canvas, bounds, points)
	fmt.Print(canvas.String())
	fmt.Printf("\nx: [%.2f, %.2f]  y: [%.2f, %.2f]\n",
		bounds.XMin, bounds.XMax, bounds.YMin, bounds.YMax)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	chain, accepted, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(chain) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"iter"}
	for i := range chain[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	header = append(header, "accepted")
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range chain {
		row := []string{strconv.Itoa(i)}
		for _, val := range chain[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		flag := "0"
		if i < len(accepted) && accepted[i] {
			flag = "1"
		}
		row = append(row, flag)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	chain, accepted, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	result := &hmc.Result{
		Samples:     make([]hmc.State, len(chain)),
		Accepted:    accepted,
		Divergences: meta.Divergences,
		Metrics:     meta.Metrics,
	}
	for i, s := range chain {
		result.Samples[i] = s
		if i < len(accepted) && accepted[i] {
			result.AcceptCount++
		}
	}

	cfg := hmc.Config{StepSize: meta.StepSize, Steps: meta.Steps, Seed: meta.Seed}
	return storage.ExportJSON(os.Stdout, meta.Target, cfg, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	chain, _, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(chain) == 0 {
		return fmt.Errorf("no data to export")
	}

	points := make([]hmc.State, len(chain))
	for i, s := range chain {
		points[i] = s
	}

	svg := export.ScatterSVG(points, nil, 640, 480)
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	targetName := args[0]

	registry := experiment.NewRegistry()
	tgt, err := registry.GetTarget(targetName, shapeParams())
	if err != nil {
		return err
	}

	sampler := hmc.NewSampler(tgt)
	chain, err := sampler.NewChain(hmc.State{initX, initY}, hmc.Config{
		StepSize: stepSize,
		Steps:    steps,
		Samples:  samples,
		Seed:     seed,
	})
	if err != nil {
		return err
	}

	// Window the view on ground truth when the target can provide it.
	var bounds viz.Bounds
	if es, ok := tgt.(target.ExactSampler); ok {
		rng := rand.New(rand.NewSource(seed))
		bounds = viz.FitBounds(es.Sample(rng, 2000))
	} else {
		bounds = viz.Bounds{XMin: -4, XMax: 4, YMin: -4, YMax: 4}
	}

	m := viz.NewModel(tgt, targetName, chain, bounds)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func compareStepSizes(cmd *cobra.Command, args []string) error {
	targetName := args[0]
	candidates := args[1:]

	registry := experiment.NewRegistry()

	fmt.Printf("comparing step sizes for %s (steps=%d, samples=%d)\n\n", targetName, steps, samples)
	fmt.Printf("%-10s  %-10s  %-12s  %-8s  %-8s\n", "eps", "accept", "energy_err", "diverg", "ess_x")
	fmt.Println(strings.Repeat("-", 56))

	for _, cand := range candidates {
		eps, err := strconv.ParseFloat(cand, 64)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", cand, err)
			continue
		}

		tgt, err := registry.GetTarget(targetName, shapeParams())
		if err != nil {
			return err
		}

		exp := experiment.New(experiment.Config{
			Target:    targetName,
			InitState: []float64{0, 0},
			StepSize:  eps,
			Steps:     steps,
			Samples:   samples,
			Seed:      seed,
			Shape:     shapeParams(),
		})
		if err := exp.Setup(tgt, registry.DefaultMetrics()); err != nil {
			return err
		}

		result, err := exp.Run(context.Background())
		if err != nil {
			fmt.Printf("%-10.4f  error: %v\n", eps, err)
			continue
		}

		series := analysis.Component(result.Samples, 0)
		tau := analysis.IntegratedTime(series, len(series)/4)
		ess := analysis.EffectiveSamples(len(series), tau)

		fmt.Printf("%-10.4f  %-10.3f  %-12.4f  %-8d  %-8.0f\n",
			eps, result.AcceptanceRate(), result.Metrics["energy_error"],
			result.Divergences, ess)
	}

	return nil
}

func tuneStepSize(cmd *cobra.Command, args []string) error {
	targetName := args[0]

	registry := experiment.NewRegistry()

	search := optim.NewStepSizeSearch(
		[]float64{0.01, 0.02, 0.04, 0.06, 0.1, 0.2, 0.4},
		[]int{10, 20, 39, 60},
	)

	build := func(eps float64, nSteps int) (*experiment.Experiment, error) {
		tgt, err := registry.GetTarget(targetName, shapeParams())
		if err != nil {
			return nil, err
		}
		exp := experiment.New(experiment.Config{
			Target:    targetName,
			InitState: []float64{0, 0},
			StepSize:  eps,
			Steps:     nSteps,
			Samples:   samples,
			Seed:      seed,
			Shape:     shapeParams(),
		})
		if err := exp.Setup(tgt, nil); err != nil {
			return nil, err
		}
		return exp, nil
	}

	fmt.Printf("tuning %s toward acceptance rate %.2f...\n", targetName, targetRate)
	best, err := search.Search(context.Background(), build, targetRate)
	if err != nil {
		return err
	}

	fmt.Printf("best: eps=%.4f steps=%d (accept rate %.3f)\n",
		best.StepSize, best.Steps, best.AcceptRate)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	fmt.Println()

	registry := experiment.NewRegistry()
	results, err := automation.RunScenario(context.Background(), scenario, registry)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tTARGET\tEPS\tSTEPS\tACCEPT\tDIVERG")
	for _, sr := range results {
		label := sr.Step.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%d\t%.3f\t%d\n",
			label, sr.Step.Target, sr.Step.StepSize, sr.Step.Steps,
			sr.Result.AcceptanceRate(), sr.Result.Divergences)
	}
	return w.Flush()
}
