package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/nlsolve/internal/config"
	"github.com/san-kum/nlsolve/internal/diff"
	"github.com/san-kum/nlsolve/internal/linesearch"
	"github.com/san-kum/nlsolve/internal/nonlin"
	"github.com/san-kum/nlsolve/internal/problems"
	"github.com/san-kum/nlsolve/internal/solver"
	"github.com/san-kum/nlsolve/internal/trace"
)

var (
	algorithm  string
	abstol     float64
	reltol     float64
	maxIters   int
	lineSearch string
	jacBackend string
	reuseJac   bool
	configFile string
	presetName string
	showPlot   bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nlsolve",
		Short: "nonlinear equation solver lab",
	}

	solveCmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "solve a registered problem",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}

	solveCmd.Flags().StringVar(&algorithm, "algorithm", "newton", "step strategy")
	solveCmd.Flags().Float64Var(&abstol, "abstol", 1e-8, "absolute residual tolerance")
	solveCmd.Flags().Float64Var(&reltol, "reltol", 1e-8, "relative residual tolerance")
	solveCmd.Flags().IntVar(&maxIters, "maxiters", 1000, "iteration budget")
	solveCmd.Flags().StringVar(&lineSearch, "linesearch", "none", "line search (none, backtracking)")
	solveCmd.Flags().StringVar(&jacBackend, "jacobian", "forward", "differentiation backend")
	solveCmd.Flags().BoolVar(&reuseJac, "reuse", false, "enable jacobian reuse policy")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&presetName, "preset", "", "named preset for the problem")
	solveCmd.Flags().BoolVar(&showPlot, "plot", false, "plot residual history")
	solveCmd.Flags().BoolVar(&verbose, "verbose", false, "per-step debug logging")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list problems and algorithms",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("problems:")
			for _, name := range problems.List() {
				fmt.Printf("  %s\n", name)
				for _, preset := range config.ListPresets(name) {
					fmt.Printf("    preset: %s\n", preset)
				}
			}
			fmt.Println("algorithms:")
			for _, name := range solver.Algorithms() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [problem]",
		Short: "compare all algorithms on one problem",
		Args:  cobra.ExactArgs(1),
		RunE:  runBench,
	}
	benchCmd.Flags().Float64Var(&abstol, "abstol", 1e-8, "absolute residual tolerance")
	benchCmd.Flags().IntVar(&maxIters, "maxiters", 1000, "iteration budget")

	traceCmd := &cobra.Command{
		Use:   "trace [problem]",
		Short: "solve with a live convergence view",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrace,
	}
	traceCmd.Flags().StringVar(&algorithm, "algorithm", "newton", "step strategy")
	traceCmd.Flags().Float64Var(&abstol, "abstol", 1e-8, "absolute residual tolerance")
	traceCmd.Flags().IntVar(&maxIters, "maxiters", 1000, "iteration budget")

	rootCmd.AddCommand(solveCmd, listCmd, benchCmd, traceCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// buildSettings resolves config file values and flag overrides into
// solver settings plus the chosen problem and algorithm. The file is
// the base; flags the user actually set win.
func buildSettings(cmd *cobra.Command, problemName string) (*nonlin.Problem, solver.Algorithm, solver.Settings, error) {
	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, 0, solver.Settings{}, err
		}
		cfg = loaded
	case presetName != "":
		preset := config.GetPreset(problemName, presetName)
		if preset == nil {
			return nil, 0, solver.Settings{}, fmt.Errorf("no preset %q for problem %q", presetName, problemName)
		}
		cfg = preset
	}
	cfg.Normalize()

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if problemName == "" {
		problemName = cfg.Problem
	}
	if changed("algorithm") {
		cfg.Algorithm = algorithm
	}
	if changed("linesearch") {
		cfg.LineSearch = lineSearch
	}
	if changed("jacobian") {
		cfg.Jacobian.Backend = jacBackend
	}
	if changed("abstol") {
		cfg.Abstol = abstol
	}
	if changed("reltol") {
		cfg.Reltol = reltol
	}
	if changed("maxiters") {
		cfg.MaxIters = maxIters
	}

	prob, err := problems.New(problemName)
	if err != nil {
		return nil, 0, solver.Settings{}, err
	}
	if len(cfg.InitGuess) > 0 {
		if len(cfg.InitGuess) != prob.Dim() {
			return nil, 0, solver.Settings{}, fmt.Errorf("init_guess has %d entries, problem %q needs %d",
				len(cfg.InitGuess), problemName, prob.Dim())
		}
		prob.U0 = nonlin.Vector(cfg.InitGuess).Clone()
	}

	alg, err := solver.AlgorithmByName(cfg.Algorithm)
	if err != nil {
		return nil, 0, solver.Settings{}, err
	}

	backend, err := diff.New(cfg.Jacobian.Backend)
	if err != nil {
		return nil, 0, solver.Settings{}, err
	}
	searcher, err := linesearch.New(cfg.LineSearch)
	if err != nil {
		return nil, 0, solver.Settings{}, err
	}

	set := solver.DefaultSettings()
	set.Abstol = cfg.Abstol
	set.Reltol = cfg.Reltol
	set.MaxIters = cfg.MaxIters
	set.Backend = backend
	set.LineSearch = searcher
	set.ReuseJacobian = reuseJac || cfg.Jacobian.Reuse
	if cfg.Jacobian.ReuseTol > 0 {
		set.ReuseTol = cfg.Jacobian.ReuseTol
	}
	if cfg.PT.InitialAlpha > 0 {
		set.PT.InitialAlpha = cfg.PT.InitialAlpha
	}
	if cfg.PT.Gamma > 0 {
		set.PT.Gamma = cfg.PT.Gamma
	}
	if cfg.PT.Qmin > 0 {
		set.PT.Qmin = cfg.PT.Qmin
	}
	if cfg.PT.Qmax > 0 {
		set.PT.Qmax = cfg.PT.Qmax
	}
	if cfg.PT.QsteadyMin > 0 {
		set.PT.QsteadyMin = cfg.PT.QsteadyMin
	}
	if cfg.PT.QsteadyMax > 0 {
		set.PT.QsteadyMax = cfg.PT.QsteadyMax
	}
	if cfg.PT.Abstol > 0 {
		set.PT.Abstol = cfg.PT.Abstol
	}
	if cfg.PT.Reltol > 0 {
		set.PT.Reltol = cfg.PT.Reltol
	}
	return prob, alg, set, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	log := newLogger()

	prob, alg, set, err := buildSettings(cmd, args[0])
	if err != nil {
		return err
	}

	var history []float64
	set.Observer = nonlin.ObserverFunc(func(step int, u, fu nonlin.Vector, stepSize float64) {
		norm := fu.Norm()
		history = append(history, math.Log10(math.Max(norm, 1e-300)))
		log.Debug("step", "n", step, "residual", norm, "stepsize", stepSize)
	})

	log.Info("solving", "problem", prob.Name, "algorithm", alg.String(), "dim", prob.Dim())

	start := time.Now()
	sol, solveErr := solver.Solve(prob, alg, set)
	elapsed := time.Since(start)

	if sol == nil {
		return solveErr
	}
	if solveErr != nil {
		log.Error("solve failed", "retcode", sol.Retcode.String(), "err", solveErr)
	} else {
		log.Info("done",
			"retcode", sol.Retcode.String(),
			"residual", sol.ResidualNorm(),
			"steps", sol.Stats.NumSteps,
			"elapsed", elapsed)
	}

	fmt.Printf("retcode:         %s\n", sol.Retcode)
	fmt.Printf("u:               %.8g\n", []float64(sol.U))
	fmt.Printf("residual norm:   %.3e\n", sol.ResidualNorm())
	fmt.Printf("steps:           %d\n", sol.Stats.NumSteps)
	fmt.Printf("residual evals:  %d\n", sol.Stats.NumResidualEvals)
	fmt.Printf("jacobian evals:  %d\n", sol.Stats.NumJacobianEvals)
	fmt.Printf("linear solves:   %d\n", sol.Stats.NumLinearSolves)

	if showPlot && len(history) >= 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(history,
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.Caption("log10 ‖F(u)‖ per step")))
	}
	return solveErr
}

func runBench(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tRETCODE\tSTEPS\tF EVALS\tJ EVALS\tLIN SOLVES\tRESIDUAL\tTIME")

	for _, name := range solver.Algorithms() {
		prob, err := problems.New(args[0])
		if err != nil {
			return err
		}
		alg, _ := solver.AlgorithmByName(name)
		set := solver.DefaultSettings()
		set.Abstol = abstol
		set.MaxIters = maxIters

		start := time.Now()
		sol, solveErr := solver.Solve(prob, alg, set)
		elapsed := time.Since(start)
		if sol == nil {
			return solveErr
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.2e\t%s\n",
			name, sol.Retcode, sol.Stats.NumSteps,
			sol.Stats.NumResidualEvals, sol.Stats.NumJacobianEvals,
			sol.Stats.NumLinearSolves, sol.ResidualNorm(), elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

func runTrace(cmd *cobra.Command, args []string) error {
	prob, alg, set, err := buildSettings(cmd, args[0])
	if err != nil {
		return err
	}

	feed := trace.NewFeed(64)
	set.Observer = nonlin.ObserverFunc(func(step int, u, fu nonlin.Vector, stepSize float64) {
		if !feed.Step(trace.StepEvent{
			Step:         step,
			ResidualNorm: fu.Norm(),
			StepSize:     stepSize,
		}) {
			return
		}
		// Slow the solve down enough to watch it converge.
		time.Sleep(30 * time.Millisecond)
	})

	go func() {
		sol, _ := solver.Solve(prob, alg, set)
		out := trace.Outcome{Retcode: "error"}
		if sol != nil {
			out = trace.Outcome{
				Retcode: sol.Retcode.String(),
				Steps:   sol.Stats.NumSteps,
				Final:   sol.ResidualNorm(),
			}
		}
		feed.Finish(out)
	}()

	p := tea.NewProgram(trace.NewModel(prob.Name, alg.String(), feed.Events()))
	_, err = p.Run()
	feed.Close()
	return err
}
