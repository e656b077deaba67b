package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/quadai/internal/automation"
	"github.com/san-kum/quadai/internal/config"
	"github.com/san-kum/quadai/internal/env"
	"github.com/san-kum/quadai/internal/export"
	"github.com/san-kum/quadai/internal/logging"
	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/nn"
	"github.com/san-kum/quadai/internal/optim"
	"github.com/san-kum/quadai/internal/policy"
	"github.com/san-kum/quadai/internal/registry"
	"github.com/san-kum/quadai/internal/sim"
	"github.com/san-kum/quadai/internal/storage"
	"github.com/san-kum/quadai/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logFormat  string
	modelDir   string

	timeLimit float64
	anyTime   bool
	seed      int64
	repeat    int

	variant  string
	model    string
	episodes int
	numEnvs  int
	steps    int

	outFile    string
	traceEvery int

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	tuneTime   float64
	seedsPer   int
	tuneGains  []string
	tuneScales []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "quadai",
		Short:        "drone race between humans, PID controllers and learned pilots",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE:         playRace,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "results directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "console or json")
	rootCmd.PersistentFlags().StringVar(&modelDir, "models", ".", "directory model paths are relative to")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "race headless with the configured players",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRace,
	}
	runCmd.Flags().Float64Var(&timeLimit, "time", 0, "time limit in seconds")
	runCmd.Flags().BoolVar(&anyTime, "any-time", false, "accept any positive time limit")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	runCmd.Flags().IntVar(&repeat, "repeat", 1, "number of seeds to race concurrently")

	playCmd := &cobra.Command{
		Use:   "play [preset]",
		Short: "race in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playRace,
	}
	playCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list the built-in simulations",
		RunE:  listPresets,
	}

	resultsCmd := &cobra.Command{
		Use:   "results [run_id]",
		Short: "show the results table, or one run's detail",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showResults,
	}

	rolloutCmd := &cobra.Command{
		Use:   "rollout",
		Short: "play training episodes with a pilot",
		RunE:  rollout,
	}
	rolloutCmd.Flags().StringVar(&variant, "variant", "discrete", "discrete or continuous")
	rolloutCmd.Flags().StringVar(&model, "model", "", "weights file (default autopilot)")
	rolloutCmd.Flags().IntVar(&episodes, "episodes", 20, "episodes to play")
	rolloutCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure batched environment throughput",
		RunE:  bench,
	}
	benchCmd.Flags().StringVar(&variant, "variant", "discrete", "discrete or continuous")
	benchCmd.Flags().IntVar(&numEnvs, "envs", 16, "parallel environments")
	benchCmd.Flags().IntVar(&steps, "steps", 2000, "batched steps")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	traceCmd := &cobra.Command{
		Use:   "trace [preset]",
		Short: "race headless and draw the flown paths as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  traceRace,
	}
	traceCmd.Flags().Float64Var(&timeLimit, "time", 0, "time limit in seconds")
	traceCmd.Flags().BoolVar(&anyTime, "any-time", false, "accept any positive time limit")
	traceCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	traceCmd.Flags().StringVarP(&outFile, "out", "o", "race.svg", "output file")
	traceCmd.Flags().IntVar(&traceEvery, "every", 6, "ticks between samples")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid-search the PID pilot's gains",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tunePID,
	}
	tuneCmd.Flags().Float64Var(&tuneTime, "race-time", 30, "seconds per race")
	tuneCmd.Flags().IntVar(&seedsPer, "repeat", 4, "seeds per gain set")
	tuneCmd.Flags().Int64Var(&seed, "seed", 0, "first seed (0 picks one)")
	tuneCmd.Flags().StringSliceVar(&tuneGains, "gains", []string{"x.kp", "x.kd", "angle.kp", "angle.kd"}, "gains to search")
	tuneCmd.Flags().Float64SliceVar(&tuneScales, "scales", []float64{0.5, 1, 2}, "multiples of the default gain to try")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of races",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "race across values of one physics or rules parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.04, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.12, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().Float64Var(&tuneTime, "race-time", 30, "seconds per race")
	sweepCmd.Flags().IntVar(&seedsPer, "repeat", 4, "seeds per value")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")

	rootCmd.AddCommand(runCmd, playCmd, presetsCmd, resultsCmd, rolloutCmd, benchCmd, traceCmd, tuneCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file or preset, then applies changed flags.
var errPresetWithConfig = errors.New("a preset argument cannot be combined with --config; set preset: in the file instead")

// baseConfig picks the configuration the flags are applied on: the file
// given with --config, else the named preset, else the defaults.
func baseConfig(file string, args []string) (*config.Config, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, errPresetWithConfig
	case file != "":
		return config.Load(file)
	case len(args) > 0:
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := baseConfig(configFile, args)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.TimeLimit = timeLimit
	}
	if flags.Changed("any-time") {
		cfg.AllowAnyTime = anyTime
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("data") {
		cfg.ResultsDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogEncoding = logFormat
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	reg := registry.NewRegistry(logger, nil)
	reg.SetModelDir(modelDir)
	simCfg := registry.SimConfig(cfg, cfg.TimeLimit)
	roster := func(int64) ([]sim.Player, error) { return reg.Players(cfg) }

	results, err := sim.NewEnsemble(sim.NewContext(logger, cfg.Seed), simCfg, roster, repeat, cfg.Seed).Run(ctx)
	if err != nil {
		return err
	}

	st := storage.New(cfg.ResultsDir)
	for i, res := range results {
		if res.Reason == sim.ReasonCancelled {
			continue
		}
		id, err := st.Save(res, cfg.Seed+int64(i))
		if err != nil {
			return err
		}
		logger.Info("results saved", zap.String("run_id", id), zap.String("path", st.Path()))
	}

	if len(results) == 1 {
		printResult(results[0])
		return nil
	}
	return printEnsemble(results)
}

func printResult(res *sim.Result) {
	fmt.Printf("%s  %.1fs of %gs  %s", res.Simulation, res.Elapsed, res.TimeLimit, res.Reason)
	if res.Winner != "" {
		fmt.Printf("  winner: %s", res.Winner)
	}
	fmt.Print("\n\n")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tFAMILY\tSCORE\tDEATHS\tALIVE\tEFFORT")
	for _, s := range res.Scores {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%.4f\n",
			s.Name, s.Family, s.Score, s.Deaths, s.Metrics["alive_fraction"], s.Metrics["control_effort"])
	}
	w.Flush()

	var series [][]float64
	for _, s := range res.Scores {
		if len(s.Timeline) > 1 {
			series = append(series, s.Timeline)
		}
	}
	if len(series) > 0 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(series, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("targets reached")))
	}
}

func printEnsemble(results []*sim.Result) error {
	scores := make(map[string][]float64)
	var names []string
	finished := 0
	for _, res := range results {
		if res.Winner != "" {
			finished++
		}
		for _, s := range res.Scores {
			if _, ok := scores[s.Name]; !ok {
				names = append(names, s.Name)
			}
			scores[s.Name] = append(scores[s.Name], float64(s.Score))
		}
	}

	fmt.Printf("%d runs, %d ended by a finisher\n\n", len(results), finished)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tMEAN\tSTD\tMIN\tMAX")
	for _, name := range names {
		xs := scores[name]
		mean, std := stat.MeanStdDev(xs, nil)
		sorted := append([]float64(nil), xs...)
		sort.Float64s(sorted)
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.0f\t%.0f\n", name, mean, std, sorted[0], sorted[len(sorted)-1])
	}
	return w.Flush()
}

func playRace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	st := storage.New(cfg.ResultsDir)
	if err := st.Init(); err != nil {
		return err
	}
	logger, err := logging.NewFile(cfg.LogLevel, "json", filepath.Join(cfg.ResultsDir, "play.log"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	kb := viz.NewKeyboard(viz.DefaultHold)
	reg := registry.NewRegistry(logger, kb)
	reg.SetModelDir(modelDir)

	runSeed := cfg.Seed
	app := viz.NewApp(viz.Options{
		Title:      cfg.Simulation,
		TimeLimits: config.TimeLimits,
		Keyboard:   kb,
		Start: func(limit float64) (*sim.Run, error) {
			players, err := reg.Players(cfg)
			if err != nil {
				return nil, err
			}
			return sim.New(sim.NewContext(logger, runSeed), registry.SimConfig(cfg, limit), players)
		},
		Finish: func(res *sim.Result) (string, error) {
			if _, err := st.Save(res, runSeed); err != nil {
				return "", err
			}
			return "Results saved to " + st.Path(), nil
		},
	})
	return viz.Run(app)
}

func traceRace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg := registry.NewRegistry(logger, nil)
	reg.SetModelDir(modelDir)
	players, err := reg.Players(cfg)
	if err != nil {
		return err
	}
	simCfg := registry.SimConfig(cfg, cfg.TimeLimit)
	run, err := sim.New(sim.NewContext(logger, cfg.Seed), simCfg, players)
	if err != nil {
		return err
	}

	tracer := export.NewTracer(traceEvery)
	for !run.Done() {
		if err := run.Tick(); err != nil {
			return err
		}
		tracer.Record(run)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	err = export.WriteSVG(f, export.Scene{
		Width:       simCfg.Width,
		Height:      simCfg.Height,
		Course:      run.Course(),
		ReachRadius: simCfg.Rules.ReachRadius,
		Tracks:      tracer.Tracks(),
	})
	if err != nil {
		return err
	}
	printResult(run.Result())
	logger.Info("trace written", zap.String("path", outFile))
	return nil
}

func tunePID(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	base := policy.DefaultPIDConfig()
	pc := config.PlayerConfig{Name: "PID", Kind: config.KindPID}
	for _, p := range cfg.Players {
		if p.Kind == config.KindPID {
			pc = p
			break
		}
	}
	constants := cfg.Constants(pc)

	ranges := make([][]float64, len(tuneGains))
	for i, name := range tuneGains {
		def, err := base.Get(name)
		if err != nil {
			return err
		}
		for _, s := range tuneScales {
			ranges[i] = append(ranges[i], def*s)
		}
	}

	simCfg := registry.SimConfig(cfg, tuneTime)
	search := optim.NewGridSearch(tuneGains, ranges)
	logger.Info("tuning", zap.Strings("gains", tuneGains), zap.Int("points", search.Size()), zap.Int("seeds", seedsPer))

	objective := func(ctx context.Context, params map[string]float64) (float64, error) {
		pid := base
		for name, v := range params {
			if err := pid.Set(name, v); err != nil {
				return 0, err
			}
		}
		roster := func(int64) ([]sim.Player, error) {
			return []sim.Player{{
				Name:      pc.Name,
				Family:    sim.FamilyPID,
				Policy:    policy.NewPID(pc.Name, pid, constants),
				Constants: constants,
				Alpha:     1,
			}}, nil
		}
		results, err := sim.NewEnsemble(sim.NewContext(logging.Nop(), cfg.Seed), simCfg, roster, seedsPer, cfg.Seed).Run(ctx)
		if err != nil {
			return 0, err
		}
		scores := make([]float64, len(results))
		for i, res := range results {
			s := res.Scores[0]
			scores[i] = float64(s.Score) - float64(s.Deaths)
		}
		mean := stat.Mean(scores, nil)
		logger.Debug("gain set scored", zap.Any("params", params), zap.Float64("mean", mean))
		return -mean, nil
	}

	best, val, err := search.Search(ctx, objective)
	if err != nil {
		return err
	}

	fmt.Printf("best of %d gain sets over %d seeds: %.2f targets (net of deaths)\n\n", search.Size(), seedsPer, -val)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAIN\tDEFAULT\tBEST")
	for _, name := range tuneGains {
		def, _ := base.Get(name)
		fmt.Fprintf(w, "%s\t%g\t%g\n", name, def, best[name])
	}
	return w.Flush()
}

func newRunner(cfg *config.Config) (*automation.Runner, func(), error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return nil, nil, err
	}
	reg := registry.NewRegistry(logger, nil)
	reg.SetModelDir(modelDir)
	r := &automation.Runner{Registry: reg, Logger: logger, Store: storage.New(cfg.ResultsDir)}
	return r, func() { _ = logger.Sync() }, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	runner, done, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer done()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	steps, err := runner.RunScenario(ctx, sc)
	for _, st := range steps {
		fmt.Printf("step %d: %s\n", st.Step, st.Preset)
		if len(st.Results) == 1 {
			printResult(st.Results[0])
		} else if perr := printEnsemble(st.Results); perr != nil {
			return perr
		}
		fmt.Println()
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	runner, done, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer done()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := runner.RunSweep(ctx, &automation.ParameterSweep{
		Preset:    cfg.Preset,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		TimeLimit: tuneTime,
		Repeat:    seedsPer,
		Seed:      seed,
	})
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Players))
	for _, p := range cfg.Players {
		names = append(names, p.Name)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s", strings.ToUpper(sweepParam))
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%g", r.ParamValue)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.2f (%.1f deaths)", r.MeanScores[n], r.MeanDeaths[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSIMULATION\tARENA\tTARGETS\tPLAYERS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%s\n",
			name, p.Simulation, p.Arena.Width, p.Arena.Height, p.Targets.Count, len(p.Players), p.Description)
	}
	return w.Flush()
}

func showResults(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	st := storage.New(cfg.ResultsDir)

	if len(args) == 1 {
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		printResult(&sim.Result{
			Simulation: meta.Simulation,
			TimeLimit:  meta.TimeLimit,
			Elapsed:    meta.Elapsed,
			Reason:     sim.ParseReason(meta.Reason),
			Winner:     meta.Winner,
			Scores:     meta.Scores,
		})
		return nil
	}

	rows, err := st.List()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no results found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIMULATION\tTIME\tPID\tSAC\tDQN\tHUMAN")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Simulation, r.TimeChosen, r.PID, r.SAC, r.DQN, r.Human)
	}
	return w.Flush()
}

// pilot is the autopilot, or the model at path, as a policy for the variant.
func pilot(v env.Variant, path string) (policy.Policy, error) {
	var m *nn.MLP
	if path != "" {
		var err error
		if m, err = nn.Load(path); err != nil {
			return nil, err
		}
	}
	switch {
	case v == env.Discrete && m == nil:
		return policy.NewDiscrete("autopilot", policy.AutopilotDiscrete), nil
	case v == env.Discrete:
		return policy.NewDiscrete(filepath.Base(path), m.Discrete), nil
	case m == nil:
		return policy.NewContinuous("autopilot", policy.AutopilotContinuous), nil
	default:
		return policy.NewContinuous(filepath.Base(path), m.Continuous), nil
	}
}

func rollout(cmd *cobra.Command, args []string) error {
	v, err := env.ParseVariant(variant)
	if err != nil {
		return err
	}
	p, err := pilot(v, model)
	if err != nil {
		return err
	}
	e, err := env.New(env.DefaultConfig(v), seed)
	if err != nil {
		return err
	}

	eps := make([]env.Episode, 0, episodes)
	returns := make([]float64, 0, episodes)
	for i := 0; i < episodes; i++ {
		ep, err := env.Rollout(e, p)
		if err != nil {
			return err
		}
		eps = append(eps, ep)
		returns = append(returns, ep.Return)
	}

	sum := env.Summarize(eps)
	fmt.Printf("%s pilot, %s env, %d episodes\n\n", p.Name(), v, sum.Episodes)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEAN\tSTD\tMIN\tMAX\tSTEPS\tSUCCESS")
	fmt.Fprintf(w, "%.2f\t%.2f\t%.2f\t%.2f\t%.1f\t%.0f%%\n",
		sum.MeanReturn, sum.StdReturn, sum.MinReturn, sum.MaxReturn, sum.MeanSteps, sum.SuccessRate*100)
	w.Flush()

	if len(returns) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(returns, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("episode return")))
	}
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	v, err := env.ParseVariant(variant)
	if err != nil {
		return err
	}
	p, err := pilot(v, "")
	if err != nil {
		return err
	}
	vec, err := env.NewVec(env.DefaultConfig(v), numEnvs, seed)
	if err != nil {
		return err
	}

	obs := vec.Reset()
	actions := make([]mixer.Action, vec.Len())
	dones := 0

	start := time.Now()
	for s := 0; s < steps; s++ {
		for i := range actions {
			if actions[i], err = p.Act(obs[i]); err != nil {
				return err
			}
		}
		results, err := vec.Step(context.Background(), actions)
		if err != nil {
			return err
		}
		for i, r := range results {
			obs[i] = r.Observation
			if r.Done {
				dones++
			}
		}
	}
	elapsed := time.Since(start)

	total := steps * vec.Len()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tENVS\tSTEPS\tEPISODES\tTIME\tSTEPS/SEC")
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%v\t%.0f\n", v, vec.Len(), total, dones, elapsed, float64(total)/elapsed.Seconds())
	return w.Flush()
}
