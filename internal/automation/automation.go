// Package automation scripts batches of headless races: YAML scenarios and
// parameter sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/quadai/internal/config"
	"github.com/san-kum/quadai/internal/registry"
	"github.com/san-kum/quadai/internal/sim"
	"github.com/san-kum/quadai/internal/storage"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

var ErrUnknownParam = errors.New("automation: unknown parameter")

// Scenario defines a scripted sequence of races.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep races one preset over Repeat consecutive seeds.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	TimeLimit float64            `yaml:"time_limit"`
	Repeat    int                `yaml:"repeat"`
	Seed      int64              `yaml:"seed"`
	Params    map[string]float64 `yaml:"params"`
	Save      bool               `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &scenario, nil
}

var params = map[string]func(c *config.Config) *float64{
	"gravity":            func(c *config.Config) *float64 { return &c.Physics.Gravity },
	"mass":               func(c *config.Config) *float64 { return &c.Physics.Mass },
	"arm":                func(c *config.Config) *float64 { return &c.Physics.Arm },
	"thruster_mean":      func(c *config.Config) *float64 { return &c.Physics.ThrusterMean },
	"thruster_amplitude": func(c *config.Config) *float64 { return &c.Physics.ThrusterAmplitude },
	"reach_radius":       func(c *config.Config) *float64 { return &c.Rules.ReachRadius },
	"loss_radius":        func(c *config.Config) *float64 { return &c.Rules.LossRadius },
	"respawn_delay":      func(c *config.Config) *float64 { return &c.Rules.RespawnDelay },
}

// Params lists the names ApplyParams accepts.
func Params() []string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ApplyParams overrides physics and lifecycle settings of cfg by name.
func ApplyParams(cfg *config.Config, values map[string]float64) error {
	for k, v := range values {
		field, ok := params[k]
		if !ok {
			return fmt.Errorf("%w: %q (known: %v)", ErrUnknownParam, k, Params())
		}
		*field(cfg) = v
	}
	return nil
}

// Runner plays scenario steps and sweeps with one registry.
type Runner struct {
	Registry *registry.Registry
	Logger   *zap.Logger
	// Store receives the results of steps marked save. May be nil.
	Store *storage.Store
}

// StepResult is one scenario step's ensemble, in seed order.
type StepResult struct {
	Step    int
	Preset  string
	Results []*sim.Result
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) race(ctx context.Context, cfg *config.Config, timeLimit float64, repeat int, seed int64) ([]*sim.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if repeat < 1 {
		repeat = 1
	}
	roster := func(int64) ([]sim.Player, error) { return r.Registry.Players(cfg) }
	ens := sim.NewEnsemble(sim.NewContext(r.logger(), seed), registry.SimConfig(cfg, timeLimit), roster, repeat, seed)
	return ens.Run(ctx)
}

// configFor resolves a step's preset and overrides. Scripted races accept any
// positive time limit.
func configFor(preset string, timeLimit float64, values map[string]float64) (*config.Config, error) {
	if preset == "" {
		preset = config.DefaultPreset
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q", preset)
	}
	cfg.AllowAnyTime = true
	if timeLimit > 0 {
		cfg.TimeLimit = timeLimit
	}
	if err := ApplyParams(cfg, values); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		r.logger().Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("preset", step.Preset))

		cfg, err := configFor(step.Preset, step.TimeLimit, step.Params)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		seed := step.Seed
		if seed == 0 {
			seed = cfg.Seed
		}

		res, err := r.race(ctx, cfg, cfg.TimeLimit, step.Repeat, seed)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		if step.Save && r.Store != nil {
			for j, rr := range res {
				if _, err := r.Store.Save(rr, seed+int64(j)); err != nil {
					return results, fmt.Errorf("step %d save: %w", i+1, err)
				}
			}
		}

		results = append(results, StepResult{Step: i + 1, Preset: cfg.Simulation, Results: res})
	}

	return results, nil
}

// ParameterSweep races a preset across evenly spaced values of one parameter.
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	TimeLimit float64
	Repeat    int
	Seed      int64
}

// SweepResult holds each player's mean score at one parameter value.
type SweepResult struct {
	ParamValue float64
	MeanScores map[string]float64
	MeanDeaths map[string]float64
}

func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if _, ok := params[sweep.ParamName]; !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownParam, sweep.ParamName, Params())
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg, err := configFor(sweep.Preset, sweep.TimeLimit, map[string]float64{sweep.ParamName: paramVal})
		if err != nil {
			return nil, err
		}
		res, err := r.race(ctx, cfg, cfg.TimeLimit, sweep.Repeat, sweep.Seed)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		scores := make(map[string][]float64)
		deaths := make(map[string][]float64)
		for _, rr := range res {
			for _, s := range rr.Scores {
				scores[s.Name] = append(scores[s.Name], float64(s.Score))
				deaths[s.Name] = append(deaths[s.Name], float64(s.Deaths))
			}
		}
		sr := SweepResult{
			ParamValue: paramVal,
			MeanScores: make(map[string]float64, len(scores)),
			MeanDeaths: make(map[string]float64, len(deaths)),
		}
		for name, xs := range scores {
			sr.MeanScores[name] = stat.Mean(xs, nil)
			sr.MeanDeaths[name] = stat.Mean(deaths[name], nil)
		}
		results = append(results, sr)

		r.logger().Info("sweep step",
			zap.Int("step", i+1),
			zap.Int("of", sweep.NumSteps),
			zap.String("param", sweep.ParamName),
			zap.Float64("value", paramVal))
	}

	return results, nil
}
