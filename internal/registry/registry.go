// Package registry turns configured players into runnable sim players.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/san-kum/quadai/internal/config"
	"github.com/san-kum/quadai/internal/course"
	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/nn"
	"github.com/san-kum/quadai/internal/observe"
	"github.com/san-kum/quadai/internal/policy"
	"github.com/san-kum/quadai/internal/sim"
	"go.uber.org/zap"
)

var ErrUnknownKind = errors.New("registry: unknown player kind")

type Builder func(p config.PlayerConfig, c dynamo.Constants) (policy.Policy, error)

type Registry struct {
	builders map[string]Builder
	families map[string]string

	input    policy.Input
	modelDir string
	logger   *zap.Logger

	mu     sync.Mutex
	models map[string]*nn.MLP
}

// NewRegistry wires the built-in kinds. input feeds every human player and
// may be nil for headless runs.
func NewRegistry(logger *zap.Logger, input policy.Input) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		builders: make(map[string]Builder),
		families: make(map[string]string),
		input:    input,
		logger:   logger,
		models:   make(map[string]*nn.MLP),
	}

	r.Register(config.KindHuman, sim.FamilyHuman, func(p config.PlayerConfig, c dynamo.Constants) (policy.Policy, error) {
		return policy.NewHuman(p.Name, r.input, c), nil
	})
	r.Register(config.KindPID, sim.FamilyPID, func(p config.PlayerConfig, c dynamo.Constants) (policy.Policy, error) {
		return policy.NewPID(p.Name, pidConfig(p.PID), c), nil
	})
	r.Register(config.KindDQN, sim.FamilyDQN, func(p config.PlayerConfig, c dynamo.Constants) (policy.Policy, error) {
		m, err := r.model(p)
		switch {
		case err != nil:
			return nil, err
		case m == nil:
			return policy.NewDiscrete(p.Name, policy.AutopilotDiscrete), nil
		case m.Outputs() != mixer.NumDiscrete:
			return nil, fmt.Errorf("%s: %w: %d outputs, want %d", p.Model, nn.ErrShape, m.Outputs(), mixer.NumDiscrete)
		}
		return policy.NewDiscrete(p.Name, m.Discrete), nil
	})
	r.Register(config.KindSAC, sim.FamilySAC, func(p config.PlayerConfig, c dynamo.Constants) (policy.Policy, error) {
		m, err := r.model(p)
		switch {
		case err != nil:
			return nil, err
		case m == nil:
			return policy.NewContinuous(p.Name, policy.AutopilotContinuous), nil
		case m.Outputs() < 2:
			return nil, fmt.Errorf("%s: %w: %d outputs, want 2", p.Model, nn.ErrShape, m.Outputs())
		}
		return policy.NewContinuous(p.Name, m.Continuous), nil
	})

	return r
}

func (r *Registry) Register(kind, family string, b Builder) {
	r.builders[kind] = b
	r.families[kind] = family
}

// SetModelDir resolves relative model paths against dir.
func (r *Registry) SetModelDir(dir string) { r.modelDir = dir }

func (r *Registry) ListKinds() []string {
	kinds := make([]string, 0, len(r.builders))
	for k := range r.builders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func (r *Registry) Family(kind string) string { return r.families[kind] }

func (r *Registry) Policy(p config.PlayerConfig, c dynamo.Constants) (policy.Policy, error) {
	b, ok := r.builders[p.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, p.Kind)
	}
	return b(p, c)
}

// Players builds a fresh roster for cfg. Policies are never shared between
// calls.
func (r *Registry) Players(cfg *config.Config) ([]sim.Player, error) {
	players := make([]sim.Player, 0, len(cfg.Players))
	for _, p := range cfg.Players {
		c := cfg.Constants(p)
		pol, err := r.Policy(p, c)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", p.Name, err)
		}
		players = append(players, sim.Player{
			Name:      p.Name,
			Family:    r.Family(p.Kind),
			Policy:    pol,
			Constants: c,
			Alpha:     p.Alpha,
		})
	}
	return players, nil
}

// SimConfig maps cfg onto the run settings for a race of timeLimit seconds.
func SimConfig(cfg *config.Config, timeLimit float64) sim.Config {
	return sim.Config{
		Name:      cfg.Simulation,
		Width:     cfg.Arena.Width,
		Height:    cfg.Arena.Height,
		TimeLimit: timeLimit,
		Rules:     cfg.LifecycleRules(),
		Targets:   cfg.Targets.Count,
		Area:      course.Inset(cfg.Arena.Width, cfg.Arena.Height, cfg.Targets.Margin),
	}
}

// model loads p's weights once per path. A player without weights on disk
// gets (nil, nil) and falls back to the autopilot.
func (r *Registry) model(p config.PlayerConfig) (*nn.MLP, error) {
	if p.Model == "" {
		r.logger.Warn("no model configured, using autopilot", zap.String("player", p.Name))
		return nil, nil
	}
	path := p.Model
	if !filepath.IsAbs(path) && r.modelDir != "" {
		path = filepath.Join(r.modelDir, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.models[path]; ok {
		return m, nil
	}

	m, err := nn.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("model not found, using autopilot", zap.String("player", p.Name), zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if m.Inputs() != observe.FeatureSize {
		return nil, fmt.Errorf("load model %s: %w: %d inputs", path, nn.ErrShape, m.Inputs())
	}
	r.models[path] = m
	r.logger.Info("model loaded", zap.String("player", p.Name), zap.String("path", path), zap.Int("outputs", m.Outputs()))
	return m, nil
}

func pidConfig(g *config.PIDGains) policy.PIDConfig {
	cfg := policy.DefaultPIDConfig()
	if g == nil {
		return cfg
	}
	overlay := func(dst *policy.Gains, l *config.LoopGains) {
		if l != nil {
			*dst = policy.Gains{Kp: l.Kp, Ki: l.Ki, Kd: l.Kd, Max: l.Max, Min: l.Min}
		}
	}
	overlay(&cfg.X, g.X)
	overlay(&cfg.Angle, g.Angle)
	overlay(&cfg.Y, g.Y)
	overlay(&cfg.YSpeed, g.YSpeed)
	return cfg
}
