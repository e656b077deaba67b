// Package env exposes the drone kernel as a single-agent training
// environment: one drone, one target, one life.
package env

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/quadai/internal/course"
	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/lifecycle"
	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/observe"
)

var (
	ErrInvalidAction = errors.New("env: invalid action")
	ErrEpisodeDone   = errors.New("env: episode is done, call Reset")
	ErrInvalidConfig = errors.New("env: invalid config")
)

type Variant int

const (
	Discrete Variant = iota
	Continuous
)

func (v Variant) String() string {
	switch v {
	case Discrete:
		return "discrete"
	case Continuous:
		return "continuous"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant accepts the variant names and the algorithm families trained on them.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "discrete", "dqn", "DQN":
		return Discrete, nil
	case "continuous", "sac", "SAC":
		return Continuous, nil
	}
	return 0, fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, s)
}

type Config struct {
	Variant       Variant
	Width, Height int
	Constants     dynamo.Constants
	Rules         lifecycle.Rules

	ProgressReward float64 // per tick the distance shrank
	ReachReward    float64
	LossPenalty    float64
	TimeLimit      float64 // seconds
}

func DefaultConfig(v Variant) Config {
	cfg := Config{
		Variant:     v,
		Width:       900,
		Height:      900,
		Constants:   dynamo.DefaultConstants(),
		Rules:       lifecycle.DefaultRules(),
		ReachReward: 100,
		LossPenalty: 1000,
		TimeLimit:   20,
	}
	if v == Discrete {
		cfg.Constants = cfg.Constants.WithDiffAmplitude(dynamo.DiffAmplitudeFine)
		cfg.ProgressReward = 0.1
	} else {
		cfg.ProgressReward = 0.05
	}
	return cfg
}

func (c Config) Validate() error {
	if c.Variant != Discrete && c.Variant != Continuous {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Variant)
	}
	if c.Width < 4 || c.Height < 4 {
		return fmt.Errorf("%w: arena %dx%d too small", ErrInvalidConfig, c.Width, c.Height)
	}
	if !(c.TimeLimit > 0) {
		return fmt.Errorf("%w: time limit %g", ErrInvalidConfig, c.TimeLimit)
	}
	if err := c.Constants.Validate(); err != nil {
		return err
	}
	return c.Rules.Validate()
}

type StepResult struct {
	Observation []float64
	Reward      float64
	Done        bool
	Info        map[string]any
}

// Termination says how an episode ended.
type Termination int

const (
	Running Termination = iota
	Reached
	Lost
	TimedOut
)

func (t Termination) String() string {
	switch t {
	case Running:
		return "running"
	case Reached:
		return "reached"
	case Lost:
		return "lost"
	case TimedOut:
		return "timed_out"
	}
	return fmt.Sprintf("termination(%d)", int(t))
}

type Env struct {
	cfg  Config
	rng  *rand.Rand
	area course.Area

	state      dynamo.KinematicState
	target     dynamo.Point
	ticks      int
	limitTicks int
	end        Termination
}

func New(cfg Config, seed int64) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Env{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		area:       course.Inner(cfg.Width, cfg.Height),
		limitTicks: int(math.Round(cfg.TimeLimit * dynamo.TickRate)),
	}
	e.Reset()
	return e, nil
}

func (e *Env) Config() Config               { return e.cfg }
func (e *Env) State() dynamo.KinematicState { return e.state }
func (e *Env) Target() dynamo.Point         { return e.target }
func (e *Env) Ticks() int                   { return e.ticks }
func (e *Env) Elapsed() float64             { return float64(e.ticks) / dynamo.TickRate }
func (e *Env) Done() bool                   { return e.end != Running }
func (e *Env) Termination() Termination     { return e.end }

// Reset starts an episode with a random target in the middle half of the arena.
func (e *Env) Reset() []float64 {
	return e.ResetTo(e.area.Sample(e.rng))
}

// ResetTo starts an episode chasing target.
func (e *Env) ResetTo(target dynamo.Point) []float64 {
	e.state = dynamo.AtRest(dynamo.Point{X: float64(e.cfg.Width) / 2, Y: float64(e.cfg.Height) / 2})
	e.target = target
	e.ticks = 0
	e.end = Running
	return e.observe()
}

// SetTarget moves the target mid-episode without touching the clock.
func (e *Env) SetTarget(target dynamo.Point) {
	e.target = target
}

func (e *Env) observe() []float64 {
	return observe.Features(e.state, &e.target)
}

func (e *Env) distance() float64 {
	return e.state.Position().Dist(e.target)
}

func (e *Env) check(a mixer.Action) error {
	switch e.cfg.Variant {
	case Discrete:
		if a.Kind != mixer.KindDiscrete || !a.Discrete.Valid() {
			return fmt.Errorf("%w: discrete env got %s", ErrInvalidAction, a)
		}
	case Continuous:
		if a.Kind != mixer.KindContinuous || !inUnit(a.Thrust) || !inUnit(a.Differential) {
			return fmt.Errorf("%w: continuous env got %s", ErrInvalidAction, a)
		}
	}
	return nil
}

func inUnit(v float64) bool { return v >= -1 && v <= 1 }

// Step applies one action for one tick.
func (e *Env) Step(a mixer.Action) (StepResult, error) {
	if e.Done() {
		return StepResult{}, ErrEpisodeDone
	}
	if err := e.check(a); err != nil {
		return StepResult{}, err
	}
	left, right, err := mixer.Mix(a, e.cfg.Constants)
	if err != nil {
		return StepResult{}, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	e.ticks++
	before := e.distance()
	e.state = dynamo.Step(e.state, left, right, e.cfg.Constants)
	dist := e.distance()

	var reward float64
	if dist < before {
		reward += e.cfg.ProgressReward
	}
	switch e.cfg.Rules.Classify(dist) {
	case lifecycle.ZoneReached:
		reward += e.cfg.ReachReward
		e.end = Reached
	case lifecycle.ZoneLost:
		reward -= e.cfg.LossPenalty
		e.end = Lost
	}
	if e.end == Running && e.ticks > e.limitTicks {
		e.end = TimedOut
	}

	return StepResult{
		Observation: e.observe(),
		Reward:      reward,
		Done:        e.Done(),
		Info:        map[string]any{},
	}, nil
}

func (e *Env) StepDiscrete(action int) (StepResult, error) {
	return e.Step(mixer.DiscreteAction(mixer.Discrete(action)))
}

func (e *Env) StepContinuous(thrust, differential float64) (StepResult, error) {
	return e.Step(mixer.ContinuousAction(thrust, differential))
}
