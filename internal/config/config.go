package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/quadai/internal/course"
	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/lifecycle"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

const (
	DefaultPreset    = "sim1"
	DefaultTimeLimit = 100.0
	DefaultSeed      = 1
)

// TimeLimits are the run lengths offered by the menu, in seconds.
var TimeLimits = []float64{100, 200, 250}

// Player kinds.
const (
	KindHuman = "human"
	KindPID   = "pid"
	KindSAC   = "sac"
	KindDQN   = "dqn"
)

type Config struct {
	Preset       string  `yaml:"preset,omitempty"`
	Simulation   string  `yaml:"simulation"`
	Description  string  `yaml:"description,omitempty"`
	Seed         int64   `yaml:"seed"`
	TimeLimit    float64 `yaml:"time_limit"`
	AllowAnyTime bool    `yaml:"allow_any_time,omitempty"`

	Arena   ArenaConfig    `yaml:"arena"`
	Targets TargetConfig   `yaml:"targets"`
	Physics PhysicsConfig  `yaml:"physics"`
	Rules   RulesConfig    `yaml:"rules"`
	Players []PlayerConfig `yaml:"players"`

	ResultsDir  string `yaml:"results_dir"`
	LogLevel    string `yaml:"log_level"`
	LogEncoding string `yaml:"log_encoding"`
}

type ArenaConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type TargetConfig struct {
	Count  int `yaml:"count"`
	Margin int `yaml:"margin"`
}

type PhysicsConfig struct {
	Gravity           float64 `yaml:"gravity"`
	Mass              float64 `yaml:"mass"`
	Arm               float64 `yaml:"arm"`
	ThrusterMean      float64 `yaml:"thruster_mean"`
	ThrusterAmplitude float64 `yaml:"thruster_amplitude"`
}

type RulesConfig struct {
	ReachRadius  float64 `yaml:"reach_radius"`
	LossRadius   float64 `yaml:"loss_radius"`
	RespawnDelay float64 `yaml:"respawn_delay"`
}

type PlayerConfig struct {
	Name  string  `yaml:"name"`
	Kind  string  `yaml:"kind"`
	Model string  `yaml:"model,omitempty"`
	Alpha float64 `yaml:"alpha"`

	// DiffAmplitude overrides the kind's default differential amplitude.
	DiffAmplitude float64   `yaml:"diff_amplitude,omitempty"`
	PID           *PIDGains `yaml:"pid,omitempty"`
}

// LoopGains replaces one autopilot loop. Omitted bounds leave that side of
// the loop's output unclamped.
type LoopGains struct {
	Kp  float64  `yaml:"kp"`
	Ki  float64  `yaml:"ki"`
	Kd  float64  `yaml:"kd"`
	Max *float64 `yaml:"max,omitempty"`
	Min *float64 `yaml:"min,omitempty"`
}

// PIDGains overrides the default autopilot loop by loop; omitted loops keep
// their defaults.
type PIDGains struct {
	X      *LoopGains `yaml:"x,omitempty"`
	Angle  *LoopGains `yaml:"angle,omitempty"`
	Y      *LoopGains `yaml:"y,omitempty"`
	YSpeed *LoopGains `yaml:"y_speed,omitempty"`
}

func DefaultPhysics() PhysicsConfig {
	return PhysicsConfig{
		Gravity:           dynamo.DefaultGravity,
		Mass:              dynamo.DefaultMass,
		Arm:               dynamo.DefaultArm,
		ThrusterMean:      dynamo.DefaultThrusterMean,
		ThrusterAmplitude: dynamo.DefaultThrusterAmplitude,
	}
}

func DefaultRules() RulesConfig {
	return RulesConfig{
		ReachRadius:  lifecycle.DefaultReachRadius,
		LossRadius:   lifecycle.DefaultLossRadius,
		RespawnDelay: lifecycle.DefaultRespawnDelay,
	}
}

func DefaultConfig() *Config {
	return GetPreset(DefaultPreset)
}

// Load reads a config file. Fields the file leaves out keep the values of
// the preset it names, or of the default preset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if head.Preset != "" {
		if cfg = GetPreset(head.Preset); cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalid, head.Preset)
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("%w: arena %dx%d", ErrInvalid, c.Arena.Width, c.Arena.Height)
	}
	if c.Targets.Count <= 0 {
		return fmt.Errorf("%w: %d targets", ErrInvalid, c.Targets.Count)
	}
	if err := c.TargetArea().Validate(); err != nil {
		return fmt.Errorf("%w: margin %d: %w", ErrInvalid, c.Targets.Margin, err)
	}
	if err := c.ValidateTimeLimit(c.TimeLimit); err != nil {
		return err
	}
	if err := c.LifecycleRules().Validate(); err != nil {
		return err
	}
	if len(c.Players) == 0 {
		return fmt.Errorf("%w: no players", ErrInvalid)
	}

	seen := map[string]bool{}
	for _, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("%w: player without a name", ErrInvalid)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalid, p.Name)
		}
		seen[p.Name] = true

		switch p.Kind {
		case KindHuman, KindPID, KindSAC, KindDQN:
		default:
			return fmt.Errorf("%w: player %q has unknown kind %q", ErrInvalid, p.Name, p.Kind)
		}
		if err := c.Constants(p).Validate(); err != nil {
			return fmt.Errorf("player %q: %w", p.Name, err)
		}
	}
	return nil
}

// ValidateTimeLimit accepts one of TimeLimits, or any positive limit when
// AllowAnyTime is set.
func (c *Config) ValidateTimeLimit(limit float64) error {
	if c.AllowAnyTime {
		if limit > 0 {
			return nil
		}
	} else {
		for _, l := range TimeLimits {
			if limit == l {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: time limit %g, want one of %v", ErrInvalid, limit, TimeLimits)
}

// Constants returns the physics p flies with. DQN players default to the
// fine differential amplitude they were trained with; everyone else gets the
// coarse one.
func (c *Config) Constants(p PlayerConfig) dynamo.Constants {
	diff := dynamo.DiffAmplitudeCoarse
	if p.Kind == KindDQN {
		diff = dynamo.DiffAmplitudeFine
	}
	if p.DiffAmplitude != 0 {
		diff = p.DiffAmplitude
	}
	return dynamo.Constants{
		Gravity:           c.Physics.Gravity,
		Mass:              c.Physics.Mass,
		Arm:               c.Physics.Arm,
		ThrusterMean:      c.Physics.ThrusterMean,
		ThrusterAmplitude: c.Physics.ThrusterAmplitude,
		DiffAmplitude:     diff,
	}
}

func (c *Config) LifecycleRules() lifecycle.Rules {
	return lifecycle.Rules{
		ReachRadius:  c.Rules.ReachRadius,
		LossRadius:   c.Rules.LossRadius,
		RespawnDelay: c.Rules.RespawnDelay,
	}
}

func (c *Config) TargetArea() course.Area {
	return course.Inset(c.Arena.Width, c.Arena.Height, c.Targets.Margin)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Players = make([]PlayerConfig, len(c.Players))
	for i, p := range c.Players {
		if p.PID != nil {
			gains := *p.PID
			p.PID = &gains
		}
		out.Players[i] = p
	}
	return &out
}
