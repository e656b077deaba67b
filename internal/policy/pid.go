package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/quadai/internal/control"
	"github.com/san-kum/quadai/internal/dynamo"
	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/observe"
)

// Gains configures one loop of the PID autopilot. A nil bound leaves that
// side of the output unclamped.
type Gains struct {
	Kp, Ki, Kd float64
	Max, Min   *float64
}

// Bound returns a pointer to v for use as a Gains bound.
func Bound(v float64) *float64 { return &v }

func (g Gains) build() *control.PID {
	var opts []control.Option
	if g.Max != nil {
		opts = append(opts, control.WithMax(*g.Max))
	}
	if g.Min != nil {
		opts = append(opts, control.WithMin(*g.Min))
	}
	return control.NewPID(g.Kp, g.Ki, g.Kd, opts...)
}

// PIDConfig holds the four cascaded loops: horizontal error to tilt target,
// tilt error to differential, vertical error to climb-rate target, climb-rate
// error to collective thrust.
type PIDConfig struct {
	X      Gains
	Angle  Gains
	Y      Gains
	YSpeed Gains
	Dt     float64
}

func DefaultPIDConfig() PIDConfig {
	return PIDConfig{
		X:      Gains{Kp: 0.2, Ki: 0, Kd: 0.2, Max: Bound(25), Min: Bound(-25)},
		Angle:  Gains{Kp: 0.02, Ki: 0, Kd: 0.01, Max: Bound(1), Min: Bound(-1)},
		Y:      Gains{Kp: 2.5, Ki: 0, Kd: 1.5, Max: Bound(100), Min: Bound(-100)},
		YSpeed: Gains{Kp: 1, Ki: 0, Kd: 0, Max: Bound(1), Min: Bound(-1)},
		Dt:     dynamo.TickSeconds,
	}
}

var ErrUnknownGain = errors.New("policy: unknown gain")

// Set assigns one gain by name, as in "x.kp" or "yspeed.kd". Loop names are
// x, angle, y and yspeed; gains are kp, ki and kd.
func (c *PIDConfig) Set(name string, v float64) error {
	f, err := c.gain(name)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Get reads a gain named as for Set.
func (c PIDConfig) Get(name string) (float64, error) {
	f, err := c.gain(name)
	if err != nil {
		return 0, err
	}
	return *f, nil
}

func (c *PIDConfig) gain(name string) (*float64, error) {
	loop, gain, ok := strings.Cut(strings.ToLower(name), ".")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGain, name)
	}
	var g *Gains
	switch loop {
	case "x":
		g = &c.X
	case "angle":
		g = &c.Angle
	case "y":
		g = &c.Y
	case "yspeed":
		g = &c.YSpeed
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGain, name)
	}
	switch gain {
	case "kp":
		return &g.Kp, nil
	case "ki":
		return &g.Ki, nil
	case "kd":
		return &g.Kd, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGain, name)
}

// PID flies toward the current target with its own controller instances.
type PID struct {
	name      string
	constants dynamo.Constants
	dt        float64

	xPID, anglePID, yPID, ySpeedPID *control.PID
}

func NewPID(name string, cfg PIDConfig, c dynamo.Constants) *PID {
	return &PID{
		name:      name,
		constants: c,
		dt:        cfg.Dt,
		xPID:      cfg.X.build(),
		anglePID:  cfg.Angle.build(),
		yPID:      cfg.Y.build(),
		ySpeedPID: cfg.YSpeed.build(),
	}
}

func (p *PID) Name() string                  { return p.name }
func (p *PID) ObservationKind() observe.Kind { return observe.KindPID }

func (p *PID) Act(obs []float64) (mixer.Action, error) {
	if err := checkSize(p.name, observe.KindPID, obs); err != nil {
		return mixer.Action{}, err
	}

	angleTarget, err := p.xPID.Compute(-obs[observe.ErrorX], p.dt)
	if err != nil {
		return mixer.Action{}, fmt.Errorf("%s x loop: %w", p.name, err)
	}
	diff, err := p.anglePID.Compute(-(angleTarget - obs[observe.Angle]), p.dt)
	if err != nil {
		return mixer.Action{}, fmt.Errorf("%s angle loop: %w", p.name, err)
	}

	ySpeedTarget, err := p.yPID.Compute(obs[observe.ErrorY], p.dt)
	if err != nil {
		return mixer.Action{}, fmt.Errorf("%s y loop: %w", p.name, err)
	}
	thrust, err := p.ySpeedPID.Compute(-(ySpeedTarget - obs[observe.SpeedY]), p.dt)
	if err != nil {
		return mixer.Action{}, fmt.Errorf("%s climb loop: %w", p.name, err)
	}

	left, right, err := mixer.Mix(mixer.ContinuousAction(thrust, diff), p.constants)
	if err != nil {
		return mixer.Action{}, err
	}
	return mixer.ThrustAction(left, right), nil
}

func (p *PID) Reset() {
	p.xPID.Reset()
	p.anglePID.Reset()
	p.yPID.Reset()
	p.ySpeedPID.Reset()
}
