package dynamo

import (
	"fmt"
	"math"
)

// TickRate is the number of logical ticks per simulated second.
const TickRate = 60

// TickSeconds is the duration of one logical tick.
const TickSeconds = 1.0 / TickRate

// Point is a position in arena pixels. Y grows downward.
type Point struct {
	X, Y float64
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx, dy := q.X-p.X, q.Y-p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// KinematicState is the full motion state of one drone.
// A is the tilt in degrees; positive A leans the drone to the left.
type KinematicState struct {
	X, Y       float64
	Xd, Yd     float64
	Xdd, Ydd   float64
	A, Ad, Add float64
}

// AtRest returns a level, motionless state at p.
func AtRest(p Point) KinematicState {
	return KinematicState{X: p.X, Y: p.Y}
}

func (s KinematicState) Position() Point {
	return Point{X: s.X, Y: s.Y}
}

func (s KinematicState) Speed() float64 {
	return math.Sqrt(s.Xd*s.Xd + s.Yd*s.Yd)
}

func (s KinematicState) IsValid() bool {
	for _, v := range [...]float64{s.X, s.Y, s.Xd, s.Yd, s.Xdd, s.Ydd, s.A, s.Ad, s.Add} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Constants are the physical parameters of one simulation variant.
type Constants struct {
	Gravity           float64
	Mass              float64
	Arm               float64
	ThrusterMean      float64
	ThrusterAmplitude float64
	DiffAmplitude     float64
}

const (
	DefaultGravity           = 0.08
	DefaultMass              = 1.0
	DefaultArm               = 25.0
	DefaultThrusterMean      = 0.04
	DefaultThrusterAmplitude = 0.04
	// DiffAmplitudeFine is the yaw authority of the discrete-action variant.
	DiffAmplitudeFine = 0.0006
	// DiffAmplitudeCoarse is the yaw authority of the continuous-action variant.
	DiffAmplitudeCoarse = 0.003
)

// DefaultConstants returns the continuous-variant constants.
func DefaultConstants() Constants {
	return Constants{
		Gravity:           DefaultGravity,
		Mass:              DefaultMass,
		Arm:               DefaultArm,
		ThrusterMean:      DefaultThrusterMean,
		ThrusterAmplitude: DefaultThrusterAmplitude,
		DiffAmplitude:     DiffAmplitudeCoarse,
	}
}

// WithDiffAmplitude returns a copy of c with a different yaw authority.
func (c Constants) WithDiffAmplitude(v float64) Constants {
	c.DiffAmplitude = v
	return c
}

func (c Constants) Validate() error {
	for name, v := range c.GetParams() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConstants, name)
		}
	}
	if c.Mass <= 0 {
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidConstants, c.Mass)
	}
	return nil
}

// GetParams returns the constants keyed by their config names.
func (c Constants) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":            c.Gravity,
		"mass":               c.Mass,
		"arm":                c.Arm,
		"thruster_mean":      c.ThrusterMean,
		"thruster_amplitude": c.ThrusterAmplitude,
		"diff_amplitude":     c.DiffAmplitude,
	}
}
