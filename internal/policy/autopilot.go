package policy

import (
	"math"

	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/observe"
)

// The autopilot is a fixed rule set over the feature vector. The registry
// falls back to it when a learned player has no weights on disk.

const (
	autopilotLookahead = 8.0 // ticks of angular velocity folded into the tilt estimate
	autopilotMaxTilt   = 0.35
	autopilotDeadband  = 0.05
)

// steer returns how far the predicted tilt overshoots the wanted tilt
// (radians, positive: lean less left) and how much faster the drone is
// descending than wanted (pixels per tick, positive: climb).
func steer(obs []float64) (tiltErr, climbErr float64) {
	dist := obs[observe.DistanceToTarget] * observe.DistanceScale
	toTarget := obs[observe.AngleToTarget]
	dx, dy := dist*math.Cos(toTarget), dist*math.Sin(toTarget)

	heading := toTarget - obs[observe.AngleTargetVelocity]
	speed := obs[observe.Velocity]
	vx, vy := speed*math.Cos(heading), speed*math.Sin(heading)

	wantVx := clamp(dx*0.01, -3, 3)
	wantTilt := clamp(-(wantVx-vx)*0.15, -autopilotMaxTilt, autopilotMaxTilt)
	tilt := obs[observe.AngleToUp] + autopilotLookahead*obs[observe.AngularVelocity]*math.Pi/180

	wantVy := clamp(dy*0.02, -2, 2)
	return tilt - wantTilt, vy - wantVy
}

// AutopilotDiscrete is a DiscreteFunc that corrects attitude first and
// altitude second.
func AutopilotDiscrete(obs []float64) (int, error) {
	if err := checkSize("autopilot", observe.KindFeatures, obs); err != nil {
		return 0, err
	}
	tiltErr, climbErr := steer(obs)
	switch {
	case tiltErr > autopilotDeadband:
		return int(mixer.YawRight), nil
	case tiltErr < -autopilotDeadband:
		return int(mixer.YawLeft), nil
	case climbErr > 0.1:
		return int(mixer.Up), nil
	case climbErr < -0.1:
		return int(mixer.Down), nil
	}
	return int(mixer.None), nil
}

// AutopilotContinuous is a ContinuousFunc with proportional outputs in [-1, 1].
func AutopilotContinuous(obs []float64) (float64, float64, error) {
	if err := checkSize("autopilot", observe.KindFeatures, obs); err != nil {
		return 0, 0, err
	}
	tiltErr, climbErr := steer(obs)
	return clamp(climbErr*2, -1, 1), clamp(tiltErr*4, -1, 1), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
