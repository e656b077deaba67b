// Package observe encodes a drone's state relative to its current target
// into the fixed-size vectors the control policies consume.
package observe

import (
	"fmt"
	"math"

	"github.com/san-kum/quadai/internal/dynamo"
)

// Kind tags the observation shape a policy expects.
type Kind int

const (
	KindNone Kind = iota
	KindPID
	KindFeatures
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPID:
		return "pid"
	case KindFeatures:
		return "features"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Size is the vector length of k.
func (k Kind) Size() int {
	switch k {
	case KindPID:
		return PIDSize
	case KindFeatures:
		return FeatureSize
	}
	return 0
}

const (
	FeatureSize = 7
	PIDSize     = 6

	// DistanceScale normalises target distance in the feature vector.
	DistanceScale = 500.0
)

// Feature vector slots.
const (
	AngleToUp = iota
	Velocity
	AngularVelocity
	DistanceToTarget
	AngleToTarget
	AngleTargetVelocity
	DistanceToTargetRepeat
)

// PID error vector slots.
const (
	ErrorX = iota
	SpeedX
	ErrorY
	SpeedY
	Angle
	AngularSpeed
)

// Build encodes s for a policy of kind k. target is nil once the agent has
// exhausted its course.
func Build(k Kind, s dynamo.KinematicState, target *dynamo.Point) []float64 {
	switch k {
	case KindPID:
		return PIDErrors(s, target)
	case KindFeatures:
		return Features(s, target)
	}
	return nil
}

// Features returns the 7-slot learned-policy observation. The normalised
// distance appears twice; both slots are part of the trained input width.
func Features(s dynamo.KinematicState, target *dynamo.Point) []float64 {
	var dist, toTarget float64
	if target != nil {
		dist = s.Position().Dist(*target) / DistanceScale
		toTarget = math.Atan2(target.Y-s.Y, target.X-s.X)
	}
	return []float64{
		AngleToUp:              s.A / 180 * math.Pi,
		Velocity:               s.Speed(),
		AngularVelocity:        s.Ad,
		DistanceToTarget:       dist,
		AngleToTarget:          toTarget,
		AngleTargetVelocity:    toTarget - math.Atan2(s.Yd, s.Xd),
		DistanceToTargetRepeat: dist,
	}
}

// PIDErrors returns the 6-slot position/attitude error vector.
func PIDErrors(s dynamo.KinematicState, target *dynamo.Point) []float64 {
	var ex, ey float64
	if target != nil {
		ex = target.X - s.X
		ey = target.Y - s.Y
	}
	return []float64{
		ErrorX:       ex,
		SpeedX:       s.Xd,
		ErrorY:       ey,
		SpeedY:       s.Yd,
		Angle:        s.A,
		AngularSpeed: s.Ad,
	}
}
