// Package mixer turns control actions into left/right thruster commands.
package mixer

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned for action kinds or discrete values the mixer
// does not know how to translate.
var ErrUnknownAction = errors.New("mixer: unknown action")

type Kind int

const (
	KindDiscrete Kind = iota
	KindContinuous
	KindThrust
)

func (k Kind) String() string {
	switch k {
	case KindDiscrete:
		return "discrete"
	case KindContinuous:
		return "continuous"
	case KindThrust:
		return "thrust"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Discrete is the five-way action set of the discrete policy.
type Discrete int

const (
	None Discrete = iota
	Up
	Down
	YawRight
	YawLeft
)

// NumDiscrete is the size of the discrete action set.
const NumDiscrete = 5

func (d Discrete) Valid() bool { return d >= None && d <= YawLeft }

func (d Discrete) String() string {
	switch d {
	case None:
		return "none"
	case Up:
		return "up"
	case Down:
		return "down"
	case YawRight:
		return "yaw_right"
	case YawLeft:
		return "yaw_left"
	}
	return fmt.Sprintf("discrete(%d)", int(d))
}

// Action is a tagged control command. Only the fields of Kind are meaningful.
type Action struct {
	Kind Kind

	Discrete Discrete

	// Continuous, nominally in [-1, 1]
	Thrust       float64
	Differential float64

	// Thrust, in physical units
	Left, Right float64
}

func DiscreteAction(d Discrete) Action {
	return Action{Kind: KindDiscrete, Discrete: d}
}

func ContinuousAction(thrust, differential float64) Action {
	return Action{Kind: KindContinuous, Thrust: thrust, Differential: differential}
}

func ThrustAction(left, right float64) Action {
	return Action{Kind: KindThrust, Left: left, Right: right}
}

func (a Action) String() string {
	switch a.Kind {
	case KindDiscrete:
		return a.Discrete.String()
	case KindContinuous:
		return fmt.Sprintf("continuous(%.3f, %.3f)", a.Thrust, a.Differential)
	case KindThrust:
		return fmt.Sprintf("thrust(%.4f, %.4f)", a.Left, a.Right)
	}
	return a.Kind.String()
}
