package mixer

import (
	"fmt"

	"github.com/san-kum/quadai/internal/dynamo"
)

// Mix translates a into thruster commands around c.ThrusterMean.
//
// The result is not clamped: out-of-range continuous inputs or thrust pairs
// reach the dynamics step unchanged.
func Mix(a Action, c dynamo.Constants) (left, right float64, err error) {
	switch a.Kind {
	case KindDiscrete:
		if !a.Discrete.Valid() {
			return 0, 0, fmt.Errorf("%w: %s", ErrUnknownAction, a.Discrete)
		}
		dl, dr := Delta(a.Discrete, c)
		return c.ThrusterMean + dl, c.ThrusterMean + dr, nil
	case KindContinuous:
		left = c.ThrusterMean + a.Thrust*c.ThrusterAmplitude + a.Differential*c.DiffAmplitude
		right = c.ThrusterMean + a.Thrust*c.ThrusterAmplitude - a.Differential*c.DiffAmplitude
		return left, right, nil
	case KindThrust:
		return a.Left, a.Right, nil
	}
	return 0, 0, fmt.Errorf("%w: %s", ErrUnknownAction, a.Kind)
}

// Delta is the offset a single discrete action adds to each thruster.
// Several deltas may be summed when more than one input is held at once.
func Delta(d Discrete, c dynamo.Constants) (dl, dr float64) {
	switch d {
	case Up:
		return c.ThrusterAmplitude, c.ThrusterAmplitude
	case Down:
		return -c.ThrusterAmplitude, -c.ThrusterAmplitude
	case YawRight:
		return c.DiffAmplitude, -c.DiffAmplitude
	case YawLeft:
		return -c.DiffAmplitude, c.DiffAmplitude
	}
	return 0, 0
}
