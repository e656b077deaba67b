// Package policy defines the control sources that can fly a drone.
//
// Every source implements [Policy]: it declares the observation shape it
// wants and maps one observation to one [mixer.Action] per tick.
//
//   - [Human]: arrow-key style input, several keys may be held at once
//   - [PID]: cascaded position/attitude loops over the PID error vector
//   - [Discrete]: a five-way inference function over the feature vector
//   - [Continuous]: a (thrust, differential) inference function over the feature vector
package policy

import (
	"errors"
	"fmt"

	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/observe"
)

var (
	// ErrObservationSize indicates an observation of the wrong length for the policy.
	ErrObservationSize = errors.New("policy: observation has wrong size")

	// ErrInference indicates the inference function returned an unusable action.
	ErrInference = errors.New("policy: inference returned an invalid action")
)

type Policy interface {
	Name() string
	ObservationKind() observe.Kind
	Act(obs []float64) (mixer.Action, error)
}

// Resetter is implemented by policies that keep memory between ticks.
type Resetter interface {
	Reset()
}

func checkSize(name string, kind observe.Kind, obs []float64) error {
	if len(obs) != kind.Size() {
		return fmt.Errorf("%w: %s wants %d values, got %d", ErrObservationSize, name, kind.Size(), len(obs))
	}
	return nil
}

// DiscreteFunc maps a feature vector to an action index in [0, mixer.NumDiscrete).
type DiscreteFunc func(obs []float64) (int, error)

// ContinuousFunc maps a feature vector to (thrust, differential), each nominally in [-1, 1].
type ContinuousFunc func(obs []float64) (thrust, differential float64, err error)

type Discrete struct {
	name  string
	infer DiscreteFunc
}

func NewDiscrete(name string, infer DiscreteFunc) *Discrete {
	return &Discrete{name: name, infer: infer}
}

func (d *Discrete) Name() string                  { return d.name }
func (d *Discrete) ObservationKind() observe.Kind { return observe.KindFeatures }

func (d *Discrete) Act(obs []float64) (mixer.Action, error) {
	if err := checkSize(d.name, observe.KindFeatures, obs); err != nil {
		return mixer.Action{}, err
	}
	idx, err := d.infer(obs)
	if err != nil {
		return mixer.Action{}, fmt.Errorf("%s: %w", d.name, err)
	}
	a := mixer.Discrete(idx)
	if !a.Valid() {
		return mixer.Action{}, fmt.Errorf("%w: %s chose %d", ErrInference, d.name, idx)
	}
	return mixer.DiscreteAction(a), nil
}

type Continuous struct {
	name  string
	infer ContinuousFunc
}

func NewContinuous(name string, infer ContinuousFunc) *Continuous {
	return &Continuous{name: name, infer: infer}
}

func (c *Continuous) Name() string                  { return c.name }
func (c *Continuous) ObservationKind() observe.Kind { return observe.KindFeatures }

func (c *Continuous) Act(obs []float64) (mixer.Action, error) {
	if err := checkSize(c.name, observe.KindFeatures, obs); err != nil {
		return mixer.Action{}, err
	}
	thrust, diff, err := c.infer(obs)
	if err != nil {
		return mixer.Action{}, fmt.Errorf("%s: %w", c.name, err)
	}
	return mixer.ContinuousAction(thrust, diff), nil
}
