package env

import (
	"fmt"
	"math"

	"github.com/san-kum/quadai/internal/mixer"
	"github.com/san-kum/quadai/internal/observe"
	"github.com/san-kum/quadai/internal/policy"
	"gonum.org/v1/gonum/stat"
)

type Episode struct {
	Return      float64
	Steps       int
	Termination Termination
	Rewards     []float64
}

// Rollout plays one episode from a fresh reset with p. Continuous actions are
// clipped to [-1, 1] first, the way trainers clip to the action space.
func Rollout(e *Env, p policy.Policy) (Episode, error) {
	if k := p.ObservationKind(); k != observe.KindFeatures {
		return Episode{}, fmt.Errorf("%w: %s observes %s", ErrInvalidConfig, p.Name(), k)
	}
	if r, ok := p.(policy.Resetter); ok {
		r.Reset()
	}

	obs := e.Reset()
	var ep Episode
	for !e.Done() {
		a, err := p.Act(obs)
		if err != nil {
			return ep, err
		}
		if a.Kind == mixer.KindContinuous {
			a = mixer.ContinuousAction(clip(a.Thrust), clip(a.Differential))
		}
		res, err := e.Step(a)
		if err != nil {
			return ep, err
		}
		ep.Return += res.Reward
		ep.Rewards = append(ep.Rewards, res.Reward)
		ep.Steps++
		obs = res.Observation
	}
	ep.Termination = e.Termination()
	return ep, nil
}

func clip(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

type Summary struct {
	Episodes    int
	MeanReturn  float64
	StdReturn   float64
	MinReturn   float64
	MaxReturn   float64
	MeanSteps   float64
	SuccessRate float64
}

func Summarize(episodes []Episode) Summary {
	s := Summary{Episodes: len(episodes)}
	if len(episodes) == 0 {
		return s
	}

	returns := make([]float64, len(episodes))
	steps := make([]float64, len(episodes))
	var reached int
	for i, ep := range episodes {
		returns[i] = ep.Return
		steps[i] = float64(ep.Steps)
		if ep.Termination == Reached {
			reached++
		}
	}

	s.MeanReturn = stat.Mean(returns, nil)
	if len(returns) > 1 {
		s.StdReturn = stat.StdDev(returns, nil)
	}
	s.MinReturn, s.MaxReturn = returns[0], returns[0]
	for _, r := range returns[1:] {
		s.MinReturn = math.Min(s.MinReturn, r)
		s.MaxReturn = math.Max(s.MaxReturn, r)
	}
	s.MeanSteps = stat.Mean(steps, nil)
	s.SuccessRate = float64(reached) / float64(len(episodes))
	return s
}
